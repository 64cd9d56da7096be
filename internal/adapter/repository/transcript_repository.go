package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/johnquangdev/earnings-transcripts/internal/domain/entities"
	"github.com/johnquangdev/earnings-transcripts/internal/domain/repositories"
)

// TranscriptMetadataRepository handles transcript metadata rows
type TranscriptMetadataRepository struct {
	db    *gorm.DB
	table string
}

var _ repositories.TranscriptMetadataRepository = (*TranscriptMetadataRepository)(nil)

// NewTranscriptMetadataRepository creates a repository writing to table.
// An empty table name falls back to entities.DefaultTranscriptsTable.
func NewTranscriptMetadataRepository(db *gorm.DB, table string) *TranscriptMetadataRepository {
	if table == "" {
		table = entities.DefaultTranscriptsTable
	}
	return &TranscriptMetadataRepository{db: db, table: table}
}

// Create inserts a new metadata row
func (r *TranscriptMetadataRepository) Create(ctx context.Context, metadata *entities.TranscriptMetadata) error {
	if metadata == nil {
		return errors.New("metadata cannot be nil")
	}
	return r.db.WithContext(ctx).Table(r.table).Create(metadata).Error
}

// FindBySymbolAndQuarter retrieves every row of a symbol and quarter
func (r *TranscriptMetadataRepository) FindBySymbolAndQuarter(ctx context.Context, symbol, quarter string) ([]entities.TranscriptMetadata, error) {
	var rows []entities.TranscriptMetadata
	if err := r.db.WithContext(ctx).
		Table(r.table).
		Where("symbol = ? AND quarter = ?", symbol, quarter).
		Order("created_at ASC, transcript_id ASC").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// FindBySymbol retrieves every row of a symbol
func (r *TranscriptMetadataRepository) FindBySymbol(ctx context.Context, symbol string) ([]entities.TranscriptMetadata, error) {
	var rows []entities.TranscriptMetadata
	if err := r.db.WithContext(ctx).
		Table(r.table).
		Where("symbol = ?", symbol).
		Order("quarter ASC, created_at ASC, transcript_id ASC").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}
