package transcript

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"go.uber.org/zap"

	"github.com/johnquangdev/earnings-transcripts/internal/domain/entities"
	"github.com/johnquangdev/earnings-transcripts/internal/domain/repositories"
	usecaseErrors "github.com/johnquangdev/earnings-transcripts/internal/usecase/errors"
)

// QueryService reads what DualStoreWriter persisted
type QueryService struct {
	blobs    repositories.BlobStore
	metadata repositories.TranscriptMetadataRepository
	logger   *zap.Logger
}

var _ Querier = (*QueryService)(nil)

// NewQueryService creates a new query service
func NewQueryService(
	blobs repositories.BlobStore,
	metadata repositories.TranscriptMetadataRepository,
	logger *zap.Logger,
) *QueryService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &QueryService{
		blobs:    blobs,
		metadata: metadata,
		logger:   logger,
	}
}

// BySymbolAndQuarter returns the metadata rows of one quarter, oldest first
func (s *QueryService) BySymbolAndQuarter(ctx context.Context, symbol, quarter string) ([]entities.TranscriptMetadata, error) {
	if symbol == "" {
		return nil, usecaseErrors.ErrSymbolRequired
	}

	rows, err := s.metadata.FindBySymbolAndQuarter(ctx, symbol, quarter)
	if err != nil {
		return nil, fmt.Errorf("failed to query transcripts for %s %s: %w", symbol, quarter, err)
	}

	sortRows(rows)
	return rows, nil
}

// AllForSymbol returns every metadata row of a symbol grouped by quarter.
// Each group is ordered oldest first.
func (s *QueryService) AllForSymbol(ctx context.Context, symbol string) (map[string][]entities.TranscriptMetadata, error) {
	if symbol == "" {
		return nil, usecaseErrors.ErrSymbolRequired
	}

	rows, err := s.metadata.FindBySymbol(ctx, symbol)
	if err != nil {
		return nil, fmt.Errorf("failed to query transcripts for %s: %w", symbol, err)
	}

	grouped := make(map[string][]entities.TranscriptMetadata)
	for _, row := range rows {
		grouped[row.Quarter] = append(grouped[row.Quarter], row)
	}
	for quarter := range grouped {
		sortRows(grouped[quarter])
	}

	return grouped, nil
}

// RawTranscript loads the stored payload of a quarter. It returns nil and no
// error when nothing is stored at the key.
func (s *QueryService) RawTranscript(ctx context.Context, symbol, quarter string) (*entities.RawTranscript, error) {
	if symbol == "" {
		return nil, usecaseErrors.ErrSymbolRequired
	}

	key := entities.TranscriptBlobKey(symbol, quarter)
	object, err := s.blobs.Get(ctx, key)
	if err != nil {
		return nil, fmt.Errorf("failed to read raw transcript %s: %w", key, err)
	}
	if object == nil {
		s.logger.Debug("Raw transcript not found", zap.String("s3_key", key))
		return nil, nil
	}

	raw, err := entities.DecodeRawTranscript(object.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to decode raw transcript %s: %w", key, err)
	}
	return raw, nil
}

// StoredQuarters lists the quarters of a symbol that have a stored payload,
// oldest first
func (s *QueryService) StoredQuarters(ctx context.Context, symbol string) ([]string, error) {
	if symbol == "" {
		return nil, usecaseErrors.ErrSymbolRequired
	}

	prefix := entities.TranscriptBlobPrefix(symbol)
	keys, err := s.blobs.List(ctx, prefix)
	if err != nil {
		return nil, fmt.Errorf("failed to list transcripts under %s: %w", prefix, err)
	}

	var quarters []entities.FiscalQuarter
	for _, key := range keys {
		rest := strings.TrimPrefix(key, prefix)
		quarterPart, file, found := strings.Cut(rest, "/")
		if !found || file != "transcript.json" {
			continue
		}
		q, err := entities.ParseFiscalQuarter(quarterPart)
		if err != nil {
			s.logger.Warn("Skipping unexpected blob key", zap.String("s3_key", key))
			continue
		}
		quarters = append(quarters, q)
	}

	sort.Slice(quarters, func(i, j int) bool { return quarters[i].Before(quarters[j]) })

	result := make([]string, 0, len(quarters))
	for _, q := range quarters {
		result = append(result, q.String())
	}
	return result, nil
}

func sortRows(rows []entities.TranscriptMetadata) {
	sort.SliceStable(rows, func(i, j int) bool { return rows[i].OrderedBefore(rows[j]) })
}
