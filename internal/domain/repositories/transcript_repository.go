package repositories

import (
	"context"

	"github.com/johnquangdev/earnings-transcripts/internal/domain/entities"
)

// TranscriptMetadataRepository defines the indexed metadata store
type TranscriptMetadataRepository interface {
	// Create inserts a new row. Existing rows are never updated.
	Create(ctx context.Context, metadata *entities.TranscriptMetadata) error

	// FindBySymbolAndQuarter reads through the symbol+quarter index
	FindBySymbolAndQuarter(ctx context.Context, symbol, quarter string) ([]entities.TranscriptMetadata, error)

	// FindBySymbol reads every row of a symbol through the same index
	FindBySymbol(ctx context.Context, symbol string) ([]entities.TranscriptMetadata, error)
}

// BlobObject is a stored object with its user metadata
type BlobObject struct {
	Key         string
	Body        []byte
	ContentType string
	Metadata    map[string]string
}

// BlobStore defines the raw transcript object store
type BlobStore interface {
	// Bucket returns the bucket objects are written to
	Bucket() string

	// Put writes an object, replacing any object already at key
	Put(ctx context.Context, object BlobObject) error

	// Get returns the object at key, or nil and no error when it does not exist
	Get(ctx context.Context, key string) (*BlobObject, error)

	// List returns the keys under prefix
	List(ctx context.Context, prefix string) ([]string, error)
}
