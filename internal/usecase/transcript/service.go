package transcript

import (
	"context"
	"iter"

	"github.com/johnquangdev/earnings-transcripts/internal/domain/entities"
)

// Fetcher retrieves one quarter of transcript data from the provider
type Fetcher interface {
	// Fetch never fails; problems are reported as an absent outcome
	Fetch(ctx context.Context, symbol, quarter string) entities.FetchOutcome
}

// Writer persists a fetched transcript to the blob and metadata stores
type Writer interface {
	Write(ctx context.Context, raw *entities.RawTranscript) entities.StorageResult
}

// Ingester runs the quarter-ranged ingestion for one symbol
type Ingester interface {
	// Run validates req and returns the lazy per-quarter outcome sequence
	Run(ctx context.Context, req IngestRequest) (iter.Seq[entities.IngestionOutcome], error)
}

// Querier reads persisted transcripts back
type Querier interface {
	// BySymbolAndQuarter returns every metadata row of a quarter in creation order
	BySymbolAndQuarter(ctx context.Context, symbol, quarter string) ([]entities.TranscriptMetadata, error)

	// AllForSymbol returns the metadata rows of a symbol grouped by quarter
	AllForSymbol(ctx context.Context, symbol string) (map[string][]entities.TranscriptMetadata, error)

	// RawTranscript returns the stored payload, or nil when none exists
	RawTranscript(ctx context.Context, symbol, quarter string) (*entities.RawTranscript, error)

	// StoredQuarters lists the quarters with a stored payload, oldest first
	StoredQuarters(ctx context.Context, symbol string) ([]string, error)
}

// IngestRequest is the input of an ingestion run
type IngestRequest struct {
	Symbol       string `json:"symbol" validate:"required,max=20"`
	StartQuarter string `json:"start_quarter" validate:"required,fiscal_quarter"`
	EndQuarter   string `json:"end_quarter,omitempty" validate:"omitempty,fiscal_quarter"`
}
