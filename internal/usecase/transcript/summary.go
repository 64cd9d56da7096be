package transcript

import (
	"time"

	"github.com/johnquangdev/earnings-transcripts/internal/domain/entities"
)

// RunSummary aggregates the outcomes of one ingestion run
type RunSummary struct {
	RunID              string                      `json:"run_id,omitempty"`
	Symbol             string                      `json:"symbol"`
	QuartersProcessed  int                         `json:"quarters_processed"`
	SuccessfulQuarters int                         `json:"successful_quarters"`
	TotalSegments      int                         `json:"total_segments"`
	TotalWords         int                         `json:"total_words"`
	Bucket             string                      `json:"s3_bucket"`
	Results            []entities.IngestionOutcome `json:"results"`
	Timestamp          time.Time                   `json:"timestamp"`
}

// Summarize builds the run summary. A quarter counts as successful when it
// was fetched and stored; only those contribute to the segment and word totals.
func Summarize(symbol, bucket string, outcomes []entities.IngestionOutcome, at time.Time) RunSummary {
	summary := RunSummary{
		Symbol:            symbol,
		QuartersProcessed: len(outcomes),
		Bucket:            bucket,
		Results:           outcomes,
		Timestamp:         at.UTC(),
	}
	if summary.Results == nil {
		summary.Results = []entities.IngestionOutcome{}
	}

	for _, o := range outcomes {
		if !o.Stored() {
			continue
		}
		summary.SuccessfulQuarters++
		summary.TotalSegments += o.StorageResult.Aggregates.TotalSegments
		summary.TotalWords += o.StorageResult.Aggregates.TotalWords
	}

	return summary
}
