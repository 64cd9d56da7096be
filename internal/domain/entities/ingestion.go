package entities

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// IngestionType identifies a provider ingestion job. Each type has its own
// retention policy for the rows it writes.
type IngestionType string

const (
	IngestionTypeTranscript IngestionType = "transcript"
	IngestionTypeCalendar   IngestionType = "calendar"
)

const day = 24 * time.Hour

var retentionByType = map[IngestionType]time.Duration{
	IngestionTypeTranscript: 5 * 365 * day,
	IngestionTypeCalendar:   365 * day,
}

// RetentionFor returns how long rows of the given ingestion type are kept
func RetentionFor(t IngestionType) (time.Duration, error) {
	d, ok := retentionByType[t]
	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrInvalidIngestionType, t)
	}
	return d, nil
}

// ExpiryEpoch is the TTL attribute (epoch seconds) for a row created at createdAt
func ExpiryEpoch(t IngestionType, createdAt time.Time) (int64, error) {
	d, err := RetentionFor(t)
	if err != nil {
		return 0, err
	}
	return createdAt.Add(d).Unix(), nil
}

// Aggregates are the statistics derived from a raw transcript
type Aggregates struct {
	TotalSegments int             `json:"total_segments"`
	TotalWords    int             `json:"total_words"`
	AvgSentiment  decimal.Decimal `json:"avg_sentiment"`
	Speakers      []string        `json:"speakers"`
	SpeakerCount  int             `json:"speaker_count"`
}

// FetchOutcome is the classified provider response for one quarter.
// Present is true only when the payload carried at least one segment.
type FetchOutcome struct {
	Transcript *RawTranscript
	Present    bool
}

// StorageResult reports the outcome of one dual-store write
type StorageResult struct {
	Success      bool       `json:"success"`
	Reason       string     `json:"reason,omitempty"`
	TranscriptID string     `json:"transcript_id,omitempty"`
	Symbol       string     `json:"symbol"`
	Quarter      string     `json:"quarter"`
	S3Bucket     string     `json:"s3_bucket,omitempty"`
	S3Key        string     `json:"s3_key,omitempty"`
	Aggregates   Aggregates `json:"aggregates"`
	CreatedAt    time.Time  `json:"created_at,omitempty"`
}

// IngestionOutcome is the per-quarter result of an ingestion run
type IngestionOutcome struct {
	Symbol         string         `json:"symbol"`
	Quarter        string         `json:"quarter"`
	FetchSucceeded bool           `json:"fetch_succeeded"`
	StorageResult  *StorageResult `json:"storage_result,omitempty"`
	Timestamp      time.Time      `json:"timestamp"`
}

// Stored reports whether the quarter was fetched and written to both stores
func (o IngestionOutcome) Stored() bool {
	return o.FetchSucceeded && o.StorageResult != nil && o.StorageResult.Success
}
