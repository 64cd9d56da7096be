package entities

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
)

// TranscriptStatus is the lifecycle status recorded on a metadata row
type TranscriptStatus string

const (
	TranscriptStatusStored TranscriptStatus = "stored"
)

// DefaultTranscriptsTable is used when no table name is configured
const DefaultTranscriptsTable = "earnings_transcripts"

// TranscriptMetadata is the derived summary row written once per ingestion
// run. Rows are append-only: a rerun of the same symbol and quarter inserts a
// new row with a new TranscriptID.
type TranscriptMetadata struct {
	TranscriptID         string                      `json:"transcript_id" gorm:"type:varchar(255);primaryKey"`
	Symbol               string                      `json:"symbol" gorm:"type:varchar(20);not null;index:symbol_quarter_index,priority:1"`
	Quarter              string                      `json:"quarter" gorm:"type:varchar(6);not null;index:symbol_quarter_index,priority:2"`
	S3Bucket             string                      `json:"s3_bucket" gorm:"type:varchar(255);not null"`
	S3Key                string                      `json:"s3_key" gorm:"type:text;not null"`
	TotalSegments        int                         `json:"total_segments" gorm:"not null"`
	TotalWords           int                         `json:"total_words" gorm:"not null"`
	AvgSentiment         decimal.Decimal             `json:"avg_sentiment" gorm:"type:numeric(12,6);not null"`
	Speakers             datatypes.JSONSlice[string] `json:"speakers" gorm:"type:jsonb"`
	SpeakerCount         int                         `json:"speaker_count" gorm:"not null"`
	ProcessedForTraining bool                        `json:"processed_for_training" gorm:"default:false"`
	CreatedAt            time.Time                   `json:"created_at" gorm:"type:timestamptz;not null"`
	TTL                  int64                       `json:"ttl" gorm:"column:ttl;not null"`
	FileSizeBytes        int64                       `json:"file_size_bytes"`
	Status               TranscriptStatus            `json:"status" gorm:"type:varchar(50);not null"`
}

// TableName specifies the default table name for GORM. Repositories override
// it with the configured table.
func (TranscriptMetadata) TableName() string {
	return DefaultTranscriptsTable
}

// OrderedBefore is the ordering used when listing rows of one quarter:
// creation time ascending, ties broken by transcript id.
func (m TranscriptMetadata) OrderedBefore(other TranscriptMetadata) bool {
	if !m.CreatedAt.Equal(other.CreatedAt) {
		return m.CreatedAt.Before(other.CreatedAt)
	}
	return m.TranscriptID < other.TranscriptID
}
