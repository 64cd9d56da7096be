package transcript

import (
	"encoding/json"
	"time"
)

// MetadataResponse is one stored ingestion of a quarter
type MetadataResponse struct {
	TranscriptID         string    `json:"transcript_id" example:"IBM_2024Q1_3f9a1c2e"`
	Symbol               string    `json:"symbol" example:"IBM"`
	Quarter              string    `json:"quarter" example:"2024Q1"`
	S3Bucket             string    `json:"s3_bucket" example:"earnings-data"`
	S3Key                string    `json:"s3_key" example:"transcripts/IBM/2024Q1/transcript.json"`
	TotalSegments        int       `json:"total_segments" example:"42"`
	TotalWords           int       `json:"total_words" example:"8731"`
	AvgSentiment         string    `json:"avg_sentiment" example:"0.412500"`
	Speakers             []string  `json:"speakers"`
	SpeakerCount         int       `json:"speaker_count" example:"7"`
	ProcessedForTraining bool      `json:"processed_for_training"`
	CreatedAt            time.Time `json:"created_at"`
	TTL                  int64     `json:"ttl"`
	FileSizeBytes        int64     `json:"file_size_bytes"`
	Status               string    `json:"status" example:"stored"`
}

// QuarterTranscriptsResponse lists the stored ingestions of one quarter
type QuarterTranscriptsResponse struct {
	Symbol      string             `json:"symbol"`
	Quarter     string             `json:"quarter"`
	Transcripts []MetadataResponse `json:"transcripts"`
}

// SymbolTranscriptsResponse lists every stored ingestion of a symbol by quarter
type SymbolTranscriptsResponse struct {
	Symbol   string                        `json:"symbol"`
	Quarters map[string][]MetadataResponse `json:"quarters"`
}

// StoredQuartersResponse lists the quarters with a stored raw transcript
type StoredQuartersResponse struct {
	Symbol   string   `json:"symbol"`
	Quarters []string `json:"quarters"`
}

// RawTranscriptResponse carries the provider payload as stored
type RawTranscriptResponse struct {
	Symbol       string          `json:"symbol"`
	Quarter      string          `json:"quarter"`
	SegmentCount int             `json:"segment_count"`
	Payload      json.RawMessage `json:"payload" swaggertype:"object"`
}

// QuarterResult is the per-quarter line of an ingestion run
type QuarterResult struct {
	Quarter        string `json:"quarter"`
	FetchSucceeded bool   `json:"fetch_succeeded"`
	Stored         bool   `json:"stored"`
	TranscriptID   string `json:"transcript_id,omitempty"`
	S3Key          string `json:"s3_key,omitempty"`
	TotalSegments  int    `json:"total_segments,omitempty"`
	TotalWords     int    `json:"total_words,omitempty"`
	AvgSentiment   string `json:"avg_sentiment,omitempty"`
	Reason         string `json:"reason,omitempty"`
}

// IngestResponse summarizes an ingestion run
type IngestResponse struct {
	RunID              string          `json:"run_id"`
	Symbol             string          `json:"symbol"`
	Message            string          `json:"message" example:"Successfully processed 3/4 quarters for IBM"`
	QuartersProcessed  int             `json:"quarters_processed"`
	SuccessfulQuarters int             `json:"successful_quarters"`
	TotalSegments      int             `json:"total_segments"`
	TotalWords         int             `json:"total_words"`
	S3Bucket           string          `json:"s3_bucket"`
	Results            []QuarterResult `json:"results"`
	Timestamp          time.Time       `json:"timestamp"`
}
