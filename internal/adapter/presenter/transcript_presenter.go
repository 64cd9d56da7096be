package presenter

import (
	"fmt"

	"github.com/johnquangdev/earnings-transcripts/internal/adapter/dto/transcript"
	"github.com/johnquangdev/earnings-transcripts/internal/domain/entities"
	transcriptUsecase "github.com/johnquangdev/earnings-transcripts/internal/usecase/transcript"
)

// ToMetadataResponse converts a TranscriptMetadata entity to its DTO
func ToMetadataResponse(m entities.TranscriptMetadata) transcript.MetadataResponse {
	speakers := []string(m.Speakers)
	if speakers == nil {
		speakers = []string{}
	}

	return transcript.MetadataResponse{
		TranscriptID:         m.TranscriptID,
		Symbol:               m.Symbol,
		Quarter:              m.Quarter,
		S3Bucket:             m.S3Bucket,
		S3Key:                m.S3Key,
		TotalSegments:        m.TotalSegments,
		TotalWords:           m.TotalWords,
		AvgSentiment:         m.AvgSentiment.StringFixed(transcriptUsecase.SentimentPlaces),
		Speakers:             speakers,
		SpeakerCount:         m.SpeakerCount,
		ProcessedForTraining: m.ProcessedForTraining,
		CreatedAt:            m.CreatedAt,
		TTL:                  m.TTL,
		FileSizeBytes:        m.FileSizeBytes,
		Status:               string(m.Status),
	}
}

// ToMetadataListResponse converts rows, keeping their order
func ToMetadataListResponse(rows []entities.TranscriptMetadata) []transcript.MetadataResponse {
	responses := make([]transcript.MetadataResponse, len(rows))
	for i, row := range rows {
		responses[i] = ToMetadataResponse(row)
	}
	return responses
}

// ToSymbolTranscriptsResponse converts rows grouped by quarter
func ToSymbolTranscriptsResponse(symbol string, grouped map[string][]entities.TranscriptMetadata) *transcript.SymbolTranscriptsResponse {
	quarters := make(map[string][]transcript.MetadataResponse, len(grouped))
	for quarter, rows := range grouped {
		quarters[quarter] = ToMetadataListResponse(rows)
	}
	return &transcript.SymbolTranscriptsResponse{
		Symbol:   symbol,
		Quarters: quarters,
	}
}

// ToRawTranscriptResponse wraps a stored payload
func ToRawTranscriptResponse(raw *entities.RawTranscript) (*transcript.RawTranscriptResponse, error) {
	if raw == nil {
		return nil, nil
	}
	body, err := raw.Body()
	if err != nil {
		return nil, err
	}
	return &transcript.RawTranscriptResponse{
		Symbol:       raw.Symbol,
		Quarter:      raw.Quarter,
		SegmentCount: len(raw.Segments),
		Payload:      body,
	}, nil
}

// ToIngestResponse converts a run summary
func ToIngestResponse(summary transcriptUsecase.RunSummary) *transcript.IngestResponse {
	results := make([]transcript.QuarterResult, 0, len(summary.Results))
	for _, o := range summary.Results {
		result := transcript.QuarterResult{
			Quarter:        o.Quarter,
			FetchSucceeded: o.FetchSucceeded,
			Stored:         o.Stored(),
		}
		if sr := o.StorageResult; sr != nil {
			result.TranscriptID = sr.TranscriptID
			result.S3Key = sr.S3Key
			result.Reason = sr.Reason
			if sr.Success {
				result.TotalSegments = sr.Aggregates.TotalSegments
				result.TotalWords = sr.Aggregates.TotalWords
				result.AvgSentiment = sr.Aggregates.AvgSentiment.StringFixed(transcriptUsecase.SentimentPlaces)
			}
		}
		results = append(results, result)
	}

	return &transcript.IngestResponse{
		RunID:              summary.RunID,
		Symbol:             summary.Symbol,
		Message:            fmt.Sprintf("Successfully processed %d/%d quarters for %s", summary.SuccessfulQuarters, summary.QuartersProcessed, summary.Symbol),
		QuartersProcessed:  summary.QuartersProcessed,
		SuccessfulQuarters: summary.SuccessfulQuarters,
		TotalSegments:      summary.TotalSegments,
		TotalWords:         summary.TotalWords,
		S3Bucket:           summary.Bucket,
		Results:            results,
		Timestamp:          summary.Timestamp,
	}
}
