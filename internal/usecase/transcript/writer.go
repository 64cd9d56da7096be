package transcript

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/datatypes"

	"github.com/johnquangdev/earnings-transcripts/internal/domain/entities"
	"github.com/johnquangdev/earnings-transcripts/internal/domain/repositories"
	usecaseErrors "github.com/johnquangdev/earnings-transcripts/internal/usecase/errors"
	"github.com/johnquangdev/earnings-transcripts/pkg/jobcontext"
)

const jsonContentType = "application/json"

// DualStoreWriter writes the raw payload to the blob store, then a new
// metadata row to the indexed store. The two writes are not transactional:
// a metadata failure leaves the blob in place.
type DualStoreWriter struct {
	blobs    repositories.BlobStore
	metadata repositories.TranscriptMetadataRepository
	now      func() time.Time
	newID    func() string
	logger   *zap.Logger
}

var _ Writer = (*DualStoreWriter)(nil)

// WriterOption configures a DualStoreWriter
type WriterOption func(*DualStoreWriter)

// WithClock replaces the clock used for created_at and ttl
func WithClock(now func() time.Time) WriterOption {
	return func(w *DualStoreWriter) { w.now = now }
}

// WithIDGenerator replaces the transcript id suffix generator
func WithIDGenerator(newID func() string) WriterOption {
	return func(w *DualStoreWriter) { w.newID = newID }
}

// NewDualStoreWriter creates a writer over the given stores
func NewDualStoreWriter(
	blobs repositories.BlobStore,
	metadata repositories.TranscriptMetadataRepository,
	logger *zap.Logger,
	opts ...WriterOption,
) (*DualStoreWriter, error) {
	if blobs == nil {
		return nil, usecaseErrors.ErrBlobStoreRequired
	}
	if metadata == nil {
		return nil, usecaseErrors.ErrMetadataRepoRequired
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	w := &DualStoreWriter{
		blobs:    blobs,
		metadata: metadata,
		now:      time.Now,
		newID:    shortID,
		logger:   logger,
	}
	for _, opt := range opts {
		opt(w)
	}
	return w, nil
}

// NewTranscriptID builds "{symbol}_{quarter}_{suffix}"
func NewTranscriptID(symbol, quarter, suffix string) string {
	return fmt.Sprintf("%s_%s_%s", symbol, quarter, suffix)
}

// shortID returns the first 8 hex characters of a random UUID
func shortID() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")[:8]
}

// Write persists raw and reports the result. It never returns an error;
// failures are carried in StorageResult.Reason.
func (w *DualStoreWriter) Write(ctx context.Context, raw *entities.RawTranscript) entities.StorageResult {
	if !raw.HasSegments() {
		result := entities.StorageResult{Reason: usecaseErrors.ErrNoSegments.Error()}
		if raw != nil {
			result.Symbol, result.Quarter = raw.Symbol, raw.Quarter
		}
		return result
	}

	createdAt := w.now().UTC()
	transcriptID := NewTranscriptID(raw.Symbol, raw.Quarter, w.newID())
	key := entities.TranscriptBlobKey(raw.Symbol, raw.Quarter)

	logger := w.logger.With(jobcontext.Fields(ctx)...).With(
		zap.String("symbol", raw.Symbol),
		zap.String("quarter", raw.Quarter),
		zap.String("transcript_id", transcriptID),
		zap.String("s3_key", key),
	)

	result := entities.StorageResult{
		TranscriptID: transcriptID,
		Symbol:       raw.Symbol,
		Quarter:      raw.Quarter,
		S3Bucket:     w.blobs.Bucket(),
		S3Key:        key,
	}

	body, err := raw.Body()
	if err != nil {
		result.Reason = fmt.Sprintf("%v: encode payload: %v", usecaseErrors.ErrBlobWriteFailed, err)
		logger.Error("Failed to encode transcript payload", zap.Error(err))
		return result
	}

	if err := w.blobs.Put(ctx, repositories.BlobObject{
		Key:         key,
		Body:        body,
		ContentType: jsonContentType,
		Metadata: map[string]string{
			"symbol":        raw.Symbol,
			"quarter":       raw.Quarter,
			"transcript_id": transcriptID,
			"created_at":    createdAt.Format(time.RFC3339),
		},
	}); err != nil {
		result.Reason = fmt.Sprintf("%v: %v", usecaseErrors.ErrBlobWriteFailed, err)
		logger.Error("Failed to store raw transcript", zap.Error(err))
		return result
	}

	agg := Derive(raw)

	ttl, err := entities.ExpiryEpoch(entities.IngestionTypeTranscript, createdAt)
	if err != nil {
		result.Reason = fmt.Sprintf("%v: %v", usecaseErrors.ErrMetadataWriteFailed, err)
		return result
	}

	row := &entities.TranscriptMetadata{
		TranscriptID:         transcriptID,
		Symbol:               raw.Symbol,
		Quarter:              raw.Quarter,
		S3Bucket:             w.blobs.Bucket(),
		S3Key:                key,
		TotalSegments:        agg.TotalSegments,
		TotalWords:           agg.TotalWords,
		AvgSentiment:         agg.AvgSentiment,
		Speakers:             datatypes.JSONSlice[string](agg.Speakers),
		SpeakerCount:         agg.SpeakerCount,
		ProcessedForTraining: false,
		CreatedAt:            createdAt,
		TTL:                  ttl,
		FileSizeBytes:        int64(len(body)),
		Status:               entities.TranscriptStatusStored,
	}

	if err := w.metadata.Create(ctx, row); err != nil {
		// The blob stays; there is no rollback.
		result.Reason = fmt.Sprintf("%v: %v", usecaseErrors.ErrMetadataWriteFailed, err)
		logger.Error("Failed to store transcript metadata", zap.Error(err))
		return result
	}

	result.Success = true
	result.Aggregates = agg
	result.CreatedAt = createdAt

	logger.Info("Transcript stored",
		zap.Int("total_segments", agg.TotalSegments),
		zap.Int("total_words", agg.TotalWords),
		zap.Int("speaker_count", agg.SpeakerCount),
	)

	return result
}
