package transcript

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/johnquangdev/earnings-transcripts/internal/domain/entities"
	usecaseErrors "github.com/johnquangdev/earnings-transcripts/internal/usecase/errors"
)

var fixedNow = time.Date(2024, time.May, 2, 14, 30, 0, 0, time.UTC)

func sequentialIDs() func() string {
	n := 0
	return func() string {
		n++
		return fmt.Sprintf("%08x", n)
	}
}

func newTestWriter(t *testing.T, blobs *memBlobStore, repo *memMetadataRepo, opts ...WriterOption) *DualStoreWriter {
	t.Helper()
	opts = append([]WriterOption{WithClock(func() time.Time { return fixedNow }), WithIDGenerator(sequentialIDs())}, opts...)
	w, err := NewDualStoreWriter(blobs, repo, nil, opts...)
	require.NoError(t, err)
	return w
}

func TestNewDualStoreWriter_RequiresStores(t *testing.T) {
	_, err := NewDualStoreWriter(nil, &memMetadataRepo{}, nil)
	assert.ErrorIs(t, err, usecaseErrors.ErrBlobStoreRequired)

	_, err = NewDualStoreWriter(newMemBlobStore(), nil, nil)
	assert.ErrorIs(t, err, usecaseErrors.ErrMetadataRepoRequired)
}

func TestWrite_Success(t *testing.T) {
	blobs := newMemBlobStore()
	repo := &memMetadataRepo{}
	w := newTestWriter(t, blobs, repo)

	payload := []byte(`{"symbol":"IBM","quarter":"2024Q1","transcript":[{"speaker":"A","title":"CEO","content":"good quarter","sentiment":"0.5"}]}`)
	raw, err := entities.DecodeRawTranscript(payload)
	require.NoError(t, err)

	result := w.Write(context.Background(), raw)

	require.True(t, result.Success, result.Reason)
	assert.Equal(t, "IBM_2024Q1_00000001", result.TranscriptID)
	assert.Equal(t, "transcripts/IBM/2024Q1/transcript.json", result.S3Key)
	assert.Equal(t, "earnings-data", result.S3Bucket)
	assert.Equal(t, 2, result.Aggregates.TotalWords)
	assert.Equal(t, fixedNow, result.CreatedAt)

	object := blobs.objects[result.S3Key]
	assert.Equal(t, payload, object.Body)
	assert.Equal(t, "application/json", object.ContentType)
	assert.Equal(t, map[string]string{
		"symbol":        "IBM",
		"quarter":       "2024Q1",
		"transcript_id": "IBM_2024Q1_00000001",
		"created_at":    "2024-05-02T14:30:00Z",
	}, object.Metadata)

	require.Len(t, repo.rows, 1)
	row := repo.rows[0]
	assert.Equal(t, result.TranscriptID, row.TranscriptID)
	assert.Equal(t, entities.TranscriptStatusStored, row.Status)
	assert.False(t, row.ProcessedForTraining)
	assert.Equal(t, int64(len(payload)), row.FileSizeBytes)
	assert.True(t, decimal.RequireFromString("0.5").Equal(row.AvgSentiment))
	assert.Equal(t, []string{"A"}, []string(row.Speakers))
	assert.Equal(t, fixedNow.Add(5*365*24*time.Hour).Unix(), row.TTL)
}

func TestWrite_NoSegmentsTouchesNoStore(t *testing.T) {
	blobs := newMemBlobStore()
	repo := &memMetadataRepo{}
	w := newTestWriter(t, blobs, repo)

	result := w.Write(context.Background(), rawTranscript("IBM", "2024Q1"))

	assert.False(t, result.Success)
	assert.Equal(t, "no segments found", result.Reason)
	assert.Equal(t, 0, blobs.puts)
	assert.Equal(t, 0, repo.creates)

	result = w.Write(context.Background(), nil)
	assert.False(t, result.Success)
	assert.Equal(t, 0, blobs.puts)
}

func TestWrite_RerunOverwritesBlobAndAppendsRow(t *testing.T) {
	blobs := newMemBlobStore()
	repo := &memMetadataRepo{}
	w := newTestWriter(t, blobs, repo)

	first, err := entities.DecodeRawTranscript([]byte(`{"symbol":"IBM","quarter":"2024Q1","transcript":[{"speaker":"A","content":"first version"}]}`))
	require.NoError(t, err)
	second, err := entities.DecodeRawTranscript([]byte(`{"symbol":"IBM","quarter":"2024Q1","transcript":[{"speaker":"A","content":"second version here"}]}`))
	require.NoError(t, err)

	r1 := w.Write(context.Background(), first)
	r2 := w.Write(context.Background(), second)

	require.True(t, r1.Success)
	require.True(t, r2.Success)
	assert.NotEqual(t, r1.TranscriptID, r2.TranscriptID)
	assert.Equal(t, r1.S3Key, r2.S3Key)

	assert.Len(t, blobs.objects, 1)
	assert.Equal(t, []byte(second.Payload), blobs.objects[r2.S3Key].Body)

	require.Len(t, repo.rows, 2)
	assert.Equal(t, r1.S3Key, repo.rows[0].S3Key)
	assert.Equal(t, r2.S3Key, repo.rows[1].S3Key)
}

func TestWrite_BlobFailureSkipsMetadata(t *testing.T) {
	blobs := newMemBlobStore()
	blobs.putErr = errors.New("connection reset")
	repo := &memMetadataRepo{}
	w := newTestWriter(t, blobs, repo)

	result := w.Write(context.Background(), rawTranscript("IBM", "2024Q1", segment("A", "hello", nil)))

	assert.False(t, result.Success)
	assert.Contains(t, result.Reason, "blob write failed")
	assert.Contains(t, result.Reason, "connection reset")
	assert.Equal(t, 0, repo.creates)
}

func TestWrite_MetadataFailureKeepsBlob(t *testing.T) {
	blobs := newMemBlobStore()
	repo := &memMetadataRepo{createErr: errors.New("relation does not exist")}
	w := newTestWriter(t, blobs, repo)

	result := w.Write(context.Background(), rawTranscript("IBM", "2024Q1", segment("A", "hello", nil)))

	assert.False(t, result.Success)
	assert.Contains(t, result.Reason, "metadata write failed")
	assert.Contains(t, blobs.objects, "transcripts/IBM/2024Q1/transcript.json")
	assert.Empty(t, repo.rows)
}

func TestWrite_BodyWithoutPayload(t *testing.T) {
	blobs := newMemBlobStore()
	repo := &memMetadataRepo{}
	w := newTestWriter(t, blobs, repo)

	result := w.Write(context.Background(), rawTranscript("IBM", "2024Q1", segment("A", "hello", score(0.25))))
	require.True(t, result.Success)

	stored, err := entities.DecodeRawTranscript(blobs.objects[result.S3Key].Body)
	require.NoError(t, err)
	assert.Equal(t, "IBM", stored.Symbol)
	require.Len(t, stored.Segments, 1)
	assert.True(t, decimal.RequireFromString("0.25").Equal(stored.Segments[0].Sentiment.Value))
}

func TestShortID(t *testing.T) {
	id := shortID()
	assert.Len(t, id, 8)
	assert.Regexp(t, "^[0-9a-f]{8}$", id)
	assert.Equal(t, "IBM_2024Q1_abcdef12", NewTranscriptID("IBM", "2024Q1", "abcdef12"))
}
