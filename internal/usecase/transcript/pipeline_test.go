package transcript

import (
	"context"
	"slices"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/johnquangdev/earnings-transcripts/internal/domain/entities"
	usecaseErrors "github.com/johnquangdev/earnings-transcripts/internal/usecase/errors"
)

func newTestPipeline(t *testing.T, fetcher *scriptedFetcher) (*Pipeline, *memBlobStore, *memMetadataRepo) {
	t.Helper()
	blobs := newMemBlobStore()
	repo := &memMetadataRepo{}
	w := newTestWriter(t, blobs, repo)
	p, err := NewPipeline(fetcher, w, nil, WithPipelineClock(func() time.Time { return fixedNow }))
	require.NoError(t, err)
	return p, blobs, repo
}

func TestNewPipeline_RequiresCollaborators(t *testing.T) {
	_, err := NewPipeline(nil, &DualStoreWriter{}, nil)
	assert.ErrorIs(t, err, usecaseErrors.ErrFetcherRequired)

	_, err = NewPipeline(&scriptedFetcher{}, nil, nil)
	assert.ErrorIs(t, err, usecaseErrors.ErrWriterRequired)
}

func TestRun_MixedOutcomes(t *testing.T) {
	fetcher := &scriptedFetcher{responses: map[string]*entities.RawTranscript{
		"2023Q4": rawTranscript("IBM", "2023Q4", segment("A", "one two", score(0.2))),
		"2024Q1": rawTranscript("IBM", "2024Q1"),
		"2024Q2": rawTranscript("IBM", "2024Q2", segment("B", "three four five", nil)),
	}}
	p, blobs, repo := newTestPipeline(t, fetcher)

	seq, err := p.Run(context.Background(), IngestRequest{Symbol: "IBM", StartQuarter: "2023Q3", EndQuarter: "2024Q2"})
	require.NoError(t, err)
	assert.Empty(t, fetcher.calls, "nothing is fetched before iteration")

	outcomes := slices.Collect(seq)

	require.Len(t, outcomes, 4)
	assert.Equal(t, []string{"2023Q3", "2023Q4", "2024Q1", "2024Q2"}, fetcher.calls)

	assert.Equal(t, "2023Q3", outcomes[0].Quarter)
	assert.False(t, outcomes[0].FetchSucceeded)
	assert.Nil(t, outcomes[0].StorageResult)

	assert.True(t, outcomes[1].Stored())
	assert.False(t, outcomes[2].FetchSucceeded, "empty segment list is an absent fetch")
	assert.True(t, outcomes[3].Stored())
	assert.Equal(t, fixedNow, outcomes[3].Timestamp)

	assert.Len(t, blobs.objects, 2)
	assert.Len(t, repo.rows, 2)

	summary := Summarize("IBM", blobs.Bucket(), outcomes, fixedNow)
	assert.Equal(t, 4, summary.QuartersProcessed)
	assert.Equal(t, 2, summary.SuccessfulQuarters)
	assert.Equal(t, 2, summary.TotalSegments)
	assert.Equal(t, 5, summary.TotalWords)
	assert.Equal(t, "earnings-data", summary.Bucket)
}

func TestRun_StopsWhenConsumerBreaks(t *testing.T) {
	fetcher := &scriptedFetcher{}
	p, _, _ := newTestPipeline(t, fetcher)

	seq, err := p.Run(context.Background(), IngestRequest{Symbol: "IBM", StartQuarter: "2020Q1", EndQuarter: "2024Q4"})
	require.NoError(t, err)

	seen := 0
	for range seq {
		seen++
		if seen == 2 {
			break
		}
	}

	assert.Equal(t, 2, seen)
	assert.Equal(t, []string{"2020Q1", "2020Q2"}, fetcher.calls)
}

func TestRun_StopsWhenContextCancelled(t *testing.T) {
	fetcher := &scriptedFetcher{}
	p, _, _ := newTestPipeline(t, fetcher)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	seq, err := p.Run(ctx, IngestRequest{Symbol: "IBM", StartQuarter: "2024Q1", EndQuarter: "2024Q4"})
	require.NoError(t, err)

	var quarters []string
	for outcome := range seq {
		quarters = append(quarters, outcome.Quarter)
		cancel()
	}

	assert.Equal(t, []string{"2024Q1"}, quarters)
	assert.Len(t, fetcher.calls, 1)
}

func TestRun_DefaultsEndToCurrentQuarter(t *testing.T) {
	fetcher := &scriptedFetcher{}
	p, _, _ := newTestPipeline(t, fetcher)

	seq, err := p.Run(context.Background(), IngestRequest{Symbol: "IBM", StartQuarter: "2023Q4"})
	require.NoError(t, err)

	var quarters []string
	for outcome := range seq {
		quarters = append(quarters, outcome.Quarter)
	}
	assert.Equal(t, []string{"2023Q4", "2024Q1", "2024Q2"}, quarters)
}

func TestRun_ValidationBeforeAnyFetch(t *testing.T) {
	tests := []struct {
		name    string
		req     IngestRequest
		wantErr error
	}{
		{name: "missing symbol", req: IngestRequest{StartQuarter: "2024Q1"}, wantErr: usecaseErrors.ErrSymbolRequired},
		{name: "bad start", req: IngestRequest{Symbol: "IBM", StartQuarter: "2024-Q1"}, wantErr: entities.ErrInvalidQuarter},
		{name: "quarter out of range", req: IngestRequest{Symbol: "IBM", StartQuarter: "2024Q5"}, wantErr: entities.ErrQuarterOutOfRange},
		{name: "bad end", req: IngestRequest{Symbol: "IBM", StartQuarter: "2024Q1", EndQuarter: "24Q2"}, wantErr: entities.ErrInvalidQuarter},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fetcher := &scriptedFetcher{}
			p, _, _ := newTestPipeline(t, fetcher)

			seq, err := p.Run(context.Background(), tt.req)

			assert.ErrorIs(t, err, tt.wantErr)
			assert.Nil(t, seq)
			assert.Empty(t, fetcher.calls)
		})
	}
}

func TestSummarize_Empty(t *testing.T) {
	summary := Summarize("IBM", "earnings-data", nil, fixedNow)

	assert.Equal(t, 0, summary.QuartersProcessed)
	assert.NotNil(t, summary.Results)
}
