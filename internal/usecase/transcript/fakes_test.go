package transcript

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"

	"github.com/johnquangdev/earnings-transcripts/internal/domain/entities"
	"github.com/johnquangdev/earnings-transcripts/internal/domain/repositories"
)

type memBlobStore struct {
	mu      sync.Mutex
	bucket  string
	objects map[string]repositories.BlobObject
	puts    int
	putErr  error
}

func newMemBlobStore() *memBlobStore {
	return &memBlobStore{bucket: "earnings-data", objects: make(map[string]repositories.BlobObject)}
}

func (m *memBlobStore) Bucket() string { return m.bucket }

func (m *memBlobStore) Put(_ context.Context, object repositories.BlobObject) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.puts++
	if m.putErr != nil {
		return m.putErr
	}
	object.Body = append([]byte(nil), object.Body...)
	m.objects[object.Key] = object
	return nil
}

func (m *memBlobStore) Get(_ context.Context, key string) (*repositories.BlobObject, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	object, ok := m.objects[key]
	if !ok {
		return nil, nil
	}
	return &object, nil
}

func (m *memBlobStore) List(_ context.Context, prefix string) ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var keys []string
	for key := range m.objects {
		if strings.HasPrefix(key, prefix) {
			keys = append(keys, key)
		}
	}
	sort.Strings(keys)
	return keys, nil
}

// memMetadataRepo returns rows in insertion order, which is not necessarily
// the query order.
type memMetadataRepo struct {
	mu        sync.Mutex
	rows      []entities.TranscriptMetadata
	creates   int
	createErr error
	findErr   error
}

func (m *memMetadataRepo) Create(_ context.Context, row *entities.TranscriptMetadata) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.creates++
	if m.createErr != nil {
		return m.createErr
	}
	for _, existing := range m.rows {
		if existing.TranscriptID == row.TranscriptID {
			return errors.New("duplicate transcript_id")
		}
	}
	m.rows = append(m.rows, *row)
	return nil
}

func (m *memMetadataRepo) FindBySymbolAndQuarter(_ context.Context, symbol, quarter string) ([]entities.TranscriptMetadata, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.findErr != nil {
		return nil, m.findErr
	}
	var out []entities.TranscriptMetadata
	for _, row := range m.rows {
		if row.Symbol == symbol && row.Quarter == quarter {
			out = append(out, row)
		}
	}
	return out, nil
}

func (m *memMetadataRepo) FindBySymbol(_ context.Context, symbol string) ([]entities.TranscriptMetadata, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.findErr != nil {
		return nil, m.findErr
	}
	var out []entities.TranscriptMetadata
	for _, row := range m.rows {
		if row.Symbol == symbol {
			out = append(out, row)
		}
	}
	return out, nil
}

// scriptedFetcher answers from a per-quarter table and records every call
type scriptedFetcher struct {
	responses map[string]*entities.RawTranscript
	calls     []string
}

func (f *scriptedFetcher) Fetch(_ context.Context, symbol, quarter string) entities.FetchOutcome {
	f.calls = append(f.calls, quarter)
	raw, ok := f.responses[quarter]
	if !ok {
		return entities.FetchOutcome{}
	}
	return entities.FetchOutcome{Transcript: raw, Present: raw.HasSegments()}
}

func segment(speaker, content string, sentiment *float64) entities.Segment {
	seg := entities.Segment{Speaker: speaker, Title: "Executive", Content: content}
	if sentiment != nil {
		seg.Sentiment = entities.NewSentiment(*sentiment)
	}
	return seg
}

func score(v float64) *float64 { return &v }

func rawTranscript(symbol, quarter string, segments ...entities.Segment) *entities.RawTranscript {
	return &entities.RawTranscript{Symbol: symbol, Quarter: quarter, Segments: segments}
}
