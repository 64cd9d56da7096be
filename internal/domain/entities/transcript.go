package entities

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/shopspring/decimal"
)

// Sentiment is an optional provider sentiment score. The provider sends it
// either as a JSON number or as a numeric string; null, "" and a missing
// field all mean absent. Quoted records that the value arrived as a string.
type Sentiment struct {
	Value  decimal.Decimal
	Valid  bool
	Quoted bool
}

// NewSentiment returns a present numeric sentiment
func NewSentiment(v float64) Sentiment {
	return Sentiment{Value: decimal.NewFromFloat(v), Valid: true}
}

// NewSentimentString returns a sentiment as the provider sends it, a
// numeric string
func NewSentimentString(v string) (Sentiment, error) {
	d, err := decimal.NewFromString(v)
	if err != nil {
		return Sentiment{}, fmt.Errorf("sentiment: %w", err)
	}
	return Sentiment{Value: d, Valid: true, Quoted: true}, nil
}

// Scored reports whether the sentiment counts towards an average. A non-empty
// string counts even when it reads as zero ("0.0"); a numeric 0 does not.
func (s Sentiment) Scored() bool {
	if !s.Valid {
		return false
	}
	return s.Quoted || !s.Value.IsZero()
}

// UnmarshalJSON implements json.Unmarshaler
func (s *Sentiment) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) || bytes.Equal(data, []byte(`""`)) {
		*s = Sentiment{}
		return nil
	}

	var d decimal.Decimal
	if err := d.UnmarshalJSON(data); err != nil {
		return fmt.Errorf("sentiment: %w", err)
	}
	*s = Sentiment{Value: d, Valid: true, Quoted: len(data) > 0 && data[0] == '"'}
	return nil
}

// MarshalJSON implements json.Marshaler
func (s Sentiment) MarshalJSON() ([]byte, error) {
	if !s.Valid {
		return []byte("null"), nil
	}
	if s.Quoted {
		return json.Marshal(s.Value.String())
	}
	return []byte(s.Value.String()), nil
}

// Segment is one speaker turn of an earnings call
type Segment struct {
	Speaker   string    `json:"speaker"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	Sentiment Sentiment `json:"sentiment"`
}

// RawTranscript is the provider payload for one symbol and quarter.
// Payload holds the bytes exactly as received; Segments is the validated view.
type RawTranscript struct {
	Symbol   string          `json:"symbol"`
	Quarter  string          `json:"quarter"`
	Segments []Segment       `json:"transcript"`
	Payload  json.RawMessage `json:"-"`
}

// HasSegments reports whether the transcript carries any speaker turns
func (t *RawTranscript) HasSegments() bool {
	return t != nil && len(t.Segments) > 0
}

// Body returns the bytes to persist: the original payload when available,
// otherwise a re-encoding of the typed fields.
func (t *RawTranscript) Body() ([]byte, error) {
	if len(t.Payload) > 0 {
		return t.Payload, nil
	}
	return json.Marshal(t)
}

// DecodeRawTranscript parses a provider payload into a RawTranscript,
// keeping the original bytes.
func DecodeRawTranscript(payload []byte) (*RawTranscript, error) {
	var t RawTranscript
	if err := json.Unmarshal(payload, &t); err != nil {
		return nil, err
	}
	t.Payload = append(json.RawMessage(nil), payload...)
	return &t, nil
}

// TranscriptBlobKey is the deterministic blob location for a symbol and quarter
func TranscriptBlobKey(symbol, quarter string) string {
	return fmt.Sprintf("transcripts/%s/%s/transcript.json", symbol, quarter)
}

// TranscriptBlobPrefix is the blob prefix holding every quarter of a symbol
func TranscriptBlobPrefix(symbol string) string {
	return fmt.Sprintf("transcripts/%s/", symbol)
}
