package transcript

import (
	"sort"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/johnquangdev/earnings-transcripts/internal/domain/entities"
)

// SentimentPlaces is the fixed precision avg_sentiment is stored with
const SentimentPlaces = 6

// Derive computes the aggregate statistics of a transcript.
// Only scored sentiments enter the average: absent values and a numeric 0
// are left out, a string such as "0.0" is kept.
func Derive(raw *entities.RawTranscript) entities.Aggregates {
	agg := entities.Aggregates{
		AvgSentiment: decimal.Zero,
		Speakers:     []string{},
	}
	if raw == nil {
		return agg
	}

	var (
		sum      = decimal.Zero
		scored   int64
		speakers = make(map[string]struct{})
	)

	for _, seg := range raw.Segments {
		agg.TotalWords += len(strings.Fields(seg.Content))

		if seg.Sentiment.Scored() {
			sum = sum.Add(seg.Sentiment.Value)
			scored++
		}

		if seg.Speaker != "" {
			speakers[seg.Speaker] = struct{}{}
		}
	}

	agg.TotalSegments = len(raw.Segments)

	if scored > 0 {
		agg.AvgSentiment = sum.Div(decimal.NewFromInt(scored)).Round(SentimentPlaces)
	}

	for name := range speakers {
		agg.Speakers = append(agg.Speakers, name)
	}
	sort.Strings(agg.Speakers)
	agg.SpeakerCount = len(agg.Speakers)

	return agg
}
