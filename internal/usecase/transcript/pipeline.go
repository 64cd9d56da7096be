package transcript

import (
	"context"
	"fmt"
	"iter"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/johnquangdev/earnings-transcripts/internal/domain/entities"
	usecaseErrors "github.com/johnquangdev/earnings-transcripts/internal/usecase/errors"
	"github.com/johnquangdev/earnings-transcripts/pkg/jobcontext"
)

// Pipeline runs fetch, derive and write for each quarter of a range, one
// quarter at a time
type Pipeline struct {
	fetcher Fetcher
	writer  Writer
	now     func() time.Time
	logger  *zap.Logger
}

var _ Ingester = (*Pipeline)(nil)

// PipelineOption configures a Pipeline
type PipelineOption func(*Pipeline)

// WithPipelineClock replaces the clock used for the default end quarter and
// outcome timestamps
func WithPipelineClock(now func() time.Time) PipelineOption {
	return func(p *Pipeline) { p.now = now }
}

// NewPipeline creates a new ingestion pipeline
func NewPipeline(fetcher Fetcher, writer Writer, logger *zap.Logger, opts ...PipelineOption) (*Pipeline, error) {
	if fetcher == nil {
		return nil, usecaseErrors.ErrFetcherRequired
	}
	if writer == nil {
		return nil, usecaseErrors.ErrWriterRequired
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	p := &Pipeline{
		fetcher: fetcher,
		writer:  writer,
		now:     time.Now,
		logger:  logger,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p, nil
}

// Run validates req and returns the outcome sequence. Nothing is fetched
// until the sequence is iterated; each step fetches one quarter, writes it
// when present and yields its outcome. Stopping the iteration or cancelling
// ctx stops before the next quarter.
func (p *Pipeline) Run(ctx context.Context, req IngestRequest) (iter.Seq[entities.IngestionOutcome], error) {
	symbol := strings.TrimSpace(req.Symbol)
	if symbol == "" {
		return nil, usecaseErrors.ErrSymbolRequired
	}

	start, err := entities.ParseFiscalQuarter(strings.TrimSpace(req.StartQuarter))
	if err != nil {
		return nil, fmt.Errorf("start_quarter: %w", err)
	}

	var end *entities.FiscalQuarter
	if q := strings.TrimSpace(req.EndQuarter); q != "" {
		parsed, err := entities.ParseFiscalQuarter(q)
		if err != nil {
			return nil, fmt.Errorf("end_quarter: %w", err)
		}
		end = &parsed
	}

	quarters := entities.EnumerateQuarters(start, end, p.now())

	logger := p.logger.With(jobcontext.Fields(ctx)...).With(zap.String("symbol", symbol))
	logger.Info("Processing quarters",
		zap.Int("quarter_count", len(quarters)),
		zap.String("start_quarter", quarters[0].String()),
		zap.String("end_quarter", quarters[len(quarters)-1].String()),
	)

	return func(yield func(entities.IngestionOutcome) bool) {
		for _, q := range quarters {
			if err := ctx.Err(); err != nil {
				logger.Info("Ingestion cancelled", zap.String("next_quarter", q.String()), zap.Error(err))
				return
			}

			if !yield(p.ingestQuarter(ctx, logger, symbol, q.String())) {
				return
			}
		}
	}, nil
}

func (p *Pipeline) ingestQuarter(ctx context.Context, logger *zap.Logger, symbol, quarter string) entities.IngestionOutcome {
	logger.Info("Fetching transcript", zap.String("quarter", quarter))

	fetched := p.fetcher.Fetch(ctx, symbol, quarter)

	outcome := entities.IngestionOutcome{
		Symbol:         symbol,
		Quarter:        quarter,
		FetchSucceeded: fetched.Present,
	}

	if fetched.Present {
		result := p.writer.Write(ctx, fetched.Transcript)
		outcome.StorageResult = &result
		if !result.Success {
			logger.Warn("Storage failed", zap.String("quarter", quarter), zap.String("reason", result.Reason))
		}
	}

	outcome.Timestamp = p.now().UTC()
	return outcome
}
