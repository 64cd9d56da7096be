package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/urfave/cli/v2"
	"go.uber.org/zap"

	apperrors "github.com/johnquangdev/earnings-transcripts/errors"
	"github.com/johnquangdev/earnings-transcripts/internal/app"
	"github.com/johnquangdev/earnings-transcripts/internal/domain/entities"
	"github.com/johnquangdev/earnings-transcripts/internal/infrastructure/cache"
	"github.com/johnquangdev/earnings-transcripts/internal/usecase/transcript"
	"github.com/johnquangdev/earnings-transcripts/pkg/config"
	"github.com/johnquangdev/earnings-transcripts/pkg/jobcontext"
	"github.com/johnquangdev/earnings-transcripts/pkg/jwt"
	pkgvalidator "github.com/johnquangdev/earnings-transcripts/pkg/validator"
)

func main() {
	if err := newApp().Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func newApp() *cli.App {
	return &cli.App{
		Name:  "ingest",
		Usage: "Earnings call transcript ingestion job",
		Commands: []*cli.Command{
			{
				Name:   "run",
				Usage:  "Fetch and store the transcripts of a symbol for a range of quarters",
				Action: runCommand,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "symbol",
						Aliases:  []string{"s"},
						Usage:    "Stock symbol, e.g. IBM",
						Required: true,
					},
					&cli.StringFlag{
						Name:  "start-quarter",
						Usage: "First quarter (YYYYQX)",
						Value: "2024Q1",
					},
					&cli.StringFlag{
						Name:  "end-quarter",
						Usage: "Last quarter (YYYYQX), defaults to the current quarter",
					},
					&cli.DurationFlag{
						Name:  "timeout",
						Usage: "Abort the run after this long (0 disables)",
					},
				},
			},
			{
				Name:   "token",
				Usage:  "Issue a service token for the ingestion endpoint",
				Action: tokenCommand,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "service",
						Usage:    "Name of the calling service",
						Required: true,
					},
					&cli.StringSliceFlag{
						Name:  "scope",
						Usage: "Scope to grant (repeatable)",
						Value: cli.NewStringSlice(jwt.ScopeIngest),
					},
				},
			},
			{
				Name:   "param",
				Usage:  "Store a parameter in the Redis parameter store under the project prefix",
				Action: paramCommand,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "name",
						Usage:    "Parameter name, e.g. " + config.ParamAlphaVantageAPIKey,
						Required: true,
					},
					&cli.StringFlag{
						Name:     "value",
						Usage:    "Parameter value",
						Required: true,
					},
				},
			},
		},
	}
}

func requestFromFlags(c *cli.Context) (transcript.IngestRequest, error) {
	req := transcript.IngestRequest{
		Symbol:       strings.ToUpper(strings.TrimSpace(c.String("symbol"))),
		StartQuarter: strings.TrimSpace(c.String("start-quarter")),
		EndQuarter:   strings.TrimSpace(c.String("end-quarter")),
	}
	if err := pkgvalidator.New().Validate(&req); err != nil {
		return req, fmt.Errorf("invalid arguments: %w", err)
	}
	return req, nil
}

func runCommand(c *cli.Context) error {
	req, err := requestFromFlags(c)
	if err != nil {
		return err
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	logger, err := app.NewLogger(cfg)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(c.Context, os.Interrupt, syscall.SIGTERM)
	defer stop()

	deps, err := app.Build(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer deps.Close()

	runID := uuid.New()
	ctx, cancel := jobcontext.RunBegin(ctx, runID, string(entities.IngestionTypeTranscript), req.Symbol, c.Duration("timeout"))
	defer cancel()

	summary, err := ingest(ctx, deps.Pipeline, deps.Parameters.BucketName, req, logger)
	if err != nil {
		return err
	}
	summary.RunID = runID.String()

	enc := json.NewEncoder(c.App.Writer)
	enc.SetIndent("", "  ")
	return enc.Encode(summary)
}

// ingest drains the outcome sequence, logging each quarter as it completes
func ingest(ctx context.Context, ingester transcript.Ingester, bucket string, req transcript.IngestRequest, logger *zap.Logger) (transcript.RunSummary, error) {
	outcomes, err := ingester.Run(ctx, req)
	if err != nil {
		return transcript.RunSummary{}, apperrors.ErrIngestionFailed(req.Symbol, err)
	}

	logger = logger.With(jobcontext.Fields(ctx)...)

	var results []entities.IngestionOutcome
	for outcome := range outcomes {
		if outcome.Stored() {
			logger.Info("Quarter stored",
				zap.String("quarter", outcome.Quarter),
				zap.String("transcript_id", outcome.StorageResult.TranscriptID),
				zap.Int("segments", outcome.StorageResult.Aggregates.TotalSegments),
			)
		} else {
			logger.Info("Quarter skipped",
				zap.String("quarter", outcome.Quarter),
				zap.Bool("fetch_succeeded", outcome.FetchSucceeded),
			)
		}
		results = append(results, outcome)
	}

	summary := transcript.Summarize(req.Symbol, bucket, results, time.Now())
	logger.Info("Ingestion completed",
		zap.Int("quarters_processed", summary.QuartersProcessed),
		zap.Int("successful_quarters", summary.SuccessfulQuarters),
		zap.Int("total_segments", summary.TotalSegments),
		zap.Int("total_words", summary.TotalWords),
	)

	return summary, nil
}

func tokenCommand(c *cli.Context) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	manager := jwt.NewManager(cfg.JWT.Secret, cfg.JWT.Expiry, cfg.Server.ProjectName)
	token, err := manager.GenerateServiceToken(c.String("service"), c.StringSlice("scope")...)
	if err != nil {
		return err
	}

	_, err = fmt.Fprintln(c.App.Writer, token)
	return err
}

func paramCommand(c *cli.Context) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	client, err := cache.NewRedisClient(c.Context, cfg)
	if err != nil {
		return err
	}
	defer client.Close()

	name := cfg.ParameterPrefix() + "/" + strings.TrimPrefix(c.String("name"), "/")
	if err := cache.NewRedisParameterStore(client).PutParameter(c.Context, name, c.String("value")); err != nil {
		return err
	}

	_, err = fmt.Fprintf(c.App.Writer, "stored %s\n", name)
	return err
}
