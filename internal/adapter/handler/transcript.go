package handler

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/johnquangdev/earnings-transcripts/errors"
	transcriptDTO "github.com/johnquangdev/earnings-transcripts/internal/adapter/dto/transcript"
	"github.com/johnquangdev/earnings-transcripts/internal/adapter/presenter"
	"github.com/johnquangdev/earnings-transcripts/internal/domain/entities"
	transcriptUsecase "github.com/johnquangdev/earnings-transcripts/internal/usecase/transcript"
	"github.com/johnquangdev/earnings-transcripts/pkg/jobcontext"
)

// Transcript handles transcript ingestion and query requests
type Transcript struct {
	ingester transcriptUsecase.Ingester
	querier  transcriptUsecase.Querier
	bucket   string
	now      func() time.Time
	logger   *zap.Logger
}

// NewTranscriptHandler creates a new transcript handler. bucket is reported
// in run summaries.
func NewTranscriptHandler(
	ingester transcriptUsecase.Ingester,
	querier transcriptUsecase.Querier,
	bucket string,
	logger *zap.Logger,
) *Transcript {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Transcript{
		ingester: ingester,
		querier:  querier,
		bucket:   bucket,
		now:      time.Now,
		logger:   logger,
	}
}

// Ingest handles POST /transcripts/ingest
// @Summary      Ingest transcripts
// @Description  Fetches the transcripts of a symbol for every quarter from start_quarter to end_quarter (default: current quarter) and stores them. Quarters run one after another with a pause between provider calls.
// @Tags         Transcripts
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request  body      transcript.IngestRequest  true  "Ingestion request"
// @Success      200      {object}  common.SuccessResponse{data=transcript.IngestResponse}
// @Failure      400      {object}  common.ErrorResponse  "Invalid request or quarter"
// @Failure      401      {object}  common.ErrorResponse  "Missing or invalid service token"
// @Failure      500      {object}  common.ErrorResponse
// @Router       /transcripts/ingest [post]
func (h *Transcript) Ingest(c echo.Context) error {
	var req transcriptDTO.IngestRequest
	if err := c.Bind(&req); err != nil {
		return HandleError(h.logger, c, err)
	}
	req.Symbol = strings.ToUpper(strings.TrimSpace(req.Symbol))

	if err := c.Validate(&req); err != nil {
		return HandleError(h.logger, c, err)
	}

	runID := uuid.New()
	ctx, cancel := jobcontext.RunBegin(c.Request().Context(), runID, string(entities.IngestionTypeTranscript), req.Symbol, 0)
	defer cancel()

	outcomes, err := h.ingester.Run(ctx, transcriptUsecase.IngestRequest{
		Symbol:       req.Symbol,
		StartQuarter: req.StartQuarter,
		EndQuarter:   req.EndQuarter,
	})
	if err != nil {
		return HandleError(h.logger, c, err)
	}

	logger := h.logger.With(jobcontext.Fields(ctx)...)

	var results []entities.IngestionOutcome
	for outcome := range outcomes {
		logger.Info("quarter processed",
			zap.String("symbol", outcome.Symbol),
			zap.String("quarter", outcome.Quarter),
			zap.Bool("fetch_succeeded", outcome.FetchSucceeded),
			zap.Bool("stored", outcome.Stored()),
		)
		results = append(results, outcome)
	}

	summary := transcriptUsecase.Summarize(req.Symbol, h.bucket, results, h.now())
	summary.RunID = runID.String()

	logger.Info("ingestion run finished",
		zap.Int("quarters_processed", summary.QuartersProcessed),
		zap.Int("successful_quarters", summary.SuccessfulQuarters),
	)

	return HandleSuccess(h.logger, c, presenter.ToIngestResponse(summary))
}

// ListBySymbol handles GET /transcripts/:symbol
// @Summary      List stored transcripts of a symbol
// @Description  Returns every stored ingestion of a symbol grouped by quarter, each group ordered by creation time
// @Tags         Transcripts
// @Produce      json
// @Param        symbol  path      string  true  "Stock symbol"  example(IBM)
// @Success      200     {object}  common.SuccessResponse{data=transcript.SymbolTranscriptsResponse}
// @Failure      400     {object}  common.ErrorResponse
// @Failure      500     {object}  common.ErrorResponse
// @Router       /transcripts/{symbol} [get]
func (h *Transcript) ListBySymbol(c echo.Context) error {
	var params transcriptDTO.SymbolParams
	if err := bindParams(c, &params); err != nil {
		return HandleError(h.logger, c, err)
	}

	grouped, err := h.querier.AllForSymbol(c.Request().Context(), params.Symbol)
	if err != nil {
		return HandleError(h.logger, c, errors.ErrDBQueryFailed("transcripts by symbol", err))
	}

	return HandleSuccess(h.logger, c, presenter.ToSymbolTranscriptsResponse(params.Symbol, grouped))
}

// ListStoredQuarters handles GET /transcripts/:symbol/quarters
// @Summary      List stored quarters
// @Description  Returns the quarters of a symbol that have a raw transcript in the blob store, oldest first
// @Tags         Transcripts
// @Produce      json
// @Param        symbol  path      string  true  "Stock symbol"  example(IBM)
// @Success      200     {object}  common.SuccessResponse{data=transcript.StoredQuartersResponse}
// @Failure      400     {object}  common.ErrorResponse
// @Failure      500     {object}  common.ErrorResponse
// @Router       /transcripts/{symbol}/quarters [get]
func (h *Transcript) ListStoredQuarters(c echo.Context) error {
	var params transcriptDTO.SymbolParams
	if err := bindParams(c, &params); err != nil {
		return HandleError(h.logger, c, err)
	}

	quarters, err := h.querier.StoredQuarters(c.Request().Context(), params.Symbol)
	if err != nil {
		return HandleError(h.logger, c, errors.ErrStorageFailed("list", err))
	}

	return HandleSuccess(h.logger, c, &transcriptDTO.StoredQuartersResponse{
		Symbol:   params.Symbol,
		Quarters: quarters,
	})
}

// GetQuarter handles GET /transcripts/:symbol/:quarter
// @Summary      Get stored transcripts of a quarter
// @Description  Returns every stored ingestion of a symbol and quarter ordered by creation time. Reruns append rows, so a quarter may have several.
// @Tags         Transcripts
// @Produce      json
// @Param        symbol   path      string  true  "Stock symbol"  example(IBM)
// @Param        quarter  path      string  true  "Fiscal quarter (YYYYQX)"  example(2024Q1)
// @Success      200      {object}  common.SuccessResponse{data=transcript.QuarterTranscriptsResponse}
// @Failure      400      {object}  common.ErrorResponse
// @Failure      500      {object}  common.ErrorResponse
// @Router       /transcripts/{symbol}/{quarter} [get]
func (h *Transcript) GetQuarter(c echo.Context) error {
	var params transcriptDTO.QuarterParams
	if err := bindParams(c, &params); err != nil {
		return HandleError(h.logger, c, err)
	}

	rows, err := h.querier.BySymbolAndQuarter(c.Request().Context(), params.Symbol, params.Quarter)
	if err != nil {
		return HandleError(h.logger, c, errors.ErrDBQueryFailed("transcripts by symbol and quarter", err))
	}

	return HandleSuccess(h.logger, c, &transcriptDTO.QuarterTranscriptsResponse{
		Symbol:      params.Symbol,
		Quarter:     params.Quarter,
		Transcripts: presenter.ToMetadataListResponse(rows),
	})
}

// GetRaw handles GET /transcripts/:symbol/:quarter/raw
// @Summary      Get raw transcript
// @Description  Returns the provider payload stored for a symbol and quarter
// @Tags         Transcripts
// @Produce      json
// @Param        symbol   path      string  true  "Stock symbol"  example(IBM)
// @Param        quarter  path      string  true  "Fiscal quarter (YYYYQX)"  example(2024Q1)
// @Success      200      {object}  common.SuccessResponse{data=transcript.RawTranscriptResponse}
// @Failure      400      {object}  common.ErrorResponse
// @Failure      404      {object}  common.ErrorResponse  "No transcript stored"
// @Failure      500      {object}  common.ErrorResponse
// @Router       /transcripts/{symbol}/{quarter}/raw [get]
func (h *Transcript) GetRaw(c echo.Context) error {
	var params transcriptDTO.QuarterParams
	if err := bindParams(c, &params); err != nil {
		return HandleError(h.logger, c, err)
	}

	raw, err := h.querier.RawTranscript(c.Request().Context(), params.Symbol, params.Quarter)
	if err != nil {
		return HandleError(h.logger, c, errors.ErrStorageFailed("get", err))
	}
	if raw == nil {
		return HandleError(h.logger, c, errors.ErrTranscriptNotFound(params.Symbol, params.Quarter))
	}

	resp, err := presenter.ToRawTranscriptResponse(raw)
	if err != nil {
		return HandleError(h.logger, c, errors.ErrInternal(err))
	}

	return HandleSuccess(h.logger, c, resp)
}

// bindParams binds path parameters into dst and validates it
func bindParams(c echo.Context, dst interface{}) error {
	if err := (&echo.DefaultBinder{}).BindPathParams(c, dst); err != nil {
		return err
	}
	return c.Validate(dst)
}
