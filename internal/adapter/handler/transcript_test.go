package handler

import (
	"context"
	"encoding/json"
	"errors"
	"iter"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/johnquangdev/earnings-transcripts/internal/domain/entities"
	httpmw "github.com/johnquangdev/earnings-transcripts/internal/infrastructure/http/middleware"
	transcriptUsecase "github.com/johnquangdev/earnings-transcripts/internal/usecase/transcript"
	"github.com/johnquangdev/earnings-transcripts/pkg/config"
	"github.com/johnquangdev/earnings-transcripts/pkg/jwt"
	pkgvalidator "github.com/johnquangdev/earnings-transcripts/pkg/validator"
)

type stubIngester struct {
	req      transcriptUsecase.IngestRequest
	outcomes []entities.IngestionOutcome
	err      error
}

func (s *stubIngester) Run(_ context.Context, req transcriptUsecase.IngestRequest) (iter.Seq[entities.IngestionOutcome], error) {
	s.req = req
	if s.err != nil {
		return nil, s.err
	}
	return func(yield func(entities.IngestionOutcome) bool) {
		for _, o := range s.outcomes {
			if !yield(o) {
				return
			}
		}
	}, nil
}

type stubQuerier struct {
	rows     []entities.TranscriptMetadata
	grouped  map[string][]entities.TranscriptMetadata
	raw      *entities.RawTranscript
	quarters []string
	err      error
	gotSym   string
}

func (s *stubQuerier) BySymbolAndQuarter(_ context.Context, symbol, _ string) ([]entities.TranscriptMetadata, error) {
	s.gotSym = symbol
	return s.rows, s.err
}

func (s *stubQuerier) AllForSymbol(_ context.Context, symbol string) (map[string][]entities.TranscriptMetadata, error) {
	s.gotSym = symbol
	return s.grouped, s.err
}

func (s *stubQuerier) RawTranscript(_ context.Context, symbol, _ string) (*entities.RawTranscript, error) {
	s.gotSym = symbol
	return s.raw, s.err
}

func (s *stubQuerier) StoredQuarters(_ context.Context, symbol string) ([]string, error) {
	s.gotSym = symbol
	return s.quarters, s.err
}

type envelope struct {
	Code    int             `json:"code"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
	Details map[string]string
}

const testSecret = "test-secret"

func newTestServer(t *testing.T, ingester *stubIngester, querier *stubQuerier) *echo.Echo {
	t.Helper()

	cfg := &config.Config{Server: config.ServerConfig{Environment: "test", ProjectName: "earnings-sentiment"}}
	jwtManager := jwt.NewManager(testSecret, time.Hour, cfg.Server.ProjectName)

	e := echo.New()
	e.Validator = pkgvalidator.New()

	health := NewHealthHandler("test", map[string]Pinger{
		"postgres": PingFunc(func(context.Context) error { return nil }),
	}, nil)
	h := NewTranscriptHandler(ingester, querier, "earnings-data", nil)
	NewRouter(cfg, health, h, httpmw.EchoAuth(jwtManager, jwt.ScopeIngest)).Setup(e)
	return e
}

func serviceToken(t *testing.T, scopes ...string) string {
	t.Helper()
	token, err := jwt.NewManager(testSecret, time.Hour, "earnings-sentiment").GenerateServiceToken("scheduler", scopes...)
	require.NoError(t, err)
	return token
}

func do(e *echo.Echo, method, path, body, token string) (*httptest.ResponseRecorder, envelope) {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	if token != "" {
		req.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	var env envelope
	_ = json.Unmarshal(rec.Body.Bytes(), &env)
	return rec, env
}

func TestIngest_Success(t *testing.T) {
	ingester := &stubIngester{outcomes: []entities.IngestionOutcome{
		{Symbol: "IBM", Quarter: "2024Q1", FetchSucceeded: true, StorageResult: &entities.StorageResult{
			Success:      true,
			TranscriptID: "IBM_2024Q1_abcdef12",
			S3Key:        "transcripts/IBM/2024Q1/transcript.json",
			Aggregates:   entities.Aggregates{TotalSegments: 10, TotalWords: 900, AvgSentiment: decimal.RequireFromString("0.25")},
		}},
		{Symbol: "IBM", Quarter: "2024Q2", FetchSucceeded: false},
	}}
	e := newTestServer(t, ingester, &stubQuerier{})

	rec, env := do(e, http.MethodPost, "/v1/transcripts/ingest", `{"symbol":"ibm","start_quarter":"2024Q1","end_quarter":"2024Q2"}`, serviceToken(t, jwt.ScopeIngest))

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "IBM", ingester.req.Symbol)
	assert.Equal(t, "2024Q2", ingester.req.EndQuarter)

	var data struct {
		RunID              string `json:"run_id"`
		QuartersProcessed  int    `json:"quarters_processed"`
		SuccessfulQuarters int    `json:"successful_quarters"`
		TotalWords         int    `json:"total_words"`
		Message            string `json:"message"`
		Results            []struct {
			Quarter      string `json:"quarter"`
			Stored       bool   `json:"stored"`
			AvgSentiment string `json:"avg_sentiment"`
		} `json:"results"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &data))
	assert.NotEmpty(t, data.RunID)
	assert.Equal(t, 2, data.QuartersProcessed)
	assert.Equal(t, 1, data.SuccessfulQuarters)
	assert.Equal(t, 900, data.TotalWords)
	assert.Equal(t, "Successfully processed 1/2 quarters for IBM", data.Message)
	require.Len(t, data.Results, 2)
	assert.Equal(t, "0.250000", data.Results[0].AvgSentiment)
	assert.False(t, data.Results[1].Stored)
}

func TestIngest_Auth(t *testing.T) {
	e := newTestServer(t, &stubIngester{}, &stubQuerier{})
	body := `{"symbol":"IBM","start_quarter":"2024Q1"}`

	rec, _ := do(e, http.MethodPost, "/v1/transcripts/ingest", body, "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec, _ = do(e, http.MethodPost, "/v1/transcripts/ingest", body, "not-a-token")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec, _ = do(e, http.MethodPost, "/v1/transcripts/ingest", body, serviceToken(t, "transcripts:read"))
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestIngest_ValidationErrors(t *testing.T) {
	ingester := &stubIngester{}
	e := newTestServer(t, ingester, &stubQuerier{})
	token := serviceToken(t, jwt.ScopeIngest)

	rec, _ := do(e, http.MethodPost, "/v1/transcripts/ingest", `{"symbol":"IBM","start_quarter":"2024Q7"}`, token)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec, _ = do(e, http.MethodPost, "/v1/transcripts/ingest", `{"start_quarter":"2024Q1"}`, token)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec, _ = do(e, http.MethodPost, "/v1/transcripts/ingest", `{"symbol":`, token)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	assert.Empty(t, ingester.req.Symbol, "ingester not called")
}

func TestIngest_UseCaseValidationError(t *testing.T) {
	ingester := &stubIngester{err: entities.ErrInvalidQuarter}
	e := newTestServer(t, ingester, &stubQuerier{})

	rec, env := do(e, http.MethodPost, "/v1/transcripts/ingest", `{"symbol":"IBM","start_quarter":"2024Q1"}`, serviceToken(t, jwt.ScopeIngest))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, 2001, env.Code)
}

func TestGetQuarter(t *testing.T) {
	querier := &stubQuerier{rows: []entities.TranscriptMetadata{{
		TranscriptID: "IBM_2024Q1_abcdef12",
		Symbol:       "IBM",
		Quarter:      "2024Q1",
		AvgSentiment: decimal.RequireFromString("0.4"),
		Status:       entities.TranscriptStatusStored,
	}}}
	e := newTestServer(t, &stubIngester{}, querier)

	rec, env := do(e, http.MethodGet, "/v1/transcripts/ibm/2024Q1", "", "")

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "IBM", querier.gotSym)

	var data struct {
		Transcripts []struct {
			TranscriptID string   `json:"transcript_id"`
			AvgSentiment string   `json:"avg_sentiment"`
			Speakers     []string `json:"speakers"`
		} `json:"transcripts"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &data))
	require.Len(t, data.Transcripts, 1)
	assert.Equal(t, "0.400000", data.Transcripts[0].AvgSentiment)
	assert.NotNil(t, data.Transcripts[0].Speakers)
}

func TestGetQuarter_InvalidPath(t *testing.T) {
	e := newTestServer(t, &stubIngester{}, &stubQuerier{})

	rec, env := do(e, http.MethodGet, "/v1/transcripts/IBM/2024Q9", "", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, 2001, env.Code)

	rec, _ = do(e, http.MethodGet, "/v1/transcripts/IBM$/2024Q1", "", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestGetQuarter_QueryFailure(t *testing.T) {
	e := newTestServer(t, &stubIngester{}, &stubQuerier{err: errors.New("connection refused")})

	rec, env := do(e, http.MethodGet, "/v1/transcripts/IBM/2024Q1", "", "")
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, 6001, env.Code)
}

func TestListBySymbol(t *testing.T) {
	querier := &stubQuerier{grouped: map[string][]entities.TranscriptMetadata{
		"2024Q1": {{TranscriptID: "IBM_2024Q1_a", Quarter: "2024Q1"}},
		"2024Q2": {{TranscriptID: "IBM_2024Q2_b", Quarter: "2024Q2"}, {TranscriptID: "IBM_2024Q2_c", Quarter: "2024Q2"}},
	}}
	e := newTestServer(t, &stubIngester{}, querier)

	rec, env := do(e, http.MethodGet, "/v1/transcripts/IBM", "", "")

	require.Equal(t, http.StatusOK, rec.Code)
	var data struct {
		Quarters map[string][]json.RawMessage `json:"quarters"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &data))
	assert.Len(t, data.Quarters["2024Q2"], 2)
}

func TestListStoredQuarters(t *testing.T) {
	querier := &stubQuerier{quarters: []string{"2023Q4", "2024Q1"}}
	e := newTestServer(t, &stubIngester{}, querier)

	rec, env := do(e, http.MethodGet, "/v1/transcripts/IBM/quarters", "", "")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"symbol":"IBM","quarters":["2023Q4","2024Q1"]}`, string(env.Data))
}

func TestGetRaw(t *testing.T) {
	payload := `{"symbol":"IBM","quarter":"2024Q1","transcript":[{"speaker":"A","content":"hi"}]}`
	raw, err := entities.DecodeRawTranscript([]byte(payload))
	require.NoError(t, err)
	e := newTestServer(t, &stubIngester{}, &stubQuerier{raw: raw})

	rec, env := do(e, http.MethodGet, "/v1/transcripts/IBM/2024Q1/raw", "", "")

	require.Equal(t, http.StatusOK, rec.Code)
	var data struct {
		SegmentCount int             `json:"segment_count"`
		Payload      json.RawMessage `json:"payload"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &data))
	assert.Equal(t, 1, data.SegmentCount)
	assert.JSONEq(t, payload, string(data.Payload))
}

func TestGetRaw_NotFound(t *testing.T) {
	e := newTestServer(t, &stubIngester{}, &stubQuerier{})

	rec, env := do(e, http.MethodGet, "/v1/transcripts/IBM/2019Q1/raw", "", "")

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, 4000, env.Code)
}

func TestHealth(t *testing.T) {
	e := newTestServer(t, &stubIngester{}, &stubQuerier{})

	rec, _ := do(e, http.MethodGet, "/health", "", "")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"postgres":"ok"`)
}
