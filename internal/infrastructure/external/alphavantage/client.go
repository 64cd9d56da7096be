package alphavantage

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	apperrors "github.com/johnquangdev/earnings-transcripts/errors"
	"github.com/johnquangdev/earnings-transcripts/internal/domain/entities"
	"github.com/johnquangdev/earnings-transcripts/pkg/config"
)

const transcriptFunction = "EARNINGS_CALL_TRANSCRIPT"

// DefaultMaxResponseBytes caps a provider response when none is configured
const DefaultMaxResponseBytes int64 = 10 << 20

// Client fetches earnings call transcripts from Alpha Vantage
type Client struct {
	apiKey     string
	baseURL    string
	delay      time.Duration
	maxBytes   int64
	httpClient *http.Client
	sleep      func(ctx context.Context, d time.Duration) error
	logger     *zap.Logger
}

// Option configures a Client
type Option func(*Client)

// WithHTTPClient replaces the HTTP client
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithSleeper replaces the inter-request pause, mainly for tests
func WithSleeper(sleep func(ctx context.Context, d time.Duration) error) Option {
	return func(c *Client) { c.sleep = sleep }
}

// NewClient creates a transcript client. The request timeout and the pause
// after every request come from cfg.
func NewClient(cfg config.ProviderConfig, apiKey string, logger *zap.Logger, opts ...Option) *Client {
	if logger == nil {
		logger = zap.NewNop()
	}
	c := &Client{
		apiKey:     apiKey,
		baseURL:    cfg.BaseURL,
		delay:      cfg.RequestDelay,
		maxBytes:   cfg.MaxResponseBytes,
		httpClient: &http.Client{Timeout: cfg.Timeout},
		sleep:      sleepContext,
		logger:     logger,
	}
	if c.maxBytes <= 0 {
		c.maxBytes = DefaultMaxResponseBytes
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Name identifies the provider in logs and errors
func (c *Client) Name() string {
	return "AlphaVantage"
}

// Fetch requests the transcript of symbol for quarter. Transport, status and
// decode errors are logged and reported as an absent outcome. The client
// always pauses for the configured delay afterwards, whatever the result.
func (c *Client) Fetch(ctx context.Context, symbol, quarter string) entities.FetchOutcome {
	outcome := c.fetch(ctx, symbol, quarter)

	if err := c.sleep(ctx, c.delay); err != nil {
		c.logger.Debug("Rate limit pause interrupted", zap.String("symbol", symbol), zap.Error(err))
	}

	return outcome
}

func (c *Client) fetch(ctx context.Context, symbol, quarter string) entities.FetchOutcome {
	logger := c.logger.With(
		zap.String("provider", c.Name()),
		zap.String("symbol", symbol),
		zap.String("quarter", quarter),
	)

	payload, err := c.get(ctx, symbol, quarter)
	if err != nil {
		logger.Warn("Failed to fetch transcript", zap.Error(err))
		return entities.FetchOutcome{}
	}

	transcript, err := decodeTranscript(payload)
	if err != nil {
		logger.Warn("Failed to decode transcript", zap.Error(err))
		return entities.FetchOutcome{}
	}
	if transcript.Information != "" {
		logger.Warn("Provider returned a notice instead of a transcript", zap.String("information", transcript.Information))
	}

	raw := transcript.RawTranscript
	if raw.Symbol == "" {
		raw.Symbol = symbol
	}
	if raw.Quarter == "" {
		raw.Quarter = quarter
	}

	if !raw.HasSegments() {
		logger.Info("No transcript segments returned")
		return entities.FetchOutcome{Transcript: raw}
	}

	return entities.FetchOutcome{Transcript: raw, Present: true}
}

func (c *Client) get(ctx context.Context, symbol, quarter string) ([]byte, error) {
	params := url.Values{}
	params.Set("function", transcriptFunction)
	params.Set("symbol", symbol)
	params.Set("quarter", quarter)
	params.Set("apikey", c.apiKey)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("alphavantage request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, apperrors.ErrExternalAPIFailed(c.Name(), err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, apperrors.ErrExternalAPIFailed(c.Name(), fmt.Errorf("unexpected status %d", resp.StatusCode)).
			WithDetail("status", strconv.Itoa(resp.StatusCode))
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, c.maxBytes+1))
	if err != nil {
		return nil, apperrors.ErrExternalAPIFailed(c.Name(), err)
	}
	if int64(len(body)) > c.maxBytes {
		return nil, apperrors.ErrExternalAPIFailed(c.Name(), fmt.Errorf("response exceeds %d bytes", c.maxBytes))
	}
	return body, nil
}

// transcriptResponse is the provider envelope. Besides the transcript fields
// the provider may answer with an "Information" or "Error Message" notice.
type transcriptResponse struct {
	*entities.RawTranscript
	Information string
}

func decodeTranscript(payload []byte) (*transcriptResponse, error) {
	if len(strings.TrimSpace(string(payload))) == 0 {
		return &transcriptResponse{RawTranscript: &entities.RawTranscript{}}, nil
	}

	raw, err := entities.DecodeRawTranscript(payload)
	if err != nil {
		return nil, fmt.Errorf("alphavantage decode: %w", err)
	}

	notice, err := decodeNotice(payload)
	if err != nil {
		return nil, fmt.Errorf("alphavantage decode: %w", err)
	}

	return &transcriptResponse{RawTranscript: raw, Information: notice}, nil
}

type notice struct {
	Information  string `json:"Information"`
	Note         string `json:"Note"`
	ErrorMessage string `json:"Error Message"`
}

func decodeNotice(payload []byte) (string, error) {
	var n notice
	if err := json.Unmarshal(payload, &n); err != nil {
		return "", err
	}
	switch {
	case n.ErrorMessage != "":
		return n.ErrorMessage, nil
	case n.Information != "":
		return n.Information, nil
	default:
		return n.Note, nil
	}
}

func sleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
