package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/johnquangdev/earnings-transcripts/internal/adapter/dto/common"
)

// Pinger is a dependency the health check can probe
type Pinger interface {
	Ping(ctx context.Context) error
}

// PingFunc adapts a function to Pinger
type PingFunc func(ctx context.Context) error

// Ping implements Pinger
func (f PingFunc) Ping(ctx context.Context) error { return f(ctx) }

// Health reports service and dependency status
type Health struct {
	environment string
	checks      map[string]Pinger
	timeout     time.Duration
	logger      *zap.Logger
}

// NewHealthHandler creates a health handler probing checks
func NewHealthHandler(environment string, checks map[string]Pinger, logger *zap.Logger) *Health {
	return &Health{
		environment: environment,
		checks:      checks,
		timeout:     2 * time.Second,
		logger:      logger,
	}
}

// Check handles GET /health
// @Summary      Health check
// @Description  Reports service status and the reachability of postgres and minio
// @Tags         Health
// @Produce      json
// @Success      200  {object}  common.HealthResponse
// @Failure      503  {object}  common.HealthResponse
// @Router       /health [get]
func (h *Health) Check(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	resp := common.HealthResponse{
		Status:      "ok",
		Environment: h.environment,
		Checks:      make(map[string]string, len(h.checks)),
	}

	for name, pinger := range h.checks {
		if err := pinger.Ping(ctx); err != nil {
			resp.Status = "degraded"
			resp.Checks[name] = err.Error()
			if h.logger != nil {
				h.logger.Warn("health check failed", zap.String("dependency", name), zap.Error(err))
			}
			continue
		}
		resp.Checks[name] = "ok"
	}

	status := http.StatusOK
	if resp.Status != "ok" {
		status = http.StatusServiceUnavailable
	}
	return c.JSON(status, resp)
}
