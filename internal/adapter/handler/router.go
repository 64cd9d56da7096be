package handler

import (
	"github.com/labstack/echo/v4"
	echoSwagger "github.com/swaggo/echo-swagger"

	"github.com/johnquangdev/earnings-transcripts/pkg/config"
	pathmw "github.com/johnquangdev/earnings-transcripts/pkg/middleware"
)

// Router holds all handlers
type Router struct {
	cfg               *config.Config
	healthHandler     *Health
	transcriptHandler *Transcript
	authMiddleware    echo.MiddlewareFunc
}

// NewRouter creates a new router with all handlers. authMiddleware guards the
// ingestion trigger.
func NewRouter(cfg *config.Config, healthHandler *Health, transcriptHandler *Transcript, authMiddleware echo.MiddlewareFunc) *Router {
	return &Router{
		cfg:               cfg,
		healthHandler:     healthHandler,
		transcriptHandler: transcriptHandler,
		authMiddleware:    authMiddleware,
	}
}

// Setup configures all application routes
func (rt *Router) Setup(e *echo.Echo) {
	// Health check endpoint
	e.GET("/health", rt.healthHandler.Check)

	if !rt.cfg.IsProduction() {
		e.GET("/swagger/*", echoSwagger.WrapHandler)
	}

	// API v1 group
	v1 := e.Group("/v1")

	rt.setupTranscriptRoutes(v1)
}

// setupTranscriptRoutes configures ingestion and query routes
func (rt *Router) setupTranscriptRoutes(g *echo.Group) {
	transcripts := g.Group("/transcripts")

	ingestMiddleware := []echo.MiddlewareFunc{}
	if rt.authMiddleware != nil {
		ingestMiddleware = append(ingestMiddleware, rt.authMiddleware)
	}
	transcripts.POST("/ingest", rt.transcriptHandler.Ingest, ingestMiddleware...)

	pathGuard := pathmw.RequireTranscriptPath()
	transcripts.GET("/:symbol", rt.transcriptHandler.ListBySymbol, pathGuard)
	transcripts.GET("/:symbol/quarters", rt.transcriptHandler.ListStoredQuarters, pathGuard)
	transcripts.GET("/:symbol/:quarter", rt.transcriptHandler.GetQuarter, pathGuard)
	transcripts.GET("/:symbol/:quarter/raw", rt.transcriptHandler.GetRaw, pathGuard)
}
