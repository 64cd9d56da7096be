package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	_ "github.com/johnquangdev/earnings-transcripts/docs"
	"github.com/johnquangdev/earnings-transcripts/internal/adapter/handler"
	"github.com/johnquangdev/earnings-transcripts/internal/app"
	httpmw "github.com/johnquangdev/earnings-transcripts/internal/infrastructure/http/middleware"
	"github.com/johnquangdev/earnings-transcripts/pkg/config"
	"github.com/johnquangdev/earnings-transcripts/pkg/jwt"
	pkgvalidator "github.com/johnquangdev/earnings-transcripts/pkg/validator"
)

// @title           Earnings Transcripts API
// @version         1.0
// @description     Ingests earnings call transcripts per fiscal quarter and serves the stored metadata and raw payloads.

// @BasePath  /v1

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and a service token.

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logger, err := app.NewLogger(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	deps, err := app.Build(ctx, cfg, logger)
	if err != nil {
		log.Fatalf("Failed to initialize dependencies: %v", err)
	}
	defer deps.Close()

	// Initialize Echo instance
	e := echo.New()

	// Register validator for request validation
	e.Validator = pkgvalidator.New()

	e.HideBanner = true
	e.HidePort = false

	e.Use(middleware.RequestID())
	e.Use(middleware.LoggerWithConfig(middleware.LoggerConfig{
		Format: "${time_rfc3339} | ${id} | ${status} | ${method} ${uri} | ${latency_human}\n",
	}))
	e.Use(middleware.Recover())
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: cfg.Server.AllowedOrigins,
		AllowMethods: []string{http.MethodGet, http.MethodPost},
		AllowHeaders: []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, echo.HeaderAuthorization},
	}))

	// Initialize JWT manager for service tokens
	log.Println("🔑 Initializing JWT manager...")
	jwtManager := jwt.NewManager(cfg.JWT.Secret, cfg.JWT.Expiry, cfg.Server.ProjectName)
	if cfg.JWT.Secret == "" {
		log.Println("⚠️  JWT_SECRET is empty, POST /v1/transcripts/ingest will reject every request")
	}

	healthHandler := handler.NewHealthHandler(cfg.Server.Environment, map[string]handler.Pinger{
		"postgres": handler.PingFunc(deps.PingDB),
		"minio":    deps.Blobs,
	}, logger.Named("health"))

	transcriptHandler := handler.NewTranscriptHandler(deps.Pipeline, deps.Query, deps.Parameters.BucketName, logger.Named("http"))

	log.Println("🛣️  Setting up routes...")
	router := handler.NewRouter(cfg, healthHandler, transcriptHandler, httpmw.EchoAuth(jwtManager, jwt.ScopeIngest))
	router.Setup(e)

	// Start server
	go func() {
		addr := fmt.Sprintf("%s:%s", cfg.Server.Host, cfg.Server.Port)
		log.Printf("🚀 Starting server on %s", addr)
		log.Printf("📝 Environment: %s", cfg.Server.Environment)
		log.Printf("🔗 Health check: http://%s/health", addr)

		if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	// Graceful shutdown
	<-ctx.Done()

	log.Println("🛑 Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.Server.ShutdownTimeout)*time.Second)
	defer cancel()

	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Printf("❌ Server forced to shutdown: %v", err)
		return
	}

	log.Println("✅ Server stopped gracefully")
}
