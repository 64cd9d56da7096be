package app

import (
	"context"
	"fmt"
	"log"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/gorm"

	apperrors "github.com/johnquangdev/earnings-transcripts/errors"
	"github.com/johnquangdev/earnings-transcripts/internal/adapter/repository"
	"github.com/johnquangdev/earnings-transcripts/internal/infrastructure/cache"
	"github.com/johnquangdev/earnings-transcripts/internal/infrastructure/database"
	"github.com/johnquangdev/earnings-transcripts/internal/infrastructure/external/alphavantage"
	"github.com/johnquangdev/earnings-transcripts/internal/infrastructure/storage"
	"github.com/johnquangdev/earnings-transcripts/internal/usecase/transcript"
	"github.com/johnquangdev/earnings-transcripts/pkg/config"
)

// App holds the wired ingestion and query components shared by the HTTP
// server and the CLI job
type App struct {
	Config     *config.Config
	Parameters *config.IngestionParameters
	DB         *gorm.DB
	Redis      *redis.Client
	Blobs      *storage.MinIOClient
	Pipeline   *transcript.Pipeline
	Query      *transcript.QueryService
	Logger     *zap.Logger
}

// NewLogger returns a production logger in production and a development
// logger otherwise
func NewLogger(cfg *config.Config) (*zap.Logger, error) {
	if cfg.IsProduction() {
		return zap.NewProduction()
	}
	return zap.NewDevelopment()
}

// Build resolves parameters and connects every dependency. Missing
// parameters fail here, before any quarter is processed.
func Build(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*App, error) {
	a := &App{Config: cfg, Logger: logger}

	log.Println("🔧 Initializing dependencies...")

	store, err := a.parameterStore(ctx)
	if err != nil {
		a.Close()
		return nil, err
	}

	log.Println("🔑 Resolving ingestion parameters...")
	params, err := config.ResolveIngestion(ctx, store, cfg.ParameterPrefix())
	if err != nil {
		a.Close()
		return nil, err
	}
	a.Parameters = params

	log.Println("📦 Connecting to database...")
	a.DB, err = database.NewPostgresDB(ctx, cfg)
	if err != nil {
		a.Close()
		return nil, apperrors.ErrDBConnectionFailed(err)
	}

	if cfg.Database.AutoMigrate {
		if cfg.IsProduction() {
			a.Close()
			return nil, fmt.Errorf("DB_AUTO_MIGRATE is enabled in production; run scripts/migrate.go instead")
		}
		if err := database.AutoMigrate(a.DB); err != nil {
			a.Close()
			return nil, err
		}
	}

	if err := database.EnsureTranscriptTable(ctx, a.DB, params.TableName); err != nil {
		a.Close()
		return nil, apperrors.ErrDBQueryFailed("create transcript table", err).WithDetail("table", params.TableName)
	}

	log.Println("🪣 Connecting to blob storage...")
	a.Blobs, err = storage.NewMinIOClient(ctx, &cfg.Storage, params.BucketName)
	if err != nil {
		a.Close()
		return nil, err
	}

	metadataRepo := repository.NewTranscriptMetadataRepository(a.DB, params.TableName)

	writer, err := transcript.NewDualStoreWriter(a.Blobs, metadataRepo, logger.Named("writer"))
	if err != nil {
		a.Close()
		return nil, err
	}

	fetcher := alphavantage.NewClient(cfg.Provider, params.APIKey, logger.Named("alphavantage"))

	a.Pipeline, err = transcript.NewPipeline(fetcher, writer, logger.Named("pipeline"))
	if err != nil {
		a.Close()
		return nil, err
	}

	a.Query = transcript.NewQueryService(a.Blobs, metadataRepo, logger.Named("query"))

	log.Println("✅ Dependencies initialized")
	return a, nil
}

// parameterStore builds the configured parameter backend behind a memory cache
func (a *App) parameterStore(ctx context.Context) (config.ParameterStore, error) {
	var store config.ParameterStore

	switch a.Config.Parameters.Source {
	case config.ParameterSourceRedis:
		log.Println("📦 Connecting to Redis parameter store...")
		client, err := cache.NewRedisClient(ctx, a.Config)
		if err != nil {
			return nil, apperrors.ErrCacheFailed("connect", err)
		}
		a.Redis = client
		store = cache.NewRedisParameterStore(client)
	default:
		store = config.NewEnvParameterStore()
	}

	memory := cache.NewMemoryStore(ctx, a.Config.Parameters.CacheTTL)
	return cache.NewCachedParameterStore(store, memory, a.Config.Parameters.CacheTTL), nil
}

// PingDB checks the database connection
func (a *App) PingDB(ctx context.Context) error {
	sqlDB, err := a.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

// Close releases every connection that was opened
func (a *App) Close() {
	if a.DB != nil {
		if err := database.CloseDB(a.DB); err != nil {
			log.Printf("⚠️  %v", err)
		}
	}
	if a.Redis != nil {
		if err := a.Redis.Close(); err != nil {
			log.Printf("⚠️  failed to close redis: %v", err)
		}
	}
}
