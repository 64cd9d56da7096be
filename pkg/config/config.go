package config

import (
	"fmt"
	"log"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// Config holds application configuration
type Config struct {
	Server     ServerConfig
	Database   DatabaseConfig
	Redis      RedisConfig
	Storage    StorageConfig
	Provider   ProviderConfig
	Parameters ParametersConfig
	JWT        JWTConfig
}

// ServerConfig holds server configuration
type ServerConfig struct {
	Port            string   `envconfig:"PORT" default:"8080"`
	Host            string   `envconfig:"HOST" default:"0.0.0.0"`
	Environment     string   `envconfig:"ENVIRONMENT" default:"development"`
	ProjectName     string   `envconfig:"PROJECT_NAME" default:"earnings-sentiment"`
	AllowedOrigins  []string `envconfig:"ALLOWED_ORIGINS" default:"http://localhost:3000"`
	ShutdownTimeout int      `envconfig:"SHUTDOWN_TIMEOUT" default:"10"`
}

// DatabaseConfig holds database configuration
type DatabaseConfig struct {
	Host        string `envconfig:"DB_HOST" default:"localhost"`
	Port        string `envconfig:"DB_PORT" default:"5432"`
	User        string `envconfig:"DB_USER" default:"postgres"`
	Password    string `envconfig:"DB_PASSWORD" default:"postgres"`
	Name        string `envconfig:"DB_NAME" default:"earnings"`
	SSLMode     string `envconfig:"DB_SSLMODE" default:"disable"`
	MaxConns    int    `envconfig:"DB_MAX_CONNS" default:"10"`
	MinConns    int    `envconfig:"DB_MIN_CONNS" default:"2"`
	AutoMigrate bool   `envconfig:"DB_AUTO_MIGRATE" default:"false"`
}

// RedisConfig holds Redis configuration
type RedisConfig struct {
	Host     string `envconfig:"REDIS_HOST" default:"localhost"`
	Port     string `envconfig:"REDIS_PORT" default:"6379"`
	Password string `envconfig:"REDIS_PASSWORD" default:""`
	DB       int    `envconfig:"REDIS_DB" default:"0"`
}

// StorageConfig holds blob storage configuration. The bucket itself is
// resolved through the parameter store.
type StorageConfig struct {
	Endpoint        string `envconfig:"STORAGE_ENDPOINT" default:"localhost:9000"`
	AccessKeyID     string `envconfig:"STORAGE_ACCESS_KEY" default:"minioadmin"`
	SecretAccessKey string `envconfig:"STORAGE_SECRET_KEY" default:"minioadmin"`
	Region          string `envconfig:"STORAGE_REGION" default:"us-east-1"`
	UseSSL          bool   `envconfig:"STORAGE_USE_SSL" default:"false"`
}

// ProviderConfig holds transcript provider settings
type ProviderConfig struct {
	BaseURL          string        `envconfig:"ALPHA_VANTAGE_BASE_URL" default:"https://www.alphavantage.co/query"`
	Timeout          time.Duration `envconfig:"ALPHA_VANTAGE_TIMEOUT" default:"30s"`
	RequestDelay     time.Duration `envconfig:"ALPHA_VANTAGE_REQUEST_DELAY" default:"1s"`
	MaxResponseBytes int64         `envconfig:"ALPHA_VANTAGE_MAX_RESPONSE_BYTES" default:"10485760"` // 10 MiB
}

// ParametersConfig selects where secrets and resource names are resolved from
type ParametersConfig struct {
	Source   string        `envconfig:"PARAMETER_SOURCE" default:"env"` // "env" or "redis"
	CacheTTL time.Duration `envconfig:"PARAMETER_CACHE_TTL" default:"5m"`
}

// JWTConfig holds service token configuration
type JWTConfig struct {
	Secret string        `envconfig:"JWT_SECRET" default:""`
	Expiry time.Duration `envconfig:"JWT_EXPIRY" default:"24h"`
}

// Load loads configuration from environment variables
func Load() (*Config, error) {
	// Load .env file if exists (ignore error if file doesn't exist)
	if err := godotenv.Load(); err != nil {
		log.Printf("Warning: .env file not found, using environment variables or defaults")
	}

	var config Config
	if err := envconfig.Process("", &config); err != nil {
		return nil, fmt.Errorf("failed to process environment: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return &config, nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.Parameters.Source != ParameterSourceEnv && c.Parameters.Source != ParameterSourceRedis {
		return fmt.Errorf("PARAMETER_SOURCE must be %q or %q, got %q", ParameterSourceEnv, ParameterSourceRedis, c.Parameters.Source)
	}
	if c.Provider.RequestDelay < 0 {
		return fmt.Errorf("ALPHA_VANTAGE_REQUEST_DELAY must not be negative")
	}
	if c.Provider.MaxResponseBytes < 0 {
		return fmt.Errorf("ALPHA_VANTAGE_MAX_RESPONSE_BYTES must not be negative")
	}
	return nil
}

// IsProduction reports whether the service runs in production
func (c *Config) IsProduction() bool {
	return c.Server.Environment == "production"
}

// GetDatabaseDSN returns the database connection string
func (c *Config) GetDatabaseDSN() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.Database.Host,
		c.Database.Port,
		c.Database.User,
		c.Database.Password,
		c.Database.Name,
		c.Database.SSLMode,
	)
}

// GetRedisAddr returns the Redis address
func (c *Config) GetRedisAddr() string {
	return fmt.Sprintf("%s:%s", c.Redis.Host, c.Redis.Port)
}

// ParameterPrefix returns the "/{project}/{environment}" prefix used for parameter names
func (c *Config) ParameterPrefix() string {
	return fmt.Sprintf("/%s/%s", c.Server.ProjectName, c.Server.Environment)
}
