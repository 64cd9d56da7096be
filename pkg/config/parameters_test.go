package config

import (
	"context"
	stdErrors "errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/johnquangdev/earnings-transcripts/errors"
)

type mapStore map[string]string

func (m mapStore) GetParameter(_ context.Context, name string) (string, error) {
	return m[name], nil
}

type failingStore struct{}

func (failingStore) GetParameter(context.Context, string) (string, error) {
	return "", stdErrors.New("connection refused")
}

func TestEnvKeyForParameter(t *testing.T) {
	assert.Equal(t, "ALPHA_VANTAGE_API_KEY", EnvKeyForParameter("/earnings-sentiment/dev/alpha-vantage-api-key"))
	assert.Equal(t, "EARNINGS_DATA_BUCKET", EnvKeyForParameter("earnings-data-bucket"))
}

func TestEnvParameterStore(t *testing.T) {
	store := &EnvParameterStore{lookup: func(key string) (string, bool) {
		if key == "EARNINGS_TRANSCRIPTS_TABLE" {
			return "transcripts-dev", true
		}
		return "", false
	}}

	v, err := store.GetParameter(context.Background(), "/p/dev/earnings-transcripts-table")
	require.NoError(t, err)
	assert.Equal(t, "transcripts-dev", v)

	v, err = store.GetParameter(context.Background(), "/p/dev/unknown")
	require.NoError(t, err)
	assert.Empty(t, v)
}

func TestResolveIngestion(t *testing.T) {
	store := mapStore{
		"/p/dev/alpha-vantage-api-key":      "key",
		"/p/dev/earnings-transcripts-table": "earnings_transcripts",
		"/p/dev/earnings-data-bucket":       "earnings-data",
	}

	params, err := ResolveIngestion(context.Background(), store, "/p/dev")
	require.NoError(t, err)
	assert.Equal(t, "key", params.APIKey)
	assert.Equal(t, "earnings_transcripts", params.TableName)
	assert.Equal(t, "earnings-data", params.BucketName)
}

func TestResolveIngestion_MissingParameter(t *testing.T) {
	store := mapStore{
		"/p/dev/alpha-vantage-api-key": "key",
		"/p/dev/earnings-data-bucket":  "earnings-data",
	}

	_, err := ResolveIngestion(context.Background(), store, "/p/dev")
	require.Error(t, err)

	var appErr apperrors.AppError
	require.True(t, stdErrors.As(err, &appErr))
	assert.Equal(t, apperrors.ErrorCode_CONFIGURATION, appErr.Code)
	assert.Equal(t, "/p/dev/earnings-transcripts-table", appErr.Details["parameter"])
}

func TestResolveIngestion_CustomTable(t *testing.T) {
	store := mapStore{
		"/p/prod/alpha-vantage-api-key":      "key",
		"/p/prod/earnings-transcripts-table": "transcripts_prod",
		"/p/prod/earnings-data-bucket":       "earnings-data",
	}

	params, err := ResolveIngestion(context.Background(), store, "/p/prod")
	require.NoError(t, err)
	assert.Equal(t, "transcripts_prod", params.TableName)
}

func TestResolveIngestion_InvalidTableName(t *testing.T) {
	for _, table := range []string{"earnings-transcripts", "Transcripts", "1transcripts", "t; DROP TABLE x"} {
		store := mapStore{
			"/p/dev/alpha-vantage-api-key":      "key",
			"/p/dev/earnings-transcripts-table": table,
			"/p/dev/earnings-data-bucket":       "earnings-data",
		}

		_, err := ResolveIngestion(context.Background(), store, "/p/dev")
		require.Error(t, err, table)

		var appErr apperrors.AppError
		require.True(t, stdErrors.As(err, &appErr), table)
		assert.Equal(t, apperrors.ErrorCode_CONFIGURATION, appErr.Code, table)
		assert.Equal(t, "/p/dev/earnings-transcripts-table", appErr.Details["parameter"], table)
	}
}

func TestResolveIngestion_StoreError(t *testing.T) {
	_, err := ResolveIngestion(context.Background(), failingStore{}, "/p/dev")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "connection refused")
}

func TestValidate(t *testing.T) {
	cfg := &Config{Parameters: ParametersConfig{Source: "ssm"}}
	assert.Error(t, cfg.Validate())

	cfg.Parameters.Source = ParameterSourceRedis
	assert.NoError(t, cfg.Validate())

	cfg.Provider.MaxResponseBytes = -1
	assert.Error(t, cfg.Validate())
	cfg.Provider.MaxResponseBytes = 0
	assert.Equal(t, "/earnings/prod", (&Config{Server: ServerConfig{ProjectName: "earnings", Environment: "prod"}}).ParameterPrefix())
}
