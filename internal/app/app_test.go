package app

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	apperrors "github.com/johnquangdev/earnings-transcripts/errors"
	"github.com/johnquangdev/earnings-transcripts/pkg/config"
)

func testConfig() *config.Config {
	return &config.Config{
		Server:     config.ServerConfig{ProjectName: "earnings-sentiment", Environment: "test"},
		Database:   config.DatabaseConfig{Host: "127.0.0.1", Port: "1", User: "postgres", Name: "earnings", SSLMode: "disable", MaxConns: 1, MinConns: 1},
		Parameters: config.ParametersConfig{Source: config.ParameterSourceEnv},
	}
}

func setParameters(t *testing.T, table string) {
	t.Helper()
	t.Setenv("ALPHA_VANTAGE_API_KEY", "test-key")
	t.Setenv("EARNINGS_TRANSCRIPTS_TABLE", table)
	t.Setenv("EARNINGS_DATA_BUCKET", "earnings-data")
}

func requireCode(t *testing.T, err error, code apperrors.ErrorCode) apperrors.AppError {
	t.Helper()
	require.Error(t, err)
	var appErr apperrors.AppError
	require.True(t, errors.As(err, &appErr), "got %v", err)
	assert.Equal(t, code, appErr.Code)
	return appErr
}

func TestBuild_MissingParameter(t *testing.T) {
	setParameters(t, "earnings_transcripts")
	t.Setenv("ALPHA_VANTAGE_API_KEY", "")

	_, err := Build(context.Background(), testConfig(), zap.NewNop())

	appErr := requireCode(t, err, apperrors.ErrorCode_CONFIGURATION)
	assert.Equal(t, "/earnings-sentiment/test/alpha-vantage-api-key", appErr.Details["parameter"])
}

func TestBuild_InvalidTableNameFailsBeforeConnecting(t *testing.T) {
	setParameters(t, "earnings-transcripts")

	_, err := Build(context.Background(), testConfig(), zap.NewNop())

	appErr := requireCode(t, err, apperrors.ErrorCode_CONFIGURATION)
	assert.Equal(t, "/earnings-sentiment/test/earnings-transcripts-table", appErr.Details["parameter"])
}

func TestBuild_DatabaseUnreachable(t *testing.T) {
	setParameters(t, "transcripts_prod")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := Build(ctx, testConfig(), zap.NewNop())

	requireCode(t, err, apperrors.ErrorCode_DB_CONNECTION_FAILED)
}
