package config

import (
	"context"
	"fmt"
	"os"
	"regexp"
	"strings"

	apperrors "github.com/johnquangdev/earnings-transcripts/errors"
)

const (
	ParameterSourceEnv   = "env"
	ParameterSourceRedis = "redis"
)

// Parameter names relative to the "/{project}/{environment}" prefix
const (
	ParamAlphaVantageAPIKey = "alpha-vantage-api-key"
	ParamTranscriptsTable   = "earnings-transcripts-table"
	ParamDataBucket         = "earnings-data-bucket"
)

// tableNamePattern accepts unquoted lower-case Postgres identifiers
var tableNamePattern = regexp.MustCompile(`^[a-z_][a-z0-9_]{0,62}$`)

// ValidTableName reports whether name can be used as the metadata table
func ValidTableName(name string) bool {
	return tableNamePattern.MatchString(name)
}

// ParameterStore resolves a named secret or resource name to its value.
// A missing parameter resolves to an empty string and no error.
type ParameterStore interface {
	GetParameter(ctx context.Context, name string) (string, error)
}

// IngestionParameters are the values the ingestion job cannot run without
type IngestionParameters struct {
	APIKey     string
	TableName  string
	BucketName string
}

// EnvParameterStore reads parameters from environment variables.
// "/earnings-sentiment/dev/alpha-vantage-api-key" maps to ALPHA_VANTAGE_API_KEY.
type EnvParameterStore struct {
	lookup func(string) (string, bool)
}

// NewEnvParameterStore creates a parameter store backed by the process environment
func NewEnvParameterStore() *EnvParameterStore {
	return &EnvParameterStore{lookup: os.LookupEnv}
}

// GetParameter implements ParameterStore
func (s *EnvParameterStore) GetParameter(_ context.Context, name string) (string, error) {
	value, _ := s.lookup(EnvKeyForParameter(name))
	return value, nil
}

// EnvKeyForParameter converts a parameter path to its environment variable name
func EnvKeyForParameter(name string) string {
	base := name
	if i := strings.LastIndex(name, "/"); i >= 0 {
		base = name[i+1:]
	}
	return strings.ToUpper(strings.ReplaceAll(base, "-", "_"))
}

// ResolveIngestion resolves the provider key, metadata table and blob bucket.
// Any missing value is a configuration error.
func ResolveIngestion(ctx context.Context, store ParameterStore, prefix string) (*IngestionParameters, error) {
	get := func(name string) (string, error) {
		full := prefix + "/" + name
		value, err := store.GetParameter(ctx, full)
		if err != nil {
			return "", apperrors.ErrConfiguration(full, err)
		}
		value = strings.TrimSpace(value)
		if value == "" {
			return "", apperrors.ErrConfiguration(full, fmt.Errorf("parameter %s is not set", full))
		}
		return value, nil
	}

	apiKey, err := get(ParamAlphaVantageAPIKey)
	if err != nil {
		return nil, err
	}
	table, err := get(ParamTranscriptsTable)
	if err != nil {
		return nil, err
	}
	if !ValidTableName(table) {
		full := prefix + "/" + ParamTranscriptsTable
		return nil, apperrors.ErrConfiguration(full, fmt.Errorf("%q is not a valid table name", table))
	}
	bucket, err := get(ParamDataBucket)
	if err != nil {
		return nil, err
	}

	return &IngestionParameters{
		APIKey:     apiKey,
		TableName:  table,
		BucketName: bucket,
	}, nil
}
