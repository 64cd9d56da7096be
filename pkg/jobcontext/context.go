package jobcontext

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type KeyContext string

var (
	keyRunID        KeyContext = "run_id"
	keyRunType      KeyContext = "run_type"
	keySymbol       KeyContext = "symbol"
	keyRunStartTime KeyContext = "run_start_time"
)

// RunMetadata holds metadata for one ingestion run
type RunMetadata struct {
	RunID     uuid.UUID
	RunType   string
	Symbol    string
	StartTime time.Time
}

// RunBegin initializes a run context with metadata. A positive timeout bounds
// the whole run; zero leaves the parent deadline in place.
func RunBegin(parentCtx context.Context, runID uuid.UUID, runType, symbol string, timeout time.Duration) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(parentCtx)
	if timeout > 0 {
		cancel()
		ctx, cancel = context.WithTimeout(parentCtx, timeout)
	}

	ctx = context.WithValue(ctx, keyRunID, runID)
	ctx = context.WithValue(ctx, keyRunType, runType)
	ctx = context.WithValue(ctx, keySymbol, symbol)
	ctx = context.WithValue(ctx, keyRunStartTime, time.Now())

	return ctx, cancel
}

// GetRunID extracts run ID from context
func GetRunID(ctx context.Context) (uuid.UUID, bool) {
	runID, ok := ctx.Value(keyRunID).(uuid.UUID)
	return runID, ok
}

// GetRunType extracts run type from context
func GetRunType(ctx context.Context) (string, bool) {
	runType, ok := ctx.Value(keyRunType).(string)
	return runType, ok
}

// GetSymbol extracts the symbol being ingested from context
func GetSymbol(ctx context.Context) (string, bool) {
	symbol, ok := ctx.Value(keySymbol).(string)
	return symbol, ok
}

// GetRunStartTime extracts run start time from context
func GetRunStartTime(ctx context.Context) (time.Time, bool) {
	startTime, ok := ctx.Value(keyRunStartTime).(time.Time)
	return startTime, ok
}

// GetRunMetadata extracts all run metadata from context
func GetRunMetadata(ctx context.Context) *RunMetadata {
	runID, _ := GetRunID(ctx)
	runType, _ := GetRunType(ctx)
	symbol, _ := GetSymbol(ctx)
	startTime, _ := GetRunStartTime(ctx)

	return &RunMetadata{
		RunID:     runID,
		RunType:   runType,
		Symbol:    symbol,
		StartTime: startTime,
	}
}

// Fields returns the run metadata present in ctx as zap fields
func Fields(ctx context.Context) []zap.Field {
	var fields []zap.Field
	if runID, ok := GetRunID(ctx); ok {
		fields = append(fields, zap.String("run_id", runID.String()))
	}
	if runType, ok := GetRunType(ctx); ok {
		fields = append(fields, zap.String("run_type", runType))
	}
	if startTime, ok := GetRunStartTime(ctx); ok {
		fields = append(fields, zap.Duration("elapsed", time.Since(startTime)))
	}
	return fields
}
