package jobcontext

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunBegin(t *testing.T) {
	runID := uuid.New()
	ctx, cancel := RunBegin(context.Background(), runID, "transcript", "IBM", time.Minute)
	defer cancel()

	meta := GetRunMetadata(ctx)
	assert.Equal(t, runID, meta.RunID)
	assert.Equal(t, "transcript", meta.RunType)
	assert.Equal(t, "IBM", meta.Symbol)
	assert.False(t, meta.StartTime.IsZero())

	_, hasDeadline := ctx.Deadline()
	assert.True(t, hasDeadline)

	fields := Fields(ctx)
	require.Len(t, fields, 3)
	assert.Equal(t, "run_id", fields[0].Key)
}

func TestRunBegin_NoTimeout(t *testing.T) {
	ctx, cancel := RunBegin(context.Background(), uuid.New(), "transcript", "IBM", 0)

	_, hasDeadline := ctx.Deadline()
	assert.False(t, hasDeadline)

	cancel()
	assert.ErrorIs(t, ctx.Err(), context.Canceled)
}

func TestGetters_EmptyContext(t *testing.T) {
	ctx := context.Background()

	_, ok := GetRunID(ctx)
	assert.False(t, ok)
	_, ok = GetSymbol(ctx)
	assert.False(t, ok)
	assert.Empty(t, Fields(ctx))
}
