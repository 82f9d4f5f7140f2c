package logger

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestInitialize(t *testing.T) {
	defer ReplaceForTest(Default())()

	require.NoError(t, Initialize(Config{Debug: true, Service: "streaks-api"}))
	assert.True(t, Default().Core().Enabled(zapcore.DebugLevel))

	require.NoError(t, Initialize(Config{Service: "streaks-api"}))
	assert.False(t, Default().Core().Enabled(zapcore.DebugLevel))
}

func TestFromContext_RequestID(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	defer ReplaceForTest(zap.New(core))()

	ctx := WithRequestID(context.Background(), "req-1")
	assert.Equal(t, "req-1", RequestID(ctx))

	WarnCtx(ctx, "No streak outputs admitted")

	entries := logs.FilterMessage("No streak outputs admitted").All()
	require.Len(t, entries, 1)
	assert.Equal(t, zapcore.WarnLevel, entries[0].Level)
	assert.Equal(t, "req-1", entries[0].ContextMap()["requestID"])
}

func TestRequestID_Missing(t *testing.T) {
	assert.Empty(t, RequestID(context.Background()))
}
