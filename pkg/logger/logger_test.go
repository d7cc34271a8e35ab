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

func TestParseLevel(t *testing.T) {
	cases := map[string]zapcore.Level{
		"debug":   zap.DebugLevel,
		"INFO":    zap.InfoLevel,
		"":        zap.InfoLevel,
		"warning": zap.WarnLevel,
		"error":   zap.ErrorLevel,
	}
	for name, want := range cases {
		got, err := ParseLevel(name)
		require.NoError(t, err, name)
		assert.Equal(t, want, got, name)
	}

	_, err := ParseLevel("loud")
	assert.Error(t, err)
}

func TestFromContextAddsRunID(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	prev := Logger
	SetLogger(zap.New(core))
	defer SetLogger(prev)

	ctx := WithRunID(context.Background(), "run-1")
	FromContext(ctx).Info("hello")

	entries := logs.All()
	require.Len(t, entries, 1)
	assert.Equal(t, "run-1", entries[0].ContextMap()["run_id"])
	assert.Equal(t, "run-1", RunIDFromContext(ctx))
}

func TestFromContextPrefersAttachedLogger(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	ctx := WithLogger(context.Background(), zap.New(core).With(zap.String("k", "v")))

	FromContext(ctx).Info("x")
	require.Equal(t, 1, logs.Len())
	assert.Equal(t, "v", logs.All()[0].ContextMap()["k"])
}

func TestInitLoggerRejectsUnknownLevel(t *testing.T) {
	err := InitLogger(true, "", "chatty")
	assert.Error(t, err)
}
