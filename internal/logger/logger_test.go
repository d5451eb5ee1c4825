package logger

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

// TestParseLogLevel maps the CLI names to levels and rejects unknown input.
func TestParseLogLevel(t *testing.T) {
	t.Parallel()

	cases := map[string]zapcore.Level{
		"debug":   zapcore.DebugLevel,
		"info":    zapcore.InfoLevel,
		"warn":    zapcore.WarnLevel,
		"ERROR":   zapcore.ErrorLevel,
		" fatal ": zapcore.FatalLevel,
	}
	for s, want := range cases {
		got, ok := ParseLogLevel(s)
		require.True(t, ok, s)
		require.Equal(t, want, got, s)
	}

	_, ok := ParseLogLevel("loud")
	require.False(t, ok)
}

// TestFromContext_Fallback returns the global logger for a bare context and
// the stored one after ToContext.
func TestFromContext_Fallback(t *testing.T) {
	t.Parallel()

	require.Same(t, Logger(), FromContext(context.Background()))

	core, _ := observer.New(zapcore.DebugLevel)
	stored := zap.New(core).Sugar()

	ctx := ToContext(context.Background(), stored)
	require.Same(t, stored, FromContext(ctx))
}

// TestWithName_ScopesLogger attaches a component name that shows up on
// entries logged through the context.
func TestWithName_ScopesLogger(t *testing.T) {
	t.Parallel()

	core, logs := observer.New(zapcore.DebugLevel)
	ctx := ToContext(context.Background(), zap.New(core).Sugar())
	ctx = WithName(ctx, "agent")

	InfoKV(ctx, "started", "addr", "127.0.0.1:0")

	entries := logs.All()
	require.Len(t, entries, 1)
	require.Equal(t, "agent", entries[0].LoggerName)
	require.Equal(t, "started", entries[0].Message)
}
