package logger

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestParseLogLevel(t *testing.T) {
	t.Parallel()

	cases := map[string]zapcore.Level{
		"debug":   zapcore.DebugLevel,
		"info":    zapcore.InfoLevel,
		"":        zapcore.InfoLevel,
		" WARN ":  zapcore.WarnLevel,
		"warning": zapcore.WarnLevel,
		"error":   zapcore.ErrorLevel,
		"fatal":   zapcore.FatalLevel,
	}
	for s, lvl := range cases {
		got, ok := ParseLogLevel(s)
		require.True(t, ok, s)
		require.Equal(t, lvl, got, s)
	}

	_, ok := ParseLogLevel("loud")
	require.False(t, ok)
}

func TestFromContextFallsBackToGlobal(t *testing.T) {
	assert.Same(t, Logger(), FromContext(context.Background()))
	assert.Same(t, Logger(), FromContext(nil)) //nolint:staticcheck
}

func TestContextHelpers(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	ctx := toContext(context.Background(), zap.New(core).Sugar())
	ctx = WithName(ctx, "loop")
	ctx = WithKV(ctx, "tick", 7)

	InfoKV(ctx, "event", "type", "GAS_ALERT")
	Errorf(ctx, "read %s: %v", "adc", "boom")

	entries := logs.All()
	require.Len(t, entries, 2)

	assert.Equal(t, "event", entries[0].Message)
	assert.Equal(t, "loop", entries[0].LoggerName)
	fields := entries[0].ContextMap()
	assert.EqualValues(t, 7, fields["tick"])
	assert.Equal(t, "GAS_ALERT", fields["type"])

	assert.Equal(t, zapcore.ErrorLevel, entries[1].Level)
	assert.Equal(t, "read adc: boom", entries[1].Message)
}

func TestNewWithSinkRespectsLevel(t *testing.T) {
	var buf bytes.Buffer
	l := NewWithSink(zapcore.WarnLevel, zapcore.AddSync(&buf))

	l.Info("hidden")
	l.Warn("shown")
	require.NoError(t, l.Sync())

	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), "shown")
	assert.Contains(t, buf.String(), "WARN")
}

func TestDebugAndFatal(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	ctx := toContext(context.Background(), zap.New(core, zap.WithFatalHook(zapcore.WriteThenPanic)).Sugar())

	Debugf(ctx, "remote command %v", "F")
	assert.Panics(t, func() { Fatalf(ctx, "fatal: %v", "no broker") })

	entries := logs.All()
	require.Len(t, entries, 2)
	assert.Equal(t, zapcore.DebugLevel, entries[0].Level)
	assert.Equal(t, "remote command F", entries[0].Message)
	assert.Equal(t, zapcore.FatalLevel, entries[1].Level)
	assert.Equal(t, "fatal: no broker", entries[1].Message)
}

func TestLevelFollowsSetLevel(t *testing.T) {
	prev := Level()
	t.Cleanup(func() { SetLevel(prev) })

	SetLevel(zapcore.WarnLevel)
	assert.Equal(t, zapcore.WarnLevel, Level())
}
