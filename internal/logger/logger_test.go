package logger

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_FormatSelection(t *testing.T) {
	var buf bytes.Buffer

	// Production defaults to JSON.
	l := New(Config{Writer: &buf, Environment: "production"})
	l.Info("hello", "key", "value")
	assert.True(t, strings.HasPrefix(strings.TrimSpace(buf.String()), "{"))

	// Development defaults to pretty output with ANSI colors.
	buf.Reset()
	l = New(Config{Writer: &buf, Environment: "development"})
	l.Info("hello")
	assert.Contains(t, buf.String(), "\033[")
	assert.Contains(t, buf.String(), "hello")

	// Explicit format wins over environment.
	buf.Reset()
	l = New(Config{Writer: &buf, Environment: "development", Format: "json"})
	l.Info("hello")
	assert.True(t, strings.HasPrefix(strings.TrimSpace(buf.String()), "{"))
}

func TestParseLevel(t *testing.T) {
	cases := map[string]slog.Level{
		"debug":   slog.LevelDebug,
		"info":    slog.LevelInfo,
		"warn":    slog.LevelWarn,
		"warning": slog.LevelWarn,
		"ERROR":   slog.LevelError,
		"bogus":   slog.LevelInfo,
		"":        slog.LevelInfo,
	}
	for in, want := range cases {
		assert.Equal(t, want, ParseLevel(in), "input %q", in)
	}
}

func TestPrettyHandler_LevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	h := NewPrettyHandler(&buf, &slog.HandlerOptions{Level: slog.LevelWarn})

	assert.False(t, h.Enabled(context.Background(), slog.LevelInfo))
	assert.True(t, h.Enabled(context.Background(), slog.LevelWarn))
	assert.True(t, h.Enabled(context.Background(), slog.LevelError))
}

func TestPrettyHandler_Output(t *testing.T) {
	var buf bytes.Buffer
	l := New(Config{Writer: &buf, Format: "pretty"})

	l.Warn("disk almost full", "path", "/data", "free_mb", 12)

	out := buf.String()
	assert.Contains(t, out, "WRN")
	assert.Contains(t, out, "disk almost full")
	assert.Contains(t, out, "path=/data")
	assert.Contains(t, out, "free_mb=12")
}

func TestPrettyHandler_WithAttrs(t *testing.T) {
	var buf bytes.Buffer
	h := NewPrettyHandler(&buf, nil).WithAttrs([]slog.Attr{slog.String("request_id", "req-1")})
	l := slog.New(h)

	l.Info("handled")
	assert.Contains(t, buf.String(), "request_id=req-1")
}

func TestWithHelpers(t *testing.T) {
	var buf bytes.Buffer
	l := New(Config{Writer: &buf, Format: "json"})

	l.WithError(errors.New("boom")).Error("request failed")
	require.Contains(t, buf.String(), `"error":"boom"`)

	buf.Reset()
	l.WithField("user_id", "usr-1").Info("login")
	assert.Contains(t, buf.String(), `"user_id":"usr-1"`)

	buf.Reset()
	l.WithFields(map[string]any{"a": 1, "b": "two"}).Info("multi")
	assert.Contains(t, buf.String(), `"a":1`)
	assert.Contains(t, buf.String(), `"b":"two"`)
}
