package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewWithWriter_ServiceField(t *testing.T) {
	var buf bytes.Buffer
	l := NewWithWriter("reviews-widget", "info", &buf)

	l.Info("hello")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "reviews-widget", entry["service"])
	assert.Equal(t, "hello", entry["msg"])
}

func TestNewWithWriter_LevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	l := NewWithWriter("reviews-widget", "warn", &buf)

	l.Info("suppressed")
	assert.Zero(t, buf.Len())

	l.Warn("emitted")
	assert.NotZero(t, buf.Len())
}

func TestNewWithWriter_UnknownLevelDefaultsToInfo(t *testing.T) {
	var buf bytes.Buffer
	l := NewWithWriter("reviews-widget", "bogus", &buf)

	l.Debug("suppressed")
	assert.Zero(t, buf.Len())

	l.Info("emitted")
	assert.NotZero(t, buf.Len())
}

func TestCorrelationIDRoundTrip(t *testing.T) {
	ctx := context.Background()
	assert.Empty(t, CorrelationIDFromContext(ctx))

	ctx = WithCorrelationID(ctx, "corr-123")
	assert.Equal(t, "corr-123", CorrelationIDFromContext(ctx))
}

func TestSessionIDRoundTrip(t *testing.T) {
	ctx := WithSessionID(context.Background(), "sess-42")
	assert.Equal(t, "sess-42", SessionIDFromContext(ctx))
}

func TestWithContext_EnrichesFields(t *testing.T) {
	var buf bytes.Buffer
	base := NewWithWriter("reviews-widget", "info", &buf)

	ctx := WithCorrelationID(context.Background(), "corr-1")
	ctx = WithSessionID(ctx, "sess-1")

	WithContext(ctx, base).Info("enriched")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "corr-1", entry["correlation_id"])
	assert.Equal(t, "sess-1", entry["widget_session_id"])
}

func TestFromContext_FallsBackToDefault(t *testing.T) {
	assert.Equal(t, slog.Default(), FromContext(context.Background()))
}

func TestFromContext_ReturnsStoredLogger(t *testing.T) {
	var buf bytes.Buffer
	l := NewWithWriter("reviews-widget", "info", &buf)

	ctx := NewContext(context.Background(), l)
	assert.Same(t, l, FromContext(ctx))
}
