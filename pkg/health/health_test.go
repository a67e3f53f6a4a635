package health

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLivenessHandler_AlwaysUp(t *testing.T) {
	h := NewHandler()
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/health/live", nil)

	h.LivenessHandler()(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)

	var resp Response
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, StatusUp, resp.Status)
}

func TestReadinessHandler_AllUp(t *testing.T) {
	h := NewHandler()
	h.Register("redis", func(ctx context.Context) error { return nil })
	h.Register("catalog", func(ctx context.Context) error { return nil })

	rec := httptest.NewRecorder()
	h.ReadinessHandler()(rec, httptest.NewRequest(http.MethodGet, "/health/ready", nil))

	assert.Equal(t, http.StatusOK, rec.Code)

	var resp Response
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, StatusUp, resp.Status)
	assert.Len(t, resp.Checks, 2)
}

func TestReadinessHandler_CriticalFailure(t *testing.T) {
	h := NewHandler()
	h.Register("redis", func(ctx context.Context) error { return errors.New("connection refused") })

	rec := httptest.NewRecorder()
	h.ReadinessHandler()(rec, httptest.NewRequest(http.MethodGet, "/health/ready", nil))

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)

	var resp Response
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, StatusDown, resp.Status)
	assert.Equal(t, StatusDown, resp.Checks["redis"].Status)
	assert.Contains(t, resp.Checks["redis"].Error, "connection refused")
}

func TestReadinessHandler_NonCriticalFailureStaysReady(t *testing.T) {
	h := NewHandler()
	h.Register("redis", func(ctx context.Context) error { return nil })
	h.RegisterNonCritical("kafka", func(ctx context.Context) error { return errors.New("brokers unreachable") })

	rec := httptest.NewRecorder()
	h.ReadinessHandler()(rec, httptest.NewRequest(http.MethodGet, "/health/ready", nil))

	assert.Equal(t, http.StatusOK, rec.Code)

	var resp Response
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, StatusUp, resp.Status)
	assert.Equal(t, StatusDown, resp.Checks["kafka"].Status)
}
