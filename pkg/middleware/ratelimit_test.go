package middleware

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

func TestRateLimit_AllowsWithinBurst(t *testing.T) {
	mw := RateLimit(1, 2, discardLogger())
	h := mw(okHandler())

	for i := 0; i < 2; i++ {
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/widget", nil)
		req.RemoteAddr = "10.0.0.1:1234"
		h.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusOK, rec.Code)
	}
}

func TestRateLimit_RejectsOverBurst(t *testing.T) {
	mw := RateLimit(1, 1, discardLogger())
	h := mw(okHandler())

	first := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/widget", nil)
	req.RemoteAddr = "10.0.0.2:1234"
	h.ServeHTTP(first, req)
	assert.Equal(t, http.StatusOK, first.Code)

	second := httptest.NewRecorder()
	h.ServeHTTP(second, req)
	assert.Equal(t, http.StatusTooManyRequests, second.Code)
	assert.Contains(t, second.Body.String(), "RATE_LIMITED")
}

func TestRateLimit_SeparateBucketsPerIP(t *testing.T) {
	mw := RateLimit(1, 1, discardLogger())
	h := mw(okHandler())

	a := httptest.NewRequest(http.MethodGet, "/widget", nil)
	a.RemoteAddr = "10.0.0.3:1234"
	b := httptest.NewRequest(http.MethodGet, "/widget", nil)
	b.RemoteAddr = "10.0.0.4:1234"

	recA := httptest.NewRecorder()
	h.ServeHTTP(recA, a)
	recB := httptest.NewRecorder()
	h.ServeHTTP(recB, b)

	assert.Equal(t, http.StatusOK, recA.Code)
	assert.Equal(t, http.StatusOK, recB.Code)
}

func TestVisitorStore_CleanupEvictsStale(t *testing.T) {
	s := &visitorStore{
		visitors: make(map[string]*visitor),
		rps:      1,
		burst:    1,
		ttl:      time.Minute,
		nowFunc:  time.Now,
	}

	s.getVisitor("10.0.0.5")
	assert.Equal(t, 1, s.len())

	s.nowFunc = func() time.Time { return time.Now().Add(2 * time.Minute) }
	s.cleanup()
	assert.Equal(t, 0, s.len())
}

func TestClientIP(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = "192.0.2.7:5555"
	assert.Equal(t, "192.0.2.7", clientIP(req))

	req.Header.Set("X-Real-IP", "198.51.100.9")
	assert.Equal(t, "198.51.100.9", clientIP(req))

	req.Header.Set("X-Forwarded-For", "203.0.113.4, 198.51.100.9")
	assert.Equal(t, "203.0.113.4", clientIP(req))
}
