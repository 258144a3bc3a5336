package logging

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func captureDefault(t *testing.T) *bytes.Buffer {
	t.Helper()
	old := slog.Default()
	t.Cleanup(func() { slog.SetDefault(old) })

	var buf bytes.Buffer
	slog.SetDefault(slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})))
	return &buf
}

func TestNewDevMode(t *testing.T) {
	var buf bytes.Buffer
	logger := New(&buf, true)

	logger.Debug("test debug")
	logger.Info("test info")

	assert.Contains(t, buf.String(), "test debug")
	assert.Contains(t, buf.String(), "test info")
}

func TestNewProdMode(t *testing.T) {
	var buf bytes.Buffer
	logger := New(&buf, false)

	logger.Debug("hidden")
	logger.Info("prod test", "visitor_id", "VIS1")

	assert.NotContains(t, buf.String(), "hidden")

	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "prod test", line["msg"])
	assert.Equal(t, "VIS1", line["visitor_id"])
}

func TestSetup(t *testing.T) {
	old := slog.Default()
	defer slog.SetDefault(old)

	Setup(false)
	assert.NotSame(t, old, slog.Default())
}

func TestRequestLogger(t *testing.T) {
	buf := captureDefault(t)

	inner := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/api/visitors", nil)
	rec := httptest.NewRecorder()
	RequestLogger(inner).ServeHTTP(rec, req)

	out := buf.String()
	require.NotEmpty(t, out)
	assert.Contains(t, out, "GET")
	assert.Contains(t, out, "/api/visitors")
	assert.Contains(t, out, "status=200")
}

func TestRequestLoggerDefaultsStatus(t *testing.T) {
	buf := captureDefault(t)

	inner := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("ok"))
	})

	req := httptest.NewRequest(http.MethodGet, "/api/state", nil)
	RequestLogger(inner).ServeHTTP(httptest.NewRecorder(), req)

	assert.Contains(t, buf.String(), "status=200")
}

func TestRequestLoggerSkipsQuietPaths(t *testing.T) {
	for _, path := range []string{"/health", "/metrics"} {
		t.Run(path, func(t *testing.T) {
			buf := captureDefault(t)

			inner := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusOK)
			})

			req := httptest.NewRequest(http.MethodGet, path, nil)
			RequestLogger(inner).ServeHTTP(httptest.NewRecorder(), req)

			assert.Zero(t, buf.Len(), "expected no log for %s", path)
		})
	}
}

func TestRequestLoggerCapturesStatus(t *testing.T) {
	buf := captureDefault(t)

	inner := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})

	req := httptest.NewRequest(http.MethodGet, "/missing", nil)
	rec := httptest.NewRecorder()
	RequestLogger(inner).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, buf.String(), "404")
	assert.Contains(t, buf.String(), "level=WARN")
}

func TestRequestLoggerIncludesRequestID(t *testing.T) {
	buf := captureDefault(t)

	inner := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})

	req := httptest.NewRequest(http.MethodPost, "/api/sweep", nil)
	middleware.RequestID(RequestLogger(inner)).ServeHTTP(httptest.NewRecorder(), req)

	assert.Contains(t, buf.String(), "request_id=")
}
