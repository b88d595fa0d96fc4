package logger

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decodeLine(t *testing.T, buf *bytes.Buffer) map[string]interface{} {
	t.Helper()
	var m map[string]interface{}
	require.NoError(t, json.Unmarshal(bytes.TrimSpace(buf.Bytes()), &m))
	return m
}

func TestLogger_JSONFields(t *testing.T) {
	var buf bytes.Buffer
	log := NewWithOutput("dreambank", "info", &buf)

	log.WithUser("mike").Info("activity completed")

	m := decodeLine(t, &buf)
	assert.Equal(t, "activity completed", m["message"])
	assert.Equal(t, "info", m["level"])
	assert.Equal(t, "dreambank", m["service"])
	assert.Equal(t, "mike", m["user"])
	assert.Contains(t, m, "timestamp")
}

func TestLogger_LevelFilters(t *testing.T) {
	var buf bytes.Buffer
	log := NewWithOutput("dreambank", "warn", &buf)

	log.Info("hidden")
	assert.Zero(t, buf.Len())

	log.Warn("shown")
	assert.Equal(t, "shown", decodeLine(t, &buf)["message"])
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want logrus.Level
	}{
		{"debug", logrus.DebugLevel},
		{" DEBUG ", logrus.DebugLevel},
		{"warn", logrus.WarnLevel},
		{"warning", logrus.WarnLevel},
		{"error", logrus.ErrorLevel},
		{"trace", logrus.TraceLevel},
		{"fatal", logrus.FatalLevel},
		{"panic", logrus.PanicLevel},
		{"info", logrus.InfoLevel},
		{"", logrus.InfoLevel},
		{"loud", logrus.InfoLevel},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ParseLevel(tt.in), "ParseLevel(%q)", tt.in)
	}
}

func TestMiddleware_LogsStatus(t *testing.T) {
	var buf bytes.Buffer
	log := NewWithOutput("dreambank", "debug", &buf)

	h := log.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	}))
	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/api/users", nil))

	m := decodeLine(t, &buf)
	assert.Equal(t, "http request", m["message"])
	assert.Equal(t, "GET", m["method"])
	assert.Equal(t, "/api/users", m["path"])
	assert.Equal(t, float64(http.StatusTeapot), m["status"])
}

func TestMiddleware_ServerErrorsLoggedAtError(t *testing.T) {
	var buf bytes.Buffer
	log := NewWithOutput("dreambank", "error", &buf)

	h := log.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodPost, "/api/import", nil))

	m := decodeLine(t, &buf)
	assert.Equal(t, "error", m["level"])
	assert.Equal(t, "http request failed", m["message"])
}

func TestDiscard(t *testing.T) {
	log := Discard()
	log.Error("dropped")
	assert.Equal(t, logrus.ErrorLevel, log.GetLevel())
}
