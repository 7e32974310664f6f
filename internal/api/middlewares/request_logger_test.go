package middleware

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/markdave123-py/Pressroom/internal/logger"
)

func TestRequestLogger(t *testing.T) {
	var buf bytes.Buffer
	prev := logger.Logger
	logger.Logger = logger.New(&buf, "info")
	t.Cleanup(func() { logger.Logger = prev })

	h := chimw.RequestID(RequestLogger(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte("missing"))
	})))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/containers/x", nil))

	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "WARN", line["level"])
	assert.Equal(t, "http request", line["msg"])
	assert.Equal(t, "GET", line["method"])
	assert.Equal(t, "/containers/x", line["path"])
	assert.Equal(t, float64(404), line["status"])
	assert.Equal(t, float64(7), line["bytes"])
	assert.NotEmpty(t, line["request_id"])
}
