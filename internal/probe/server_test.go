package probe

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func serveJSON(t *testing.T, s *Server, path string) (int, map[string]interface{}) {
	t.Helper()

	req := httptest.NewRequest(http.MethodGet, path, nil)
	w := httptest.NewRecorder()
	s.Engine().ServeHTTP(w, req)

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return w.Code, body
}

func TestNewServerRoutesWithoutStore(t *testing.T) {
	opts := NewOptions()
	opts.Server.Mode = "test"
	srv := NewServer(opts, nil, errors.New("connection refused"))

	t.Run("check-connection is guarded", func(t *testing.T) {
		code, body := serveJSON(t, srv, "/check-connection")
		assert.Equal(t, http.StatusInternalServerError, code)
		assert.Equal(t, "error", body["status"])
		assert.Equal(t, "Failed to connect to MongoDB: connection refused", body["message"])
	})

	t.Run("test-data is guarded", func(t *testing.T) {
		code, body := serveJSON(t, srv, "/test-data")
		assert.Equal(t, http.StatusInternalServerError, code)
		assert.Equal(t, "error", body["status"])
		assert.Equal(t, "Error retrieving collections: connection refused", body["message"])
	})

	t.Run("healthz reports down", func(t *testing.T) {
		code, body := serveJSON(t, srv, "/healthz")
		assert.Equal(t, http.StatusServiceUnavailable, code)
		assert.Equal(t, "DOWN", body["status"])
	})

	t.Run("version always answers", func(t *testing.T) {
		code, body := serveJSON(t, srv, "/version")
		assert.Equal(t, http.StatusOK, code)
		assert.Contains(t, body, "git_version")
	})

	t.Run("unknown route gets structured 404", func(t *testing.T) {
		code, body := serveJSON(t, srv, "/nope")
		assert.Equal(t, http.StatusNotFound, code)
		assert.Equal(t, "error", body["status"])
	})
}

func TestGinMode(t *testing.T) {
	assert.Equal(t, "debug", ginMode("debug"))
	assert.Equal(t, "test", ginMode("test"))
	assert.Equal(t, "release", ginMode("release"))
	assert.Equal(t, "release", ginMode("anything-else"))
}
