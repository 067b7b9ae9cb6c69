package handler_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kart-io/mongo-probe/internal/probe/handler"
)

type fakeStore struct {
	pingErr        error
	version        string
	versionErr     error
	collections    []string
	collectionsErr error
}

func (f *fakeStore) Ping(context.Context) error { return f.pingErr }

func (f *fakeStore) ServerVersion(context.Context) (string, error) {
	return f.version, f.versionErr
}

func (f *fakeStore) CollectionNames(context.Context) ([]string, error) {
	return f.collections, f.collectionsErr
}

func newTestEngine(h *handler.StatusHandler) *gin.Engine {
	gin.SetMode(gin.TestMode)
	engine := gin.New()
	engine.GET("/check-connection", h.CheckConnection)
	engine.GET("/test-data", h.ListCollections)
	engine.GET("/healthz", h.Healthz)
	return engine
}

func doGet(t *testing.T, engine *gin.Engine, path string) (int, map[string]interface{}) {
	t.Helper()

	req := httptest.NewRequest(http.MethodGet, path, nil)
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return w.Code, body
}

func TestCheckConnection(t *testing.T) {
	tests := []struct {
		name        string
		store       *fakeStore
		initErr     error
		wantStatus  int
		wantBody    string
		wantVersion string
		wantPrefix  string
	}{
		{
			name:        "reachable store reports version",
			store:       &fakeStore{version: "7.0.5"},
			wantStatus:  http.StatusOK,
			wantBody:    "success",
			wantVersion: "7.0.5",
		},
		{
			name:        "missing version falls back to unknown",
			store:       &fakeStore{version: ""},
			wantStatus:  http.StatusOK,
			wantBody:    "success",
			wantVersion: "unknown",
		},
		{
			name:       "probe failure surfaces cause",
			store:      &fakeStore{versionErr: errors.New("server selection timeout")},
			wantStatus: http.StatusInternalServerError,
			wantBody:   "error",
			wantPrefix: "Failed to connect to MongoDB: server selection timeout",
		},
		{
			name:       "uninitialized client is a guarded error",
			initErr:    errors.New("bad credentials"),
			wantStatus: http.StatusInternalServerError,
			wantBody:   "error",
			wantPrefix: "Failed to connect to MongoDB: bad credentials",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var store handler.Store
			if tt.store != nil {
				store = tt.store
			}
			h := handler.NewStatusHandler(store, tt.initErr, time.Second)
			engine := newTestEngine(h)

			code, body := doGet(t, engine, "/check-connection")

			assert.Equal(t, tt.wantStatus, code)
			assert.Equal(t, tt.wantBody, body["status"])
			if tt.wantVersion != "" {
				assert.Equal(t, "Connected to MongoDB", body["message"])
				assert.Equal(t, tt.wantVersion, body["version"])
			}
			if tt.wantPrefix != "" {
				assert.Equal(t, tt.wantPrefix, body["message"])
			}
		})
	}
}

func TestListCollections(t *testing.T) {
	tests := []struct {
		name       string
		store      *fakeStore
		initErr    error
		wantStatus int
		wantNames  []interface{}
		wantPrefix string
	}{
		{
			name:       "collections are returned in store order",
			store:      &fakeStore{collections: []string{"users", "sessions"}},
			wantStatus: http.StatusOK,
			wantNames:  []interface{}{"users", "sessions"},
		},
		{
			name:       "empty database yields empty array not null",
			store:      &fakeStore{collections: nil},
			wantStatus: http.StatusOK,
			wantNames:  []interface{}{},
		},
		{
			name:       "enumeration failure surfaces cause",
			store:      &fakeStore{collectionsErr: errors.New("not authorized")},
			wantStatus: http.StatusInternalServerError,
			wantPrefix: "Error retrieving collections: not authorized",
		},
		{
			name:       "uninitialized client is a guarded error",
			initErr:    errors.New("dial tcp: connection refused"),
			wantStatus: http.StatusInternalServerError,
			wantPrefix: "Error retrieving collections: dial tcp: connection refused",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var store handler.Store
			if tt.store != nil {
				store = tt.store
			}
			h := handler.NewStatusHandler(store, tt.initErr, time.Second)
			engine := newTestEngine(h)

			code, body := doGet(t, engine, "/test-data")

			assert.Equal(t, tt.wantStatus, code)
			if tt.wantNames != nil {
				assert.Equal(t, "success", body["status"])
				assert.Equal(t, tt.wantNames, body["collections"])
			}
			if tt.wantPrefix != "" {
				assert.Equal(t, "error", body["status"])
				assert.Equal(t, tt.wantPrefix, body["message"])
			}
		})
	}
}

func TestListCollectionsIdempotent(t *testing.T) {
	h := handler.NewStatusHandler(&fakeStore{collections: []string{"users", "sessions"}}, nil, time.Second)
	engine := newTestEngine(h)

	req := httptest.NewRequest(http.MethodGet, "/test-data", nil)
	first := httptest.NewRecorder()
	engine.ServeHTTP(first, req)
	second := httptest.NewRecorder()
	engine.ServeHTTP(second, httptest.NewRequest(http.MethodGet, "/test-data", nil))

	assert.Equal(t, first.Body.String(), second.Body.String())
}

func TestHealthz(t *testing.T) {
	t.Run("store reachable", func(t *testing.T) {
		h := handler.NewStatusHandler(&fakeStore{}, nil, time.Second)
		code, body := doGet(t, newTestEngine(h), "/healthz")

		assert.Equal(t, http.StatusOK, code)
		assert.Equal(t, "UP", body["status"])
	})

	t.Run("store unreachable", func(t *testing.T) {
		h := handler.NewStatusHandler(&fakeStore{pingErr: errors.New("no reachable servers")}, nil, time.Second)
		code, body := doGet(t, newTestEngine(h), "/healthz")

		assert.Equal(t, http.StatusServiceUnavailable, code)
		assert.Equal(t, "DOWN", body["status"])
		checks := body["checks"].(map[string]interface{})
		mongo := checks["mongodb"].(map[string]interface{})
		assert.Equal(t, "no reachable servers", mongo["message"])
	})

	t.Run("store never initialized", func(t *testing.T) {
		h := handler.NewStatusHandler(nil, errors.New("auth failed"), time.Second)
		code, body := doGet(t, newTestEngine(h), "/healthz")

		assert.Equal(t, http.StatusServiceUnavailable, code)
		assert.Equal(t, "DOWN", body["status"])
	})
}
