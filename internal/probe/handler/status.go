// Package handler contains the HTTP handlers of the probe service.
package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/kart-io/logger"
)

// Store is the diagnostic surface the handlers need from the MongoDB
// client.
type Store interface {
	// Ping verifies the connection is alive.
	Ping(ctx context.Context) error
	// ServerVersion returns the version reported by the server.
	ServerVersion(ctx context.Context) (string, error)
	// CollectionNames enumerates collections of the configured database.
	CollectionNames(ctx context.Context) ([]string, error)
}

const (
	statusSuccess = "success"
	statusError   = "error"

	// Message prefixes are part of the response contract.
	msgConnected        = "Connected to MongoDB"
	msgConnectFailed    = "Failed to connect to MongoDB: "
	msgCollectionsError = "Error retrieving collections: "
)

// checkConnectionResponse is the success body of GET /check-connection.
type checkConnectionResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
	Version string `json:"version"`
}

// collectionsResponse is the success body of GET /test-data.
type collectionsResponse struct {
	Status      string   `json:"status"`
	Collections []string `json:"collections"`
}

// errorResponse is the failure body shared by both endpoints.
type errorResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

// StatusHandler answers the connectivity diagnostic endpoints. It holds
// the process-wide store together with the startup connection outcome,
// so a failed initialization is an explicit, reportable state instead of
// a nil dereference at request time.
type StatusHandler struct {
	store   Store
	initErr error
	timeout time.Duration
}

// NewStatusHandler creates a StatusHandler. store may be nil when the
// startup connection failed; initErr then carries the cause.
func NewStatusHandler(store Store, initErr error, timeout time.Duration) *StatusHandler {
	return &StatusHandler{
		store:   store,
		initErr: initErr,
		timeout: timeout,
	}
}

// CheckConnection handles GET /check-connection. It probes the server
// and reports the server version on success.
func (h *StatusHandler) CheckConnection(c *gin.Context) {
	if h.store == nil {
		h.fail(c, msgConnectFailed, h.initCause())
		return
	}

	ctx, cancel := h.operationContext(c)
	defer cancel()

	version, err := h.store.ServerVersion(ctx)
	if err != nil {
		h.fail(c, msgConnectFailed, err.Error())
		return
	}
	if version == "" {
		version = "unknown"
	}

	c.JSON(http.StatusOK, checkConnectionResponse{
		Status:  statusSuccess,
		Message: msgConnected,
		Version: version,
	})
}

// ListCollections handles GET /test-data. It enumerates the collection
// names of the configured database.
func (h *StatusHandler) ListCollections(c *gin.Context) {
	if h.store == nil {
		h.fail(c, msgCollectionsError, h.initCause())
		return
	}

	ctx, cancel := h.operationContext(c)
	defer cancel()

	names, err := h.store.CollectionNames(ctx)
	if err != nil {
		h.fail(c, msgCollectionsError, err.Error())
		return
	}
	if names == nil {
		names = []string{}
	}

	c.JSON(http.StatusOK, collectionsResponse{
		Status:      statusSuccess,
		Collections: names,
	})
}

// fail writes the structured error body with the raw cause appended to
// the contract prefix. Cause text may expose connection internals; this
// is a diagnostic service, not a data API.
func (h *StatusHandler) fail(c *gin.Context, prefix, cause string) {
	logger.Errorw("probe request failed", "path", c.FullPath(), "cause", cause)
	c.JSON(http.StatusInternalServerError, errorResponse{
		Status:  statusError,
		Message: prefix + cause,
	})
}

func (h *StatusHandler) initCause() string {
	if h.initErr != nil {
		return h.initErr.Error()
	}
	return "client not initialized"
}

// operationContext bounds a single store operation so a hung network
// call cannot pin the handler.
func (h *StatusHandler) operationContext(c *gin.Context) (context.Context, context.CancelFunc) {
	if h.timeout <= 0 {
		return context.WithCancel(c.Request.Context())
	}
	return context.WithTimeout(c.Request.Context(), h.timeout)
}
