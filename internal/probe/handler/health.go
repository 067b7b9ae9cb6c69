package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/kart-io/version"
)

// HealthStatus represents the health status.
type HealthStatus string

const (
	// HealthStatusUp indicates the service is healthy.
	HealthStatusUp HealthStatus = "UP"
	// HealthStatusDown indicates the service is unhealthy.
	HealthStatusDown HealthStatus = "DOWN"
)

// HealthResponse represents the health check response.
type HealthResponse struct {
	Status HealthStatus           `json:"status"`
	Checks map[string]CheckResult `json:"checks,omitempty"`
}

// CheckResult represents an individual health check result.
type CheckResult struct {
	Status  HealthStatus `json:"status"`
	Message string       `json:"message,omitempty"`
}

// Healthz handles GET /healthz. The process is alive by definition; the
// mongodb check reflects the backing store.
func (h *StatusHandler) Healthz(c *gin.Context) {
	resp := HealthResponse{
		Status: HealthStatusUp,
		Checks: map[string]CheckResult{},
	}

	if h.store == nil {
		resp.Status = HealthStatusDown
		resp.Checks["mongodb"] = CheckResult{
			Status:  HealthStatusDown,
			Message: h.initCause(),
		}
	} else {
		ctx, cancel := h.operationContext(c)
		defer cancel()
		if err := h.store.Ping(ctx); err != nil {
			resp.Status = HealthStatusDown
			resp.Checks["mongodb"] = CheckResult{
				Status:  HealthStatusDown,
				Message: err.Error(),
			}
		} else {
			resp.Checks["mongodb"] = CheckResult{Status: HealthStatusUp}
		}
	}

	status := http.StatusOK
	if resp.Status == HealthStatusDown {
		status = http.StatusServiceUnavailable
	}
	c.JSON(status, resp)
}

// VersionResponse represents the version endpoint response.
type VersionResponse struct {
	ServiceName  string `json:"service_name,omitempty"`
	GitVersion   string `json:"git_version"`
	GitCommit    string `json:"git_commit,omitempty"`
	GitTreeState string `json:"git_tree_state,omitempty"`
	BuildDate    string `json:"build_date,omitempty"`
	GoVersion    string `json:"go_version,omitempty"`
	Platform     string `json:"platform,omitempty"`
}

// Version handles GET /version.
func Version(c *gin.Context) {
	info := version.Get()

	c.JSON(http.StatusOK, VersionResponse{
		ServiceName:  info.ServiceName,
		GitVersion:   info.GitVersion,
		GitCommit:    info.GitCommit,
		GitTreeState: info.GitTreeState,
		BuildDate:    info.BuildDate,
		GoVersion:    info.GoVersion,
		Platform:     info.Platform,
	})
}
