package server

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// HealthStatus represents the status of a health check.
type HealthStatus string

const (
	HealthStatusHealthy   HealthStatus = "healthy"
	HealthStatusUnhealthy HealthStatus = "unhealthy"
)

const healthCheckTimeout = 5 * time.Second

// HealthResponse is the body of GET /health.
type HealthResponse struct {
	Status  HealthStatus           `json:"status"`
	Service string                 `json:"service"`
	Version string                 `json:"version"`
	Uptime  string                 `json:"uptime"`
	Checks  map[string]CheckResult `json:"checks,omitempty"`
}

// CheckResult is the outcome of one named dependency check.
type CheckResult struct {
	Status  HealthStatus `json:"status"`
	Message string       `json:"message,omitempty"`
	Latency string       `json:"latency,omitempty"`
}

// HealthChecker checks one dependency.
type HealthChecker func(ctx context.Context) error

func (s *Server) healthHandler(c *gin.Context) {
	response := HealthResponse{
		Status:  HealthStatusHealthy,
		Service: s.opts.ServiceName,
		Version: s.opts.Version,
		Uptime:  time.Since(s.started).Round(time.Second).String(),
	}

	if len(s.opts.Checks) > 0 {
		ctx, cancel := context.WithTimeout(c.Request.Context(), healthCheckTimeout)
		defer cancel()

		response.Checks = make(map[string]CheckResult, len(s.opts.Checks))
		for name, check := range s.opts.Checks {
			start := time.Now()
			result := CheckResult{Status: HealthStatusHealthy}
			if err := check(ctx); err != nil {
				result.Status = HealthStatusUnhealthy
				result.Message = err.Error()
				response.Status = HealthStatusUnhealthy
			}
			result.Latency = time.Since(start).String()
			response.Checks[name] = result
		}
	}

	code := http.StatusOK
	if response.Status == HealthStatusUnhealthy {
		code = http.StatusServiceUnavailable
	}
	c.JSON(code, response)
}

func (s *Server) statusHandler(c *gin.Context) {
	c.JSON(http.StatusOK, s.tracker.Snapshot())
}
