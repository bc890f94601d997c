package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"time"
)

// Pinger is a dependency that can report its own reachability
type Pinger interface {
	Ping(ctx context.Context) error
}

// PingFunc adapts a function to Pinger
type PingFunc func(ctx context.Context) error

// Ping calls f
func (f PingFunc) Ping(ctx context.Context) error {
	return f(ctx)
}

// HealthChecker handles health check requests
type HealthChecker struct {
	checks []namedCheck
}

type namedCheck struct {
	name string
	dep  Pinger
}

// NewHealthChecker creates a health checker over the document store
func NewHealthChecker(db Pinger) *HealthChecker {
	return NewHealthCheckerWithDeps(db, nil, nil)
}

// NewHealthCheckerWithDeps creates a health checker over the store, Redis and the job queue.
// Nil dependencies are skipped.
func NewHealthCheckerWithDeps(db, redis, jobQueue Pinger) *HealthChecker {
	h := &HealthChecker{}
	for _, c := range []namedCheck{{"database", db}, {"redis", redis}, {"rabbitmq", jobQueue}} {
		if c.dep != nil {
			h.checks = append(h.checks, c)
		}
	}
	return h
}

// HealthResponse represents the health check response
type HealthResponse struct {
	Status    string            `json:"status"`
	Timestamp string            `json:"timestamp"`
	Checks    map[string]string `json:"checks,omitempty"`
}

// HealthCheck handles the /healthz endpoint. ?mode=extended also pings every dependency.
func (h *HealthChecker) HealthCheck(w http.ResponseWriter, r *http.Request) {
	response := HealthResponse{
		Status:    "healthy",
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	}
	statusCode := http.StatusOK

	if r.URL.Query().Get("mode") == "extended" {
		response.Checks = make(map[string]string, len(h.checks))
		for _, c := range h.checks {
			if err := ping(r.Context(), c.dep); err != nil {
				response.Status = "unhealthy"
				response.Checks[c.name] = "unhealthy: " + sanitizeErrorMessage(err.Error())
				continue
			}
			response.Checks[c.name] = "healthy"
		}
		if response.Status == "unhealthy" {
			statusCode = http.StatusServiceUnavailable
		}
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(response)
}

func ping(ctx context.Context, dep Pinger) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	return dep.Ping(ctx)
}
