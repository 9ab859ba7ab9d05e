// Package health provides health checks for the flowforge API server.
//
// Checkers verify a single component (item store, dependency graph)
// and are aggregated by a Manager. ProbeManager layers Kubernetes-style
// liveness/readiness/startup semantics on top.
package health

import (
	"context"
	"time"
)

// Checker verifies a single system component.
type Checker interface {
	// Name returns the unique name of this check, lowercase with
	// hyphens (e.g. "item-store").
	Name() string

	// Check performs the health check. It should respect the context
	// deadline and return quickly.
	Check(ctx context.Context) *Result
}

// Status represents the health check status.
type Status string

const (
	// StatusHealthy indicates the component is fully operational.
	StatusHealthy Status = "healthy"

	// StatusDegraded indicates the component is partially working.
	StatusDegraded Status = "degraded"

	// StatusUnhealthy indicates the component is not working.
	StatusUnhealthy Status = "unhealthy"
)

func (s Status) String() string {
	return string(s)
}

// Result is the outcome of one health check.
type Result struct {
	Status  Status                 `json:"status"`
	Message string                 `json:"message"`
	Details map[string]interface{} `json:"details,omitempty"`
	Latency time.Duration          `json:"latency_ns"`
}

// NewResult creates a result with the given status and message.
func NewResult(status Status, message string) *Result {
	return &Result{
		Status:  status,
		Message: message,
		Details: make(map[string]interface{}),
	}
}

// WithDetail adds a detail and returns the result for chaining.
func (r *Result) WithDetail(key string, value interface{}) *Result {
	r.Details[key] = value
	return r
}

// Healthy creates a healthy result.
func Healthy(message string) *Result {
	return NewResult(StatusHealthy, message)
}

// Degraded creates a degraded result.
func Degraded(message string) *Result {
	return NewResult(StatusDegraded, message)
}

// Unhealthy creates an unhealthy result.
func Unhealthy(message string) *Result {
	return NewResult(StatusUnhealthy, message)
}
