package health

import (
	"context"
	"sync/atomic"
	"time"
)

// ProbeManager extends Manager with Kubernetes-style probe support,
// tracking initialization and shutdown state.
type ProbeManager struct {
	*Manager

	startTime   time.Time
	initialized atomic.Bool
	inShutdown  atomic.Bool
	version     string
}

// NewProbeManager creates a new probe-aware health manager.
func NewProbeManager(version string) *ProbeManager {
	return &ProbeManager{
		Manager:   NewManager(),
		startTime: time.Now(),
		version:   version,
	}
}

// MarkInitialized marks the application as fully initialized, allowing
// the startup probe to pass.
func (pm *ProbeManager) MarkInitialized() {
	pm.initialized.Store(true)
}

// MarkShutdown marks the application as shutting down. Readiness
// probes fail from this point on.
func (pm *ProbeManager) MarkShutdown() {
	pm.inShutdown.Store(true)
}

// IsShuttingDown reports whether shutdown has begun.
func (pm *ProbeManager) IsShuttingDown() bool {
	return pm.inShutdown.Load()
}

// Uptime returns how long the application has been running.
func (pm *ProbeManager) Uptime() time.Duration {
	return time.Since(pm.startTime)
}

// ProbeResult is the JSON body served on probe endpoints.
type ProbeResult struct {
	Status    Status             `json:"status"`
	Version   string             `json:"version,omitempty"`
	Uptime    string             `json:"uptime,omitempty"`
	Checks    map[string]*Result `json:"checks,omitempty"`
	Timestamp time.Time          `json:"timestamp"`
}

func (pm *ProbeManager) probeResult(status Status, checks map[string]*Result) *ProbeResult {
	if checks == nil {
		checks = make(map[string]*Result)
	}
	return &ProbeResult{
		Status:    status,
		Version:   pm.version,
		Uptime:    pm.Uptime().Round(time.Second).String(),
		Checks:    checks,
		Timestamp: time.Now(),
	}
}

// CheckLiveness reports whether the process is alive. It never runs
// dependency checks; a shutting-down process is degraded but alive.
func (pm *ProbeManager) CheckLiveness(ctx context.Context) *ProbeResult {
	status := StatusHealthy
	if pm.IsShuttingDown() {
		status = StatusDegraded
	}
	return pm.probeResult(status, nil)
}

// CheckReadiness reports whether the process can serve traffic. It runs
// all registered checks unless shutdown has begun.
func (pm *ProbeManager) CheckReadiness(ctx context.Context) *ProbeResult {
	if pm.IsShuttingDown() {
		return pm.probeResult(StatusUnhealthy, nil)
	}

	checks := pm.Manager.Check(ctx)
	return pm.probeResult(pm.Manager.OverallStatus(checks), checks)
}

// CheckStartup reports whether initialization has completed.
func (pm *ProbeManager) CheckStartup(ctx context.Context) *ProbeResult {
	if !pm.initialized.Load() {
		return pm.probeResult(StatusUnhealthy, nil)
	}
	return pm.probeResult(StatusHealthy, nil)
}
