package health

import (
	"context"
	"sync"
	"time"
)

// Manager coordinates health checks and aggregates results. Checks run
// in parallel, each under its own timeout.
type Manager struct {
	mu       sync.RWMutex
	checkers []Checker
	timeout  time.Duration
}

// NewManager creates a manager with a default 5-second per-check timeout.
func NewManager() *Manager {
	return &Manager{timeout: 5 * time.Second}
}

// WithTimeout sets a custom per-check timeout.
func (m *Manager) WithTimeout(timeout time.Duration) *Manager {
	m.mu.Lock()
	m.timeout = timeout
	m.mu.Unlock()
	return m
}

// AddChecker registers a health checker.
func (m *Manager) AddChecker(checker Checker) {
	m.mu.Lock()
	m.checkers = append(m.checkers, checker)
	m.mu.Unlock()
}

// Check runs all registered checks in parallel and returns a map of
// checker name to result.
func (m *Manager) Check(ctx context.Context) map[string]*Result {
	m.mu.RLock()
	checkers := make([]Checker, len(m.checkers))
	copy(checkers, m.checkers)
	timeout := m.timeout
	m.mu.RUnlock()

	results := make(map[string]*Result, len(checkers))
	var resultsMu sync.Mutex
	var wg sync.WaitGroup

	for _, checker := range checkers {
		wg.Add(1)
		go func(c Checker) {
			defer wg.Done()

			checkCtx, cancel := context.WithTimeout(ctx, timeout)
			defer cancel()

			start := time.Now()
			result := c.Check(checkCtx)
			if result.Latency == 0 {
				result.Latency = time.Since(start)
			}

			resultsMu.Lock()
			results[c.Name()] = result
			resultsMu.Unlock()
		}(checker)
	}

	wg.Wait()
	return results
}

// OverallStatus reduces a set of results to a single status: unhealthy
// if any check is unhealthy, degraded if any is degraded, healthy
// otherwise.
func (m *Manager) OverallStatus(results map[string]*Result) Status {
	status := StatusHealthy
	for _, result := range results {
		switch result.Status {
		case StatusUnhealthy:
			return StatusUnhealthy
		case StatusDegraded:
			status = StatusDegraded
		}
	}
	return status
}
