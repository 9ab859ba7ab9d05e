package metrics

import (
	"net/http"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	defaultMetrics *Metrics
	once           sync.Once
)

// InitDefault initializes the process-wide metrics instance.
// Call once at application startup.
func InitDefault() *Metrics {
	once.Do(func() {
		defaultMetrics = NewMetrics(prometheus.DefaultRegisterer)
	})
	return defaultMetrics
}

// GetDefault returns the process-wide metrics instance, initializing it
// on first use.
func GetDefault() *Metrics {
	if defaultMetrics == nil {
		return InitDefault()
	}
	return defaultMetrics
}

// NewRegistry creates a fresh Prometheus registry with a Metrics
// instance registered on it. Used by the server and by tests that need
// isolation from the default registerer.
func NewRegistry() (*prometheus.Registry, *Metrics) {
	reg := prometheus.NewRegistry()
	return reg, NewMetrics(reg)
}

// HandlerFor returns an HTTP handler serving the given registry.
func HandlerFor(reg prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(reg, promhttp.HandlerOpts{})
}

// Reset clears the default metrics instance (useful for testing)
func Reset() {
	defaultMetrics = nil
	once = sync.Once{}
}
