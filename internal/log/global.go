package log

import "sync"

var (
	globalMu     sync.RWMutex
	globalLogger *Logger
)

// SetDefault installs the process-wide logger used by code paths that
// have no logger of their own.
func SetDefault(logger *Logger) {
	globalMu.Lock()
	globalLogger = logger
	globalMu.Unlock()
}

// GetDefault returns the process-wide logger, creating one with the
// standard configuration on first use.
func GetDefault() *Logger {
	globalMu.RLock()
	l := globalLogger
	globalMu.RUnlock()
	if l != nil {
		return l
	}

	l = Default()
	SetDefault(l)
	return l
}
