package audio

import "sync/atomic"

var traceLogEnabled atomic.Bool

// SetTraceLoggingEnabled turns libVLC verbose file logging on for players
// initialised afterwards.
func SetTraceLoggingEnabled(enabled bool) {
	traceLogEnabled.Store(enabled)
}

func isTraceLoggingEnabled() bool {
	return traceLogEnabled.Load()
}
