/*
Package logger defines the minimal leveled logging interface the session
core uses for all diagnostics, so that callers can plug in nearly any
logging package.
*/
package logger

// Logger is implemented by nearly every logging package. The session core
// uses this interface for all diagnostics, which lets callers wire in
// whatever logging implementation they already have.
type Logger interface {
	// Debug logs low-level tracing detail: individual frames sent/received,
	// demultiplexer routing decisions.
	Debug(v ...interface{})
	Debugf(format string, v ...interface{})

	// Log logs a normal informational event: session established, closed,
	// channel opened/closed.
	Log(v ...interface{})
	Logf(format string, v ...interface{})

	// Warn logs a recoverable anomaly: an unexpected but non-fatal message,
	// a reply that arrived for an id with no waiting caller.
	Warn(v ...interface{})
	Warnf(format string, v ...interface{})

	// Error logs a fatal or session-ending condition.
	Error(v ...interface{})
	Errorf(format string, v ...interface{})
}

// Nop is a Logger that discards everything. It is the default when no
// Logger is configured.
var Nop Logger = nopLogger{}

type nopLogger struct{}

func (nopLogger) Debug(v ...interface{})                 {}
func (nopLogger) Debugf(format string, v ...interface{}) {}
func (nopLogger) Log(v ...interface{})                   {}
func (nopLogger) Logf(format string, v ...interface{})   {}
func (nopLogger) Warn(v ...interface{})                  {}
func (nopLogger) Warnf(format string, v ...interface{})  {}
func (nopLogger) Error(v ...interface{})                 {}
func (nopLogger) Errorf(format string, v ...interface{}) {}
