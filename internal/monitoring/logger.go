// Package monitoring holds the swappable diagnostic logger used by the
// polling and notification loops. Those run on their own goroutines, so
// tests mute them here rather than capturing stderr.
package monitoring

import "log"

// Logf is the diagnostic logger. Defaults to log.Printf; replace it via
// SetLogger.
var Logf func(format string, v ...interface{}) = log.Printf

// SetLogger replaces the logger. nil installs a no-op.
func SetLogger(f func(format string, v ...interface{})) {
	if f == nil {
		Logf = func(string, ...interface{}) {}
		return
	}
	Logf = f
}
