// Package logger provides the zerolog-backed implementation of the
// core logger interface.
package logger

import corelogger "github.com/kilianp07/timegrid/core/logger"

// Logger mirrors the core logger interface.
type Logger = corelogger.Logger

// New returns a Logger for the given component. The output format is
// chosen via the APP_ENV environment variable.
func New(component string) Logger {
	return NewZerologLogger(component)
}
