package logger

import (
	"sync"
)

// Textual log levels accepted in configuration.
const (
	DebugLevel = "debug"
	InfoLevel  = "info"
	WarnLevel  = "warn"
	ErrorLevel = "error"
)

var (
	globalLogger *Logger
	once         sync.Once
)

// Get returns the process-wide logger, initializing it on first use with the
// given level. Later calls return the same instance and ignore the level.
func Get(level string) *Logger {
	once.Do(func() {
		globalLogger = newZapLogger(level)
	})
	return globalLogger
}

// Named returns a child of the global logger with the given name attached,
// for subsystem-scoped logging.
func Named(name string) *Logger {
	return &Logger{SugaredLogger: Get(InfoLevel).SugaredLogger.Named(name)}
}
