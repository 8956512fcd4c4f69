package logx

import (
	"fmt"
	"io"
	"sync/atomic"
)

var defaultLogger atomic.Pointer[Logger]

func init() {
	defaultLogger.Store(NewLogger(LoadFromEnv()))
}

// SetDefaultLogger replaces the package-level logger
func SetDefaultLogger(logger *Logger) {
	if logger != nil {
		defaultLogger.Store(logger)
	}
}

// GetDefaultLogger returns the package-level logger
func GetDefaultLogger() *Logger {
	return defaultLogger.Load()
}

// SetLevel sets the log level for the default logger
func SetLevel(level Level) {
	GetDefaultLogger().SetLevel(level)
}

// SetOutput sets the output for the default logger
func SetOutput(w io.Writer) {
	GetDefaultLogger().SetOutput(w)
}

// Debug logs a debug level message
func Debug(msg string) {
	GetDefaultLogger().log(LevelDebug, msg, nil, nil, nil)
}

// Info logs an info level message
func Info(msg string) {
	GetDefaultLogger().log(LevelInfo, msg, nil, nil, nil)
}

// Warn logs a warning level message
func Warn(msg string) {
	GetDefaultLogger().log(LevelWarn, msg, nil, nil, nil)
}

// Error logs an error level message
func Error(msg string) {
	GetDefaultLogger().log(LevelError, msg, nil, nil, nil)
}

// Fatal logs a fatal level message and exits
func Fatal(msg string) {
	l := GetDefaultLogger()
	l.log(LevelFatal, msg, nil, nil, nil)
	l.exit(1)
}

// Debugf logs a formatted debug message
func Debugf(format string, args ...interface{}) {
	GetDefaultLogger().log(LevelDebug, fmt.Sprintf(format, args...), nil, nil, nil)
}

// Infof logs a formatted info message
func Infof(format string, args ...interface{}) {
	GetDefaultLogger().log(LevelInfo, fmt.Sprintf(format, args...), nil, nil, nil)
}

// Warnf logs a formatted warning message
func Warnf(format string, args ...interface{}) {
	GetDefaultLogger().log(LevelWarn, fmt.Sprintf(format, args...), nil, nil, nil)
}

// Errorf logs a formatted error message
func Errorf(format string, args ...interface{}) {
	GetDefaultLogger().log(LevelError, fmt.Sprintf(format, args...), nil, nil, nil)
}

// Fatalf logs a formatted fatal message and exits
func Fatalf(format string, args ...interface{}) {
	l := GetDefaultLogger()
	l.log(LevelFatal, fmt.Sprintf(format, args...), nil, nil, nil)
	l.exit(1)
}

// WithFields creates a new entry on the default logger
func WithFields(fields Fields) *Entry {
	return GetDefaultLogger().WithFields(fields)
}

// WithField creates a new entry with a single field
func WithField(key string, value interface{}) *Entry {
	return GetDefaultLogger().WithField(key, value)
}

// WithError creates a new entry with an error attached
func WithError(err error) *Entry {
	return GetDefaultLogger().WithError(err)
}

// WithStruct creates a new entry with structured data
func WithStruct(data interface{}) *Entry {
	return GetDefaultLogger().WithStruct(data)
}
