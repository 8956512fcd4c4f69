package logx

import (
	"strings"
)

// Level represents logging level
type Level uint8

const (
	// LevelTrace is the most verbose level
	LevelTrace Level = iota
	// LevelDebug for debugging information
	LevelDebug
	// LevelInfo for informational messages
	LevelInfo
	// LevelWarn for warning messages
	LevelWarn
	// LevelError for error messages
	LevelError
	// LevelFatal for fatal messages (will exit)
	LevelFatal
	// LevelOff disables all logging
	LevelOff
)

var levelNames = [...]string{"TRACE", "DEBUG", "INFO", "WARN", "ERROR", "FATAL", "OFF"}

// String returns the string representation of the log level
func (l Level) String() string {
	if int(l) < len(levelNames) {
		return levelNames[l]
	}
	return "UNKNOWN"
}

// ParseLevel parses a string into a Level, defaulting to LevelInfo
func ParseLevel(level string) Level {
	level = strings.TrimSpace(level)
	if strings.EqualFold(level, "WARNING") {
		return LevelWarn
	}
	for i, name := range levelNames {
		if strings.EqualFold(level, name) {
			return Level(i)
		}
	}
	return LevelInfo
}

// Enabled checks if target is emitted when l is the configured level
func (l Level) Enabled(target Level) bool {
	return l <= target && target != LevelOff
}
