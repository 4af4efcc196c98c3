package logging

import (
	"fmt"
	"io"
	"log"
	"os"
	"strings"
	"sync"
)

// LogLevel represents the severity of a log message
type LogLevel int

const (
	// LevelDebug is the debug log level
	LevelDebug LogLevel = iota
	// LevelInfo is the info log level
	LevelInfo
	// LevelWarn is the warning log level
	LevelWarn
	// LevelError is the error log level
	LevelError
)

var (
	mu           sync.RWMutex
	currentLevel = LevelInfo
	levelOnce    sync.Once
	logger       = log.New(os.Stderr, "", log.LstdFlags)
)

// initLevel reads DEBUG and LOG_LEVEL once. An explicit SetLevel wins over both.
func initLevel() {
	levelOnce.Do(func() {
		if debug := os.Getenv("DEBUG"); debug != "" {
			switch strings.ToLower(debug) {
			case "1", "true", "yes", "on":
				currentLevel = LevelDebug
				return
			}
		}

		if lvl, ok := ParseLevel(os.Getenv("LOG_LEVEL")); ok {
			currentLevel = lvl
		}
	})
}

// ParseLevel converts a level name to a LogLevel.
// The second return value is false for empty or unknown names.
func ParseLevel(name string) (LogLevel, bool) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "debug":
		return LevelDebug, true
	case "info":
		return LevelInfo, true
	case "warn", "warning":
		return LevelWarn, true
	case "error":
		return LevelError, true
	default:
		return LevelInfo, false
	}
}

// SetLevel overrides the level derived from the environment.
func SetLevel(level LogLevel) {
	initLevel()
	mu.Lock()
	currentLevel = level
	mu.Unlock()
}

// SetOutput redirects all log output. Used by the CLI and by tests.
func SetOutput(w io.Writer) {
	mu.Lock()
	logger.SetOutput(w)
	mu.Unlock()
}

// GetLevel returns the current log level
func GetLevel() LogLevel {
	initLevel()
	mu.RLock()
	defer mu.RUnlock()
	return currentLevel
}

// IsDebugEnabled returns true if debug logging is enabled
func IsDebugEnabled() bool {
	return GetLevel() <= LevelDebug
}

func output(level LogLevel, prefix, format string, args []interface{}) {
	if GetLevel() > level {
		return
	}
	mu.RLock()
	defer mu.RUnlock()
	_ = logger.Output(3, prefix+fmt.Sprintf(format, args...))
}

// Debug logs a debug message (only if DEBUG=true or LOG_LEVEL=debug)
func Debug(format string, args ...interface{}) {
	output(LevelDebug, "[DEBUG] ", format, args)
}

// Info logs an info message
func Info(format string, args ...interface{}) {
	output(LevelInfo, "[INFO] ", format, args)
}

// Warn logs a warning message
func Warn(format string, args ...interface{}) {
	output(LevelWarn, "[WARN] ", format, args)
}

// Error logs an error message
func Error(format string, args ...interface{}) {
	output(LevelError, "[ERROR] ", format, args)
}

// String returns the string representation of a log level
func (l LogLevel) String() string {
	switch l {
	case LevelDebug:
		return "debug"
	case LevelInfo:
		return "info"
	case LevelWarn:
		return "warn"
	case LevelError:
		return "error"
	default:
		return fmt.Sprintf("unknown(%d)", l)
	}
}
