// Package logger provides leveled debug logging for modsslctl.
//
// Log messages go to stderr, separate from the user-facing output that the
// output package writes to stdout. By default only warnings and errors are
// shown; the --verbose flag enables Debug and Info.
package logger

import (
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
	"sync"
	"time"
)

// Level represents a logging severity level.
type Level int

// Log levels from least to most severe.
const (
	LevelDebug Level = iota
	LevelInfo
	LevelWarn
	LevelError
)

// String returns the string representation of the log level.
func (l Level) String() string {
	switch l {
	case LevelDebug:
		return "DEBUG"
	case LevelInfo:
		return "INFO"
	case LevelWarn:
		return "WARN"
	case LevelError:
		return "ERROR"
	default:
		return "UNKNOWN"
	}
}

// Logger handles leveled logging with thread-safe output.
type Logger struct {
	level  Level
	output io.Writer
	mu     sync.Mutex
}

// Global logger instance.
var std = &Logger{
	level:  LevelWarn,
	output: os.Stderr,
}

// Init initializes the global logger with the specified verbosity.
func Init(verbose bool) {
	std.mu.Lock()
	defer std.mu.Unlock()

	if verbose {
		std.level = LevelDebug
	} else {
		std.level = LevelWarn
	}
}

// SetOutput sets the output destination for the global logger.
// Useful for testing. Default is os.Stderr.
func SetOutput(w io.Writer) {
	std.mu.Lock()
	defer std.mu.Unlock()
	std.output = w
}

func (l *Logger) log(level Level, format string, args ...interface{}) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if level < l.level {
		return
	}

	msg := fmt.Sprintf(format, args...)
	ts := time.Now().Format("2006-01-02 15:04:05")
	fmt.Fprintf(l.output, "[%s] %s %s\n", level, ts, msg)
}

func (l *Logger) logFields(level Level, msg string, fields map[string]interface{}) {
	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	pairs := make([]string, 0, len(keys))
	for _, k := range keys {
		pairs = append(pairs, fmt.Sprintf("%s=%v", k, fields[k]))
	}

	l.log(level, "%s %s", msg, strings.Join(pairs, " "))
}

// Debug logs a debug-level message.
func Debug(format string, args ...interface{}) {
	std.log(LevelDebug, format, args...)
}

// Info logs an info-level message.
func Info(format string, args ...interface{}) {
	std.log(LevelInfo, format, args...)
}

// Warn logs a warning-level message.
func Warn(format string, args ...interface{}) {
	std.log(LevelWarn, format, args...)
}

// Error logs an error-level message.
func Error(format string, args ...interface{}) {
	std.log(LevelError, format, args...)
}

// DebugFields logs a debug-level message with sorted key=value fields.
func DebugFields(msg string, fields map[string]interface{}) {
	std.logFields(LevelDebug, msg, fields)
}
