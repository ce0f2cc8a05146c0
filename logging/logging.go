package logging

import (
	"fmt"
	"io"
	"os"
	"sync"
	"time"
)

const (
	// TraceLevel indicates a log message's level of criticality
	TraceLevel = iota
	// DebugLevel indicates a log message's level of criticality
	DebugLevel
	// InfoLevel indicates a log message's level of criticality
	InfoLevel
	// WarnLevel indicates a log message's level of criticality
	WarnLevel
	// ErrorLevel indicates a log message's level of criticality
	ErrorLevel
	// FatalLevel indicates a log message's level of criticality
	FatalLevel
)

// LogLevelToString translates a log level enum to a string representation
func LogLevelToString(level int) string {
	switch level {
	case DebugLevel:
		return "DEBUG"
	case InfoLevel:
		return "INFO"
	case WarnLevel:
		return "WARN"
	case ErrorLevel:
		return "ERROR"
	case FatalLevel:
		return "FATAL"
	default:
		return "TRACE"
	}
}

// LogLevelFromString translates a string representation of a log level to its
// enum value, defaulting to InfoLevel for unrecognized input
func LogLevelFromString(level string) int {
	switch level {
	case "trace":
		return TraceLevel
	case "debug":
		return DebugLevel
	case "warn":
		return WarnLevel
	case "error":
		return ErrorLevel
	case "fatal":
		return FatalLevel
	default:
		return InfoLevel
	}
}

// Logger writes leveled, timestamped log lines to a single destination,
// discarding messages below its configured level. Safe for concurrent use.
type Logger struct {
	level int
	out   io.Writer
	lock  sync.Mutex
}

// CreateLogger is a factory for Loggers
func CreateLogger(level int, out io.Writer) *Logger {
	if out == nil {
		out = os.Stderr
	}
	return &Logger{level: level, out: out}
}

func (l *Logger) logf(level int, format string, args ...interface{}) {
	if level < l.level {
		return
	}
	l.lock.Lock()
	defer l.lock.Unlock()
	fmt.Fprintf(l.out, "%s [%s] %s\n",
		time.Now().UTC().Format(time.RFC3339),
		LogLevelToString(level),
		fmt.Sprintf(format, args...))
}

// Tracef logs a message at TraceLevel
func (l *Logger) Tracef(format string, args ...interface{}) {
	l.logf(TraceLevel, format, args...)
}

// Debugf logs a message at DebugLevel
func (l *Logger) Debugf(format string, args ...interface{}) {
	l.logf(DebugLevel, format, args...)
}

// Infof logs a message at InfoLevel
func (l *Logger) Infof(format string, args ...interface{}) {
	l.logf(InfoLevel, format, args...)
}

// Warnf logs a message at WarnLevel
func (l *Logger) Warnf(format string, args ...interface{}) {
	l.logf(WarnLevel, format, args...)
}

// Errorf logs a message at ErrorLevel
func (l *Logger) Errorf(format string, args ...interface{}) {
	l.logf(ErrorLevel, format, args...)
}
