package utils

import (
	"fmt"
	"log"
	"os"
	"time"
)

// LogLevel orders message severities.
type LogLevel int

const (
	DEBUG LogLevel = iota
	INFO
	WARN
	ERROR
)

func (l LogLevel) String() string {
	switch l {
	case DEBUG:
		return "DEBUG"
	case INFO:
		return "INFO"
	case WARN:
		return "WARN"
	case ERROR:
		return "ERROR"
	default:
		return "UNKNOWN"
	}
}

// Logger writes leveled, timestamped lines to stdout. Messages below the
// configured level are dropped.
type Logger struct {
	out   *log.Logger
	level LogLevel
}

// NewLogger creates a logger that emits messages at or above level.
func NewLogger(level LogLevel) *Logger {
	return &Logger{
		out:   log.New(os.Stdout, "", 0),
		level: level,
	}
}

func (l *Logger) logf(level LogLevel, format string, v ...interface{}) {
	if level < l.level {
		return
	}
	timestamp := time.Now().Format("2006-01-02 15:04:05")
	l.out.Printf("[%s] [%s] %s", timestamp, level, fmt.Sprintf(format, v...))
}

// Debug logs a debug message
func (l *Logger) Debug(format string, v ...interface{}) {
	l.logf(DEBUG, format, v...)
}

// Info logs an info message
func (l *Logger) Info(format string, v ...interface{}) {
	l.logf(INFO, format, v...)
}

// Warn logs a warning message
func (l *Logger) Warn(format string, v ...interface{}) {
	l.logf(WARN, format, v...)
}

// Error logs an error message
func (l *Logger) Error(format string, v ...interface{}) {
	l.logf(ERROR, format, v...)
}

// Log is the shared application logger.
var Log = NewLogger(INFO)
