package config

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"
)

// LogLevel represents logging verbosity levels.
type LogLevel int

// Log level constants.
const (
	LogLevelOff LogLevel = iota
	LogLevelError
	LogLevelInfo
	LogLevelDebug
)

// Log record formats.
const (
	LogFormatText = "text"
	LogFormatJSON = "json"
)

// ParseLogLevel parses a log level string. Unknown values map to error.
func ParseLogLevel(s string) LogLevel {
	level, _ := lookupLogLevel(s)
	return level
}

func lookupLogLevel(s string) (LogLevel, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "off", "none":
		return LogLevelOff, true
	case "error":
		return LogLevelError, true
	case "info":
		return LogLevelInfo, true
	case "debug":
		return LogLevelDebug, true
	default:
		return LogLevelError, false
	}
}

// String returns the string representation of a log level.
func (l LogLevel) String() string {
	switch l {
	case LogLevelOff:
		return "off"
	case LogLevelError:
		return "error"
	case LogLevelInfo:
		return "info"
	case LogLevelDebug:
		return "debug"
	default:
		return "error"
	}
}

func (l LogLevel) slogLevel() slog.Level {
	switch l {
	case LogLevelDebug:
		return slog.LevelDebug
	case LogLevelInfo:
		return slog.LevelInfo
	case LogLevelOff, LogLevelError:
		return slog.LevelError
	default:
		return slog.LevelError
	}
}

// Logger writes leveled log lines to a file. Share values, coefficients and
// secrets must never be passed to it.
type Logger struct {
	mu         sync.Mutex
	level      LogLevel
	file       *os.File
	filePath   string
	jsonOutput bool
	structured *slog.Logger
}

// NewLogger creates a logger writing text lines to filePath.
// The file is only created when the level is not off.
func NewLogger(level LogLevel, filePath string) (*Logger, error) {
	logger := &Logger{
		level:    level,
		filePath: filePath,
	}

	if level == LogLevelOff || filePath == "" {
		return logger, nil
	}

	filePath, err := ExpandHome(filePath)
	if err != nil {
		return nil, err
	}

	if err := os.MkdirAll(filepath.Dir(filePath), 0o750); err != nil {
		return nil, err
	}

	// #nosec G304 -- log file path is from validated config
	f, err := os.OpenFile(filePath, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o600)
	if err != nil {
		return nil, err
	}

	logger.file = f
	logger.filePath = filePath

	return logger, nil
}

// NewStructuredLogger creates a logger that writes JSON records.
// Printf-style calls still produce text lines.
func NewStructuredLogger(level LogLevel, filePath string) (*Logger, error) {
	logger, err := NewLogger(level, filePath)
	if err != nil {
		return nil, err
	}
	logger.jsonOutput = true
	return logger, nil
}

// OpenLogger creates a text or JSON logger for the given format.
func OpenLogger(level LogLevel, format, filePath string) (*Logger, error) {
	if strings.EqualFold(strings.TrimSpace(format), LogFormatJSON) {
		return NewStructuredLogger(level, filePath)
	}
	return NewLogger(level, filePath)
}

// Close closes the log file.
func (l *Logger) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.file != nil {
		err := l.file.Close()
		l.file = nil
		return err
	}
	return nil
}

// Level returns the current log level.
func (l *Logger) Level() LogLevel {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.level
}

// Structured returns a slog.Logger writing JSON to the log file,
// or nil when the logger has no file.
func (l *Logger) Structured() *slog.Logger {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.file == nil {
		return nil
	}
	if l.structured == nil {
		handler := slog.NewJSONHandler(&fileWriter{logger: l}, &slog.HandlerOptions{Level: l.level.slogLevel()})
		l.structured = slog.New(handler)
	}
	return l.structured
}

// Debug logs a debug message.
func (l *Logger) Debug(format string, args ...any) {
	l.log(LogLevelDebug, format, args...)
}

// Info logs an informational message.
func (l *Logger) Info(format string, args ...any) {
	l.log(LogLevelInfo, format, args...)
}

// Error logs an error message.
func (l *Logger) Error(format string, args ...any) {
	l.log(LogLevelError, format, args...)
}

// DebugAttrs logs a debug message with attributes.
func (l *Logger) DebugAttrs(msg string, attrs ...slog.Attr) {
	l.logAttrs(LogLevelDebug, msg, attrs...)
}

// InfoAttrs logs an informational message with attributes.
func (l *Logger) InfoAttrs(msg string, attrs ...slog.Attr) {
	l.logAttrs(LogLevelInfo, msg, attrs...)
}

// ErrorAttrs logs an error message with attributes.
func (l *Logger) ErrorAttrs(msg string, attrs ...slog.Attr) {
	l.logAttrs(LogLevelError, msg, attrs...)
}

func (l *Logger) enabled(level LogLevel) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.file != nil && l.level != LogLevelOff && level <= l.level
}

func (l *Logger) logAttrs(level LogLevel, msg string, attrs ...slog.Attr) {
	if !l.enabled(level) {
		return
	}

	l.mu.Lock()
	jsonOutput := l.jsonOutput
	l.mu.Unlock()

	if jsonOutput {
		if s := l.Structured(); s != nil {
			s.LogAttrs(context.Background(), level.slogLevel(), msg, attrs...)
		}
		return
	}

	var b strings.Builder
	b.WriteString(msg)
	for _, a := range attrs {
		b.WriteByte(' ')
		b.WriteString(a.String())
	}
	l.log(level, "%s", b.String())
}

// log writes a log message if the level is appropriate.
func (l *Logger) log(level LogLevel, format string, args ...any) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.level == LogLevelOff || level > l.level || l.file == nil {
		return
	}

	timestamp := time.Now().Format("2006-01-02 15:04:05.000")
	levelStr := strings.ToUpper(level.String())
	msg := fmt.Sprintf(format, args...)

	_, _ = fmt.Fprintf(l.file, "%s [%s] %s\n", timestamp, levelStr, msg)
}

// fileWriter serializes slog output with the text log lines.
type fileWriter struct {
	logger *Logger
}

func (w *fileWriter) Write(p []byte) (int, error) {
	w.logger.mu.Lock()
	defer w.logger.mu.Unlock()

	if w.logger.file == nil {
		return len(p), nil
	}
	return w.logger.file.Write(p)
}

// NullLogger returns a logger that discards all output.
func NullLogger() *Logger {
	return &Logger{level: LogLevelOff}
}
