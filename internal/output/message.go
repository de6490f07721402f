package output

import (
	"fmt"
	"io"
)

// Info writes an informational message with an info prefix.
func Info(w io.Writer, msg string) {
	_, _ = fmt.Fprintln(w, "ℹ️  "+msg)
}

// Infof writes a formatted informational message.
func Infof(w io.Writer, format string, args ...any) {
	Info(w, fmt.Sprintf(format, args...))
}

// Warn writes a warning message with a warning prefix.
func Warn(w io.Writer, msg string) {
	_, _ = fmt.Fprintln(w, "⚠️  "+msg)
}

// Warnf writes a formatted warning message.
func Warnf(w io.Writer, format string, args ...any) {
	Warn(w, fmt.Sprintf(format, args...))
}

// Success writes a success message with a success prefix.
func Success(w io.Writer, msg string) {
	_, _ = fmt.Fprintln(w, "✅ "+msg)
}

// Successf writes a formatted success message.
func Successf(w io.Writer, format string, args ...any) {
	Success(w, fmt.Sprintf(format, args...))
}
