package cli

import (
	"log/slog"

	"github.com/mrz1836/quorum/internal/config"
	"github.com/mrz1836/quorum/internal/output"
	quorumerr "github.com/mrz1836/quorum/pkg/errors"
)

// Compile-time interface checks.
var (
	_ ConfigProvider = (*config.Config)(nil)
	_ LogWriter      = (*config.Logger)(nil)
	_ FormatProvider = (*output.Formatter)(nil)
)

// ConfigProvider provides read access to configuration values.
// This interface enables mocking configuration in tests.
type ConfigProvider interface {
	// GetHome returns the quorum home directory path.
	GetHome() string

	// GetLoggingLevel returns the configured logging level.
	GetLoggingLevel() string

	// GetLoggingFormat returns the configured log record format.
	GetLoggingFormat() string

	// GetLoggingFile returns the configured log file path.
	GetLoggingFile() string

	// GetOutputFormat returns the default output format.
	GetOutputFormat() string

	// IsVerbose returns true if verbose output is enabled.
	IsVerbose() bool

	// GetShares returns the share generation defaults.
	GetShares() config.SharesConfig

	// GetSecurity returns the security configuration.
	GetSecurity() config.SecurityConfig
}

// LogWriter provides logging capabilities.
// This interface enables mocking logging in tests.
type LogWriter interface {
	// Debug logs a debug-level message.
	Debug(format string, args ...any)

	// DebugAttrs logs a debug-level message with structured attributes.
	DebugAttrs(msg string, attrs ...slog.Attr)

	// InfoAttrs logs an info-level message with structured attributes.
	InfoAttrs(msg string, attrs ...slog.Attr)

	// ErrorAttrs logs an error-level message with structured attributes.
	ErrorAttrs(msg string, attrs ...slog.Attr)

	// Close closes the logger and releases resources.
	Close() error
}

// FormatProvider provides output format information.
// This interface enables mocking output formatting in tests.
type FormatProvider interface {
	// Format returns the current output format.
	Format() output.Format
}

// wantsJSON reports whether f renders JSON documents.
func wantsJSON(f FormatProvider) bool {
	return f.Format() == output.FormatJSON
}

// strictMode reports whether capacity problems are errors, from the flag or config.
func strictMode(flag bool, c ConfigProvider) bool {
	return flag || c.GetShares().Strict
}

// fingerprintMode reports whether shares carry a short id.
func fingerprintMode(flag bool, c ConfigProvider) bool {
	return flag || c.GetShares().Fingerprints
}

// logFailure records a failed command and closes the log.
// Only the error code is logged; messages can quote user input.
func logFailure(l LogWriter, err error) {
	l.ErrorAttrs("command failed",
		slog.String("code", quorumerr.Code(err)),
		slog.Int("exit_code", quorumerr.ExitCode(err)),
	)
	_ = l.Close()
}
