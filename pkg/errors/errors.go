// Package errors provides structured error handling for quorum.
// It defines sentinel errors, exit codes, and helpers for adding
// context, details, and suggestions to errors.
//
//nolint:revive // Package name intentionally shadows stdlib for domain-specific error handling
package errors

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// Exit codes returned by the CLI.
const (
	ExitSuccess  = 0 // Successful execution
	ExitGeneral  = 1 // General/unknown error
	ExitInput    = 2 // Invalid input
	ExitAuth     = 3 // Wrong passphrase or undecryptable share file
	ExitNotFound = 4 // Resource not found
)

// QuorumError is the structured error type for quorum.
type QuorumError struct {
	Code       string            // Machine-readable error code
	Message    string            // Human-readable message
	Details    map[string]string // Additional context
	Suggestion string            // Actionable suggestion for user
	Cause      error             // Underlying error
	ExitCode   int               // Exit code for CLI
}

func (e *QuorumError) Error() string {
	msg := e.Message

	// Include details in error message (sorted for deterministic output)
	if len(e.Details) > 0 {
		keys := make([]string, 0, len(e.Details))
		for k := range e.Details {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			msg = fmt.Sprintf("%s (%s: %s)", msg, k, e.Details[k])
		}
	}

	if e.Cause != nil {
		cause := e.Cause.Error()
		// A cause that already starts with the message is not repeated.
		if len(e.Details) == 0 && strings.HasPrefix(cause, msg) {
			return cause
		}
		return fmt.Sprintf("%s: %s", msg, cause)
	}
	return msg
}

func (e *QuorumError) Unwrap() error {
	return e.Cause
}

// Is implements errors.Is for QuorumError.
func (e *QuorumError) Is(target error) bool {
	var t *QuorumError
	if errors.As(target, &t) {
		return e.Code == t.Code
	}
	return false
}

// Sentinel errors.
var (
	ErrGeneral = &QuorumError{
		Code:     "GENERAL_ERROR",
		Message:  "an error occurred",
		ExitCode: ExitGeneral,
	}

	ErrInvalidInput = &QuorumError{
		Code:     "INVALID_INPUT",
		Message:  "invalid input",
		ExitCode: ExitInput,
	}

	ErrNotFound = &QuorumError{
		Code:     "NOT_FOUND",
		Message:  "resource not found",
		ExitCode: ExitNotFound,
	}

	// Sharing errors.
	ErrInvalidThreshold = &QuorumError{
		Code:     "INVALID_THRESHOLD",
		Message:  "invalid threshold parameters",
		ExitCode: ExitInput,
	}

	ErrDuplicateShareIndex = &QuorumError{
		Code:     "DUPLICATE_SHARE_INDEX",
		Message:  "two shares have the same index",
		ExitCode: ExitInput,
	}

	ErrArithmetic = &QuorumError{
		Code:     "ARITHMETIC_ERROR",
		Message:  "modular inverse of zero requested",
		ExitCode: ExitGeneral,
	}

	ErrMalformedShareInput = &QuorumError{
		Code:     "MALFORMED_SHARE_INPUT",
		Message:  "malformed share input",
		ExitCode: ExitInput,
	}

	ErrEmptySecret = &QuorumError{
		Code:     "EMPTY_SECRET",
		Message:  "secret is empty",
		ExitCode: ExitInput,
	}

	ErrSecretTooLarge = &QuorumError{
		Code:     "SECRET_TOO_LARGE",
		Message:  "secret does not survive the field encoding",
		ExitCode: ExitInput,
	}

	// Share file errors.
	ErrDecryptionFailed = &QuorumError{
		Code:     "DECRYPTION_FAILED",
		Message:  "decryption failed - wrong passphrase or corrupted share file",
		ExitCode: ExitAuth,
	}

	ErrShareFileNotFound = &QuorumError{
		Code:     "SHARE_FILE_NOT_FOUND",
		Message:  "share file not found",
		ExitCode: ExitNotFound,
	}

	ErrUnsupportedVersion = &QuorumError{
		Code:     "UNSUPPORTED_VERSION",
		Message:  "unsupported share envelope version",
		ExitCode: ExitInput,
	}

	ErrIncompatibleShareFile = &QuorumError{
		Code:     "INCOMPATIBLE_SHARE_FILE",
		Message:  "share file was produced over a different field",
		ExitCode: ExitInput,
	}

	// Config-specific errors.
	ErrConfigInvalid = &QuorumError{
		Code:     "CONFIG_INVALID",
		Message:  "configuration file is invalid",
		ExitCode: ExitInput,
	}

	ErrUnknownConfigKey = &QuorumError{
		Code:     "UNKNOWN_CONFIG_KEY",
		Message:  "unknown config key",
		ExitCode: ExitInput,
	}

	ErrInvalidValue = &QuorumError{
		Code:     "INVALID_VALUE",
		Message:  "invalid value",
		ExitCode: ExitInput,
	}
)

// New creates a new QuorumError with the given code and message.
func New(code, message string) *QuorumError {
	return &QuorumError{
		Code:     code,
		Message:  message,
		ExitCode: ExitGeneral,
	}
}

// FromCause returns a copy of sentinel with cause attached, so that both
// errors.Is(err, sentinel) and errors.Is(err, cause) hold.
func FromCause(sentinel *QuorumError, cause error) error {
	if cause == nil {
		return nil
	}
	return &QuorumError{
		Code:       sentinel.Code,
		Message:    sentinel.Message,
		Details:    sentinel.Details,
		Suggestion: sentinel.Suggestion,
		Cause:      cause,
		ExitCode:   sentinel.ExitCode,
	}
}

// Wrap wraps an error with additional context.
func Wrap(err error, format string, args ...any) error {
	if err == nil {
		return nil
	}

	msg := fmt.Sprintf(format, args...)

	var qe *QuorumError
	if errors.As(err, &qe) {
		return &QuorumError{
			Code:       qe.Code,
			Message:    fmt.Sprintf("%s: %s", msg, qe.Message),
			Details:    qe.Details,
			Suggestion: qe.Suggestion,
			Cause:      err,
			ExitCode:   qe.ExitCode,
		}
	}

	return &QuorumError{
		Code:     "GENERAL_ERROR",
		Message:  msg,
		Cause:    err,
		ExitCode: ExitGeneral,
	}
}

// WithDetails adds details to an error.
func WithDetails(err error, details map[string]string) error {
	if err == nil {
		return nil
	}

	var qe *QuorumError
	if errors.As(err, &qe) {
		return &QuorumError{
			Code:       qe.Code,
			Message:    qe.Message,
			Details:    details,
			Suggestion: qe.Suggestion,
			Cause:      qe.Cause,
			ExitCode:   qe.ExitCode,
		}
	}

	return &QuorumError{
		Code:     "GENERAL_ERROR",
		Message:  err.Error(),
		Details:  details,
		Cause:    err,
		ExitCode: ExitGeneral,
	}
}

// WithSuggestion adds a suggestion to an error.
func WithSuggestion(err error, suggestion string) error {
	if err == nil {
		return nil
	}

	var qe *QuorumError
	if errors.As(err, &qe) {
		return &QuorumError{
			Code:       qe.Code,
			Message:    qe.Message,
			Details:    qe.Details,
			Suggestion: suggestion,
			Cause:      qe.Cause,
			ExitCode:   qe.ExitCode,
		}
	}

	return &QuorumError{
		Code:       "GENERAL_ERROR",
		Message:    err.Error(),
		Suggestion: suggestion,
		Cause:      err,
		ExitCode:   ExitGeneral,
	}
}

// ExitCode returns the appropriate exit code for an error.
func ExitCode(err error) int {
	if err == nil {
		return ExitSuccess
	}

	var qe *QuorumError
	if errors.As(err, &qe) {
		return qe.ExitCode
	}

	return ExitGeneral
}

// Code returns the error code for an error.
func Code(err error) string {
	var qe *QuorumError
	if errors.As(err, &qe) {
		return qe.Code
	}
	return "GENERAL_ERROR"
}

// Is wraps errors.Is for convenience.
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As wraps errors.As for convenience.
func As(err error, target any) bool {
	return errors.As(err, target)
}
