package output

import (
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"

	quorumerr "github.com/mrz1836/quorum/pkg/errors"
)

// ErrorOutput represents a structured error for JSON output.
type ErrorOutput struct {
	Error ErrorDetail `json:"error"`
}

// ErrorDetail contains error details.
type ErrorDetail struct {
	Code       string            `json:"code"`
	Message    string            `json:"message"`
	Details    map[string]string `json:"details,omitempty"`
	Suggestion string            `json:"suggestion,omitempty"`
	ExitCode   int               `json:"exit_code"`
}

// FormatError writes err to w in the given format.
func FormatError(w io.Writer, err error, format Format) error {
	if err == nil {
		return nil
	}

	detail := errorDetail(err)
	if format == FormatJSON {
		return writeJSON(w, ErrorOutput{Error: detail})
	}
	return formatErrorText(w, detail)
}

func errorDetail(err error) ErrorDetail {
	var qe *quorumerr.QuorumError
	if !errors.As(err, &qe) {
		return ErrorDetail{
			Code:     "GENERAL_ERROR",
			Message:  err.Error(),
			ExitCode: quorumerr.ExitGeneral,
		}
	}

	// The outer message plus the cause chain, so "malformed share input: line 3: ..." survives.
	return ErrorDetail{
		Code:       qe.Code,
		Message:    messageWithCause(qe),
		Details:    qe.Details,
		Suggestion: qe.Suggestion,
		ExitCode:   qe.ExitCode,
	}
}

func messageWithCause(qe *quorumerr.QuorumError) string {
	if qe.Cause == nil {
		return qe.Message
	}
	cause := qe.Cause.Error()
	if strings.HasPrefix(cause, qe.Message) {
		return cause
	}
	return qe.Message + ": " + cause
}

func formatErrorText(w io.Writer, d ErrorDetail) error {
	var sb strings.Builder
	sb.WriteString("Error: " + d.Message + "\n")

	if len(d.Details) > 0 {
		keys := make([]string, 0, len(d.Details))
		for k := range d.Details {
			keys = append(keys, k)
		}
		sort.Strings(keys)

		sb.WriteString("\nDetails:\n")
		for _, k := range keys {
			sb.WriteString(fmt.Sprintf("  %s: %s\n", k, d.Details[k]))
		}
	}

	if d.Suggestion != "" {
		sb.WriteString("\nSuggestion: " + d.Suggestion + "\n")
	}

	_, err := io.WriteString(w, sb.String())
	return err
}

// FormatSuccess formats a success message.
func FormatSuccess(w io.Writer, message string, format Format) error {
	if format == FormatJSON {
		return writeJSON(w, map[string]string{"status": "success", "message": message})
	}
	_, err := fmt.Fprintln(w, message)
	return err
}
