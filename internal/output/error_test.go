package output_test

import (
	"bytes"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrz1836/quorum/internal/output"
	quorumerr "github.com/mrz1836/quorum/pkg/errors"
)

var (
	errPlain   = errors.New("something broke")
	errWriter  = errors.New("write failed")
	errCause   = errors.New("duplicate share index: 3")
	errRepeats = errors.New("malformed share input: line 2: expected two unsigned integers, found 1 fields")
)

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) { return 0, errWriter }

func TestFormatError_Nil(t *testing.T) {
	t.Parallel()
	var buf bytes.Buffer
	require.NoError(t, output.FormatError(&buf, nil, output.FormatText))
	assert.Empty(t, buf.String())
}

func TestFormatError_Generic(t *testing.T) {
	t.Parallel()

	var text bytes.Buffer
	require.NoError(t, output.FormatError(&text, errPlain, output.FormatText))
	assert.Equal(t, "Error: something broke\n", text.String())

	var js bytes.Buffer
	require.NoError(t, output.FormatError(&js, errPlain, output.FormatJSON))

	var result output.ErrorOutput
	require.NoError(t, json.Unmarshal(js.Bytes(), &result))
	assert.Equal(t, "GENERAL_ERROR", result.Error.Code)
	assert.Equal(t, "something broke", result.Error.Message)
	assert.Equal(t, quorumerr.ExitGeneral, result.Error.ExitCode)
}

func TestFormatError_QuorumError_Text(t *testing.T) {
	t.Parallel()
	err := quorumerr.WithDetails(quorumerr.ErrInvalidThreshold, map[string]string{"n": "2", "k": "3"})
	err = quorumerr.WithSuggestion(err, "choose k between 1 and n")

	var buf bytes.Buffer
	require.NoError(t, output.FormatError(&buf, err, output.FormatText))

	assert.Equal(t,
		"Error: invalid threshold parameters\n\nDetails:\n  k: 3\n  n: 2\n\nSuggestion: choose k between 1 and n\n",
		buf.String())
}

func TestFormatError_QuorumError_JSON(t *testing.T) {
	t.Parallel()
	err := quorumerr.FromCause(quorumerr.ErrDuplicateShareIndex, errCause)

	var buf bytes.Buffer
	require.NoError(t, output.FormatError(&buf, err, output.FormatJSON))

	var result output.ErrorOutput
	require.NoError(t, json.Unmarshal(buf.Bytes(), &result))
	assert.Equal(t, "DUPLICATE_SHARE_INDEX", result.Error.Code)
	assert.Equal(t, "two shares have the same index: duplicate share index: 3", result.Error.Message)
	assert.Equal(t, quorumerr.ExitInput, result.Error.ExitCode)
	assert.Empty(t, result.Error.Details)
	assert.NotContains(t, buf.String(), "suggestion")
}

func TestFormatError_CauseNotRepeated(t *testing.T) {
	t.Parallel()
	err := quorumerr.FromCause(quorumerr.ErrMalformedShareInput, errRepeats)

	var buf bytes.Buffer
	require.NoError(t, output.FormatError(&buf, err, output.FormatText))
	assert.Equal(t, "Error: "+errRepeats.Error()+"\n", buf.String())
}

func TestFormatError_WriterError(t *testing.T) {
	t.Parallel()
	require.ErrorIs(t, output.FormatError(failingWriter{}, errPlain, output.FormatText), errWriter)
	require.ErrorIs(t, output.FormatError(failingWriter{}, errPlain, output.FormatJSON), errWriter)
}

func TestFormatSuccess(t *testing.T) {
	t.Parallel()

	var text bytes.Buffer
	require.NoError(t, output.FormatSuccess(&text, "wrote 5 shares", output.FormatText))
	assert.Equal(t, "wrote 5 shares\n", text.String())

	var js bytes.Buffer
	require.NoError(t, output.FormatSuccess(&js, "wrote 5 shares", output.FormatJSON))
	var result map[string]string
	require.NoError(t, json.Unmarshal(js.Bytes(), &result))
	assert.Equal(t, "success", result["status"])
	assert.Equal(t, "wrote 5 shares", result["message"])
}

func TestMessages(t *testing.T) {
	t.Parallel()
	var buf bytes.Buffer

	output.Infof(&buf, "run %s", "abc")
	output.Warnf(&buf, "secret is %d bytes", 4)
	output.Successf(&buf, "wrote %d files", 3)

	assert.Contains(t, buf.String(), "run abc\n")
	assert.Contains(t, buf.String(), "secret is 4 bytes\n")
	assert.Contains(t, buf.String(), "wrote 3 files\n")
}
