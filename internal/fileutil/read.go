package fileutil

import (
	"errors"
	"fmt"
	"io"
	"os"
)

// ErrFileTooLarge indicates a file exceeded the read limit.
var ErrFileTooLarge = errors.New("file exceeds size limit")

// ReadLimited reads at most limit bytes from path.
// A file longer than limit is rejected with ErrFileTooLarge.
func ReadLimited(path string, limit int64) ([]byte, error) {
	if path == "" {
		return nil, ErrEmptyPath
	}

	f, err := os.Open(path) //nolint:gosec // G304: path is chosen by the operator
	if err != nil {
		return nil, err
	}
	defer func() { _ = f.Close() }()

	return ReadAllLimited(f, limit)
}

// ReadAllLimited reads r to EOF, failing once more than limit bytes arrive.
func ReadAllLimited(r io.Reader, limit int64) ([]byte, error) {
	data, err := io.ReadAll(io.LimitReader(r, limit+1))
	if err != nil {
		return nil, fmt.Errorf("reading input: %w", err)
	}
	if int64(len(data)) > limit {
		return nil, fmt.Errorf("%w: more than %d bytes", ErrFileTooLarge, limit)
	}
	return data, nil
}
