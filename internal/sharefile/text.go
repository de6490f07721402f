// Package sharefile reads and writes shares: the plain text line format,
// the CBOR share envelope and passphrase-sealed share files.
package sharefile

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/mrz1836/quorum/internal/shamir"
)

// ErrMalformedShareInput is returned for share text that is not one
// "<index> <value>" pair of unsigned decimals per line.
var ErrMalformedShareInput = errors.New("malformed share input")

// commentPrefix starts a comment, either on its own line or after a share.
const commentPrefix = "#"

// FormatLine renders a share as one line of the text format, without newline.
func FormatLine(s shamir.Share) string {
	return s.String()
}

// Write emits one share per line. With fingerprints set, each line carries
// the share fingerprint as a trailing comment.
func Write(w io.Writer, shares []shamir.Share, fingerprints bool) error {
	bw := bufio.NewWriter(w)
	for _, s := range shares {
		line := FormatLine(s)
		if fingerprints {
			line += " " + commentPrefix + " " + Fingerprint(s)
		}
		if _, err := bw.WriteString(line + "\n"); err != nil {
			return fmt.Errorf("writing share %d: %w", s.Index, err)
		}
	}
	return bw.Flush()
}

// Parse reads shares in the text format. Blank lines and comments are
// skipped and lines may come in any order. When k > 0, Parse stops after k
// shares and fails if fewer are present.
// Range and duplicate checks are left to shamir.Interpolate.
func Parse(r io.Reader, k int) ([]shamir.Share, error) {
	var shares []shamir.Share

	scanner := bufio.NewScanner(r)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := scanner.Text()
		if i := strings.Index(line, commentPrefix); i >= 0 {
			line = line[:i]
		}
		fields := strings.Fields(line)
		if len(fields) == 0 {
			continue
		}

		s, err := parseFields(fields)
		if err != nil {
			return nil, fmt.Errorf("%w: line %d: %w", ErrMalformedShareInput, lineNo, err)
		}
		shares = append(shares, s)

		if k > 0 && len(shares) == k {
			return shares, nil
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading shares: %w", err)
	}

	if len(shares) < k {
		return nil, fmt.Errorf("%w: expected %d shares, got %d", ErrMalformedShareInput, k, len(shares))
	}
	return shares, nil
}

var errFieldCount = errors.New("expected two unsigned integers")

func parseFields(fields []string) (shamir.Share, error) {
	if len(fields) != 2 {
		return shamir.Share{}, fmt.Errorf("%w, found %d fields", errFieldCount, len(fields))
	}

	index, err := strconv.ParseUint(fields[0], 10, 64)
	if err != nil {
		return shamir.Share{}, fmt.Errorf("index %q: %w", fields[0], err)
	}
	value, err := strconv.ParseUint(fields[1], 10, 64)
	if err != nil {
		return shamir.Share{}, fmt.Errorf("value %q: %w", fields[1], err)
	}

	return shamir.Share{Index: index, Value: value}, nil
}
