package cli

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/mrz1836/quorum/internal/shamir"
	"github.com/mrz1836/quorum/internal/sharefile"
	quorumerr "github.com/mrz1836/quorum/pkg/errors"
)

// Input limits for share and batch documents.
const (
	maxShareInput = 1 << 20
	maxBatchInput = 1 << 20
)

// maxShares caps n well below the field modulus; every share is held in
// memory and may become a sealed file.
const maxShares = 1<<16 - 1

// shareJSON is one share in JSON output.
type shareJSON struct {
	Index uint64 `json:"index"`
	Value uint64 `json:"value"`
	ID    string `json:"id,omitempty"`
}

func toShareJSON(shares []shamir.Share, fingerprints bool) []shareJSON {
	result := make([]shareJSON, len(shares))
	for i, s := range shares {
		result[i] = shareJSON{Index: s.Index, Value: s.Value}
		if fingerprints {
			result[i].ID = sharefile.Fingerprint(s)
		}
	}
	return result
}

func fromShareJSON(in []shareJSON) []shamir.Share {
	shares := make([]shamir.Share, len(in))
	for i, s := range in {
		shares[i] = shamir.Share{Index: s.Index, Value: s.Value}
	}
	return shares
}

// parseCount parses a share count argument.
func parseCount(name, value string) (int, error) {
	v, err := strconv.Atoi(value)
	if err != nil || v < 1 {
		return 0, quorumerr.WithSuggestion(
			quorumerr.WithDetails(quorumerr.ErrInvalidThreshold, map[string]string{name: value}),
			name+" must be a positive integer",
		)
	}
	return v, nil
}

// parseThreshold parses n and k and checks 1 <= k <= n <= maxShares before
// any secret material or passphrase is touched.
func parseThreshold(nArg, kArg string) (int, int, error) {
	n, err := parseCount("n", nArg)
	if err != nil {
		return 0, 0, err
	}
	k, err := parseCount("k", kArg)
	if err != nil {
		return 0, 0, err
	}

	var cause error
	switch {
	case k > n:
		cause = shamir.ErrInvalidThreshold
	case n > maxShares:
		cause = fmt.Errorf("%w: n=%d exceeds %d", shamir.ErrTooManyShares, n, maxShares)
	}
	if cause != nil {
		return 0, 0, quorumerr.WithDetails(shareError(cause), map[string]string{
			"n": nArg,
			"k": kArg,
		})
	}
	return n, k, nil
}

// capacityWarning checks whether secret survives the field encoding.
// Under strict the problem is an error; otherwise it is returned as a warning.
func capacityWarning(secret []byte, strict bool) (string, error) {
	err := shamir.CheckCapacity(secret)
	if err == nil {
		return "", nil
	}
	if strict {
		return "", shareError(err)
	}
	if errors.Is(err, shamir.ErrEmptySecret) {
		return "secret is empty; shares encode the value 0", nil
	}
	return err.Error() + "; the reconstructed secret will differ from the input", nil
}
