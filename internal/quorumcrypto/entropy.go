package quorumcrypto

import (
	"crypto/rand"
	"io"
)

// Reader is the entropy source for share coefficients.
// It wraps crypto/rand.Reader and is replaceable in tests.
//
//nolint:gochecknoglobals // Package-level RNG is required for testability
var Reader io.Reader = rand.Reader
