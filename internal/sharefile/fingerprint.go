package sharefile

import (
	"encoding/hex"

	"golang.org/x/crypto/blake2b"

	"github.com/mrz1836/quorum/internal/shamir"
)

// fingerprintBytes is the digest prefix kept for a share id.
const fingerprintBytes = 4

// Fingerprint returns a short id for a share: the first four bytes of the
// BLAKE2b-256 digest of its text line, hex encoded. It identifies a share
// for bookkeeping and does not authenticate it.
func Fingerprint(s shamir.Share) string {
	sum := blake2b.Sum256([]byte(FormatLine(s)))
	return hex.EncodeToString(sum[:fingerprintBytes])
}
