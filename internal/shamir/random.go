package shamir

import (
	"encoding/binary"
	"fmt"
	"io"
	"math/bits"
	"sync"

	"github.com/mrz1836/quorum/internal/quorumcrypto"
)

// maxSampleAttempts bounds rejection sampling.
const maxSampleAttempts = 255

// RandomSource supplies the random polynomial coefficients.
// Production sources must be cryptographically secure; a guessable source
// leaks the secret to anyone holding fewer than k shares.
type RandomSource interface {
	// Uniform returns a value drawn uniformly from [0, modulus-1].
	Uniform(modulus uint64) (uint64, error)
}

// ReaderSource samples field elements from an io.Reader by rejection sampling.
// It is safe for concurrent use.
type ReaderSource struct {
	mu  sync.Mutex
	r   io.Reader
	buf [8]byte
}

// NewReaderSource returns a RandomSource reading from r.
// Uniformity of the output is only as good as the bytes r produces.
func NewReaderSource(r io.Reader) *ReaderSource {
	return &ReaderSource{r: r}
}

// NewCryptoSource returns a RandomSource backed by quorumcrypto.Reader,
// which is crypto/rand outside of tests.
func NewCryptoSource() *ReaderSource {
	return NewReaderSource(quorumcrypto.Reader)
}

// Uniform implements RandomSource.
func (s *ReaderSource) Uniform(modulus uint64) (uint64, error) {
	if modulus == 0 {
		return 0, ErrInvalidModulus
	}
	if modulus == 1 {
		return 0, nil
	}

	// Smallest all-ones mask covering modulus-1; shifting by 64 yields 0 and wraps to all ones.
	mask := uint64(1)<<bits.Len64(modulus-1) - 1

	s.mu.Lock()
	defer s.mu.Unlock()

	for i := 0; i < maxSampleAttempts; i++ {
		if _, err := io.ReadFull(s.r, s.buf[:]); err != nil {
			return 0, fmt.Errorf("reading randomness: %w", err)
		}
		v := binary.BigEndian.Uint64(s.buf[:]) & mask
		if v < modulus {
			return v, nil
		}
	}
	return 0, ErrSamplingExhausted
}
