package quorumcrypto

import (
	"runtime"
	"sync"
)

// SecureBytes holds secret material in memory that is locked against
// swapping when the platform allows it and zeroed on Destroy.
type SecureBytes struct {
	mu     sync.Mutex
	data   []byte
	locked bool
}

// NewSecureBytes allocates size bytes, mlocking them when lock is true.
// Failure to lock is not an error; IsLocked reports the outcome.
func NewSecureBytes(size int, lock bool) *SecureBytes {
	sb := &SecureBytes{data: make([]byte, size)}
	if lock {
		sb.locked = mlock(sb.data)
	}

	runtime.SetFinalizer(sb, func(s *SecureBytes) {
		s.Destroy()
	})

	return sb
}

// SecureBytesFrom copies data into a new SecureBytes and zeroes data.
func SecureBytesFrom(data []byte, lock bool) *SecureBytes {
	sb := NewSecureBytes(len(data), lock)
	copy(sb.data, data)
	Zero(data)
	return sb
}

// Bytes returns the underlying slice, or nil after Destroy.
func (s *SecureBytes) Bytes() []byte {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.data
}

// IsLocked reports whether the memory is mlocked.
func (s *SecureBytes) IsLocked() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.locked
}

// Len returns the length of the data.
func (s *SecureBytes) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.data)
}

// Destroy zeroes and unlocks the memory. Safe to call more than once.
func (s *SecureBytes) Destroy() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.data == nil {
		return
	}

	Zero(s.data)
	if s.locked {
		munlock(s.data)
		s.locked = false
	}
	s.data = nil

	runtime.SetFinalizer(s, nil)
}

// Zero overwrites b with zeros.
func Zero(b []byte) {
	for i := range b {
		b[i] = 0
	}
}
