// Package quorumcrypto holds the cryptographic helpers around share handling:
// passphrase sealing of share files, the process entropy reader and
// mlocked buffers for secret material.
package quorumcrypto

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	"filippo.io/age"
)

var (
	// ErrEmptyPassphrase is returned when sealing or opening without a passphrase.
	ErrEmptyPassphrase = errors.New("passphrase cannot be empty")

	// ErrWrongPassphrase is returned when a sealed payload does not open with the passphrase.
	ErrWrongPassphrase = errors.New("passphrase does not match")
)

// ScryptWorkFactor is the log2 scrypt cost used when sealing.
//
//nolint:gochecknoglobals // Tunable so tests can seal quickly
var ScryptWorkFactor = 18

// Seal encrypts plaintext to an age scrypt recipient derived from passphrase.
func Seal(plaintext, passphrase []byte) ([]byte, error) {
	if len(passphrase) == 0 {
		return nil, ErrEmptyPassphrase
	}

	recipient, err := age.NewScryptRecipient(string(passphrase))
	if err != nil {
		return nil, fmt.Errorf("creating scrypt recipient: %w", err)
	}
	recipient.SetWorkFactor(ScryptWorkFactor)

	buf := &bytes.Buffer{}
	w, err := age.Encrypt(buf, recipient)
	if err != nil {
		return nil, fmt.Errorf("initializing encryption: %w", err)
	}

	if _, err := w.Write(plaintext); err != nil {
		return nil, fmt.Errorf("writing encrypted data: %w", err)
	}

	if err := w.Close(); err != nil {
		return nil, fmt.Errorf("finalizing encryption: %w", err)
	}

	return buf.Bytes(), nil
}

// Open decrypts a payload produced by Seal.
// A mismatched passphrase yields ErrWrongPassphrase.
func Open(ciphertext, passphrase []byte) ([]byte, error) {
	if len(passphrase) == 0 {
		return nil, ErrEmptyPassphrase
	}

	identity, err := age.NewScryptIdentity(string(passphrase))
	if err != nil {
		return nil, fmt.Errorf("creating scrypt identity: %w", err)
	}

	r, err := age.Decrypt(bytes.NewReader(ciphertext), identity)
	if err != nil {
		var noMatch *age.NoIdentityMatchError
		if errors.As(err, &noMatch) {
			return nil, ErrWrongPassphrase
		}
		return nil, fmt.Errorf("initializing decryption: %w", err)
	}

	plaintext, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("reading decrypted data: %w", err)
	}

	return plaintext, nil
}
