package cli

import (
	"errors"
	"os"

	"github.com/mrz1836/quorum/internal/fileutil"
	"github.com/mrz1836/quorum/internal/quorumcrypto"
	"github.com/mrz1836/quorum/internal/shamir"
	"github.com/mrz1836/quorum/internal/sharefile"
	quorumerr "github.com/mrz1836/quorum/pkg/errors"
)

// shareError maps package sentinels onto structured CLI errors.
// Errors that are already structured, or unknown, pass through unchanged.
func shareError(err error) error {
	if err == nil {
		return nil
	}

	var qe *quorumerr.QuorumError
	if errors.As(err, &qe) {
		return err
	}

	switch {
	case errors.Is(err, shamir.ErrInvalidThreshold), errors.Is(err, shamir.ErrTooManyShares):
		return quorumerr.WithSuggestion(
			quorumerr.FromCause(quorumerr.ErrInvalidThreshold, err),
			"choose 1 <= k <= n, for example 'quorum generate AB 5 3'",
		)
	case errors.Is(err, shamir.ErrDuplicateShareIndex):
		return quorumerr.WithSuggestion(
			quorumerr.FromCause(quorumerr.ErrDuplicateShareIndex, err),
			"supply k shares with distinct indices",
		)
	case errors.Is(err, shamir.ErrDivisionByZero):
		return quorumerr.FromCause(quorumerr.ErrArithmetic, err)
	case errors.Is(err, shamir.ErrEmptySecret):
		return quorumerr.FromCause(quorumerr.ErrEmptySecret, err)
	case errors.Is(err, shamir.ErrSecretTooLarge), errors.Is(err, shamir.ErrLeadingZeroByte):
		return quorumerr.WithSuggestion(
			quorumerr.FromCause(quorumerr.ErrSecretTooLarge, err),
			"use at most 3 bytes without a leading zero byte",
		)
	case errors.Is(err, sharefile.ErrMalformedShareInput),
		errors.Is(err, sharefile.ErrInvalidEnvelope),
		errors.Is(err, shamir.ErrNoShares),
		errors.Is(err, shamir.ErrInvalidIndex),
		errors.Is(err, shamir.ErrInvalidValue):
		return quorumerr.WithSuggestion(
			quorumerr.FromCause(quorumerr.ErrMalformedShareInput, err),
			"each share is one line: <index> <value>",
		)
	case errors.Is(err, sharefile.ErrUnsupportedVersion):
		return quorumerr.WithSuggestion(
			quorumerr.FromCause(quorumerr.ErrUnsupportedVersion, err),
			"the share file was written by a newer quorum; upgrade to read it",
		)
	case errors.Is(err, sharefile.ErrModulusMismatch):
		return quorumerr.FromCause(quorumerr.ErrIncompatibleShareFile, err)
	case errors.Is(err, quorumcrypto.ErrWrongPassphrase):
		return quorumerr.FromCause(quorumerr.ErrDecryptionFailed, err)
	case errors.Is(err, quorumcrypto.ErrEmptyPassphrase), errors.Is(err, errNoPassphrase):
		return quorumerr.WithSuggestion(
			quorumerr.FromCause(quorumerr.ErrInvalidInput, err),
			"set "+passphraseEnvHint+" or run from a terminal",
		)
	case errors.Is(err, os.ErrNotExist):
		return quorumerr.FromCause(quorumerr.ErrShareFileNotFound, err)
	case errors.Is(err, fileutil.ErrFileTooLarge):
		return quorumerr.FromCause(quorumerr.ErrInvalidInput, err)
	}

	return err
}
