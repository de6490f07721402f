package cli

import (
	"errors"
	"fmt"
	"os"

	"golang.org/x/term"

	"github.com/mrz1836/quorum/internal/config"
	"github.com/mrz1836/quorum/internal/quorumcrypto"
	quorumerr "github.com/mrz1836/quorum/pkg/errors"
)

// minPassphraseLen is the shortest passphrase accepted for sealing.
const minPassphraseLen = 8

const passphraseEnvHint = config.EnvPassphrase

// errNoPassphrase is returned when a passphrase is needed but neither the
// environment nor a terminal can supply one.
var errNoPassphrase = errors.New("no passphrase available")

// Prompt functions, replaced in tests.
//
//nolint:gochecknoglobals // swapped by tests
var (
	promptPasswordFn      = promptPassword
	promptNewPassphraseFn = promptNewPassphrase
)

// promptPassword prompts for a passphrase with hidden input.
// The caller is responsible for zeroing the returned bytes after use.
func promptPassword(prompt string) ([]byte, error) {
	fd := int(os.Stdin.Fd()) //nolint:gosec // G115: Fd() fits in int on supported platforms
	if !term.IsTerminal(fd) {
		return nil, errNoPassphrase
	}

	out(os.Stderr, "%s", prompt)
	password, err := term.ReadPassword(fd)
	outln(os.Stderr) // Add newline after hidden input

	if err != nil {
		return nil, fmt.Errorf("reading passphrase: %w", err)
	}
	return password, nil
}

// promptNewPassphrase prompts for a new passphrase with confirmation.
// The caller is responsible for zeroing the returned bytes after use.
func promptNewPassphrase() ([]byte, error) {
	passphrase, err := promptPasswordFn("Enter share file passphrase: ")
	if err != nil {
		return nil, err
	}

	confirm, err := promptPasswordFn("Confirm passphrase: ")
	if err != nil {
		quorumcrypto.Zero(passphrase)
		return nil, err
	}
	defer quorumcrypto.Zero(confirm)

	if string(passphrase) != string(confirm) {
		quorumcrypto.Zero(passphrase)
		return nil, quorumerr.WithSuggestion(
			quorumerr.ErrInvalidInput,
			"passphrases do not match",
		)
	}
	return passphrase, nil
}

// readPassphrase returns the share file passphrase from QUORUM_PASSPHRASE,
// or prompts for it. New passphrases are confirmed and length-checked.
func readPassphrase(newPassphrase bool) ([]byte, error) {
	var (
		passphrase []byte
		err        error
	)

	switch v := os.Getenv(config.EnvPassphrase); {
	case v != "":
		passphrase = []byte(v)
	case newPassphrase:
		passphrase, err = promptNewPassphraseFn()
	default:
		passphrase, err = promptPasswordFn("Enter share file passphrase: ")
	}
	if err != nil {
		return nil, shareError(err)
	}

	if len(passphrase) == 0 {
		return nil, shareError(quorumcrypto.ErrEmptyPassphrase)
	}
	if newPassphrase && len(passphrase) < minPassphraseLen {
		quorumcrypto.Zero(passphrase)
		return nil, quorumerr.WithSuggestion(
			quorumerr.ErrInvalidInput,
			fmt.Sprintf("passphrase must be at least %d characters", minPassphraseLen),
		)
	}
	return passphrase, nil
}
