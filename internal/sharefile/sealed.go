package sharefile

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/mrz1836/quorum/internal/fileutil"
	"github.com/mrz1836/quorum/internal/quorumcrypto"
)

const (
	// sealedFilePerm keeps sealed shares readable by the owner only.
	sealedFilePerm = 0o600

	// maxSealedSize bounds how much of a sealed file is read.
	maxSealedSize = 64 * 1024
)

// SealedFileName returns the file name used for the share with index.
func SealedFileName(index uint64) string {
	return fmt.Sprintf("share-%d.age", index)
}

// WriteSealed encrypts env with passphrase and writes it atomically into dir.
// It returns the path written.
func WriteSealed(dir string, env Envelope, passphrase []byte) (string, error) {
	data, err := env.Marshal()
	if err != nil {
		return "", err
	}

	sealed, err := quorumcrypto.Seal(data, passphrase)
	if err != nil {
		return "", fmt.Errorf("sealing share %d: %w", env.Index, err)
	}

	path := filepath.Join(dir, SealedFileName(env.Index))
	if err := fileutil.WriteAtomic(path, sealed, sealedFilePerm); err != nil {
		return "", fmt.Errorf("writing share %d: %w", env.Index, err)
	}
	return path, nil
}

// ReadSealed decrypts and decodes the sealed share file at path.
// A wrong passphrase yields quorumcrypto.ErrWrongPassphrase; a missing file
// yields an error matching os.ErrNotExist.
func ReadSealed(path string, passphrase []byte) (Envelope, error) {
	sealed, err := fileutil.ReadLimited(path, maxSealedSize)
	if err != nil {
		return Envelope{}, fmt.Errorf("reading %s: %w", path, err)
	}

	data, err := quorumcrypto.Open(sealed, passphrase)
	if err != nil {
		return Envelope{}, fmt.Errorf("opening %s: %w", path, err)
	}
	defer quorumcrypto.Zero(data)

	env, err := UnmarshalEnvelope(data)
	if err != nil {
		return Envelope{}, fmt.Errorf("decoding %s: %w", path, err)
	}
	return env, nil
}

// WriteSealedSet seals every envelope into dir, creating dir if needed.
func WriteSealedSet(dir string, envs []Envelope, passphrase []byte) ([]string, error) {
	if err := fileutil.EnsureDir(dir, 0o700); err != nil {
		return nil, err
	}

	paths := make([]string, 0, len(envs))
	for _, env := range envs {
		path, err := WriteSealed(dir, env, passphrase)
		if err != nil {
			return paths, err
		}
		paths = append(paths, path)
	}
	return paths, nil
}

// ExistingSealed reports whether any share file for indices 1..n already exists in dir.
func ExistingSealed(dir string, n int) (string, bool) {
	for i := 1; i <= n; i++ {
		path := filepath.Join(dir, SealedFileName(uint64(i))) //nolint:gosec // i is positive
		if _, err := os.Stat(path); err == nil {
			return path, true
		}
	}
	return "", false
}
