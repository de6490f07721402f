// Package fileutil provides filesystem helpers for share and config files.
package fileutil

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// ErrEmptyPath indicates an empty file path was provided.
var ErrEmptyPath = errors.New("path is empty")

// WriteAtomic writes data to path with the given permissions so that readers
// see either the old content or the new content, never a partial file.
func WriteAtomic(path string, data []byte, perm os.FileMode) error {
	if path == "" {
		return ErrEmptyPath
	}

	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}

	tmpPath := tmp.Name()
	committed := false
	defer func() {
		if !committed {
			_ = tmp.Close()
			_ = os.Remove(tmpPath)
		}
	}()

	if err := tmp.Chmod(perm); err != nil {
		return fmt.Errorf("setting temp file permissions: %w", err)
	}

	if _, err := tmp.Write(data); err != nil {
		return fmt.Errorf("writing temp file: %w", err)
	}

	if err := tmp.Sync(); err != nil {
		return fmt.Errorf("syncing temp file: %w", err)
	}

	if err := tmp.Close(); err != nil {
		return fmt.Errorf("closing temp file: %w", err)
	}

	if err := os.Rename(tmpPath, path); err != nil { //nolint:gosec // G703: path is chosen by the operator
		_ = os.Remove(tmpPath)
		committed = true
		return fmt.Errorf("renaming temp file: %w", err)
	}
	committed = true

	syncDir(dir)
	return nil
}

// EnsureDir creates dir and its parents with perm if they do not exist.
func EnsureDir(dir string, perm os.FileMode) error {
	if dir == "" {
		return ErrEmptyPath
	}
	if err := os.MkdirAll(dir, perm); err != nil {
		return fmt.Errorf("creating directory %s: %w", dir, err)
	}
	return nil
}

// syncDir flushes a directory entry so a rename survives a crash. Best effort.
func syncDir(dir string) {
	d, err := os.Open(dir) //nolint:gosec // G304: dir is derived from the target path
	if err != nil {
		return
	}
	_ = d.Sync()
	_ = d.Close()
}
