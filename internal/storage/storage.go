// Package storage provides atomic file writes for project documents.
package storage

import (
	"os"
	"path/filepath"
)

// WriteFile atomically writes data to path.
// It writes to a temp file in the same directory, then renames it over
// path, so readers never observe a half-written file. The parent
// directory must exist.
func WriteFile(path string, data []byte, perm os.FileMode) error {
	f, err := os.CreateTemp(filepath.Dir(path), ".folio-tmp-*")
	if err != nil {
		return err
	}
	tmp := f.Name()

	success := false
	defer func() {
		if !success {
			os.Remove(tmp)
		}
	}()

	if _, err := f.Write(data); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	if err := os.Chmod(tmp, perm); err != nil {
		return err
	}
	if err := os.Rename(tmp, path); err != nil {
		return err
	}

	success = true
	return nil
}
