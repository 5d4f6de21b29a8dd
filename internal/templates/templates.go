// Package templates ships the default document templates.
//
// The built-in set is used when no templates_dir is configured. Running
// `folio templates init <dir>` copies it out so it can be customised.
package templates

import (
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"

	"github.com/raphi011/folio/internal/storage"
)

//go:embed files
var embedded embed.FS

// FS is the built-in template set, rooted at the template names.
var FS fs.FS = mustSub(embedded, "files")

func mustSub(fsys fs.FS, dir string) fs.FS {
	sub, err := fs.Sub(fsys, dir)
	if err != nil {
		panic(err)
	}
	return sub
}

// Names returns the names of the built-in templates, sorted.
func Names() []string {
	var names []string
	_ = fs.WalkDir(FS, ".", func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			names = append(names, path)
		}
		return nil
	})
	slices.Sort(names)
	return names
}

// Dir returns the template source for dir, or the built-in set if dir is empty.
// A configured directory is used as-is with no fallback, so a missing file
// there surfaces as a read error.
func Dir(dir string) fs.FS {
	if dir == "" {
		return FS
	}
	return os.DirFS(dir)
}

// WriteTo copies the built-in templates into dir. Existing files are kept
// unless force is set. Returns the paths written.
func WriteTo(dir string, force bool) ([]string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create templates dir: %w", err)
	}

	var written []string
	for _, name := range Names() {
		dst := filepath.Join(dir, filepath.FromSlash(name))
		if !force {
			if _, err := os.Stat(dst); err == nil {
				continue
			} else if !errors.Is(err, fs.ErrNotExist) {
				return written, err
			}
		}

		data, err := fs.ReadFile(FS, name)
		if err != nil {
			return written, fmt.Errorf("read built-in %s: %w", name, err)
		}
		if err := storage.WriteFile(dst, data, 0o644); err != nil {
			return written, fmt.Errorf("write %s: %w", dst, err)
		}
		written = append(written, dst)
	}
	return written, nil
}
