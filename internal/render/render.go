// Package render substitutes {{placeholder}} markers in template text.
//
// Supported markers:
//   - {{key}}           - replaced with the context value, or "" when unset
//   - {{key:-default}}  - replaced with the context value, or default when unset
//
// Whitespace inside the braces is ignored. Single braces are literal text.
// No escaping is applied: substitution is plain text.
package render

import (
	"fmt"
	"io/fs"
	"regexp"
	"sort"
)

// Context maps placeholder names to replacement values.
type Context map[string]string

// placeholderRegex matches {{key}} and {{key:-default}}.
var placeholderRegex = regexp.MustCompile(`\{\{\s*([A-Za-z_][A-Za-z0-9_.-]*)\s*(?::-([^}]*))?\}\}`)

// Render replaces every placeholder in src with its context value.
// Unresolved placeholders render as their default, or empty string.
func Render(src string, ctx Context) string {
	return placeholderRegex.ReplaceAllStringFunc(src, func(match string) string {
		sub := placeholderRegex.FindStringSubmatch(match)
		if sub == nil {
			return match
		}
		if val, ok := ctx[sub[1]]; ok {
			return val
		}
		return sub[2]
	})
}

// Placeholders returns the sorted, de-duplicated placeholder names in src.
func Placeholders(src string) []string {
	seen := make(map[string]bool)
	var names []string
	for _, sub := range placeholderRegex.FindAllStringSubmatch(src, -1) {
		if !seen[sub[1]] {
			seen[sub[1]] = true
			names = append(names, sub[1])
		}
	}
	sort.Strings(names)
	return names
}

// ReadError reports a template that could not be loaded.
type ReadError struct {
	Name string
	Err  error
}

func (e *ReadError) Error() string {
	return fmt.Sprintf("read template %s: %v", e.Name, e.Err)
}

func (e *ReadError) Unwrap() error {
	return e.Err
}

// Load reads a template from fsys.
func Load(fsys fs.FS, name string) (string, error) {
	if fsys == nil {
		return "", &ReadError{Name: name, Err: fs.ErrInvalid}
	}
	data, err := fs.ReadFile(fsys, name)
	if err != nil {
		return "", &ReadError{Name: name, Err: err}
	}
	return string(data), nil
}

// File loads the named template from fsys and renders it.
func File(fsys fs.FS, name string, ctx Context) (string, error) {
	src, err := Load(fsys, name)
	if err != nil {
		return "", err
	}
	return Render(src, ctx), nil
}
