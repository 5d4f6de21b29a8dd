package scaffold

import (
	"errors"
	"fmt"
	"strings"
)

// Error kinds. Match with errors.Is.
var (
	// ErrAlreadyExists means the project root for the identifier is taken.
	// Nothing was written by the failed call.
	ErrAlreadyExists = errors.New("project already exists")
	// ErrIO means a directory or file could not be created or written.
	ErrIO = errors.New("i/o error")
	// ErrInvalidSchema means the generated metadata failed its own schema.
	ErrInvalidSchema = errors.New("invalid metadata")
	// ErrTemplateRead means a configured template could not be loaded.
	ErrTemplateRead = errors.New("template read error")
	// ErrInvalidInput means the request was rejected before any work.
	ErrInvalidInput = errors.New("invalid input")
	// ErrCanceled means the context ended between stages.
	ErrCanceled = errors.New("canceled")
)

// Error is returned by Create when a stage transition fails.
type Error struct {
	// Stage is the last stage completed before the failure.
	Stage Stage
	// Kind is one of the Err* sentinels.
	Kind error
	// Path is the file or directory involved, if any.
	Path string
	// Err is the underlying cause.
	Err error
	// RolledBack is set when the project root was removed after the failure.
	RolledBack bool
}

func (e *Error) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%v after stage %s", e.Kind, e.Stage)
	if e.Path != "" {
		fmt.Fprintf(&b, " (%s)", e.Path)
	}
	if e.Err != nil {
		fmt.Fprintf(&b, ": %v", e.Err)
	}
	if e.RolledBack {
		b.WriteString(" [rolled back]")
	}
	return b.String()
}

// Unwrap exposes both the kind and the cause to errors.Is and errors.As.
func (e *Error) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Err}
}
