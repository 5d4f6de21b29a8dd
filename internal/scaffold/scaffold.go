// Package scaffold creates a project root: directories, metadata and
// rendered documents, in a fixed order of stages.
//
// # Stages
//
//	Init → IdentifierResolved → LayoutCreated → MetadataWritten → DocumentsRendered → Done
//
// Any failure stops the run and returns an *Error naming the last stage
// reached. The project root is claimed with an exclusive mkdir, so two
// concurrent runs for the same identifier cannot both succeed.
//
// Partial results are left on disk unless Options.Rollback is set.
package scaffold

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/raphi011/folio/internal/identifier"
	"github.com/raphi011/folio/internal/layout"
	"github.com/raphi011/folio/internal/log"
	"github.com/raphi011/folio/internal/render"
	"github.com/raphi011/folio/internal/schema"
	"github.com/raphi011/folio/internal/storage"
	"github.com/raphi011/folio/internal/templates"
)

// Stage is a step of the creation run.
type Stage int

const (
	StageInit Stage = iota
	StageIdentifierResolved
	StageLayoutCreated
	StageMetadataWritten
	StageDocumentsRendered
	StageDone
)

func (s Stage) String() string {
	switch s {
	case StageInit:
		return "init"
	case StageIdentifierResolved:
		return "identifier-resolved"
	case StageLayoutCreated:
		return "layout-created"
	case StageMetadataWritten:
		return "metadata-written"
	case StageDocumentsRendered:
		return "documents-rendered"
	case StageDone:
		return "done"
	}
	return "stage(" + strconv.Itoa(int(s)) + ")"
}

// Options configure a Scaffolder.
type Options struct {
	// ProjectsDir is the directory project roots are created in.
	ProjectsDir string
	// Templates is the template source. Nil means the built-in set.
	Templates fs.FS
	// Layout is the directory tree and document plan.
	Layout layout.Layout
	// SchemaVersion of the written metadata. Empty means schema.Latest.
	SchemaVersion string
	// KeepFiles adds a .keep file to every layout directory.
	KeepFiles bool
	// Rollback removes the project root if a later stage fails.
	Rollback bool
	// Now returns the current time. Defaults to time.Now.
	Now func() time.Time
	// NewID returns the record id for 2.0.0 metadata. Defaults to a random UUID.
	NewID func() string
}

// Scaffolder creates projects under a fixed projects directory.
type Scaffolder struct {
	opts Options
}

// New validates opts and returns a Scaffolder.
func New(opts Options) (*Scaffolder, error) {
	if opts.ProjectsDir == "" {
		return nil, errors.New("projects dir is required")
	}
	if opts.Templates == nil {
		opts.Templates = templates.FS
	}
	if opts.Layout.Name == "" && len(opts.Layout.Dirs) == 0 {
		l, err := layout.Get(layout.Default)
		if err != nil {
			return nil, err
		}
		opts.Layout = l
	}
	if err := opts.Layout.Validate(); err != nil {
		return nil, fmt.Errorf("layout %s: %w", opts.Layout.Name, err)
	}
	if opts.SchemaVersion == "" {
		opts.SchemaVersion = schema.Latest
	}
	if _, ok := schema.Lookup(opts.SchemaVersion); !ok {
		return nil, fmt.Errorf("unknown schema version %q (available: %s)",
			opts.SchemaVersion, strings.Join(schema.Versions(), ", "))
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.NewID == nil {
		opts.NewID = uuid.NewString
	}
	return &Scaffolder{opts: opts}, nil
}

// Params describe the project to create.
type Params struct {
	Title        string
	Organization string
	WorkType     string
	// Year is the four-digit year. Derived from Date or the clock when empty.
	Year string
	// Date (YYYY-MM-DD) replaces the year in the identifier when set.
	Date       string
	DueDate    string
	Owner      string
	Role       string
	Status     string
	Notes      string
	Tags       []string
	Categories []string
	Skills     []string
	Tools      []string
	Highlights []string
	Links      map[string]string
	NDA        bool
}

// Summary describes a created project.
type Summary struct {
	ID           string        `json:"id"`
	Root         string        `json:"root"`
	MetadataPath string        `json:"metadataPath"`
	Dirs         []string      `json:"dirs"`
	Files        []string      `json:"files"`
	Record       schema.Record `json:"metadata"`
}

// run carries the state of one Create call.
type run struct {
	s     *Scaffolder
	stage Stage
	now   time.Time

	params Params
	id     string
	root   string
	// claimed is set once this run created the project root.
	claimed bool

	summary Summary
}

func (r *run) fail(kind error, path string, err error) *Error {
	return &Error{Stage: r.stage, Kind: kind, Path: path, Err: err}
}

func (r *run) checkContext(ctx context.Context) *Error {
	if err := ctx.Err(); err != nil {
		return r.fail(ErrCanceled, "", err)
	}
	return nil
}

// Create runs every stage for p. On failure the returned error is an *Error.
func (s *Scaffolder) Create(ctx context.Context, p Params) (*Summary, error) {
	l := log.FromContext(ctx)
	r := &run{s: s, now: s.opts.Now().UTC(), params: p}

	steps := []func(context.Context) *Error{
		r.resolveIdentifier,
		r.createLayout,
		r.writeMetadata,
		r.renderDocuments,
	}
	for _, step := range steps {
		if err := r.checkContext(ctx); err != nil {
			return nil, r.abort(ctx, err)
		}
		if err := step(ctx); err != nil {
			return nil, r.abort(ctx, err)
		}
		r.stage++
		l.Debug("scaffold stage reached", "stage", r.stage, "id", r.id)
	}
	r.stage = StageDone
	return &r.summary, nil
}

// abort applies opt-in rollback and returns err.
func (r *run) abort(ctx context.Context, err *Error) error {
	if !r.s.opts.Rollback || !r.claimed {
		return err
	}
	if rmErr := os.RemoveAll(r.root); rmErr != nil {
		log.FromContext(ctx).Warnf("rollback of %s failed: %v", r.root, rmErr)
		return err
	}
	err.RolledBack = true
	return err
}

// resolveIdentifier validates the inputs and computes the project root.
// Nothing is written.
func (r *run) resolveIdentifier(context.Context) *Error {
	p := &r.params
	p.Title = strings.TrimSpace(p.Title)
	p.Organization = strings.TrimSpace(p.Organization)
	p.WorkType = strings.ToLower(strings.TrimSpace(p.WorkType))
	p.Year = strings.TrimSpace(p.Year)
	p.Date = strings.TrimSpace(p.Date)
	p.DueDate = strings.TrimSpace(p.DueDate)
	p.Status = strings.TrimSpace(p.Status)

	if err := r.checkParams(); err != nil {
		return r.fail(ErrInvalidInput, "", err)
	}

	r.id = identifier.Build(p.Title, p.Organization, p.Year, p.Date)
	if err := identifier.Validate(r.id); err != nil {
		return r.fail(ErrInvalidInput, "", err)
	}
	r.root = filepath.Join(r.s.opts.ProjectsDir, r.id)

	if _, err := os.Lstat(r.root); err == nil {
		return r.fail(ErrAlreadyExists, r.root, fs.ErrExist)
	} else if !errors.Is(err, fs.ErrNotExist) {
		return r.fail(ErrIO, r.root, err)
	}

	// The year recorded in metadata is always set, even when the
	// identifier carries none.
	if p.Year == "" {
		if p.Date != "" {
			p.Year = p.Date[:4]
		} else {
			p.Year = strconv.Itoa(r.now.Year())
		}
	}

	r.summary.ID = r.id
	r.summary.Root = r.root
	return nil
}

func (r *run) checkParams() error {
	p := r.params
	var errs []error
	if p.Title == "" {
		errs = append(errs, errors.New("title is required"))
	}
	if err := identifier.ValidateYear(p.Year); err != nil {
		errs = append(errs, err)
	}
	if err := identifier.ValidateDate(p.Date); err != nil {
		errs = append(errs, err)
	} else if p.Year != "" && p.Date != "" && p.Year != p.Date[:4] {
		// The identifier uses the date, the record uses the year.
		errs = append(errs, fmt.Errorf("year %s does not match date %s", p.Year, p.Date))
	}
	if err := identifier.ValidateDate(p.DueDate); err != nil {
		errs = append(errs, fmt.Errorf("due date: %w", err))
	}

	// 1.0.0 records carry these as free-form strings.
	if r.s.opts.SchemaVersion == schema.V1 {
		return errors.Join(errs...)
	}
	if !slices.Contains(schema.WorkTypes, p.WorkType) {
		errs = append(errs, fmt.Errorf("invalid work type %q: must be one of %s",
			p.WorkType, strings.Join(schema.WorkTypes[1:], ", ")))
	}
	if p.Status != "" && !slices.Contains(schema.Statuses, p.Status) {
		errs = append(errs, fmt.Errorf("invalid status %q: must be one of %s",
			p.Status, strings.Join(schema.Statuses, ", ")))
	}
	for k := range p.Links {
		if !slices.Contains(schema.LinkKeys, k) {
			errs = append(errs, fmt.Errorf("invalid link %q: must be one of %s",
				k, strings.Join(schema.LinkKeys, ", ")))
		}
	}
	return errors.Join(errs...)
}

// createLayout claims the project root and creates every layout directory.
func (r *run) createLayout(context.Context) *Error {
	if err := os.MkdirAll(r.s.opts.ProjectsDir, 0o755); err != nil {
		return r.fail(ErrIO, r.s.opts.ProjectsDir, err)
	}

	// Exclusive create: losing a race to another run is AlreadyExists.
	if err := os.Mkdir(r.root, 0o755); err != nil {
		if errors.Is(err, fs.ErrExist) {
			return r.fail(ErrAlreadyExists, r.root, err)
		}
		return r.fail(ErrIO, r.root, err)
	}
	r.claimed = true

	dirs, err := r.s.opts.Layout.EnsureDirs(r.root, r.s.opts.KeepFiles)
	if err != nil {
		return r.fail(ErrIO, r.root, err)
	}
	r.summary.Dirs = dirs
	return nil
}

// writeMetadata builds, validates and writes the metadata record.
func (r *run) writeMetadata(context.Context) *Error {
	p := r.params
	in := schema.Inputs{
		Title:        p.Title,
		Organization: p.Organization,
		WorkType:     p.WorkType,
		Year:         p.Year,
		Owner:        p.Owner,
		Role:         p.Role,
		Status:       p.Status,
		DueDate:      p.DueDate,
		Notes:        p.Notes,
		Categories:   p.Categories,
		Skills:       p.Skills,
		Tools:        p.Tools,
		Tags:         p.Tags,
		Highlights:   p.Highlights,
		Links:        p.Links,
		NDA:          p.NDA,
		Now:          r.now,
	}
	if r.s.opts.SchemaVersion != schema.V1 {
		in.ID = r.s.opts.NewID()
	}

	path := filepath.Join(r.root, schema.FileName)

	rec, err := schema.DefaultRecord(r.s.opts.SchemaVersion, in)
	if err != nil {
		return r.fail(ErrInvalidSchema, path, err)
	}
	if violations := schema.Validate(rec); len(violations) > 0 {
		errs := make([]error, len(violations))
		for i, v := range violations {
			errs[i] = errors.New(v.String())
		}
		return r.fail(ErrInvalidSchema, path, errors.Join(errs...))
	}

	data, err := schema.Marshal(rec)
	if err != nil {
		return r.fail(ErrInvalidSchema, path, err)
	}
	if err := storage.WriteFile(path, data, 0o644); err != nil {
		return r.fail(ErrIO, path, err)
	}

	r.summary.MetadataPath = path
	r.summary.Record = rec
	r.summary.Files = append(r.summary.Files, path)
	return nil
}

// renderDocuments writes every document of the layout that applies to
// the work type. Documents already written stay when a later one fails.
func (r *run) renderDocuments(ctx context.Context) *Error {
	rctx := r.renderContext()
	fsys := r.s.opts.Templates

	for _, doc := range r.s.opts.Layout.Documents {
		if !doc.AppliesTo(r.params.WorkType) {
			continue
		}
		if err := r.checkContext(ctx); err != nil {
			return err
		}

		var content []byte
		switch {
		case doc.Template == "":
			content = []byte(render.Render(doc.Content, rctx))
		case doc.Static:
			src, err := render.Load(fsys, doc.Template)
			if err != nil {
				return r.fail(ErrTemplateRead, doc.Template, err)
			}
			content = []byte(src)
		default:
			out, err := render.File(fsys, doc.Template, rctx)
			if err != nil {
				return r.fail(ErrTemplateRead, doc.Template, err)
			}
			content = []byte(out)
		}

		dst := filepath.Join(r.root, filepath.FromSlash(doc.Path))
		if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
			return r.fail(ErrIO, dst, err)
		}
		if err := storage.WriteFile(dst, content, 0o644); err != nil {
			return r.fail(ErrIO, dst, err)
		}
		r.summary.Files = append(r.summary.Files, dst)
	}
	return nil
}

// renderContext exposes the metadata inputs to templates. "client" and
// "type" are kept as aliases used by older template sets.
func (r *run) renderContext() render.Context {
	p := r.params
	rec := r.summary.Record

	date := p.Date
	if date == "" {
		date = r.now.Format(identifier.DateLayout)
	}
	status := p.Status
	if status == "" {
		status = schema.DefaultStatus
	}

	return render.Context{
		"id":             r.id,
		"identifier":     r.id,
		"uuid":           rec.String("id"),
		"title":          p.Title,
		"organization":   p.Organization,
		"client":         p.Organization,
		"work_type":      p.WorkType,
		"type":           p.WorkType,
		"year":           p.Year,
		"date":           date,
		"due_date":       p.DueDate,
		"owner":          p.Owner,
		"role":           p.Role,
		"status":         status,
		"notes":          p.Notes,
		"tags":           strings.Join(schema.CleanList(p.Tags), ", "),
		"schema_version": rec.Version(),
		"created_at":     r.now.Format(schema.TimestampLayout),
	}
}
