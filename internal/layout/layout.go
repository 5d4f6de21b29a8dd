// Package layout defines the directory trees and document plans created
// under a project root.
package layout

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
)

// Preset names.
const (
	Standard   = "standard"
	Production = "production"

	// Default is used when no layout is configured.
	Default = Standard
)

// KeepFile marks otherwise empty directories so they survive version control.
const KeepFile = ".keep"

// Document is one file written into a project root.
type Document struct {
	// Path is relative to the project root.
	Path string
	// Template names a file in the templates source. Empty means Content
	// is written as-is.
	Template string
	// Static copies the template bytes verbatim instead of rendering them.
	Static bool
	// Content is the inline body used when Template is empty.
	Content string
	// WorkTypes restricts the document to these work types; empty means all.
	WorkTypes []string
}

// AppliesTo reports whether the document is wanted for workType.
func (d Document) AppliesTo(workType string) bool {
	if len(d.WorkTypes) == 0 {
		return true
	}
	return slices.Contains(d.WorkTypes, strings.ToLower(workType))
}

// Layout is an ordered set of subdirectories plus the documents placed in them.
type Layout struct {
	Name      string
	Dirs      []string
	Documents []Document
}

var presets = map[string]Layout{
	Standard: {
		Name: Standard,
		Dirs: []string{
			"01_Brief",
			"02_Research",
			"03_Design",
			"04_Source",
			"05_Media/Photos",
			"05_Media/Video",
			"05_Media/Audio",
			"06_Exports",
			"07_Deliverables",
			"99_Archive",
		},
		Documents: []Document{
			{Path: "README.md", Template: "README.md"},
			{Path: "01_Brief/brief.md", Template: "brief.md"},
			{Path: "01_Brief/checklist.md", Template: "checklist.md"},
			{Path: "CHANGELOG.md", Template: "changelog.md"},
			{Path: "07_Deliverables/Credits.Rights.md", Template: "Credits.Rights.md", Static: true},
		},
	},
	Production: {
		Name: Production,
		Dirs: []string{
			"01_brief",
			"02_research",
			"03_design/print",
			"03_design/social",
			"03_design/large_format",
			"03_design/vehicle_wrap",
			"03_design/motion",
			"03_design/ivr",
			"03_design/web",
			"03_design/app",
			"04_assets/raw_photo",
			"04_assets/raw_video",
			"04_assets/audio",
			"04_assets/gfx",
			"04_assets/fonts",
			"05_edit/video_projects",
			"05_edit/motion_projects",
			"06_exports/print_ready",
			"06_exports/social_ready",
			"06_exports/video_masters",
			"06_exports/thumbnails",
			"06_exports/deliverables",
			"07_docs/approvals",
			"07_docs/rights",
			"08_archive",
		},
		Documents: []Document{
			{Path: "README.md", Template: "README.md"},
			{Path: "01_brief/Brief.md", Template: "brief.md"},
			{Path: "07_docs/Checklist.Release.md", Template: "checklist.md"},
			{Path: "07_docs/QA.Checks.md", Template: "qa.md"},
			{Path: "07_docs/changelog.md", Template: "changelog.md"},
			{Path: "07_docs/rights/Credits.Rights.md", Template: "Credits.Rights.md", Static: true},
			{Path: "04_assets/fonts/README.md", Content: "Do not commit licensed font files. Reference licenses externally.\n"},
			{Path: "03_design/social/SocialPlan.csv", Template: "SocialPlan.csv", Static: true, WorkTypes: []string{"social", "motion"}},
		},
	},
}

// Names returns the preset names, sorted.
func Names() []string {
	names := make([]string, 0, len(presets))
	for name := range presets {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// Get returns the named preset. An empty name selects Default.
func Get(name string) (Layout, error) {
	if name == "" {
		name = Default
	}
	l, ok := presets[name]
	if !ok {
		return Layout{}, fmt.Errorf("unknown layout %q (available: %s)", name, strings.Join(Names(), ", "))
	}
	return l, nil
}

// Validate checks that every directory and document path is relative and
// stays inside the project root.
func (l Layout) Validate() error {
	var errs []error
	for _, d := range l.Dirs {
		if err := checkRelative(d); err != nil {
			errs = append(errs, fmt.Errorf("dir %q: %w", d, err))
		}
	}
	for _, doc := range l.Documents {
		if err := checkRelative(doc.Path); err != nil {
			errs = append(errs, fmt.Errorf("document %q: %w", doc.Path, err))
		}
	}
	return errors.Join(errs...)
}

func checkRelative(p string) error {
	if p == "" {
		return errors.New("empty path")
	}
	if filepath.IsAbs(p) {
		return errors.New("must be relative")
	}
	if !filepath.IsLocal(filepath.FromSlash(p)) {
		return errors.New("escapes the project root")
	}
	return nil
}

// EnsureDirs creates every layout directory under root if missing.
// Existing directories are left alone, so repeated calls are no-ops.
// When keep is set an empty .keep file is added to each directory that
// lacks one. Returns the absolute paths of directories in layout order.
func (l Layout) EnsureDirs(root string, keep bool) ([]string, error) {
	dirs := make([]string, 0, len(l.Dirs))
	for _, d := range l.Dirs {
		abs := filepath.Join(root, filepath.FromSlash(d))
		if err := os.MkdirAll(abs, 0o755); err != nil {
			return dirs, fmt.Errorf("create %s: %w", d, err)
		}
		dirs = append(dirs, abs)

		if !keep {
			continue
		}
		keepPath := filepath.Join(abs, KeepFile)
		f, err := os.OpenFile(keepPath, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o644)
		switch {
		case err == nil:
			f.Close()
		case errors.Is(err, os.ErrExist):
		default:
			return dirs, fmt.Errorf("create %s: %w", keepPath, err)
		}
	}
	return dirs, nil
}
