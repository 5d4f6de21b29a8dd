package doctor

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/raphi011/folio/internal/index"
	"github.com/raphi011/folio/internal/schema"
)

// project is a folder found directly under the projects directory.
type project struct {
	id     string
	path   string
	record schema.Record // nil when metadata is missing or unreadable
	valid  bool
}

// scanProjects lists project folders under dir. Dot folders are skipped.
func scanProjects(dir string) ([]project, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("read projects dir: %w", err)
	}

	var projects []project
	for _, e := range entries {
		if !e.IsDir() || strings.HasPrefix(e.Name(), ".") {
			continue
		}
		projects = append(projects, project{id: e.Name(), path: filepath.Join(dir, e.Name())})
	}
	return projects, nil
}

// checkMetadata validates each project's metadata.json and records the
// parsed record on the project.
func checkMetadata(ctx context.Context, projects []project) []Issue {
	var issues []Issue

	for i := range projects {
		if ctx.Err() != nil {
			break
		}
		p := &projects[i]
		file := filepath.Join(p.path, schema.FileName)

		rec, err := schema.ReadFile(file)
		if err != nil {
			desc := fmt.Sprintf("unreadable %s: %v", schema.FileName, err)
			if errors.Is(err, os.ErrNotExist) {
				desc = "missing " + schema.FileName
			}
			issues = append(issues, Issue{Key: p.id, Path: p.path, Description: desc})
			continue
		}
		p.record = rec

		violations := schema.Validate(rec)
		if len(violations) > 0 {
			msgs := make([]string, len(violations))
			for j, v := range violations {
				msgs[j] = v.String()
			}
			issues = append(issues, Issue{
				Key:         p.id,
				Path:        p.path,
				Description: fmt.Sprintf("%d schema violation(s): %s", len(violations), strings.Join(msgs, "; ")),
			})
			continue
		}
		p.valid = true
	}

	return issues
}

// checkIndex finds catalog entries whose folder is gone or has moved
// within the projects directory.
func checkIndex(entries []index.Entry, projectsDir string) []Issue {
	var issues []Issue

	for _, e := range entries {
		if _, err := os.Stat(e.Path); err == nil {
			continue
		}

		expected := filepath.Join(projectsDir, e.ID)
		if expected != e.Path {
			if _, err := os.Stat(expected); err == nil {
				issues = append(issues, Issue{
					Key:         e.ID,
					Path:        expected,
					Description: fmt.Sprintf("path mismatch: indexed %s, actual %s", e.Path, expected),
					FixAction:   FixUpdatePath,
				})
				continue
			}
		}

		issues = append(issues, Issue{
			Key:         e.ID,
			Path:        e.Path,
			Description: fmt.Sprintf("folder no longer exists: %s", e.Path),
			FixAction:   FixRemoveEntry,
		})
	}

	return issues
}

// checkOrphans finds valid projects on disk that the catalog doesn't know.
func checkOrphans(projects []project, entries []index.Entry) []Issue {
	var issues []Issue

	for _, p := range projects {
		if !p.valid {
			continue
		}
		known := slices.ContainsFunc(entries, func(e index.Entry) bool { return e.ID == p.id })
		if known {
			continue
		}
		issues = append(issues, Issue{
			Key:         p.id,
			Path:        p.path,
			Description: "not in index",
			FixAction:   FixAddEntry,
		})
	}

	return issues
}
