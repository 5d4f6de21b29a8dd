package layout

import (
	"os"
	"path/filepath"
	"reflect"
	"sort"
	"testing"
)

func listDirs(t *testing.T, root string) []string {
	t.Helper()
	var dirs []string
	err := filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() && path != root {
			rel, _ := filepath.Rel(root, path)
			dirs = append(dirs, filepath.ToSlash(rel))
		}
		return nil
	})
	if err != nil {
		t.Fatalf("walk %s: %v", root, err)
	}
	sort.Strings(dirs)
	return dirs
}

func TestGet(t *testing.T) {
	t.Parallel()

	l, err := Get("")
	if err != nil {
		t.Fatalf("Get(\"\") error: %v", err)
	}
	if l.Name != Default {
		t.Errorf("Get(\"\").Name = %q, want %q", l.Name, Default)
	}

	if _, err := Get("nope"); err == nil {
		t.Error("expected error for unknown layout")
	}

	if got, want := Names(), []string{Production, Standard}; !reflect.DeepEqual(got, want) {
		t.Errorf("Names() = %v, want %v", got, want)
	}
}

func TestPresetsValid(t *testing.T) {
	t.Parallel()

	for _, name := range Names() {
		l, _ := Get(name)
		if err := l.Validate(); err != nil {
			t.Errorf("preset %s invalid: %v", name, err)
		}
	}
}

func TestValidate_RejectsEscapingPaths(t *testing.T) {
	t.Parallel()

	l := Layout{
		Dirs:      []string{"ok", "../outside", "/abs"},
		Documents: []Document{{Path: ""}},
	}
	if err := l.Validate(); err == nil {
		t.Fatal("expected validation error")
	}
}

func TestEnsureDirs_Idempotent(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	l, _ := Get(Production)

	first, err := l.EnsureDirs(root, false)
	if err != nil {
		t.Fatalf("first EnsureDirs: %v", err)
	}
	before := listDirs(t, root)

	second, err := l.EnsureDirs(root, false)
	if err != nil {
		t.Fatalf("second EnsureDirs: %v", err)
	}
	if !reflect.DeepEqual(first, second) {
		t.Errorf("EnsureDirs results differ between runs")
	}
	if after := listDirs(t, root); !reflect.DeepEqual(before, after) {
		t.Errorf("directory set changed on second run:\nbefore %v\nafter  %v", before, after)
	}
}

func TestEnsureDirs_CompletesPartialLayout(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	l, _ := Get(Standard)

	// Simulate an interrupted earlier run: only some directories exist.
	for _, d := range l.Dirs[:3] {
		if err := os.MkdirAll(filepath.Join(root, d), 0o755); err != nil {
			t.Fatal(err)
		}
	}
	marker := filepath.Join(root, l.Dirs[0], "notes.txt")
	if err := os.WriteFile(marker, []byte("keep me"), 0o644); err != nil {
		t.Fatal(err)
	}

	if _, err := l.EnsureDirs(root, false); err != nil {
		t.Fatalf("EnsureDirs over partial layout: %v", err)
	}

	for _, d := range l.Dirs {
		info, err := os.Stat(filepath.Join(root, d))
		if err != nil || !info.IsDir() {
			t.Errorf("expected directory %s", d)
		}
	}
	if data, err := os.ReadFile(marker); err != nil || string(data) != "keep me" {
		t.Error("existing content must not be touched")
	}
}

func TestEnsureDirs_KeepFiles(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	l := Layout{Dirs: []string{"a", "b/c"}}

	if _, err := l.EnsureDirs(root, true); err != nil {
		t.Fatalf("EnsureDirs: %v", err)
	}
	existing := filepath.Join(root, "a", KeepFile)
	if err := os.WriteFile(existing, []byte("custom"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := l.EnsureDirs(root, true); err != nil {
		t.Fatalf("EnsureDirs rerun: %v", err)
	}

	for _, d := range l.Dirs {
		if _, err := os.Stat(filepath.Join(root, d, KeepFile)); err != nil {
			t.Errorf("missing keep file in %s: %v", d, err)
		}
	}
	if data, _ := os.ReadFile(existing); string(data) != "custom" {
		t.Error("existing .keep must not be overwritten")
	}
}

func TestEnsureDirs_FailsOnFileInTheWay(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	if err := os.WriteFile(filepath.Join(root, "a"), []byte("file"), 0o644); err != nil {
		t.Fatal(err)
	}

	l := Layout{Dirs: []string{"a/b"}}
	if _, err := l.EnsureDirs(root, false); err == nil {
		t.Fatal("expected error when a file blocks a directory")
	}
}

func TestDocumentAppliesTo(t *testing.T) {
	t.Parallel()

	all := Document{Path: "README.md"}
	social := Document{Path: "plan.csv", WorkTypes: []string{"social", "motion"}}

	if !all.AppliesTo("print") {
		t.Error("unrestricted document should apply to any work type")
	}
	if !social.AppliesTo("Social") {
		t.Error("work type match should be case-insensitive")
	}
	if social.AppliesTo("print") {
		t.Error("social document should not apply to print")
	}
}
