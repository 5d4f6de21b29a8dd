package templates

import (
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"

	"github.com/raphi011/folio/internal/layout"
	"github.com/raphi011/folio/internal/render"
)

func TestNames(t *testing.T) {
	t.Parallel()

	names := Names()
	want := []string{"Credits.Rights.md", "README.md", "SocialPlan.csv", "brief.md", "changelog.md", "checklist.md", "qa.md"}
	if !slices.Equal(names, want) {
		t.Errorf("Names() = %v, want %v", names, want)
	}
}

// Every document in every preset must resolve against the built-in set.
func TestLayoutTemplatesExist(t *testing.T) {
	t.Parallel()

	for _, name := range layout.Names() {
		l, err := layout.Get(name)
		if err != nil {
			t.Fatal(err)
		}
		for _, doc := range l.Documents {
			if doc.Template == "" {
				continue
			}
			if _, err := render.Load(FS, doc.Template); err != nil {
				t.Errorf("layout %s: %s: %v", name, doc.Path, err)
			}
		}
	}
}

func TestBriefRendersTitle(t *testing.T) {
	t.Parallel()

	out, err := render.File(FS, "brief.md", render.Context{"title": "Spring Campaign"})
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(out, "# Spring Campaign\n") {
		t.Errorf("brief.md starts with %q", strings.SplitN(out, "\n", 2)[0])
	}
}

func TestStaticTemplatesHaveNoPlaceholders(t *testing.T) {
	t.Parallel()

	for _, name := range []string{"Credits.Rights.md", "SocialPlan.csv"} {
		src, err := fs.ReadFile(FS, name)
		if err != nil {
			t.Fatal(err)
		}
		if p := render.Placeholders(string(src)); len(p) > 0 {
			t.Errorf("%s contains placeholders %v", name, p)
		}
	}
}

func TestDir(t *testing.T) {
	t.Parallel()

	if Dir("") != FS {
		t.Error("Dir(\"\") should return the built-in set")
	}

	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "brief.md"), []byte("custom {{title}}"), 0o644); err != nil {
		t.Fatal(err)
	}
	out, err := render.File(Dir(dir), "brief.md", render.Context{"title": "X"})
	if err != nil {
		t.Fatal(err)
	}
	if out != "custom X" {
		t.Errorf("render from dir = %q", out)
	}
	if _, err := render.Load(Dir(dir), "README.md"); err == nil {
		t.Error("configured dir should not fall back to built-in templates")
	}
}

func TestWriteTo(t *testing.T) {
	t.Parallel()

	dir := filepath.Join(t.TempDir(), "templates")
	written, err := WriteTo(dir, false)
	if err != nil {
		t.Fatalf("WriteTo() error = %v", err)
	}
	if len(written) != len(Names()) {
		t.Errorf("WriteTo() wrote %d files, want %d", len(written), len(Names()))
	}

	custom := filepath.Join(dir, "brief.md")
	if err := os.WriteFile(custom, []byte("mine"), 0o644); err != nil {
		t.Fatal(err)
	}

	written, err = WriteTo(dir, false)
	if err != nil {
		t.Fatal(err)
	}
	if len(written) != 0 {
		t.Errorf("second WriteTo() wrote %v, want nothing", written)
	}
	if data, _ := os.ReadFile(custom); string(data) != "mine" {
		t.Errorf("customised template overwritten: %q", data)
	}

	if _, err := WriteTo(dir, true); err != nil {
		t.Fatal(err)
	}
	if data, _ := os.ReadFile(custom); string(data) == "mine" {
		t.Error("force should overwrite customised template")
	}
}
