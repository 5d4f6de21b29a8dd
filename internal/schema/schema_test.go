package schema

import (
	"encoding/json"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
	"time"
)

var fixedNow = time.Date(2024, 5, 6, 7, 8, 9, 0, time.UTC)

func v2Record(t *testing.T) Record {
	t.Helper()
	rec, err := DefaultRecord(V2, Inputs{
		ID:           "6f1c2f6e-3c1a-4d55-9f63-0a6b7d1c2e3f",
		Title:        "Acme Launch",
		Organization: "Acme Co",
		Year:         "2024",
		Now:          fixedNow,
	})
	if err != nil {
		t.Fatalf("DefaultRecord() error: %v", err)
	}
	return rec
}

// roundTrip encodes and decodes rec so tests see the on-disk shapes.
func roundTrip(t *testing.T, rec Record) Record {
	t.Helper()
	data, err := Marshal(rec)
	if err != nil {
		t.Fatalf("Marshal() error: %v", err)
	}
	out, err := Decode(data, ".json")
	if err != nil {
		t.Fatalf("Decode() error: %v", err)
	}
	return out
}

func kinds(vs []Violation) []ViolationKind {
	out := make([]ViolationKind, len(vs))
	for i, v := range vs {
		out[i] = v.Kind
	}
	return out
}

func TestDefaultRecord_V2(t *testing.T) {
	t.Parallel()

	rec := v2Record(t)

	if got := rec.String(VersionKey); got != V2 {
		t.Errorf("schemaVersion = %q, want %q", got, V2)
	}
	if got := rec.String("title"); got != "Acme Launch" {
		t.Errorf("title = %q", got)
	}
	if got := rec.String("organization"); got != "Acme Co" {
		t.Errorf("organization = %q", got)
	}
	if got := rec.String("status"); got != DefaultStatus {
		t.Errorf("status = %q, want %q", got, DefaultStatus)
	}
	if got := rec.String("createdAt"); got != "2024-05-06T07:08:09Z" {
		t.Errorf("createdAt = %q", got)
	}
	if rec.String("createdAt") != rec.String("updatedAt") {
		t.Error("createdAt and updatedAt should match at creation")
	}
	for _, key := range []string{"categories", "skills", "tools", "tags", "highlights"} {
		if got := rec.List(key); len(got) != 0 {
			t.Errorf("%s = %v, want empty", key, got)
		}
	}

	if vs := Validate(rec); len(vs) != 0 {
		t.Errorf("Validate(default v2) = %v, want none", vs)
	}
	if vs := Validate(roundTrip(t, rec)); len(vs) != 0 {
		t.Errorf("Validate(decoded v2) = %v, want none", vs)
	}
}

func TestDefaultRecord_V1(t *testing.T) {
	t.Parallel()

	rec, err := DefaultRecord(V1, Inputs{
		Title:        "Acme Launch",
		Organization: "Acme Co",
		WorkType:     "Branding",
		Tags:         []string{" a ", "", "b", "a"},
		Now:          fixedNow,
	})
	if err != nil {
		t.Fatalf("DefaultRecord() error: %v", err)
	}

	if got := rec.String("client"); got != "Acme Co" {
		t.Errorf("client = %q", got)
	}
	if got, want := rec.List("tags"), []string{"a", "b", "a"}; !reflect.DeepEqual(got, want) {
		t.Errorf("tags = %v, want %v", got, want)
	}
	if vs := Validate(roundTrip(t, rec)); len(vs) != 0 {
		t.Errorf("Validate(v1) = %v, want none", vs)
	}
}

func TestDefaultRecord_UnknownVersion(t *testing.T) {
	t.Parallel()

	if _, err := DefaultRecord("9.9.9", Inputs{Title: "x"}); err == nil {
		t.Error("expected error for unknown version")
	}
}

func TestValidate_VersionDispatch(t *testing.T) {
	t.Parallel()

	rec := roundTrip(t, v2Record(t))
	if vs := Validate(rec); len(vs) != 0 {
		t.Fatalf("v2 record should be valid under 2.0.0, got %v", vs)
	}

	// Same field set, declared as 1.0.0: evaluated with the 1.0.0 rules.
	rec[VersionKey] = V1
	vs := Validate(rec)
	if len(vs) == 0 {
		t.Fatal("v2 field set should not satisfy 1.0.0")
	}
	if vs[0].Kind != MisplacedVersion || vs[0].Key != VersionKey {
		t.Errorf("first violation = %v, want misplaced_version on %s", vs[0], VersionKey)
	}
	missing := map[string]bool{}
	for _, v := range vs {
		if v.Kind == MissingKey {
			missing[v.Key] = true
		}
	}
	if missing[LegacyVersionKey] {
		t.Errorf("misplaced version should not also report %s missing: %v", LegacyVersionKey, vs)
	}
	for _, key := range []string{"client", "type", "notes", "created_at"} {
		if !missing[key] {
			t.Errorf("expected missing key %q under 1.0.0, got %v", key, vs)
		}
	}

	// A 1.0.0 schema validated directly against the 2.0.0 rule set.
	v1, err := DefaultRecord(V1, Inputs{Title: "x", Now: fixedNow})
	if err != nil {
		t.Fatal(err)
	}
	s2, _ := Lookup(V2)
	if vs := s2.Validate(v1); len(vs) == 0 {
		t.Error("1.0.0 record should not satisfy 2.0.0 rules")
	}
}

func TestValidate_Violations(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		mutate func(Record)
		want   []ViolationKind
		key    string
	}{
		{"missing title", func(r Record) { delete(r, "title") }, []ViolationKind{MissingKey}, "title"},
		{"title wrong type", func(r Record) { r["title"] = 42.0 }, []ViolationKind{WrongType}, "title"},
		{"empty title", func(r Record) { r["title"] = "  " }, []ViolationKind{InvalidValue}, "title"},
		{"tags not a list", func(r Record) { r["tags"] = "a,b" }, []ViolationKind{WrongType}, "tags"},
		{"tag entry empty", func(r Record) { r["tags"] = []any{"ok", ""} }, []ViolationKind{InvalidValue}, "tags[1]"},
		{"tag entry untrimmed", func(r Record) { r["tags"] = []any{" ok"} }, []ViolationKind{InvalidValue}, "tags[0]"},
		{"tag entry wrong type", func(r Record) { r["tags"] = []any{true} }, []ViolationKind{WrongType}, "tags[0]"},
		{"year not four digits", func(r Record) { r["year"] = "24" }, []ViolationKind{InvalidValue}, "year"},
		{"status outside set", func(r Record) { r["status"] = "done" }, []ViolationKind{InvalidValue}, "status"},
		{"work type outside set", func(r Record) { r["workType"] = "sculpture" }, []ViolationKind{InvalidValue}, "workType"},
		{"bad timestamp", func(r Record) { r["createdAt"] = "yesterday" }, []ViolationKind{InvalidValue}, "createdAt"},
		{"unknown link key", func(r Record) { r["links"] = map[string]any{"blog": "x"} }, []ViolationKind{UnknownKey}, "links.blog"},
		{"link wrong type", func(r Record) { r["links"] = map[string]any{"live": 1.0} }, []ViolationKind{WrongType}, "links.live"},
		{"privacy missing nda", func(r Record) { r["privacy"] = map[string]any{} }, []ViolationKind{MissingKey}, "privacy.nda"},
		{"privacy nda wrong type", func(r Record) { r["privacy"] = map[string]any{"nda": "yes"} }, []ViolationKind{WrongType}, "privacy.nda"},
		{"extra top-level key allowed", func(r Record) { r["client_notes"] = "hi" }, nil, ""},
		{"partial links allowed", func(r Record) { r["links"] = map[string]any{"repo": "https://x"} }, nil, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			rec := roundTrip(t, v2Record(t))
			tt.mutate(rec)

			vs := Validate(rec)
			if got := kinds(vs); !reflect.DeepEqual(got, tt.want) && !(len(got) == 0 && len(tt.want) == 0) {
				t.Fatalf("Validate() kinds = %v, want %v (%v)", got, tt.want, vs)
			}
			if tt.key != "" && vs[0].Key != tt.key {
				t.Errorf("violation key = %q, want %q", vs[0].Key, tt.key)
			}
		})
	}
}

func TestValidate_VersionProblems(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		rec  Record
		want ViolationKind
	}{
		{"no version", Record{"title": "x"}, MissingVersion},
		{"version wrong type", Record{VersionKey: 2.0}, WrongType},
		{"unknown version", Record{VersionKey: "3.0.0"}, UnknownVersion},
		{"legacy key unknown version", Record{LegacyVersionKey: "0.1"}, UnknownVersion},
	}

	for _, tt := range tests {
		vs := Validate(tt.rec)
		if len(vs) != 1 || vs[0].Kind != tt.want {
			t.Errorf("%s: Validate() = %v, want single %s", tt.name, vs, tt.want)
		}
	}
}

func TestValidate_DoesNotMutate(t *testing.T) {
	t.Parallel()

	rec := roundTrip(t, v2Record(t))
	rec["tags"] = []any{"", " x "}
	before, _ := json.Marshal(rec)

	_ = Validate(rec)

	after, _ := json.Marshal(rec)
	if string(before) != string(after) {
		t.Errorf("Validate mutated record:\nbefore %s\nafter  %s", before, after)
	}
}

func TestMarshal_StableAndPretty(t *testing.T) {
	t.Parallel()

	rec := v2Record(t)
	a, err := Marshal(rec)
	if err != nil {
		t.Fatal(err)
	}
	b, _ := Marshal(rec)
	if string(a) != string(b) {
		t.Error("Marshal output not stable")
	}
	if !strings.HasSuffix(string(a), "\n") {
		t.Error("Marshal output should end with newline")
	}
	if !strings.Contains(string(a), "\n  \"categories\": []") {
		t.Errorf("expected indented empty list, got:\n%s", a)
	}
	if strings.Index(string(a), `"categories"`) > strings.Index(string(a), `"title"`) {
		t.Error("keys should be sorted")
	}
}

func TestValidateFile(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()

	valid, _ := Marshal(v2Record(t))
	jsonPath := filepath.Join(dir, FileName)
	if err := os.WriteFile(jsonPath, valid, 0o644); err != nil {
		t.Fatal(err)
	}
	vs, err := ValidateFile(jsonPath)
	if err != nil {
		t.Fatalf("ValidateFile(json) error: %v", err)
	}
	if len(vs) != 0 {
		t.Errorf("ValidateFile(json) = %v, want none", vs)
	}

	yamlPath := filepath.Join(dir, LegacyFileName)
	legacy := `schema_version: "1.0.0"
title: Old Project
client: Acme
type: print
year: "2019"
owner: sam
tags: [print, poster]
status: complete
notes: ""
created_at: "2019-01-01T00:00:00.000000Z"
`
	if err := os.WriteFile(yamlPath, []byte(legacy), 0o644); err != nil {
		t.Fatal(err)
	}
	vs, err = ValidateFile(yamlPath)
	if err != nil {
		t.Fatalf("ValidateFile(yaml) error: %v", err)
	}
	if len(vs) != 0 {
		t.Errorf("ValidateFile(yaml) = %v, want none", vs)
	}

	// The unversioned record of the oldest tool is reported, not rejected.
	unversioned := filepath.Join(dir, "old.yaml")
	if err := os.WriteFile(unversioned, []byte(`{"title": "x", "channels": []}`), 0o644); err != nil {
		t.Fatal(err)
	}
	vs, err = ValidateFile(unversioned)
	if err != nil {
		t.Fatalf("ValidateFile(unversioned) error: %v", err)
	}
	if len(vs) != 1 || vs[0].Kind != MissingVersion {
		t.Errorf("ValidateFile(unversioned) = %v, want missing_version", vs)
	}
}

func TestValidateFile_Errors(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()

	if _, err := ValidateFile(filepath.Join(dir, "nope.json")); !os.IsNotExist(err) {
		t.Errorf("expected not-exist error, got %v", err)
	}

	bad := filepath.Join(dir, "bad.json")
	if err := os.WriteFile(bad, []byte(`{not json`), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := ValidateFile(bad); err == nil {
		t.Error("expected parse error")
	}

	list := filepath.Join(dir, "list.json")
	if err := os.WriteFile(list, []byte(`[1,2]`), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := ValidateFile(list); err == nil {
		t.Error("expected error for non-object document")
	}
}

func TestVersions(t *testing.T) {
	t.Parallel()

	if got, want := Versions(), []string{V1, V2}; !reflect.DeepEqual(got, want) {
		t.Errorf("Versions() = %v, want %v", got, want)
	}
}

// firstToolRecord is the Meta.Project.yaml body the first tool wrote.
const firstToolRecord = `{"title": "Spring Campaign", "client": "Acme", "owner": "sam", "type": "social", "due_date": "", "status": "planning", "channels": [], "rights": [], "approvals": [], "deliverables": [], "tags": [], "repo_links": []}`

func TestValidateFile_FirstToolRecord(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		file string
		body string
		want []ViolationKind
		key  string
	}{
		{"complete record", LegacyFileName, firstToolRecord, nil, ""},
		{"lower-case file name", "meta.project.yaml", firstToolRecord, nil, ""},
		{
			"missing channels", LegacyFileName,
			strings.Replace(firstToolRecord, `"channels": [], `, "", 1),
			[]ViolationKind{MissingKey}, "channels",
		},
		{
			"channels not a list", LegacyFileName,
			strings.Replace(firstToolRecord, `"channels": []`, `"channels": "web"`, 1),
			[]ViolationKind{WrongType}, "channels",
		},
		{
			"owner not a string", LegacyFileName,
			strings.Replace(firstToolRecord, `"owner": "sam"`, `"owner": 7`, 1),
			[]ViolationKind{WrongType}, "owner",
		},
		{"other file name needs a version", "old.yaml", firstToolRecord, []ViolationKind{MissingVersion}, VersionKey},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			path := filepath.Join(t.TempDir(), tt.file)
			if err := os.WriteFile(path, []byte(tt.body), 0o644); err != nil {
				t.Fatal(err)
			}

			vs, err := ValidateFile(path)
			if err != nil {
				t.Fatalf("ValidateFile() error: %v", err)
			}
			if got := kinds(vs); !reflect.DeepEqual(got, tt.want) && !(len(got) == 0 && len(tt.want) == 0) {
				t.Fatalf("ValidateFile() kinds = %v, want %v (%v)", got, tt.want, vs)
			}
			if tt.key != "" && vs[0].Key != tt.key {
				t.Errorf("violation key = %q, want %q", vs[0].Key, tt.key)
			}
		})
	}
}

func TestValidateAs(t *testing.T) {
	t.Parallel()

	rec := Record{"title": "x"}
	if vs := ValidateAs(rec, "9.9.9"); len(vs) != 1 || vs[0].Kind != UnknownVersion {
		t.Errorf("ValidateAs(unknown fallback) = %v, want single unknown_version", vs)
	}
	vs := ValidateAs(rec, V0)
	if len(vs) == 0 || vs[0].Kind != MissingKey {
		t.Errorf("ValidateAs(V0) = %v, want missing keys", vs)
	}
	if _, ok := rec[VersionKey]; ok || len(rec) != 1 {
		t.Errorf("ValidateAs mutated record: %v", rec)
	}

	// A declared version wins over the fallback.
	declared := roundTrip(t, v2Record(t))
	if vs := ValidateAs(declared, V0); len(vs) != 0 {
		t.Errorf("ValidateAs(declared v2, V0) = %v, want none", vs)
	}
}

func TestValidate_MisplacedVersionKey(t *testing.T) {
	t.Parallel()

	v1, err := DefaultRecord(V1, Inputs{Title: "x", Now: fixedNow})
	if err != nil {
		t.Fatal(err)
	}
	v2 := v2Record(t)

	tests := []struct {
		name string
		rec  Record
		key  string
	}{
		{"1.0.0 under schemaVersion", moveKey(t, v1, LegacyVersionKey, VersionKey), VersionKey},
		{"2.0.0 under schema_version", moveKey(t, v2, VersionKey, LegacyVersionKey), LegacyVersionKey},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			vs := Validate(tt.rec)
			if got := kinds(vs); !reflect.DeepEqual(got, []ViolationKind{MisplacedVersion}) {
				t.Fatalf("Validate() = %v, want single misplaced_version", vs)
			}
			if vs[0].Key != tt.key {
				t.Errorf("violation key = %q, want %q", vs[0].Key, tt.key)
			}
		})
	}
}

// moveKey returns a copy of rec with the value at from stored under to.
func moveKey(t *testing.T, rec Record, from, to string) Record {
	t.Helper()
	out := roundTrip(t, rec)
	out[to] = out[from]
	delete(out, from)
	return out
}

func TestLookup_UndeclarableVersion(t *testing.T) {
	t.Parallel()

	if _, ok := Lookup(V0); ok {
		t.Errorf("Lookup(%s) should fail: it cannot be declared", V0)
	}
	if _, err := DefaultRecord(V0, Inputs{Title: "x"}); err == nil {
		t.Errorf("DefaultRecord(%s) should fail", V0)
	}
}

func TestFallbackVersion(t *testing.T) {
	t.Parallel()

	tests := []struct {
		path string
		want string
	}{
		{"Meta.Project.yaml", V0},
		{filepath.Join("dir", "meta.project.YAML"), V0},
		{"metadata.json", ""},
		{"old.yaml", ""},
		{"Meta.Project.yaml.bak", ""},
	}
	for _, tt := range tests {
		if got := FallbackVersion(tt.path); got != tt.want {
			t.Errorf("FallbackVersion(%q) = %q, want %q", tt.path, got, tt.want)
		}
	}
}
