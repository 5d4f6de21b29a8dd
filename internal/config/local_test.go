package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeLocal(t *testing.T, dir, content string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, LocalConfigFileName), []byte(content), 0o644); err != nil {
		t.Fatalf("write file: %v", err)
	}
}

func TestLoadLocal_NoFile(t *testing.T) {
	t.Parallel()

	local, err := LoadLocal(t.TempDir())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if local != nil {
		t.Fatalf("expected nil, got %+v", local)
	}
}

func TestLoadLocal_EmptyFile(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeLocal(t, dir, "")

	local, err := LoadLocal(dir)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if local == nil {
		t.Fatal("expected non-nil local config for empty file")
	}
}

func TestLoadLocal_AllFields(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeLocal(t, dir, `
templates_dir = "_templates"
layout = "production"
schema_version = "1.0.0"
keep_files = true

[hooks.commit]
command = "git -C {path} add ."
description = "Stage new project"
on = ["new"]

[hooks.editor]
enabled = false
`)

	local, err := LoadLocal(dir)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if local.TemplatesDir != filepath.Join(dir, "_templates") {
		t.Errorf("TemplatesDir = %q, want resolved against %s", local.TemplatesDir, dir)
	}
	if local.Layout != "production" {
		t.Errorf("Layout = %q", local.Layout)
	}
	if local.SchemaVersion != "1.0.0" {
		t.Errorf("SchemaVersion = %q", local.SchemaVersion)
	}
	if local.KeepFiles == nil || !*local.KeepFiles {
		t.Errorf("KeepFiles = %v, want true", local.KeepFiles)
	}
	if local.Hooks.Hooks["commit"].Command != "git -C {path} add ." {
		t.Errorf("commit hook = %+v", local.Hooks.Hooks["commit"])
	}
	if local.Hooks.Hooks["editor"].IsEnabled() {
		t.Error("editor hook should be disabled")
	}
}

func TestLoadLocal_AbsoluteTemplatesDir(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeLocal(t, dir, `templates_dir = "/srv/templates"`)

	local, err := LoadLocal(dir)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if local.TemplatesDir != "/srv/templates" {
		t.Errorf("TemplatesDir = %q, want unchanged absolute path", local.TemplatesDir)
	}
}

func TestLoadLocal_Invalid(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		content string
		wantErr string
	}{
		{"invalid layout", `layout = "tiny"`, "invalid layout"},
		{"invalid schema", `schema_version = "0.1"`, "invalid schema_version"},
		{"invalid hook trigger", "[hooks.x]\ncommand = \"true\"\non = [\"prune\"]", "invalid hooks.x.on"},
		{"invalid toml", `[invalid toml`, "failed to parse local config"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			dir := t.TempDir()
			writeLocal(t, dir, tt.content)

			_, err := LoadLocal(dir)
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("error = %q, want to contain %q", err, tt.wantErr)
			}
		})
	}
}
