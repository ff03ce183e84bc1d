package config

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestLoadDocument_MissingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "packages.default.yml")

	_, err := LoadDocument(path)
	if !errors.Is(err, ErrMissingTemplateFile) {
		t.Fatalf("expected ErrMissingTemplateFile, got %v", err)
	}
	if !strings.Contains(err.Error(), path) {
		t.Fatalf("expected error to name the missing file, got %q", err)
	}
}

func TestLoadDocument_MalformedYAML(t *testing.T) {
	path := writeTempFile(t, "bad.yml", "image_name: [unclosed\n")

	_, err := LoadDocument(path)
	if !errors.Is(err, ErrConfigParse) {
		t.Fatalf("expected ErrConfigParse, got %v", err)
	}
	// yaml.v3 reports the offending line; the wrapper must keep it.
	if !strings.Contains(err.Error(), "line") {
		t.Fatalf("expected parse error to carry line information, got %q", err)
	}
}

func TestLoadDocumentIfExists_AbsentIsNil(t *testing.T) {
	doc, err := LoadDocumentIfExists(filepath.Join(t.TempDir(), "packages.custom.yml"))
	if err != nil {
		t.Fatalf("expected absent optional document to be nil, got error %v", err)
	}
	if doc != nil {
		t.Fatalf("expected nil document, got %#v", doc)
	}
}

func TestDocument_EmptyForms(t *testing.T) {
	for _, content := range []string{"", "# comment only\n", "null\n", "---\n"} {
		doc := parseDoc(t, "empty.yml", content)
		if !doc.IsEmpty() {
			t.Fatalf("expected %q to be an empty document", content)
		}
		m, err := doc.Mapping()
		if err != nil || m != nil {
			t.Fatalf("expected empty document Mapping() = (nil, nil), got (%v, %v)", m, err)
		}
	}
}

func TestDocument_NonMappingRoot(t *testing.T) {
	doc := parseDoc(t, "seq.yml", "- a\n- b\n")

	_, err := doc.Mapping()
	if !errors.Is(err, ErrSchemaViolation) {
		t.Fatalf("expected ErrSchemaViolation for sequence root, got %v", err)
	}
}

func TestDocument_SaveAtomic(t *testing.T) {
	dir := t.TempDir()
	doc := parseDoc(t, "packages.yml", defaultPackagesYAML)

	out := filepath.Join(dir, "packages.yml")
	if err := doc.Save(out); err != nil {
		t.Fatalf("Save: %v", err)
	}

	data, err := os.ReadFile(out)
	if err != nil {
		t.Fatalf("read back: %v", err)
	}
	if want := marshalDoc(t, doc); !bytes.Equal(data, want) {
		t.Fatalf("saved bytes differ from marshaled document")
	}

	// No temp droppings left next to the output.
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("readdir: %v", err)
	}
	if len(entries) != 1 {
		names := make([]string, 0, len(entries))
		for _, e := range entries {
			names = append(names, e.Name())
		}
		t.Fatalf("expected only the output file in %s, got %v", dir, names)
	}
}

func TestDir_PathsAndCheck(t *testing.T) {
	root := t.TempDir()
	d := NewDir(root)

	if err := d.Check(); !errors.Is(err, ErrMissingTemplateFile) {
		t.Fatalf("expected ErrMissingTemplateFile without docker/, got %v", err)
	}

	if err := os.MkdirAll(d.DockerDir(), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := d.Check(); err != nil {
		t.Fatalf("Check with docker/ present: %v", err)
	}

	if got := d.PackagesMerged(); got != filepath.Join(root, "docker", "packages.yml") {
		t.Fatalf("unexpected merged path %q", got)
	}
	if got := d.EnvFile(); got != filepath.Join(root, "docker", ".env") {
		t.Fatalf("unexpected env path %q", got)
	}
}

func TestDir_ClearOutputs(t *testing.T) {
	d := NewDir(t.TempDir())
	if err := os.MkdirAll(d.DockerDir(), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}

	// Absent outputs are fine.
	if err := d.ClearOutputs(); err != nil {
		t.Fatalf("ClearOutputs on empty dir: %v", err)
	}

	for _, p := range []string{d.PackagesMerged(), d.EnvFile()} {
		if err := os.WriteFile(p, []byte("stale\n"), 0o644); err != nil {
			t.Fatalf("write stale output: %v", err)
		}
	}
	if err := d.ClearOutputs(); err != nil {
		t.Fatalf("ClearOutputs: %v", err)
	}
	for _, p := range []string{d.PackagesMerged(), d.EnvFile()} {
		if _, err := os.Stat(p); !os.IsNotExist(err) {
			t.Fatalf("expected %s to be removed, stat err %v", p, err)
		}
	}
}
