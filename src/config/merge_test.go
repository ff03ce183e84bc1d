package config

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"gopkg.in/yaml.v3"
)

const defaultPackagesYAML = `# Default package set
image_name: ubuntu
image_tag: "24.04"

base:
  packages:
    - git
    - curl
  python_tools:
    - pipx

devenv:
  packages:
    - build-essential
`

func writeTempFile(t *testing.T, name, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write file: %v", err)
	}
	return path
}

func parseDoc(t *testing.T, name, content string) *Document {
	t.Helper()

	doc, err := parseDocument(name, []byte(content))
	if err != nil {
		t.Fatalf("parse %s: %v", name, err)
	}
	return doc
}

func marshalDoc(t *testing.T, doc *Document) []byte {
	t.Helper()

	data, err := doc.Marshal()
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	return data
}

// mergedPackages decodes a merged document into a plain struct for
// value assertions.
type mergedPackages struct {
	ImageName string `yaml:"image_name"`
	ImageTag  string `yaml:"image_tag"`
	Base      struct {
		Packages    []string `yaml:"packages"`
		PythonTools []string `yaml:"python_tools"`
	} `yaml:"base"`
	Devenv struct {
		Packages    []string `yaml:"packages"`
		PythonTools []string `yaml:"python_tools"`
	} `yaml:"devenv"`
}

func decodeMerged(t *testing.T, doc *Document) mergedPackages {
	t.Helper()

	var out mergedPackages
	if err := yaml.Unmarshal(marshalDoc(t, doc), &out); err != nil {
		t.Fatalf("decode merged: %v", err)
	}
	return out
}

func TestMerge_EmptyCustomYieldsDefault(t *testing.T) {
	def := parseDoc(t, "packages.default.yml", defaultPackagesYAML)
	want := marshalDoc(t, def)

	for _, custom := range []*Document{
		nil,
		parseDoc(t, "packages.custom.yml", ""),
		parseDoc(t, "packages.custom.yml", "# only a comment\n"),
	} {
		merged, err := Merge(def, custom)
		if err != nil {
			t.Fatalf("Merge with empty custom: %v", err)
		}
		if got := marshalDoc(t, merged); !bytes.Equal(got, want) {
			t.Fatalf("merge with empty custom changed the document:\nwant:\n%s\ngot:\n%s", want, got)
		}
	}
}

func TestMerge_OverrideWins(t *testing.T) {
	def := parseDoc(t, "packages.default.yml", defaultPackagesYAML)
	custom := parseDoc(t, "packages.custom.yml", "image_tag: \"25.04\"\n")

	merged, err := Merge(def, custom)
	if err != nil {
		t.Fatalf("Merge: %v", err)
	}

	got := decodeMerged(t, merged)
	if got.ImageTag != "25.04" {
		t.Fatalf("expected custom image_tag to win, got %q", got.ImageTag)
	}
	if got.ImageName != "ubuntu" {
		t.Fatalf("expected untouched image_name to survive, got %q", got.ImageName)
	}
}

func TestMerge_AppendConcatenatesPreservingOrder(t *testing.T) {
	def := parseDoc(t, "packages.default.yml", defaultPackagesYAML)
	custom := parseDoc(t, "packages.custom.yml", `
base:
  packages:
    - vim
    - git
devenv:
  python_tools:
    - ruff
`)

	merged, err := Merge(def, custom)
	if err != nil {
		t.Fatalf("Merge: %v", err)
	}

	got := decodeMerged(t, merged)

	// Default elements first, custom appended after, duplicates kept.
	wantBase := []string{"git", "curl", "vim", "git"}
	if strings.Join(got.Base.Packages, ",") != strings.Join(wantBase, ",") {
		t.Fatalf("base.packages order: want %v, got %v", wantBase, got.Base.Packages)
	}
	if strings.Join(got.Devenv.Packages, ",") != "build-essential" {
		t.Fatalf("devenv.packages should be untouched, got %v", got.Devenv.Packages)
	}
	if strings.Join(got.Devenv.PythonTools, ",") != "ruff" {
		t.Fatalf("devenv.python_tools: want [ruff], got %v", got.Devenv.PythonTools)
	}
}

func TestMerge_RepeatedMergeIsStable(t *testing.T) {
	def := parseDoc(t, "packages.default.yml", defaultPackagesYAML)
	custom := parseDoc(t, "packages.custom.yml", `
image_name: debian
base:
  packages:
    - vim
`)

	first, err := Merge(def, custom)
	if err != nil {
		t.Fatalf("first Merge: %v", err)
	}
	second, err := Merge(def, custom)
	if err != nil {
		t.Fatalf("second Merge: %v", err)
	}

	if !bytes.Equal(marshalDoc(t, first), marshalDoc(t, second)) {
		t.Fatalf("merging the same inputs twice produced different output")
	}
}

func TestMerge_DoesNotModifyInputs(t *testing.T) {
	def := parseDoc(t, "packages.default.yml", defaultPackagesYAML)
	custom := parseDoc(t, "packages.custom.yml", "base:\n  packages:\n    - vim\n")

	defBefore := marshalDoc(t, def)
	customBefore := marshalDoc(t, custom)

	if _, err := Merge(def, custom); err != nil {
		t.Fatalf("Merge: %v", err)
	}

	if !bytes.Equal(marshalDoc(t, def), defBefore) {
		t.Fatalf("Merge modified the default document")
	}
	if !bytes.Equal(marshalDoc(t, custom), customBefore) {
		t.Fatalf("Merge modified the custom document")
	}
}

func TestMerge_TypeConflictOnAppendKey(t *testing.T) {
	def := parseDoc(t, "packages.default.yml", defaultPackagesYAML)

	// Scalar where a sequence is required.
	custom := parseDoc(t, "packages.custom.yml", "base:\n  packages: vim\n")
	if _, err := Merge(def, custom); !errors.Is(err, ErrSchemaViolation) {
		t.Fatalf("expected ErrSchemaViolation for scalar base.packages, got %v", err)
	}

	// Sequence where a section mapping is required.
	custom = parseDoc(t, "packages.custom.yml", "base:\n  - vim\n")
	if _, err := Merge(def, custom); !errors.Is(err, ErrSchemaViolation) {
		t.Fatalf("expected ErrSchemaViolation for sequence base section, got %v", err)
	}
}

func TestMerge_AppendOntoNonSequenceDefault(t *testing.T) {
	def := parseDoc(t, "packages.default.yml", `
image_name: ubuntu
image_tag: "24.04"
base:
  packages: broken
`)
	custom := parseDoc(t, "packages.custom.yml", "base:\n  packages:\n    - vim\n")

	if _, err := Merge(def, custom); !errors.Is(err, ErrSchemaViolation) {
		t.Fatalf("expected ErrSchemaViolation when default side is not a sequence, got %v", err)
	}
}

func TestMerge_WrongTypedOverrideFailsValidation(t *testing.T) {
	def := parseDoc(t, "packages.default.yml", defaultPackagesYAML)
	custom := parseDoc(t, "packages.custom.yml", "image_name:\n  - not\n  - a\n  - string\n")

	// The override arm replaces nodes wholesale; the conflict surfaces
	// when the merged result is validated, not during the merge.
	merged, err := Merge(def, custom)
	if err != nil {
		t.Fatalf("Merge: %v", err)
	}
	_, err = ValidatePackages(merged)
	if !errors.Is(err, ErrSchemaViolation) {
		t.Fatalf("expected ErrSchemaViolation for a sequence image_name, got %v", err)
	}
	if !strings.Contains(err.Error(), "image_name") {
		t.Fatalf("expected the violation to name image_name, got %v", err)
	}
}

func TestMerge_SectionOnlyInCustom(t *testing.T) {
	def := parseDoc(t, "packages.default.yml", `
image_name: ubuntu
image_tag: "24.04"
base:
  packages:
    - git
`)
	custom := parseDoc(t, "packages.custom.yml", `
devenv:
  packages:
    - gdb
`)

	merged, err := Merge(def, custom)
	if err != nil {
		t.Fatalf("Merge: %v", err)
	}
	got := decodeMerged(t, merged)
	if strings.Join(got.Devenv.Packages, ",") != "gdb" {
		t.Fatalf("expected custom-only devenv section to appear, got %v", got.Devenv.Packages)
	}
}

func TestMerge_UntabledKeyOverridesWholesale(t *testing.T) {
	def := parseDoc(t, "packages.default.yml", defaultPackagesYAML+`
labels:
  team: infra
  tier: dev
`)
	custom := parseDoc(t, "packages.custom.yml", `
labels:
  team: platform
`)

	merged, err := Merge(def, custom)
	if err != nil {
		t.Fatalf("Merge: %v", err)
	}

	var got struct {
		Labels map[string]string `yaml:"labels"`
	}
	if err := yaml.Unmarshal(marshalDoc(t, merged), &got); err != nil {
		t.Fatalf("decode: %v", err)
	}

	// Not a tabled section: custom replaces the whole mapping.
	if got.Labels["team"] != "platform" {
		t.Fatalf("expected custom labels.team, got %q", got.Labels["team"])
	}
	if _, ok := got.Labels["tier"]; ok {
		t.Fatalf("expected wholesale override to drop default-only labels.tier, got %v", got.Labels)
	}
}

func TestMerge_PreservesDefaultKeyOrderAndComments(t *testing.T) {
	def := parseDoc(t, "packages.default.yml", defaultPackagesYAML)
	custom := parseDoc(t, "packages.custom.yml", "image_tag: \"25.04\"\n")

	merged, err := Merge(def, custom)
	if err != nil {
		t.Fatalf("Merge: %v", err)
	}

	out := string(marshalDoc(t, merged))
	if !strings.Contains(out, "# Default package set") {
		t.Fatalf("expected default document comment to survive the merge:\n%s", out)
	}

	nameIdx := strings.Index(out, "image_name:")
	tagIdx := strings.Index(out, "image_tag:")
	baseIdx := strings.Index(out, "base:")
	devenvIdx := strings.Index(out, "devenv:")
	if nameIdx < 0 || tagIdx < 0 || baseIdx < 0 || devenvIdx < 0 {
		t.Fatalf("merged output is missing expected keys:\n%s", out)
	}
	if !(nameIdx < tagIdx && tagIdx < baseIdx && baseIdx < devenvIdx) {
		t.Fatalf("expected default key order to be preserved:\n%s", out)
	}
}
