// Package project inspects the workspace a devcontainer wraps: which
// toolchains its marker files indicate and what the Python project
// metadata says, for the context block of init and doctor runs.
package project

import (
	"fmt"
	"os"
	"path/filepath"

	toml "github.com/pelletier/go-toml/v2"
)

// PreCommitConfig is the hook configuration pre-commit looks for at the
// repository root.
const PreCommitConfig = ".pre-commit-config.yaml"

// Workspace holds everything discovered about the enclosing project.
type Workspace struct {
	RootDir   string         // directory that was scanned
	Language  string         // "python", "go", "rust", "node", "ruby", ""
	Markers   []string       // indicator files found at the root
	Python    *PythonProject // pyproject.toml metadata when present
	PreCommit bool           // .pre-commit-config.yaml present
}

// PythonProject is the subset of pyproject.toml the tools care about.
type PythonProject struct {
	Name           string
	RequiresPython string
}

// languageIndicators maps marker filenames to detected language.
var languageIndicators = map[string]string{
	"go.mod":            "go",
	"go.sum":            "go",
	"Cargo.toml":        "rust",
	"Cargo.lock":        "rust",
	"package.json":      "node",
	"package-lock.json": "node",
	"yarn.lock":         "node",
	"pnpm-lock.yaml":    "node",
	"requirements.txt":  "python",
	"Pipfile":           "python",
	"pyproject.toml":    "python",
	"poetry.lock":       "python",
	"Gemfile":           "ruby",
}

// Inspect scans dir for toolchain markers. It never fails: an
// unreadable directory yields an empty Workspace, and a broken
// pyproject.toml is simply ignored (the result is informational).
func Inspect(dir string) *Workspace {
	ws := &Workspace{RootDir: dir}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return ws
	}
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		if lang, ok := languageIndicators[name]; ok {
			ws.Markers = append(ws.Markers, name)
			if ws.Language == "" {
				ws.Language = lang
			}
		}
	}

	if py, err := ReadPyProject(filepath.Join(dir, "pyproject.toml")); err == nil {
		ws.Python = py
	}
	if _, err := os.Stat(filepath.Join(dir, PreCommitConfig)); err == nil {
		ws.PreCommit = true
	}

	return ws
}

// ReadPyProject parses the project metadata from a pyproject.toml,
// falling back to the poetry tool table for the name.
func ReadPyProject(path string) (*PythonProject, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var doc struct {
		Project struct {
			Name           string `toml:"name"`
			RequiresPython string `toml:"requires-python"`
		} `toml:"project"`
		Tool struct {
			Poetry struct {
				Name string `toml:"name"`
			} `toml:"poetry"`
		} `toml:"tool"`
	}
	if err := toml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}

	py := &PythonProject{
		Name:           doc.Project.Name,
		RequiresPython: doc.Project.RequiresPython,
	}
	if py.Name == "" {
		py.Name = doc.Tool.Poetry.Name
	}
	return py, nil
}

// Summary returns a short human description for context blocks.
func (w *Workspace) Summary() string {
	if w.Language == "" {
		return "no toolchain markers"
	}
	if w.Python != nil && w.Python.Name != "" {
		return fmt.Sprintf("%s (%s)", w.Language, w.Python.Name)
	}
	return w.Language
}
