package config

import (
	"fmt"
	"os"
	"path/filepath"
)

// Well-known file names inside the docker/ template directory.
const (
	composeDefaultFile = "docker-compose.default.yml"
	composeCustomFile  = "docker-compose.custom.yml"
	packagesDefault    = "packages.default.yml"
	packagesCustom     = "packages.custom.yml"
	packagesMerged     = "packages.yml"
	envFile            = ".env"
)

// Dir is a devcontainer template directory. The files the tools operate
// on live in its docker/ subdirectory.
type Dir struct {
	Root string
}

// NewDir returns a Dir rooted at the given devcontainer directory.
func NewDir(root string) Dir {
	return Dir{Root: root}
}

// DockerDir returns the docker/ subdirectory path.
func (d Dir) DockerDir() string {
	return filepath.Join(d.Root, "docker")
}

// ComposeDefault returns the required compose template path.
func (d Dir) ComposeDefault() string {
	return filepath.Join(d.DockerDir(), composeDefaultFile)
}

// ComposeCustom returns the optional compose override path.
func (d Dir) ComposeCustom() string {
	return filepath.Join(d.DockerDir(), composeCustomFile)
}

// PackagesDefault returns the required package document path.
func (d Dir) PackagesDefault() string {
	return filepath.Join(d.DockerDir(), packagesDefault)
}

// PackagesCustom returns the optional package override path.
func (d Dir) PackagesCustom() string {
	return filepath.Join(d.DockerDir(), packagesCustom)
}

// PackagesMerged returns the merged output document path.
func (d Dir) PackagesMerged() string {
	return filepath.Join(d.DockerDir(), packagesMerged)
}

// EnvFile returns the generated .env path.
func (d Dir) EnvFile() string {
	return filepath.Join(d.DockerDir(), envFile)
}

// Check verifies the template directory exists and is a directory.
func (d Dir) Check() error {
	fi, err := os.Stat(d.DockerDir())
	if err != nil {
		return fmt.Errorf("%w: directory not found: %s", ErrMissingTemplateFile, d.DockerDir())
	}
	if !fi.IsDir() {
		return fmt.Errorf("%w: not a directory: %s", ErrMissingTemplateFile, d.DockerDir())
	}
	return nil
}

// WriteEnv writes the generated build arguments the same way the merged
// document is written: atomically, so compose never reads a torn file.
func (d Dir) WriteEnv(data []byte) error {
	return writeFileAtomic(d.EnvFile(), data, 0o644)
}

// ClearOutputs removes generated artifacts from previous runs. Outputs
// are regenerated on every run; removing them first guarantees a failed
// run leaves nothing stale behind for compose to consume.
func (d Dir) ClearOutputs() error {
	for _, path := range []string{d.PackagesMerged(), d.EnvFile()} {
		if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("removing %s: %w", path, err)
		}
	}
	return nil
}
