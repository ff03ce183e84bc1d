// Package gitinfo answers the git questions the devcontainer tools ask:
// where the enclosing work tree is, and whether the in-container git
// configuration trusts it.
package gitinfo

import (
	"bytes"
	"fmt"
	"os"
	"strings"

	git "github.com/go-git/go-git/v5"
	format "github.com/go-git/go-git/v5/plumbing/format/config"
)

// RepoRoot returns the work-tree root of the repository containing dir,
// walking upward the way git itself does.
func RepoRoot(dir string) (string, error) {
	repo, err := git.PlainOpenWithOptions(dir, &git.PlainOpenOptions{DetectDotGit: true})
	if err != nil {
		return "", fmt.Errorf("opening repository from %s: %w", dir, err)
	}
	wt, err := repo.Worktree()
	if err != nil {
		return "", fmt.Errorf("resolving work tree: %w", err)
	}
	return wt.Filesystem.Root(), nil
}

// EnsureSafeDirectory marks root as a trusted work tree in the git
// configuration file at path, creating the file when absent. The write
// only happens when no matching safe.directory entry exists, so
// repeated runs leave the file byte-identical. Returns true when the
// file was modified.
//
// Bind-mounted work trees are owned by the host user, which git's
// dubious-ownership protection rejects inside the container without
// this entry.
func EnsureSafeDirectory(path, root string) (bool, error) {
	cfg := format.New()

	data, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return false, fmt.Errorf("reading %s: %w", path, err)
	}
	if len(data) > 0 {
		if err := format.NewDecoder(bytes.NewReader(data)).Decode(cfg); err != nil {
			return false, fmt.Errorf("parsing %s: %w", path, err)
		}
	}

	safe := cfg.Section("safe")
	for _, opt := range safe.Options {
		if !strings.EqualFold(opt.Key, "directory") {
			continue
		}
		if opt.Value == root || opt.Value == "*" {
			return false, nil
		}
	}

	safe.AddOption("directory", root)

	var buf bytes.Buffer
	if err := format.NewEncoder(&buf).Encode(cfg); err != nil {
		return false, fmt.Errorf("encoding %s: %w", path, err)
	}
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return false, fmt.Errorf("writing %s: %w", path, err)
	}
	return true, nil
}
