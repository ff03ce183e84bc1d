// Package shellcfg sets up the in-container shell: readline behavior,
// a managed bash profile, git trust for the mounted work tree, and
// pre-commit hooks. Every step is idempotent — running the whole thing
// twice leaves every managed file byte-identical to running it once —
// and no step failure blocks the rest: the container must still come
// up with a degraded shell rather than not at all.
package shellcfg

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/sofmeright/dockhand/src/gitinfo"
	"github.com/sofmeright/dockhand/src/project"
)

// RunFunc executes an external command in dir. Tests substitute one to
// avoid spawning processes.
type RunFunc func(ctx context.Context, dir, bin string, args ...string) error

// Config points the steps at a home directory and the workspace.
type Config struct {
	Home    string
	WorkDir string
	Run     RunFunc // nil means exec via the real shell environment
}

// Result reports what one step did. Err is a warning, never fatal.
type Result struct {
	Name    string
	Changed bool
	Note    string
	Err     error
}

// Apply runs every configuration step in order and reports each one.
func Apply(ctx context.Context, cfg Config) []Result {
	return []Result{
		applyInputrc(cfg),
		applyProfile(cfg),
		applyEnable(cfg),
		applyGitTrust(cfg),
		applyPreCommit(ctx, cfg),
	}
}

// Changed reports whether any step modified a file.
func Changed(results []Result) bool {
	for _, r := range results {
		if r.Changed {
			return true
		}
	}
	return false
}

func applyInputrc(cfg Config) Result {
	changed, err := writeIfDifferent(filepath.Join(cfg.Home, ".inputrc"), []byte(inputrcContent))
	return Result{Name: "readline", Changed: changed, Err: err}
}

func applyProfile(cfg Config) Result {
	// The profile points HISTFILE here; create it before the first
	// interactive shell does.
	if err := os.MkdirAll(filepath.Join(cfg.Home, ".local", "share", "bash"), 0o755); err != nil {
		return Result{Name: "profile", Err: err}
	}
	changed, err := writeIfDifferent(filepath.Join(cfg.Home, ".vscode_profile"), []byte(profileContent))
	return Result{Name: "profile", Changed: changed, Err: err}
}

func applyEnable(cfg Config) Result {
	bashrc := filepath.Join(cfg.Home, ".bashrc")
	current, err := os.ReadFile(bashrc)
	if err != nil && !os.IsNotExist(err) {
		return Result{Name: "bashrc", Err: err}
	}
	if strings.Contains(string(current), ".vscode_profile") {
		return Result{Name: "bashrc", Note: "profile already enabled"}
	}
	f, err := os.OpenFile(bashrc, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return Result{Name: "bashrc", Err: err}
	}
	_, werr := f.WriteString(enableLine)
	if cerr := f.Close(); werr == nil {
		werr = cerr
	}
	return Result{Name: "bashrc", Changed: werr == nil, Err: werr}
}

func applyGitTrust(cfg Config) Result {
	root, err := gitinfo.RepoRoot(cfg.WorkDir)
	if err != nil {
		return Result{Name: "git trust", Note: "not inside a git repository"}
	}
	changed, err := gitinfo.EnsureSafeDirectory(filepath.Join(cfg.Home, ".gitconfig"), root)
	if err != nil {
		return Result{Name: "git trust", Err: err}
	}
	note := "already trusted"
	if changed {
		note = "trusted " + root
	}
	return Result{Name: "git trust", Changed: changed, Note: note}
}

func applyPreCommit(ctx context.Context, cfg Config) Result {
	root, err := gitinfo.RepoRoot(cfg.WorkDir)
	if err != nil {
		return Result{Name: "pre-commit", Note: "not inside a git repository"}
	}
	if _, err := os.Stat(filepath.Join(root, project.PreCommitConfig)); err != nil {
		return Result{Name: "pre-commit", Note: "no " + project.PreCommitConfig}
	}
	run := cfg.Run
	if run == nil {
		run = execRun
	}
	if err := run(ctx, root, "pre-commit", "install"); err != nil {
		return Result{Name: "pre-commit", Err: fmt.Errorf("installing hooks: %w", err)}
	}
	return Result{Name: "pre-commit", Changed: true, Note: "hooks installed"}
}

func execRun(ctx context.Context, dir, bin string, args ...string) error {
	cmd := exec.CommandContext(ctx, bin, args...)
	cmd.Dir = dir
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		if line := firstLine(stderr.String()); line != "" {
			return fmt.Errorf("%s: %w: %s", bin, err, line)
		}
		return fmt.Errorf("%s: %w", bin, err)
	}
	return nil
}

func firstLine(s string) string {
	s = strings.TrimSpace(s)
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		s = s[:i]
	}
	return s
}
