package hostcheck

import (
	"context"

	"github.com/sofmeright/dockhand/src/gitinfo"
)

// GitRepoCheck reports whether the workspace sits inside a git work
// tree. The root it finds feeds GIT_REPO_ROOT in the generated
// environment; a missing repository only warns.
type GitRepoCheck struct {
	Dir string
}

// Name implements Check.
func (c *GitRepoCheck) Name() string { return "git" }

// Run implements Check.
func (c *GitRepoCheck) Run(ctx context.Context) []Result {
	root, err := gitinfo.RepoRoot(c.Dir)
	if err != nil {
		return []Result{warn("git", "not inside a git repository")}
	}
	return []Result{pass("git", "%s", root)}
}
