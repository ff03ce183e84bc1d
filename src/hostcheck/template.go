package hostcheck

import (
	"context"
	"fmt"
	"os"

	"github.com/sofmeright/dockhand/src/config"
)

// TemplateCheck verifies the devcontainer template directory and its
// required files exist, without parsing them. Used by doctor runs,
// where nothing downstream would surface a missing file.
type TemplateCheck struct {
	Dir config.Dir
}

func (c *TemplateCheck) Name() string { return "template" }

func (c *TemplateCheck) Run(_ context.Context) []Result {
	if err := c.Dir.Check(); err != nil {
		return []Result{fail("template", err)}
	}
	var results []Result
	for _, path := range []string{c.Dir.ComposeDefault(), c.Dir.PackagesDefault()} {
		if _, err := os.Stat(path); err != nil {
			results = append(results, fail("template",
				fmt.Errorf("%w: %s", config.ErrMissingTemplateFile, path)))
		}
	}
	if len(results) == 0 {
		results = append(results, pass("template", "required files present"))
	}
	return results
}
