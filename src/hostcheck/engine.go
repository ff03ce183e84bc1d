package hostcheck

import (
	"context"
	"fmt"

	"github.com/sofmeright/dockhand/src/engine"
)

// EngineCheck verifies the container engine is installed, the daemon
// responds, it runs Linux containers, and its release is recent enough.
type EngineCheck struct {
	Engine engine.Engine
}

// Name implements Check.
func (c *EngineCheck) Name() string { return "engine" }

// Run implements Check. The engine and mode results are required; the
// minimum-version gate only warns.
func (c *EngineCheck) Run(ctx context.Context) []Result {
	banner, err := c.Engine.ClientVersion(ctx)
	if err != nil {
		return []Result{fail("engine", err)}
	}

	info, err := c.Engine.Info(ctx)
	if err != nil {
		return []Result{fail("engine", err)}
	}

	results := []Result{pass("engine", "%s", banner)}

	if info.OSType != "linux" {
		results = append(results, fail("mode",
			fmt.Errorf("%w: daemon reports %q containers", engine.ErrWrongContainerMode, info.OSType)))
	} else {
		results = append(results, pass("mode", "linux containers"))
	}

	version := info.ServerVersion
	if version == "" {
		version = banner
	}
	ok, detected, err := engine.MeetsMinimum(version)
	switch {
	case err != nil:
		results = append(results, warn("engine", "could not determine engine version: %v", err))
	case !ok:
		results = append(results, warn("engine", "engine %s is older than the supported minimum %s",
			detected, engine.MinSupportedVersion))
	}

	return results
}
