package hostcheck

import "github.com/sofmeright/dockhand/src/engine"

// Defaults returns the standard host checks in report order: engine
// facts first (they gate everything downstream), then platform probes,
// then workspace context.
func Defaults(eng engine.Engine, workdir string) []Check {
	checks := []Check{&EngineCheck{Engine: eng}}
	checks = append(checks, systemChecks()...)
	checks = append(checks, &GitRepoCheck{Dir: workdir})
	return checks
}
