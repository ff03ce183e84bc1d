package cmd

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/sofmeright/dockhand/src/config"
	"github.com/sofmeright/dockhand/src/engine"
	"github.com/sofmeright/dockhand/src/hostcheck"
	"github.com/sofmeright/dockhand/src/output"
	"github.com/sofmeright/dockhand/src/project"
)

var doctorCmd = &cobra.Command{
	Use:   "doctor [devcontainer-dir]",
	Short: "Run the host checks without writing anything",
	Long: `Run the host checks without writing anything.

Reports the same engine, resource, and workspace checks init runs,
plus template file presence when a devcontainer directory is given.
No outputs are generated or removed.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runDoctor,
}

func init() {
	rootCmd.AddCommand(doctorCmd)
}

func runDoctor(cmd *cobra.Command, args []string) error {
	ctx := context.Background()
	color := output.UseColor()
	w := os.Stdout

	workdir, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("getting working directory: %w", err)
	}

	id := hostcheck.ResolveIdentity()
	ws := project.Inspect(workdir)

	kv := []output.KV{
		{Key: "user", Value: fmt.Sprintf("%s (%d:%d)", id.Username, id.UID, id.GID)},
		{Key: "workspace", Value: ws.Summary()},
	}
	if ws.Python != nil && ws.Python.RequiresPython != "" {
		kv = append(kv, output.KV{Key: "python", Value: ws.Python.RequiresPython})
	}
	if ws.PreCommit {
		kv = append(kv, output.KV{Key: "pre-commit", Value: "configured"})
	}
	if verbose && len(ws.Markers) > 0 {
		kv = append(kv, output.KV{Key: "markers", Value: strings.Join(ws.Markers, ", ")})
	}
	output.ContextBlock(w, kv)

	checks := hostcheck.Defaults(engine.NewCLI(), workdir)
	if len(args) == 1 {
		checks = append(checks, &hostcheck.TemplateCheck{Dir: config.NewDir(args[0])})
	}

	start := time.Now()
	report := hostcheck.Run(ctx, checks)
	elapsed := time.Since(start)

	sec := output.NewSection(w, "Doctor", elapsed, color)
	output.SectionReport(sec, report.Results, color)
	sec.Separator()
	pass, warn, fail := report.Counts()
	sec.Row("%s", output.CheckSummaryLine(pass, warn, fail, color))
	sec.Close()

	if report.Failed() {
		if err := report.FirstFailure(); err != nil {
			return err
		}
		return fmt.Errorf("host validation failed (%d checks)", fail)
	}
	return nil
}
