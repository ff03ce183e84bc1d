package cmd

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"github.com/sofmeright/dockhand/src/output"
	"github.com/sofmeright/dockhand/src/shellcfg"
)

var postStartCmd = &cobra.Command{
	Use:   "post-start",
	Short: "Configure the container shell after start",
	Long: `Configure the container shell after start.

Writes readline and bash profile settings, enables the profile in
.bashrc, trusts the mounted work tree in git, and installs pre-commit
hooks when the workspace carries a hook configuration.

Every step is idempotent and safe to run on each container start. Step
failures are warnings: the container comes up regardless.`,
	RunE: runPostStart,
}

func init() {
	rootCmd.AddCommand(postStartCmd)
}

func runPostStart(cmd *cobra.Command, args []string) error {
	ctx := context.Background()
	color := output.UseColor()
	w := os.Stdout

	home, err := os.UserHomeDir()
	if err != nil {
		return fmt.Errorf("resolving home directory: %w", err)
	}
	workdir, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("getting working directory: %w", err)
	}

	start := time.Now()
	results := shellcfg.Apply(ctx, shellcfg.Config{Home: home, WorkDir: workdir})
	elapsed := time.Since(start)

	changed, warned := 0, 0
	sec := output.NewSection(w, "Shell", elapsed, color)
	for _, r := range results {
		tag, detail := "pass", r.Note
		switch {
		case r.Err != nil:
			tag, detail = "warn", r.Err.Error()
			warned++
		case r.Changed:
			changed++
			if detail == "" {
				detail = "updated"
			}
		case detail == "":
			detail = output.Dimmed("unchanged", color)
		}
		sec.Row("%s  %-10s %s", output.StatusTag(tag, color), r.Name, detail)
	}
	sec.Separator()
	summary := fmt.Sprintf("%d changed", changed)
	if !shellcfg.Changed(results) {
		summary = "no changes"
	}
	sec.Row("%d steps: %s, %s", len(results), summary, warningsLine(warned))
	sec.Close()

	return nil
}
