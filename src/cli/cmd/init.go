package cmd

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"
	"github.com/sofmeright/dockhand/src/config"
	"github.com/sofmeright/dockhand/src/engine"
	"github.com/sofmeright/dockhand/src/envfile"
	"github.com/sofmeright/dockhand/src/gitinfo"
	"github.com/sofmeright/dockhand/src/hostcheck"
	"github.com/sofmeright/dockhand/src/leakcheck"
	"github.com/sofmeright/dockhand/src/output"
	"github.com/sofmeright/dockhand/src/project"
)

var initSuffix string

var initCmd = &cobra.Command{
	Use:   "init <devcontainer-dir>",
	Short: "Validate the host and generate container build inputs",
	Long: `Validate the host and generate container build inputs.

Checks the container engine and host resources, merges the default and
custom package documents into packages.yml, and writes the .env build
arguments the compose templates read. Run from the workspace root
before the container starts.

A failed run leaves no merged output behind: compose never consumes a
stale or half-written document.`,
	Args: cobra.ExactArgs(1),
	RunE: runInit,
}

func init() {
	initCmd.Flags().StringVar(&initSuffix, "suffix", "", "instance suffix for service and volume names")
	rootCmd.AddCommand(initCmd)
}

// pipelineStep is one rendered line of a pipeline section.
type pipelineStep struct {
	Label  string
	Detail string
	Status string // "success", "warn", or "failed"
}

func runInit(cmd *cobra.Command, args []string) error {
	start := time.Now()
	ctx := context.Background()
	color := output.UseColor()
	w := os.Stdout

	dir := config.NewDir(args[0])
	if err := dir.Check(); err != nil {
		return err
	}
	if err := dir.ClearOutputs(); err != nil {
		return err
	}

	workdir, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("getting working directory: %w", err)
	}

	id := hostcheck.ResolveIdentity()
	ws := project.Inspect(workdir)

	suffix := initSuffix
	sfx := suffix
	if sfx == "" {
		sfx = "none"
	}
	output.ContextBlock(w, []output.KV{
		{Key: "user", Value: fmt.Sprintf("%s (%d:%d)", id.Username, id.UID, id.GID)},
		{Key: "workspace", Value: ws.Summary()},
		{Key: "template", Value: dir.Root},
		{Key: "suffix", Value: sfx},
	})

	scanner, scanErr := leakcheck.NewScanner()

	// ── Host ──
	hostStart := time.Now()
	report := hostcheck.Run(ctx, hostcheck.Defaults(engine.NewCLI(), workdir))
	hostElapsed := time.Since(hostStart)

	sec := output.NewSection(w, "Host", hostElapsed, color)
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

	// ── Configuration ──
	cfgStart := time.Now()
	steps, merged, cfgErr := prepareConfiguration(dir, scanner, scanErr)
	cfgElapsed := time.Since(cfgStart)

	csec := output.NewSection(w, "Configuration", cfgElapsed, color)
	cfgWarnings := renderSteps(csec, steps, color)
	csec.Separator()
	csec.Row("%s", warningsLine(cfgWarnings))
	csec.Close()
	if cfgErr != nil {
		return cfgErr
	}

	// ── Environment ──
	envStart := time.Now()
	steps, envErr := buildEnvironment(dir, id, merged, suffix, workdir, scanner)
	envElapsed := time.Since(envStart)

	esec := output.NewSection(w, "Environment", envElapsed, color)
	envWarnings := renderSteps(esec, steps, color)
	esec.Separator()
	esec.Row("%s", warningsLine(envWarnings))
	esec.Close()
	if envErr != nil {
		return envErr
	}

	// ── Summary ──
	ssec := output.NewSection(w, "Summary", 0, color)
	output.SummaryRow(w, "host", warnStatus(warn), fmt.Sprintf("%d checks", pass+warn+fail), color)
	output.SummaryRow(w, "config", warnStatus(cfgWarnings), "packages.yml", color)
	output.SummaryRow(w, "env", warnStatus(envWarnings), ".env", color)
	ssec.Separator()
	output.SummaryTotal(w, time.Since(start), "success", color)
	ssec.Close()

	return nil
}

// prepareConfiguration validates the compose and package documents,
// scaffolds absent custom files, merges and re-validates the merged
// result, and scans the user-supplied overrides for credentials. It
// returns the rendered steps alongside the merged document; on error
// the failing step is the last one.
func prepareConfiguration(dir config.Dir, scanner *leakcheck.Scanner, scanErr error) ([]pipelineStep, *config.Document, error) {
	var steps []pipelineStep

	ok := func(label, detail string) {
		steps = append(steps, pipelineStep{Label: label, Detail: detail, Status: "success"})
	}
	warns := func(msgs []string) {
		for _, m := range msgs {
			steps = append(steps, pipelineStep{Detail: m, Status: "warn"})
		}
	}
	failed := func(label string, err error) ([]pipelineStep, *config.Document, error) {
		steps = append(steps, pipelineStep{Label: label, Detail: err.Error(), Status: "failed"})
		return steps, nil, err
	}

	composeDoc, err := config.LoadDocument(dir.ComposeDefault())
	if err != nil {
		return failed("compose", err)
	}
	w, err := config.ValidateCompose(composeDoc)
	warns(w)
	if err != nil {
		return failed("compose", err)
	}
	ok("compose", "docker-compose.default.yml")

	created, err := config.ScaffoldComposeCustom(dir.ComposeCustom())
	if err != nil {
		return failed("overrides", err)
	}
	if created {
		ok("overrides", "created docker-compose.custom.yml")
	} else {
		customDoc, err := config.LoadDocument(dir.ComposeCustom())
		if err != nil {
			return failed("overrides", err)
		}
		w, err = config.ValidateComposeCustom(customDoc)
		warns(w)
		if err != nil {
			return failed("overrides", err)
		}
		ok("overrides", "docker-compose.custom.yml")
	}

	defDoc, err := config.LoadDocument(dir.PackagesDefault())
	if err != nil {
		return failed("packages", err)
	}
	w, err = config.ValidatePackages(defDoc)
	warns(w)
	if err != nil {
		return failed("packages", err)
	}
	ok("packages", "packages.default.yml")

	var customPkg *config.Document
	created, err = config.ScaffoldPackagesCustom(dir.PackagesCustom())
	if err != nil {
		return failed("custom", err)
	}
	if created {
		ok("custom", "created packages.custom.yml")
	} else {
		customPkg, err = config.LoadDocument(dir.PackagesCustom())
		if err != nil {
			return failed("custom", err)
		}
		w, err = config.ValidatePackagesCustom(customPkg)
		warns(w)
		if err != nil {
			return failed("custom", err)
		}
		ok("custom", "packages.custom.yml")
	}

	merged, err := config.Merge(defDoc, customPkg)
	if err != nil {
		return failed("merge", err)
	}
	// Overrides replace nodes wholesale, so the merged result must pass
	// the same schema the default did before it is written.
	merged.Path = dir.PackagesMerged()
	if _, err := config.ValidatePackages(merged); err != nil {
		return failed("merge", err)
	}
	if err := merged.Save(dir.PackagesMerged()); err != nil {
		return failed("merge", err)
	}
	ok("merge", "packages.yml")

	switch {
	case scanErr != nil:
		warns([]string{"secret scan unavailable: " + scanErr.Error()})
	default:
		leaks := 0
		for _, path := range []string{dir.ComposeCustom(), dir.PackagesCustom()} {
			findings, ferr := scanner.ScanFile(path)
			if ferr != nil {
				warns([]string{"secret scan: " + ferr.Error()})
				continue
			}
			for _, f := range findings {
				warns([]string{f.String()})
				leaks++
			}
		}
		if leaks == 0 {
			ok("secrets", "no credentials in overrides")
		}
	}

	return steps, merged, nil
}

// buildEnvironment derives the build arguments from the merged document
// and host identity, scans them, and writes .env. A failing step clears
// the run's outputs: packages.yml was written moments ago and must not
// outlive the run that produced it.
func buildEnvironment(dir config.Dir, id hostcheck.Identity, merged *config.Document, suffix, workdir string, scanner *leakcheck.Scanner) ([]pipelineStep, error) {
	var steps []pipelineStep

	ok := func(label, detail string) {
		steps = append(steps, pipelineStep{Label: label, Detail: detail, Status: "success"})
	}
	failed := func(label string, err error) ([]pipelineStep, error) {
		steps = append(steps, pipelineStep{Label: label, Detail: err.Error(), Status: "failed"})
		_ = dir.ClearOutputs()
		return steps, err
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return failed("home", fmt.Errorf("resolving home directory: %w", err))
	}
	// Compose bind mounts materialize missing sources as root-owned
	// directories; pre-creating these keeps them user-owned files.
	for _, name := range []string{".netrc", ".gitconfig"} {
		if err := touchFile(filepath.Join(home, name)); err != nil {
			return failed("home", err)
		}
	}
	ok("home", "~/.netrc, ~/.gitconfig present")

	gitRoot := ""
	if root, err := gitinfo.RepoRoot(workdir); err == nil {
		gitRoot = root
	}

	imageName, imageTag := merged.ImageRef()
	data := envfile.Render(envfile.Params{
		Username:  id.Username,
		UID:       id.UID,
		GID:       id.GID,
		ImageName: imageName,
		ImageTag:  imageTag,
		Suffix:    suffix,
		Home:      home,
		GitRoot:   gitRoot,
	})

	if scanner != nil {
		for _, f := range scanner.ScanBytes(".env", data) {
			steps = append(steps, pipelineStep{Detail: f.String(), Status: "warn"})
		}
	}

	if err := dir.WriteEnv(data); err != nil {
		return failed(".env", err)
	}

	names := envfile.DeriveNames(id.Username, suffix)
	ok("image", imageName+":"+imageTag)
	ok("service", names.ServiceMain)
	ok(".env", fmt.Sprintf("generated (UID=%d, GID=%d)", id.UID, id.GID))

	return steps, nil
}

// renderSteps writes collected steps into a section and returns the
// warning count.
func renderSteps(sec *output.Section, steps []pipelineStep, color bool) int {
	warnings := 0
	for _, st := range steps {
		if st.Status == "warn" {
			sec.Row("%s  %s", output.StatusTag("warn", color), st.Detail)
			warnings++
			continue
		}
		sec.Status(st.Label, st.Detail, st.Status)
	}
	return warnings
}

func warningsLine(n int) string {
	switch n {
	case 0:
		return "no warnings"
	case 1:
		return "1 warning"
	default:
		return fmt.Sprintf("%d warnings", n)
	}
}

func warnStatus(warnings int) string {
	if warnings > 0 {
		return "warn"
	}
	return "success"
}

// touchFile creates an empty file when absent, leaving existing
// content alone.
func touchFile(path string) error {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return err
	}
	return f.Close()
}
