// Package engine isolates container-engine state behind a narrow query
// interface. Pipeline logic depends on the interface, never on a live
// daemon, so everything above it is testable with a fake.
package engine

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
)

var (
	// ErrUnavailable indicates the engine CLI is missing from PATH or
	// the daemon is not responding.
	ErrUnavailable = errors.New("container engine unavailable")

	// ErrWrongContainerMode indicates the daemon runs non-Linux
	// containers (Docker Desktop switched to Windows containers).
	ErrWrongContainerMode = errors.New("container engine not in linux container mode")
)

// Info holds daemon-side facts needed by the host checks.
type Info struct {
	OSType        string
	ServerVersion string
}

// Engine answers the queries the pre-start pipeline needs.
type Engine interface {
	// ClientVersion returns the engine CLI version banner.
	ClientVersion(ctx context.Context) (string, error)
	// Info queries the running daemon. ErrUnavailable when it does not
	// respond.
	Info(ctx context.Context) (Info, error)
}

// CLI is the production Engine backed by the docker command-line client.
type CLI struct {
	// Bin is the client binary name, "docker" unless overridden.
	Bin string
}

// NewCLI returns a docker-backed engine client.
func NewCLI() *CLI {
	return &CLI{Bin: "docker"}
}

// ClientVersion runs `docker --version` and returns the trimmed banner.
func (c *CLI) ClientVersion(ctx context.Context) (string, error) {
	return c.run(ctx, "--version")
}

// Info runs `docker info` with a format template and parses the fields.
func (c *CLI) Info(ctx context.Context) (Info, error) {
	out, err := c.run(ctx, "info", "--format", "{{.OSType}}\t{{.ServerVersion}}")
	if err != nil {
		return Info{}, err
	}

	info := Info{}
	fields := strings.SplitN(out, "\t", 2)
	if len(fields) > 0 {
		info.OSType = strings.TrimSpace(fields[0])
	}
	if len(fields) > 1 {
		info.ServerVersion = strings.TrimSpace(fields[1])
	}
	return info, nil
}

// run executes the client and returns trimmed stdout. Failures map onto
// ErrUnavailable with the daemon's own words attached.
func (c *CLI) run(ctx context.Context, args ...string) (string, error) {
	cmd := exec.CommandContext(ctx, c.Bin, args...)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		if errors.Is(err, exec.ErrNotFound) {
			return "", fmt.Errorf("%w: %s not found on PATH", ErrUnavailable, c.Bin)
		}
		if detail := firstLine(stderr.String()); detail != "" {
			return "", fmt.Errorf("%w: %s", ErrUnavailable, detail)
		}
		return "", fmt.Errorf("%w: %s %s: %v", ErrUnavailable, c.Bin, strings.Join(args, " "), err)
	}
	return strings.TrimSpace(stdout.String()), nil
}

func firstLine(s string) string {
	s = strings.TrimSpace(s)
	if idx := strings.IndexByte(s, '\n'); idx >= 0 {
		s = s[:idx]
	}
	return s
}
