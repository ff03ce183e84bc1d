//go:build linux

package hostcheck

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"golang.org/x/sys/unix"
)

const gib = 1 << 30

// ptraceScopeLevels names the Yama ptrace_scope values.
var ptraceScopeLevels = map[int]string{
	0: "unrestricted",
	1: "restricted",
	2: "admin-only",
	3: "disabled",
}

// PtraceCheck reads the Yama ptrace scope. Debuggers attach across
// processes inside the container, which scope 3 forbids outright.
type PtraceCheck struct {
	ProcRoot string
}

// NewPtraceCheck probes the live /proc.
func NewPtraceCheck() *PtraceCheck { return &PtraceCheck{ProcRoot: "/proc"} }

// Name implements Check.
func (c *PtraceCheck) Name() string { return "ptrace" }

// Run implements Check. Hosts without Yama produce no result.
func (c *PtraceCheck) Run(ctx context.Context) []Result {
	data, err := os.ReadFile(filepath.Join(c.ProcRoot, "sys/kernel/yama/ptrace_scope"))
	if err != nil {
		return nil
	}
	scope, err := strconv.Atoi(strings.TrimSpace(string(data)))
	if err != nil {
		return nil
	}

	desc, ok := ptraceScopeLevels[scope]
	if !ok {
		desc = "unknown"
	}
	switch scope {
	case 0:
		return []Result{pass("ptrace", "ptrace_scope: 0 (%s)", desc)}
	case 3:
		return []Result{fail("ptrace", fmt.Errorf("ptrace_scope: 3 (%s): debuggers cannot attach", desc))}
	default:
		return []Result{warn("ptrace", "ptrace_scope: %d (%s)", scope, desc)}
	}
}

// DiskCheck warns when the filesystem holding the engine's data runs
// low on space.
type DiskCheck struct {
	Path      string
	MinFreeGB uint64
}

// NewDiskCheck probes /var, where the engine keeps images and layers.
func NewDiskCheck() *DiskCheck { return &DiskCheck{Path: "/var", MinFreeGB: 10} }

// Name implements Check.
func (c *DiskCheck) Name() string { return "disk" }

// Run implements Check. An unreadable filesystem produces no result.
func (c *DiskCheck) Run(ctx context.Context) []Result {
	var st unix.Statfs_t
	if err := unix.Statfs(c.Path, &st); err != nil {
		return nil
	}
	free := uint64(st.Bavail) * uint64(st.Bsize) / gib
	if free < c.MinFreeGB {
		return []Result{warn("disk", "%dGB available on %s (low)", free, c.Path)}
	}
	return []Result{pass("disk", "%dGB available on %s", free, c.Path)}
}

// MemoryCheck warns when the host has too little memory available for a
// build plus a running container.
type MemoryCheck struct {
	ProcRoot       string
	MinAvailableGB uint64
}

// NewMemoryCheck probes the live /proc.
func NewMemoryCheck() *MemoryCheck { return &MemoryCheck{ProcRoot: "/proc", MinAvailableGB: 2} }

// Name implements Check.
func (c *MemoryCheck) Name() string { return "memory" }

// Run implements Check.
func (c *MemoryCheck) Run(ctx context.Context) []Result {
	total, available, err := readMemInfo(filepath.Join(c.ProcRoot, "meminfo"))
	if err != nil {
		return nil
	}
	if available < c.MinAvailableGB*gib {
		return []Result{warn("memory", "%dGB available (low)", available/gib)}
	}
	return []Result{pass("memory", "%d/%dGB available", available/gib, total/gib)}
}

// readMemInfo parses MemTotal and MemAvailable out of /proc/meminfo,
// returning both in bytes.
func readMemInfo(path string) (total, available uint64, err error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return 0, 0, err
	}
	for _, line := range strings.Split(string(data), "\n") {
		fields := strings.Fields(line)
		if len(fields) < 2 {
			continue
		}
		kb, perr := strconv.ParseUint(fields[1], 10, 64)
		if perr != nil {
			continue
		}
		switch fields[0] {
		case "MemTotal:":
			total = kb * 1024
		case "MemAvailable:":
			available = kb * 1024
		}
	}
	if total == 0 {
		return 0, 0, fmt.Errorf("no MemTotal in %s", path)
	}
	return total, available, nil
}

// systemChecks returns the Linux host probes in report order.
func systemChecks() []Check {
	return []Check{NewPtraceCheck(), NewDiskCheck(), NewMemoryCheck()}
}
