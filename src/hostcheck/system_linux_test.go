//go:build linux

package hostcheck

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"
)

func writeProcFile(t *testing.T, procRoot, rel, content string) {
	t.Helper()

	path := filepath.Join(procRoot, rel)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write file: %v", err)
	}
}

func TestPtraceCheck_Levels(t *testing.T) {
	cases := []struct {
		scope string
		want  Status
	}{
		{"0", StatusPass},
		{"1", StatusWarn},
		{"2", StatusWarn},
		{"3", StatusFail},
	}

	for _, tc := range cases {
		procRoot := t.TempDir()
		writeProcFile(t, procRoot, "sys/kernel/yama/ptrace_scope", tc.scope+"\n")

		c := &PtraceCheck{ProcRoot: procRoot}
		results := c.Run(context.Background())
		if len(results) != 1 {
			t.Fatalf("scope %s: expected one result, got %#v", tc.scope, results)
		}
		if results[0].Status != tc.want {
			t.Fatalf("scope %s: expected %s, got %s (%s)",
				tc.scope, tc.want, results[0].Status, results[0].Message)
		}
	}
}

func TestPtraceCheck_NoYama(t *testing.T) {
	c := &PtraceCheck{ProcRoot: t.TempDir()}
	if results := c.Run(context.Background()); results != nil {
		t.Fatalf("expected no result without Yama, got %#v", results)
	}
}

func TestMemoryCheck_Thresholds(t *testing.T) {
	procRoot := t.TempDir()
	// 32 GiB total, 16 GiB available.
	writeProcFile(t, procRoot, "meminfo", fmt.Sprintf(
		"MemTotal:       %d kB\nMemFree:        123 kB\nMemAvailable:   %d kB\n",
		32<<20, 16<<20))

	c := &MemoryCheck{ProcRoot: procRoot, MinAvailableGB: 2}
	results := c.Run(context.Background())
	if len(results) != 1 || results[0].Status != StatusPass {
		t.Fatalf("expected pass, got %#v", results)
	}

	c.MinAvailableGB = 64
	results = c.Run(context.Background())
	if len(results) != 1 || results[0].Status != StatusWarn {
		t.Fatalf("expected low-memory warning, got %#v", results)
	}
}

func TestMemoryCheck_NoMeminfo(t *testing.T) {
	c := &MemoryCheck{ProcRoot: t.TempDir(), MinAvailableGB: 2}
	if results := c.Run(context.Background()); results != nil {
		t.Fatalf("expected no result without meminfo, got %#v", results)
	}
}

func TestDiskCheck_SkipsUnreadablePath(t *testing.T) {
	c := &DiskCheck{Path: filepath.Join(t.TempDir(), "missing"), MinFreeGB: 10}
	if results := c.Run(context.Background()); results != nil {
		t.Fatalf("expected no result for unreadable path, got %#v", results)
	}
}

func TestDiskCheck_ReportsFreeSpace(t *testing.T) {
	// Any real filesystem has a non-negative free count, so a zero
	// threshold always passes.
	c := &DiskCheck{Path: t.TempDir(), MinFreeGB: 0}
	results := c.Run(context.Background())
	if len(results) != 1 || results[0].Status != StatusPass {
		t.Fatalf("expected pass, got %#v", results)
	}
}
