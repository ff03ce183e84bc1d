package hostcheck

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/sofmeright/dockhand/src/engine"
)

// fakeEngine substitutes for a live daemon in tests.
type fakeEngine struct {
	banner    string
	bannerErr error
	info      engine.Info
	infoErr   error
}

func (f *fakeEngine) ClientVersion(ctx context.Context) (string, error) {
	return f.banner, f.bannerErr
}

func (f *fakeEngine) Info(ctx context.Context) (engine.Info, error) {
	return f.info, f.infoErr
}

func TestEngineCheck_Healthy(t *testing.T) {
	c := &EngineCheck{Engine: &fakeEngine{
		banner: "Docker version 28.1.0, build 4d8c241",
		info:   engine.Info{OSType: "linux", ServerVersion: "28.1.0"},
	}}

	results := c.Run(context.Background())
	if len(results) != 2 {
		t.Fatalf("expected engine and mode results, got %#v", results)
	}
	if results[0].Check != "engine" || results[0].Status != StatusPass {
		t.Fatalf("unexpected engine result %#v", results[0])
	}
	if results[1].Check != "mode" || results[1].Status != StatusPass {
		t.Fatalf("unexpected mode result %#v", results[1])
	}
}

func TestEngineCheck_ClientMissing(t *testing.T) {
	wantErr := fmt.Errorf("%w: docker not found on PATH", engine.ErrUnavailable)
	c := &EngineCheck{Engine: &fakeEngine{bannerErr: wantErr}}

	results := c.Run(context.Background())
	if len(results) != 1 {
		t.Fatalf("expected a single failure, got %#v", results)
	}
	if results[0].Status != StatusFail {
		t.Fatalf("expected failure, got %#v", results[0])
	}
	if !errors.Is(results[0].Err, engine.ErrUnavailable) {
		t.Fatalf("expected ErrUnavailable, got %v", results[0].Err)
	}
}

func TestEngineCheck_DaemonDown(t *testing.T) {
	c := &EngineCheck{Engine: &fakeEngine{
		banner:  "Docker version 28.1.0, build 4d8c241",
		infoErr: fmt.Errorf("%w: cannot connect to the daemon socket", engine.ErrUnavailable),
	}}

	results := c.Run(context.Background())
	if len(results) != 1 || results[0].Status != StatusFail {
		t.Fatalf("expected a single failure, got %#v", results)
	}
	if !errors.Is(results[0].Err, engine.ErrUnavailable) {
		t.Fatalf("expected ErrUnavailable, got %v", results[0].Err)
	}
}

func TestEngineCheck_WindowsContainers(t *testing.T) {
	c := &EngineCheck{Engine: &fakeEngine{
		banner: "Docker version 28.1.0, build 4d8c241",
		info:   engine.Info{OSType: "windows", ServerVersion: "28.1.0"},
	}}

	results := c.Run(context.Background())
	var mode *Result
	for i := range results {
		if results[i].Check == "mode" {
			mode = &results[i]
		}
	}
	if mode == nil || mode.Status != StatusFail {
		t.Fatalf("expected mode failure, got %#v", results)
	}
	if !errors.Is(mode.Err, engine.ErrWrongContainerMode) {
		t.Fatalf("expected ErrWrongContainerMode, got %v", mode.Err)
	}
}

func TestEngineCheck_OldEngineWarns(t *testing.T) {
	c := &EngineCheck{Engine: &fakeEngine{
		banner: "Docker version 19.03.15, build 99e3ed8",
		info:   engine.Info{OSType: "linux", ServerVersion: "19.03.15"},
	}}

	results := c.Run(context.Background())
	found := false
	for _, r := range results {
		if r.Status == StatusWarn && strings.Contains(r.Message, "older than the supported minimum") {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected minimum-version warning, got %#v", results)
	}

	report := Report{Results: results}
	if report.Failed() {
		t.Fatalf("an old engine must warn, not fail: %#v", results)
	}
}
