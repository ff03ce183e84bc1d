//go:build !linux

package hostcheck

// systemChecks returns no probes: ptrace scope, /proc metrics, and the
// engine data filesystem are Linux concerns.
func systemChecks() []Check { return nil }
