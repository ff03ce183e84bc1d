// Package hostcheck runs the pre-start host validation report: an
// ordered sequence of named checks, each yielding pass, warning, or
// failure. Checks run sequentially in report order; a failing required
// check makes the whole report failed but never stops later checks, so
// the user sees every problem in one run.
package hostcheck

import (
	"context"
	"fmt"
)

// Status classifies a single check result.
type Status int

const (
	StatusPass Status = iota
	StatusWarn
	StatusFail
)

// String returns the lowercase status name.
func (s Status) String() string {
	switch s {
	case StatusPass:
		return "pass"
	case StatusWarn:
		return "warn"
	case StatusFail:
		return "fail"
	default:
		return "unknown"
	}
}

// Result is one line of the validation report.
type Result struct {
	// Check names the probe that produced the result.
	Check string
	// Status is the outcome.
	Status Status
	// Message is the human-readable detail shown in the report.
	Message string
	// Err carries the failure cause for failed results, wrapping a
	// taxonomy error where one applies.
	Err error
}

// Check is a single host probe. A check may contribute several results
// (the engine probe reports engine and container-mode lines) or none
// (resource probes skip when the host does not expose the data).
type Check interface {
	Name() string
	Run(ctx context.Context) []Result
}

// Report is the outcome of running all checks in order.
type Report struct {
	Results []Result
}

// Run executes checks sequentially and collects their results in order.
func Run(ctx context.Context, checks []Check) Report {
	var report Report
	for _, c := range checks {
		report.Results = append(report.Results, c.Run(ctx)...)
	}
	return report
}

// Counts tallies results by status.
func (r Report) Counts() (pass, warn, fail int) {
	for _, res := range r.Results {
		switch res.Status {
		case StatusPass:
			pass++
		case StatusWarn:
			warn++
		case StatusFail:
			fail++
		}
	}
	return pass, warn, fail
}

// Failed reports whether any required check failed.
func (r Report) Failed() bool {
	_, _, fail := r.Counts()
	return fail > 0
}

// FirstFailure returns the error of the first failed result, nil when
// the report passed.
func (r Report) FirstFailure() error {
	for _, res := range r.Results {
		if res.Status == StatusFail && res.Err != nil {
			return res.Err
		}
	}
	return nil
}

func result(check string, status Status, err error, format string, args ...any) Result {
	return Result{Check: check, Status: status, Message: fmt.Sprintf(format, args...), Err: err}
}

func pass(check, format string, args ...any) Result {
	return result(check, StatusPass, nil, format, args...)
}

func warn(check, format string, args ...any) Result {
	return result(check, StatusWarn, nil, format, args...)
}

func fail(check string, err error) Result {
	return Result{Check: check, Status: StatusFail, Message: err.Error(), Err: err}
}
