// Package leakcheck scans user-supplied overrides and generated build
// arguments for embedded credentials before they reach the container
// build. Findings are advisory: the run continues, the report warns.
package leakcheck

import (
	"fmt"
	"os"

	"github.com/zricethezav/gitleaks/v8/detect"
)

// Finding is one detected secret, located for the report.
type Finding struct {
	File    string
	Line    int
	RuleID  string
	Message string
}

func (f Finding) String() string {
	return fmt.Sprintf("%s:%d: %s (%s)", f.File, f.Line, f.Message, f.RuleID)
}

// Scanner wraps a gitleaks detector with its default rule set.
type Scanner struct {
	detector *detect.Detector
}

func NewScanner() (*Scanner, error) {
	d, err := detect.NewDetectorDefaultConfig()
	if err != nil {
		return nil, fmt.Errorf("loading secret rules: %w", err)
	}
	return &Scanner{detector: d}, nil
}

// ScanBytes scans content standing in for the named file.
func (s *Scanner) ScanBytes(name string, data []byte) []Finding {
	hits := s.detector.DetectBytes(data)
	if len(hits) == 0 {
		return nil
	}
	findings := make([]Finding, 0, len(hits))
	for _, h := range hits {
		findings = append(findings, Finding{
			File:    name,
			Line:    h.StartLine + 1, // gitleaks is 0-indexed
			RuleID:  h.RuleID,
			Message: h.Description,
		})
	}
	return findings
}

// ScanFile scans a file on disk; a missing file yields no findings.
func (s *Scanner) ScanFile(path string) ([]Finding, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return s.ScanBytes(path, data), nil
}
