package output

import (
	"fmt"
	"strings"

	"github.com/sofmeright/dockhand/src/hostcheck"
)

// SectionReport renders host check results inside a section, one row per
// check in report order.
func SectionReport(sec *Section, results []hostcheck.Result, color bool) {
	for _, r := range results {
		tag := StatusTag(r.Status.String(), color)
		sec.Row("%s  %-10s %s", tag, r.Check, r.Message)
	}
}

// CheckSummaryLine returns a one-line host report summary, optionally colored.
func CheckSummaryLine(pass, warn, fail int, color bool) string {
	parts := []string{}
	if fail > 0 {
		s := fmt.Sprintf("%d failed", fail)
		if color {
			s = colorRed + s + colorReset
		}
		parts = append(parts, s)
	}
	if warn > 0 {
		s := fmt.Sprintf("%d warning", warn)
		if color {
			s = colorYellow + s + colorReset
		}
		parts = append(parts, s)
	}
	if pass > 0 {
		parts = append(parts, fmt.Sprintf("%d passed", pass))
	}

	summary := "no checks ran"
	if len(parts) > 0 {
		summary = strings.Join(parts, ", ")
	}

	total := fmt.Sprintf("%d", pass+warn+fail)
	if color {
		total = colorBold + total + colorReset
	}
	return fmt.Sprintf("%s checks: %s", total, summary)
}
