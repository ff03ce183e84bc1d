package output

import (
	"os"
)

// Colors for terminal output.
const (
	colorReset  = "\033[0m"
	colorRed    = "\033[31m"
	colorGreen  = "\033[32m"
	colorYellow = "\033[33m"
	colorCyan   = "\033[36m"
	colorGray   = "\033[90m"
	colorBold   = "\033[1m"
)

// StatusTag returns a short check-status label, optionally colored.
func StatusTag(status string, color bool) string {
	switch status {
	case "pass":
		if color {
			return colorGreen + "PASS" + colorReset
		}
		return "PASS"
	case "warn":
		if color {
			return colorYellow + "WARN" + colorReset
		}
		return "WARN"
	case "fail":
		if color {
			return colorRed + "FAIL" + colorReset
		}
		return "FAIL"
	default:
		return status
	}
}

func isTerminal() bool {
	fi, err := os.Stdout.Stat()
	if err != nil {
		return false
	}
	return fi.Mode()&os.ModeCharDevice != 0
}

// IsCI reports whether the process runs under a CI environment.
func IsCI() bool {
	return os.Getenv("CI") == "true"
}

// UseColor returns true if colored output should be used.
// Respects NO_COLOR env, TERM=dumb, and terminal detection.
func UseColor() bool {
	if os.Getenv("NO_COLOR") != "" {
		return false
	}
	if os.Getenv("TERM") == "dumb" {
		return false
	}
	return isTerminal() || IsCI()
}
