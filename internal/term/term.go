// Package term provides color mode resolution and terminal detection.
package term

import (
	"os"
	"strings"

	"github.com/backmassage/clipshrink/internal/config"
)

// ColorsEnabled resolves the configured color mode against TTY detection and
// the NO_COLOR env var (https://no-color.org).
func ColorsEnabled(mode config.ColorMode) bool {
	switch mode {
	case config.ColorAlways:
		return true
	case config.ColorNever:
		return false
	default: // ColorAuto
		return IsTerminal(os.Stdout) &&
			os.Getenv("NO_COLOR") == "" &&
			strings.ToLower(os.Getenv("TERM")) != "dumb"
	}
}

// IsTerminal reports whether f is attached to a TTY (character device).
func IsTerminal(f *os.File) bool {
	if f == nil {
		return false
	}
	fi, err := f.Stat()
	if err != nil {
		return false
	}
	return (fi.Mode() & os.ModeCharDevice) != 0
}
