// Package colors provides terminal color support for topograph output.
//
// Colors are applied only when enabled: NO_COLOR disables them, FORCE_COLOR
// forces them, and otherwise stdout must be a color-capable terminal. The
// --color flag and the color.ui setting override detection through
// Configure.
package colors

import (
	"fmt"
	"os"
	"runtime"
	"strings"

	"golang.org/x/term"
)

// ANSI color codes
const (
	ColorReset = "\033[0m"
	ColorBold  = "\033[1m"

	ColorYellow = "\033[33m"
	ColorGray   = "\033[90m"

	BrightRed    = "\033[91m"
	BrightGreen  = "\033[92m"
	BrightYellow = "\033[93m"
	BrightCyan   = "\033[96m"
)

// Color modes accepted by Configure.
const (
	ModeAuto   = "auto"
	ModeAlways = "always"
	ModeNever  = "never"
)

// colorEnabled determines if color output should be used
var colorEnabled = shouldUseColor()

// shouldUseColor determines if the terminal supports colors
func shouldUseColor() bool {
	if os.Getenv("NO_COLOR") != "" {
		return false
	}

	if os.Getenv("FORCE_COLOR") != "" {
		return true
	}

	if runtime.GOOS == "windows" {
		termEnv := strings.ToLower(os.Getenv("TERM"))
		wt := os.Getenv("WT_SESSION")
		vscode := os.Getenv("VSCODE_PID")

		return wt != "" || vscode != "" || strings.Contains(termEnv, "color") || strings.Contains(termEnv, "xterm")
	}

	termEnv := strings.ToLower(os.Getenv("TERM"))
	if termEnv == "dumb" || termEnv == "" {
		return false
	}

	return term.IsTerminal(int(os.Stdout.Fd()))
}

// Configure applies a color mode: "always", "never", or "auto" (terminal
// detection). An empty mode means auto.
func Configure(mode string) error {
	switch strings.ToLower(mode) {
	case "", ModeAuto:
		colorEnabled = shouldUseColor()
	case ModeAlways:
		colorEnabled = true
	case ModeNever:
		colorEnabled = false
	default:
		return fmt.Errorf("invalid color mode %q (expected %s, %s or %s)", mode, ModeAuto, ModeAlways, ModeNever)
	}
	return nil
}

// SetColorEnabled allows manual control of color output
func SetColorEnabled(enabled bool) {
	colorEnabled = enabled
}

// IsColorEnabled returns whether colors are currently enabled
func IsColorEnabled() bool {
	return colorEnabled
}

// colorize applies color to text if colors are enabled
func colorize(text, color string) string {
	if !colorEnabled || text == "" {
		return text
	}
	return color + text + ColorReset
}

// Graph output

// CommitHash colors a commit hash.
func CommitHash(text string) string {
	return colorize(text, ColorYellow)
}

// BranchLabel colors the branch names printed after a hash.
func BranchLabel(text string) string {
	if !colorEnabled || text == "" {
		return text
	}
	return ColorBold + BrightGreen + text + ColorReset
}

// Marker colors the sticky-end and join markers.
func Marker(text string) string {
	return colorize(text, BrightCyan)
}

// Generic color functions
func Red(text string) string {
	return colorize(text, BrightRed)
}

func Green(text string) string {
	return colorize(text, BrightGreen)
}

func Yellow(text string) string {
	return colorize(text, BrightYellow)
}

func Cyan(text string) string {
	return colorize(text, BrightCyan)
}

func Gray(text string) string {
	return colorize(text, ColorGray)
}

func Bold(text string) string {
	if !colorEnabled {
		return text
	}
	return ColorBold + text + ColorReset
}

func ErrorText(text string) string {
	return Red(text)
}

func WarningText(text string) string {
	return Yellow(text)
}

func InfoText(text string) string {
	return Cyan(text)
}
