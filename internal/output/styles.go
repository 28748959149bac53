package output

import (
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"
)

// Color palette. Every color used by the CLI is named here.
var (
	// ColorCyan is used for identifiable nouns: module ids and file paths.
	ColorCyan = lipgloss.Color("14")

	// ColorGreen is used for the "compiled" status.
	ColorGreen = lipgloss.Color("82")

	// ColorYellow is used for the "warned" status.
	ColorYellow = lipgloss.Color("220")

	// ColorBoldRed is used for the "failed" status (matches ERROR level).
	ColorBoldRed = lipgloss.Color("204")

	// ColorGreenCheck is used for the completion checkmark.
	ColorGreenCheck = lipgloss.Color("10")

	// ColorDimGray is used for borders and other structural chrome.
	ColorDimGray = lipgloss.Color("240")

	// ColorMagenta, ColorBlue and ColorOrange label module roles.
	ColorMagenta = lipgloss.Color("213")
	ColorBlue    = lipgloss.Color("75")
	ColorOrange  = lipgloss.Color("208")
)

// Semantic styles.
var (
	// StyleNoun styles identifiable nouns (module ids, file paths).
	StyleNoun = lipgloss.NewStyle().Foreground(ColorCyan)

	// StyleDim styles structural chrome (separators, descriptions).
	StyleDim = lipgloss.NewStyle().Faint(true)

	// StyleSummary styles completion and summary lines.
	StyleSummary = lipgloss.NewStyle().Bold(true)
)

// colorEnabled is false when stdout is not a terminal.
var colorEnabled = IsTTY(os.Stdout)

// IsTTY reports whether f is a terminal.
func IsTTY(f *os.File) bool {
	return f != nil && term.IsTerminal(int(f.Fd()))
}

// render applies style only when colors are enabled.
func render(style lipgloss.Style, s string) string {
	if !colorEnabled {
		return s
	}
	return style.Render(s)
}

// Module status constants.
const (
	StatusCompiled = "compiled"
	StatusWarned   = "warned"
	StatusFailed   = "failed"
)

// StatusStyle returns the style for a module status.
// Unknown statuses return an unstyled default.
func StatusStyle(status string) lipgloss.Style {
	switch status {
	case StatusCompiled:
		return lipgloss.NewStyle().Foreground(ColorGreen)
	case StatusWarned:
		return lipgloss.NewStyle().Foreground(ColorYellow)
	case StatusFailed:
		return lipgloss.NewStyle().Bold(true).Foreground(ColorBoldRed)
	default:
		return lipgloss.NewStyle()
	}
}

// RoleStyle returns the label style for a module role.
func RoleStyle(role string) lipgloss.Style {
	switch role {
	case "app":
		return lipgloss.NewStyle().Bold(true).Foreground(ColorMagenta)
	case "page":
		return lipgloss.NewStyle().Foreground(ColorBlue)
	case "component":
		return lipgloss.NewStyle().Foreground(ColorGreen)
	case "game":
		return lipgloss.NewStyle().Bold(true).Foreground(ColorOrange)
	case "template":
		return lipgloss.NewStyle().Foreground(ColorYellow)
	default:
		return lipgloss.NewStyle().Faint(true)
	}
}

// minModuleColumnWidth is the width of the "[role] id" column before
// the status suffix.
const minModuleColumnWidth = 48

// FormatModuleLine renders one module of a build report:
//
//	[page] pages/index.jsx                        compiled
func FormatModuleLine(role, id, status string) string {
	label := "[" + role + "]"
	padding := minModuleColumnWidth - len(label) - 1 - len(id)
	if padding < 2 {
		padding = 2
	}
	return render(RoleStyle(role), label) + " " +
		render(StyleNoun, id) + strings.Repeat(" ", padding) +
		render(StatusStyle(status), status)
}

// FormatCheckmark renders a green checkmark with a message for stdout output.
func FormatCheckmark(msg string) string {
	return render(lipgloss.NewStyle().Foreground(ColorGreenCheck), "✔") + " " + msg
}

// FormatCross renders a red cross with a message for stdout output.
func FormatCross(msg string) string {
	return render(StatusStyle(StatusFailed), "✘") + " " + msg
}
