package main

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/viro24/bcm2cfg/internal/settings"
)

// Color palette for terminal output
var (
	primaryColor = lipgloss.Color("#7D56F4") // group titles
	errorColor   = lipgloss.Color("#FF5555") // failed integrity checks
	mutedColor   = lipgloss.Color("#626262") // secondary info
)

var (
	groupTitleStyle = lipgloss.NewStyle().
			Foreground(primaryColor).
			Bold(true)

	badStyle = lipgloss.NewStyle().
			Foreground(errorColor).
			Bold(true)

	headerTypeStyle = lipgloss.NewStyle().
			Bold(true)

	mutedStyle = lipgloss.NewStyle().
			Foreground(mutedColor)
)

// renderHeader colorizes the container framing summary: the type line is
// emphasized and failed integrity checks stand out.
func renderHeader(c settings.Container) string {
	lines := strings.Split(strings.TrimRight(c.HeaderString(), "\n"), "\n")
	for i, line := range lines {
		switch {
		case strings.HasPrefix(line, "type"):
			lines[i] = headerTypeStyle.Render(line)
		case strings.HasSuffix(line, " (bad)"):
			lines[i] = strings.TrimSuffix(line, " (bad)") + " " + badStyle.Render("(bad)")
		case strings.HasSuffix(line, "(unknown)"):
			lines[i] = strings.TrimSuffix(line, "(unknown)") + mutedStyle.Render("(unknown)")
		}
	}
	return strings.Join(lines, "\n") + "\n"
}

// renderGroupTitle styles one group heading.
func renderGroupTitle(title string) string {
	return groupTitleStyle.Render(title)
}
