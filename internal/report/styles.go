package report

import "github.com/charmbracelet/lipgloss"

// Terminal styles. Lipgloss degrades colors to what the terminal supports.
var (
	// StyleCyan is used for file locations and section headers.
	StyleCyan = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("6"))
	// StyleRed marks errors.
	StyleRed = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("1"))
	// StyleYellow marks warnings and caret indicators.
	StyleYellow = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("3"))
	// StyleGreen is used for clean runs.
	StyleGreen = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("2"))
	// StyleGray is used for rule names and hints.
	StyleGray = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
)

// RenderStyle applies style to text when colors are enabled.
func RenderStyle(style lipgloss.Style, text string, useColors bool) string {
	if !useColors {
		return text
	}
	return style.Render(text)
}

func severityStyle(s string) lipgloss.Style {
	if s == "error" {
		return StyleRed
	}
	return StyleYellow
}
