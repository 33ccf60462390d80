package shell

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// renderPrompt colors the prompt text, leaving trailing blanks unstyled.
// lipgloss drops the color when stdout is not a color terminal.
func renderPrompt(prompt, color string) string {
	if color == "" {
		return prompt
	}
	text := strings.TrimRight(prompt, " \t")
	style := lipgloss.NewStyle().Foreground(lipgloss.Color(color)).Bold(true)
	return style.Render(text) + prompt[len(text):]
}
