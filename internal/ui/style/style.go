// Package style provides the colors and icons shared by the CLI's terminal output.
package style

import "github.com/charmbracelet/lipgloss"

// Brand Colors.
var (
	Iris   = lipgloss.Color("#8B5CF6")
	Slate  = lipgloss.Color("#667085")
	Red    = lipgloss.Color("#D93025")
	Yellow = lipgloss.Color("#F59E0B")
)

// Icons.
const (
	Cross   = "✗"
	Warning = "!"
	Arrow   = "→"
)

// Bold renders s in bold with the accent color, used for URLs printed by the dev server.
func Bold(s string) string {
	return lipgloss.NewStyle().Bold(true).Foreground(Iris).Render(s)
}
