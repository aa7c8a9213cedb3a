package tui

import "github.com/charmbracelet/lipgloss"

// Styles holds the playground's styles.
type Styles struct {
	Title         lipgloss.Style
	Rules         lipgloss.Style
	Cursor        lipgloss.Style
	Selected      lipgloss.Style
	Item          lipgloss.Style
	Dim           lipgloss.Style
	Model         lipgloss.Style
	StatusApplied lipgloss.Style
	StatusRefused lipgloss.Style
	StatusError   lipgloss.Style
	Main          lipgloss.Style
}

// NewStyles returns the default styles.
func NewStyles() *Styles {
	return &Styles{
		Title: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("99")).
			MarginBottom(1),
		Rules:         lipgloss.NewStyle().Foreground(lipgloss.Color("241")),
		Cursor:        lipgloss.NewStyle().Foreground(lipgloss.Color("226")).Bold(true),
		Selected:      lipgloss.NewStyle().Foreground(lipgloss.Color("78")).Bold(true),
		Item:          lipgloss.NewStyle().Foreground(lipgloss.Color("252")),
		Dim:           lipgloss.NewStyle().Faint(true),
		Model:         lipgloss.NewStyle().Foreground(lipgloss.Color("33")),
		StatusApplied: lipgloss.NewStyle().Foreground(lipgloss.Color("78")),  // green
		StatusRefused: lipgloss.NewStyle().Foreground(lipgloss.Color("214")), // yellow
		StatusError:   lipgloss.NewStyle().Foreground(lipgloss.Color("203")), // red
		Main:          lipgloss.NewStyle().Padding(1, 2),
	}
}
