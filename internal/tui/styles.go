package tui

import "github.com/charmbracelet/lipgloss"

type Theme struct {
	Title     lipgloss.Style
	Label     lipgloss.Style
	Focused   lipgloss.Style
	Blurred   lipgloss.Style
	Chip      lipgloss.Style
	ChipFocus lipgloss.Style
	Status    lipgloss.Style
	Error     lipgloss.Style
	Help      lipgloss.Style
	Selected  lipgloss.Style
	Answer    lipgloss.Style
}

func NewTheme(dark bool) Theme {
	var (
		accent lipgloss.Color
		subtle lipgloss.Color
		danger lipgloss.Color
	)
	if dark {
		accent = lipgloss.Color("86")
		subtle = lipgloss.Color("241")
		danger = lipgloss.Color("203")
	} else {
		accent = lipgloss.Color("25")
		subtle = lipgloss.Color("245")
		danger = lipgloss.Color("160")
	}

	return Theme{
		Title:     lipgloss.NewStyle().Bold(true).Foreground(accent).MarginBottom(1),
		Label:     lipgloss.NewStyle().Foreground(subtle),
		Focused:   lipgloss.NewStyle().Foreground(accent).Bold(true),
		Blurred:   lipgloss.NewStyle(),
		Chip:      lipgloss.NewStyle().Padding(0, 1).Border(lipgloss.RoundedBorder()).BorderForeground(subtle),
		ChipFocus: lipgloss.NewStyle().Padding(0, 1).Border(lipgloss.RoundedBorder()).BorderForeground(accent).Foreground(accent),
		Status:    lipgloss.NewStyle().Foreground(subtle).MarginTop(1),
		Error:     lipgloss.NewStyle().Foreground(danger).MarginTop(1),
		Help:      lipgloss.NewStyle().Foreground(subtle).MarginTop(1),
		Selected:  lipgloss.NewStyle().Foreground(accent).Bold(true),
		Answer:    lipgloss.NewStyle().MarginTop(1).Padding(1).Border(lipgloss.RoundedBorder()).BorderForeground(subtle),
	}
}
