package ui

import "github.com/charmbracelet/lipgloss"

var (
	titleStyle      = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("205"))
	bucketStyle     = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("63"))
	selectedStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("212"))
	dimStyle        = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	userStyle       = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("39"))
	assistantStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("118"))
	errorStyle      = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("196"))
	suggestionStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
	statusStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("246"))

	sidebarBorder = lipgloss.NewStyle().
			BorderStyle(lipgloss.NormalBorder()).
			BorderRight(true).
			BorderForeground(lipgloss.Color("238")).
			PaddingRight(1)
)
