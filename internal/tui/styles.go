package tui

import "github.com/charmbracelet/lipgloss"

var (
	titleStyle       = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("205"))
	focusedStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("205"))
	blurredStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	noStyle          = lipgloss.NewStyle()
	headerRowStyle   = lipgloss.NewStyle().Bold(true)
	descriptionStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	successStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	errorStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	warningStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
	spinnerStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("205"))
	statStyle        = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 2)

	focusedButton  = focusedStyle.Render("[ Import ]")
	blurredButton  = blurredStyle.Render("[ Import ]")
	disabledButton = blurredStyle.Render("[ Importing... ]")
)
