package tui

import "github.com/charmbracelet/lipgloss"

var (
	colorAccent      = lipgloss.AdaptiveColor{Light: "#0E7490", Dark: "#22D3EE"}
	colorMuted       = lipgloss.AdaptiveColor{Light: "#6B7280", Dark: "#9CA3AF"}
	colorDestructive = lipgloss.AdaptiveColor{Light: "#BE123C", Dark: "#FB7185"}
	colorSuccess     = lipgloss.AdaptiveColor{Light: "#047857", Dark: "#34D399"}
	colorBookmark    = lipgloss.AdaptiveColor{Light: "#B45309", Dark: "#FBBF24"}
	colorBorder      = lipgloss.AdaptiveColor{Light: "#D1D5DB", Dark: "#374151"}
)

var (
	titleStyle = lipgloss.NewStyle().Bold(true).Foreground(colorAccent).MarginBottom(1)

	rowStyle         = lipgloss.NewStyle().PaddingLeft(2)
	selectedRowStyle = lipgloss.NewStyle().PaddingLeft(1).Bold(true).
				Border(lipgloss.NormalBorder(), false, false, false, true).
				BorderForeground(colorAccent)
	bookmarkStyle = lipgloss.NewStyle().Foreground(colorBookmark)
	mutedStyle    = lipgloss.NewStyle().Foreground(colorMuted)
	helpStyle     = lipgloss.NewStyle().Foreground(colorMuted).MarginTop(1)

	menuStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorBorder).
			Padding(0, 1)
	menuItemStyle        = lipgloss.NewStyle()
	menuCursorStyle      = lipgloss.NewStyle().Bold(true).Foreground(colorAccent)
	menuDestructiveStyle = lipgloss.NewStyle().Foreground(colorDestructive)
	menuDisabledStyle    = lipgloss.NewStyle().Foreground(colorMuted).Faint(true)
	menuSeparatorStyle   = lipgloss.NewStyle().Foreground(colorBorder)

	toastStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			Padding(0, 1)
)
