package tui

import "github.com/charmbracelet/lipgloss"

// Palette. Primary and the summary background match the PDF table colours.
var (
	colorPrimary   = lipgloss.Color("#3B82F6")
	colorSecondary = lipgloss.Color("#14B8A6")
	colorFg        = lipgloss.Color("#E2E8F0")
	colorMuted     = lipgloss.Color("#64748B")
	colorSubtle    = lipgloss.Color("#334155")
	colorHighlight = lipgloss.Color("#93C5FD")
	colorSummaryBg = lipgloss.Color("#1E293B")
	colorSuccess   = lipgloss.Color("#22C55E")
	colorWarning   = lipgloss.Color("#F59E0B")
	colorError     = lipgloss.Color("#EF4444")
)

var cell = lipgloss.NewStyle().Padding(0, 1)

// Report table
var (
	tableHeaderStyle  = cell.Bold(true).Foreground(lipgloss.Color("#FFFFFF")).Background(colorPrimary)
	tableCellStyle    = cell.Foreground(colorFg)
	tableAltCellStyle = cell.Foreground(colorHighlight)
	tableSummaryStyle = cell.Bold(true).Foreground(colorFg).Background(colorSummaryBg)
)

// Frame
var (
	activeTabStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(colorPrimary).
			Border(lipgloss.NormalBorder(), false, false, true, false).
			BorderForeground(colorPrimary).
			Padding(0, 2)
	inactiveTabStyle = lipgloss.NewStyle().Foreground(colorMuted).Padding(0, 2)

	panelStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorSubtle).
			Padding(1, 2)
	activePanelStyle = panelStyle.BorderForeground(colorPrimary)

	headerStyle = cell
	footerStyle = cell.Foreground(colorMuted)
)

// Text
var (
	titleStyle     = lipgloss.NewStyle().Bold(true).Foreground(colorFg)
	subtitleStyle  = lipgloss.NewStyle().Foreground(colorSecondary)
	mutedStyle     = lipgloss.NewStyle().Foreground(colorMuted)
	highlightStyle = lipgloss.NewStyle().Foreground(colorHighlight)
	successStyle   = lipgloss.NewStyle().Foreground(colorSuccess)
	warningStyle   = lipgloss.NewStyle().Foreground(colorWarning)
	errorStyle     = lipgloss.NewStyle().Foreground(colorError)

	// column list rows
	selectedItemStyle = lipgloss.NewStyle().Foreground(colorPrimary).Bold(true)
	normalItemStyle   = lipgloss.NewStyle().Foreground(colorFg)
)
