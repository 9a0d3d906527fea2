package ui

import "github.com/charmbracelet/lipgloss"

// ComposeLayout joins the main panel and bucket list horizontally,
// with menu bar on top and status bar on bottom.
func ComposeLayout(menuBar, mainPanel, bucketList, statusBar string, width int) string {
	middle := lipgloss.JoinHorizontal(lipgloss.Top, mainPanel, bucketList)
	return lipgloss.PlaceHorizontal(width, lipgloss.Left,
		lipgloss.JoinVertical(lipgloss.Left, menuBar, middle, statusBar))
}
