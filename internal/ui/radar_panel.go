package ui

// RenderRadarPanel wraps the terminal radar with a styled border.
func RenderRadarPanel(width, height int, radarContent, legend string) string {
	content := radarContent + "\n" + legend
	return StylePanelBorder.Width(width - 2).Height(height - 2).Render(content)
}
