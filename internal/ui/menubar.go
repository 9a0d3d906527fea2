package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"lidar-radar.klederson.com/internal/config"
)

// RenderMenuBar renders the top menu bar. source names the sensor port.
func RenderMenuBar(width int, source string, scanning bool) string {
	title := fmt.Sprintf(" %s v%s ", config.AppName, config.AppVersion)

	keys := []struct{ key, label string }{
		{"S", "can"},
		{"P", "ause"},
		{"Enter", " detail"},
		{"Q", "uit"},
	}

	menu := ""
	for _, k := range keys {
		menu += "  " + StyleMenuKey.Render("["+k.key+"]") + StyleMenuLabel.Render(k.label)
	}

	status := ""
	if scanning {
		status = StyleStatusScanning.Render("SCANNING")
	} else {
		status = StyleStatusPaused.Render("PAUSED")
	}

	sourceInfo := StyleMenuLabel.Render(fmt.Sprintf("Sensor: %s", source))

	left := StyleMenuKey.Render(title) + menu
	right := status + "  " + sourceInfo + " "

	gap := width - 2 - lipgloss.Width(left) - lipgloss.Width(right)
	if gap < 0 {
		gap = 0
	}

	return StyleMenuBar.Width(width).Render(left + strings.Repeat(" ", gap) + right)
}
