package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
)

// StatusInfo is what the status bar reports about the scanner.
type StatusInfo struct {
	Scanning     bool
	State        string
	Cycles       uint64
	Frames       uint64
	SyncFailures uint64
	Timeouts     uint64
	Errors       uint64
	Offset       int
	Duration     time.Duration
	Err          error
}

// RenderStatusBar renders the bottom status bar.
func RenderStatusBar(width int, s StatusInfo) string {
	status := ""
	switch {
	case s.Err != nil:
		status = StyleStatusError.Render("[STOPPED]")
	case s.Scanning:
		status = StyleStatusScanning.Render("[SCANNING]")
	default:
		status = StyleStatusPaused.Render("[PAUSED]")
	}

	info := fmt.Sprintf(" %-10s Cycles: %d  Frames: %d  Sync fail: %d  Timeouts: %d  Offset: %d  Cycle: %dms",
		s.State, s.Cycles, s.Frames, s.SyncFailures, s.Timeouts, s.Offset, s.Duration.Milliseconds())
	if s.Errors > 0 {
		info += fmt.Sprintf("  Errors: %d", s.Errors)
	}

	content := status + StyleStatusBar.Foreground(ColorGreen).Render(info)
	if s.Err != nil {
		content += StyleStatusError.Render("  " + s.Err.Error())
	}

	gap := width - 2 - lipgloss.Width(content)
	if gap < 0 {
		gap = 0
	}

	return StyleStatusBar.Width(width).Render(content + strings.Repeat(" ", gap))
}
