package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"lidar-radar.klederson.com/internal/config"
	"lidar-radar.klederson.com/internal/lidar"
)

// Cursor row style: black text on bright green = unmissable highlight
var cursorRowSty = lipgloss.NewStyle().
	Foreground(lipgloss.Color("#000000")).
	Background(ColorMatrixGreen).
	Bold(true)

// RenderBucketList renders the scrollable per-bucket list with a cursor.
// The header stays fixed at the top; only the bucket rows scroll.
func RenderBucketList(h *lidar.Histogram, width, height int, cursor int) string {
	innerW := width - 4
	if innerW < 10 {
		innerW = 10
	}

	returns := 0
	for _, n := range h.Counts {
		if n > 0 {
			returns++
		}
	}

	title := StylePanelTitle.Render(fmt.Sprintf("BUCKETS [%d/%d]", returns, config.BucketCount))
	separator := StyleSeparator.Render(strings.Repeat("-", innerW))
	headerLines := []string{title, separator}

	innerH := height - 2
	if innerH < len(headerLines)+1 {
		innerH = len(headerLines) + 1
	}
	rowSpace := innerH - len(headerLines)

	// Keep the cursor inside the viewport
	viewStart := 0
	if cursor >= rowSpace {
		viewStart = cursor - rowSpace + 1
	}

	rows := make([]string, 0, rowSpace)
	for i := viewStart; i < config.BucketCount && len(rows) < rowSpace; i++ {
		rows = append(rows, renderBucketRow(h, i, innerW, i == cursor))
	}
	for len(rows) < rowSpace {
		rows = append(rows, "")
	}

	all := append(headerLines, rows...)
	content := strings.Join(all, "\n")
	rendered := StylePanelBorder.Width(width - 2).Height(innerH).Render(content)

	// lipgloss Height() only sets a minimum; clamp to exactly `height` lines.
	outLines := strings.Split(rendered, "\n")
	if len(outLines) > height {
		outLines = outLines[:height]
	}
	for len(outLines) < height {
		outLines = append(outLines, "")
	}
	return strings.Join(outLines, "\n")
}

func renderBucketRow(h *lidar.Histogram, i, maxW int, isCursor bool) string {
	lo := float64(i) * config.BucketSpanDeg
	span := fmt.Sprintf("%03.0f-%03.0f", lo, lo+config.BucketSpanDeg)
	value := bucketValue(h.Averages[i], h.Counts[i])
	count := fmt.Sprintf("n=%d", h.Counts[i])

	if isCursor {
		raw := fmt.Sprintf(">> %s %s %s", span, value, count)
		return cursorRowSty.Render(truncRaw(raw, maxW))
	}

	valSty := StyleBucketValue
	switch {
	case h.Counts[i] == 0:
		valSty = StyleBucketEmpty
	case h.Averages[i] > config.FarThreshold:
		valSty = StyleBucketFar
	}
	raw := fmt.Sprintf("   %s %s %s", span, value, count)
	if len(raw) > maxW {
		return truncRaw(raw, maxW)
	}
	return "   " + StyleBucketAngle.Render(span) + " " + valSty.Render(value) + " " + StyleHelp.Render(count)
}

// bucketValue formats an average for display. Buckets with no samples show
// dashes; averages past the far threshold are tagged.
func bucketValue(avg float64, count int) string {
	switch {
	case count == 0:
		return "   --  "
	case avg > config.FarThreshold:
		return fmt.Sprintf("%5.2fu+", avg)
	default:
		return fmt.Sprintf("%6.3fu", avg)
	}
}

// truncRaw pads or truncates a raw string to exactly w characters.
func truncRaw(s string, w int) string {
	if len(s) > w {
		return s[:w]
	}
	if len(s) < w {
		return s + strings.Repeat(" ", w-len(s))
	}
	return s
}
