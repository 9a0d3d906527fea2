package ui

import (
	"fmt"
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"lidar-radar.klederson.com/internal/config"
	"lidar-radar.klederson.com/internal/radar"
)

// BucketDetail is everything the detail panel shows for one bucket.
type BucketDetail struct {
	Index   int
	Average float64
	Count   int
	Quality float64
	Point   radar.Point
	History []float64 // chronological bucket averages
}

// RenderDetailPanel renders the bucket detail overlay that replaces the radar area.
func RenderDetailPanel(d BucketDetail, width, height int) string {
	innerW := width - 4
	if innerW < 20 {
		innerW = 20
	}

	title := StylePanelTitle.Render(fmt.Sprintf("BUCKET %02d", d.Index))
	escHint := StyleHelp.Render("[ESC]")
	titleLine := title + strings.Repeat(" ", max(0, innerW-lipgloss.Width(title)-lipgloss.Width(escHint))) + escHint

	sep := StyleSeparator.Render(strings.Repeat("-", innerW))

	lines := []string{titleLine, sep, ""}

	labelSty := lipgloss.NewStyle().Foreground(ColorMidGreen)
	valSty := lipgloss.NewStyle().Foreground(ColorMatrixGreen).Bold(true)

	lo := float64(d.Index) * config.BucketSpanDeg
	x, y := d.Point.Pixel()
	fields := []struct{ label, value string }{
		{"Span", fmt.Sprintf("%.0f-%.0f deg", lo, lo+config.BucketSpanDeg)},
		{"Average", strings.TrimSpace(bucketValue(d.Average, d.Count))},
		{"Samples", fmt.Sprintf("%d", d.Count)},
		{"Quality", fmt.Sprintf("%.1f", d.Quality)},
		{"Radius", fmt.Sprintf("%.1f px", radar.UnitsToRadius(d.Average))},
		{"Endpoint", fmt.Sprintf("(%d, %d)", x, y)},
	}

	for _, f := range fields {
		label := labelSty.Render(fmt.Sprintf("  %-10s", f.label))
		lines = append(lines, label+valSty.Render(f.value))
	}

	lines = append(lines, "")

	barWidth := innerW - 22
	if barWidth < 10 {
		barWidth = 10
	}
	lines = append(lines, labelSty.Render("  Range  ")+renderRangeBar(d.Average, barWidth))

	lines = append(lines, "")

	if len(d.History) > 0 {
		sparkW := innerW - 4
		if sparkW < 10 {
			sparkW = 10
		}
		lines = append(lines, labelSty.Render("  History:"))
		spark := renderSparkline(d.History, sparkW)
		lines = append(lines, "  "+lipgloss.NewStyle().Foreground(ColorGreen).Render(spark))
	}

	lines = append(lines, "")

	dialH := height - len(lines) - 5
	if dialH < 5 {
		dialH = 5
	}
	dialW := innerW
	if dialW > dialH*3 {
		dialW = dialH * 3
	}

	dial := RenderBearing(dialW, dialH, radar.BucketAngle(d.Index), d.Average)
	if dial != "" {
		prefix := strings.Repeat(" ", max(0, (innerW-dialW)/2))
		for _, dl := range strings.Split(dial, "\n") {
			lines = append(lines, prefix+dl)
		}
	}

	for len(lines) < height-2 {
		lines = append(lines, "")
	}
	if len(lines) > height-2 {
		lines = lines[:max(height-2, 0)]
	}

	content := strings.Join(lines, "\n")
	return StylePanelActive.Width(width - 2).Height(height - 2).Render(content)
}

// renderRangeBar fills proportionally to the display radius of avg.
func renderRangeBar(avg float64, width int) string {
	ratio := radar.UnitsToRadius(avg) / config.OuterRadius
	filled := int(math.Round(math.Min(math.Max(ratio, 0), 1) * float64(width)))

	bar := strings.Repeat("|", filled) + strings.Repeat("-", width-filled)
	filledPart := lipgloss.NewStyle().Foreground(lipgloss.Color(proximityColor(avg))).Render(bar[:filled])
	emptyPart := lipgloss.NewStyle().Foreground(ColorDimGreen).Render(bar[filled:])
	return StyleHelp.Render("[") + filledPart + emptyPart + StyleHelp.Render("]")
}

func renderSparkline(values []float64, width int) string {
	if len(values) == 0 {
		return ""
	}

	chars := []byte{'_', '.', '-', '~', '^'}

	// Take last `width` values
	if len(values) > width {
		values = values[len(values)-width:]
	}

	minV, maxV := values[0], values[0]
	for _, v := range values {
		minV = math.Min(minV, v)
		maxV = math.Max(maxV, v)
	}

	rng := maxV - minV
	if rng < 0.01 {
		rng = 0.01
	}

	var sb strings.Builder
	for _, v := range values {
		idx := int((v - minV) / rng * float64(len(chars)-1))
		idx = min(max(idx, 0), len(chars)-1)
		sb.WriteByte(chars[idx])
	}

	return sb.String()
}
