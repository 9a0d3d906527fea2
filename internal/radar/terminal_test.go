package radar

import (
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"
	"github.com/stretchr/testify/assert"

	"lidar-radar.klederson.com/internal/lidar"
)

func TestTerminalSize(t *testing.T) {
	cols, rows := TerminalSize(80, 100)
	assert.Equal(t, 80, cols)
	assert.Equal(t, 30, rows)

	cols, rows = TerminalSize(200, 15)
	assert.Equal(t, 40, cols)
	assert.Equal(t, 15, rows)
}

func TestRenderTerminal_TooSmall(t *testing.T) {
	fb := NewFramebuffer()
	assert.Empty(t, RenderTerminal(5, 5, fb.Snapshot(), -1))
}

func TestRenderTerminal_Dimensions(t *testing.T) {
	fb := NewFramebuffer()
	var avg lidar.Averages
	for i := range avg {
		avg[i] = 1.5
	}
	NewRasterizer(fb).Draw(&avg)

	out := RenderTerminal(80, 30, fb.Snapshot(), 0)
	lines := strings.Split(out, "\n")
	assert.Len(t, lines, 30)
	for _, l := range lines {
		assert.LessOrEqual(t, lipgloss.Width(l), 80)
	}
	assert.Contains(t, out, "+")
	assert.Contains(t, out, "#")
}

func TestRenderLegend(t *testing.T) {
	assert.Contains(t, RenderLegend(80), "selected")
}
