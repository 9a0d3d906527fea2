package radar

import (
	"fmt"
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"lidar-radar.klederson.com/internal/config"
)

var (
	colorBright   = lipgloss.Color("#00FF41")
	colorMid      = lipgloss.Color("#008F11")
	colorDim      = lipgloss.Color("#004A0A")
	colorSelected = lipgloss.Color("#FFCC00")

	styleCenter   = lipgloss.NewStyle().Foreground(colorBright).Bold(true)
	styleRing     = lipgloss.NewStyle().Foreground(colorMid)
	styleDot      = lipgloss.NewStyle().Foreground(colorDim)
	styleSelected = lipgloss.NewStyle().Foreground(colorSelected).Bold(true)
	styleWedge    = lipgloss.NewStyle().Foreground(lipgloss.Color("#665200"))
	styleLegend   = lipgloss.NewStyle().Foreground(colorMid)
)

// cell is the canvas block covered by one terminal character.
type cell struct {
	x0, y0, x1, y1 int
}

func (c cell) center() (float64, float64) {
	return float64(c.x0+c.x1) / 2, float64(c.y0+c.y1) / 2
}

func (c cell) contains(x, y int) bool {
	return x >= c.x0 && x < c.x1 && y >= c.y0 && y < c.y1
}

// TerminalSize returns the character grid used to show the canvas inside a
// width x height area. Terminal cells are about twice as tall as wide.
func TerminalSize(width, height int) (cols, rows int) {
	cols = width
	rows = cols * config.CanvasHeight / config.CanvasWidth / 2
	if rows > height {
		rows = height
		cols = rows * 2 * config.CanvasWidth / config.CanvasHeight
	}
	return max(cols, 1), max(rows, 1)
}

// RenderTerminal downsamples the canvas to a styled character grid of the
// given size. Spokes in the selected bucket are highlighted; pass -1 for none.
func RenderTerminal(width, height int, pix *Pixels, selected int) string {
	if width < 10 || height < 5 {
		return ""
	}

	cols, rows := TerminalSize(width, height)
	padLeft := strings.Repeat(" ", (width-cols)/2)
	padTop := (height - rows) / 2
	cellPx := float64(config.CanvasWidth) / float64(cols)

	var sb strings.Builder
	for i := 0; i < padTop; i++ {
		sb.WriteByte('\n')
	}
	for row := 0; row < rows; row++ {
		sb.WriteString(padLeft)
		for col := 0; col < cols; col++ {
			c := cell{
				x0: col * config.CanvasWidth / cols,
				y0: row * config.CanvasHeight / rows,
				x1: max((col+1)*config.CanvasWidth/cols, col*config.CanvasWidth/cols+1),
				y1: max((row+1)*config.CanvasHeight/rows, row*config.CanvasHeight/rows+1),
			}
			sb.WriteString(renderCell(c, pix, cellPx, selected))
		}
		if row < rows-1 {
			sb.WriteByte('\n')
		}
	}
	return sb.String()
}

func renderCell(c cell, pix *Pixels, cellPx float64, selected int) string {
	lit := 0
	for y := c.y0; y < c.y1 && y < config.CanvasHeight; y++ {
		for x := c.x0; x < c.x1 && x < config.CanvasWidth; x++ {
			if pix[y][x] == Foreground {
				lit++
			}
		}
	}

	px, py := c.center()
	dist := PixelDistance(px, py)
	angle := PixelAngle(px, py)
	inSelected := selected >= 0 && BucketAt(angle) == selected

	if c.contains(config.CenterX, config.CenterY) {
		return styleCenter.Render("+")
	}

	if lit > 0 {
		frac := float64(lit) / float64(max(c.x1-c.x0, c.y1-c.y0))
		ch := spokeChar(frac)
		if inSelected {
			return styleSelected.Render(ch)
		}
		return lipgloss.NewStyle().Foreground(lipgloss.Color(spokeColor(frac))).Render(ch)
	}

	if dist > config.OuterRadius+cellPx {
		return " "
	}

	for _, ringR := range []float64{config.OuterRadius, config.OuterRadius / 2} {
		if math.Abs(dist-ringR) < cellPx*0.6 {
			if inSelected {
				return styleWedge.Render(string(RingChar(angle)))
			}
			return styleRing.Render(string(RingChar(angle)))
		}
	}

	if dist <= config.OuterRadius {
		if inSelected {
			return styleWedge.Render(".")
		}
		return styleDot.Render(".")
	}

	return " "
}

func spokeChar(frac float64) string {
	if frac >= 0.75 {
		return "#"
	}
	if frac >= 0.35 {
		return "*"
	}
	return "'"
}

func spokeColor(frac float64) string {
	if frac >= 0.75 {
		return "#00FF41"
	}
	if frac >= 0.35 {
		return "#00CC33"
	}
	return "#00AA22"
}

// RenderLegend produces the radar legend line.
func RenderLegend(width int) string {
	legend := styleLegend.Render(fmt.Sprintf("   # return   inner ring %.0fu   outer ring %.0fu+   ",
		config.FarThreshold/2, config.FarThreshold)) +
		styleSelected.Render("# selected")

	pad := (width - lipgloss.Width(legend)) / 2
	if pad < 0 {
		pad = 0
	}
	return strings.Repeat(" ", pad) + legend
}
