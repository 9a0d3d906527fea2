package ui

import (
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"lidar-radar.klederson.com/internal/config"
	"lidar-radar.klederson.com/internal/radar"
)

// RenderBearing draws a small dial with an arrow along a bucket direction.
// angle: radians in canvas orientation (0 = east, clockwise), units: bucket
// average. The arrow length follows the display radius of the average.
func RenderBearing(width, height int, angle, units float64) string {
	if width < 9 || height < 5 {
		return ""
	}

	grid := make([][]byte, height)
	isArrow := make([][]bool, height)
	for i := range grid {
		grid[i] = make([]byte, width)
		isArrow[i] = make([]bool, width)
		for j := range grid[i] {
			grid[i][j] = ' '
		}
	}

	fcx := float64(width) / 2.0
	fcy := float64(height) / 2.0
	rx := math.Max(fcx-2.0, 3) // horizontal radius in columns
	ry := math.Max(fcy-1.0, 2) // vertical radius in rows

	// Outer ring
	steps := 80
	for i := 0; i < steps; i++ {
		a := float64(i) * 2 * math.Pi / float64(steps)
		col := int(math.Round(fcx + rx*math.Cos(a)))
		row := int(math.Round(fcy + ry*math.Sin(a)))
		if col >= 0 && col < width && row >= 0 && row < height && grid[row][col] == ' ' {
			grid[row][col] = byte(radar.RingChar(a))
		}
	}

	cx := int(math.Round(fcx))
	cy := int(math.Round(fcy))

	// Faint axes
	for r := cy - int(ry) + 1; r < cy+int(ry); r++ {
		if r != cy && grid[r][cx] == ' ' {
			grid[r][cx] = ':'
		}
	}
	for c := cx - int(rx) + 1; c < cx+int(rx); c++ {
		if c != cx && grid[cy][c] == ' ' {
			grid[cy][c] = '.'
		}
	}

	setGrid(grid, width, height, cx, cy, '+')

	frac := radar.UnitsToRadius(units) / config.OuterRadius
	cosA := math.Cos(angle)
	sinA := math.Sin(angle)

	shaftSteps := int(math.Max(rx, ry) * frac)
	tipCol, tipRow := cx, cy
	for s := 1; s <= shaftSteps; s++ {
		t := float64(s) / float64(shaftSteps) * frac
		col := int(math.Round(fcx + t*rx*cosA))
		row := int(math.Round(fcy + t*ry*sinA))
		if col >= 0 && col < width && row >= 0 && row < height {
			grid[row][col] = shaftChar(angle)
			isArrow[row][col] = true
			tipCol, tipRow = col, row
		}
	}

	if tipCol != cx || tipRow != cy {
		tip := arrowTip(angle)
		if units > config.FarThreshold {
			tip = 'o'
		}
		grid[tipRow][tipCol] = tip
		isArrow[tipRow][tipCol] = true
	}

	arrowSty := lipgloss.NewStyle().Foreground(lipgloss.Color(proximityColor(units))).Bold(true)
	ringSty := lipgloss.NewStyle().Foreground(ColorDimGreen)
	axisSty := lipgloss.NewStyle().Foreground(lipgloss.Color("#003300"))
	markSty := lipgloss.NewStyle().Foreground(ColorMatrixGreen).Bold(true)

	var sb strings.Builder
	for row := 0; row < height; row++ {
		for col := 0; col < width; col++ {
			ch := grid[row][col]
			switch {
			case isArrow[row][col]:
				sb.WriteString(arrowSty.Render(string(ch)))
			case ch == '+':
				sb.WriteString(markSty.Render(string(ch)))
			case ch == ':' || ch == '.':
				sb.WriteString(axisSty.Render(string(ch)))
			case ch != ' ':
				sb.WriteString(ringSty.Render(string(ch)))
			default:
				sb.WriteByte(' ')
			}
		}
		if row < height-1 {
			sb.WriteByte('\n')
		}
	}

	return sb.String()
}

func setGrid(grid [][]byte, w, h, col, row int, ch byte) {
	if col >= 0 && col < w && row >= 0 && row < h {
		grid[row][col] = ch
	}
}

// shaftChar returns the line character for a screen direction.
func shaftChar(a float64) byte {
	switch directionSector(a) {
	case 0, 4: // E, W
		return '-'
	case 2, 6: // S, N
		return '|'
	case 1, 5: // SE, NW
		return '\\'
	default: // SW, NE
		return '/'
	}
}

// arrowTip returns the arrowhead character for a screen direction.
func arrowTip(a float64) byte {
	return ">\\v/<\\^/"[directionSector(a)]
}

// directionSector quantizes an angle to one of 8 compass sectors, 0 = east,
// counting clockwise.
func directionSector(a float64) int {
	return int(math.Round(radar.NormalizeAngle(a)/(math.Pi/4))) % 8
}

// proximityColor maps a bucket average to a green shade (brighter = closer).
func proximityColor(units float64) string {
	switch {
	case units > config.FarThreshold:
		return "#005511"
	case units > 1.5:
		return "#008F11"
	case units > 1.0:
		return "#00AA22"
	case units > 0.5:
		return "#00CC33"
	default:
		return "#00FF41"
	}
}
