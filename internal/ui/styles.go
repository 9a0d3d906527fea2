package ui

import "github.com/charmbracelet/lipgloss"

// Matrix color palette
var (
	ColorMatrixGreen  = lipgloss.Color("#00FF41")
	ColorGreen        = lipgloss.Color("#00CC33")
	ColorMidGreen     = lipgloss.Color("#008F11")
	ColorDimGreen     = lipgloss.Color("#004A0A")
	ColorBorderBright = lipgloss.Color("#00FF41")
	ColorBorderNorm   = lipgloss.Color("#00AA22")
	ColorError        = lipgloss.Color("#FF3300")
	ColorWarning      = lipgloss.Color("#FFAA00")
	ColorFar          = lipgloss.Color("#FFCC00")
)

// Pre-built styles
var (
	StyleMenuBar = lipgloss.NewStyle().
			Background(lipgloss.Color("#002200")).
			Foreground(ColorMatrixGreen).
			Bold(true).
			Padding(0, 1)

	StyleMenuKey = lipgloss.NewStyle().
			Foreground(ColorMatrixGreen).
			Bold(true)

	StyleMenuLabel = lipgloss.NewStyle().
			Foreground(ColorGreen)

	StyleStatusBar = lipgloss.NewStyle().
			Background(lipgloss.Color("#002200")).
			Foreground(ColorGreen).
			Padding(0, 1)

	StyleStatusScanning = lipgloss.NewStyle().
				Foreground(ColorMatrixGreen).
				Bold(true)

	StyleStatusPaused = lipgloss.NewStyle().
				Foreground(ColorWarning).
				Bold(true)

	StyleStatusError = lipgloss.NewStyle().
				Foreground(ColorError).
				Bold(true)

	StylePanelBorder = lipgloss.NewStyle().
				Border(lipgloss.RoundedBorder()).
				BorderForeground(ColorBorderNorm)

	StylePanelActive = lipgloss.NewStyle().
				Border(lipgloss.RoundedBorder()).
				BorderForeground(ColorBorderBright)

	StylePanelTitle = lipgloss.NewStyle().
			Foreground(ColorMatrixGreen).
			Bold(true).
			Padding(0, 1)

	StyleBucketAngle = lipgloss.NewStyle().
				Foreground(ColorMidGreen)

	StyleBucketValue = lipgloss.NewStyle().
				Foreground(ColorMatrixGreen).
				Bold(true)

	StyleBucketFar = lipgloss.NewStyle().
			Foreground(ColorFar)

	StyleBucketEmpty = lipgloss.NewStyle().
				Foreground(ColorDimGreen)

	StyleSeparator = lipgloss.NewStyle().
			Foreground(ColorMidGreen)

	StyleHelp = lipgloss.NewStyle().
			Foreground(ColorDimGreen)
)
