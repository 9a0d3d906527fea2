package radar

import (
	"math"

	"lidar-radar.klederson.com/internal/config"
)

// Point is a canvas position. Stored unrounded; drawing truncates toward zero.
type Point struct {
	X, Y float64
}

// Pixel returns the integer canvas coordinates of p.
func (p Point) Pixel() (int, int) {
	return int(p.X), int(p.Y)
}

// Center is the radar origin on the canvas.
var Center = Point{X: config.CenterX, Y: config.CenterY}

// BucketAngle returns the direction of bucket i in radians. 0 points along
// +x and angles grow towards +y (clockwise on screen).
func BucketAngle(i int) float64 {
	return float64(i) * (2 * math.Pi / config.BucketCount)
}

// UnitsToRadius converts a bucket average to a pixel radius. Averages above
// the far threshold mean "too far or no return" and clamp to the outer ring.
func UnitsToRadius(units float64) float64 {
	if units > config.FarThreshold {
		return config.OuterRadius
	}
	return config.PixelsPerUnit * units
}

// PointFor returns the endpoint drawn for bucket i with the given average.
func PointFor(i int, avg float64) Point {
	theta := BucketAngle(i)
	r := UnitsToRadius(avg)
	return Point{
		X: config.CenterX + r*math.Cos(theta),
		Y: config.CenterY + r*math.Sin(theta),
	}
}

// PixelDistance computes the distance from a canvas position to the center.
func PixelDistance(x, y float64) float64 {
	return math.Hypot(x-config.CenterX, y-config.CenterY)
}

// PixelAngle computes the angle from the center to a canvas position, using
// the same orientation as BucketAngle. Returns radians in [0, 2π).
func PixelAngle(x, y float64) float64 {
	return NormalizeAngle(math.Atan2(y-config.CenterY, x-config.CenterX))
}

// BucketAt returns the bucket whose direction span contains angle.
func BucketAt(angle float64) int {
	span := 2 * math.Pi / config.BucketCount
	return int(NormalizeAngle(angle)/span) % config.BucketCount
}

// RingChar returns the appropriate character for a ring at the given angle.
func RingChar(angle float64) rune {
	sector := int(math.Round(NormalizeAngle(angle)/(math.Pi/4))) % 8

	switch sector {
	case 0, 4: // East, West
		return '|'
	case 1, 5: // SE, NW
		return '/'
	case 2, 6: // South, North
		return '-'
	case 3, 7: // SW, NE
		return '\\'
	default:
		return '.'
	}
}

// NormalizeAngle wraps an angle to [0, 2π).
func NormalizeAngle(a float64) float64 {
	a = math.Mod(a, 2*math.Pi)
	if a < 0 {
		a += 2 * math.Pi
	}
	return a
}
