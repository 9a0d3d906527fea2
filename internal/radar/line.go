package radar

// Line plots every integer point from (x0, y0) to (x1, y1) inclusive using
// Bresenham's algorithm. It always visits max(|dx|, |dy|)+1 points.
func Line(c Canvas, x0, y0, x1, y1 int) {
	dx, sx := abs(x1-x0), sign(x0, x1)
	dy, sy := -abs(y1-y0), sign(y0, y1)
	err := dx + dy

	for {
		c.FillUnitRect(x0, y0)
		if x0 == x1 && y0 == y1 {
			return
		}
		e2 := 2 * err
		if e2 >= dy {
			err += dy
			x0 += sx
		}
		if e2 <= dx {
			err += dx
			y0 += sy
		}
	}
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

func sign(from, to int) int {
	if from < to {
		return 1
	}
	return -1
}
