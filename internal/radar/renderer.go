package radar

import (
	"sync"

	"lidar-radar.klederson.com/internal/config"
	"lidar-radar.klederson.com/internal/lidar"
)

// DisplayPoints holds the endpoint currently drawn for each bucket.
type DisplayPoints [config.BucketCount]Point

// InitialPoints returns the endpoints assumed drawn before the first frame.
func InitialPoints() DisplayPoints {
	return DisplayPoints{}
}

// Render erases the previous spokes, draws one spoke per bucket for the new
// averages and returns the endpoints it drew.
func Render(c Canvas, averages *lidar.Averages, prev DisplayPoints) DisplayPoints {
	cx, cy := Center.Pixel()

	c.SetColor(Background)
	for _, p := range prev {
		x, y := p.Pixel()
		Line(c, cx, cy, x, y)
	}

	var next DisplayPoints
	c.SetColor(Foreground)
	for i, avg := range averages {
		next[i] = PointFor(i, avg)
		x, y := next[i].Pixel()
		Line(c, cx, cy, x, y)
	}
	return next
}

// Rasterizer keeps the drawn endpoints between frames and serializes renders
// onto its canvas.
type Rasterizer struct {
	mu     sync.Mutex
	canvas Canvas
	points DisplayPoints
	frames int
}

// NewRasterizer creates a rasterizer drawing on c.
func NewRasterizer(c Canvas) *Rasterizer {
	return &Rasterizer{
		canvas: c,
		points: InitialPoints(),
	}
}

// Draw renders a new set of averages, erasing the previous frame first.
func (r *Rasterizer) Draw(averages *lidar.Averages) DisplayPoints {
	r.mu.Lock()
	defer r.mu.Unlock()

	if b, ok := r.canvas.(Batcher); ok {
		b.Batch(func(c Canvas) {
			r.points = Render(c, averages, r.points)
		})
	} else {
		r.points = Render(r.canvas, averages, r.points)
	}
	r.frames++
	return r.points
}

// Points returns the endpoints last drawn in the foreground color.
func (r *Rasterizer) Points() DisplayPoints {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.points
}

// Frames returns the number of completed renders.
func (r *Rasterizer) Frames() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.frames
}
