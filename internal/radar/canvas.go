package radar

import (
	"image"
	"image/color"
	"image/png"
	"io"
	"sync"

	"lidar-radar.klederson.com/internal/config"
)

// Color selects one of the two inks the rasterizer uses.
type Color uint8

const (
	Background Color = iota
	Foreground
)

// Canvas is the drawing surface the rasterizer needs.
type Canvas interface {
	SetColor(c Color)
	FillUnitRect(x, y int)
}

// Batcher is implemented by canvases that can apply a group of drawing calls
// atomically with respect to readers.
type Batcher interface {
	Batch(fn func(c Canvas))
}

// Pixels is the raw content of a Framebuffer.
type Pixels [config.CanvasHeight][config.CanvasWidth]Color

// Framebuffer is an in-memory Canvas safe for concurrent drawing and reading.
type Framebuffer struct {
	mu  sync.RWMutex
	ink Color
	pix Pixels
}

// NewFramebuffer creates a cleared framebuffer.
func NewFramebuffer() *Framebuffer {
	return &Framebuffer{ink: Foreground}
}

func (fb *Framebuffer) SetColor(c Color) {
	fb.mu.Lock()
	defer fb.mu.Unlock()
	fb.ink = c
}

// FillUnitRect paints one pixel in the current color. Out of range
// coordinates are clipped.
func (fb *Framebuffer) FillUnitRect(x, y int) {
	fb.mu.Lock()
	defer fb.mu.Unlock()
	fb.fill(x, y)
}

func (fb *Framebuffer) fill(x, y int) {
	if x < 0 || y < 0 || x >= config.CanvasWidth || y >= config.CanvasHeight {
		return
	}
	fb.pix[y][x] = fb.ink
}

// Batch runs fn with exclusive access to the framebuffer.
func (fb *Framebuffer) Batch(fn func(c Canvas)) {
	fb.mu.Lock()
	defer fb.mu.Unlock()
	fn(lockedFramebuffer{fb})
}

// Snapshot returns a copy of the pixels.
func (fb *Framebuffer) Snapshot() *Pixels {
	fb.mu.RLock()
	defer fb.mu.RUnlock()
	cp := fb.pix
	return &cp
}

// Count returns the number of pixels painted in c.
func (fb *Framebuffer) Count(c Color) int {
	snap := fb.Snapshot()
	n := 0
	for y := range snap {
		for x := range snap[y] {
			if snap[y][x] == c {
				n++
			}
		}
	}
	return n
}

// Image converts the framebuffer to an RGBA image using the given inks.
func (fb *Framebuffer) Image(bg, fg color.Color) *image.RGBA {
	snap := fb.Snapshot()
	img := image.NewRGBA(image.Rect(0, 0, config.CanvasWidth, config.CanvasHeight))
	for y := range snap {
		for x := range snap[y] {
			if snap[y][x] == Foreground {
				img.Set(x, y, fg)
			} else {
				img.Set(x, y, bg)
			}
		}
	}
	return img
}

// WritePNG encodes the framebuffer as a PNG with the radar palette.
func (fb *Framebuffer) WritePNG(w io.Writer) error {
	bg := color.RGBA{A: 0xFF}
	fg := color.RGBA{R: 0x00, G: 0xFF, B: 0x41, A: 0xFF}
	return png.Encode(w, fb.Image(bg, fg))
}

// lockedFramebuffer draws without taking the lock; used inside Batch.
type lockedFramebuffer struct {
	fb *Framebuffer
}

func (l lockedFramebuffer) SetColor(c Color) { l.fb.ink = c }

func (l lockedFramebuffer) FillUnitRect(x, y int) { l.fb.fill(x, y) }
