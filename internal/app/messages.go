package app

import "time"

// TickMsg triggers a redraw from the framebuffer.
type TickMsg time.Time

// ScanErrorMsg reports that the scanner loop stopped with an error.
type ScanErrorMsg struct {
	Err error
}
