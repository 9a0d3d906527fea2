// Package lidar decodes the scan frames streamed by the range sensor and
// reduces them to the angular histogram shown on the radar.
package lidar

import (
	"errors"

	"lidar-radar.klederson.com/internal/config"
)

// ErrSyncFailure is returned by Locate when no record boundary exists in the
// sync window. The cycle that produced the frame must be dropped.
var ErrSyncFailure = errors.New("lidar: no record boundary in sync window")

// RawFrame holds the bytes of one receive cycle.
type RawFrame [config.FrameSize]byte

// Command is a two-byte sensor request.
type Command [2]byte

var (
	StartScan = Command{config.CommandPrefix, config.StartScanCode}
	StopScan  = Command{config.CommandPrefix, config.StopScanCode}
)

// IsMarker reports whether b is one of the quality bytes seen at record starts.
func IsMarker(b byte) bool {
	return b == config.MarkerPrimary || b == config.MarkerFallback
}

// Locate returns the first offset in the sync window where a marker byte is
// followed by another marker one record stride later.
func Locate(frame *RawFrame) (int, error) {
	for i := 0; i < config.SyncWindow; i++ {
		if IsMarker(frame[i]) && IsMarker(frame[i+config.RecordSize]) {
			return i, nil
		}
	}
	return 0, ErrSyncFailure
}
