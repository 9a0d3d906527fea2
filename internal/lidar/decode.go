package lidar

import (
	"math"

	"lidar-radar.klederson.com/internal/config"
)

// Sample is one decoded record.
type Sample struct {
	Quality  byte
	Angle    float64 // Degrees
	Distance float64 // Working units, [0, 12]
}

// Samples holds every record decoded from one frame.
type Samples [config.SampleCount]Sample

// MaxOffset is the largest boundary offset whose records all fit in a frame.
const MaxOffset = config.FrameSize - config.SampleCount*config.RecordSize

// Decode extracts SampleCount records starting at offset. The caller must
// pass an offset obtained from Locate (or otherwise <= MaxOffset).
func Decode(frame *RawFrame, offset int) Samples {
	var s Samples
	DecodeQualities(frame, offset, &s)
	DecodeAngles(frame, offset, &s)
	DecodeDistances(frame, offset, &s)
	return s
}

// DecodeQualities fills the Quality field of every sample.
func DecodeQualities(frame *RawFrame, offset int, s *Samples) {
	for i := range s {
		s[i].Quality = frame[offset+i*config.RecordSize]
	}
}

// DecodeAngles fills the Angle field of every sample. The low bit of the
// first angle byte is a flag and is masked off.
func DecodeAngles(frame *RawFrame, offset int, s *Samples) {
	for i := range s {
		base := offset + i*config.RecordSize
		s[i].Angle = AngleFromBytes(frame[base+1], frame[base+2])
	}
}

// DecodeDistances fills the Distance field of every sample.
func DecodeDistances(frame *RawFrame, offset int, s *Samples) {
	for i := range s {
		base := offset + i*config.RecordSize
		s[i].Distance = DistanceFromBytes(frame[base+3], frame[base+4])
	}
}

// AngleFromBytes converts the two angle bytes of a record to degrees.
func AngleFromBytes(lo, hi byte) float64 {
	return float64(int(lo&0xFE)+int(hi)*128) / config.AngleDivisor
}

// DistanceFromBytes converts the little-endian distance bytes of a record to
// working units.
func DistanceFromBytes(lo, hi byte) float64 {
	return float64(int(lo)+int(hi)*256) / config.DistanceFull * config.DistanceFactor
}

// EncodeRecord is the inverse of the decoders. Angles are quantised to the
// nearest representable value (1/32 degree steps) and distances are clamped
// to the full-scale range.
func EncodeRecord(quality byte, angle, distance float64) [config.RecordSize]byte {
	rawAngle := int(math.Round(angle*config.AngleDivisor/2)) * 2
	if rawAngle < 0 {
		rawAngle = 0
	}
	if maxAngle := 0xFE + 0xFF*128; rawAngle > maxAngle {
		rawAngle = maxAngle
	}
	hi := rawAngle / 128
	lo := rawAngle - hi*128
	if hi > 0xFF {
		lo += (hi - 0xFF) * 128
		hi = 0xFF
	}

	rawDist := math.Round(distance / config.DistanceFactor * config.DistanceFull)
	rawDist = math.Max(0, math.Min(config.DistanceFull, rawDist))
	d := uint16(rawDist)

	// Low bit of the first angle byte is the sensor's check bit.
	return [config.RecordSize]byte{quality, byte(lo) | 1, byte(hi), byte(d), byte(d >> 8)}
}
