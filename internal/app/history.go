package app

import (
	"lidar-radar.klederson.com/internal/config"
	"lidar-radar.klederson.com/internal/lidar"
)

// DistanceRing is a circular buffer of bucket averages, newest last.
type DistanceRing struct {
	buf   []float64
	pos   int
	count int
}

// NewDistanceRing creates a ring holding up to capacity values.
func NewDistanceRing(capacity int) *DistanceRing {
	if capacity < 1 {
		capacity = 1
	}
	return &DistanceRing{
		buf: make([]float64, capacity),
	}
}

// Push adds a value, overwriting the oldest once full.
func (r *DistanceRing) Push(val float64) {
	r.buf[r.pos] = val
	r.pos = (r.pos + 1) % len(r.buf)
	if r.count < len(r.buf) {
		r.count++
	}
}

// Values returns all stored values in chronological order.
func (r *DistanceRing) Values() []float64 {
	if r.count == 0 {
		return nil
	}
	result := make([]float64, r.count)
	if r.count < len(r.buf) {
		copy(result, r.buf[:r.count])
	} else {
		n := copy(result, r.buf[r.pos:])
		copy(result[n:], r.buf[:r.pos])
	}
	return result
}

// BucketHistory keeps one ring per angular bucket.
type BucketHistory [config.BucketCount]*DistanceRing

func NewBucketHistory(capacity int) *BucketHistory {
	var h BucketHistory
	for i := range h {
		h[i] = NewDistanceRing(capacity)
	}
	return &h
}

// Record appends one frame of averages.
func (h *BucketHistory) Record(avg *lidar.Averages) {
	for i, v := range avg {
		h[i].Push(v)
	}
}
