package lidar

import (
	"gonum.org/v1/gonum/stat"

	"lidar-radar.klederson.com/internal/config"
)

// Averages holds the mean distance of each angular bucket.
type Averages [config.BucketCount]float64

// Histogram is the per-bucket reduction of one frame.
type Histogram struct {
	Averages Averages
	Counts   [config.BucketCount]int
	Quality  [config.BucketCount]float64 // Mean raw quality byte
}

// BucketFor returns the bucket whose open span (5i, 5i+5) contains angle.
// Angles on a bucket edge or outside [0, 360) belong to no bucket.
func BucketFor(angle float64) (int, bool) {
	if angle <= 0 {
		return 0, false
	}
	i := int(angle / config.BucketSpanDeg)
	if i >= config.BucketCount {
		return 0, false
	}
	lo := float64(i) * config.BucketSpanDeg
	if angle > lo && angle < lo+config.BucketSpanDeg {
		return i, true
	}
	return 0, false
}

// Average returns the mean distance per bucket. Buckets without samples are 0.
func Average(s *Samples) Averages {
	return Aggregate(s).Averages
}

// Aggregate groups samples by bucket and computes the mean distance and
// quality of each.
func Aggregate(s *Samples) Histogram {
	var (
		dist [config.BucketCount][]float64
		qual [config.BucketCount][]float64
		h    Histogram
	)
	for _, smp := range s {
		i, ok := BucketFor(smp.Angle)
		if !ok {
			continue
		}
		dist[i] = append(dist[i], smp.Distance)
		qual[i] = append(qual[i], float64(smp.Quality))
	}

	for i := range dist {
		h.Counts[i] = len(dist[i])
		if h.Counts[i] == 0 {
			continue
		}
		h.Averages[i] = stat.Mean(dist[i], nil)
		h.Quality[i] = stat.Mean(qual[i], nil)
	}
	return h
}
