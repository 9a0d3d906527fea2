package transport

import (
	"context"
	"math"
	"math/rand"
	"sync"
	"time"

	"lidar-radar.klederson.com/internal/config"
	"lidar-radar.klederson.com/internal/lidar"
)

// responseDescriptor is sent by the sensor before the first scan record.
var responseDescriptor = []byte{0xA5, 0x5A, 0x05, 0x00, 0x00, 0x40, 0x81}

// SimulatorOptions tunes the demo sensor.
type SimulatorOptions struct {
	// FrameInterval is the time needed to stream one frame's worth of bytes.
	FrameInterval time.Duration
	// Noise is the standard deviation added to every distance.
	Noise float64
	// Dropout is the probability that a record reports no return.
	Dropout float64
	// Seed seeds the random source; zero picks a time based seed.
	Seed int64
}

// DefaultSimulatorOptions returns the options used in demo mode.
func DefaultSimulatorOptions() SimulatorOptions {
	return SimulatorOptions{
		FrameInterval: config.DemoFrameInterval,
		Noise:         config.DemoNoise,
		Dropout:       0.02,
	}
}

// Simulator is an in-memory sensor: it answers scan commands with a stream
// of well formed records describing a rectangular room with a doorway and
// an object orbiting the sensor.
type Simulator struct {
	opts SimulatorOptions
	rng  *rand.Rand

	mu       sync.Mutex
	written  []byte
	prefixed bool
	scanning bool
	motor    bool
	pending  []byte
	angle    float64
	orbit    float64
	buf      []byte
	received int
	closed   bool

	cancel context.CancelFunc
	done   chan struct{}
}

// NewSimulator creates a simulator and starts its byte stream.
func NewSimulator(opts SimulatorOptions) *Simulator {
	if opts.FrameInterval <= 0 {
		opts.FrameInterval = config.DemoFrameInterval
	}
	seed := opts.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	ctx, cancel := context.WithCancel(context.Background())
	s := &Simulator{
		opts:   opts,
		rng:    rand.New(rand.NewSource(seed)),
		cancel: cancel,
		done:   make(chan struct{}),
	}
	go s.loop(ctx)
	return s
}

// Send interprets the two-byte scan commands.
func (s *Simulator) Send(b byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrClosed
	}
	s.written = append(s.written, b)

	if !s.prefixed {
		s.prefixed = b == config.CommandPrefix
		return nil
	}
	s.prefixed = false

	switch b {
	case config.StartScanCode:
		s.startScan()
	case config.StopScanCode:
		s.scanning = false
		s.pending = nil
	}
	return nil
}

func (s *Simulator) Receive(buf []byte) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.buf = buf
	s.received = 0
}

func (s *Simulator) Received() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.received
}

func (s *Simulator) SetMotor(on bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.motor = on
	return nil
}

// Motor reports the last motor state set.
func (s *Simulator) Motor() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.motor
}

// Written returns every byte sent to the simulator.
func (s *Simulator) Written() []byte {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]byte(nil), s.written...)
}

// Err is always nil: the simulator never fails on its own.
func (s *Simulator) Err() error {
	return nil
}

func (s *Simulator) Close() error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil
	}
	s.closed = true
	s.mu.Unlock()

	s.cancel()
	<-s.done
	return nil
}

func (s *Simulator) loop(ctx context.Context) {
	defer close(s.done)

	const chunks = 20
	ticker := time.NewTicker(s.opts.FrameInterval / chunks)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.emit(config.FrameSize / chunks)
		}
	}
}

// startScan queues the response descriptor behind a few stale bytes so the
// record boundary moves between frames. Called with s.mu held.
func (s *Simulator) startScan() {
	s.scanning = true
	s.orbit = math.Mod(s.orbit+3, 360)
	s.pending = make([]byte, s.rng.Intn(config.RecordSize))
	s.pending = append(s.pending, responseDescriptor...)
}

// emit streams n bytes to the armed buffer. Bytes arriving with nothing
// armed are lost, like on the real line.
func (s *Simulator) emit(n int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.scanning {
		return
	}

	for len(s.pending) < n {
		rec := s.nextRecord()
		s.pending = append(s.pending, rec[:]...)
	}
	chunk := s.pending[:n]
	s.pending = s.pending[n:]

	if s.received < len(s.buf) {
		s.received += copy(s.buf[s.received:], chunk)
	}
}

// nextRecord advances the simulated rotation by one sample.
func (s *Simulator) nextRecord() [config.RecordSize]byte {
	step := 360.0/config.SampleCount + s.rng.NormFloat64()*0.01
	s.angle = math.Mod(s.angle+math.Abs(step), 360)

	if s.rng.Float64() < s.opts.Dropout {
		return lidar.EncodeRecord(config.MarkerPrimary, s.angle, 0)
	}
	d := RoomDistance(s.angle, s.orbit) + s.rng.NormFloat64()*s.opts.Noise
	return lidar.EncodeRecord(config.MarkerFallback, s.angle, math.Max(d, 0))
}

// RoomDistance returns the simulated range in working units along angle
// (degrees) with the orbiting object at orbit (degrees).
func RoomDistance(angle, orbit float64) float64 {
	const (
		halfX     = 1.6
		halfY     = 1.1
		doorFrom  = 200.0
		doorTo    = 230.0
		beyond    = 3.5
		orbitR    = 0.9
		objectR   = 0.18
		objectMax = 1e9
	)

	if angle >= doorFrom && angle < doorTo {
		return beyond
	}

	rad := angle * math.Pi / 180
	dx, dy := math.Cos(rad), math.Sin(rad)

	wall := objectMax
	if dx != 0 {
		wall = math.Min(wall, halfX/math.Abs(dx))
	}
	if dy != 0 {
		wall = math.Min(wall, halfY/math.Abs(dy))
	}

	// Ray/circle intersection with the orbiting object.
	orad := orbit * math.Pi / 180
	ox, oy := orbitR*math.Cos(orad), orbitR*math.Sin(orad)
	proj := ox*dx + oy*dy
	if proj > 0 {
		perp2 := ox*ox + oy*oy - proj*proj
		if perp2 < objectR*objectR {
			hit := proj - math.Sqrt(objectR*objectR-perp2)
			if hit > 0 && hit < wall {
				return hit
			}
		}
	}
	return wall
}
