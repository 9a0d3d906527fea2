// Package scanner runs the acquisition cycle: request a scan, receive one
// frame, stop the sensor, then decode, aggregate and render it.
package scanner

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/sirupsen/logrus"

	"lidar-radar.klederson.com/internal/config"
	"lidar-radar.klederson.com/internal/lidar"
	"lidar-radar.klederson.com/internal/radar"
	"lidar-radar.klederson.com/internal/transport"
)

// ErrReceiveTimeout is returned when a frame does not complete within the
// configured receive timeout.
var ErrReceiveTimeout = errors.New("scanner: receive timed out")

// State is the phase of the acquisition cycle.
type State int32

const (
	StateIdle State = iota
	StateRequesting
	StateReceiving
	StateProcessing
)

func (s State) String() string {
	switch s {
	case StateRequesting:
		return "REQUESTING"
	case StateReceiving:
		return "RECEIVING"
	case StateProcessing:
		return "PROCESSING"
	default:
		return "IDLE"
	}
}

// Notifier receives a FrameMsg after every cycle. *tea.Program satisfies it.
type Notifier interface {
	Send(msg tea.Msg)
}

// FrameMsg reports the outcome of one cycle.
type FrameMsg struct {
	Cycle     uint64
	Offset    int
	Histogram lidar.Histogram
	Points    radar.DisplayPoints
	Duration  time.Duration
	Err       error // ErrSyncFailure, ErrReceiveTimeout or a transport error
}

// Options tunes the scanner.
type Options struct {
	// ReceiveTimeout aborts a cycle whose frame does not arrive in time.
	// Zero waits forever.
	ReceiveTimeout time.Duration
	// PollInterval is how often the receive count is checked.
	PollInterval time.Duration
	// RetryDelay is the pause after a failed acquisition. It doubles on each
	// consecutive failure up to MaxRetryDelay and resets after a good frame.
	RetryDelay    time.Duration
	MaxRetryDelay time.Duration
}

// Scanner owns the frame buffer and drives the transport and rasterizer.
type Scanner struct {
	tr     transport.Transport
	motor  transport.Motor
	raster *radar.Rasterizer
	opts   Options
	log    logrus.FieldLogger

	mu       sync.Mutex
	notifier Notifier

	frame lidar.RawFrame
	state atomic.Int32
	cycle atomic.Uint64
}

// New creates a scanner. motor may be nil when the sensor spins on its own.
func New(tr transport.Transport, motor transport.Motor, raster *radar.Rasterizer, opts Options, log logrus.FieldLogger) *Scanner {
	if opts.PollInterval <= 0 {
		opts.PollInterval = config.PollInterval
	}
	if opts.RetryDelay <= 0 {
		opts.RetryDelay = config.RetryDelay
	}
	if opts.MaxRetryDelay < opts.RetryDelay {
		opts.MaxRetryDelay = max(config.MaxRetryDelay, opts.RetryDelay)
	}
	return &Scanner{
		tr:     tr,
		motor:  motor,
		raster: raster,
		opts:   opts,
		log:    log,
	}
}

// SetNotifier sets where cycle results are sent.
func (s *Scanner) SetNotifier(n Notifier) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.notifier = n
}

// State returns the current cycle phase.
func (s *Scanner) State() State {
	return State(s.state.Load())
}

// Cycles returns the number of cycles started.
func (s *Scanner) Cycles() uint64 {
	return s.cycle.Load()
}

// Run repeats cycles until ctx is cancelled or the transport is closed. The
// motor is switched on for the duration of the run.
func (s *Scanner) Run(ctx context.Context) error {
	if s.motor != nil {
		if err := s.motor.SetMotor(true); err != nil {
			return err
		}
		defer func() {
			if err := s.motor.SetMotor(false); err != nil {
				s.log.WithError(err).Warn("failed to stop motor")
			}
		}()
	}

	var delay time.Duration
	for {
		msg := s.Cycle(ctx)
		if ctx.Err() != nil {
			return ctx.Err()
		}
		s.notify(msg)
		if errors.Is(msg.Err, transport.ErrClosed) {
			return msg.Err
		}

		if !isTransportFailure(msg.Err) {
			delay = 0
			continue
		}
		delay = min(max(delay*2, s.opts.RetryDelay), s.opts.MaxRetryDelay)
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(delay):
		}
	}
}

// isTransportFailure reports whether err came from the port rather than
// from the frame contents or a slow sensor.
func isTransportFailure(err error) bool {
	return err != nil &&
		!errors.Is(err, lidar.ErrSyncFailure) &&
		!errors.Is(err, ErrReceiveTimeout)
}

// Cycle runs one full acquisition. A sync failure skips decoding and
// rendering; the display keeps the previous frame.
func (s *Scanner) Cycle(ctx context.Context) FrameMsg {
	start := time.Now()
	msg := FrameMsg{Cycle: s.cycle.Add(1)}
	log := s.log.WithField("cycle", msg.Cycle)
	defer s.setState(StateIdle)

	if err := s.acquire(ctx); err != nil {
		if ctx.Err() == nil {
			log.WithError(err).Warn("frame acquisition failed")
		}
		msg.Err = err
		msg.Duration = time.Since(start)
		return msg
	}

	s.setState(StateProcessing)
	offset, err := lidar.Locate(&s.frame)
	if err != nil {
		log.WithError(err).Warn("dropping frame")
		msg.Err = err
		msg.Duration = time.Since(start)
		return msg
	}

	samples := lidar.Decode(&s.frame, offset)
	msg.Offset = offset
	msg.Histogram = lidar.Aggregate(&samples)
	msg.Points = s.raster.Draw(&msg.Histogram.Averages)
	msg.Duration = time.Since(start)

	log.WithFields(logrus.Fields{
		"offset":   offset,
		"duration": msg.Duration,
	}).Debug("frame rendered")
	return msg
}

// Capture acquires one frame without processing it.
func (s *Scanner) Capture(ctx context.Context) (*lidar.RawFrame, error) {
	defer s.setState(StateIdle)
	s.cycle.Add(1)
	if err := s.acquire(ctx); err != nil {
		return nil, err
	}
	frame := s.frame
	return &frame, nil
}

// acquire sends the start command, waits for a full frame and stops the
// sensor again. The stop command is sent even when the wait fails.
func (s *Scanner) acquire(ctx context.Context) error {
	s.setState(StateRequesting)
	if err := s.sendCommand(lidar.StartScan); err != nil {
		return fmt.Errorf("failed to start scan: %w", err)
	}

	s.setState(StateReceiving)
	s.tr.Receive(s.frame[:])
	waitErr := s.waitFrame(ctx)

	if err := s.sendCommand(lidar.StopScan); err != nil {
		return errors.Join(waitErr, fmt.Errorf("failed to stop scan: %w", err))
	}
	return waitErr
}

func (s *Scanner) sendCommand(cmd lidar.Command) error {
	for _, b := range cmd {
		if err := s.tr.Send(b); err != nil {
			return err
		}
	}
	return nil
}

// waitFrame polls the receive count until the frame is complete.
func (s *Scanner) waitFrame(ctx context.Context) error {
	ticker := time.NewTicker(s.opts.PollInterval)
	defer ticker.Stop()

	var timeout <-chan time.Time
	if s.opts.ReceiveTimeout > 0 {
		timer := time.NewTimer(s.opts.ReceiveTimeout)
		defer timer.Stop()
		timeout = timer.C
	}

	for s.tr.Received() < config.FrameSize {
		if err := s.tr.Err(); err != nil {
			return fmt.Errorf("receive failed: %w", err)
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-timeout:
			return fmt.Errorf("%w after %s (%d/%d bytes)",
				ErrReceiveTimeout, s.opts.ReceiveTimeout, s.tr.Received(), config.FrameSize)
		case <-ticker.C:
		}
	}
	return nil
}

func (s *Scanner) setState(st State) {
	s.state.Store(int32(st))
}

func (s *Scanner) notify(msg FrameMsg) {
	s.mu.Lock()
	n := s.notifier
	s.mu.Unlock()
	if n != nil {
		n.Send(msg)
	}
}
