package transport

import (
	"errors"
	"fmt"
	"io"
	"sync"

	"github.com/sirupsen/logrus"
	"go.bug.st/serial"
)

// Port is the subset of serial.Port the sensor transport uses.
type Port interface {
	io.ReadWriteCloser
	// Drain waits until all written bytes have been transmitted.
	Drain() error
	SetDTR(dtr bool) error
}

// SerialTransport talks to the sensor over a serial port. A background
// goroutine copies incoming bytes into the armed receive buffer.
type SerialTransport struct {
	port Port
	log  logrus.FieldLogger

	mu       sync.Mutex
	buf      []byte
	received int
	closed   bool
	readErr  error
	done     chan struct{}
}

// Open opens the serial port at path and starts receiving.
func Open(path string, opts PortOptions, log logrus.FieldLogger) (*SerialTransport, error) {
	opts, err := opts.Normalize()
	if err != nil {
		return nil, err
	}
	mode, err := opts.SerialMode()
	if err != nil {
		return nil, err
	}

	port, err := serial.Open(path, mode)
	if err != nil {
		return nil, fmt.Errorf("failed to open serial port %s: %w", path, err)
	}

	log.WithFields(logrus.Fields{"port": path, "line": opts.String()}).Info("serial port opened")
	return NewSerialTransport(port, log), nil
}

// NewSerialTransport wraps an already open port.
func NewSerialTransport(port Port, log logrus.FieldLogger) *SerialTransport {
	t := &SerialTransport{
		port: port,
		log:  log,
		done: make(chan struct{}),
	}
	go t.readLoop()
	return t
}

// Send waits for the transmitter to drain, then writes b.
func (t *SerialTransport) Send(b byte) error {
	t.mu.Lock()
	closed, readErr := t.closed, t.readErr
	t.mu.Unlock()
	if closed {
		return ErrClosed
	}
	if readErr != nil {
		return readErr
	}

	if err := t.port.Drain(); err != nil {
		return fmt.Errorf("failed to drain serial port: %w", err)
	}
	if _, err := t.port.Write([]byte{b}); err != nil {
		return fmt.Errorf("failed to write to serial port: %w", err)
	}
	return nil
}

// Receive arms buf. Any previously armed buffer is released.
func (t *SerialTransport) Receive(buf []byte) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.buf = buf
	t.received = 0
}

// Received reports the fill level of the armed buffer.
func (t *SerialTransport) Received() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.received
}

// Err returns the error that stopped the reader, if any. A closed port after
// Close is not reported.
func (t *SerialTransport) Err() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.readErr
}

// SetMotor drives the DTR line, which enables the motor on common sensor
// adapter boards.
func (t *SerialTransport) SetMotor(on bool) error {
	if err := t.port.SetDTR(on); err != nil {
		return fmt.Errorf("failed to set motor: %w", err)
	}
	return nil
}

// Close stops the reader and closes the port.
func (t *SerialTransport) Close() error {
	t.mu.Lock()
	if t.closed {
		t.mu.Unlock()
		return nil
	}
	t.closed = true
	t.mu.Unlock()

	err := t.port.Close()
	<-t.done
	return err
}

func (t *SerialTransport) readLoop() {
	defer close(t.done)

	chunk := make([]byte, 256)
	for {
		n, err := t.port.Read(chunk)
		if n > 0 {
			t.deliver(chunk[:n])
		}
		if err != nil {
			t.mu.Lock()
			closed := t.closed
			if !closed {
				t.readErr = fmt.Errorf("%w: serial read failed: %w", ErrClosed, err)
			}
			t.mu.Unlock()
			if !closed && !errors.Is(err, io.EOF) {
				t.log.WithError(err).Error("serial read failed")
			}
			return
		}
	}
}

// deliver copies data into the armed buffer, dropping what does not fit.
func (t *SerialTransport) deliver(data []byte) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.received >= len(t.buf) {
		return
	}
	t.received += copy(t.buf[t.received:], data)
}
