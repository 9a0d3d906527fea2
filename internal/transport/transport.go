// Package transport moves bytes between the host and the range sensor.
//
// The scanner only needs a blocking single-byte send and an armed receive
// whose progress is polled by count, so both the serial port and the demo
// simulator implement that small surface.
package transport

import "errors"

// ErrClosed is returned when sending on a closed transport.
var ErrClosed = errors.New("transport: closed")

// Transport is a byte stream to the sensor.
type Transport interface {
	// Send waits until the line is idle and writes one byte.
	Send(b byte) error
	// Receive arms reception of exactly len(buf) bytes into buf and returns
	// immediately. Bytes arriving while nothing is armed are discarded.
	Receive(buf []byte)
	// Received reports how many bytes the armed buffer holds so far.
	Received() int
	// Err reports a failure that stops the transport from ever completing
	// a receive. It wraps ErrClosed.
	Err() error
	Close() error
}

// Motor switches the sensor's spin motor.
type Motor interface {
	SetMotor(on bool) error
}
