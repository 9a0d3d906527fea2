package transport

import (
	"bytes"
	"errors"
	"io"
	"sync"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakePort is a Port whose input is fed through a pipe.
type fakePort struct {
	in  *io.PipeReader
	out *io.PipeWriter

	mu      sync.Mutex
	written bytes.Buffer
	drains  int
	dtr     bool
	dtrErr  error
}

func newFakePort() *fakePort {
	r, w := io.Pipe()
	return &fakePort{in: r, out: w}
}

func (p *fakePort) Read(b []byte) (int, error) { return p.in.Read(b) }

func (p *fakePort) Write(b []byte) (int, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.written.Write(b)
}

func (p *fakePort) Close() error { return p.in.Close() }

func (p *fakePort) Drain() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.drains++
	return nil
}

func (p *fakePort) SetDTR(dtr bool) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.dtr = dtr
	return p.dtrErr
}

func (p *fakePort) Written() []byte {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]byte(nil), p.written.Bytes()...)
}

func newTestLogger() logrus.FieldLogger {
	log, _ := test.NewNullLogger()
	return log
}

func TestSerialTransport_Send(t *testing.T) {
	port := newFakePort()
	tr := NewSerialTransport(port, newTestLogger())
	defer tr.Close()

	require.NoError(t, tr.Send(0xA5))
	require.NoError(t, tr.Send(0x20))
	assert.Equal(t, []byte{0xA5, 0x20}, port.Written())
	assert.Equal(t, 2, port.drains)
}

func TestSerialTransport_Receive(t *testing.T) {
	port := newFakePort()
	tr := NewSerialTransport(port, newTestLogger())
	defer tr.Close()

	buf := make([]byte, 6)
	tr.Receive(buf)
	assert.Equal(t, 0, tr.Received())

	_, err := port.out.Write([]byte{1, 2, 3, 4})
	require.NoError(t, err)
	_, err = port.out.Write([]byte{5, 6, 7, 8})
	require.NoError(t, err)

	require.Eventually(t, func() bool { return tr.Received() == len(buf) }, time.Second, time.Millisecond)
	assert.Equal(t, []byte{1, 2, 3, 4, 5, 6}, buf)

	// Re-arming restarts the count.
	tr.Receive(buf)
	assert.Equal(t, 0, tr.Received())
}

func TestSerialTransport_SetMotor(t *testing.T) {
	port := newFakePort()
	tr := NewSerialTransport(port, newTestLogger())
	defer tr.Close()

	require.NoError(t, tr.SetMotor(true))
	assert.True(t, port.dtr)
	require.NoError(t, tr.SetMotor(false))
	assert.False(t, port.dtr)

	port.dtrErr = errors.New("boom")
	assert.Error(t, tr.SetMotor(true))
}

func TestSerialTransport_Close(t *testing.T) {
	port := newFakePort()
	tr := NewSerialTransport(port, newTestLogger())

	require.NoError(t, tr.Close())
	require.NoError(t, tr.Close())
	assert.ErrorIs(t, tr.Send(0xA5), ErrClosed)
	assert.NoError(t, tr.Err())
}

func TestSerialTransport_ReadError(t *testing.T) {
	log, hook := test.NewNullLogger()
	port := newFakePort()
	tr := NewSerialTransport(port, log)
	defer tr.Close()

	port.out.CloseWithError(errors.New("cable pulled"))
	require.Eventually(t, func() bool { return hook.LastEntry() != nil }, time.Second, time.Millisecond)
	assert.ErrorIs(t, tr.Err(), ErrClosed)
	assert.ErrorContains(t, tr.Err(), "cable pulled")
	assert.Equal(t, logrus.ErrorLevel, hook.LastEntry().Level)

	err := tr.Send(0xA5)
	assert.ErrorIs(t, err, ErrClosed)
	assert.Empty(t, port.Written())
}
