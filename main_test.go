package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/pterm/pterm"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lidar-radar.klederson.com/internal/config"
	"lidar-radar.klederson.com/internal/lidar"
	"lidar-radar.klederson.com/internal/radar"
)

func testFrame(offset int, dist float64) *lidar.RawFrame {
	var f lidar.RawFrame
	for i := 0; i < config.SampleCount; i++ {
		rec := lidar.EncodeRecord(config.MarkerPrimary, float64(i)*0.9+0.45, dist)
		copy(f[offset+i*config.RecordSize:], rec[:])
	}
	return &f
}

func TestLoadFrame(t *testing.T) {
	dir := t.TempDir()
	want := testFrame(3, 1)

	good := filepath.Join(dir, "frame.bin")
	require.NoError(t, os.WriteFile(good, want[:], 0o644))
	got, err := loadFrame(good)
	require.NoError(t, err)
	assert.Equal(t, want, got)

	short := filepath.Join(dir, "short.bin")
	require.NoError(t, os.WriteFile(short, want[:100], 0o644))
	_, err = loadFrame(short)
	assert.ErrorIs(t, err, errCaptureSize)

	_, err = loadFrame(filepath.Join(dir, "missing.bin"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestRenderDump(t *testing.T) {
	pterm.DisableStyling()
	defer pterm.EnableStyling()

	out, err := renderDump(testFrame(4, 1))
	require.NoError(t, err)

	assert.Contains(t, out, "Record offset")
	assert.Contains(t, out, "72/72")
	assert.Contains(t, out, "355-360")
	assert.Contains(t, out, "1.000")
	assert.Contains(t, out, "55.0")
}

func TestRenderDump_SyncFailure(t *testing.T) {
	var f lidar.RawFrame
	_, err := renderDump(&f)
	assert.ErrorIs(t, err, lidar.ErrSyncFailure)
}

func TestDumpCmd_SyncFailure(t *testing.T) {
	var empty lidar.RawFrame
	path := filepath.Join(t.TempDir(), "empty.bin")
	require.NoError(t, os.WriteFile(path, empty[:], 0o644))

	var out, errOut bytes.Buffer
	cmd := newDumpCmd()
	cmd.SilenceUsage = true
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs([]string{path})

	err := cmd.Execute()
	require.ErrorIs(t, err, lidar.ErrSyncFailure)
	assert.Empty(t, out.String())
	assert.Equal(t, 1, strings.Count(errOut.String(), lidar.ErrSyncFailure.Error()))
}

func TestOpenSensor_RejectsBadLineSettings(t *testing.T) {
	log, _ := test.NewNullLogger()
	defer func(demo bool, parity string, stop int) {
		flagDemo, flagParity, flagStopBits = demo, parity, stop
	}(flagDemo, flagParity, flagStopBits)

	flagDemo = false
	flagPort = filepath.Join(t.TempDir(), "no-such-port")
	flagBaud, flagDataBits, flagStopBits = config.DefaultBaudRate, 8, 1

	flagParity = "mark"
	_, _, _, err := openSensor(log)
	assert.ErrorContains(t, err, "unsupported parity")

	flagParity, flagStopBits = "N", 3
	_, _, _, err = openSensor(log)
	assert.ErrorContains(t, err, "invalid stop bits")

	flagStopBits = 1
	_, _, _, err = openSensor(log)
	assert.ErrorContains(t, err, "failed to open serial port")
}

func TestCaptureCmd_Demo(t *testing.T) {
	defer func(demo bool, timeout time.Duration, level string) {
		flagDemo, flagReceiveTimeout, flagLogLevel = demo, timeout, level
	}(flagDemo, flagReceiveTimeout, flagLogLevel)
	flagDemo, flagReceiveTimeout, flagLogLevel = true, 5*time.Second, "error"

	path := filepath.Join(t.TempDir(), "frame.bin")
	cmd := newCaptureCmd()
	cmd.SetArgs([]string{path})
	require.NoError(t, cmd.Execute())

	frame, err := loadFrame(path)
	require.NoError(t, err)
	_, err = lidar.Locate(frame)
	assert.NoError(t, err)
}

func TestWritePNG(t *testing.T) {
	path := filepath.Join(t.TempDir(), "canvas.png")
	fb := radar.NewFramebuffer()

	require.NoError(t, writePNG(fb, path))
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "\x89PNG", string(data[:4]))
}
