package transport

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.bug.st/serial"
)

func TestPortOptions_Normalize_Defaults(t *testing.T) {
	got, err := PortOptions{}.Normalize()
	require.NoError(t, err)
	assert.Equal(t, PortOptions{BaudRate: 115200, DataBits: 8, StopBits: 1, Parity: "N"}, got)
}

func TestPortOptions_Normalize_Parity(t *testing.T) {
	testCases := map[string]string{
		"none": "N",
		" n ":  "N",
		"even": "E",
		"E":    "E",
		"odd":  "O",
	}
	for in, want := range testCases {
		got, err := PortOptions{Parity: in}.Normalize()
		require.NoError(t, err, "parity %q", in)
		assert.Equal(t, want, got.Parity, "parity %q", in)
	}
}

func TestPortOptions_Normalize_Invalid(t *testing.T) {
	testCases := []struct {
		name string
		opts PortOptions
	}{
		{"data bits low", PortOptions{DataBits: 4}},
		{"data bits high", PortOptions{DataBits: 9}},
		{"stop bits", PortOptions{StopBits: 3}},
		{"parity", PortOptions{Parity: "mark"}},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := tc.opts.Normalize()
			assert.Error(t, err)
			_, err = tc.opts.SerialMode()
			assert.Error(t, err)
		})
	}
}

func TestPortOptions_SerialMode(t *testing.T) {
	mode, err := PortOptions{BaudRate: 256000, StopBits: 2, Parity: "O"}.SerialMode()
	require.NoError(t, err)
	assert.Equal(t, &serial.Mode{
		BaudRate: 256000,
		DataBits: 8,
		StopBits: serial.TwoStopBits,
		Parity:   serial.OddParity,
	}, mode)

	mode, err = PortOptions{}.SerialMode()
	require.NoError(t, err)
	assert.Equal(t, serial.OneStopBit, mode.StopBits)
	assert.Equal(t, serial.NoParity, mode.Parity)
}

func TestPortOptions_String(t *testing.T) {
	opts, err := PortOptions{Parity: "even", StopBits: 2}.Normalize()
	require.NoError(t, err)
	assert.Equal(t, "115200 8E2", opts.String())
}
