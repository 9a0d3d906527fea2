package lidar

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lidar-radar.klederson.com/internal/config"
)

// frameWithRecords lays out SampleCount records starting at offset, filling
// the lead-in with zero bytes.
func frameWithRecords(offset int, record func(i int) [config.RecordSize]byte) *RawFrame {
	var f RawFrame
	for i := 0; ; i++ {
		base := offset + i*config.RecordSize
		if base+config.RecordSize > len(f) {
			break
		}
		r := record(i)
		copy(f[base:], r[:])
	}
	return &f
}

func TestLocate(t *testing.T) {
	testCases := []struct {
		name   string
		setup  func(f *RawFrame)
		offset int
	}{
		{
			name:   "boundary at zero",
			setup:  func(f *RawFrame) { f[0], f[5] = 0x02, 0x02 },
			offset: 0,
		},
		{
			name:   "fallback then primary",
			setup:  func(f *RawFrame) { f[7], f[12] = 0x3E, 0x02 },
			offset: 7,
		},
		{
			name:   "primary then fallback",
			setup:  func(f *RawFrame) { f[10], f[15] = 0x02, 0x3E },
			offset: 10,
		},
		{
			name:   "both fallback",
			setup:  func(f *RawFrame) { f[49], f[54] = 0x3E, 0x3E },
			offset: 49,
		},
		{
			name: "first match wins",
			setup: func(f *RawFrame) {
				f[3], f[8], f[13] = 0x02, 0x02, 0x02
			},
			offset: 3,
		},
		{
			name: "single marker is not periodic",
			setup: func(f *RawFrame) {
				f[2] = 0x02
				f[20], f[25] = 0x3E, 0x3E
			},
			offset: 20,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			var f RawFrame
			tc.setup(&f)
			offset, err := Locate(&f)
			require.NoError(t, err)
			assert.Equal(t, tc.offset, offset)
		})
	}
}

func TestLocate_SyncFailure(t *testing.T) {
	t.Run("empty frame", func(t *testing.T) {
		var f RawFrame
		_, err := Locate(&f)
		assert.ErrorIs(t, err, ErrSyncFailure)
	})

	t.Run("markers outside window", func(t *testing.T) {
		var f RawFrame
		f[50], f[55] = 0x02, 0x02
		_, err := Locate(&f)
		assert.ErrorIs(t, err, ErrSyncFailure)
	})

	t.Run("other quality bytes", func(t *testing.T) {
		var f RawFrame
		for i := range f {
			f[i] = 0x3D
		}
		_, err := Locate(&f)
		assert.ErrorIs(t, err, ErrSyncFailure)
	})
}

func TestLocate_WellFormedRecords(t *testing.T) {
	for offset := 0; offset < config.SyncWindow; offset++ {
		f := frameWithRecords(offset, func(i int) [config.RecordSize]byte {
			return EncodeRecord(0x3E, float64(i)*0.9+0.1, 1)
		})
		got, err := Locate(f)
		require.NoError(t, err)
		assert.Equal(t, offset, got)
	}
}

func TestCommands(t *testing.T) {
	assert.Equal(t, Command{0xA5, 0x20}, StartScan)
	assert.Equal(t, Command{0xA5, 0x25}, StopScan)
}
