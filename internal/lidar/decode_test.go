package lidar

import (
	"math/rand"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lidar-radar.klederson.com/internal/config"
)

func TestDistanceFromBytes(t *testing.T) {
	assert.Equal(t, 0.0, DistanceFromBytes(0x00, 0x00))
	assert.InDelta(t, 12.0, DistanceFromBytes(0xFF, 0xFF), 1e-9)
	assert.InDelta(t, 256.0/65535*12, DistanceFromBytes(0x00, 0x01), 1e-9)
	assert.InDelta(t, 1.0/65535*12, DistanceFromBytes(0x01, 0x00), 1e-9)
}

func TestAngleFromBytes(t *testing.T) {
	assert.Equal(t, 0.0, AngleFromBytes(0x00, 0x00))
	// Flag bit is masked off.
	assert.Equal(t, 0.0, AngleFromBytes(0x01, 0x00))
	assert.Equal(t, AngleFromBytes(0x40, 0x10), AngleFromBytes(0x41, 0x10))
	assert.Equal(t, 2.0, AngleFromBytes(0x00, 0x01))
	assert.InDelta(t, (254.0+255*128)/64, AngleFromBytes(0xFF, 0xFF), 1e-9)
}

func TestEncodeRecord_AngleRoundTrip(t *testing.T) {
	for a := 0.0; a < 360; a += 0.37 {
		r := EncodeRecord(0x3E, a, 0)
		assert.InDelta(t, a, AngleFromBytes(r[1], r[2]), 1.0/64+1e-9, "angle %v", a)
		assert.Equal(t, byte(1), r[1]&1, "check bit")
	}
}

func TestEncodeRecord_DistanceRoundTrip(t *testing.T) {
	for d := 0.0; d <= 12; d += 0.013 {
		r := EncodeRecord(0x3E, 0, d)
		assert.InDelta(t, d, DistanceFromBytes(r[3], r[4]), 12.0/65535)
	}
	r := EncodeRecord(0x3E, 0, 50)
	assert.Equal(t, [2]byte{0xFF, 0xFF}, [2]byte{r[3], r[4]})
	r = EncodeRecord(0x3E, 0, -1)
	assert.Equal(t, [2]byte{0x00, 0x00}, [2]byte{r[3], r[4]})
}

func TestDecode(t *testing.T) {
	const offset = 10
	f := frameWithRecords(offset, func(i int) [config.RecordSize]byte {
		q := byte(0x3E)
		if i%7 == 0 {
			q = 0x02
		}
		return EncodeRecord(q, float64(i)*0.9, float64(i%24)/10)
	})

	s := Decode(f, offset)
	for i, smp := range s {
		wantQ := byte(0x3E)
		if i%7 == 0 {
			wantQ = 0x02
		}
		require.Equal(t, wantQ, smp.Quality, "sample %d", i)
		require.InDelta(t, float64(i)*0.9, smp.Angle, 1.0/64+1e-9, "sample %d", i)
		require.InDelta(t, float64(i%24)/10, smp.Distance, 12.0/65535, "sample %d", i)
	}
}

func TestDecode_Deterministic(t *testing.T) {
	var f RawFrame
	rng := rand.New(rand.NewSource(7))
	for i := range f {
		f[i] = byte(rng.Intn(256))
	}

	first := Decode(&f, 17)
	second := Decode(&f, 17)
	if diff := cmp.Diff(first, second); diff != "" {
		t.Errorf("Decode not deterministic (-first +second):\n%s", diff)
	}
}

func TestDecode_PassesAreIndependent(t *testing.T) {
	f := frameWithRecords(3, func(i int) [config.RecordSize]byte {
		return EncodeRecord(byte(i), float64(i), 1.5)
	})

	var s Samples
	DecodeAngles(f, 3, &s)
	for _, smp := range s {
		require.Zero(t, smp.Quality)
		require.Zero(t, smp.Distance)
	}
	DecodeDistances(f, 3, &s)
	DecodeQualities(f, 3, &s)
	if diff := cmp.Diff(Decode(f, 3), s); diff != "" {
		t.Errorf("separate passes differ from Decode (-want +got):\n%s", diff)
	}
}

func TestDecode_MaxOffset(t *testing.T) {
	f := frameWithRecords(MaxOffset, func(i int) [config.RecordSize]byte {
		return EncodeRecord(0x02, 1, 1)
	})
	s := Decode(f, MaxOffset)
	assert.Equal(t, byte(0x02), s[config.SampleCount-1].Quality)
	assert.InDelta(t, 1.0, s[config.SampleCount-1].Distance, 12.0/65535)
}
