package encoding

import (
	"math"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/geogaslab/spectra/endian"
	"github.com/geogaslab/spectra/errs"
)

var engines = map[string]endian.EndianEngine{
	"little": endian.GetLittleEndianEngine(),
	"big":    endian.GetBigEndianEngine(),
}

func TestFloat64sRoundTrip(t *testing.T) {
	vals := []float64{0, 1.5, -273.15, 1e-12, 2.5e6}
	for name, engine := range engines {
		t.Run(name, func(t *testing.T) {
			data := AppendFloat64s(nil, vals, engine)
			require.Len(t, data, len(vals)*8)

			got, err := DecodeFloat64s(data, len(vals), engine)
			require.NoError(t, err)
			require.Equal(t, vals, got)
		})
	}
}

// TestFloat64sEncodingIsEngineExact pins the wire bytes to the engine's
// byte order regardless of whether the native block-copy path was taken.
func TestFloat64sEncodingIsEngineExact(t *testing.T) {
	vals := []float64{1.5, -273.15, 1e-12}
	for name, engine := range engines {
		t.Run(name, func(t *testing.T) {
			data := AppendFloat64s(nil, vals, engine)

			var want []byte
			for _, v := range vals {
				want = engine.AppendUint64(want, math.Float64bits(v))
			}
			require.Equal(t, want, data)

			got, err := DecodeFloat64s(want, len(vals), engine)
			require.NoError(t, err)
			require.Equal(t, vals, got)
		})
	}
}

func TestInt64sRoundTrip(t *testing.T) {
	engine := endian.GetLittleEndianEngine()
	vals := []int64{0, -1, 42, 1 << 40, -(1 << 40)}
	data := AppendInt64s(nil, vals, engine)
	got, err := DecodeInt64s(data, len(vals), engine)
	require.NoError(t, err)
	require.Equal(t, vals, got)

	_, err = DecodeInt64s(data[:len(data)-1], len(vals), engine)
	require.ErrorIs(t, err, errs.ErrMalformedRecord)
}

func TestTimesKeepMicrosecondAccuracy(t *testing.T) {
	engine := endian.GetLittleEndianEngine()
	base := time.Date(2018, 1, 14, 13, 46, 1, 0, time.UTC)
	vals := []time.Time{base, base.Add(time.Microsecond)}

	data := AppendTimes(nil, vals, engine)
	got, err := DecodeTimes(data, len(vals), engine)
	require.NoError(t, err)
	require.True(t, got[0].Equal(vals[0]))
	require.True(t, got[1].Equal(vals[1]))
	require.NotEqual(t, got[0], got[1])
}

func TestStringsRoundTrip(t *testing.T) {
	engine := endian.GetLittleEndianEngine()
	vals := []string{"", "WI001", "White Island main vent", "Main vent in January 2017"}

	data, err := AppendStrings(nil, vals, engine)
	require.NoError(t, err)

	got, err := DecodeStrings(data, len(vals), engine)
	require.NoError(t, err)
	require.Equal(t, vals, got)
}

func TestStringTooLong(t *testing.T) {
	engine := endian.GetLittleEndianEngine()
	_, err := AppendString(nil, strings.Repeat("x", MaxStringLength+1), engine)
	require.Error(t, err)
}

func TestDecodeStringsTruncated(t *testing.T) {
	engine := endian.GetLittleEndianEngine()
	data, err := AppendStrings(nil, []string{"abc", "def"}, engine)
	require.NoError(t, err)

	_, err = DecodeStrings(data[:len(data)-2], 2, engine)
	require.ErrorIs(t, err, errs.ErrMalformedRecord)

	// Trailing garbage must be rejected as well.
	_, err = DecodeStrings(append(data, 0x00), 2, engine)
	require.ErrorIs(t, err, errs.ErrMalformedRecord)
}
