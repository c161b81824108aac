package encoding

import (
	"fmt"
	"math"
	"time"
	"unsafe"

	"github.com/geogaslab/spectra/endian"
	"github.com/geogaslab/spectra/errs"
)

// MaxStringLength is the maximum byte length of a single encoded string,
// bounded by the uint16 length prefix.
const MaxStringLength = math.MaxUint16

// AppendFloat64s appends the IEEE 754 representation of vals to dst. When
// engine matches the host byte order the values are block-copied instead of
// converted one by one.
func AppendFloat64s(dst []byte, vals []float64, engine endian.EndianEngine) []byte {
	if len(vals) > 0 && endian.CompareNativeEndian(engine) {
		return append(dst, unsafe.Slice((*byte)(unsafe.Pointer(&vals[0])), len(vals)*8)...)
	}

	for _, v := range vals {
		dst = engine.AppendUint64(dst, math.Float64bits(v))
	}

	return dst
}

// DecodeFloat64s decodes count float64 values from data.
func DecodeFloat64s(data []byte, count int, engine endian.EndianEngine) ([]float64, error) {
	if len(data) != count*8 {
		return nil, fmt.Errorf("%w: float64 payload is %d bytes, want %d", errs.ErrMalformedRecord, len(data), count*8)
	}

	vals := make([]float64, count)
	if count > 0 && endian.CompareNativeEndian(engine) {
		copy(unsafe.Slice((*byte)(unsafe.Pointer(&vals[0])), count*8), data)
		return vals, nil
	}

	for i := range vals {
		vals[i] = math.Float64frombits(engine.Uint64(data[i*8 : i*8+8]))
	}

	return vals, nil
}

// AppendInt64s appends vals to dst at fixed 8-byte width.
func AppendInt64s(dst []byte, vals []int64, engine endian.EndianEngine) []byte {
	for _, v := range vals {
		dst = engine.AppendUint64(dst, uint64(v))
	}

	return dst
}

// DecodeInt64s decodes count int64 values from data.
func DecodeInt64s(data []byte, count int, engine endian.EndianEngine) ([]int64, error) {
	if len(data) != count*8 {
		return nil, fmt.Errorf("%w: int64 payload is %d bytes, want %d", errs.ErrMalformedRecord, len(data), count*8)
	}

	vals := make([]int64, count)
	for i := range vals {
		vals[i] = int64(engine.Uint64(data[i*8 : i*8+8])) //nolint:gosec
	}

	return vals, nil
}

// AppendUint64s appends vals (resource IDs) to dst at fixed 8-byte width.
func AppendUint64s(dst []byte, vals []uint64, engine endian.EndianEngine) []byte {
	for _, v := range vals {
		dst = engine.AppendUint64(dst, v)
	}

	return dst
}

// DecodeUint64s decodes count uint64 values from data.
func DecodeUint64s(data []byte, count int, engine endian.EndianEngine) ([]uint64, error) {
	if len(data) != count*8 {
		return nil, fmt.Errorf("%w: uint64 payload is %d bytes, want %d", errs.ErrMalformedRecord, len(data), count*8)
	}

	vals := make([]uint64, count)
	for i := range vals {
		vals[i] = engine.Uint64(data[i*8 : i*8+8])
	}

	return vals, nil
}

// AppendTimes appends timestamps to dst as int64 microseconds since the Unix
// epoch, preserving microsecond accuracy of the source instants.
func AppendTimes(dst []byte, vals []time.Time, engine endian.EndianEngine) []byte {
	for _, v := range vals {
		dst = engine.AppendUint64(dst, uint64(v.UnixMicro())) //nolint:gosec
	}

	return dst
}

// DecodeTimes decodes count timestamps from data. Returned instants are UTC.
func DecodeTimes(data []byte, count int, engine endian.EndianEngine) ([]time.Time, error) {
	micros, err := DecodeInt64s(data, count, engine)
	if err != nil {
		return nil, err
	}

	vals := make([]time.Time, count)
	for i, us := range micros {
		vals[i] = time.UnixMicro(us).UTC()
	}

	return vals, nil
}

// AppendString appends a single uint16-length-prefixed string to dst.
func AppendString(dst []byte, s string, engine endian.EndianEngine) ([]byte, error) {
	if len(s) > MaxStringLength {
		return nil, fmt.Errorf("string length %d exceeds maximum %d", len(s), MaxStringLength)
	}

	dst = engine.AppendUint16(dst, uint16(len(s))) //nolint:gosec
	dst = append(dst, s...)

	return dst, nil
}

// AppendStrings appends count length-prefixed strings to dst.
func AppendStrings(dst []byte, vals []string, engine endian.EndianEngine) ([]byte, error) {
	var err error
	for _, s := range vals {
		dst, err = AppendString(dst, s, engine)
		if err != nil {
			return nil, err
		}
	}

	return dst, nil
}

// DecodeStrings decodes count length-prefixed strings from data. The payload
// must be fully consumed.
func DecodeStrings(data []byte, count int, engine endian.EndianEngine) ([]string, error) {
	vals := make([]string, 0, count)
	offset := 0
	for i := 0; i < count; i++ {
		if offset+2 > len(data) {
			return nil, fmt.Errorf("%w: string payload truncated at entry %d", errs.ErrMalformedRecord, i)
		}
		n := int(engine.Uint16(data[offset : offset+2]))
		offset += 2
		if offset+n > len(data) {
			return nil, fmt.Errorf("%w: string payload truncated at entry %d", errs.ErrMalformedRecord, i)
		}
		vals = append(vals, string(data[offset:offset+n]))
		offset += n
	}

	if offset != len(data) {
		return nil, fmt.Errorf("%w: %d trailing bytes after string payload", errs.ErrMalformedRecord, len(data)-offset)
	}

	return vals, nil
}
