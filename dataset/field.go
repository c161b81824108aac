package dataset

import (
	"fmt"
	"time"

	"github.com/geogaslab/spectra/encoding"
	"github.com/geogaslab/spectra/endian"
	"github.com/geogaslab/spectra/errs"
	"github.com/geogaslab/spectra/format"
)

// field holds one decoded attribute of a record. Exactly one of the value
// slices is populated, selected by typ. Matrix and pair fields keep their
// values flattened row-major with the column count in cols.
type field struct {
	typ   format.FieldType
	cols  int
	f64s  []float64
	i64s  []int64
	times []time.Time
	strs  []string
	refs  []uint64
}

// count returns the number of scalar values in the field, matching the
// Count column of its on-disk index entry.
func (f *field) count() int {
	switch f.typ {
	case format.FieldFloat64s, format.FieldFloat64Matrix:
		return len(f.f64s)
	case format.FieldInt64s, format.FieldIndexPairs, format.FieldInt64:
		return len(f.i64s)
	case format.FieldTimes:
		return len(f.times)
	case format.FieldString, format.FieldStrings:
		return len(f.strs)
	case format.FieldRef, format.FieldRefs:
		return len(f.refs)
	}
	return 0
}

// appendPayload encodes the field values onto dst and returns the extended
// slice. The caller records the written range in the field index entry.
func (f *field) appendPayload(dst []byte, engine endian.EndianEngine) ([]byte, error) {
	switch f.typ {
	case format.FieldFloat64s, format.FieldFloat64Matrix:
		return encoding.AppendFloat64s(dst, f.f64s, engine), nil
	case format.FieldInt64s, format.FieldIndexPairs, format.FieldInt64:
		return encoding.AppendInt64s(dst, f.i64s, engine), nil
	case format.FieldTimes:
		return encoding.AppendTimes(dst, f.times, engine), nil
	case format.FieldString:
		return encoding.AppendString(dst, f.strs[0], engine)
	case format.FieldStrings:
		return encoding.AppendStrings(dst, f.strs, engine)
	case format.FieldRef, format.FieldRefs:
		return encoding.AppendUint64s(dst, f.refs, engine), nil
	}
	return nil, fmt.Errorf("%w: field type %d", errs.ErrInvalidFieldEntry, f.typ)
}

// decodeField reconstructs a field from its payload slice. count and cols
// come from the field index entry; data must span exactly the entry's range.
func decodeField(typ format.FieldType, data []byte, count, cols int, engine endian.EndianEngine) (*field, error) {
	f := &field{typ: typ, cols: cols}
	var err error

	switch typ {
	case format.FieldFloat64s, format.FieldFloat64Matrix:
		f.f64s, err = encoding.DecodeFloat64s(data, count, engine)
	case format.FieldInt64s, format.FieldIndexPairs, format.FieldInt64:
		f.i64s, err = encoding.DecodeInt64s(data, count, engine)
	case format.FieldTimes:
		f.times, err = encoding.DecodeTimes(data, count, engine)
	case format.FieldString, format.FieldStrings:
		f.strs, err = encoding.DecodeStrings(data, count, engine)
	case format.FieldRef, format.FieldRefs:
		f.refs, err = encoding.DecodeUint64s(data, count, engine)
	default:
		return nil, fmt.Errorf("%w: field type %d", errs.ErrInvalidFieldEntry, typ)
	}
	if err != nil {
		return nil, err
	}
	if typ == format.FieldString && count != 1 {
		return nil, fmt.Errorf("%w: scalar string field with count %d", errs.ErrMalformedRecord, count)
	}
	return f, nil
}

// namedField pairs a field with its schema name for encoding in canonical
// order.
type namedField struct {
	name string
	f    *field
}

// fieldBuilder collects the set attributes of a buffer into namedFields.
// Zero-valued attributes (empty strings, nil slices) are treated as unset
// and skipped, so committed records only carry the fields a caller filled.
type fieldBuilder struct {
	fields []namedField
	err    error
}

func (fb *fieldBuilder) add(name string, f *field) {
	fb.fields = append(fb.fields, namedField{name: name, f: f})
}

func (fb *fieldBuilder) addString(name, val string) {
	if val == "" {
		return
	}
	fb.add(name, &field{typ: format.FieldString, strs: []string{val}})
}

func (fb *fieldBuilder) addStrings(name string, vals []string) {
	if len(vals) == 0 {
		return
	}
	fb.add(name, &field{typ: format.FieldStrings, strs: append([]string(nil), vals...)})
}

func (fb *fieldBuilder) addFloats(name string, vals []float64) {
	if len(vals) == 0 {
		return
	}
	fb.add(name, &field{typ: format.FieldFloat64s, f64s: append([]float64(nil), vals...)})
}

func (fb *fieldBuilder) addMatrix(name string, rows [][]float64) {
	if len(rows) == 0 || len(rows[0]) == 0 {
		return
	}
	cols := len(rows[0])
	flat := make([]float64, 0, len(rows)*cols)
	for i, row := range rows {
		if len(row) != cols {
			fb.fail(fmt.Errorf("%w: %s row %d has %d columns, want %d",
				errs.ErrLengthMismatch, name, i, len(row), cols))
			return
		}
		flat = append(flat, row...)
	}
	fb.add(name, &field{typ: format.FieldFloat64Matrix, cols: cols, f64s: flat})
}

func (fb *fieldBuilder) addInts(name string, vals []int64) {
	if len(vals) == 0 {
		return
	}
	fb.add(name, &field{typ: format.FieldInt64s, i64s: append([]int64(nil), vals...)})
}

func (fb *fieldBuilder) addInt(name string, val int64) {
	if val == 0 {
		return
	}
	fb.add(name, &field{typ: format.FieldInt64, i64s: []int64{val}})
}

func (fb *fieldBuilder) addPairs(name string, pairs [][2]int64) {
	if len(pairs) == 0 {
		return
	}
	flat := make([]int64, 0, len(pairs)*2)
	for _, p := range pairs {
		flat = append(flat, p[0], p[1])
	}
	fb.add(name, &field{typ: format.FieldIndexPairs, cols: 2, i64s: flat})
}

func (fb *fieldBuilder) addTimes(name string, vals []time.Time) {
	if len(vals) == 0 {
		return
	}
	fb.add(name, &field{typ: format.FieldTimes, times: append([]time.Time(nil), vals...)})
}

func (fb *fieldBuilder) addRef(name string, id uint64, set bool) {
	if !set {
		return
	}
	fb.add(name, &field{typ: format.FieldRef, refs: []uint64{id}})
}

func (fb *fieldBuilder) addRefs(name string, ids []uint64) {
	if len(ids) == 0 {
		return
	}
	fb.add(name, &field{typ: format.FieldRefs, refs: append([]uint64(nil), ids...)})
}

func (fb *fieldBuilder) fail(err error) {
	if fb.err == nil {
		fb.err = err
	}
}

func (fb *fieldBuilder) build() ([]namedField, error) {
	if fb.err != nil {
		return nil, fb.err
	}
	return fb.fields, nil
}
