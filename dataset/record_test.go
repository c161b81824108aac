package dataset

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/geogaslab/spectra/compress"
	"github.com/geogaslab/spectra/errs"
	"github.com/geogaslab/spectra/format"
	"github.com/geogaslab/spectra/section"
)

func testRecord(t *testing.T) *record {
	t.Helper()
	now := time.Now().UTC().Truncate(time.Microsecond)
	return &record{
		kind:     format.KindRawData,
		id:       0xfeedface,
		created:  now,
		modified: now,
		fields: map[string]*field{
			fieldDVar:     {typ: format.FieldFloat64Matrix, cols: 2, f64s: []float64{1, 2, 3, 4}},
			fieldIndVar:   {typ: format.FieldFloat64s, f64s: []float64{300.5, 301.5}},
			fieldDatetime: {typ: format.FieldTimes, times: testTimes(2)},
			fieldTarget:   {typ: format.FieldRef, refs: []uint64{0xabcd}},
			fieldTags:     {typ: format.FieldStrings, strs: []string{"a", "b"}},
		},
	}
}

func encodeTestRecord(t *testing.T, rec *record, ctype format.CompressionType) []byte {
	t.Helper()
	codec, err := compress.CreateCodec(ctype, "record")
	require.NoError(t, err)
	data, err := encodeRecord(rec, codec, ctype, false)
	require.NoError(t, err)
	return data
}

func TestRecordRoundTrip(t *testing.T) {
	rec := testRecord(t)
	data := encodeTestRecord(t, rec, format.CompressionZstd)

	got, err := decodeRecord(data)
	require.NoError(t, err)

	assert.Equal(t, rec.kind, got.kind)
	assert.Equal(t, rec.id, got.id)
	assert.True(t, rec.created.Equal(got.created))
	assert.Equal(t, rec.fields[fieldDVar].f64s, got.fields[fieldDVar].f64s)
	assert.Equal(t, 2, got.fields[fieldDVar].cols)
	assert.Equal(t, rec.fields[fieldIndVar].f64s, got.fields[fieldIndVar].f64s)
	assert.Equal(t, []uint64{0xabcd}, got.fields[fieldTarget].refs)
	assert.Equal(t, []string{"a", "b"}, got.fields[fieldTags].strs)
	require.Len(t, got.fields[fieldDatetime].times, 2)
	assert.True(t, rec.fields[fieldDatetime].times[0].Equal(got.fields[fieldDatetime].times[0]))
}

func TestRecordDecodeSkipsUnknownFields(t *testing.T) {
	data := encodeTestRecord(t, testRecord(t), format.CompressionNone)

	// overwrite the NameID of the first field index entry
	for i := 0; i < 8; i++ {
		data[section.RecordHeaderSize+i] = 0xff
	}

	got, err := decodeRecord(data)
	require.NoError(t, err)
	assert.NotContains(t, got.fields, fieldDVar)
	assert.Contains(t, got.fields, fieldIndVar)
}

func TestRecordDecodeRejectsCorruption(t *testing.T) {
	data := encodeTestRecord(t, testRecord(t), format.CompressionZstd)

	// truncating the compressed blob must not pass decompression
	_, err := decodeRecord(data[:len(data)-6])
	require.Error(t, err)

	// garbage header
	_, err = decodeRecord([]byte{1, 2, 3})
	require.ErrorIs(t, err, errs.ErrInvalidHeaderSize)
}

func TestMergeContinuationColumnMismatch(t *testing.T) {
	base := testRecord(t)
	cont := &record{
		kind: base.kind,
		id:   base.id,
		fields: map[string]*field{
			fieldDVar: {typ: format.FieldFloat64Matrix, cols: 3, f64s: []float64{1, 2, 3}},
		},
	}
	err := mergeContinuation(base, cont)
	require.ErrorIs(t, err, errs.ErrMalformedRecord)

	other := &record{kind: base.kind, id: base.id + 1, fields: map[string]*field{}}
	err = mergeContinuation(base, other)
	require.ErrorIs(t, err, errs.ErrMalformedRecord)
}
