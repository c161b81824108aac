package section

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/geogaslab/spectra/endian"
	"github.com/geogaslab/spectra/errs"
	"github.com/geogaslab/spectra/format"
	"github.com/geogaslab/spectra/internal/hash"
)

func TestFileHeaderRoundTrip(t *testing.T) {
	created := time.Date(2017, 1, 10, 15, 23, 0, 0, time.UTC)

	for _, bigEndian := range []bool{false, true} {
		h := NewFileHeader(created, bigEndian)
		require.NoError(t, h.Validate())

		data := h.Bytes()
		require.Len(t, data, FileHeaderSize)

		parsed, err := ParseFileHeader(data)
		require.NoError(t, err)
		require.Equal(t, h, parsed)
		require.Equal(t, bigEndian, parsed.IsBigEndian())
		require.True(t, parsed.CreatedAsTime().Equal(created))
	}
}

func TestFileHeaderRejectsGarbage(t *testing.T) {
	_, err := ParseFileHeader([]byte{1, 2, 3})
	require.ErrorIs(t, err, errs.ErrInvalidHeaderSize)

	garbage := make([]byte, FileHeaderSize)
	copy(garbage, "not a store file")
	_, err = ParseFileHeader(garbage)
	require.ErrorIs(t, err, errs.ErrInvalidMagicNumber)

	h := NewFileHeader(time.Now(), false)
	h.Version = 99
	_, err = ParseFileHeader(h.Bytes())
	require.ErrorIs(t, err, errs.ErrUnsupportedVersion)
}

func TestFrameHeaderRoundTrip(t *testing.T) {
	engine := endian.GetLittleEndianEngine()

	h := FrameHeader{Kind: format.KindRawData, Length: 1234}
	data := h.Bytes(engine)
	require.Len(t, data, FrameHeaderSize)

	var parsed FrameHeader
	require.NoError(t, parsed.Parse(data, engine))
	require.Equal(t, h, parsed)
	require.True(t, parsed.IsRecord())
	require.False(t, parsed.IsContinuation())

	reg := FrameHeader{Flags: FrameFlagTagRegistry, Length: 10}
	var parsedReg FrameHeader
	require.NoError(t, parsedReg.Parse(reg.Bytes(engine), engine))
	require.True(t, parsedReg.IsTagRegistry())
	require.False(t, parsedReg.IsRecord())
}

func TestFrameHeaderRejectsBadMarker(t *testing.T) {
	engine := endian.GetLittleEndianEngine()
	data := FrameHeader{Kind: format.KindTarget, Length: 1}.Bytes(engine)
	data[0] ^= 0xFF

	var h FrameHeader
	require.ErrorIs(t, h.Parse(data, engine), errs.ErrInvalidFrameMarker)
}

func TestRecordHeaderRoundTrip(t *testing.T) {
	created := time.Date(2018, 1, 14, 13, 46, 0, 0, time.UTC)
	h := NewRecordHeader(format.KindConcentration, 0xDEADBEEF, created, format.CompressionZstd, false)
	h.FieldCount = 4
	h.Modified = created.Add(time.Minute).UnixMicro()

	parsed, err := ParseRecordHeader(h.Bytes())
	require.NoError(t, err)
	require.Equal(t, h, parsed)
	require.True(t, parsed.CreatedAsTime().Equal(created))
	require.True(t, parsed.ModifiedAsTime().After(parsed.CreatedAsTime()))
}

func TestRecordHeaderValidation(t *testing.T) {
	h := NewRecordHeader(format.KindFlux, 1, time.Now(), format.CompressionNone, false)

	bad := h
	bad.Kind = format.ElementKind(0xEE)
	_, err := ParseRecordHeader(bad.Bytes())
	require.ErrorIs(t, err, errs.ErrMalformedRecord)

	bad = h
	bad.CompressionType = format.CompressionType(0xEE)
	_, err = ParseRecordHeader(bad.Bytes())
	require.ErrorIs(t, err, errs.ErrMalformedRecord)
}

func TestFieldIndexEntryRoundTrip(t *testing.T) {
	engine := endian.GetLittleEndianEngine()
	e := FieldIndexEntry{
		NameID: hash.ID("d_var"),
		Offset: 96,
		Length: 10 * 2048 * 8,
		Count:  10 * 2048,
		Cols:   2048,
		Type:   format.FieldFloat64Matrix,
	}
	require.NoError(t, e.Validate())

	buf := make([]byte, FieldEntrySize)
	e.WriteToSlice(buf, 0, engine)

	parsed, err := ParseFieldIndexEntry(buf, engine)
	require.NoError(t, err)
	require.Equal(t, e, parsed)
}

func TestFieldIndexEntryValidation(t *testing.T) {
	engine := endian.GetLittleEndianEngine()

	e := FieldIndexEntry{NameID: 1, Count: 5, Cols: 2, Type: format.FieldIndexPairs}
	require.ErrorIs(t, e.Validate(), errs.ErrInvalidFieldEntry) // count not divisible by cols

	buf := make([]byte, FieldEntrySize)
	FieldIndexEntry{NameID: 1, Count: 4, Cols: 2, Type: format.FieldIndexPairs}.WriteToSlice(buf, 0, engine)
	buf[24] = 0xEE // invalid field type
	_, err := ParseFieldIndexEntry(buf, engine)
	require.ErrorIs(t, err, errs.ErrInvalidFieldEntry)
}
