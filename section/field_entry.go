package section

import (
	"github.com/geogaslab/spectra/endian"
	"github.com/geogaslab/spectra/errs"
	"github.com/geogaslab/spectra/format"
)

// FieldIndexEntry records one named field of an element record. Entries are a
// fixed 28 bytes and immediately follow the record header; offsets address
// the decompressed field payload blob.
type FieldIndexEntry struct {
	// NameID is the xxHash64 of the field name. Decoders map it back to a
	// name through the per-kind schema.
	//
	// Offset: 0, Size: 8 bytes
	NameID uint64

	// Offset is the byte offset of the field's data within the decompressed
	// payload blob.
	//
	// Offset: 8, Size: 4 bytes (uint32 on disk)
	Offset int

	// Length is the byte length of the field's data.
	//
	// Offset: 12, Size: 4 bytes (uint32 on disk)
	Length int

	// Count is the number of items (array elements, strings, references).
	//
	// Offset: 16, Size: 4 bytes (uint32 on disk)
	Count int

	// Cols is the column count for 2-D fields (row-major flattened); zero
	// for one-dimensional fields.
	//
	// Offset: 20, Size: 4 bytes (uint32 on disk)
	Cols int

	// Type is the field value type.
	//
	// Offset: 24, Size: 1 byte; bytes 25-27 are reserved.
	Type format.FieldType
}

// Validate checks the entry's type and geometry.
func (e FieldIndexEntry) Validate() error {
	if !e.Type.Valid() {
		return errs.ErrInvalidFieldEntry
	}
	if e.Offset < 0 || e.Length < 0 || e.Count < 0 || e.Cols < 0 {
		return errs.ErrInvalidFieldEntry
	}
	if e.Cols > 0 && e.Count%e.Cols != 0 {
		return errs.ErrInvalidFieldEntry
	}

	return nil
}

// WriteToSlice writes the entry into buf at entryOffset. The caller
// guarantees FieldEntrySize bytes of room.
func (e FieldIndexEntry) WriteToSlice(buf []byte, entryOffset int, engine endian.EndianEngine) {
	b := buf[entryOffset : entryOffset+FieldEntrySize]
	engine.PutUint64(b[0:8], e.NameID)
	engine.PutUint32(b[8:12], uint32(e.Offset))  //nolint:gosec
	engine.PutUint32(b[12:16], uint32(e.Length)) //nolint:gosec
	engine.PutUint32(b[16:20], uint32(e.Count))  //nolint:gosec
	engine.PutUint32(b[20:24], uint32(e.Cols))   //nolint:gosec
	b[24] = uint8(e.Type)
	b[25], b[26], b[27] = 0, 0, 0
}

// ParseFieldIndexEntry parses one entry from exactly FieldEntrySize bytes.
func ParseFieldIndexEntry(data []byte, engine endian.EndianEngine) (FieldIndexEntry, error) {
	if len(data) != FieldEntrySize {
		return FieldIndexEntry{}, errs.ErrInvalidFieldEntry
	}

	e := FieldIndexEntry{
		NameID: engine.Uint64(data[0:8]),
		Offset: int(engine.Uint32(data[8:12])),
		Length: int(engine.Uint32(data[12:16])),
		Count:  int(engine.Uint32(data[16:20])),
		Cols:   int(engine.Uint32(data[20:24])),
		Type:   format.FieldType(data[24]),
	}
	if err := e.Validate(); err != nil {
		return FieldIndexEntry{}, err
	}

	return e, nil
}
