package section

import (
	"time"
	"unsafe"

	"github.com/geogaslab/spectra/endian"
	"github.com/geogaslab/spectra/errs"
	"github.com/geogaslab/spectra/format"
)

// RecordHeader is the fixed-size header at the start of every element record.
type RecordHeader struct {
	// Options is a packed field: bit 0 endianness, bits 1-3 reserved,
	// bits 4-15 magic number. Always little-endian on disk.
	Options uint16 // byte offset 0-1
	// Kind is the element kind of the record.
	Kind format.ElementKind // byte offset 2
	// CompressionType is the codec applied to the field payload blob.
	CompressionType format.CompressionType // byte offset 3
	// ResourceID identifies the element within its dataset.
	ResourceID uint64 // byte offset 4-11
	// Created and Modified are unix microsecond timestamps.
	Created  int64 // byte offset 12-19
	Modified int64 // byte offset 20-27
	// FieldCount is the number of field index entries following the header.
	FieldCount uint32 // byte offset 28-31
}

// NewRecordHeader creates a record header for a freshly committed element.
func NewRecordHeader(kind format.ElementKind, rid uint64, created time.Time, compression format.CompressionType, bigEndian bool) RecordHeader {
	h := RecordHeader{
		Options:         MagicRecordV1Opt,
		Kind:            kind,
		CompressionType: compression,
		ResourceID:      rid,
		Created:         created.UnixMicro(),
		Modified:        created.UnixMicro(),
	}
	if bigEndian {
		h.Options |= EndiannessMask
	}

	return h
}

// IsBigEndian reports whether the record payload uses big-endian byte order.
func (h RecordHeader) IsBigEndian() bool {
	return (h.Options & EndiannessMask) != 0
}

// GetEndianEngine returns the endian engine for the record's sections.
func (h RecordHeader) GetEndianEngine() endian.EndianEngine {
	if h.IsBigEndian() {
		return endian.GetBigEndianEngine()
	}

	return endian.GetLittleEndianEngine()
}

// CreatedAsTime returns the creation time as a UTC time.Time.
func (h RecordHeader) CreatedAsTime() time.Time {
	return time.UnixMicro(h.Created).UTC()
}

// ModifiedAsTime returns the modification time as a UTC time.Time.
func (h RecordHeader) ModifiedAsTime() time.Time {
	return time.UnixMicro(h.Modified).UTC()
}

// Validate checks magic number, kind and compression type.
func (h RecordHeader) Validate() error {
	if h.Options&MagicNumberMask != MagicRecordV1Opt {
		return errs.ErrInvalidMagicNumber
	}
	if !h.Kind.Valid() {
		return errs.ErrMalformedRecord
	}
	switch h.CompressionType {
	case format.CompressionNone, format.CompressionZstd, format.CompressionS2, format.CompressionLZ4:
	default:
		return errs.ErrMalformedRecord
	}

	return nil
}

// Parse parses the record header from exactly RecordHeaderSize bytes.
func (h *RecordHeader) Parse(data []byte) error {
	if len(data) != RecordHeaderSize {
		return errs.ErrInvalidHeaderSize
	}

	h.Options = uint16(data[0]) | (uint16(data[1]) << 8)
	h.Kind = format.ElementKind(data[2])
	h.CompressionType = format.CompressionType(data[3])

	engine := h.GetEndianEngine()
	h.ResourceID = engine.Uint64(data[4:12])

	createdUint := engine.Uint64(data[12:20])
	h.Created = *(*int64)(unsafe.Pointer(&createdUint))
	modifiedUint := engine.Uint64(data[20:28])
	h.Modified = *(*int64)(unsafe.Pointer(&modifiedUint))

	h.FieldCount = engine.Uint32(data[28:32])

	return h.Validate()
}

// Bytes serializes the record header into a RecordHeaderSize byte slice.
func (h RecordHeader) Bytes() []byte {
	b := make([]byte, RecordHeaderSize)
	b[0] = byte(h.Options)
	b[1] = byte(h.Options >> 8)
	b[2] = uint8(h.Kind)
	b[3] = uint8(h.CompressionType)

	engine := h.GetEndianEngine()
	engine.PutUint64(b[4:12], h.ResourceID)
	engine.PutUint64(b[12:20], *(*uint64)(unsafe.Pointer(&h.Created)))
	engine.PutUint64(b[20:28], *(*uint64)(unsafe.Pointer(&h.Modified)))
	engine.PutUint32(b[28:32], h.FieldCount)

	return b
}

// ParseRecordHeader parses a RecordHeader from the start of data.
func ParseRecordHeader(data []byte) (RecordHeader, error) {
	if len(data) < RecordHeaderSize {
		return RecordHeader{}, errs.ErrInvalidHeaderSize
	}

	h := RecordHeader{}
	if err := h.Parse(data[:RecordHeaderSize]); err != nil {
		return RecordHeader{}, err
	}

	return h, nil
}
