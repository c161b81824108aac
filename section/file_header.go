package section

import (
	"time"
	"unsafe"

	"github.com/geogaslab/spectra/endian"
	"github.com/geogaslab/spectra/errs"
)

// FileHeader is the fixed-size header at the start of a store file.
type FileHeader struct {
	// Options is a packed field: bit 0 endianness, bits 1-3 reserved,
	// bits 4-15 magic number. The Options word itself is always
	// little-endian on disk.
	Options uint16 // byte offset 0-1
	// Version is the store format version.
	Version uint8 // byte offset 2
	// Created is the store creation time, unix microseconds. byte offset 4-11.
	Created int64
	// bytes 3 and 12-15 are reserved and zero.
}

// NewFileHeader creates a v1 file header stamped with the given creation time.
func NewFileHeader(created time.Time, bigEndian bool) FileHeader {
	h := FileHeader{
		Options: MagicStoreV1Opt,
		Version: StoreVersion,
		Created: created.UnixMicro(),
	}
	if bigEndian {
		h.Options |= EndiannessMask
	}

	return h
}

// IsBigEndian reports whether payload sections use big-endian byte order.
func (h FileHeader) IsBigEndian() bool {
	return (h.Options & EndiannessMask) != 0
}

// GetEndianEngine returns the endian engine for the store's payload sections.
func (h FileHeader) GetEndianEngine() endian.EndianEngine {
	if h.IsBigEndian() {
		return endian.GetBigEndianEngine()
	}

	return endian.GetLittleEndianEngine()
}

// CreatedAsTime returns the creation time as a UTC time.Time.
func (h FileHeader) CreatedAsTime() time.Time {
	return time.UnixMicro(h.Created).UTC()
}

// Validate checks magic number, reserved bits and version.
func (h FileHeader) Validate() error {
	if h.Options&MagicNumberMask != MagicStoreV1Opt {
		return errs.ErrInvalidMagicNumber
	}
	if h.Options&ReservedBitsMask != 0 {
		return errs.ErrInvalidMagicNumber
	}
	if h.Version != StoreVersion {
		return errs.ErrUnsupportedVersion
	}

	return nil
}

// Parse parses the file header from a byte slice of exactly FileHeaderSize
// bytes.
func (h *FileHeader) Parse(data []byte) error {
	if len(data) != FileHeaderSize {
		return errs.ErrInvalidHeaderSize
	}

	// Options is always little-endian so the endianness bit can be read
	// before the engine is known.
	h.Options = uint16(data[0]) | (uint16(data[1]) << 8)
	h.Version = data[2]

	engine := h.GetEndianEngine()
	createdUint := engine.Uint64(data[4:12])
	h.Created = *(*int64)(unsafe.Pointer(&createdUint))

	return h.Validate()
}

// Bytes serializes the file header into a FileHeaderSize byte slice.
func (h FileHeader) Bytes() []byte {
	b := make([]byte, FileHeaderSize)
	b[0] = byte(h.Options)
	b[1] = byte(h.Options >> 8)
	b[2] = h.Version

	engine := h.GetEndianEngine()
	engine.PutUint64(b[4:12], *(*uint64)(unsafe.Pointer(&h.Created)))

	return b
}

// ParseFileHeader parses a FileHeader from the start of data.
func ParseFileHeader(data []byte) (FileHeader, error) {
	if len(data) < FileHeaderSize {
		return FileHeader{}, errs.ErrInvalidHeaderSize
	}

	h := FileHeader{}
	if err := h.Parse(data[:FileHeaderSize]); err != nil {
		return FileHeader{}, err
	}

	return h, nil
}
