package section

import (
	"github.com/geogaslab/spectra/endian"
	"github.com/geogaslab/spectra/errs"
	"github.com/geogaslab/spectra/format"
)

// FrameHeader prefixes every frame appended after the file header.
type FrameHeader struct {
	// Kind is the element kind of a record frame; zero for registry frames.
	Kind format.ElementKind // byte offset 2
	// Flags carries the FrameFlag bits. byte offset 3.
	Flags uint8
	// Length is the payload byte length following this header. byte offset 4-7.
	Length uint32
	// bytes 0-1 hold FrameMarker.
}

// IsContinuation reports whether the frame extends an earlier record.
func (h FrameHeader) IsContinuation() bool {
	return h.Flags&FrameFlagContinuation != 0
}

// IsTagRegistry reports whether the frame registers tag names.
func (h FrameHeader) IsTagRegistry() bool {
	return h.Flags&FrameFlagTagRegistry != 0
}

// IsTagRetract reports whether the frame retracts tag names.
func (h FrameHeader) IsTagRetract() bool {
	return h.Flags&FrameFlagTagRetract != 0
}

// IsRecord reports whether the frame carries an element record payload.
func (h FrameHeader) IsRecord() bool {
	return h.Flags&(FrameFlagTagRegistry|FrameFlagTagRetract) == 0
}

// Validate checks the frame's kind against its flags.
func (h FrameHeader) Validate() error {
	if h.IsRecord() && !h.Kind.Valid() {
		return errs.ErrMalformedRecord
	}

	return nil
}

// Parse parses a frame header from exactly FrameHeaderSize bytes.
func (h *FrameHeader) Parse(data []byte, engine endian.EndianEngine) error {
	if len(data) != FrameHeaderSize {
		return errs.ErrInvalidHeaderSize
	}
	if engine.Uint16(data[0:2]) != FrameMarker {
		return errs.ErrInvalidFrameMarker
	}

	h.Kind = format.ElementKind(data[2])
	h.Flags = data[3]
	h.Length = engine.Uint32(data[4:8])

	return h.Validate()
}

// Bytes serializes the frame header into a FrameHeaderSize byte slice.
func (h FrameHeader) Bytes(engine endian.EndianEngine) []byte {
	var b [FrameHeaderSize]byte
	engine.PutUint16(b[0:2], FrameMarker)
	b[2] = uint8(h.Kind)
	b[3] = h.Flags
	engine.PutUint32(b[4:8], h.Length)

	return b[:]
}
