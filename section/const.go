package section

const (
	// Bit masks for the packed options word in file and record headers.
	EndiannessMask   = 0x0001 // bit 0: 0=little-endian, 1=big-endian
	ReservedBitsMask = 0x000E // bits 1-3: reserved, must be zero
	MagicNumberMask  = 0xFFF0 // bits 4-15: magic number

	// Magic numbers (bits 4-15).
	MagicStoreV1Opt  = 0xE510 // store file header, format v1
	MagicRecordV1Opt = 0xE520 // element record header, format v1

	// StoreVersion is the current store format version byte.
	StoreVersion = 1
)

// Frame flag bits.
const (
	FrameFlagContinuation = 0x01 // record extends an earlier record with the same resource ID
	FrameFlagTagRegistry  = 0x02 // payload registers tag names
	FrameFlagTagRetract   = 0x04 // payload retracts tag names
)

// FrameMarker starts every frame header; it guards against scanning a
// truncated or foreign file as a sequence of frames.
const FrameMarker uint16 = 0xFA5E

// Fixed section sizes in bytes.
const (
	FileHeaderSize   = 16
	FrameHeaderSize  = 8
	RecordHeaderSize = 32
	FieldEntrySize   = 28
)
