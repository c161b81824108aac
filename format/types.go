package format

type (
	ElementKind     uint8
	FieldType       uint8
	CompressionType uint8
)

// Element kinds stored in a dataset. The numeric codes are part of the
// on-disk format and must not be reordered.
const (
	KindTarget        ElementKind = 0x1
	KindInstrument    ElementKind = 0x2
	KindRawDataType   ElementKind = 0x3
	KindMethod        ElementKind = 0x4
	KindRawData       ElementKind = 0x5
	KindConcentration ElementKind = 0x6
	KindGasFlow       ElementKind = 0x7
	KindFlux          ElementKind = 0x8
	KindPreferredFlux ElementKind = 0x9
)

// Field value types within an element record.
const (
	FieldFloat64s      FieldType = 0x1 // []float64, raw fixed-width
	FieldFloat64Matrix FieldType = 0x2 // [][]float64, flattened row-major
	FieldInt64s        FieldType = 0x3 // []int64, raw fixed-width
	FieldIndexPairs    FieldType = 0x4 // [][2]int64, flattened row-major
	FieldTimes         FieldType = 0x5 // []time.Time as int64 microseconds
	FieldString        FieldType = 0x6 // single length-prefixed string
	FieldStrings       FieldType = 0x7 // []string, length-prefixed each
	FieldRef           FieldType = 0x8 // single 64-bit resource ID
	FieldRefs          FieldType = 0x9 // []uint64 resource IDs
	FieldInt64         FieldType = 0xA // single int64 scalar
)

// Record payload compression algorithms.
const (
	CompressionNone CompressionType = 0x1
	CompressionZstd CompressionType = 0x2
	CompressionS2   CompressionType = 0x3
	CompressionLZ4  CompressionType = 0x4
)

// Kinds returns all element kinds in reference-dependency order: a kind never
// references elements of a kind that appears after it.
func Kinds() []ElementKind {
	return []ElementKind{
		KindTarget, KindInstrument, KindRawDataType, KindMethod,
		KindRawData, KindConcentration, KindGasFlow, KindFlux,
		KindPreferredFlux,
	}
}

func (k ElementKind) Valid() bool {
	return k >= KindTarget && k <= KindPreferredFlux
}

func (k ElementKind) String() string {
	switch k {
	case KindTarget:
		return "Target"
	case KindInstrument:
		return "Instrument"
	case KindRawDataType:
		return "RawDataType"
	case KindMethod:
		return "Method"
	case KindRawData:
		return "RawData"
	case KindConcentration:
		return "Concentration"
	case KindGasFlow:
		return "GasFlow"
	case KindFlux:
		return "Flux"
	case KindPreferredFlux:
		return "PreferredFlux"
	default:
		return "Unknown"
	}
}

func (t FieldType) Valid() bool {
	return t >= FieldFloat64s && t <= FieldInt64
}

func (c CompressionType) Valid() bool {
	return c >= CompressionNone && c <= CompressionLZ4
}

func (c CompressionType) String() string {
	switch c {
	case CompressionNone:
		return "None"
	case CompressionZstd:
		return "Zstd"
	case CompressionS2:
		return "S2"
	case CompressionLZ4:
		return "LZ4"
	default:
		return "Unknown"
	}
}
