// Package errs defines the sentinel errors shared across the spectra packages.
//
// All errors are plain sentinel values so callers can match them with
// errors.Is even when call sites wrap them with additional context via
// fmt.Errorf("%w: ...").
package errs

import "errors"

// Store lifecycle errors.
var (
	// ErrStoreNotFound is returned when opening a store path that does not exist.
	ErrStoreNotFound = errors.New("store file not found")

	// ErrStoreLocked is returned when another Dataset already owns the store file.
	ErrStoreLocked = errors.New("store file locked by another dataset")

	// ErrDatasetClosed is returned when operating on a closed Dataset.
	ErrDatasetClosed = errors.New("dataset is closed")
)

// On-disk layout errors.
var (
	ErrInvalidMagicNumber = errors.New("invalid magic number")
	ErrInvalidHeaderSize  = errors.New("invalid header size")
	ErrInvalidFrameMarker = errors.New("invalid frame marker")
	ErrInvalidFieldEntry  = errors.New("invalid field index entry")
	ErrMalformedRecord    = errors.New("malformed element record")
	ErrTruncatedStore     = errors.New("truncated store file")
	ErrUnsupportedVersion = errors.New("unsupported store format version")
)

// Commit validation errors.
var (
	// ErrMissingReference is returned when a buffer's cross-reference pair is
	// only half set, e.g. a ConcentrationBuffer with indices but no RawData.
	ErrMissingReference = errors.New("required cross-reference not set")

	// ErrForeignReference is returned when a buffer references an element
	// owned by a different dataset.
	ErrForeignReference = errors.New("reference to element of another dataset")

	ErrDanglingReference = errors.New("reference to unknown element")
	ErrIndexOutOfRange   = errors.New("index outside referenced value array")
	ErrLengthMismatch    = errors.New("array lengths do not match")
	ErrIncompleteBuffer  = errors.New("buffer has unset fields")
	ErrAppendMismatch    = errors.New("appended buffer is incompatible")
	ErrNotExtendable     = errors.New("element kind is not extendable")
)

// Tag registry errors.
var (
	ErrTagAlreadyRegistered = errors.New("tag already registered")
	ErrTagNotRegistered     = errors.New("tag not registered")
)

// Foreign format reader errors.
var (
	ErrUnsupportedFormat = errors.New("unsupported foreign file format")
	ErrMalformedInput    = errors.New("malformed foreign file content")
)

// Merge errors.
var (
	ErrSelfMerge = errors.New("cannot merge a dataset into itself")
)
