// Package encoding implements the value codecs used inside element record
// payloads.
//
// Arrays of float64 and int64 values are stored in their native binary
// representation at fixed width, timestamps as int64 microseconds since the
// Unix epoch, strings with a uint16 length prefix, and references as 64-bit
// resource IDs. Two-dimensional arrays are flattened row-major; the column
// count travels in the record's field index entry, not in the payload.
package encoding
