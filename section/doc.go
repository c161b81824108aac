// Package section defines the fixed-size binary sections of a spectra store
// file: the file header, frame headers, element record headers and field
// index entries.
//
// A store file is a 16-byte file header followed by a sequence of frames.
// Each frame is an 8-byte frame header plus a payload; element frames carry a
// complete record (32-byte record header, field index entries, compressed
// field payload blob), registry frames carry tag bookkeeping. Opening a store
// scans the frames sequentially, so no trailing index section is needed and
// commits are plain appends.
package section
