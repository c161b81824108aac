// Package compress provides the compression codecs applied to element record
// payloads before they are written to a store file.
//
// A record's field payloads (encoded arrays, strings and references) are
// concatenated and compressed as a single block; the algorithm used is
// recorded in the record header so decoders pick the matching codec
// automatically.
//
// Supported algorithms:
//   - None: no compression, fastest
//   - Zstd: best ratio, the store default (pure Go by default, cgo via the
//     cgozstd build tag)
//   - S2: balanced ratio and speed
//   - LZ4: fastest decompression
//
// Spectroscopy payloads compress well: incidence angles and retrieval values
// are smooth series, and spectra rows share structure across a scan.
package compress
