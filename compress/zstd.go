package compress

// ZstdCompressor provides Zstandard compression, the store default. It gives
// the best ratio on encoded spectroscopy arrays at a moderate CPU cost, which
// suits archival datasets that are written once per field campaign.
//
// Two implementations are available: a pure Go codec (default) and a cgo
// codec built with the cgozstd build tag.
type ZstdCompressor struct{}

var _ Codec = (*ZstdCompressor)(nil)

// NewZstdCompressor creates a new Zstd compressor with default settings.
func NewZstdCompressor() ZstdCompressor {
	return ZstdCompressor{}
}
