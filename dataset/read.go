package dataset

import (
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/geogaslab/spectra/errs"
	"github.com/geogaslab/spectra/internal/options"
)

// ReadOptions carries the resolved options passed to a FormatReader.
type ReadOptions struct {
	// Timeshift is added to every timestamp parsed from the input file,
	// compensating instrument clocks that drift or run in local time.
	Timeshift time.Duration
}

// ReadOption configures Dataset.ReadFile.
type ReadOption = options.Option[*ReadOptions]

// WithTimeshift shifts every parsed timestamp by the given offset.
func WithTimeshift(shift time.Duration) ReadOption {
	return options.NoError(func(o *ReadOptions) { o.Timeshift = shift })
}

// FormatReader parses one foreign file format into staged element buffers.
// Implementations register themselves with RegisterFormat.
type FormatReader interface {
	// Read parses the named file into buffers keyed by buffer type, e.g.
	// "RawDataBuffer" or "ConcentrationBuffer". The buffers are not linked
	// to any dataset; the caller wires references and commits them.
	Read(filename string, opts ReadOptions) (map[string]Buffer, error)
}

var (
	formatsMu sync.RWMutex
	formats   = make(map[string]FormatReader)
)

// RegisterFormat makes a format reader available to ReadFile under the
// given name, case-insensitively. It panics when the reader is nil or the
// name is already taken, so registration conflicts surface at start-up.
func RegisterFormat(name string, r FormatReader) {
	formatsMu.Lock()
	defer formatsMu.Unlock()
	if r == nil {
		panic("dataset: RegisterFormat reader is nil")
	}
	key := strings.ToLower(name)
	if _, dup := formats[key]; dup {
		panic("dataset: RegisterFormat called twice for format " + name)
	}
	formats[key] = r
}

// Formats returns the names of the registered format readers, sorted.
func Formats() []string {
	formatsMu.RLock()
	defer formatsMu.RUnlock()
	names := make([]string, 0, len(formats))
	for name := range formats {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// ReadFile parses a foreign-format file into staged buffers. The dataset is
// not modified; commit the returned buffers with New after linking them. An
// unknown ftype fails with an error wrapping errs.ErrUnsupportedFormat.
func (d *Dataset) ReadFile(filename, ftype string, opts ...ReadOption) (map[string]Buffer, error) {
	if err := d.checkOpen(); err != nil {
		return nil, err
	}
	cfg := &ReadOptions{}
	if err := options.Apply(cfg, opts...); err != nil {
		return nil, err
	}

	formatsMu.RLock()
	reader, ok := formats[strings.ToLower(ftype)]
	formatsMu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: %q", errs.ErrUnsupportedFormat, ftype)
	}
	return reader.Read(filename, *cfg)
}
