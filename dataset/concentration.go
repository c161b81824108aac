package dataset

import (
	"fmt"

	"github.com/geogaslab/spectra/errs"
	"github.com/geogaslab/spectra/format"
)

// ConcentrationBuffer stages retrieved gas column amounts. Every
// concentration is derived from raw data: RawData and RawDataIndices are
// mandatory and must be set together, with one index into the raw data's
// samples per concentration value.
type ConcentrationBuffer struct {
	// GasSpecies names the retrieved species, e.g. "SO2".
	GasSpecies string
	// Value holds the retrieved column amounts.
	Value []float64
	// RawData references the element the values were retrieved from.
	RawData *RawData
	// RawDataIndices maps each value to the raw-data sample it came from.
	RawDataIndices []int64
	Tags           []string
}

func (b *ConcentrationBuffer) Kind() format.ElementKind { return format.KindConcentration }

func (b *ConcentrationBuffer) validate(d *Dataset) error {
	if b.RawData == nil || len(b.RawDataIndices) == 0 {
		return fmt.Errorf("%w: concentration requires rawdata and rawdata_indices",
			errs.ErrMissingReference)
	}
	if err := checkRef(d, fieldRawData, b.RawData.record); err != nil {
		return err
	}
	if len(b.Value) > 0 && len(b.Value) != len(b.RawDataIndices) {
		return fmt.Errorf("%w: %d values but %d rawdata indices",
			errs.ErrLengthMismatch, len(b.Value), len(b.RawDataIndices))
	}
	n := int64(b.RawData.SampleCount())
	for _, idx := range b.RawDataIndices {
		if idx < 0 || idx >= n {
			return fmt.Errorf("%w: rawdata index %d outside [0,%d)",
				errs.ErrIndexOutOfRange, idx, n)
		}
	}
	return d.checkTags(b.Tags)
}

func (b *ConcentrationBuffer) buildFields() ([]namedField, error) {
	var fb fieldBuilder
	fb.addString(fieldGasSpecies, b.GasSpecies)
	fb.addFloats(fieldValue, b.Value)
	if b.RawData != nil {
		fb.addRef(fieldRawData, b.RawData.id, true)
	}
	fb.addInts(fieldRawDataIdx, b.RawDataIndices)
	fb.addStrings(fieldTags, b.Tags)
	return fb.build()
}

// Concentration is a committed gas concentration element.
type Concentration struct{ *record }

func (c *Concentration) GasSpecies() string { return c.str(fieldGasSpecies) }
func (c *Concentration) Value() []float64   { return c.floats(fieldValue) }

// RawData resolves the raw data the concentrations were retrieved from.
func (c *Concentration) RawData() *RawData {
	if rec := c.resolve(fieldRawData); rec != nil {
		return &RawData{rec}
	}
	return nil
}

// RawDataIndices returns the per-value sample indices into RawData.
func (c *Concentration) RawDataIndices() []int64 { return c.ints(fieldRawDataIdx) }
