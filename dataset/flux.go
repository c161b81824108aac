package dataset

import (
	"fmt"
	"time"

	"github.com/geogaslab/spectra/errs"
	"github.com/geogaslab/spectra/format"
)

// FluxBuffer stages emission-rate estimates. Each flux value may trace back
// to the concentrations it integrates: Concentration and
// ConcentrationIndices must be set together, with one (first, last) pair
// into the concentration's values per flux value.
type FluxBuffer struct {
	// Value holds emission rates, conventionally in kg/s.
	Value    []float64
	Datetime []time.Time

	Concentration *Concentration
	// ConcentrationIndices holds one inclusive (first, last) index pair per
	// flux value, addressing Concentration's values.
	ConcentrationIndices [][2]int64

	GasFlow *GasFlow
	Tags    []string
}

func (b *FluxBuffer) Kind() format.ElementKind { return format.KindFlux }

func (b *FluxBuffer) validate(d *Dataset) error {
	hasConc := b.Concentration != nil
	hasIdx := len(b.ConcentrationIndices) > 0
	if hasConc != hasIdx {
		return fmt.Errorf("%w: concentration and concentration_indices must be set together",
			errs.ErrMissingReference)
	}
	if len(b.Value) > 0 && len(b.Datetime) > 0 && len(b.Value) != len(b.Datetime) {
		return fmt.Errorf("%w: %d values but %d timestamps",
			errs.ErrLengthMismatch, len(b.Value), len(b.Datetime))
	}
	if hasConc {
		if err := checkRef(d, fieldConc, b.Concentration.record); err != nil {
			return err
		}
		if len(b.Value) > 0 && len(b.ConcentrationIndices) != len(b.Value) {
			return fmt.Errorf("%w: %d index pairs but %d flux values",
				errs.ErrLengthMismatch, len(b.ConcentrationIndices), len(b.Value))
		}
		n := int64(len(b.Concentration.record.floats(fieldValue)))
		for _, p := range b.ConcentrationIndices {
			if p[0] < 0 || p[1] < p[0] || p[1] >= n {
				return fmt.Errorf("%w: concentration index pair (%d,%d) outside [0,%d)",
					errs.ErrIndexOutOfRange, p[0], p[1], n)
			}
		}
	}
	if b.GasFlow != nil {
		if err := checkRef(d, fieldGasFlow, b.GasFlow.record); err != nil {
			return err
		}
	}
	return d.checkTags(b.Tags)
}

func (b *FluxBuffer) buildFields() ([]namedField, error) {
	var fb fieldBuilder
	fb.addFloats(fieldValue, b.Value)
	fb.addTimes(fieldDatetime, b.Datetime)
	if b.Concentration != nil {
		fb.addRef(fieldConc, b.Concentration.id, true)
	}
	fb.addPairs(fieldConcIdx, b.ConcentrationIndices)
	if b.GasFlow != nil {
		fb.addRef(fieldGasFlow, b.GasFlow.id, true)
	}
	fb.addStrings(fieldTags, b.Tags)
	return fb.build()
}

// Flux is a committed emission-rate element.
type Flux struct{ *record }

func (f *Flux) Value() []float64      { return f.floats(fieldValue) }
func (f *Flux) Datetime() []time.Time { return f.timesOf(fieldDatetime) }

// Concentration resolves the referenced concentration element, nil when
// unset.
func (f *Flux) Concentration() *Concentration {
	if rec := f.resolve(fieldConc); rec != nil {
		return &Concentration{rec}
	}
	return nil
}

// ConcentrationIndices returns the per-value (first, last) pairs into the
// referenced concentration.
func (f *Flux) ConcentrationIndices() [][2]int64 { return f.pairs(fieldConcIdx) }

// GasFlow resolves the referenced plume-velocity element, nil when unset.
func (f *Flux) GasFlow() *GasFlow {
	if rec := f.resolve(fieldGasFlow); rec != nil {
		return &GasFlow{rec}
	}
	return nil
}
