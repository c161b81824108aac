package dataset

import (
	"fmt"

	"github.com/geogaslab/spectra/errs"
	"github.com/geogaslab/spectra/format"
)

// PreferredFluxBuffer stages a curated flux time series: the ranges of
// existing Flux elements an analyst considers the best estimate. Fluxes and
// FluxIndices must be set together; each index pair selects element p[0] of
// Fluxes and value p[1] within it.
type PreferredFluxBuffer struct {
	Name   string
	Fluxes []*Flux
	// FluxIndices holds (flux element, value) index pairs.
	FluxIndices [][2]int64
	Tags        []string
}

func (b *PreferredFluxBuffer) Kind() format.ElementKind { return format.KindPreferredFlux }

func (b *PreferredFluxBuffer) validate(d *Dataset) error {
	hasFluxes := len(b.Fluxes) > 0
	hasIdx := len(b.FluxIndices) > 0
	if hasFluxes != hasIdx {
		return fmt.Errorf("%w: fluxes and flux_indices must be set together",
			errs.ErrMissingReference)
	}
	for _, f := range b.Fluxes {
		if f == nil {
			return fmt.Errorf("%w: nil flux", errs.ErrMissingReference)
		}
		if err := checkRef(d, fieldFluxes, f.record); err != nil {
			return err
		}
	}
	for _, p := range b.FluxIndices {
		if p[0] < 0 || p[0] >= int64(len(b.Fluxes)) {
			return fmt.Errorf("%w: flux element index %d outside [0,%d)",
				errs.ErrIndexOutOfRange, p[0], len(b.Fluxes))
		}
		n := int64(len(b.Fluxes[p[0]].record.floats(fieldValue)))
		if p[1] < 0 || p[1] >= n {
			return fmt.Errorf("%w: flux value index %d outside [0,%d)",
				errs.ErrIndexOutOfRange, p[1], n)
		}
	}
	return d.checkTags(b.Tags)
}

func (b *PreferredFluxBuffer) buildFields() ([]namedField, error) {
	var fb fieldBuilder
	fb.addString(fieldName, b.Name)
	ids := make([]uint64, 0, len(b.Fluxes))
	for _, f := range b.Fluxes {
		ids = append(ids, f.id)
	}
	fb.addRefs(fieldFluxes, ids)
	fb.addPairs(fieldFluxIdx, b.FluxIndices)
	fb.addStrings(fieldTags, b.Tags)
	return fb.build()
}

// PreferredFlux is a committed curated flux series.
type PreferredFlux struct{ *record }

func (p *PreferredFlux) Name() string { return p.str(fieldName) }

// Fluxes resolves the referenced flux elements in staged order.
func (p *PreferredFlux) Fluxes() []*Flux {
	ids := p.refsOf(fieldFluxes)
	out := make([]*Flux, 0, len(ids))
	for _, rid := range ids {
		if rec, ok := p.ds.byID[rid]; ok {
			out = append(out, &Flux{rec})
		}
	}
	return out
}

// FluxIndices returns the (flux element, value) index pairs.
func (p *PreferredFlux) FluxIndices() [][2]int64 { return p.pairs(fieldFluxIdx) }
