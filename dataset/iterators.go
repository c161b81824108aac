package dataset

import (
	"iter"

	"github.com/geogaslab/spectra/format"
)

// Typed iterators over committed elements, in commit order. The returned
// sequences can be ranged over multiple times and support early break.

func (d *Dataset) Targets() iter.Seq[*Target] {
	return iterKind(d, format.KindTarget, func(r *record) *Target { return &Target{r} })
}

func (d *Dataset) Instruments() iter.Seq[*Instrument] {
	return iterKind(d, format.KindInstrument, func(r *record) *Instrument { return &Instrument{r} })
}

func (d *Dataset) RawDataTypes() iter.Seq[*RawDataType] {
	return iterKind(d, format.KindRawDataType, func(r *record) *RawDataType { return &RawDataType{r} })
}

func (d *Dataset) Methods() iter.Seq[*Method] {
	return iterKind(d, format.KindMethod, func(r *record) *Method { return &Method{r} })
}

func (d *Dataset) RawData() iter.Seq[*RawData] {
	return iterKind(d, format.KindRawData, func(r *record) *RawData { return &RawData{r} })
}

func (d *Dataset) Concentrations() iter.Seq[*Concentration] {
	return iterKind(d, format.KindConcentration, func(r *record) *Concentration { return &Concentration{r} })
}

func (d *Dataset) GasFlows() iter.Seq[*GasFlow] {
	return iterKind(d, format.KindGasFlow, func(r *record) *GasFlow { return &GasFlow{r} })
}

func (d *Dataset) Fluxes() iter.Seq[*Flux] {
	return iterKind(d, format.KindFlux, func(r *record) *Flux { return &Flux{r} })
}

func (d *Dataset) PreferredFluxes() iter.Seq[*PreferredFlux] {
	return iterKind(d, format.KindPreferredFlux, func(r *record) *PreferredFlux { return &PreferredFlux{r} })
}

func iterKind[E any](d *Dataset, kind format.ElementKind, wrap func(*record) E) iter.Seq[E] {
	return func(yield func(E) bool) {
		for _, rec := range d.elems[kind] {
			if !yield(wrap(rec)) {
				return
			}
		}
	}
}
