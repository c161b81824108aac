package dataset

import (
	"fmt"
	"time"

	"github.com/geogaslab/spectra/errs"
	"github.com/geogaslab/spectra/format"
)

// Element is a committed dataset element. Concrete types are Target,
// Instrument, RawDataType, Method, RawData, Concentration, GasFlow, Flux
// and PreferredFlux; type-switch on the Element to recover them.
type Element interface {
	Kind() format.ElementKind
	ResourceID() uint64
	Tags() []string
	CreatedAt() time.Time
	ModifiedAt() time.Time
}

// Buffer stages one element for commit. Concrete types are TargetBuffer,
// InstrumentBuffer and so on; fill the exported attributes and pass the
// buffer to Dataset.New. Zero-valued attributes are treated as unset.
type Buffer interface {
	Kind() format.ElementKind

	validate(d *Dataset) error
	buildFields() ([]namedField, error)
}

func wrapRecord(r *record) Element {
	switch r.kind {
	case format.KindTarget:
		return &Target{r}
	case format.KindInstrument:
		return &Instrument{r}
	case format.KindRawDataType:
		return &RawDataType{r}
	case format.KindMethod:
		return &Method{r}
	case format.KindRawData:
		return &RawData{r}
	case format.KindConcentration:
		return &Concentration{r}
	case format.KindGasFlow:
		return &GasFlow{r}
	case format.KindFlux:
		return &Flux{r}
	case format.KindPreferredFlux:
		return &PreferredFlux{r}
	}
	return nil
}

// checkRef validates that a referenced element record belongs to d.
func checkRef(d *Dataset, name string, r *record) error {
	if r.ds != d {
		return fmt.Errorf("%w: %s %016x belongs to a different dataset",
			errs.ErrForeignReference, name, r.id)
	}
	if _, ok := d.byID[r.id]; !ok {
		return fmt.Errorf("%w: %s %016x", errs.ErrDanglingReference, name, r.id)
	}
	return nil
}
