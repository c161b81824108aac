package dataset

import (
	"fmt"
	"time"

	"github.com/geogaslab/spectra/errs"
	"github.com/geogaslab/spectra/format"
)

// GasFlowBuffer stages plume-velocity estimates: per-timestamp speed and
// direction, plus the methods they were derived with.
type GasFlowBuffer struct {
	Datetime []time.Time
	// Speed holds plume speeds in m/s, one per timestamp.
	Speed []float64
	// Direction holds plume bearings in degrees, one per timestamp.
	Direction []float64
	Methods   []*Method
	Tags      []string
}

func (b *GasFlowBuffer) Kind() format.ElementKind { return format.KindGasFlow }

func (b *GasFlowBuffer) validate(d *Dataset) error {
	if len(b.Speed) > 0 && len(b.Datetime) > 0 && len(b.Speed) != len(b.Datetime) {
		return fmt.Errorf("%w: %d speeds but %d timestamps",
			errs.ErrLengthMismatch, len(b.Speed), len(b.Datetime))
	}
	if len(b.Direction) > 0 && len(b.Datetime) > 0 && len(b.Direction) != len(b.Datetime) {
		return fmt.Errorf("%w: %d directions but %d timestamps",
			errs.ErrLengthMismatch, len(b.Direction), len(b.Datetime))
	}
	for _, m := range b.Methods {
		if m == nil {
			return fmt.Errorf("%w: nil method", errs.ErrMissingReference)
		}
		if err := checkRef(d, fieldMethods, m.record); err != nil {
			return err
		}
	}
	return d.checkTags(b.Tags)
}

func (b *GasFlowBuffer) buildFields() ([]namedField, error) {
	var fb fieldBuilder
	fb.addTimes(fieldDatetime, b.Datetime)
	fb.addFloats(fieldSpeed, b.Speed)
	fb.addFloats(fieldDirection, b.Direction)
	ids := make([]uint64, 0, len(b.Methods))
	for _, m := range b.Methods {
		ids = append(ids, m.id)
	}
	fb.addRefs(fieldMethods, ids)
	fb.addStrings(fieldTags, b.Tags)
	return fb.build()
}

// GasFlow is a committed plume-velocity element.
type GasFlow struct{ *record }

func (g *GasFlow) Datetime() []time.Time { return g.timesOf(fieldDatetime) }
func (g *GasFlow) Speed() []float64      { return g.floats(fieldSpeed) }
func (g *GasFlow) Direction() []float64  { return g.floats(fieldDirection) }

// Methods resolves the referenced analysis methods.
func (g *GasFlow) Methods() []*Method {
	ids := g.refsOf(fieldMethods)
	out := make([]*Method, 0, len(ids))
	for _, rid := range ids {
		if rec, ok := g.ds.byID[rid]; ok {
			out = append(out, &Method{rec})
		}
	}
	return out
}
