package dataset

import (
	"fmt"

	"github.com/ctessum/geom"
	"github.com/geogaslab/spectra/errs"
	"github.com/geogaslab/spectra/format"
)

// TargetBuffer stages a measurement target, typically a volcanic vent or
// plume source.
type TargetBuffer struct {
	// TargetID is the campaign-wide identifier of the target, e.g. "WI001".
	TargetID    string
	Name        string
	Description string
	// Position is longitude, latitude and elevation in metres.
	Position []float64
	// PositionError gives the measurement uncertainty per Position component.
	PositionError []float64
	Tags          []string
}

func (b *TargetBuffer) Kind() format.ElementKind { return format.KindTarget }

func (b *TargetBuffer) validate(d *Dataset) error {
	if b.Position != nil && len(b.Position) != 3 {
		return fmt.Errorf("%w: position has %d components, want 3",
			errs.ErrLengthMismatch, len(b.Position))
	}
	if b.PositionError != nil && len(b.PositionError) != 3 {
		return fmt.Errorf("%w: position_error has %d components, want 3",
			errs.ErrLengthMismatch, len(b.PositionError))
	}
	return d.checkTags(b.Tags)
}

func (b *TargetBuffer) buildFields() ([]namedField, error) {
	var fb fieldBuilder
	fb.addString(fieldTargetID, b.TargetID)
	fb.addString(fieldName, b.Name)
	fb.addString(fieldDescription, b.Description)
	fb.addFloats(fieldPosition, b.Position)
	fb.addFloats(fieldPositionError, b.PositionError)
	fb.addStrings(fieldTags, b.Tags)
	return fb.build()
}

// Target is a committed measurement target.
type Target struct{ *record }

func (t *Target) TargetID() string         { return t.str(fieldTargetID) }
func (t *Target) Name() string             { return t.str(fieldName) }
func (t *Target) Description() string      { return t.str(fieldDescription) }
func (t *Target) Position() []float64      { return t.floats(fieldPosition) }
func (t *Target) PositionError() []float64 { return t.floats(fieldPositionError) }

// Location returns the target position as a lon/lat point.
func (t *Target) Location() geom.Point {
	p := t.floats(fieldPosition)
	if len(p) < 2 {
		return geom.Point{}
	}
	return geom.Point{X: p[0], Y: p[1]}
}

// Elevation returns the target elevation in metres, zero when the position
// is unset.
func (t *Target) Elevation() float64 {
	p := t.floats(fieldPosition)
	if len(p) < 3 {
		return 0
	}
	return p[2]
}
