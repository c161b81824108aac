package dataset

import (
	"fmt"
	"time"

	"github.com/geogaslab/spectra/errs"
	"github.com/geogaslab/spectra/format"
	"github.com/geogaslab/spectra/section"
)

// RawDataBuffer stages raw instrument data: one dependent-variable row per
// sample (e.g. a spectrum, or a single column amount) plus per-sample
// timestamps and scan angles.
type RawDataBuffer struct {
	// DVar holds the dependent variable, one row per sample. All rows must
	// have the same width.
	DVar [][]float64
	// IndVar holds the independent variable shared by every DVar row, e.g.
	// the wavelength grid.
	IndVar []float64
	// Datetime holds one acquisition timestamp per sample.
	Datetime []time.Time
	// IncAngle holds one scanner incidence angle per sample, in degrees.
	IncAngle []float64

	Target     *Target
	Instrument *Instrument
	Type       *RawDataType
	Tags       []string
}

func (b *RawDataBuffer) Kind() format.ElementKind { return format.KindRawData }

// sampleCount returns the number of samples staged in the buffer.
func (b *RawDataBuffer) sampleCount() int {
	if len(b.DVar) > 0 {
		return len(b.DVar)
	}
	return len(b.Datetime)
}

func (b *RawDataBuffer) validate(d *Dataset) error {
	if len(b.DVar) > 0 && len(b.Datetime) > 0 && len(b.DVar) != len(b.Datetime) {
		return fmt.Errorf("%w: %d d_var rows but %d timestamps",
			errs.ErrLengthMismatch, len(b.DVar), len(b.Datetime))
	}
	if len(b.IncAngle) > 0 && len(b.Datetime) > 0 && len(b.IncAngle) != len(b.Datetime) {
		return fmt.Errorf("%w: %d incidence angles but %d timestamps",
			errs.ErrLengthMismatch, len(b.IncAngle), len(b.Datetime))
	}
	if b.Target != nil {
		if err := checkRef(d, fieldTarget, b.Target.record); err != nil {
			return err
		}
	}
	if b.Instrument != nil {
		if err := checkRef(d, fieldInstrument, b.Instrument.record); err != nil {
			return err
		}
	}
	if b.Type != nil {
		if err := checkRef(d, fieldType, b.Type.record); err != nil {
			return err
		}
	}
	return d.checkTags(b.Tags)
}

func (b *RawDataBuffer) buildFields() ([]namedField, error) {
	var fb fieldBuilder
	fb.addMatrix(fieldDVar, b.DVar)
	fb.addFloats(fieldIndVar, b.IndVar)
	fb.addTimes(fieldDatetime, b.Datetime)
	fb.addFloats(fieldIncAngle, b.IncAngle)
	if b.Target != nil {
		fb.addRef(fieldTarget, b.Target.id, true)
	}
	if b.Instrument != nil {
		fb.addRef(fieldInstrument, b.Instrument.id, true)
	}
	if b.Type != nil {
		fb.addRef(fieldType, b.Type.id, true)
	}
	fb.addStrings(fieldTags, b.Tags)
	return fb.build()
}

// RawData is a committed raw-data element. It is the only extendable
// element kind: Append adds samples to an existing element.
type RawData struct{ *record }

// DVar returns the dependent variable, one row per sample.
func (r *RawData) DVar() [][]float64 { return r.matrix(fieldDVar) }

// IndVar returns the independent variable shared across samples.
func (r *RawData) IndVar() []float64 { return r.floats(fieldIndVar) }

// Datetime returns the per-sample acquisition timestamps.
func (r *RawData) Datetime() []time.Time { return r.timesOf(fieldDatetime) }

// IncAngle returns the per-sample scanner incidence angles.
func (r *RawData) IncAngle() []float64 { return r.floats(fieldIncAngle) }

// SampleCount returns the number of samples in the element. Concentration
// indices address this range.
func (r *RawData) SampleCount() int {
	if f, ok := r.fields[fieldDVar]; ok && f.cols > 0 {
		return len(f.f64s) / f.cols
	}
	if f, ok := r.fields[fieldDatetime]; ok {
		return len(f.times)
	}
	return 0
}

// Target resolves the referenced measurement target, nil when unset.
func (r *RawData) Target() *Target {
	if rec := r.resolve(fieldTarget); rec != nil {
		return &Target{rec}
	}
	return nil
}

// Instrument resolves the referenced instrument, nil when unset.
func (r *RawData) Instrument() *Instrument {
	if rec := r.resolve(fieldInstrument); rec != nil {
		return &Instrument{rec}
	}
	return nil
}

// Type resolves the referenced raw-data type, nil when unset.
func (r *RawData) Type() *RawDataType {
	if rec := r.resolve(fieldType); rec != nil {
		return &RawDataType{rec}
	}
	return nil
}

func (r *record) resolve(name string) *record {
	rid, ok := r.ref(name)
	if !ok || r.ds == nil {
		return nil
	}
	return r.ds.byID[rid]
}

// Append extends the element with the samples staged in buf. The buffer's
// references, when set, must match the element's; its DVar rows must have
// the element's column width. The appended samples are written as a
// continuation frame and become visible immediately.
func (r *RawData) Append(buf *RawDataBuffer) error {
	d := r.ds
	if err := d.checkOpen(); err != nil {
		return err
	}
	if err := buf.validate(d); err != nil {
		return fmt.Errorf("append to rawdata %016x: %w", r.id, err)
	}
	if err := r.checkAppendRefs(buf); err != nil {
		return fmt.Errorf("append to rawdata %016x: %w", r.id, err)
	}
	if f, ok := r.fields[fieldDVar]; ok && len(buf.DVar) > 0 && len(buf.DVar[0]) != f.cols {
		return fmt.Errorf("append to rawdata %016x: %w: %d columns, want %d",
			r.id, errs.ErrAppendMismatch, len(buf.DVar[0]), f.cols)
	}

	fields, err := buf.buildFields()
	if err != nil {
		return fmt.Errorf("append to rawdata %016x: %w", r.id, err)
	}

	now := time.Now().UTC().Truncate(time.Microsecond)
	cont := &record{
		ds:       d,
		kind:     r.kind,
		id:       r.id,
		created:  now,
		modified: now,
		fields:   make(map[string]*field, len(fields)),
	}
	for _, nf := range fields {
		// scalar constants travel on the base record only
		switch nf.name {
		case fieldIndVar, fieldTarget, fieldInstrument, fieldType:
			continue
		}
		cont.fields[nf.name] = nf.f
	}

	if err := d.writeRecordFrame(cont, section.FrameFlagContinuation); err != nil {
		return err
	}
	return mergeContinuation(r.record, cont)
}

// checkAppendRefs verifies buf's references against the committed element.
func (r *RawData) checkAppendRefs(buf *RawDataBuffer) error {
	if buf.Target != nil {
		if err := r.sameRef(fieldTarget, buf.Target.record); err != nil {
			return err
		}
	}
	if buf.Instrument != nil {
		if err := r.sameRef(fieldInstrument, buf.Instrument.record); err != nil {
			return err
		}
	}
	if buf.Type != nil {
		if err := r.sameRef(fieldType, buf.Type.record); err != nil {
			return err
		}
	}
	if len(buf.IndVar) > 0 {
		have := r.fields[fieldIndVar]
		if have == nil || !equalFloats(have.f64s, buf.IndVar) {
			return fmt.Errorf("%w: ind_var differs from the committed element",
				errs.ErrAppendMismatch)
		}
	}
	return nil
}

func (r *record) sameRef(name string, want *record) error {
	have, ok := r.ref(name)
	if !ok || have != want.id {
		return fmt.Errorf("%w: %s differs from the committed element",
			errs.ErrAppendMismatch, name)
	}
	return nil
}

// Append extends an extendable element with the samples staged in buf.
// RawData is the only extendable kind; any other element returns an error
// wrapping errs.ErrNotExtendable.
func (d *Dataset) Append(e Element, buf Buffer) error {
	r, ok := e.(*RawData)
	if !ok {
		return fmt.Errorf("%w: %s", errs.ErrNotExtendable, e.Kind())
	}
	rb, ok := buf.(*RawDataBuffer)
	if !ok {
		return fmt.Errorf("%w: cannot append a %s buffer to rawdata",
			errs.ErrAppendMismatch, buf.Kind())
	}
	return r.Append(rb)
}

func equalFloats(a, b []float64) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
