package dataset

import (
	"fmt"
	"time"

	"github.com/geogaslab/spectra/errs"
	"github.com/geogaslab/spectra/format"
	"github.com/geogaslab/spectra/internal/options"
	"github.com/geogaslab/spectra/section"
)

type commitConfig struct {
	pedantic bool
}

// CommitOption configures Dataset.New.
type CommitOption = options.Option[*commitConfig]

// Pedantic makes the commit fail with an error wrapping
// errs.ErrIncompleteBuffer unless every attribute of the buffer except tags
// is set. Use it to guarantee fully populated records.
func Pedantic() CommitOption {
	return options.NoError(func(c *commitConfig) { c.pedantic = true })
}

// New validates the staged buffer and commits it to the dataset, returning
// the immutable element. Validation covers cross-references (they must point
// into this dataset), index bounds against the referenced arrays, length
// consistency and tag registration; a failed commit leaves the dataset
// unmodified.
func (d *Dataset) New(buf Buffer, opts ...CommitOption) (Element, error) {
	if err := d.checkOpen(); err != nil {
		return nil, err
	}
	cfg := &commitConfig{}
	if err := options.Apply(cfg, opts...); err != nil {
		return nil, err
	}

	kind := buf.Kind()
	if err := buf.validate(d); err != nil {
		return nil, fmt.Errorf("commit %s: %w", kind, err)
	}
	fields, err := buf.buildFields()
	if err != nil {
		return nil, fmt.Errorf("commit %s: %w", kind, err)
	}
	if cfg.pedantic {
		if err := checkComplete(kind, fields); err != nil {
			return nil, fmt.Errorf("commit %s: %w", kind, err)
		}
	}

	now := time.Now().UTC().Truncate(time.Microsecond)
	rec := &record{
		ds:       d,
		kind:     kind,
		id:       d.nextResourceID(kind),
		created:  now,
		modified: now,
		fields:   make(map[string]*field, len(fields)),
	}
	for _, nf := range fields {
		rec.fields[nf.name] = nf.f
	}

	if err := d.writeRecordFrame(rec, 0); err != nil {
		return nil, err
	}
	d.elems[kind] = append(d.elems[kind], rec)
	d.byID[rec.id] = rec
	return wrapRecord(rec), nil
}

// checkComplete enforces the pedantic rule: all schema fields but tags must
// be present.
func checkComplete(kind format.ElementKind, fields []namedField) error {
	present := make(map[string]struct{}, len(fields))
	for _, nf := range fields {
		present[nf.name] = struct{}{}
	}
	for _, spec := range schemas[kind] {
		if spec.name == fieldTags {
			continue
		}
		if _, ok := present[spec.name]; !ok {
			return fmt.Errorf("%w: %s is not set", errs.ErrIncompleteBuffer, spec.name)
		}
	}
	return nil
}

func (d *Dataset) writeRecordFrame(rec *record, flags uint8) error {
	payload, err := encodeRecord(rec, d.codec, d.ctype, d.header.IsBigEndian())
	if err != nil {
		return err
	}
	fh := section.FrameHeader{
		Kind:   rec.kind,
		Flags:  flags,
		Length: uint32(len(payload)),
	}
	return d.appendFrame(fh, payload)
}
