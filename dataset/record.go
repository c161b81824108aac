package dataset

import (
	"fmt"
	"time"

	"github.com/geogaslab/spectra/compress"
	"github.com/geogaslab/spectra/errs"
	"github.com/geogaslab/spectra/format"
	"github.com/geogaslab/spectra/internal/hash"
	"github.com/geogaslab/spectra/internal/pool"
	"github.com/geogaslab/spectra/section"
)

// record is the in-memory form of one committed element. Typed element
// handles (Target, RawData, ...) embed a *record and expose its fields
// through copy-returning accessors.
type record struct {
	ds       *Dataset
	kind     format.ElementKind
	id       uint64
	created  time.Time
	modified time.Time
	fields   map[string]*field
}

// Kind returns the element kind of the record.
func (r *record) Kind() format.ElementKind { return r.kind }

// ResourceID returns the dataset-unique identifier of the element.
func (r *record) ResourceID() uint64 { return r.id }

// CreatedAt returns the commit time of the element, UTC at microsecond
// resolution.
func (r *record) CreatedAt() time.Time { return r.created }

// ModifiedAt returns the time of the last append to the element. For
// elements that were never appended to it equals CreatedAt.
func (r *record) ModifiedAt() time.Time { return r.modified }

// Tags returns a copy of the tags attached to the element.
func (r *record) Tags() []string { return r.strsOf(fieldTags) }

func (r *record) floats(name string) []float64 {
	f, ok := r.fields[name]
	if !ok {
		return nil
	}
	return append([]float64(nil), f.f64s...)
}

func (r *record) matrix(name string) [][]float64 {
	f, ok := r.fields[name]
	if !ok || f.cols <= 0 {
		return nil
	}
	rows := make([][]float64, 0, len(f.f64s)/f.cols)
	for i := 0; i+f.cols <= len(f.f64s); i += f.cols {
		rows = append(rows, append([]float64(nil), f.f64s[i:i+f.cols]...))
	}
	return rows
}

func (r *record) ints(name string) []int64 {
	f, ok := r.fields[name]
	if !ok {
		return nil
	}
	return append([]int64(nil), f.i64s...)
}

func (r *record) intScalar(name string) int64 {
	f, ok := r.fields[name]
	if !ok || len(f.i64s) == 0 {
		return 0
	}
	return f.i64s[0]
}

func (r *record) pairs(name string) [][2]int64 {
	f, ok := r.fields[name]
	if !ok {
		return nil
	}
	out := make([][2]int64, 0, len(f.i64s)/2)
	for i := 0; i+2 <= len(f.i64s); i += 2 {
		out = append(out, [2]int64{f.i64s[i], f.i64s[i+1]})
	}
	return out
}

func (r *record) timesOf(name string) []time.Time {
	f, ok := r.fields[name]
	if !ok {
		return nil
	}
	return append([]time.Time(nil), f.times...)
}

func (r *record) str(name string) string {
	f, ok := r.fields[name]
	if !ok || len(f.strs) == 0 {
		return ""
	}
	return f.strs[0]
}

func (r *record) strsOf(name string) []string {
	f, ok := r.fields[name]
	if !ok {
		return nil
	}
	return append([]string(nil), f.strs...)
}

func (r *record) ref(name string) (uint64, bool) {
	f, ok := r.fields[name]
	if !ok || len(f.refs) == 0 {
		return 0, false
	}
	return f.refs[0], true
}

func (r *record) refsOf(name string) []uint64 {
	f, ok := r.fields[name]
	if !ok {
		return nil
	}
	return append([]uint64(nil), f.refs...)
}

// dropTag removes tag from the record's tags field, if present.
func (r *record) dropTag(tag string) {
	f, ok := r.fields[fieldTags]
	if !ok {
		return
	}
	kept := f.strs[:0]
	for _, t := range f.strs {
		if t != tag {
			kept = append(kept, t)
		}
	}
	f.strs = kept
	if len(f.strs) == 0 {
		delete(r.fields, fieldTags)
	}
}

// encodeRecord serializes a record into the payload of a record frame:
// record header, one field index entry per present field in schema order,
// then the compressed concatenation of all field payloads.
func encodeRecord(r *record, codec compress.Codec, ctype format.CompressionType, bigEndian bool) ([]byte, error) {
	hdr := section.NewRecordHeader(r.kind, r.id, r.created, ctype, bigEndian)
	hdr.Modified = r.modified.UnixMicro()
	engine := hdr.GetEndianEngine()

	entries := make([]section.FieldIndexEntry, 0, len(r.fields))
	raw := pool.GetRecordBuffer()
	defer pool.PutRecordBuffer(raw)

	for _, spec := range schemas[r.kind] {
		f, ok := r.fields[spec.name]
		if !ok {
			continue
		}
		offset := raw.Len()
		payload, err := f.appendPayload(raw.Bytes(), engine)
		if err != nil {
			return nil, fmt.Errorf("encode field %s: %w", spec.name, err)
		}
		raw.B = payload
		entries = append(entries, section.FieldIndexEntry{
			NameID: hash.ID(spec.name),
			Offset: offset,
			Length: raw.Len() - offset,
			Count:  f.count(),
			Cols:   f.cols,
			Type:   f.typ,
		})
	}
	hdr.FieldCount = uint32(len(entries))

	compressed, err := codec.Compress(raw.Bytes())
	if err != nil {
		return nil, fmt.Errorf("compress record payload: %w", err)
	}

	out := make([]byte, section.RecordHeaderSize+len(entries)*section.FieldEntrySize, section.RecordHeaderSize+len(entries)*section.FieldEntrySize+len(compressed))
	copy(out, hdr.Bytes())
	for i := range entries {
		entries[i].WriteToSlice(out, section.RecordHeaderSize+i*section.FieldEntrySize, engine)
	}
	return append(out, compressed...), nil
}

// decodeRecord parses the payload of a record frame back into a record.
// Field index entries with an unknown NameID are skipped.
func decodeRecord(data []byte) (*record, error) {
	hdr, err := section.ParseRecordHeader(data)
	if err != nil {
		return nil, err
	}
	engine := hdr.GetEndianEngine()

	kind := hdr.Kind
	entriesLen := int(hdr.FieldCount) * section.FieldEntrySize
	if len(data) < section.RecordHeaderSize+entriesLen {
		return nil, fmt.Errorf("%w: %d field entries do not fit in %d bytes",
			errs.ErrMalformedRecord, hdr.FieldCount, len(data))
	}

	codec, err := compress.GetCodec(hdr.CompressionType)
	if err != nil {
		return nil, err
	}
	payload, err := codec.Decompress(data[section.RecordHeaderSize+entriesLen:])
	if err != nil {
		return nil, fmt.Errorf("decompress record payload: %w", err)
	}

	r := &record{
		kind:     kind,
		id:       hdr.ResourceID,
		created:  hdr.CreatedAsTime(),
		modified: hdr.ModifiedAsTime(),
		fields:   make(map[string]*field, hdr.FieldCount),
	}
	byID := schemaByNameID[kind]
	for i := 0; i < int(hdr.FieldCount); i++ {
		off := section.RecordHeaderSize + i*section.FieldEntrySize
		entry, err := section.ParseFieldIndexEntry(data[off:off+section.FieldEntrySize], engine)
		if err != nil {
			return nil, err
		}
		if entry.Offset+entry.Length > len(payload) {
			return nil, fmt.Errorf("%w: field entry %d spans [%d,%d) beyond payload of %d bytes",
				errs.ErrMalformedRecord, i, entry.Offset, entry.Offset+entry.Length, len(payload))
		}
		spec, known := byID[entry.NameID]
		if !known {
			continue
		}
		if spec.typ != entry.Type {
			return nil, fmt.Errorf("%w: field %s has type %d, want %d",
				errs.ErrMalformedRecord, spec.name, entry.Type, spec.typ)
		}
		f, err := decodeField(entry.Type, payload[entry.Offset:entry.Offset+entry.Length], entry.Count, entry.Cols, engine)
		if err != nil {
			return nil, fmt.Errorf("decode field %s: %w", spec.name, err)
		}
		r.fields[spec.name] = f
	}
	return r, nil
}

// mergeContinuation extends base with the array fields of a continuation
// record carrying the same resource ID. Scalar and reference fields in the
// continuation are ignored; they were validated against base when the
// continuation was written.
func mergeContinuation(base, cont *record) error {
	if cont.id != base.id || cont.kind != base.kind {
		return fmt.Errorf("%w: continuation %016x does not match record %016x",
			errs.ErrMalformedRecord, cont.id, base.id)
	}
	for name, cf := range cont.fields {
		bf, ok := base.fields[name]
		if !ok {
			base.fields[name] = cf
			continue
		}
		switch cf.typ {
		case format.FieldFloat64s:
			bf.f64s = append(bf.f64s, cf.f64s...)
		case format.FieldFloat64Matrix:
			if bf.cols != cf.cols {
				return fmt.Errorf("%w: continuation of %s has %d columns, want %d",
					errs.ErrMalformedRecord, name, cf.cols, bf.cols)
			}
			bf.f64s = append(bf.f64s, cf.f64s...)
		case format.FieldTimes:
			bf.times = append(bf.times, cf.times...)
		case format.FieldInt64s, format.FieldIndexPairs:
			bf.i64s = append(bf.i64s, cf.i64s...)
		case format.FieldStrings:
			// tags are unioned, not repeated
			for _, tag := range cf.strs {
				if !containsString(bf.strs, tag) {
					bf.strs = append(bf.strs, tag)
				}
			}
		}
	}
	base.modified = cont.modified
	return nil
}

func containsString(vals []string, want string) bool {
	for _, v := range vals {
		if v == want {
			return true
		}
	}
	return false
}
