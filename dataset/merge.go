package dataset

import (
	"fmt"

	"github.com/geogaslab/spectra/errs"
	"github.com/geogaslab/spectra/format"
)

// Merge copies every element of other into d, registering other's tags
// first. Elements receive fresh resource IDs; references are rewritten to
// the copied elements. Kinds are merged in dependency order, so a copied
// Flux always finds its copied Concentration. Merging a dataset into itself
// fails with errs.ErrSelfMerge.
func (d *Dataset) Merge(other *Dataset) error {
	if err := d.checkOpen(); err != nil {
		return err
	}
	if err := other.checkOpen(); err != nil {
		return err
	}
	if other == d {
		return errs.ErrSelfMerge
	}

	var newTags []string
	for _, tag := range other.tagOrder {
		if _, exists := d.tagSet[tag]; !exists {
			newTags = append(newTags, tag)
		}
	}
	if err := d.RegisterTags(newTags...); err != nil {
		return err
	}

	idmap := make(map[uint64]uint64, len(other.byID))
	for _, kind := range format.Kinds() {
		for _, rec := range other.elems[kind] {
			buf, err := bufferFromRecord(d, rec, idmap)
			if err != nil {
				return fmt.Errorf("merge %s %016x: %w", kind, rec.id, err)
			}
			e, err := d.New(buf)
			if err != nil {
				return fmt.Errorf("merge %s %016x: %w", kind, rec.id, err)
			}
			idmap[rec.id] = e.ResourceID()
		}
	}
	return nil
}

// bufferFromRecord rebuilds a commit buffer for rec with its references
// remapped into d via idmap.
func bufferFromRecord(d *Dataset, rec *record, idmap map[uint64]uint64) (Buffer, error) {
	switch rec.kind {
	case format.KindTarget:
		return &TargetBuffer{
			TargetID:      rec.str(fieldTargetID),
			Name:          rec.str(fieldName),
			Description:   rec.str(fieldDescription),
			Position:      rec.floats(fieldPosition),
			PositionError: rec.floats(fieldPositionError),
			Tags:          rec.strsOf(fieldTags),
		}, nil
	case format.KindInstrument:
		return &InstrumentBuffer{
			SensorID:    rec.str(fieldSensorID),
			Location:    rec.str(fieldLocation),
			Type:        rec.str(fieldType),
			Description: rec.str(fieldDescription),
			NoBits:      rec.intScalar(fieldNoBits),
			Tags:        rec.strsOf(fieldTags),
		}, nil
	case format.KindRawDataType:
		return &RawDataTypeBuffer{
			Name:        rec.str(fieldName),
			Acquisition: rec.str(fieldAcquisition),
			Tags:        rec.strsOf(fieldTags),
		}, nil
	case format.KindMethod:
		return &MethodBuffer{
			Name:        rec.str(fieldName),
			Description: rec.str(fieldDescription),
			Tags:        rec.strsOf(fieldTags),
		}, nil
	case format.KindRawData:
		buf := &RawDataBuffer{
			DVar:     rec.matrix(fieldDVar),
			IndVar:   rec.floats(fieldIndVar),
			Datetime: rec.timesOf(fieldDatetime),
			IncAngle: rec.floats(fieldIncAngle),
			Tags:     rec.strsOf(fieldTags),
		}
		if target, err := remapRecord(d, rec, fieldTarget, idmap); err != nil {
			return nil, err
		} else if target != nil {
			buf.Target = &Target{target}
		}
		if inst, err := remapRecord(d, rec, fieldInstrument, idmap); err != nil {
			return nil, err
		} else if inst != nil {
			buf.Instrument = &Instrument{inst}
		}
		if typ, err := remapRecord(d, rec, fieldType, idmap); err != nil {
			return nil, err
		} else if typ != nil {
			buf.Type = &RawDataType{typ}
		}
		return buf, nil
	case format.KindConcentration:
		buf := &ConcentrationBuffer{
			GasSpecies:     rec.str(fieldGasSpecies),
			Value:          rec.floats(fieldValue),
			RawDataIndices: rec.ints(fieldRawDataIdx),
			Tags:           rec.strsOf(fieldTags),
		}
		if raw, err := remapRecord(d, rec, fieldRawData, idmap); err != nil {
			return nil, err
		} else if raw != nil {
			buf.RawData = &RawData{raw}
		}
		return buf, nil
	case format.KindGasFlow:
		buf := &GasFlowBuffer{
			Datetime:  rec.timesOf(fieldDatetime),
			Speed:     rec.floats(fieldSpeed),
			Direction: rec.floats(fieldDirection),
			Tags:      rec.strsOf(fieldTags),
		}
		for _, rid := range rec.refsOf(fieldMethods) {
			m, err := remapID(d, rid, idmap)
			if err != nil {
				return nil, fmt.Errorf("%s: %w", fieldMethods, err)
			}
			buf.Methods = append(buf.Methods, &Method{m})
		}
		return buf, nil
	case format.KindFlux:
		buf := &FluxBuffer{
			Value:                rec.floats(fieldValue),
			Datetime:             rec.timesOf(fieldDatetime),
			ConcentrationIndices: rec.pairs(fieldConcIdx),
			Tags:                 rec.strsOf(fieldTags),
		}
		if conc, err := remapRecord(d, rec, fieldConc, idmap); err != nil {
			return nil, err
		} else if conc != nil {
			buf.Concentration = &Concentration{conc}
		}
		if gf, err := remapRecord(d, rec, fieldGasFlow, idmap); err != nil {
			return nil, err
		} else if gf != nil {
			buf.GasFlow = &GasFlow{gf}
		}
		return buf, nil
	case format.KindPreferredFlux:
		buf := &PreferredFluxBuffer{
			Name:        rec.str(fieldName),
			FluxIndices: rec.pairs(fieldFluxIdx),
			Tags:        rec.strsOf(fieldTags),
		}
		for _, rid := range rec.refsOf(fieldFluxes) {
			f, err := remapID(d, rid, idmap)
			if err != nil {
				return nil, fmt.Errorf("%s: %w", fieldFluxes, err)
			}
			buf.Fluxes = append(buf.Fluxes, &Flux{f})
		}
		return buf, nil
	}
	return nil, fmt.Errorf("%w: element kind %d", errs.ErrMalformedRecord, rec.kind)
}

// remapRecord resolves the named reference of rec through idmap into d.
// A reference absent from rec yields nil without error.
func remapRecord(d *Dataset, rec *record, name string, idmap map[uint64]uint64) (*record, error) {
	rid, ok := rec.ref(name)
	if !ok {
		return nil, nil
	}
	mapped, err := remapID(d, rid, idmap)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}
	return mapped, nil
}

func remapID(d *Dataset, rid uint64, idmap map[uint64]uint64) (*record, error) {
	newID, ok := idmap[rid]
	if !ok {
		return nil, fmt.Errorf("%w: %016x", errs.ErrDanglingReference, rid)
	}
	rec, ok := d.byID[newID]
	if !ok {
		return nil, fmt.Errorf("%w: %016x", errs.ErrDanglingReference, rid)
	}
	return rec, nil
}
