package dataset

import (
	"github.com/geogaslab/spectra/format"
	"github.com/geogaslab/spectra/internal/hash"
)

// Field names used by the element schemas. The on-disk field index stores
// hash.ID of these names, so renaming one is a breaking format change.
const (
	fieldTargetID      = "target_id"
	fieldName          = "name"
	fieldDescription   = "description"
	fieldPosition      = "position"
	fieldPositionError = "position_error"
	fieldSensorID      = "sensor_id"
	fieldLocation      = "location"
	fieldType          = "type"
	fieldNoBits        = "no_bits"
	fieldAcquisition   = "acquisition"
	fieldDVar          = "d_var"
	fieldIndVar        = "ind_var"
	fieldDatetime      = "datetime"
	fieldIncAngle      = "inc_angle"
	fieldTarget        = "target"
	fieldInstrument    = "instrument"
	fieldGasSpecies    = "gas_species"
	fieldValue         = "value"
	fieldRawData       = "rawdata"
	fieldRawDataIdx    = "rawdata_indices"
	fieldSpeed         = "speed"
	fieldDirection     = "direction"
	fieldMethods       = "methods"
	fieldConc          = "concentration"
	fieldConcIdx       = "concentration_indices"
	fieldGasFlow       = "gasflow"
	fieldFluxes        = "fluxes"
	fieldFluxIdx       = "flux_indices"
	fieldTags          = "tags"
)

type fieldSpec struct {
	name string
	typ  format.FieldType
}

// schemas lists the attributes of each element kind in canonical order.
// Records are encoded in this order; the tags field is always last and is
// the only one exempt from pedantic completeness checks.
var schemas = map[format.ElementKind][]fieldSpec{
	format.KindTarget: {
		{fieldTargetID, format.FieldString},
		{fieldName, format.FieldString},
		{fieldDescription, format.FieldString},
		{fieldPosition, format.FieldFloat64s},
		{fieldPositionError, format.FieldFloat64s},
		{fieldTags, format.FieldStrings},
	},
	format.KindInstrument: {
		{fieldSensorID, format.FieldString},
		{fieldLocation, format.FieldString},
		{fieldType, format.FieldString},
		{fieldDescription, format.FieldString},
		{fieldNoBits, format.FieldInt64},
		{fieldTags, format.FieldStrings},
	},
	format.KindRawDataType: {
		{fieldName, format.FieldString},
		{fieldAcquisition, format.FieldString},
		{fieldTags, format.FieldStrings},
	},
	format.KindMethod: {
		{fieldName, format.FieldString},
		{fieldDescription, format.FieldString},
		{fieldTags, format.FieldStrings},
	},
	format.KindRawData: {
		{fieldDVar, format.FieldFloat64Matrix},
		{fieldIndVar, format.FieldFloat64s},
		{fieldDatetime, format.FieldTimes},
		{fieldIncAngle, format.FieldFloat64s},
		{fieldTarget, format.FieldRef},
		{fieldInstrument, format.FieldRef},
		{fieldType, format.FieldRef},
		{fieldTags, format.FieldStrings},
	},
	format.KindConcentration: {
		{fieldGasSpecies, format.FieldString},
		{fieldValue, format.FieldFloat64s},
		{fieldRawData, format.FieldRef},
		{fieldRawDataIdx, format.FieldInt64s},
		{fieldTags, format.FieldStrings},
	},
	format.KindGasFlow: {
		{fieldDatetime, format.FieldTimes},
		{fieldSpeed, format.FieldFloat64s},
		{fieldDirection, format.FieldFloat64s},
		{fieldMethods, format.FieldRefs},
		{fieldTags, format.FieldStrings},
	},
	format.KindFlux: {
		{fieldValue, format.FieldFloat64s},
		{fieldDatetime, format.FieldTimes},
		{fieldConc, format.FieldRef},
		{fieldConcIdx, format.FieldIndexPairs},
		{fieldGasFlow, format.FieldRef},
		{fieldTags, format.FieldStrings},
	},
	format.KindPreferredFlux: {
		{fieldName, format.FieldString},
		{fieldFluxes, format.FieldRefs},
		{fieldFluxIdx, format.FieldIndexPairs},
		{fieldTags, format.FieldStrings},
	},
}

// schemaByNameID maps hash.ID(name) back to the field spec, per kind.
// Decoding skips entries whose NameID is not in the map so stores written
// by newer versions with extra fields still load.
var schemaByNameID = func() map[format.ElementKind]map[uint64]fieldSpec {
	m := make(map[format.ElementKind]map[uint64]fieldSpec, len(schemas))
	for kind, specs := range schemas {
		byID := make(map[uint64]fieldSpec, len(specs))
		for _, spec := range specs {
			byID[hash.ID(spec.name)] = spec
		}
		m[kind] = byID
	}
	return m
}()
