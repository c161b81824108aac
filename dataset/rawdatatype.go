package dataset

import (
	"github.com/geogaslab/spectra/format"
)

// RawDataTypeBuffer stages a raw-data type, describing what a RawData
// element's dependent variable holds and how it was acquired.
type RawDataTypeBuffer struct {
	// Name identifies the data product, e.g. "measurement" or "dark".
	Name string
	// Acquisition describes the acquisition mode, e.g. "stationary" or
	// "mobile".
	Acquisition string
	Tags        []string
}

func (b *RawDataTypeBuffer) Kind() format.ElementKind { return format.KindRawDataType }

func (b *RawDataTypeBuffer) validate(d *Dataset) error {
	return d.checkTags(b.Tags)
}

func (b *RawDataTypeBuffer) buildFields() ([]namedField, error) {
	var fb fieldBuilder
	fb.addString(fieldName, b.Name)
	fb.addString(fieldAcquisition, b.Acquisition)
	fb.addStrings(fieldTags, b.Tags)
	return fb.build()
}

// RawDataType is a committed raw-data type.
type RawDataType struct{ *record }

func (t *RawDataType) Name() string        { return t.str(fieldName) }
func (t *RawDataType) Acquisition() string { return t.str(fieldAcquisition) }
