package dataset

import (
	"github.com/geogaslab/spectra/format"
)

// MethodBuffer stages an analysis method, e.g. a plume-speed estimation
// technique referenced by GasFlow elements.
type MethodBuffer struct {
	Name        string
	Description string
	Tags        []string
}

func (b *MethodBuffer) Kind() format.ElementKind { return format.KindMethod }

func (b *MethodBuffer) validate(d *Dataset) error {
	return d.checkTags(b.Tags)
}

func (b *MethodBuffer) buildFields() ([]namedField, error) {
	var fb fieldBuilder
	fb.addString(fieldName, b.Name)
	fb.addString(fieldDescription, b.Description)
	fb.addStrings(fieldTags, b.Tags)
	return fb.build()
}

// Method is a committed analysis method.
type Method struct{ *record }

func (m *Method) Name() string        { return m.str(fieldName) }
func (m *Method) Description() string { return m.str(fieldDescription) }
