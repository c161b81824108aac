package dataset

import (
	"github.com/geogaslab/spectra/format"
)

// InstrumentBuffer stages a measurement instrument, e.g. a scanning UV
// spectrometer.
type InstrumentBuffer struct {
	// SensorID is the serial or inventory number of the sensor.
	SensorID    string
	Location    string
	Type        string
	Description string
	// NoBits is the ADC resolution of the sensor in bits.
	NoBits int64
	Tags   []string
}

func (b *InstrumentBuffer) Kind() format.ElementKind { return format.KindInstrument }

func (b *InstrumentBuffer) validate(d *Dataset) error {
	return d.checkTags(b.Tags)
}

func (b *InstrumentBuffer) buildFields() ([]namedField, error) {
	var fb fieldBuilder
	fb.addString(fieldSensorID, b.SensorID)
	fb.addString(fieldLocation, b.Location)
	fb.addString(fieldType, b.Type)
	fb.addString(fieldDescription, b.Description)
	fb.addInt(fieldNoBits, b.NoBits)
	fb.addStrings(fieldTags, b.Tags)
	return fb.build()
}

// Instrument is a committed measurement instrument.
type Instrument struct{ *record }

func (i *Instrument) SensorID() string    { return i.str(fieldSensorID) }
func (i *Instrument) Location() string    { return i.str(fieldLocation) }
func (i *Instrument) Type() string        { return i.str(fieldType) }
func (i *Instrument) Description() string { return i.str(fieldDescription) }
func (i *Instrument) NoBits() int64       { return i.intScalar(fieldNoBits) }
