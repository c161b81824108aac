package flyspec_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/geogaslab/spectra/dataset"
	"github.com/geogaslab/spectra/errs"
	"github.com/geogaslab/spectra/flyspec"
)

const sampleLog = `# FlySpec retrieval output
# station: WI001 north-east rim
2017-06-14 09:00:00.25 -30.0 120.5
2017-06-14 09:00:05.25   0.0 260.25

2017-06-14 09:00:10.25  30.0  91.0  extra ignored
`

func writeLog(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "scan.txt")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func openStore(t *testing.T) *dataset.Dataset {
	t.Helper()
	d, err := dataset.Create(filepath.Join(t.TempDir(), "store.spc"))
	require.NoError(t, err)
	t.Cleanup(func() { d.Close() })
	return d
}

func TestReadSampleLog(t *testing.T) {
	d := openStore(t)
	bufs, err := d.ReadFile(writeLog(t, sampleLog), "FLYSPEC")
	require.NoError(t, err)

	raw, ok := bufs[flyspec.KeyRawData].(*dataset.RawDataBuffer)
	require.True(t, ok)
	require.Len(t, raw.Datetime, 3)
	assert.Equal(t, []float64{-30, 0, 30}, raw.IncAngle)
	assert.Equal(t, [][]float64{{120.5}, {260.25}, {91}}, raw.DVar)

	want := time.Date(2017, 6, 14, 9, 0, 0, 250000000, time.UTC)
	assert.True(t, want.Equal(raw.Datetime[0]), "got %s", raw.Datetime[0])

	conc, ok := bufs[flyspec.KeyConcentration].(*dataset.ConcentrationBuffer)
	require.True(t, ok)
	assert.Equal(t, "SO2", conc.GasSpecies)
	assert.Equal(t, []float64{120.5, 260.25, 91}, conc.Value)
	assert.Equal(t, []int64{0, 1, 2}, conc.RawDataIndices)

	rdt, ok := bufs[flyspec.KeyRawDataType].(*dataset.RawDataTypeBuffer)
	require.True(t, ok)
	assert.Equal(t, "measurement", rdt.Name)
}

func TestTimeshift(t *testing.T) {
	d := openStore(t)
	bufs, err := d.ReadFile(writeLog(t, sampleLog), "flyspec",
		dataset.WithTimeshift(12*time.Hour))
	require.NoError(t, err)

	raw := bufs[flyspec.KeyRawData].(*dataset.RawDataBuffer)
	want := time.Date(2017, 6, 14, 21, 0, 0, 250000000, time.UTC)
	assert.True(t, want.Equal(raw.Datetime[0]), "got %s", raw.Datetime[0])
}

func TestCommitParsedBuffers(t *testing.T) {
	d := openStore(t)
	bufs, err := d.ReadFile(writeLog(t, sampleLog), "flyspec")
	require.NoError(t, err)

	raw, err := d.New(bufs[flyspec.KeyRawData])
	require.NoError(t, err)

	conc := bufs[flyspec.KeyConcentration].(*dataset.ConcentrationBuffer)
	conc.RawData = raw.(*dataset.RawData)
	e, err := d.New(conc)
	require.NoError(t, err)
	assert.Equal(t, []float64{120.5, 260.25, 91}, e.(*dataset.Concentration).Value())
}

func TestMalformedRows(t *testing.T) {
	d := openStore(t)

	cases := map[string]string{
		"too few columns": "2017-06-14 09:00:00 -30.0\n",
		"bad timestamp":   "2017-06-14 25:99:00 -30.0 120.5\n",
		"bad angle":       "2017-06-14 09:00:00 north 120.5\n",
		"bad column":      "2017-06-14 09:00:00 -30.0 plenty\n",
		"empty file":      "# only comments\n",
	}
	for name, content := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := d.ReadFile(writeLog(t, content), "flyspec")
			require.ErrorIs(t, err, errs.ErrMalformedInput)
		})
	}
}

func TestMissingFile(t *testing.T) {
	d := openStore(t)
	_, err := d.ReadFile(filepath.Join(t.TempDir(), "nope.txt"), "flyspec")
	require.Error(t, err)
}
