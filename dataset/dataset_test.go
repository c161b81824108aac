package dataset

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/geogaslab/spectra/errs"
	"github.com/geogaslab/spectra/format"
)

func createStore(t *testing.T, opts ...StoreOption) (*Dataset, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "store.spc")
	d, err := Create(path, opts...)
	require.NoError(t, err)
	t.Cleanup(func() { d.Close() })
	return d, path
}

func testTimes(n int) []time.Time {
	base := time.Date(2017, 6, 14, 9, 0, 0, 123456000, time.UTC)
	out := make([]time.Time, n)
	for i := range out {
		out[i] = base.Add(time.Duration(i) * 5 * time.Second)
	}
	return out
}

// commitRawData commits a small rawdata element with two spectra.
func commitRawData(t *testing.T, d *Dataset) *RawData {
	t.Helper()
	e, err := d.New(&RawDataBuffer{
		DVar:     [][]float64{{1.5, 2.5, 3.5}, {4.5, 5.5, 6.5}},
		IndVar:   []float64{300, 310, 320},
		Datetime: testTimes(2),
		IncAngle: []float64{10, 20},
	})
	require.NoError(t, err)
	return e.(*RawData)
}

func TestCreateCloseReopenEmpty(t *testing.T) {
	d, path := createStore(t)
	require.NoError(t, d.Close())

	d2, err := Open(path)
	require.NoError(t, err)
	defer d2.Close()

	for _, kind := range format.Kinds() {
		assert.Equal(t, 0, d2.Count(kind), "kind %s", kind)
	}
	assert.Empty(t, d2.RegisteredTags())
}

func TestOpenMissingStore(t *testing.T) {
	_, err := Open(filepath.Join(t.TempDir(), "nope.spc"))
	require.ErrorIs(t, err, errs.ErrStoreNotFound)
}

func TestOpenRejectsGarbage(t *testing.T) {
	path := filepath.Join(t.TempDir(), "garbage.spc")
	require.NoError(t, os.WriteFile(path, []byte("this is not a spectra store"), 0o644))

	_, err := Open(path)
	require.ErrorIs(t, err, errs.ErrInvalidMagicNumber)

	// a failed open must release the lock
	_, err = os.Stat(path + ".lock")
	assert.True(t, os.IsNotExist(err))
}

func TestOpenRejectsTruncatedStore(t *testing.T) {
	d, path := createStore(t)
	commitRawData(t, d)
	require.NoError(t, d.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(path, data[:len(data)-4], 0o644))

	_, err = Open(path)
	require.ErrorIs(t, err, errs.ErrTruncatedStore)
}

func TestStoreLocking(t *testing.T) {
	d, path := createStore(t)

	_, err := Open(path)
	require.ErrorIs(t, err, errs.ErrStoreLocked)

	require.NoError(t, d.Close())
	d2, err := Open(path)
	require.NoError(t, err)
	require.NoError(t, d2.Close())
}

func TestCloseIsIdempotent(t *testing.T) {
	d, _ := createStore(t)
	require.NoError(t, d.Close())
	require.NoError(t, d.Close())

	_, err := d.New(&TargetBuffer{Name: "vent"})
	require.ErrorIs(t, err, errs.ErrDatasetClosed)
}

func TestCommitAndTraverseRoundTrip(t *testing.T) {
	d, path := createStore(t)
	require.NoError(t, d.RegisterTags("WI001", "2017-campaign"))

	target, err := d.New(&TargetBuffer{
		TargetID:    "WI001",
		Name:        "White Island main vent",
		Description: "composite crater floor vent",
		Position:    []float64{177.18, -37.52, 320},
		Tags:        []string{"WI001"},
	})
	require.NoError(t, err)

	inst, err := d.New(&InstrumentBuffer{
		SensorID: "SN1234",
		Location: "north-east rim",
		Type:     "FlySpec",
		NoBits:   12,
	})
	require.NoError(t, err)

	rdt, err := d.New(&RawDataTypeBuffer{Name: "measurement", Acquisition: "stationary"})
	require.NoError(t, err)

	stamps := testTimes(3)
	raw, err := d.New(&RawDataBuffer{
		DVar:       [][]float64{{1, 2}, {3, 4}, {5, 6}},
		IndVar:     []float64{305.5, 306.5},
		Datetime:   stamps,
		IncAngle:   []float64{-30, 0, 30},
		Target:     target.(*Target),
		Instrument: inst.(*Instrument),
		Type:       rdt.(*RawDataType),
		Tags:       []string{"WI001", "2017-campaign"},
	})
	require.NoError(t, err)

	conc, err := d.New(&ConcentrationBuffer{
		GasSpecies:     "SO2",
		Value:          []float64{120.5, 260.25, 91.125},
		RawData:        raw.(*RawData),
		RawDataIndices: []int64{0, 1, 2},
	})
	require.NoError(t, err)

	method, err := d.New(&MethodBuffer{Name: "plume-speed-dual", Description: "dual-beam correlation"})
	require.NoError(t, err)

	gf, err := d.New(&GasFlowBuffer{
		Datetime:  stamps[:2],
		Speed:     []float64{4.2, 4.8},
		Direction: []float64{135, 150},
		Methods:   []*Method{method.(*Method)},
	})
	require.NoError(t, err)

	flux, err := d.New(&FluxBuffer{
		Value:                []float64{2.25},
		Datetime:             stamps[:1],
		Concentration:        conc.(*Concentration),
		ConcentrationIndices: [][2]int64{{0, 2}},
		GasFlow:              gf.(*GasFlow),
	})
	require.NoError(t, err)

	_, err = d.New(&PreferredFluxBuffer{
		Name:        "best-estimate",
		Fluxes:      []*Flux{flux.(*Flux)},
		FluxIndices: [][2]int64{{0, 0}},
	})
	require.NoError(t, err)

	require.NoError(t, d.Close())

	d2, err := Open(path)
	require.NoError(t, err)
	defer d2.Close()

	require.Equal(t, 1, d2.Count(format.KindRawData))
	require.Equal(t, 1, d2.Count(format.KindFlux))
	assert.Equal(t, []string{"WI001", "2017-campaign"}, d2.RegisteredTags())

	for f := range d2.Fluxes() {
		assert.Equal(t, []float64{2.25}, f.Value())
		assert.Equal(t, [][2]int64{{0, 2}}, f.ConcentrationIndices())

		c := f.Concentration()
		require.NotNil(t, c)
		assert.Equal(t, "SO2", c.GasSpecies())
		assert.Equal(t, []float64{120.5, 260.25, 91.125}, c.Value())
		assert.Equal(t, []int64{0, 1, 2}, c.RawDataIndices())

		r := c.RawData()
		require.NotNil(t, r)
		assert.Equal(t, [][]float64{{1, 2}, {3, 4}, {5, 6}}, r.DVar())
		assert.Equal(t, []float64{305.5, 306.5}, r.IndVar())
		assert.Equal(t, []float64{-30, 0, 30}, r.IncAngle())
		assert.ElementsMatch(t, []string{"WI001", "2017-campaign"}, r.Tags())

		got := r.Datetime()
		require.Len(t, got, len(stamps))
		for i := range stamps {
			assert.True(t, stamps[i].Equal(got[i]), "timestamp %d: %s != %s", i, stamps[i], got[i])
		}

		tt := r.Target()
		require.NotNil(t, tt)
		assert.Equal(t, "WI001", tt.TargetID())
		assert.InDelta(t, 177.18, tt.Location().X, 1e-12)
		assert.InDelta(t, -37.52, tt.Location().Y, 1e-12)
		assert.InDelta(t, 320, tt.Elevation(), 1e-12)

		ii := r.Instrument()
		require.NotNil(t, ii)
		assert.Equal(t, "SN1234", ii.SensorID())
		assert.Equal(t, int64(12), ii.NoBits())

		g := f.GasFlow()
		require.NotNil(t, g)
		assert.Equal(t, []float64{4.2, 4.8}, g.Speed())
		require.Len(t, g.Methods(), 1)
		assert.Equal(t, "plume-speed-dual", g.Methods()[0].Name())
	}

	for p := range d2.PreferredFluxes() {
		assert.Equal(t, "best-estimate", p.Name())
		require.Len(t, p.Fluxes(), 1)
		assert.Equal(t, []float64{2.25}, p.Fluxes()[0].Value())
		assert.Equal(t, [][2]int64{{0, 0}}, p.FluxIndices())
	}
}

func TestConcentrationRequiresRawData(t *testing.T) {
	d, _ := createStore(t)

	_, err := d.New(&ConcentrationBuffer{GasSpecies: "SO2", Value: []float64{1, 2}})
	require.ErrorIs(t, err, errs.ErrMissingReference)
	assert.Equal(t, 0, d.Count(format.KindConcentration))

	raw := commitRawData(t, d)
	_, err = d.New(&ConcentrationBuffer{Value: []float64{1}, RawData: raw})
	require.ErrorIs(t, err, errs.ErrMissingReference)
}

func TestConcentrationIndexBounds(t *testing.T) {
	d, _ := createStore(t)
	raw := commitRawData(t, d) // 2 samples

	_, err := d.New(&ConcentrationBuffer{
		Value:          []float64{1, 2},
		RawData:        raw,
		RawDataIndices: []int64{0, 2},
	})
	require.ErrorIs(t, err, errs.ErrIndexOutOfRange)

	_, err = d.New(&ConcentrationBuffer{
		Value:          []float64{1},
		RawData:        raw,
		RawDataIndices: []int64{-1},
	})
	require.ErrorIs(t, err, errs.ErrIndexOutOfRange)
	assert.Equal(t, 0, d.Count(format.KindConcentration))
}

func TestFluxIndexBounds(t *testing.T) {
	d, _ := createStore(t)
	raw := commitRawData(t, d)
	conc, err := d.New(&ConcentrationBuffer{
		Value:          []float64{10, 20},
		RawData:        raw,
		RawDataIndices: []int64{0, 1},
	})
	require.NoError(t, err)

	_, err = d.New(&FluxBuffer{
		Value:                []float64{1},
		Concentration:        conc.(*Concentration),
		ConcentrationIndices: [][2]int64{{0, 2}},
	})
	require.ErrorIs(t, err, errs.ErrIndexOutOfRange)

	_, err = d.New(&FluxBuffer{
		Value:         []float64{1},
		Concentration: conc.(*Concentration),
	})
	require.ErrorIs(t, err, errs.ErrMissingReference)
}

func TestForeignReferenceRejected(t *testing.T) {
	d1, _ := createStore(t)
	d2, _ := createStore(t)
	raw := commitRawData(t, d1)

	_, err := d2.New(&ConcentrationBuffer{
		Value:          []float64{1},
		RawData:        raw,
		RawDataIndices: []int64{0},
	})
	require.ErrorIs(t, err, errs.ErrForeignReference)
}

func TestTagsMustBeRegistered(t *testing.T) {
	d, _ := createStore(t)

	_, err := d.New(&TargetBuffer{Name: "vent", Tags: []string{"unknown"}})
	require.ErrorIs(t, err, errs.ErrTagNotRegistered)

	require.NoError(t, d.RegisterTags("known"))
	_, err = d.New(&TargetBuffer{Name: "vent", Tags: []string{"known"}})
	require.NoError(t, err)

	err = d.RegisterTags("known")
	require.ErrorIs(t, err, errs.ErrTagAlreadyRegistered)
}

func TestRemoveTagsStripsElements(t *testing.T) {
	d, path := createStore(t)
	require.NoError(t, d.RegisterTags("keep", "drop"))

	e, err := d.New(&TargetBuffer{Name: "vent", Tags: []string{"keep", "drop"}})
	require.NoError(t, err)

	require.NoError(t, d.RemoveTags("drop", "never-registered"))
	assert.Equal(t, []string{"keep"}, d.RegisteredTags())
	assert.Equal(t, []string{"keep"}, e.Tags())
	require.NoError(t, d.Close())

	d2, err := Open(path)
	require.NoError(t, err)
	defer d2.Close()
	assert.Equal(t, []string{"keep"}, d2.RegisteredTags())
	for tgt := range d2.Targets() {
		assert.Equal(t, []string{"keep"}, tgt.Tags())
	}
}

func TestPedanticCommit(t *testing.T) {
	d, _ := createStore(t)

	_, err := d.New(&MethodBuffer{Name: "gauss-plume"}, Pedantic())
	require.ErrorIs(t, err, errs.ErrIncompleteBuffer)

	_, err = d.New(&MethodBuffer{Name: "gauss-plume", Description: "gaussian plume inversion"}, Pedantic())
	require.NoError(t, err)
}

func TestRawDataAppend(t *testing.T) {
	d, path := createStore(t)
	raw := commitRawData(t, d)
	require.Equal(t, 2, raw.SampleCount())

	err := raw.Append(&RawDataBuffer{
		DVar:     [][]float64{{7.5, 8.5, 9.5}},
		Datetime: testTimes(3)[2:],
		IncAngle: []float64{30},
	})
	require.NoError(t, err)
	require.Equal(t, 3, raw.SampleCount())
	assert.Equal(t, []float64{10, 20, 30}, raw.IncAngle())
	assert.False(t, raw.ModifiedAt().Before(raw.CreatedAt()))

	// column width must match the committed element
	err = raw.Append(&RawDataBuffer{DVar: [][]float64{{1, 2}}})
	require.ErrorIs(t, err, errs.ErrAppendMismatch)

	require.NoError(t, d.Close())
	d2, err := Open(path)
	require.NoError(t, err)
	defer d2.Close()

	require.Equal(t, 1, d2.Count(format.KindRawData))
	for r := range d2.RawData() {
		require.Equal(t, 3, r.SampleCount())
		assert.Equal(t, [][]float64{{1.5, 2.5, 3.5}, {4.5, 5.5, 6.5}, {7.5, 8.5, 9.5}}, r.DVar())
		assert.Equal(t, []float64{10, 20, 30}, r.IncAngle())
	}
}

func TestAppendRejectsDifferentRefs(t *testing.T) {
	d, _ := createStore(t)
	tgt1, err := d.New(&TargetBuffer{Name: "vent-a"})
	require.NoError(t, err)
	tgt2, err := d.New(&TargetBuffer{Name: "vent-b"})
	require.NoError(t, err)

	e, err := d.New(&RawDataBuffer{
		DVar:     [][]float64{{1}},
		Datetime: testTimes(1),
		Target:   tgt1.(*Target),
	})
	require.NoError(t, err)
	raw := e.(*RawData)

	err = raw.Append(&RawDataBuffer{
		DVar:     [][]float64{{2}},
		Datetime: testTimes(2)[1:],
		Target:   tgt2.(*Target),
	})
	require.ErrorIs(t, err, errs.ErrAppendMismatch)
}

func TestAppendOnlyRawData(t *testing.T) {
	d, _ := createStore(t)
	tgt, err := d.New(&TargetBuffer{Name: "vent"})
	require.NoError(t, err)

	err = d.Append(tgt, &TargetBuffer{Name: "more"})
	require.ErrorIs(t, err, errs.ErrNotExtendable)
}

func TestReadFileUnknownFormat(t *testing.T) {
	d, _ := createStore(t)

	_, err := d.ReadFile("whatever.txt", "minidoas-9000")
	require.ErrorIs(t, err, errs.ErrUnsupportedFormat)
	for _, kind := range format.Kinds() {
		assert.Equal(t, 0, d.Count(kind))
	}
}

func TestMerge(t *testing.T) {
	d1, _ := createStore(t)
	d2, _ := createStore(t)

	require.NoError(t, d2.RegisterTags("survey"))
	raw := commitRawData(t, d2)
	conc, err := d2.New(&ConcentrationBuffer{
		GasSpecies:     "SO2",
		Value:          []float64{7, 8},
		RawData:        raw,
		RawDataIndices: []int64{0, 1},
		Tags:           []string{"survey"},
	})
	require.NoError(t, err)

	require.NoError(t, d1.Merge(d2))
	assert.Equal(t, 1, d1.Count(format.KindRawData))
	assert.Equal(t, 1, d1.Count(format.KindConcentration))
	assert.Equal(t, []string{"survey"}, d1.RegisteredTags())

	for c := range d1.Concentrations() {
		assert.NotEqual(t, conc.ResourceID(), c.ResourceID())
		r := c.RawData()
		require.NotNil(t, r, "merged concentration must resolve inside the destination")
		assert.Equal(t, raw.DVar(), r.DVar())
	}

	require.ErrorIs(t, d1.Merge(d1), errs.ErrSelfMerge)
}

func TestIteratorsAreRestartable(t *testing.T) {
	d, _ := createStore(t)
	for _, name := range []string{"a", "b", "c"} {
		_, err := d.New(&TargetBuffer{Name: name})
		require.NoError(t, err)
	}

	seq := d.Targets()
	var first []string
	for tgt := range seq {
		first = append(first, tgt.Name())
	}
	assert.Equal(t, []string{"a", "b", "c"}, first)

	// early break, then iterate again from the start
	for range seq {
		break
	}
	var second []string
	for tgt := range seq {
		second = append(second, tgt.Name())
	}
	assert.Equal(t, first, second)
}

func TestElementLookup(t *testing.T) {
	d, _ := createStore(t)
	e, err := d.New(&TargetBuffer{Name: "vent"})
	require.NoError(t, err)

	got, ok := d.Element(e.ResourceID())
	require.True(t, ok)
	assert.Equal(t, "vent", got.(*Target).Name())

	_, ok = d.Element(0xdeadbeef)
	assert.False(t, ok)
}

func TestCreateRejectsInvalidCompression(t *testing.T) {
	_, err := Create(filepath.Join(t.TempDir(), "store.spc"),
		WithCompression(format.CompressionType(0xFF)))
	require.Error(t, err)
	require.Contains(t, err.Error(), "invalid compression type")
}

func TestCompressionAndEndianVariants(t *testing.T) {
	variants := []struct {
		name string
		opts []StoreOption
	}{
		{"zstd default", nil},
		{"no compression", []StoreOption{WithCompression(format.CompressionNone)}},
		{"s2", []StoreOption{WithCompression(format.CompressionS2)}},
		{"lz4", []StoreOption{WithCompression(format.CompressionLZ4)}},
		{"big endian", []StoreOption{WithBigEndian()}},
	}
	for _, v := range variants {
		t.Run(v.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "store.spc")
			d, err := Create(path, v.opts...)
			require.NoError(t, err)
			commitRawData(t, d)
			require.NoError(t, d.Close())

			d2, err := Open(path)
			require.NoError(t, err)
			defer d2.Close()
			for r := range d2.RawData() {
				assert.Equal(t, [][]float64{{1.5, 2.5, 3.5}, {4.5, 5.5, 6.5}}, r.DVar())
			}
		})
	}
}
