package spectra_test

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/geogaslab/spectra"
	"github.com/geogaslab/spectra/dataset"
)

func TestCreateAndReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "campaign.spc")

	d, err := spectra.Create(path)
	require.NoError(t, err)
	_, err = d.New(&dataset.TargetBuffer{Name: "main vent"})
	require.NoError(t, err)
	require.NoError(t, d.Close())

	d2, err := spectra.Open(path)
	require.NoError(t, err)
	defer d2.Close()

	var names []string
	for target := range d2.Targets() {
		names = append(names, target.Name())
	}
	assert.Equal(t, []string{"main vent"}, names)
}

func TestFlyspecFormatRegistered(t *testing.T) {
	assert.Contains(t, dataset.Formats(), "flyspec")
}
