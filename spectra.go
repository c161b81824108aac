// Package spectra stores volcanic-gas spectroscopy data: raw instrument
// scans, retrieved gas concentrations, plume velocities and emission-rate
// estimates, linked into one traversable dataset file.
//
// The package re-exports the dataset store entry points and registers the
// bundled FlySpec log reader. See the dataset package for the full API.
package spectra

import (
	"github.com/geogaslab/spectra/dataset"

	_ "github.com/geogaslab/spectra/flyspec"
)

// Version is the release version of the spectra library.
const Version = "0.3.1"

// Create creates a new, empty dataset store at path.
func Create(path string, opts ...dataset.StoreOption) (*dataset.Dataset, error) {
	return dataset.Create(path, opts...)
}

// Open opens an existing dataset store at path.
func Open(path string, opts ...dataset.StoreOption) (*dataset.Dataset, error) {
	return dataset.Open(path, opts...)
}
