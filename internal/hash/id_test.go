package hash

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestID(t *testing.T) {
	tests := []struct {
		name string
		data string
		id   uint64
	}{
		{"empty string", "", 0xef46db3751d8e999},
		{"field name", "test", 0x4fdcca5ddb678139},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.id, ID(tt.data))
		})
	}
}

func TestIDDistinct(t *testing.T) {
	// Field names of the datamodel must not collide with each other.
	names := []string{
		"target_id", "name", "description", "position", "position_error",
		"sensor_id", "location", "type", "no_bits", "acquisition",
		"d_var", "ind_var", "datetime", "inc_angle",
		"gas_species", "value", "rawdata", "rawdata_indices",
		"speed", "direction", "methods",
		"concentration", "concentration_indices", "gasflow",
		"fluxes", "flux_indices", "tags",
	}
	seen := make(map[uint64]string, len(names))
	for _, n := range names {
		id := ID(n)
		prev, ok := seen[id]
		assert.False(t, ok, "hash collision between %q and %q", n, prev)
		seen[id] = n
	}
}
