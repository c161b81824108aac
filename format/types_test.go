package format

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestElementKindValid(t *testing.T) {
	for _, kind := range Kinds() {
		assert.True(t, kind.Valid(), "kind %s", kind)
		assert.NotEqual(t, "Unknown", kind.String())
	}
	assert.False(t, ElementKind(0).Valid())
	assert.False(t, ElementKind(0xA).Valid())
	assert.Equal(t, "Unknown", ElementKind(0xFF).String())
}

func TestCompressionTypeValid(t *testing.T) {
	valid := []CompressionType{CompressionNone, CompressionZstd, CompressionS2, CompressionLZ4}
	for _, c := range valid {
		assert.True(t, c.Valid(), "compression %s", c)
		assert.NotEqual(t, "Unknown", c.String())
	}
	assert.False(t, CompressionType(0).Valid())
	assert.False(t, CompressionType(0x5).Valid())
	assert.Equal(t, "Unknown", CompressionType(0xFF).String())
}

func TestFieldTypeValid(t *testing.T) {
	for ft := FieldFloat64s; ft <= FieldInt64; ft++ {
		assert.True(t, ft.Valid(), "field type %d", ft)
	}
	assert.False(t, FieldType(0).Valid())
	assert.False(t, FieldType(0xB).Valid())
}

func TestKindsDependencyOrder(t *testing.T) {
	kinds := Kinds()
	require.Len(t, kinds, 9)
	assert.Equal(t, KindTarget, kinds[0])
	assert.Equal(t, KindPreferredFlux, kinds[len(kinds)-1])
}
