package terrain

import (
	"testing"
	"unsafe"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewPlaneGeometry_Counts(t *testing.T) {
	g := DefaultGeometry()

	assert.Equal(t, 25*25, g.VertexCount())
	assert.Equal(t, 24*24*6, g.IndexCount())
	assert.Len(t, g.VertexBytes(), 25*25*32)
	assert.Len(t, g.IndexBytes(), 24*24*6*4)
	assert.Equal(t, uintptr(32), unsafe.Sizeof(Vertex{}))
}

func TestNewPlaneGeometry_Extents(t *testing.T) {
	g := NewPlaneGeometry(1, 2, 4, 8)

	first := g.Vertices[0]
	last := g.Vertices[len(g.Vertices)-1]

	assert.Equal(t, [3]float32{-0.5, 1, 0}, first.Position)
	assert.Equal(t, [2]float32{0, 0}, first.UV)
	assert.Equal(t, [3]float32{0.5, -1, 0}, last.Position)
	assert.Equal(t, [2]float32{1, 1}, last.UV)

	for _, v := range g.Vertices {
		assert.Equal(t, [3]float32{0, 0, 1}, v.Normal)
	}
}

func TestNewPlaneGeometry_WindingFacesPlusZ(t *testing.T) {
	g := NewPlaneGeometry(1, 2, 3, 3)
	require.Zero(t, len(g.Indices)%3)

	for i := 0; i < len(g.Indices); i += 3 {
		a := g.Vertices[g.Indices[i]].Position
		b := g.Vertices[g.Indices[i+1]].Position
		c := g.Vertices[g.Indices[i+2]].Position
		ab := [2]float32{b[0] - a[0], b[1] - a[1]}
		ac := [2]float32{c[0] - a[0], c[1] - a[1]}
		crossZ := ab[0]*ac[1] - ab[1]*ac[0]
		assert.Positive(t, crossZ, "triangle %d is not counter-clockwise", i/3)
	}
}

func TestNewPlaneGeometry_ClampsSegments(t *testing.T) {
	g := NewPlaneGeometry(1, 1, 0, -3)
	assert.Equal(t, 4, g.VertexCount())
	assert.Equal(t, 6, g.IndexCount())
}

func TestGPUUniformSizes(t *testing.T) {
	m := DefaultMaterial().GPU()
	assert.Equal(t, 16, m.Size())
	assert.Len(t, m.Marshal(), 16)

	var tiles GPUTileUniform
	assert.Equal(t, 256, tiles.Size())
	tiles.Models[1][14] = -1.5
	buf := tiles.Marshal()
	require.Len(t, buf, 256)
	// tile 1, element 14: (16+14)*4
	assert.Equal(t, []byte{0x00, 0x00, 0xc0, 0xbf}, buf[120:124])
}

func TestTextureSlotFallbacks(t *testing.T) {
	assert.True(t, SlotDisplacement.Fallback().Linear)
	assert.True(t, SlotMetalness.Fallback().Linear)
	assert.False(t, SlotMap.Fallback().Linear)
	assert.Equal(t, []byte{255, 255, 255, 255}, SlotMetalness.Fallback().Pixels)
	assert.Equal(t, 5, SlotMetalness.binding())
	assert.Equal(t, "displacementMap", SlotDisplacement.String())
}
