package bind_group_provider

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewBindGroupProvider_KeepsLabel(t *testing.T) {
	p := NewBindGroupProvider("terrain material")
	assert.Equal(t, "terrain material", p.Label())
	assert.Nil(t, p.BindGroup())
	assert.Nil(t, p.Buffer(0))
	assert.Empty(t, p.Bindings())
}

func TestBorrowTextureView(t *testing.T) {
	p := NewBindGroupProvider("bloom input", WithBorrowedTextureView(0, nil)).(*bindGroupProvider)
	assert.True(t, p.slots[0].borrowed)
	assert.Nil(t, p.slots[1])

	// An owned view at the same binding clears the borrow mark.
	p.SetTextureView(0, nil)
	assert.False(t, p.slots[0].borrowed)
}

func TestBindings_SkipsEmptySlots(t *testing.T) {
	p := NewBindGroupProvider("sky").(*bindGroupProvider)
	p.SetTextureView(0, nil)
	p.SetSampler(1, nil)
	assert.Empty(t, p.Bindings())
	assert.Len(t, p.slots, 2)
}

func TestRelease_ClearsState(t *testing.T) {
	p := NewBindGroupProvider("mesh", WithTextureView(2, nil))
	p.SetMesh(nil, nil, 6)
	p.Release()

	assert.Nil(t, p.TextureView(2))
	assert.Empty(t, p.Bindings())
	assert.Nil(t, p.VertexBuffer())
	assert.Nil(t, p.IndexBuffer())
	assert.Equal(t, 6, p.IndexCount())
}
