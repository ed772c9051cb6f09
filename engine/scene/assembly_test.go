package scene

import (
	"encoding/binary"
	"math"
	"testing"

	"github.com/Carmen-Shannon/oxy-horizon/common"
	"github.com/Carmen-Shannon/oxy-horizon/engine/camera"
	"github.com/Carmen-Shannon/oxy-horizon/engine/light"
	"github.com/Carmen-Shannon/oxy-horizon/engine/renderer/shader"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultRig(t *testing.T) {
	rig, err := DefaultRig()
	require.NoError(t, err)

	require.NotNil(t, rig.Ambient)
	assert.Equal(t, common.MustParseHexColor(common.Turquoise), rig.Ambient.Color())
	assert.Equal(t, float32(20), rig.Ambient.Intensity())

	require.Len(t, rig.Spots, 2)
	assert.Equal(t, common.MustParseHexColor(common.Turquoise), rig.Spots[0].Color())
	assert.Equal(t, common.MustParseHexColor(common.Pink), rig.Spots[1].Color())
	for _, s := range rig.Spots {
		assert.Equal(t, light.LightTypeSpot, s.Type())
		assert.Equal(t, float32(25), s.Intensity())
		assert.Equal(t, float32(100), s.Distance())
		assert.InDelta(t, math.Pi*0.1, s.Angle(), 1e-6)
		assert.InDelta(t, 0.25, s.Penumbra(), 1e-6)
	}
	assert.Equal(t, [3]float32{0.5, 0.75, 2.2}, rig.Spots[0].Position())
	assert.Equal(t, [3]float32{-0.5, 0.75, 2.2}, rig.Spots[1].Position())

	assert.Equal(t, light.Fog{Color: [3]float32{}, Near: 1, Far: 2.25}, rig.Fog)
}

func TestNewDefaultCamera(t *testing.T) {
	cam := NewDefaultCamera(16.0/9.0, false)

	assert.Equal(t, float32(75), cam.Fov())
	assert.Equal(t, float32(0.01), cam.Near())
	assert.Equal(t, float32(10), cam.Far())
	assert.Equal(t, CameraPosition, cam.Position())
	assert.InDelta(t, 16.0/9.0, cam.Aspect(), 1e-6)
	assert.Nil(t, cam.Controller())

	dev := NewDefaultCamera(1, true)
	require.NotNil(t, dev.Controller())
	assert.InDelta(t, 1, dev.Controller().Radius(), 1e-5)
}

func TestDefaultSun_Uniform(t *testing.T) {
	sun := DefaultSun()
	assert.Equal(t, [3]float32{0, 0.35, -3}, sun.Center)

	u := sun.Uniform()
	require.Equal(t, 48, u.Size())
	buf := u.Marshal()
	require.Len(t, buf, 48)

	f := func(offset int) float32 {
		return math.Float32frombits(binary.LittleEndian.Uint32(buf[offset:]))
	}
	assert.Equal(t, float32(-3), f(8))
	assert.Equal(t, sun.Radius, f(12))
	assert.Equal(t, sun.TopColor[0], f(16))
	assert.Equal(t, sun.Stripes, f(28))
	assert.Equal(t, sun.BottomColor[0], f(32))
	assert.Equal(t, sun.Intensity, f(44))
}

func TestSceneShadersParse(t *testing.T) {
	t.Run("sky", func(t *testing.T) {
		vs, err := shader.NewShader("sky", shader.ShaderTypeVertex, skySource)
		require.NoError(t, err)
		fs, err := shader.NewShader("sky", shader.ShaderTypeFragment, skySource)
		require.NoError(t, err)

		assert.Empty(t, vs.VertexLayouts())
		layouts := fs.BindGroupLayoutDescriptors()
		require.Len(t, layouts, 1)
		assert.Len(t, layouts[0].Entries, 2)
	})

	t.Run("sun", func(t *testing.T) {
		source := camera.GPUCameraUniformSource + sunSource
		vs, err := shader.NewShader("sun", shader.ShaderTypeVertex, source)
		require.NoError(t, err)

		vertex := vs.VertexLayouts()
		require.Len(t, vertex, 1)
		assert.Equal(t, uint64(8), vertex[0].ArrayStride)

		layouts := vs.BindGroupLayoutDescriptors()
		require.Len(t, layouts, 2)
		require.Len(t, layouts[0].Entries, 1)
		assert.Equal(t, uint64(80), layouts[0].Entries[0].Buffer.MinBindingSize)
		require.Len(t, layouts[1].Entries, 1)
		assert.Equal(t, uint64(48), layouts[1].Entries[0].Buffer.MinBindingSize)
	})
}

func TestSunRenderable_WritesOnlyWhenChanged(t *testing.T) {
	s := newSunRenderable(DefaultSun())

	require.Len(t, s.prepare(), 1)
	assert.Empty(t, s.prepare())

	changed := DefaultSun()
	changed.Intensity = 3
	s.set(changed)
	writes := s.prepare()
	require.Len(t, writes, 1)
	assert.Equal(t, float32(3), math.Float32frombits(binary.LittleEndian.Uint32(writes[0].Data[44:])))
}
