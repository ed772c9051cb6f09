package camera

import (
	"encoding/binary"
	"math"
	"testing"

	"github.com/Carmen-Shannon/oxy-horizon/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func transformPoint(m [16]float32, p [3]float32) [4]float32 {
	var out [4]float32
	v := [4]float32{p[0], p[1], p[2], 1}
	for i := range 4 {
		for j := range 4 {
			out[i] += m[j*4+i] * v[j]
		}
	}
	return out
}

func TestNewCamera_Defaults(t *testing.T) {
	c := NewCamera()

	assert.Equal(t, float32(75), c.Fov())
	assert.Equal(t, float32(1), c.Aspect())
	assert.Equal(t, float32(0.01), c.Near())
	assert.Equal(t, float32(10), c.Far())
	assert.Equal(t, [3]float32{0, 0, 1}, c.Position())
	assert.NotNil(t, c.BindGroupProvider())
	assert.Nil(t, c.Controller())
}

func TestCamera_SetAspectRecomputesProjection(t *testing.T) {
	c := NewCamera(WithAspect(1))
	before := c.ProjectionMatrix()

	c.SetAspect(16.0 / 9.0)
	after := c.ProjectionMatrix()

	// x scale is f / aspect, y scale is unchanged
	assert.InDelta(t, before[0]*9/16, after[0], 1e-6)
	assert.Equal(t, before[5], after[5])

	var expected [16]float32
	common.Perspective(expected[:], 75*math.Pi/180, 16.0/9.0, 0.01, 10)
	assert.InDeltaSlice(t, expected[:], after[:], 1e-6)
}

func TestCamera_SetAspectIgnoresInvalid(t *testing.T) {
	c := NewCamera(WithAspect(2))
	c.SetAspect(0)
	c.SetAspect(float32(math.NaN()))
	c.SetAspect(float32(math.Inf(1)))
	assert.Equal(t, float32(2), c.Aspect())
}

func TestCamera_TargetProjectsToCentre(t *testing.T) {
	c := NewCamera(
		WithPosition(0, 0.05, 1),
		WithTarget(0, 0.05, 0),
		WithAspect(16.0/9.0),
	)

	clip := transformPoint(c.ViewProjectionMatrix(), [3]float32{0, 0.05, -1})
	require.Greater(t, clip[3], float32(0))
	assert.InDelta(t, 0, clip[0]/clip[3], 1e-5)
	assert.InDelta(t, 0, clip[1]/clip[3], 1e-5)
	depth := clip[2] / clip[3]
	assert.True(t, depth > 0 && depth < 1, "depth %v outside [0,1]", depth)
}

func TestCamera_UpdateCopiesControllerPose(t *testing.T) {
	ctrl := NewOrbitController([3]float32{0, 0, 2}, [3]float32{0, 0, 0})
	c := NewCamera(WithController(ctrl))

	ctrl.Rotate(math.Pi/2, 0)
	for range 500 {
		c.Update()
	}

	pos := c.Position()
	assert.InDelta(t, 2, pos[0], 1e-3)
	assert.InDelta(t, 0, pos[2], 1e-3)
	assert.Equal(t, ctrl.Target(), c.Target())
}

func TestGPUCameraUniform_Marshal(t *testing.T) {
	c := NewCamera(WithPosition(1, 2, 3))
	u := c.Uniform()
	buf := u.Marshal()

	require.Len(t, buf, 80)
	assert.Equal(t, float32(1), math.Float32frombits(binary.LittleEndian.Uint32(buf[64:])))
	assert.Equal(t, float32(3), math.Float32frombits(binary.LittleEndian.Uint32(buf[72:])))
	assert.Equal(t, uint32(0), binary.LittleEndian.Uint32(buf[76:]))
	assert.Contains(t, GPUCameraUniformSource, "struct CameraUniform")
}
