package light

import (
	"encoding/binary"
	"math"
	"testing"

	"github.com/Carmen-Shannon/oxy-horizon/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func spot(hex string, x float32) Light {
	return NewLight(LightTypeSpot,
		WithHexColor(hex),
		WithIntensity(25),
		WithDistance(100),
		WithAngle(math.Pi*0.1),
		WithPenumbra(0.25),
		WithPosition(x, 0.75, 2.2),
		WithTarget(-x/2, 0.2, 1),
	)
}

func TestNewLight_SpotDefaultsAndCone(t *testing.T) {
	l := spot(common.Turquoise, 0.5)

	assert.Equal(t, LightTypeSpot, l.Type())
	assert.Equal(t, float32(2), l.Decay())
	assert.InDelta(t, math.Cos(math.Pi*0.1), l.ConeCos(), 1e-6)
	assert.InDelta(t, math.Cos(math.Pi*0.1*0.75), l.PenumbraCos(), 1e-6)
	assert.Greater(t, l.PenumbraCos(), l.ConeCos())

	d := l.Direction()
	assert.InDelta(t, 1, math.Sqrt(float64(d[0]*d[0]+d[1]*d[1]+d[2]*d[2])), 1e-6)
	assert.Negative(t, d[2], "spot aims back towards the terrain")
}

func TestWithPenumbra_Clamps(t *testing.T) {
	assert.Equal(t, float32(1), NewLight(LightTypeSpot, WithPenumbra(3)).Penumbra())
	assert.Equal(t, float32(0), NewLight(LightTypeSpot, WithPenumbra(-1)).Penumbra())
}

func TestNewRig_Validation(t *testing.T) {
	ambient := NewLight(LightTypeAmbient, WithHexColor(common.Turquoise), WithIntensity(20))

	_, err := NewRig(ambient, Fog{}, spot(common.Pink, 0.5), spot(common.Pink, -0.5), spot(common.Pink, 0))
	assert.ErrorIs(t, err, ErrTooManySpots)

	_, err = NewRig(spot(common.Pink, 0), Fog{})
	assert.Error(t, err)

	_, err = NewRig(ambient, Fog{}, ambient)
	assert.Error(t, err)

	rig, err := NewRig(nil, Fog{})
	require.NoError(t, err)
	assert.Equal(t, [3]float32{}, rig.Uniform().AmbientColor)
}

func TestRig_Uniform(t *testing.T) {
	ambient := NewLight(LightTypeAmbient, WithHexColor(common.Turquoise), WithIntensity(20))
	fog := Fog{Color: common.MustParseHexColor(common.Black), Near: 1, Far: 2.25}
	rig, err := NewRig(ambient, fog, spot(common.Turquoise, 0.5), spot(common.Pink, -0.5))
	require.NoError(t, err)

	u := rig.Uniform()
	assert.Equal(t, 176, u.Size())
	assert.Equal(t, uint32(2), u.SpotCount)
	assert.Equal(t, float32(20), u.AmbientIntensity)
	assert.Equal(t, float32(2.25), u.FogFar)
	assert.Equal(t, [3]float32{-0.5, 0.75, 2.2}, u.Spots[1].Position)

	buf := u.Marshal()
	require.Len(t, buf, 176)
	assert.Equal(t, uint32(2), binary.LittleEndian.Uint32(buf[36:]))
	assert.Equal(t, float32(25), math.Float32frombits(binary.LittleEndian.Uint32(buf[48+12:])))
	assert.Equal(t, float32(2), math.Float32frombits(binary.LittleEndian.Uint32(buf[112+52:])))
	assert.Contains(t, GPULightUniformSource, "spots: array<SpotLight, 2>")
}

func TestFog_Factor(t *testing.T) {
	fog := Fog{Near: 1, Far: 2.25}

	assert.Equal(t, float32(0), fog.Factor(0.5))
	assert.Equal(t, float32(1), fog.Factor(3))
	assert.InDelta(t, 0.5, fog.Factor(1.625), 1e-6)

	degenerate := Fog{Near: 2, Far: 2}
	assert.Equal(t, float32(0), degenerate.Factor(1))
	assert.Equal(t, float32(1), degenerate.Factor(2))
}
