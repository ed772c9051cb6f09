package light

import (
	"math"

	"github.com/Carmen-Shannon/oxy-horizon/common"
)

// LightType identifies the kind of light source.
type LightType int

const (
	// LightTypeAmbient lights every surface equally, with no position or direction.
	LightTypeAmbient LightType = iota

	// LightTypeSpot emits in a cone from a position towards a target. It attenuates with
	// distance up to a cutoff and softens towards the cone edge by the penumbra.
	LightTypeSpot
)

func (t LightType) String() string {
	switch t {
	case LightTypeAmbient:
		return "ambient"
	case LightTypeSpot:
		return "spot"
	default:
		return "unknown"
	}
}

// lightImpl is the implementation of the Light interface.
type lightImpl struct {
	lightType LightType
	color     [3]float32
	intensity float32

	position [3]float32
	target   [3]float32
	distance float32
	angle    float32
	penumbra float32
	decay    float32
}

// Light is an ambient or spot light source. Spot-only properties are ignored for ambient lights.
type Light interface {
	// Type returns the kind of light source.
	//
	// Returns:
	//   - LightType: ambient or spot
	Type() LightType

	// Color returns the linear RGB colour of the light.
	Color() [3]float32

	// Intensity returns the scalar intensity multiplier.
	Intensity() float32

	// Position returns the world-space position of a spot light.
	Position() [3]float32

	// Target returns the world-space point a spot light aims at.
	Target() [3]float32

	// Direction returns the normalized cone axis, from position towards target.
	//
	// Returns:
	//   - [3]float32: the unit direction, zero when position equals target
	Direction() [3]float32

	// Distance returns the cutoff distance beyond which the light contributes nothing, 0 for none.
	Distance() float32

	// Angle returns the cone half-angle in radians.
	Angle() float32

	// Penumbra returns the fraction of the cone, in [0, 1], that fades out towards its edge.
	Penumbra() float32

	// Decay returns the distance falloff exponent.
	Decay() float32

	// ConeCos returns cos(angle), the cosine at the outer edge of the cone.
	ConeCos() float32

	// PenumbraCos returns cos(angle*(1-penumbra)), the cosine where the fade starts.
	PenumbraCos() float32

	// SetColor sets the linear RGB colour.
	SetColor(r, g, b float32)

	// SetIntensity sets the scalar intensity multiplier.
	//
	// Parameters:
	//   - intensity: the new intensity
	SetIntensity(intensity float32)

	// SetPosition moves a spot light.
	SetPosition(x, y, z float32)

	// SetTarget re-aims a spot light.
	SetTarget(x, y, z float32)
}

var _ Light = &lightImpl{}

// NewLight creates a light. Spot lights default to decay 2 with no distance cutoff.
//
// Parameters:
//   - lightType: the kind of light source
//   - opts: variadic list of LightBuilderOption functions to configure the light
//
// Returns:
//   - Light: the configured light
func NewLight(lightType LightType, opts ...LightBuilderOption) Light {
	l := &lightImpl{
		lightType: lightType,
		color:     [3]float32{1, 1, 1},
		intensity: 1,
		angle:     math.Pi / 3,
		decay:     2,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

func (l *lightImpl) Type() LightType {
	return l.lightType
}

func (l *lightImpl) Color() [3]float32 {
	return l.color
}

func (l *lightImpl) Intensity() float32 {
	return l.intensity
}

func (l *lightImpl) Position() [3]float32 {
	return l.position
}

func (l *lightImpl) Target() [3]float32 {
	return l.target
}

func (l *lightImpl) Direction() [3]float32 {
	return common.Normalize3([3]float32{
		l.target[0] - l.position[0],
		l.target[1] - l.position[1],
		l.target[2] - l.position[2],
	})
}

func (l *lightImpl) Distance() float32 {
	return l.distance
}

func (l *lightImpl) Angle() float32 {
	return l.angle
}

func (l *lightImpl) Penumbra() float32 {
	return l.penumbra
}

func (l *lightImpl) Decay() float32 {
	return l.decay
}

func (l *lightImpl) ConeCos() float32 {
	return float32(math.Cos(float64(l.angle)))
}

func (l *lightImpl) PenumbraCos() float32 {
	return float32(math.Cos(float64(l.angle * (1 - l.penumbra))))
}

func (l *lightImpl) SetColor(r, g, b float32) {
	l.color = [3]float32{r, g, b}
}

func (l *lightImpl) SetIntensity(intensity float32) {
	l.intensity = intensity
}

func (l *lightImpl) SetPosition(x, y, z float32) {
	l.position = [3]float32{x, y, z}
}

func (l *lightImpl) SetTarget(x, y, z float32) {
	l.target = [3]float32{x, y, z}
}
