package light

import (
	"errors"
	"fmt"
)

// ErrTooManySpots is returned by NewRig when more than MaxSpotLights spot lights are given.
var ErrTooManySpots = errors.New("too many spot lights")

// Fog is linear distance fog: no fog before Near, fully FogColor beyond Far.
type Fog struct {
	Color [3]float32
	Near  float32
	Far   float32
}

// Factor returns the fog amount at a view distance, smoothly ramping from 0 at Near to 1 at Far.
//
// Parameters:
//   - distance: distance from the camera
//
// Returns:
//   - float32: fog amount in [0, 1]
func (f Fog) Factor(distance float32) float32 {
	if f.Far <= f.Near {
		if distance >= f.Far {
			return 1
		}
		return 0
	}
	t := (distance - f.Near) / (f.Far - f.Near)
	t = min(max(t, 0), 1)
	return t * t * (3 - 2*t)
}

// Rig is the scene's light set: one ambient light, up to MaxSpotLights spot lights and the fog.
type Rig struct {
	Ambient Light
	Spots   []Light
	Fog     Fog
}

// NewRig groups the lights of a scene.
//
// Parameters:
//   - ambient: the ambient light, may be nil for none
//   - fog: the distance fog
//   - spots: the spot lights
//
// Returns:
//   - Rig: the light rig
//   - error: ErrTooManySpots, or an error when a light has the wrong type
func NewRig(ambient Light, fog Fog, spots ...Light) (Rig, error) {
	if len(spots) > MaxSpotLights {
		return Rig{}, fmt.Errorf("%w: %d, max %d", ErrTooManySpots, len(spots), MaxSpotLights)
	}
	if ambient != nil && ambient.Type() != LightTypeAmbient {
		return Rig{}, fmt.Errorf("ambient slot holds a %s light", ambient.Type())
	}
	for i, s := range spots {
		if s.Type() != LightTypeSpot {
			return Rig{}, fmt.Errorf("spot slot %d holds a %s light", i, s.Type())
		}
	}
	return Rig{Ambient: ambient, Spots: spots, Fog: fog}, nil
}

// Uniform marshals the rig into its GPU representation.
//
// Returns:
//   - GPULightUniform: ambient, fog and spot parameters
func (r Rig) Uniform() GPULightUniform {
	u := GPULightUniform{
		FogColor:  r.Fog.Color,
		FogNear:   r.Fog.Near,
		FogFar:    r.Fog.Far,
		SpotCount: uint32(len(r.Spots)),
	}
	if r.Ambient != nil {
		u.AmbientColor = r.Ambient.Color()
		u.AmbientIntensity = r.Ambient.Intensity()
	}
	for i, s := range r.Spots {
		u.Spots[i] = GPUSpotLight{
			Position:    s.Position(),
			Intensity:   s.Intensity(),
			Direction:   s.Direction(),
			Distance:    s.Distance(),
			Color:       s.Color(),
			ConeCos:     s.ConeCos(),
			PenumbraCos: s.PenumbraCos(),
			Decay:       s.Decay(),
		}
	}
	return u
}
