package light

import "github.com/Carmen-Shannon/oxy-horizon/common"

// LightBuilderOption is a function that configures a Light instance during construction.
type LightBuilderOption func(*lightImpl)

// WithColor sets the linear RGB colour of the light.
//
// Parameters:
//   - color: linear RGB components
//
// Returns:
//   - LightBuilderOption: a function that applies the colour option to a lightImpl
func WithColor(color [3]float32) LightBuilderOption {
	return func(l *lightImpl) {
		l.color = color
	}
}

// WithHexColor sets the colour from an sRGB hex string such as "#ed11ff".
// It panics on a malformed string, so it is meant for constants.
func WithHexColor(hex string) LightBuilderOption {
	return func(l *lightImpl) {
		l.color = common.MustParseHexColor(hex)
	}
}

// WithIntensity sets the scalar intensity multiplier.
func WithIntensity(intensity float32) LightBuilderOption {
	return func(l *lightImpl) {
		l.intensity = intensity
	}
}

// WithPosition sets the world-space position of a spot light.
//
// Parameters:
//   - x, y, z: the position components
//
// Returns:
//   - LightBuilderOption: a function that applies the position option to a lightImpl
func WithPosition(x, y, z float32) LightBuilderOption {
	return func(l *lightImpl) {
		l.position = [3]float32{x, y, z}
	}
}

// WithTarget sets the point a spot light aims at.
//
// Parameters:
//   - x, y, z: the target components
//
// Returns:
//   - LightBuilderOption: a function that applies the target option to a lightImpl
func WithTarget(x, y, z float32) LightBuilderOption {
	return func(l *lightImpl) {
		l.target = [3]float32{x, y, z}
	}
}

// WithDistance sets the cutoff distance. 0 disables the cutoff.
func WithDistance(distance float32) LightBuilderOption {
	return func(l *lightImpl) {
		l.distance = max(distance, 0)
	}
}

// WithAngle sets the cone half-angle in radians.
func WithAngle(angle float32) LightBuilderOption {
	return func(l *lightImpl) {
		l.angle = angle
	}
}

// WithPenumbra sets the soft fraction of the cone, clamped to [0, 1].
func WithPenumbra(penumbra float32) LightBuilderOption {
	return func(l *lightImpl) {
		l.penumbra = common.Clamp(penumbra, 0, 1)
	}
}

// WithDecay sets the distance falloff exponent. 2 is physically correct.
func WithDecay(decay float32) LightBuilderOption {
	return func(l *lightImpl) {
		l.decay = decay
	}
}
