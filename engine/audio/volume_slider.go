package audio

import (
	"math"

	"github.com/Carmen-Shannon/oxy-horizon/common"
)

// VolumeStep is the slider increment.
const VolumeStep = 0.01

// VolumeSlider is the volume control: a value in [0, 1] moved in steps of VolumeStep.
// Every change is forwarded to the input callback.
type VolumeSlider struct {
	value   float64
	onInput func(float64)
}

// NewVolumeSlider creates a slider at initial, clamped to [0, 1].
//
// Parameters:
//   - initial: the starting value
//   - onInput: receives every new value, may be nil
//
// Returns:
//   - *VolumeSlider: the slider
func NewVolumeSlider(initial float64, onInput func(float64)) *VolumeSlider {
	return &VolumeSlider{value: snap(initial), onInput: onInput}
}

// snap rounds to the step grid and clamps to [0, 1]. NaN lands on 0.
func snap(v float64) float64 {
	if math.IsNaN(v) {
		return 0
	}
	return common.Clamp(math.Round(v/VolumeStep)*VolumeStep, 0, 1)
}

func (s *VolumeSlider) Value() float64 {
	return s.value
}

// Set moves the slider to v and reports the clamped value.
func (s *VolumeSlider) Set(v float64) {
	s.value = snap(v)
	if s.onInput != nil {
		s.onInput(s.value)
	}
}

// Step moves the slider by n increments, negative n lowers the volume.
func (s *VolumeSlider) Step(n int) {
	s.Set(s.value + float64(n)*VolumeStep)
}
