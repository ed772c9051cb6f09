package audio

import (
	"log/slog"
	"math/rand/v2"
)

// MusicToggleOption is a functional option used to configure a MusicToggle during construction.
type MusicToggleOption func(*MusicToggle)

// WithVolume sets the initial linear gain.
func WithVolume(v float64) MusicToggleOption {
	return func(m *MusicToggle) {
		m.volume = v
	}
}

// WithRandom sets the source the next track is drawn from.
//
// Parameters:
//   - rng: the random source, nil keeps a randomly seeded one
//
// Returns:
//   - MusicToggleOption: a function that sets the random source
func WithRandom(rng *rand.Rand) MusicToggleOption {
	return func(m *MusicToggle) {
		m.rng = rng
	}
}

// WithLogger sets the logger track failures go to.
func WithLogger(logger *slog.Logger) MusicToggleOption {
	return func(m *MusicToggle) {
		if logger != nil {
			m.logger = logger
		}
	}
}
