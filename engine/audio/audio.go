// Package audio is the background music toggle: a fixed playlist played in random order,
// paused and resumed by a button and attenuated by a volume slider.
package audio

// Track is one opened playlist entry.
type Track interface {
	// Play starts or resumes playback.
	Play()
	// Pause stops playback keeping the position.
	Pause()
	Paused() bool
	// SetGain sets the linear gain, 1 is unchanged.
	SetGain(gain float64)
	Gain() float64
	// Close stops the track for good and frees its decoder. The end callback does not fire.
	Close() error
}

// TrackOpener opens the playlist entry at index, paused.
type TrackOpener func(index int) (Track, error)

// IconSetter swaps the status icon shown for the playing state.
type IconSetter interface {
	SetMusicIcon(playing bool)
}
