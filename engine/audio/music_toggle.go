package audio

import (
	"log/slog"
	"math/rand/v2"
	"sync"
)

// MusicToggle plays a fixed playlist in random order. Track ends arrive on the audio goroutine
// while the toggle and the slider are driven from the window loop, so state is guarded.
type MusicToggle struct {
	mu sync.Mutex

	playlist []string
	opener   TrackOpener
	icon     IconSetter
	rng      *rand.Rand
	logger   *slog.Logger

	volume  float64
	playing bool
	index   int
	track   Track
}

// NewMusicToggle creates a paused toggle. The first track is chosen at random and opened on the
// first ToggleMusic.
//
// Parameters:
//   - playlist: the track names, indexes passed to opener refer to it
//   - opener: opens a track by index
//   - icon: the status icon, may be nil
//   - opts: functional options configuring the toggle
//
// Returns:
//   - *MusicToggle: the toggle
func NewMusicToggle(playlist []string, opener TrackOpener, icon IconSetter, opts ...MusicToggleOption) *MusicToggle {
	m := &MusicToggle{
		playlist: playlist,
		opener:   opener,
		icon:     icon,
		volume:   1,
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(m)
	}
	if m.rng == nil {
		m.rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	m.index = m.pick()
	return m
}

func (m *MusicToggle) pick() int {
	if len(m.playlist) == 0 {
		return 0
	}
	return m.rng.IntN(len(m.playlist))
}

// ToggleMusic flips between playing and paused. Pausing keeps the current track and position,
// resuming continues it, opening it first if it was never opened. The icon follows the state.
func (m *MusicToggle) ToggleMusic() {
	m.mu.Lock()
	m.playing = !m.playing
	playing := m.playing
	if playing {
		if m.track == nil {
			m.open(m.index)
		}
		if m.track != nil {
			m.track.Play()
		}
	} else if m.track != nil {
		m.track.Pause()
	}
	m.mu.Unlock()

	m.logger.Debug("music toggled", "playing", playing)
	if m.icon != nil {
		m.icon.SetMusicIcon(playing)
	}
}

// UpdateVolume applies linear gain v to the active track and to tracks opened later.
// The value is used as given, the slider clamps it.
func (m *MusicToggle) UpdateVolume(v float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.volume = v
	if m.track != nil {
		m.track.SetGain(v)
	}
}

// OnTrackEnd moves on to a random playlist entry, repeats allowed. The new track starts only
// while the toggle is playing.
func (m *MusicToggle) OnTrackEnd() {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.closeTrack()
	m.index = m.pick()
	m.open(m.index)
	if m.playing && m.track != nil {
		m.track.Play()
	}
}

// open replaces the current track. A failure leaves no track, which plays as silence.
func (m *MusicToggle) open(index int) {
	m.closeTrack()
	if m.opener == nil || len(m.playlist) == 0 {
		return
	}
	t, err := m.opener(index)
	if err != nil {
		m.logger.Warn("track unavailable, playing silence", "track", m.playlist[index], "error", err)
		return
	}
	t.SetGain(m.volume)
	m.track = t
}

func (m *MusicToggle) closeTrack() {
	if m.track == nil {
		return
	}
	if err := m.track.Close(); err != nil {
		m.logger.Warn("closing track failed", "track", m.playlist[m.index], "error", err)
	}
	m.track = nil
}

func (m *MusicToggle) IsMusicPlaying() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.playing
}

// CurrentIndex returns the playlist index of the current track.
func (m *MusicToggle) CurrentIndex() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.index
}

func (m *MusicToggle) Volume() float64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.volume
}

// Close stops and releases the current track.
func (m *MusicToggle) Close() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closeTrack()
}
