package audio

import (
	"errors"
	"log/slog"
	"math/rand/v2"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeTrack struct {
	index  int
	paused bool
	gain   float64
	closed bool
	plays  int
}

func (t *fakeTrack) Play()                { t.paused = false; t.plays++ }
func (t *fakeTrack) Pause()               { t.paused = true }
func (t *fakeTrack) Paused() bool         { return t.paused }
func (t *fakeTrack) SetGain(gain float64) { t.gain = gain }
func (t *fakeTrack) Gain() float64        { return t.gain }
func (t *fakeTrack) Close() error         { t.closed = true; return nil }

type fakeIcon struct {
	states []bool
}

func (i *fakeIcon) SetMusicIcon(playing bool) {
	i.states = append(i.states, playing)
}

type trackRecorder struct {
	opened []*fakeTrack
	fail   error
}

func (r *trackRecorder) open(index int) (Track, error) {
	if r.fail != nil {
		return nil, r.fail
	}
	t := &fakeTrack{index: index, paused: true}
	r.opened = append(r.opened, t)
	return t, nil
}

var playlist = []string{"a.mp3", "b.mp3", "c.mp3", "d.mp3"}

func newTestToggle(rec *trackRecorder, icon IconSetter, opts ...MusicToggleOption) *MusicToggle {
	opts = append([]MusicToggleOption{
		WithRandom(rand.New(rand.NewPCG(7, 11))),
		WithLogger(slog.New(slog.DiscardHandler)),
	}, opts...)
	return NewMusicToggle(playlist, rec.open, icon, opts...)
}

func TestMusicToggle_StartsPausedWithoutOpening(t *testing.T) {
	rec := &trackRecorder{}
	m := newTestToggle(rec, nil)

	assert.False(t, m.IsMusicPlaying())
	assert.Empty(t, rec.opened)
	assert.GreaterOrEqual(t, m.CurrentIndex(), 0)
	assert.Less(t, m.CurrentIndex(), len(playlist))
}

func TestMusicToggle_ToggleTwiceRestoresState(t *testing.T) {
	rec := &trackRecorder{}
	icon := &fakeIcon{}
	m := newTestToggle(rec, icon)

	m.ToggleMusic()
	require.True(t, m.IsMusicPlaying())
	require.Len(t, rec.opened, 1)
	assert.False(t, rec.opened[0].Paused())

	m.ToggleMusic()
	assert.False(t, m.IsMusicPlaying())
	assert.True(t, rec.opened[0].Paused())
	assert.Equal(t, []bool{true, false}, icon.states)
}

func TestMusicToggle_ResumeKeepsTrack(t *testing.T) {
	rec := &trackRecorder{}
	m := newTestToggle(rec, nil)

	m.ToggleMusic()
	index := m.CurrentIndex()
	m.ToggleMusic()
	m.ToggleMusic()

	assert.Equal(t, index, m.CurrentIndex())
	require.Len(t, rec.opened, 1)
	assert.Equal(t, 2, rec.opened[0].plays)
	assert.False(t, rec.opened[0].closed)
}

func TestMusicToggle_UpdateVolume(t *testing.T) {
	rec := &trackRecorder{}
	m := newTestToggle(rec, nil)

	m.UpdateVolume(0.5)
	m.ToggleMusic()
	require.Len(t, rec.opened, 1)
	assert.Equal(t, 0.5, rec.opened[0].Gain())

	m.UpdateVolume(0.25)
	assert.Equal(t, 0.25, rec.opened[0].Gain())
	assert.Equal(t, 0.25, m.Volume())
}

func TestMusicToggle_TrackEndWhilePlaying(t *testing.T) {
	rec := &trackRecorder{}
	m := newTestToggle(rec, nil, WithVolume(0.3))

	m.ToggleMusic()
	m.OnTrackEnd()

	require.Len(t, rec.opened, 2)
	assert.True(t, rec.opened[0].closed)
	next := rec.opened[1]
	assert.False(t, next.Paused())
	assert.Equal(t, 0.3, next.Gain())
	assert.Equal(t, next.index, m.CurrentIndex())
}

func TestMusicToggle_TrackEndWhilePaused(t *testing.T) {
	rec := &trackRecorder{}
	m := newTestToggle(rec, nil)

	m.ToggleMusic()
	m.ToggleMusic()
	m.OnTrackEnd()

	require.Len(t, rec.opened, 2)
	assert.True(t, rec.opened[1].Paused())
	assert.Zero(t, rec.opened[1].plays)
	assert.False(t, m.IsMusicPlaying())
}

func TestMusicToggle_OpenFailurePlaysSilence(t *testing.T) {
	rec := &trackRecorder{fail: errors.New("no such file")}
	icon := &fakeIcon{}
	m := newTestToggle(rec, icon)

	m.ToggleMusic()
	assert.True(t, m.IsMusicPlaying())
	assert.Equal(t, []bool{true}, icon.states)

	m.UpdateVolume(0.2)
	m.OnTrackEnd()
	assert.True(t, m.IsMusicPlaying())

	rec.fail = nil
	m.OnTrackEnd()
	require.Len(t, rec.opened, 1)
	assert.False(t, rec.opened[0].Paused())
	assert.Equal(t, 0.2, rec.opened[0].Gain())
}

func TestMusicToggle_EmptyPlaylist(t *testing.T) {
	rec := &trackRecorder{}
	m := NewMusicToggle(nil, rec.open, nil, WithLogger(slog.New(slog.DiscardHandler)))

	m.ToggleMusic()
	m.OnTrackEnd()

	assert.True(t, m.IsMusicPlaying())
	assert.Empty(t, rec.opened)
}

func TestMusicToggle_Close(t *testing.T) {
	rec := &trackRecorder{}
	m := newTestToggle(rec, nil)

	m.ToggleMusic()
	m.Close()
	m.Close()

	require.Len(t, rec.opened, 1)
	assert.True(t, rec.opened[0].closed)
}

func TestVolumeSlider(t *testing.T) {
	var got []float64
	s := NewVolumeSlider(1.4, func(v float64) { got = append(got, v) })
	assert.Equal(t, 1.0, s.Value())

	s.Step(-1)
	assert.InDelta(t, 0.99, s.Value(), 1e-9)

	s.Set(-3)
	assert.Equal(t, 0.0, s.Value())

	s.Step(-5)
	assert.Equal(t, 0.0, s.Value())

	s.Set(0.1234)
	assert.InDelta(t, 0.12, s.Value(), 1e-9)

	require.Len(t, got, 4)
	assert.InDelta(t, 0.12, got[3], 1e-9)
}

func TestVolumeSlider_DrivesToggle(t *testing.T) {
	rec := &trackRecorder{}
	m := newTestToggle(rec, nil)
	s := NewVolumeSlider(m.Volume(), m.UpdateVolume)

	m.ToggleMusic()
	s.Set(0.5)
	require.Len(t, rec.opened, 1)
	assert.Equal(t, 0.5, rec.opened[0].Gain())
}

func TestPlayer_OpenRejectsBadIndex(t *testing.T) {
	p := NewPlayer(t.TempDir(), []string{"a.mp3"}, 44100)

	_, err := p.Open(3)
	assert.Error(t, err)
	_, err = p.Open(-1)
	assert.Error(t, err)
}

func TestDecode_Errors(t *testing.T) {
	dir := t.TempDir()

	_, _, err := decode(filepath.Join(dir, "missing.mp3"))
	assert.Error(t, err)
}

func TestDecode_UnsupportedFormat(t *testing.T) {
	path := filepath.Join(t.TempDir(), "track.flac")
	require.NoError(t, os.WriteFile(path, []byte("fLaC"), 0o644))

	_, _, err := decode(path)
	assert.ErrorIs(t, err, ErrUnsupportedFormat)
}
