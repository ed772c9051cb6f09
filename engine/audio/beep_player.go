package audio

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/effects"
	"github.com/gopxl/beep/mp3"
	"github.com/gopxl/beep/speaker"
	"github.com/gopxl/beep/vorbis"
	"github.com/gopxl/beep/wav"
)

// ErrUnsupportedFormat is returned for files that are not MP3, WAV or OGG Vorbis.
var ErrUnsupportedFormat = errors.New("unsupported audio format")

const resampleQuality = 4

// Player owns the speaker and opens playlist files as beep tracks.
type Player struct {
	dir        string
	playlist   []string
	sampleRate beep.SampleRate

	initOnce sync.Once
	initErr  error

	mu    sync.Mutex
	onEnd func()
}

// NewPlayer creates a player for files in dir. The speaker is opened with the first track.
//
// Parameters:
//   - dir: the directory holding the tracks
//   - playlist: the file names, indexed by the opener
//   - sampleRate: the speaker sample rate, tracks at other rates are resampled
//
// Returns:
//   - *Player: the player
func NewPlayer(dir string, playlist []string, sampleRate int) *Player {
	return &Player{
		dir:        dir,
		playlist:   playlist,
		sampleRate: beep.SampleRate(sampleRate),
	}
}

// SetEndHandler sets the function called, on its own goroutine, when a track plays out.
func (p *Player) SetEndHandler(f func()) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.onEnd = f
}

func (p *Player) init() error {
	p.initOnce.Do(func() {
		p.initErr = speaker.Init(p.sampleRate, p.sampleRate.N(time.Millisecond*100))
	})
	return p.initErr
}

// Open decodes the playlist entry at index and queues it on the speaker, paused.
// It has the TrackOpener signature.
//
// Parameters:
//   - index: the playlist index
//
// Returns:
//   - Track: the paused track
//   - error: an error if the index is out of range, the file is missing or undecodable, or the
//     audio device cannot be opened
func (p *Player) Open(index int) (Track, error) {
	if index < 0 || index >= len(p.playlist) {
		return nil, fmt.Errorf("track index %d out of range", index)
	}
	if err := p.init(); err != nil {
		return nil, fmt.Errorf("audio device: %w", err)
	}

	path := filepath.Join(p.dir, p.playlist[index])
	stream, format, err := decode(path)
	if err != nil {
		return nil, err
	}

	var s beep.Streamer = stream
	if format.SampleRate != p.sampleRate {
		s = beep.Resample(resampleQuality, format.SampleRate, p.sampleRate, stream)
	}

	t := &beepTrack{stream: stream}
	t.gain = &effects.Gain{Streamer: s, Gain: 0}
	t.ctrl = &beep.Ctrl{Streamer: t.gain, Paused: true}
	speaker.Play(beep.Seq(t.ctrl, beep.Callback(func() {
		// Runs on the speaker goroutine with the speaker locked.
		if t.closed {
			return
		}
		t.closed = true
		p.mu.Lock()
		onEnd := p.onEnd
		p.mu.Unlock()
		if onEnd != nil {
			go onEnd()
		}
	})))
	return t, nil
}

// Close silences the speaker.
func (p *Player) Close() {
	if p.initErr == nil {
		speaker.Clear()
	}
}

func decode(path string) (beep.StreamSeekCloser, beep.Format, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, beep.Format{}, err
	}

	var (
		stream beep.StreamSeekCloser
		format beep.Format
	)
	switch strings.ToLower(filepath.Ext(path)) {
	case ".mp3":
		stream, format, err = mp3.Decode(f)
	case ".wav":
		stream, format, err = wav.Decode(f)
	case ".ogg":
		stream, format, err = vorbis.Decode(f)
	default:
		f.Close()
		return nil, beep.Format{}, fmt.Errorf("%s: %w", path, ErrUnsupportedFormat)
	}
	if err != nil {
		f.Close()
		return nil, beep.Format{}, fmt.Errorf("decode %s: %w", path, err)
	}
	return stream, format, nil
}

// beepTrack is a decoded stream behind a pause control and a gain stage. Fields read by the
// speaker goroutine are changed under speaker.Lock.
type beepTrack struct {
	stream beep.StreamSeekCloser
	ctrl   *beep.Ctrl
	gain   *effects.Gain
	closed bool
}

func (t *beepTrack) Play() {
	speaker.Lock()
	t.ctrl.Paused = false
	speaker.Unlock()
}

func (t *beepTrack) Pause() {
	speaker.Lock()
	t.ctrl.Paused = true
	speaker.Unlock()
}

func (t *beepTrack) Paused() bool {
	speaker.Lock()
	defer speaker.Unlock()
	return t.ctrl.Paused
}

// SetGain maps linear gain onto effects.Gain, which scales samples by 1 + Gain.
func (t *beepTrack) SetGain(gain float64) {
	speaker.Lock()
	t.gain.Gain = gain - 1
	speaker.Unlock()
}

func (t *beepTrack) Gain() float64 {
	speaker.Lock()
	defer speaker.Unlock()
	return t.gain.Gain + 1
}

// Close detaches the stream from the speaker without firing the end handler.
func (t *beepTrack) Close() error {
	speaker.Lock()
	t.closed = true
	t.ctrl.Streamer = nil
	speaker.Unlock()

	stream := t.stream
	t.stream = nil
	if stream == nil {
		return nil
	}
	return stream.Close()
}
