package cmd

import (
	"bytes"
	"context"
	"image"
	"log/slog"
	"testing"

	"github.com/Carmen-Shannon/oxy-horizon/common"
	"github.com/Carmen-Shannon/oxy-horizon/engine/audio"
	"github.com/Carmen-Shannon/oxy-horizon/engine/camera"
	"github.com/Carmen-Shannon/oxy-horizon/engine/postfx"
	"github.com/Carmen-Shannon/oxy-horizon/engine/terrain"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_Defaults(t *testing.T) {
	cfg := loadConfig(viper.GetViper())

	assert.Equal(t, 1280, cfg.Width)
	assert.Equal(t, 720, cfg.Height)
	assert.Equal(t, "oxy-horizon", cfg.Title)
	assert.Equal(t, 0.1, cfg.Speed)
	assert.Equal(t, 3, cfg.Tiles)
	assert.Equal(t, 2.0, cfg.Spacing)
	assert.Zero(t, cfg.BaseOffset)
	assert.InDelta(t, 0.001, cfg.RGBShift, 1e-9)
	assert.InDelta(t, 0.9, cfg.BloomStrength, 1e-6)
	assert.InDelta(t, 0.5, cfg.BloomRadius, 1e-6)
	assert.InDelta(t, 0.85, cfg.BloomThreshold, 1e-6)
	assert.False(t, cfg.FilmGrain)
	assert.True(t, cfg.VSync)
	assert.Equal(t, 4, cfg.MSAA)
	assert.InDelta(t, 2, cfg.MaxPixelRatio, 1e-6)
	assert.Equal(t, "./assets", cfg.AssetsDir)
	assert.Equal(t, 2048, cfg.MaxTextureSize)
	assert.True(t, cfg.AudioEnabled)
	assert.Equal(t, 0.5, cfg.Volume)
	assert.Equal(t, []string{"track1.mp3", "track2.mp3", "track3.mp3"}, cfg.Tracks)
	assert.False(t, cfg.DevTools)
	assert.NoError(t, cfg.Validate())
}

func TestLoadConfig_Overrides(t *testing.T) {
	v := viper.New()
	v.Set("window.width", 640)
	v.Set("window.height", 360)
	v.Set("animation.speed", 0.5)
	v.Set("ring.tiles", 4)
	v.Set("post.film_grain", true)
	v.Set("post.film_grain_intensity", 0.2)
	v.Set("render.msaa", 1)
	v.Set("audio.tracks", []string{"a.ogg"})

	cfg := loadConfig(v)
	require.NoError(t, cfg.Validate())
	assert.Equal(t, 640, cfg.Width)
	assert.Equal(t, 0.5, cfg.Speed)
	assert.Equal(t, 4, cfg.Tiles)
	assert.True(t, cfg.FilmGrain)
	assert.Equal(t, []string{"a.ogg"}, cfg.Tracks)
}

func TestConfig_Validate(t *testing.T) {
	base := loadConfig(viper.GetViper())

	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"zero width", func(c *Config) { c.Width = 0 }},
		{"negative height", func(c *Config) { c.Height = -1 }},
		{"msaa 2", func(c *Config) { c.MSAA = 2 }},
		{"negative texture size", func(c *Config) { c.MaxTextureSize = -1 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := base
			tt.mutate(&cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}

func TestConfig_Stages(t *testing.T) {
	cfg := loadConfig(viper.GetViper())
	cfg.RGBShift = 0.004
	cfg.BloomStrength = 1.5
	cfg.FilmGrain = true
	cfg.FilmGrainIntensity = 0.6

	stages := cfg.Stages()
	require.NoError(t, postfx.ValidateStages(stages))
	require.Len(t, stages, 5)

	kinds := make([]postfx.StageKind, len(stages))
	for i, s := range stages {
		kinds[i] = s.Kind
	}
	assert.Equal(t, []postfx.StageKind{
		postfx.StageRender, postfx.StageRGBShift, postfx.StageGammaCorrection, postfx.StageBloom, postfx.StageFilmGrain,
	}, kinds)
	assert.InDelta(t, 0.004, stages[1].Params.Amount, 1e-9)
	assert.InDelta(t, 1.5, stages[3].Params.Strength, 1e-6)
	assert.True(t, stages[4].Enabled)
	assert.InDelta(t, 0.6, stages[4].Params.Intensity, 1e-6)
}

func TestConfig_RingOptions(t *testing.T) {
	cfg := loadConfig(viper.GetViper())
	ring, err := terrain.NewRing(cfg.RingOptions()...)
	require.NoError(t, err)
	assert.Equal(t, 3, ring.TileCount())

	cfg.Tiles = 0
	_, err = terrain.NewRing(cfg.RingOptions()...)
	assert.ErrorIs(t, err, terrain.ErrInvalidRing)
}

type fakeMusic struct {
	toggles int
}

func (m *fakeMusic) ToggleMusic() { m.toggles++ }

type fakeOrbit struct {
	camera.CameraController

	resets  int
	downs   int
	moves   [][2]int32
	ups     int
	dollies []float32
}

func (o *fakeOrbit) Reset()                 { o.resets++ }
func (o *fakeOrbit) PointerDown(x, y int32) { o.downs++ }
func (o *fakeOrbit) PointerMove(x, y int32) { o.moves = append(o.moves, [2]int32{x, y}) }
func (o *fakeOrbit) PointerUp()             { o.ups++ }
func (o *fakeOrbit) Dolly(delta float32)    { o.dollies = append(o.dollies, delta) }

type fakeInput struct {
	keyDown   func(uint32)
	mouseDown func(int32, int32)
	mouseUp   func(int32, int32)
	mouseMove func(int32, int32)
	scroll    func(float32)
}

func (f *fakeInput) SetKeyDownCallback(cb func(uint32))             { f.keyDown = cb }
func (f *fakeInput) SetLeftMouseDownCallback(cb func(int32, int32)) { f.mouseDown = cb }
func (f *fakeInput) SetLeftMouseUpCallback(cb func(int32, int32))   { f.mouseUp = cb }
func (f *fakeInput) SetMouseMoveCallback(cb func(int32, int32))     { f.mouseMove = cb }
func (f *fakeInput) SetScrollCallback(cb func(float32))             { f.scroll = cb }

func TestControls_Keys(t *testing.T) {
	music := &fakeMusic{}
	var volumes []float64
	slider := audio.NewVolumeSlider(0.5, func(v float64) { volumes = append(volumes, v) })
	orbit := &fakeOrbit{}
	c := &controls{music: music, volume: slider, orbit: orbit}

	c.keyDown(common.KeyM)
	c.keyDown(common.KeyM)
	assert.Equal(t, 2, music.toggles)

	c.keyDown(common.KeyEqual)
	c.keyDown(common.KeyKPAdd)
	assert.InDelta(t, 0.52, slider.Value(), 1e-9)
	c.keyDown(common.KeyMinus)
	c.keyDown(common.KeyKPSubtract)
	c.keyDown(common.KeyKPSubtract)
	assert.InDelta(t, 0.49, slider.Value(), 1e-9)
	assert.Len(t, volumes, 5)

	c.keyDown(common.KeyR)
	assert.Equal(t, 1, orbit.resets)
}

func TestControls_WithoutAudioOrDevtools(t *testing.T) {
	c := &controls{}
	in := &fakeInput{}
	c.attach(in)

	require.NotNil(t, in.keyDown)
	assert.Nil(t, in.mouseDown)
	assert.Nil(t, in.scroll)
	assert.NotPanics(t, func() {
		in.keyDown(common.KeyM)
		in.keyDown(common.KeyEqual)
		in.keyDown(common.KeyR)
	})
}

func TestControls_OrbitMouse(t *testing.T) {
	orbit := &fakeOrbit{}
	c := &controls{orbit: orbit}
	in := &fakeInput{}
	c.attach(in)

	in.mouseDown(10, 10)
	in.mouseMove(12, 9)
	in.mouseUp(12, 9)
	in.scroll(1)

	assert.Equal(t, 1, orbit.downs)
	assert.Equal(t, [][2]int32{{12, 9}}, orbit.moves)
	assert.Equal(t, 1, orbit.ups)
	assert.Equal(t, []float32{1}, orbit.dollies)
}

func TestTitleBar(t *testing.T) {
	var titles []string
	var icons []image.Image
	bar := newTitleBar("oxy-horizon",
		func(s string) { titles = append(titles, s) },
		func(img image.Image) { icons = append(icons, img) },
	)

	assert.Equal(t, "oxy-horizon", bar.Text())

	bar.SetMusicIcon(true)
	assert.Equal(t, "oxy-horizon ♪", titles[len(titles)-1])

	bar.SetStats("60 FPS | 16.67 ms | heap 3.0 MB")
	assert.Equal(t, "oxy-horizon ♪ | 60 FPS | 16.67 ms | heap 3.0 MB", titles[len(titles)-1])

	bar.SetMusicIcon(false)
	assert.Equal(t, "oxy-horizon | 60 FPS | 16.67 ms | heap 3.0 MB", bar.Text())

	require.Len(t, icons, 2)
	assert.NotSame(t, icons[0], icons[1])
	assert.Equal(t, image.Rect(0, 0, iconSize, iconSize), icons[0].Bounds())
}

func TestMusicIcon(t *testing.T) {
	c := mustHex("#ed11ff")
	playing := musicIcon(c, true)
	muted := musicIcon(c, false)

	mid := iconSize / 2
	assert.NotEqual(t, playing.At(mid, mid), muted.At(mid, mid))
	_, _, _, a := playing.At(0, 0).RGBA()
	assert.Zero(t, a)
}

func TestNewLogger(t *testing.T) {
	var buf bytes.Buffer
	quiet := newLogger(&buf, false)
	assert.False(t, quiet.Enabled(context.Background(), slog.LevelDebug))

	verbose := newLogger(&buf, true)
	assert.True(t, verbose.Enabled(context.Background(), slog.LevelDebug))
	verbose.Debug("hello", "k", 1)
	assert.Contains(t, buf.String(), "msg=hello")
}

func TestVersionCommand(t *testing.T) {
	var out bytes.Buffer
	versionCmd.SetOut(&out)
	versionCmd.Run(versionCmd, nil)
	assert.Equal(t, "horizon dev\n", out.String())
}
