package cmd

import (
	"fmt"

	"github.com/Carmen-Shannon/oxy-horizon/engine/postfx"
	"github.com/Carmen-Shannon/oxy-horizon/engine/renderer"
	"github.com/Carmen-Shannon/oxy-horizon/engine/terrain"
	"github.com/spf13/viper"
)

// Config is the resolved run configuration: flags, HORIZON_* environment and config.yaml,
// in viper's precedence order.
type Config struct {
	Width, Height int
	Title         string

	Speed      float64
	Tiles      int
	Spacing    float64
	BaseOffset float64

	RGBShift           float32
	BloomStrength      float32
	BloomRadius        float32
	BloomThreshold     float32
	FilmGrain          bool
	FilmGrainIntensity float32

	VSync         bool
	MSAA          int
	MaxPixelRatio float32
	FrameLimit    float64
	Software      bool

	AssetsDir         string
	MaxTextureSize    int
	HeightBlur        float32
	ProceduralTerrain bool

	AudioEnabled bool
	Volume       float64
	Tracks       []string

	DevTools bool
	Stats    bool
	Verbose  bool
}

func loadConfig(v *viper.Viper) Config {
	return Config{
		Width:  v.GetInt("window.width"),
		Height: v.GetInt("window.height"),
		Title:  v.GetString("window.title"),

		Speed:      v.GetFloat64("animation.speed"),
		Tiles:      v.GetInt("ring.tiles"),
		Spacing:    v.GetFloat64("ring.spacing"),
		BaseOffset: v.GetFloat64("ring.base_offset"),

		RGBShift:           float32(v.GetFloat64("post.rgb_shift")),
		BloomStrength:      float32(v.GetFloat64("post.bloom.strength")),
		BloomRadius:        float32(v.GetFloat64("post.bloom.radius")),
		BloomThreshold:     float32(v.GetFloat64("post.bloom.threshold")),
		FilmGrain:          v.GetBool("post.film_grain"),
		FilmGrainIntensity: float32(v.GetFloat64("post.film_grain_intensity")),

		VSync:         v.GetBool("render.vsync"),
		MSAA:          v.GetInt("render.msaa"),
		MaxPixelRatio: float32(v.GetFloat64("render.max_pixel_ratio")),
		FrameLimit:    v.GetFloat64("render.frame_limit"),
		Software:      v.GetBool("render.software"),

		AssetsDir:         v.GetString("assets.dir"),
		MaxTextureSize:    v.GetInt("assets.max_texture_size"),
		HeightBlur:        float32(v.GetFloat64("assets.height_blur")),
		ProceduralTerrain: v.GetBool("assets.procedural_terrain"),

		AudioEnabled: v.GetBool("audio.enabled"),
		Volume:       v.GetFloat64("audio.volume"),
		Tracks:       v.GetStringSlice("audio.tracks"),

		DevTools: v.GetBool("devtools"),
		Stats:    v.GetBool("stats"),
		Verbose:  v.GetBool("verbose"),
	}
}

// Validate rejects settings no component can run with. Ring and stage errors are left to
// their constructors.
func (c Config) Validate() error {
	if c.Width <= 0 || c.Height <= 0 {
		return fmt.Errorf("window size %dx%d must be positive", c.Width, c.Height)
	}
	switch renderer.MSAASampleCount(c.MSAA) {
	case renderer.MSAAOff, renderer.MSAA4x:
	default:
		return fmt.Errorf("msaa must be 1 or 4, got %d", c.MSAA)
	}
	if c.MaxTextureSize < 0 {
		return fmt.Errorf("max texture size must not be negative, got %d", c.MaxTextureSize)
	}
	return nil
}

// RingOptions returns the tile ring settings.
func (c Config) RingOptions() []terrain.RingBuilderOption {
	return []terrain.RingBuilderOption{
		terrain.WithTileCount(c.Tiles),
		terrain.WithSpacing(c.Spacing),
		terrain.WithSpeed(c.Speed),
		terrain.WithBaseOffset(c.BaseOffset),
	}
}

// Stages returns the default chain with the configured tunables.
func (c Config) Stages() []postfx.StageDescriptor {
	stages := postfx.DefaultStages()
	for i := range stages {
		p := &stages[i].Params
		switch stages[i].Kind {
		case postfx.StageRGBShift:
			p.Amount = c.RGBShift
		case postfx.StageBloom:
			p.Strength = c.BloomStrength
			p.Radius = c.BloomRadius
			p.Threshold = c.BloomThreshold
		case postfx.StageFilmGrain:
			stages[i].Enabled = c.FilmGrain
			p.Intensity = c.FilmGrainIntensity
		}
	}
	return stages
}

// RendererOptions returns the renderer settings.
func (c Config) RendererOptions() []renderer.RendererBuilderOption {
	mode := renderer.PresentModeVSync
	if !c.VSync {
		mode = renderer.PresentModeUncapped
	}
	return []renderer.RendererBuilderOption{
		renderer.WithPresentMode(mode),
		renderer.WithMSAA(renderer.MSAASampleCount(c.MSAA)),
		renderer.WithForceSoftwareRenderer(c.Software),
	}
}
