package cmd

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/Carmen-Shannon/oxy-horizon/engine"
	"github.com/Carmen-Shannon/oxy-horizon/engine/assets"
	"github.com/Carmen-Shannon/oxy-horizon/engine/audio"
	"github.com/Carmen-Shannon/oxy-horizon/engine/profiler"
	"github.com/Carmen-Shannon/oxy-horizon/engine/renderer"
	"github.com/Carmen-Shannon/oxy-horizon/engine/scene"
	"github.com/Carmen-Shannon/oxy-horizon/engine/window"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

const (
	audioSampleRate  = 44100
	proceduralSeed   = 1337
	unsupportedTitle = "WebGPU is not available"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Open the window and start the scene (the default command)",
	RunE:  runHorizon,
}

func init() {
	rootCmd.AddCommand(runCmd)
}

func runHorizon(cmd *cobra.Command, args []string) error {
	if logger == nil {
		initLogging()
	}

	cfg := loadConfig(viper.GetViper())
	if err := cfg.Validate(); err != nil {
		return err
	}

	win, err := window.NewWindow(
		window.WithTitle(cfg.Title),
		window.WithSize(cfg.Width, cfg.Height),
	)
	if err != nil {
		return err
	}
	defer win.Close()

	r, err := renderer.NewRenderer(renderer.BackendTypeWGPU, win, append(cfg.RendererOptions(), renderer.WithLogger(logger))...)
	if err != nil {
		if errors.Is(err, renderer.ErrUnsupportedAdapter) {
			win.SetTitle(cfg.Title + ": " + unsupportedTitle)
			fmt.Fprintln(os.Stderr, "This machine has no GPU adapter that supports WebGPU, so the scene cannot be shown.")
			fmt.Fprintln(os.Stderr, "Updating the graphics driver or passing --software may help.")
			logger.Error("startup capability check failed", "error", err)
		}
		return err
	}
	defer r.Release()

	loader := assets.NewLoader(cfg.AssetsDir,
		assets.WithMaxTextureSize(cfg.MaxTextureSize),
		assets.WithHeightBlur(cfg.HeightBlur),
		assets.WithProceduralTerrain(cfg.ProceduralTerrain, proceduralSeed),
		assets.WithLogger(logger),
	)
	defer loader.Close()
	loader.LoadAll(assets.DefaultTextures())

	sc, err := scene.Build(r, scene.BuildConfig{
		Width:         win.Width(),
		Height:        win.Height(),
		Ring:          cfg.RingOptions(),
		Stages:        cfg.Stages(),
		DevTools:      cfg.DevTools,
		ContentScale:  win.ContentScale,
		MaxPixelRatio: cfg.MaxPixelRatio,
		Assets:        loader,
		Logger:        logger,
	})
	if err != nil {
		return fmt.Errorf("build scene: %w", err)
	}
	defer sc.Release()

	bar := newTitleBar(cfg.Title, win.SetTitle, win.SetIcon)
	ctl := &controls{orbit: sc.Controls()}

	if cfg.AudioEnabled && len(cfg.Tracks) > 0 {
		player := audio.NewPlayer(filepath.Clean(cfg.AssetsDir), cfg.Tracks, audioSampleRate)
		defer player.Close()

		var music *audio.MusicToggle
		volume := audio.NewVolumeSlider(cfg.Volume, func(v float64) { music.UpdateVolume(v) })
		music = audio.NewMusicToggle(cfg.Tracks, player.Open, bar,
			audio.WithVolume(volume.Value()),
			audio.WithLogger(logger),
		)
		defer music.Close()
		player.SetEndHandler(music.OnTrackEnd)

		ctl.music = music
		ctl.volume = volume
	}
	ctl.attach(win)

	prof := profiler.NewProfiler(
		profiler.WithLogger(logger),
		profiler.WithStatsCallback(func(s profiler.Stats) {
			bar.SetStats(s.String())
		}),
	)

	e := engine.NewEngine(
		engine.WithWindow(win),
		engine.WithSceneContext(sc),
		engine.WithProfiler(prof),
		engine.WithProfiling(cfg.Stats),
		engine.WithRenderFrameLimit(cfg.FrameLimit),
		engine.WithLogger(logger),
	)
	return e.Run()
}
