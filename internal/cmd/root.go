package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var cfgFile string

var rootCmd = &cobra.Command{
	Use:   "horizon",
	Short: "An endless synthwave terrain",
	Long: `Horizon flies a camera over an endless neon terrain towards a striped sun.

Terrain tiles scroll towards the camera and wrap around, the frame goes through an
RGB shift, gamma correction, bloom and optional film grain, and a background
playlist can be toggled with M and attenuated with + and -.`,
	SilenceUsage: true,
	RunE:         runHorizon,
}

// Execute runs the root command and exits with status 1 on failure.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&cfgFile, "config", "", "config file (default is ./config.yaml)")

	flags.Int("width", 1280, "Initial window width")
	flags.Int("height", 720, "Initial window height")
	flags.String("title", "oxy-horizon", "Window title")

	flags.Float64("speed", 0.1, "Terrain scroll speed in world units per second")
	flags.Int("tiles", 3, "Number of terrain tiles in the ring")
	flags.Float64("spacing", 2, "Distance between consecutive tiles")
	flags.Float64("base-offset", 0, "Ring offset added to every tile's z")

	flags.Float64("rgb-shift", 0.001, "RGB shift amount")
	flags.Float64("bloom-strength", 0.9, "Bloom strength")
	flags.Float64("bloom-radius", 0.5, "Bloom radius")
	flags.Float64("bloom-threshold", 0.85, "Bloom luminance threshold")
	flags.Bool("film-grain", false, "Enable the film grain stage")
	flags.Float64("film-grain-intensity", 0.35, "Film grain intensity")

	flags.Bool("vsync", true, "Wait for vertical blank when presenting")
	flags.Int("msaa", 4, "Scene MSAA sample count (1 or 4)")
	flags.Float64("max-pixel-ratio", 2, "Largest framebuffer to window ratio rendered at full resolution")
	flags.Float64("frame-limit", 0, "Frame rate cap, 0 is uncapped")
	flags.Bool("software", false, "Force the fallback software adapter")

	flags.String("assets", "./assets", "Asset directory")
	flags.Int("max-texture-size", 2048, "Largest texture edge, larger images are downscaled")
	flags.Float64("height-blur", 0, "Gaussian blur sigma applied to the height map")
	flags.Bool("procedural-terrain", false, "Generate a Perlin height map when terrain_data.webp is missing")

	flags.Bool("audio", true, "Enable the music toggle")
	flags.Float64("volume", 0.5, "Initial music volume in [0, 1]")
	flags.StringSlice("tracks", []string{"track1.mp3", "track2.mp3", "track3.mp3"}, "Playlist, relative to the asset directory")

	flags.Bool("devtools", false, "Enable orbit controls")
	flags.Bool("stats", false, "Show frame statistics in the window title")
	flags.Bool("verbose", false, "Enable verbose logging")

	bindFlags := []struct {
		key  string
		flag string
	}{
		{"window.width", "width"},
		{"window.height", "height"},
		{"window.title", "title"},
		{"animation.speed", "speed"},
		{"ring.tiles", "tiles"},
		{"ring.spacing", "spacing"},
		{"ring.base_offset", "base-offset"},
		{"post.rgb_shift", "rgb-shift"},
		{"post.bloom.strength", "bloom-strength"},
		{"post.bloom.radius", "bloom-radius"},
		{"post.bloom.threshold", "bloom-threshold"},
		{"post.film_grain", "film-grain"},
		{"post.film_grain_intensity", "film-grain-intensity"},
		{"render.vsync", "vsync"},
		{"render.msaa", "msaa"},
		{"render.max_pixel_ratio", "max-pixel-ratio"},
		{"render.frame_limit", "frame-limit"},
		{"render.software", "software"},
		{"assets.dir", "assets"},
		{"assets.max_texture_size", "max-texture-size"},
		{"assets.height_blur", "height-blur"},
		{"assets.procedural_terrain", "procedural-terrain"},
		{"audio.enabled", "audio"},
		{"audio.volume", "volume"},
		{"audio.tracks", "tracks"},
		{"devtools", "devtools"},
		{"stats", "stats"},
		{"verbose", "verbose"},
	}
	for _, b := range bindFlags {
		if err := viper.BindPFlag(b.key, flags.Lookup(b.flag)); err != nil {
			panic(fmt.Sprintf("failed to bind flag %s: %v", b.flag, err))
		}
	}
}

func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.AddConfigPath(".")
		viper.SetConfigType("yaml")
		viper.SetConfigName("config")
	}

	viper.SetEnvPrefix("HORIZON")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		if viper.GetBool("verbose") {
			fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
		}
	}
}
