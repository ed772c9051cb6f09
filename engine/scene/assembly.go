package scene

import (
	"fmt"
	"log/slog"
	"math"

	"github.com/Carmen-Shannon/oxy-horizon/common"
	"github.com/Carmen-Shannon/oxy-horizon/engine/camera"
	"github.com/Carmen-Shannon/oxy-horizon/engine/light"
	"github.com/Carmen-Shannon/oxy-horizon/engine/postfx"
	"github.com/Carmen-Shannon/oxy-horizon/engine/renderer"
	"github.com/Carmen-Shannon/oxy-horizon/engine/terrain"
)

// Yellow is the top of the sun gradient.
const Yellow = "#ffd319"

// Default camera placement: just above the terrain, looking down -Z into the fog.
var (
	CameraPosition = [3]float32{0, 0.05, 1}
	CameraTarget   = [3]float32{0, 0.05, 0}
)

const (
	cameraFov  = 75
	cameraNear = 0.01
	cameraFar  = 10

	spotIntensity = 25
	spotDistance  = 100
	spotAngle     = math.Pi * 0.1
	spotPenumbra  = 0.25
)

// DefaultRig returns the turquoise ambient light, one turquoise and one pink spot light crossing
// over the terrain, and black fog from 1 to 2.25 units.
//
// Returns:
//   - light.Rig: the scene lights
//   - error: never set for the built-in values
func DefaultRig() (light.Rig, error) {
	ambient := light.NewLight(light.LightTypeAmbient,
		light.WithHexColor(common.Turquoise),
		light.WithIntensity(20),
	)
	right := light.NewLight(light.LightTypeSpot,
		light.WithHexColor(common.Turquoise),
		light.WithIntensity(spotIntensity),
		light.WithDistance(spotDistance),
		light.WithAngle(spotAngle),
		light.WithPenumbra(spotPenumbra),
		light.WithPosition(0.5, 0.75, 2.2),
		light.WithTarget(-0.25, 0.2, 1),
	)
	left := light.NewLight(light.LightTypeSpot,
		light.WithHexColor(common.Pink),
		light.WithIntensity(spotIntensity),
		light.WithDistance(spotDistance),
		light.WithAngle(spotAngle),
		light.WithPenumbra(spotPenumbra),
		light.WithPosition(-0.5, 0.75, 2.2),
		light.WithTarget(0.25, 0.2, 1),
	)
	fog := light.Fog{Color: common.MustParseHexColor(common.Black), Near: 1, Far: 2.25}
	return light.NewRig(ambient, fog, right, left)
}

// DefaultSun returns the striped pink to yellow disc low on the horizon.
func DefaultSun() Sun {
	return Sun{
		Center:      [3]float32{0, 0.35, -3},
		Radius:      1,
		TopColor:    common.MustParseHexColor(Yellow),
		BottomColor: common.MustParseHexColor(common.Pink),
		Stripes:     14,
		Intensity:   1.5,
	}
}

// NewDefaultCamera creates the scene camera, with an orbit controller around the view target
// when devtools is set.
//
// Parameters:
//   - aspect: width / height of the framebuffer
//   - devtools: whether the dev orbit controls are attached
//
// Returns:
//   - camera.Camera: the camera
func NewDefaultCamera(aspect float32, devtools bool) camera.Camera {
	opts := []camera.CameraBuilderOption{
		camera.WithPosition(CameraPosition[0], CameraPosition[1], CameraPosition[2]),
		camera.WithTarget(CameraTarget[0], CameraTarget[1], CameraTarget[2]),
		camera.WithFov(cameraFov),
		camera.WithNear(cameraNear),
		camera.WithFar(cameraFar),
		camera.WithAspect(aspect),
	}
	if devtools {
		opts = append(opts, camera.WithController(camera.NewOrbitController(CameraPosition, CameraTarget)))
	}
	return camera.NewCamera(opts...)
}

// BuildConfig collects the inputs of the default scene assembly.
type BuildConfig struct {
	// Width and Height are the initial framebuffer size.
	Width, Height int
	// Ring configures the tile ring.
	Ring []terrain.RingBuilderOption
	// Material overrides the terrain material when non-nil.
	Material *terrain.Material
	// Stages is the post chain, DefaultStages when empty.
	Stages []postfx.StageDescriptor
	// DevTools attaches the orbit controls.
	DevTools bool
	// ContentScale and MaxPixelRatio cap the render resolution on dense displays.
	ContentScale  func() float32
	MaxPixelRatio float32
	// Assets delivers texture loads, may be nil.
	Assets AssetSource
	Logger *slog.Logger
}

// Build assembles the synthwave scene on a renderer: camera, lights, terrain, sky, sun and the
// post chain.
//
// Parameters:
//   - r: the renderer, which is also the presentation surface
//   - cfg: the assembly inputs
//
// Returns:
//   - *SceneContext: the scene, already sized to cfg.Width x cfg.Height
//   - error: an error if the ring or the stages are invalid or a GPU resource cannot be created
func Build(r renderer.Renderer, cfg BuildConfig) (*SceneContext, error) {
	logger := common.Coalesce(cfg.Logger, slog.Default())
	width, height := max(cfg.Width, 1), max(cfg.Height, 1)

	ring, err := terrain.NewRing(cfg.Ring...)
	if err != nil {
		return nil, err
	}
	terrainOpts := []terrain.TerrainBuilderOption{terrain.WithLogger(logger)}
	if cfg.Material != nil {
		terrainOpts = append(terrainOpts, terrain.WithMaterial(*cfg.Material))
	}
	terr := terrain.NewTerrain(ring, terrainOpts...)

	rig, err := DefaultRig()
	if err != nil {
		return nil, fmt.Errorf("scene lights: %w", err)
	}
	cam := NewDefaultCamera(float32(width)/float32(height), cfg.DevTools)

	renderables, err := NewRenderables(r, cam, terr, rig, DefaultSun(), logger)
	if err != nil {
		return nil, err
	}

	stages := cfg.Stages
	if len(stages) == 0 {
		stages = postfx.DefaultStages()
	}
	chain, err := postfx.NewChain(stages, postfx.NewGPUStageBuilder(r, renderables), r, width, height)
	if err != nil {
		renderables.Release()
		return nil, err
	}

	s, err := NewSceneContext(
		WithCamera(cam),
		WithSurface(r),
		WithTerrain(terr),
		WithChain(chain),
		WithRenderables(renderables),
		WithAssets(cfg.Assets),
		WithPixelRatioLimit(cfg.ContentScale, cfg.MaxPixelRatio),
		WithLogger(logger),
	)
	if err != nil {
		chain.Release()
		renderables.Release()
		return nil, err
	}
	s.HandleResize(width, height)

	logger.Info("scene assembled",
		"tiles", ring.TileCount(),
		"stages", len(stages),
		"width", width,
		"height", height,
		"devtools", cfg.DevTools,
	)
	return s, nil
}
