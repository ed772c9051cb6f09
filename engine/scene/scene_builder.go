package scene

import (
	"log/slog"

	"github.com/Carmen-Shannon/oxy-horizon/engine/camera"
	"github.com/Carmen-Shannon/oxy-horizon/engine/terrain"
)

// SceneContextOption is a functional option used to configure a SceneContext during construction.
type SceneContextOption func(*SceneContext)

// WithCamera sets the scene camera.
//
// Parameters:
//   - c: the camera
//
// Returns:
//   - SceneContextOption: a function that sets the camera
func WithCamera(c camera.Camera) SceneContextOption {
	return func(s *SceneContext) {
		s.camera = c
	}
}

// WithControls sets the dev orbit controller input is routed to. It defaults to the camera's
// controller.
func WithControls(ctrl camera.CameraController) SceneContextOption {
	return func(s *SceneContext) {
		s.controls = ctrl
	}
}

// WithSurface sets the surface frames are presented to, normally the renderer.
//
// Parameters:
//   - surface: the surface
//
// Returns:
//   - SceneContextOption: a function that sets the surface
func WithSurface(surface Surface) SceneContextOption {
	return func(s *SceneContext) {
		s.surface = surface
	}
}

// WithTerrain sets the terrain and with it the tile ring.
func WithTerrain(t *terrain.Terrain) SceneContextOption {
	return func(s *SceneContext) {
		s.terrain = t
	}
}

// WithChain sets the post-processing chain.
func WithChain(chain PassChain) SceneContextOption {
	return func(s *SceneContext) {
		s.chain = chain
	}
}

// WithRenderables sets the GPU side of the scene.
func WithRenderables(r Renderables) SceneContextOption {
	return func(s *SceneContext) {
		s.renderables = r
	}
}

// WithAssets sets the source of finished texture loads.
func WithAssets(src AssetSource) SceneContextOption {
	return func(s *SceneContext) {
		s.assets = src
	}
}

// WithPixelRatioLimit caps the ratio between the framebuffer and the render size.
//
// Parameters:
//   - contentScale: reports the window's current content scale
//   - limit: the largest ratio rendered at full resolution, 0 disables the cap
//
// Returns:
//   - SceneContextOption: a function that sets the pixel ratio cap
func WithPixelRatioLimit(contentScale func() float32, limit float32) SceneContextOption {
	return func(s *SceneContext) {
		s.contentScale = contentScale
		s.maxPixelRatio = limit
	}
}

// WithLogger sets the scene logger.
func WithLogger(logger *slog.Logger) SceneContextOption {
	return func(s *SceneContext) {
		if logger != nil {
			s.logger = logger
		}
	}
}
