package scene

import (
	"errors"
	"fmt"
	"log/slog"
	"math"

	"github.com/Carmen-Shannon/oxy-horizon/engine/assets"
	"github.com/Carmen-Shannon/oxy-horizon/engine/camera"
	"github.com/Carmen-Shannon/oxy-horizon/engine/postfx"
	"github.com/Carmen-Shannon/oxy-horizon/engine/renderer"
	"github.com/Carmen-Shannon/oxy-horizon/engine/renderer/bind_group_provider"
	"github.com/Carmen-Shannon/oxy-horizon/engine/terrain"
)

// Surface is the part of the renderer the frame loop and the resize handler drive.
// renderer.Renderer implements it.
type Surface interface {
	Resize(width, height int)
	WriteBuffers(writes []bind_group_provider.BufferWrite)
	BeginFrame() error
	SurfaceTarget() renderer.RenderTarget
	EndFrame()
	Present()
}

// PassChain renders a frame through the post-processing stages. *postfx.Chain implements it.
type PassChain interface {
	Render(frame postfx.Frame, screen postfx.Target) error
	Resize(width, height int) error
}

// AssetSource delivers finished texture loads. *assets.Loader implements it.
type AssetSource interface {
	Results() <-chan assets.TextureResult
}

// SceneContext is the scene state shared by the frame loop and the resize handler. Both run on
// the loop goroutine, so it holds no locks.
type SceneContext struct {
	camera      camera.Camera
	controls    camera.CameraController
	surface     Surface
	terrain     *terrain.Terrain
	chain       PassChain
	renderables Renderables
	assets      AssetSource
	logger      *slog.Logger

	contentScale  func() float32
	maxPixelRatio float32

	width, height             int
	renderWidth, renderHeight int

	frameIndex  uint64
	lastElapsed float64
}

// NewSceneContext assembles a scene context from its parts. Camera, surface, terrain and chain
// are required.
//
// Parameters:
//   - opts: functional options supplying the parts
//
// Returns:
//   - *SceneContext: the scene context
//   - error: an error naming the first missing part
func NewSceneContext(opts ...SceneContextOption) (*SceneContext, error) {
	s := &SceneContext{
		logger:        slog.Default(),
		maxPixelRatio: 2,
	}
	for _, opt := range opts {
		opt(s)
	}

	switch {
	case s.camera == nil:
		return nil, errors.New("scene context: camera is required")
	case s.surface == nil:
		return nil, errors.New("scene context: surface is required")
	case s.terrain == nil:
		return nil, errors.New("scene context: terrain is required")
	case s.chain == nil:
		return nil, errors.New("scene context: pass chain is required")
	}
	if s.controls == nil {
		s.controls = s.camera.Controller()
	}
	return s, nil
}

func (s *SceneContext) Camera() camera.Camera {
	return s.camera
}

// Controls returns the dev orbit controller, nil when dev tools are off.
func (s *SceneContext) Controls() camera.CameraController {
	return s.controls
}

func (s *SceneContext) Terrain() *terrain.Terrain {
	return s.terrain
}

func (s *SceneContext) Ring() *terrain.Ring {
	return s.terrain.Ring()
}

func (s *SceneContext) Chain() PassChain {
	return s.chain
}

func (s *SceneContext) Renderables() Renderables {
	return s.renderables
}

// Size returns the framebuffer size of the last resize.
func (s *SceneContext) Size() (int, int) {
	return s.width, s.height
}

// RenderSize returns the size the pass buffers render at, smaller than Size only when the
// window's content scale exceeds the pixel ratio limit.
func (s *SceneContext) RenderSize() (int, int) {
	return s.renderWidth, s.renderHeight
}

// FrameIndex returns the number of frames rendered so far.
func (s *SceneContext) FrameIndex() uint64 {
	return s.frameIndex
}

// Frame advances the scene to elapsed and renders one frame: controls damping, ring update,
// uniform uploads, then the pass chain into the surface.
//
// Parameters:
//   - elapsed: seconds since the loop started
//
// Returns:
//   - error: the render failure, already logged
func (s *SceneContext) Frame(elapsed float64) error {
	frame := postfx.Frame{
		Index:   s.frameIndex,
		Elapsed: elapsed,
		Delta:   max(elapsed-s.lastElapsed, 0),
	}
	s.lastElapsed = elapsed

	s.camera.Update()
	writes := s.terrain.Update(elapsed)
	cu := s.camera.Uniform()
	writes = append(writes, bind_group_provider.BufferWrite{
		Provider: s.camera.BindGroupProvider(),
		Binding:  0,
		Data:     cu.Marshal(),
	})
	if s.renderables != nil {
		writes = append(writes, s.renderables.Prepare(frame)...)
	}
	s.surface.WriteBuffers(writes)

	if err := s.surface.BeginFrame(); err != nil {
		s.logger.Error("frame skipped", "frame", frame.Index, "error", err)
		return fmt.Errorf("begin frame: %w", err)
	}
	err := s.chain.Render(frame, s.surface.SurfaceTarget())
	s.surface.EndFrame()
	s.surface.Present()
	s.frameIndex++
	if err != nil {
		s.logger.Error("frame render failed", "frame", frame.Index, "error", err)
		return err
	}
	return nil
}

// HandleResize reconfigures everything size dependent before returning: camera aspect and
// projection, the surface, and every pass buffer. Zero sizes from a minimised window are ignored.
//
// Parameters:
//   - width: the framebuffer width in physical pixels
//   - height: the framebuffer height in physical pixels
func (s *SceneContext) HandleResize(width, height int) {
	if width <= 0 || height <= 0 {
		return
	}
	s.width, s.height = width, height
	s.renderWidth, s.renderHeight = s.scaledSize(width, height)

	s.camera.SetAspect(float32(width) / float32(height))
	s.surface.Resize(width, height)
	if err := s.chain.Resize(s.renderWidth, s.renderHeight); err != nil {
		s.logger.Error("pass buffer resize failed", "width", s.renderWidth, "height", s.renderHeight, "error", err)
	}
	s.logger.Debug("resized", "width", width, "height", height, "render_width", s.renderWidth, "render_height", s.renderHeight)
}

// scaledSize shrinks the render size when the window's content scale exceeds the limit.
func (s *SceneContext) scaledSize(width, height int) (int, int) {
	if s.contentScale == nil || s.maxPixelRatio <= 0 {
		return width, height
	}
	scale := s.contentScale()
	if scale <= s.maxPixelRatio {
		return width, height
	}
	f := float64(s.maxPixelRatio / scale)
	return max(int(math.Round(float64(width)*f)), 1), max(int(math.Round(float64(height)*f)), 1)
}

// ApplyAssets uploads every texture load that has finished since the last call. It never
// blocks. Failed loads keep the fallback texel.
//
// Returns:
//   - int: the number of textures uploaded
func (s *SceneContext) ApplyAssets() int {
	if s.assets == nil || s.renderables == nil {
		return 0
	}
	applied := 0
	for {
		select {
		case res := <-s.assets.Results():
			if res.Err != nil {
				continue
			}
			if err := s.renderables.SetTexture(res.Slot, res.Data); err != nil {
				s.logger.Warn("texture upload failed, keeping fallback", "slot", res.Slot.String(), "error", err)
				continue
			}
			applied++
		default:
			return applied
		}
	}
}

type releaser interface {
	Release()
}

// Release frees the chain and the scene's GPU resources. The surface is left to its owner.
func (s *SceneContext) Release() {
	if r, ok := s.chain.(releaser); ok {
		r.Release()
	}
	if r, ok := s.renderables.(releaser); ok {
		r.Release()
	}
}
