package scene

import (
	"fmt"
	"log/slog"

	"github.com/Carmen-Shannon/oxy-horizon/common"
	"github.com/Carmen-Shannon/oxy-horizon/engine/assets"
	"github.com/Carmen-Shannon/oxy-horizon/engine/camera"
	"github.com/Carmen-Shannon/oxy-horizon/engine/light"
	"github.com/Carmen-Shannon/oxy-horizon/engine/postfx"
	"github.com/Carmen-Shannon/oxy-horizon/engine/renderer"
	"github.com/Carmen-Shannon/oxy-horizon/engine/renderer/bind_group_provider"
	"github.com/Carmen-Shannon/oxy-horizon/engine/terrain"
	"github.com/cogentcore/webgpu/wgpu"
)

// Renderables is the GPU half of the scene: what Frame uploads each tick and where finished
// texture loads go.
type Renderables interface {
	// Prepare returns the buffer writes for the lights and the sun. Unchanged values are skipped.
	Prepare(frame postfx.Frame) []bind_group_provider.BufferWrite

	// SetTexture uploads a decoded texture into the binding of its slot.
	SetTexture(slot assets.Slot, data common.TextureStagingData) error
}

// GPURenderables draws the sky, the terrain and the sun into the scene pass.
// It is the SceneRenderer behind the chain's render stage.
type GPURenderables struct {
	r       renderer.Renderer
	camera  camera.Camera
	terrain *terrain.Terrain
	sky     *sky
	sun     *sunRenderable
	logger  *slog.Logger

	rig         light.Rig
	lights      bind_group_provider.BindGroupProvider
	lightsDirty bool
}

var (
	_ Renderables          = &GPURenderables{}
	_ postfx.SceneRenderer = &GPURenderables{}
)

// NewRenderables creates every GPU resource of the scene: the terrain, the sky, the sun, and the
// camera and light bind groups shared by the terrain and the sun.
//
// Parameters:
//   - r: the renderer
//   - cam: the camera whose provider becomes group 0
//   - terr: the terrain, initialized here
//   - rig: the lights and fog
//   - sun: the sun disc
//   - logger: the logger, nil for slog.Default
//
// Returns:
//   - *GPURenderables: the renderables
//   - error: an error if a pipeline or resource cannot be created
func NewRenderables(r renderer.Renderer, cam camera.Camera, terr *terrain.Terrain, rig light.Rig, sun Sun, logger *slog.Logger) (*GPURenderables, error) {
	g := &GPURenderables{
		r:           r,
		camera:      cam,
		terrain:     terr,
		sky:         newSky(),
		sun:         newSunRenderable(sun),
		logger:      common.Coalesce(logger, slog.Default()),
		rig:         rig,
		lights:      bind_group_provider.NewBindGroupProvider("Scene Lights"),
		lightsDirty: true,
	}

	if err := terr.Init(r); err != nil {
		return nil, err
	}
	terrainPipeline := r.Pipeline(terrain.PipelineKey)
	if err := r.InitBindGroup(cam.BindGroupProvider(), terrainPipeline.BindGroupLayoutDescriptor(0)); err != nil {
		return nil, fmt.Errorf("camera bind group: %w", err)
	}
	if err := r.InitBindGroup(g.lights, terrainPipeline.BindGroupLayoutDescriptor(1)); err != nil {
		return nil, fmt.Errorf("light bind group: %w", err)
	}
	if err := g.sky.init(r); err != nil {
		return nil, err
	}
	if err := g.sun.init(r); err != nil {
		return nil, err
	}
	return g, nil
}

func (g *GPURenderables) Prepare(_ postfx.Frame) []bind_group_provider.BufferWrite {
	writes := g.sun.prepare()
	if g.lightsDirty {
		u := g.rig.Uniform()
		writes = append(writes, bind_group_provider.BufferWrite{Provider: g.lights, Binding: 0, Data: u.Marshal()})
		g.lightsDirty = false
	}
	return writes
}

func (g *GPURenderables) SetTexture(slot assets.Slot, data common.TextureStagingData) error {
	switch slot {
	case assets.SlotGrid:
		return g.terrain.SetTexture(g.r, terrain.SlotMap, data)
	case assets.SlotHeight:
		return g.terrain.SetTexture(g.r, terrain.SlotDisplacement, data)
	case assets.SlotMetalness:
		return g.terrain.SetTexture(g.r, terrain.SlotMetalness, data)
	case assets.SlotSkybox:
		return g.sky.setTexture(g.r, data)
	default:
		return fmt.Errorf("no binding for texture slot %s", slot)
	}
}

// RenderScene draws the sky, the terrain and the sun into target through the multisampled
// scene attachments.
//
// Parameters:
//   - frame: the frame being rendered
//   - target: the resolve target
//
// Returns:
//   - error: an error if the pass cannot be started or a draw fails
func (g *GPURenderables) RenderScene(_ postfx.Frame, target postfx.Target) error {
	if err := g.r.BeginPass(target, renderer.PassOptions{
		Label:      "scene",
		Clear:      true,
		ClearColor: wgpu.Color{A: 1},
		Scene:      true,
	}); err != nil {
		return err
	}
	defer g.r.EndPass()

	if err := g.sky.draw(g.r); err != nil {
		return fmt.Errorf("sky: %w", err)
	}
	cameraGroup := g.camera.BindGroupProvider()
	if err := g.terrain.Draw(g.r, cameraGroup, g.lights); err != nil {
		return fmt.Errorf("terrain: %w", err)
	}
	if err := g.sun.draw(g.r, cameraGroup); err != nil {
		return fmt.Errorf("sun: %w", err)
	}
	return nil
}

// Release frees the scene's GPU resources, the renderer itself stays alive.
func (g *GPURenderables) Release() {
	g.terrain.Release()
	g.sky.release()
	g.sun.release()
	g.lights.Release()
	g.camera.BindGroupProvider().Release()
}
