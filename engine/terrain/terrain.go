package terrain

import (
	_ "embed"
	"fmt"
	"log/slog"

	"github.com/Carmen-Shannon/oxy-horizon/common"
	"github.com/Carmen-Shannon/oxy-horizon/engine/camera"
	"github.com/Carmen-Shannon/oxy-horizon/engine/light"
	"github.com/Carmen-Shannon/oxy-horizon/engine/renderer"
	"github.com/Carmen-Shannon/oxy-horizon/engine/renderer/bind_group_provider"
	"github.com/Carmen-Shannon/oxy-horizon/engine/renderer/pipeline"
	"github.com/Carmen-Shannon/oxy-horizon/engine/renderer/shader"
	"github.com/cogentcore/webgpu/wgpu"
)

//go:embed assets/terrain.wgsl
var terrainSource string

// PipelineKey is the key the terrain pipeline is registered under.
const PipelineKey = "terrain"

// TextureSlot identifies one of the terrain's texture bindings.
type TextureSlot int

const (
	// SlotMap is the sRGB grid colour texture.
	SlotMap TextureSlot = iota
	// SlotDisplacement is the linear height map.
	SlotDisplacement
	// SlotMetalness is the linear metalness map, read from the blue channel.
	SlotMetalness
)

func (s TextureSlot) String() string {
	switch s {
	case SlotMap:
		return "map"
	case SlotDisplacement:
		return "displacementMap"
	case SlotMetalness:
		return "metalnessMap"
	default:
		return fmt.Sprintf("TextureSlot(%d)", int(s))
	}
}

// binding returns the group 2 binding of the slot.
func (s TextureSlot) binding() int {
	return int(s) + 3
}

// Fallback returns the single texel used until a texture has loaded: a dark grey grid colour,
// flat height and full metalness so the scalar metalness applies unchanged.
func (s TextureSlot) Fallback() common.TextureStagingData {
	switch s {
	case SlotDisplacement:
		return common.SolidTexture(0, 0, 0, 255, true)
	case SlotMetalness:
		return common.SolidTexture(255, 255, 255, 255, true)
	default:
		return common.SolidTexture(20, 20, 20, 255, false)
	}
}

const (
	materialBinding = 0
	tilesBinding    = 1
	samplerBinding  = 2
)

// Terrain draws the tile ring: one shared displaced plane instanced once per tile.
type Terrain struct {
	ring     *Ring
	geometry Geometry
	material Material
	logger   *slog.Logger

	pipeline pipeline.Pipeline
	mesh     bind_group_provider.BindGroupProvider
	surface  bind_group_provider.BindGroupProvider

	tiles         GPUTileUniform
	matrices      [][16]float32
	materialDirty bool
}

// NewTerrain creates the terrain around a ring. GPU resources are created by Init.
//
// Parameters:
//   - ring: the tile ring positioning each instance
//   - opts: functional options configuring the terrain
//
// Returns:
//   - *Terrain: the terrain
func NewTerrain(ring *Ring, opts ...TerrainBuilderOption) *Terrain {
	t := &Terrain{
		ring:          ring,
		geometry:      DefaultGeometry(),
		material:      DefaultMaterial(),
		logger:        slog.Default(),
		mesh:          bind_group_provider.NewBindGroupProvider("Terrain Mesh"),
		surface:       bind_group_provider.NewBindGroupProvider("Terrain Surface"),
		materialDirty: true,
	}
	for _, opt := range opts {
		opt(t)
	}
	t.matrices = t.tiles.Models[:ring.TileCount()]
	return t
}

// NewTerrainPipeline builds the terrain pipeline for a scene pass with the given sample count.
// The camera and light uniform structs are prepended to the terrain shader source.
//
// Parameters:
//   - sampleCount: the multisample count of the scene pass
//
// Returns:
//   - pipeline.Pipeline: the unregistered pipeline
//   - error: an error if the shader cannot be parsed
func NewTerrainPipeline(sampleCount uint32) (pipeline.Pipeline, error) {
	source := camera.GPUCameraUniformSource + light.GPULightUniformSource + terrainSource
	vs, err := shader.NewShader(PipelineKey, shader.ShaderTypeVertex, source)
	if err != nil {
		return nil, err
	}
	fs, err := shader.NewShader(PipelineKey, shader.ShaderTypeFragment, source)
	if err != nil {
		return nil, err
	}
	return pipeline.NewPipeline(PipelineKey,
		pipeline.WithVertexShader(vs),
		pipeline.WithFragmentShader(fs),
		pipeline.WithTargetFormat(renderer.OffscreenFormat),
		pipeline.WithMultisample(sampleCount),
		pipeline.WithCullMode(wgpu.CullModeNone),
	), nil
}

// Init registers the pipeline and uploads the mesh, fallback textures and sampler.
//
// Parameters:
//   - r: the renderer
//
// Returns:
//   - error: an error if any GPU resource cannot be created
func (t *Terrain) Init(r renderer.Renderer) error {
	p, err := NewTerrainPipeline(r.SampleCount())
	if err != nil {
		return fmt.Errorf("terrain pipeline: %w", err)
	}
	if err := r.RegisterPipelines(p); err != nil {
		return err
	}
	t.pipeline = r.Pipeline(PipelineKey)

	if err := r.InitMeshBuffers(t.mesh, t.geometry.VertexBytes(), t.geometry.IndexBytes(), t.geometry.IndexCount()); err != nil {
		return fmt.Errorf("terrain mesh: %w", err)
	}
	for _, slot := range []TextureSlot{SlotMap, SlotDisplacement, SlotMetalness} {
		if err := r.InitTextureView(t.surface, slot.binding(), slot.Fallback()); err != nil {
			return fmt.Errorf("terrain %s fallback: %w", slot, err)
		}
	}
	if err := r.InitSampler(t.surface, samplerBinding, common.SamplerStagingData{
		AddressModeU: wgpu.AddressModeRepeat,
		AddressModeV: wgpu.AddressModeRepeat,
		AddressModeW: wgpu.AddressModeRepeat,
		MagFilter:    wgpu.FilterModeLinear,
		MinFilter:    wgpu.FilterModeLinear,
	}); err != nil {
		return fmt.Errorf("terrain sampler: %w", err)
	}
	if err := r.InitBindGroup(t.surface, t.pipeline.BindGroupLayoutDescriptor(2)); err != nil {
		return fmt.Errorf("terrain bind group: %w", err)
	}

	t.logger.Debug("terrain initialized",
		"tiles", t.ring.TileCount(),
		"vertices", t.geometry.VertexCount(),
		"indices", t.geometry.IndexCount(),
	)
	return nil
}

// SetTexture replaces the texture in a slot and rebuilds the bind group.
//
// Parameters:
//   - r: the renderer
//   - slot: the texture slot
//   - data: the decoded texture
//
// Returns:
//   - error: an error if the upload fails, the previous texture stays bound in that case
func (t *Terrain) SetTexture(r renderer.Renderer, slot TextureSlot, data common.TextureStagingData) error {
	if err := r.InitTextureView(t.surface, slot.binding(), data); err != nil {
		return fmt.Errorf("terrain %s: %w", slot, err)
	}
	if err := r.InitBindGroup(t.surface, t.pipeline.BindGroupLayoutDescriptor(2)); err != nil {
		return fmt.Errorf("terrain %s: %w", slot, err)
	}
	t.logger.Debug("terrain texture set", "slot", slot.String(), "width", data.Width, "height", data.Height)
	return nil
}

// SetMaterial replaces the scalar material, uploaded with the next Update.
func (t *Terrain) SetMaterial(m Material) {
	t.material = m
	t.materialDirty = true
}

func (t *Terrain) Material() Material {
	return t.material
}

func (t *Terrain) Ring() *Ring {
	return t.ring
}

// Update advances the ring to elapsed and returns the buffer writes for this frame.
//
// Parameters:
//   - elapsed: seconds since the loop started
//
// Returns:
//   - []bind_group_provider.BufferWrite: the tile matrices, plus the material when it changed
func (t *Terrain) Update(elapsed float64) []bind_group_provider.BufferWrite {
	t.ring.Update(elapsed)
	t.ring.ModelMatrices(t.matrices)

	writes := []bind_group_provider.BufferWrite{{
		Provider: t.surface,
		Binding:  tilesBinding,
		Data:     t.tiles.Marshal(),
	}}
	if t.materialDirty {
		gpu := t.material.GPU()
		writes = append(writes, bind_group_provider.BufferWrite{
			Provider: t.surface,
			Binding:  materialBinding,
			Data:     gpu.Marshal(),
		})
		t.materialDirty = false
	}
	return writes
}

// Draw encodes the instanced terrain draw into the current scene pass.
//
// Parameters:
//   - r: the renderer, inside a scene pass
//   - cameraGroup: the provider holding the camera uniform
//   - lightGroup: the provider holding the light uniform
//
// Returns:
//   - error: an error if the draw cannot be encoded
func (t *Terrain) Draw(r renderer.Renderer, cameraGroup, lightGroup bind_group_provider.BindGroupProvider) error {
	return r.DrawCall(PipelineKey, t.mesh, uint32(t.ring.TileCount()), []bind_group_provider.BindGroupProvider{
		cameraGroup,
		lightGroup,
		t.surface,
	})
}

// Release frees the terrain's GPU resources.
func (t *Terrain) Release() {
	t.mesh.Release()
	t.surface.Release()
}
