package renderer

import (
	"fmt"
	"log/slog"
	"sync"

	"github.com/Carmen-Shannon/oxy-horizon/common"
	"github.com/Carmen-Shannon/oxy-horizon/engine/renderer/bind_group_provider"
	"github.com/Carmen-Shannon/oxy-horizon/engine/renderer/pipeline"
	"github.com/Carmen-Shannon/oxy-horizon/engine/window"
	"github.com/cogentcore/webgpu/wgpu"
)

// renderer is the implementation of the Renderer interface.
type renderer struct {
	mu *sync.Mutex

	pipelineCache map[string]pipeline.Pipeline

	backendType RendererBackendType
	backend     RendererBackend
	logger      *slog.Logger

	// Pre-creation config collected from builder options
	forceFallbackAdapter bool
	presentMode          PresentMode
	msaa                 MSAASampleCount
	clearColor           wgpu.Color
}

// Renderer is the high-level GPU API used by the scene and the post-processing chain.
//
// A frame is recorded as BeginFrame, then any number of BeginPass / DrawCall / DrawFullscreen /
// EndPass sequences targeting offscreen targets or the SurfaceTarget, then EndFrame and Present.
// All passes of a frame share one command encoder and are submitted together.
type Renderer interface {
	// Pipeline retrieves the registered Pipeline associated with the given key, or nil.
	//
	// Parameters:
	//   - key: the unique identifier for the Pipeline to retrieve
	//
	// Returns:
	//   - pipeline.Pipeline: the Pipeline associated with the key, or nil if not found
	Pipeline(key string) pipeline.Pipeline

	// RegisterPipelines creates the GPU pipeline objects for one or more pipelines and caches them
	// by PipelineKey. Pipelines whose keys are already registered are skipped.
	//
	// Parameters:
	//   - pipelines: the Pipelines to register
	//
	// Returns:
	//   - error: an error if pipeline creation fails
	RegisterPipelines(pipelines ...pipeline.Pipeline) error

	// Resize reconfigures the swapchain for a new framebuffer size in physical pixels.
	//
	// Parameters:
	//   - width: the new width of the surface in pixels
	//   - height: the new height of the surface in pixels
	Resize(width, height int)

	// SurfaceSize returns the configured swapchain size.
	SurfaceSize() (int, int)

	// SurfaceFormat returns the swapchain colour format.
	SurfaceFormat() wgpu.TextureFormat

	// SampleCount returns the sample count of the scene pass attachments.
	SampleCount() uint32

	// ClearColor returns the default clear colour of the scene pass.
	ClearColor() wgpu.Color

	// NewTarget creates an offscreen colour target in OffscreenFormat that can be rendered
	// into and sampled.
	//
	// Parameters:
	//   - label: the debug label of the texture
	//   - width: target width in pixels, clamped to at least 1
	//   - height: target height in pixels, clamped to at least 1
	//
	// Returns:
	//   - RenderTarget: the new target
	//   - error: an error if texture creation fails
	NewTarget(label string, width, height int) (RenderTarget, error)

	// ResizeTarget recreates the texture behind a target created by NewTarget. Views obtained
	// earlier from the target are invalid afterwards.
	//
	// Parameters:
	//   - t: the target to resize
	//   - width: the new width in pixels
	//   - height: the new height in pixels
	//
	// Returns:
	//   - error: an error if t was not created by this renderer or texture creation fails
	ResizeTarget(t RenderTarget, width, height int) error

	// InitMeshBuffers creates GPU vertex and index buffers from raw byte data and stores them
	// on the given BindGroupProvider for later use in draw calls.
	//
	// Parameters:
	//   - provider: the BindGroupProvider to store the created buffers on
	//   - vertexData: the raw vertex data bytes to upload to the GPU
	//   - indexData: the raw index data bytes to upload to the GPU
	//   - indexCount: the number of indices, used for draw calls
	//
	// Returns:
	//   - error: an error if buffer creation fails
	InitMeshBuffers(provider bind_group_provider.BindGroupProvider, vertexData, indexData []byte, indexCount int) error

	// InitBindGroup creates missing GPU buffers and (re)creates the bind group described by the
	// layout descriptor. Textures and samplers must be initialized via InitTextureView and
	// InitSampler first. Calling it again after a texture changed rebuilds the bind group.
	//
	// Parameters:
	//   - provider: the BindGroupProvider to store the created bind group on
	//   - descriptor: the layout descriptor, normally Pipeline.BindGroupLayoutDescriptor(group)
	//
	// Returns:
	//   - error: an error if bind group creation fails
	InitBindGroup(provider bind_group_provider.BindGroupProvider, descriptor wgpu.BindGroupLayoutDescriptor) error

	// InitTextureView uploads staging data into a new GPU texture and stores its view on the
	// provider at the given binding, replacing any previous view.
	//
	// Parameters:
	//   - provider: the BindGroupProvider to store the created texture view on
	//   - bindingKey: the binding index for this texture
	//   - stagingData: the pixel data and dimensions for the texture
	//
	// Returns:
	//   - error: an error if texture creation fails
	InitTextureView(provider bind_group_provider.BindGroupProvider, bindingKey int, stagingData common.TextureStagingData) error

	// InitSampler creates a GPU sampler and stores it on the provider at the given binding.
	//
	// Parameters:
	//   - provider: the BindGroupProvider to store the created sampler on
	//   - bindingKey: the binding index for this sampler
	//   - samplerStagingData: the sampler configuration
	//
	// Returns:
	//   - error: an error if sampler creation fails
	InitSampler(provider bind_group_provider.BindGroupProvider, bindingKey int, samplerStagingData common.SamplerStagingData) error

	// WriteBuffers writes all staged buffer writes to the GPU queue.
	// Writes land before the next submitted frame, so a buffer written twice in one frame holds
	// the last value for every pass of that frame.
	//
	// Parameters:
	//   - writes: a slice of BufferWrite structs describing the data to write
	WriteBuffers(writes []bind_group_provider.BufferWrite)

	// BeginFrame acquires the swapchain texture and creates the frame's command encoder.
	//
	// Returns:
	//   - error: an error if the swapchain texture could not be acquired
	BeginFrame() error

	// SurfaceTarget returns the swapchain view acquired by BeginFrame, or nil outside a frame.
	SurfaceTarget() RenderTarget

	// BeginPass starts a render pass drawing into target.
	//
	// Parameters:
	//   - target: the colour target; with PassOptions.Scene it is the resolve target
	//   - opts: load and attachment options
	//
	// Returns:
	//   - error: an error if no frame is active or the scene attachments cannot be created
	BeginPass(target RenderTarget, opts PassOptions) error

	// DrawCall encodes a single indexed, instanced draw within the current pass.
	//
	// Parameters:
	//   - pipelineKey: the key of a registered Pipeline
	//   - meshProvider: the BindGroupProvider holding vertex and index buffers
	//   - instanceCount: the number of instances to draw
	//   - bindGroups: providers whose bind groups are set at group 0, 1, ...
	//
	// Returns:
	//   - error: an error if the pipeline is not found or no pass is active
	DrawCall(pipelineKey string, meshProvider bind_group_provider.BindGroupProvider, instanceCount uint32, bindGroups []bind_group_provider.BindGroupProvider) error

	// DrawFullscreen draws one vertex-less fullscreen triangle within the current pass.
	//
	// Parameters:
	//   - pipelineKey: the key of a registered Pipeline
	//   - bindGroups: providers whose bind groups are set at group 0, 1, ...
	//
	// Returns:
	//   - error: an error if the pipeline is not found or no pass is active
	DrawFullscreen(pipelineKey string, bindGroups []bind_group_provider.BindGroupProvider) error

	// EndPass ends the current render pass.
	EndPass()

	// EndFrame finishes the command encoder and submits it to the GPU queue.
	EndFrame()

	// Present presents the surface to the display and releases the swapchain texture.
	Present()

	// Release destroys the device and surface.
	Release()
}

var _ Renderer = &renderer{}

// NewRenderer creates the GPU device for the window's surface and configures the swapchain.
// This is the startup capability check: a host without a usable adapter gets an error wrapping
// ErrUnsupportedAdapter and no renderer.
//
// Parameters:
//   - backendType: the type of rendering backend to use
//   - win: the window whose surface the renderer presents to
//   - options: variadic list of RendererBuilderOption functions to configure the Renderer
//
// Returns:
//   - Renderer: the configured renderer
//   - error: an error wrapping ErrUnsupportedAdapter, or a pipeline creation error
func NewRenderer(backendType RendererBackendType, win window.Window, options ...RendererBuilderOption) (Renderer, error) {
	r := &renderer{
		mu:            &sync.Mutex{},
		pipelineCache: make(map[string]pipeline.Pipeline),
		backendType:   backendType,
		presentMode:   PresentModeVSync,
		msaa:          MSAA4x,
		logger:        slog.Default(),
	}

	// Apply options first so config flags (e.g. forceFallbackAdapter) are
	// available before the backend requests a GPU adapter.
	for _, opt := range options {
		opt(r)
	}

	switch backendType {
	case BackendTypeWGPU:
		fallthrough
	default:
		backend, err := newWGPURendererBackend(win.SurfaceDescriptor(), r.forceFallbackAdapter, r.msaa, r.logger)
		if err != nil {
			return nil, err
		}
		r.backend = backend
	}

	r.backend.SetPresentMode(r.presentMode)
	r.backend.ConfigureSurface(win.Width(), win.Height())
	return r, nil
}

func (r *renderer) Resize(width, height int) {
	r.backend.ConfigureSurface(width, height)
}

func (r *renderer) SurfaceSize() (int, int) {
	return r.backend.SurfaceSize()
}

func (r *renderer) SurfaceFormat() wgpu.TextureFormat {
	return r.backend.SurfaceFormat()
}

func (r *renderer) SampleCount() uint32 {
	return uint32(r.msaa)
}

func (r *renderer) ClearColor() wgpu.Color {
	return r.clearColor
}

func (r *renderer) Pipeline(key string) pipeline.Pipeline {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.pipelineCache[key]
}

func (r *renderer) RegisterPipelines(pipelines ...pipeline.Pipeline) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, p := range pipelines {
		key := p.PipelineKey()
		if _, exists := r.pipelineCache[key]; exists {
			continue
		}
		if err := r.backend.RegisterRenderPipeline(p); err != nil {
			return fmt.Errorf("register pipeline %q: %w", key, err)
		}
		r.pipelineCache[key] = p
		r.logger.Debug("pipeline registered", "key", key, "samples", p.SampleCount())
	}
	return nil
}

func (r *renderer) NewTarget(label string, width, height int) (RenderTarget, error) {
	t := &offscreenTarget{label: label}
	if err := r.backend.AllocateTarget(t, width, height); err != nil {
		return nil, err
	}
	return t, nil
}

func (r *renderer) ResizeTarget(t RenderTarget, width, height int) error {
	ot, ok := t.(*offscreenTarget)
	if !ok {
		return fmt.Errorf("resize target: %T is not an offscreen target", t)
	}
	if ot.width == width && ot.height == height {
		return nil
	}
	ot.release()
	return r.backend.AllocateTarget(ot, width, height)
}

func (r *renderer) InitMeshBuffers(provider bind_group_provider.BindGroupProvider, vertexData, indexData []byte, indexCount int) error {
	return r.backend.InitMeshBuffers(provider, vertexData, indexData, indexCount)
}

func (r *renderer) InitBindGroup(provider bind_group_provider.BindGroupProvider, descriptor wgpu.BindGroupLayoutDescriptor) error {
	return r.backend.InitBindGroup(provider, descriptor)
}

func (r *renderer) InitTextureView(provider bind_group_provider.BindGroupProvider, bindingKey int, stagingData common.TextureStagingData) error {
	return r.backend.InitTextureView(provider, bindingKey, stagingData)
}

func (r *renderer) InitSampler(provider bind_group_provider.BindGroupProvider, bindingKey int, samplerStagingData common.SamplerStagingData) error {
	return r.backend.InitSampler(provider, bindingKey, samplerStagingData)
}

func (r *renderer) WriteBuffers(writes []bind_group_provider.BufferWrite) {
	r.backend.WriteBuffers(writes)
}

func (r *renderer) BeginFrame() error {
	return r.backend.BeginFrame()
}

func (r *renderer) SurfaceTarget() RenderTarget {
	return r.backend.SurfaceTarget()
}

func (r *renderer) BeginPass(target RenderTarget, opts PassOptions) error {
	return r.backend.BeginPass(target, opts)
}

func (r *renderer) DrawCall(pipelineKey string, meshProvider bind_group_provider.BindGroupProvider, instanceCount uint32, bindGroups []bind_group_provider.BindGroupProvider) error {
	p := r.Pipeline(pipelineKey)
	if p == nil {
		return fmt.Errorf("render pipeline %q not found in cache", pipelineKey)
	}
	return r.backend.DrawCall(p, meshProvider, instanceCount, bindGroups)
}

func (r *renderer) DrawFullscreen(pipelineKey string, bindGroups []bind_group_provider.BindGroupProvider) error {
	p := r.Pipeline(pipelineKey)
	if p == nil {
		return fmt.Errorf("render pipeline %q not found in cache", pipelineKey)
	}
	return r.backend.DrawFullscreen(p, bindGroups)
}

func (r *renderer) EndPass() {
	r.backend.EndPass()
}

func (r *renderer) EndFrame() {
	r.backend.EndFrame()
}

func (r *renderer) Present() {
	r.backend.Present()
}

func (r *renderer) Release() {
	r.backend.Release()
}
