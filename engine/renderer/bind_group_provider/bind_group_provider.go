package bind_group_provider

import (
	"slices"

	"github.com/cogentcore/webgpu/wgpu"
)

// BufferWrite is one queued upload into the uniform buffer behind a provider's binding.
// Writes to a binding without a buffer are skipped by the renderer.
type BufferWrite struct {
	Provider BindGroupProvider
	Binding  int
	Offset   uint64
	Data     []byte
}

// BindGroupProvider holds the GPU resources behind one bind group, or behind one mesh.
// Components (camera, light rig, terrain material, sky, sun, post stages) own a provider; the
// Renderer fills it and the scene hands it to draw calls.
//
// Usage pattern:
//  1. Component creates a provider with a debug label
//  2. Scene calls Renderer.InitTextureView / InitSampler for every texture and sampler binding
//  3. Scene calls Renderer.InitBindGroup with the pipeline's merged layout descriptor
//  4. Each frame the component stages BufferWrites that Renderer.WriteBuffers uploads
//  5. Draw calls read BindGroup()
type BindGroupProvider interface {
	// Label returns the debug label every GPU object created for this provider is named after.
	Label() string

	BindGroup() *wgpu.BindGroup
	BindGroupLayout() *wgpu.BindGroupLayout

	// Buffer, TextureView and Sampler return the resource at a binding, nil when unset.
	Buffer(binding int) *wgpu.Buffer
	TextureView(binding int) *wgpu.TextureView
	Sampler(binding int) *wgpu.Sampler

	// Bindings returns the binding indexes holding any resource, ascending.
	Bindings() []int

	VertexBuffer() *wgpu.Buffer
	IndexBuffer() *wgpu.Buffer
	IndexCount() int

	// SetBindGroup replaces the bind group, releasing the previous one. A bind group is rebuilt
	// whenever a texture arrives after startup.
	SetBindGroup(bg *wgpu.BindGroup)
	SetBindGroupLayout(bgl *wgpu.BindGroupLayout)
	SetBuffer(binding int, buf *wgpu.Buffer)

	// SetTextureView stores an owned view, releasing the owned view it replaces.
	//
	// Parameters:
	//   - binding: the binding index
	//   - tv: the texture view, released together with the provider
	SetTextureView(binding int, tv *wgpu.TextureView)

	// BorrowTextureView stores a view the provider must not release, such as the view of an
	// offscreen target passed between post-processing stages.
	//
	// Parameters:
	//   - binding: the binding index
	//   - tv: the borrowed texture view
	BorrowTextureView(binding int, tv *wgpu.TextureView)

	SetSampler(binding int, s *wgpu.Sampler)

	// SetMesh stores the buffers created by Renderer.InitMeshBuffers.
	//
	// Parameters:
	//   - vertices: the vertex buffer
	//   - indices: the index buffer
	//   - indexCount: the number of indices drawn
	SetMesh(vertices, indices *wgpu.Buffer, indexCount int)

	// Release frees every owned GPU resource. Borrowed views are forgotten but left alive.
	// The index count survives so a released mesh still reports its size.
	Release()
}

// slot is everything bound at one binding index. A WGSL binding holds exactly one of them,
// the struct keeps the bookkeeping in one place.
type slot struct {
	buffer   *wgpu.Buffer
	view     *wgpu.TextureView
	borrowed bool
	sampler  *wgpu.Sampler
}

func (s *slot) release() {
	if s.view != nil && !s.borrowed {
		s.view.Release()
	}
	if s.sampler != nil {
		s.sampler.Release()
	}
	if s.buffer != nil {
		s.buffer.Release()
	}
	*s = slot{}
}

// bindGroupProvider is the unexported implementation of BindGroupProvider.
type bindGroupProvider struct {
	label string

	// GPU objects created by the Renderer, never by the owning component.
	bindGroup       *wgpu.BindGroup
	bindGroupLayout *wgpu.BindGroupLayout
	slots           map[int]*slot

	vertexBuffer *wgpu.Buffer
	indexBuffer  *wgpu.Buffer
	indexCount   int
}

var _ BindGroupProvider = &bindGroupProvider{}

// NewBindGroupProvider creates an empty provider.
//
// Parameters:
//   - label: the debug label
//   - options: a variadic list of options to configure the provider
//
// Returns:
//   - BindGroupProvider: a new instance of BindGroupProvider configured with the provided options
func NewBindGroupProvider(label string, options ...BindGroupProviderOption) BindGroupProvider {
	p := &bindGroupProvider{
		label: label,
		slots: make(map[int]*slot),
	}
	for _, opt := range options {
		opt(p)
	}
	return p
}

func (p *bindGroupProvider) at(binding int) *slot {
	s, ok := p.slots[binding]
	if !ok {
		s = &slot{}
		p.slots[binding] = s
	}
	return s
}

func (p *bindGroupProvider) Label() string {
	return p.label
}

func (p *bindGroupProvider) BindGroup() *wgpu.BindGroup {
	return p.bindGroup
}

func (p *bindGroupProvider) BindGroupLayout() *wgpu.BindGroupLayout {
	return p.bindGroupLayout
}

func (p *bindGroupProvider) Buffer(binding int) *wgpu.Buffer {
	if s := p.slots[binding]; s != nil {
		return s.buffer
	}
	return nil
}

func (p *bindGroupProvider) TextureView(binding int) *wgpu.TextureView {
	if s := p.slots[binding]; s != nil {
		return s.view
	}
	return nil
}

func (p *bindGroupProvider) Sampler(binding int) *wgpu.Sampler {
	if s := p.slots[binding]; s != nil {
		return s.sampler
	}
	return nil
}

func (p *bindGroupProvider) Bindings() []int {
	out := make([]int, 0, len(p.slots))
	for b, s := range p.slots {
		if s.buffer != nil || s.view != nil || s.sampler != nil {
			out = append(out, b)
		}
	}
	slices.Sort(out)
	return out
}

func (p *bindGroupProvider) VertexBuffer() *wgpu.Buffer {
	return p.vertexBuffer
}

func (p *bindGroupProvider) IndexBuffer() *wgpu.Buffer {
	return p.indexBuffer
}

func (p *bindGroupProvider) IndexCount() int {
	return p.indexCount
}

func (p *bindGroupProvider) SetBindGroup(bg *wgpu.BindGroup) {
	if p.bindGroup != nil && p.bindGroup != bg {
		p.bindGroup.Release()
	}
	p.bindGroup = bg
}

func (p *bindGroupProvider) SetBindGroupLayout(bgl *wgpu.BindGroupLayout) {
	p.bindGroupLayout = bgl
}

func (p *bindGroupProvider) SetBuffer(binding int, buf *wgpu.Buffer) {
	p.at(binding).buffer = buf
}

func (p *bindGroupProvider) SetTextureView(binding int, tv *wgpu.TextureView) {
	s := p.at(binding)
	if s.view != nil && s.view != tv && !s.borrowed {
		s.view.Release()
	}
	s.view = tv
	s.borrowed = false
}

func (p *bindGroupProvider) BorrowTextureView(binding int, tv *wgpu.TextureView) {
	p.SetTextureView(binding, tv)
	p.slots[binding].borrowed = true
}

func (p *bindGroupProvider) SetSampler(binding int, smp *wgpu.Sampler) {
	p.at(binding).sampler = smp
}

func (p *bindGroupProvider) SetMesh(vertices, indices *wgpu.Buffer, indexCount int) {
	p.vertexBuffer = vertices
	p.indexBuffer = indices
	p.indexCount = indexCount
}

func (p *bindGroupProvider) Release() {
	for b, s := range p.slots {
		s.release()
		delete(p.slots, b)
	}
	if p.bindGroup != nil {
		p.bindGroup.Release()
		p.bindGroup = nil
	}
	if p.bindGroupLayout != nil {
		p.bindGroupLayout.Release()
		p.bindGroupLayout = nil
	}
	if p.vertexBuffer != nil {
		p.vertexBuffer.Release()
		p.vertexBuffer = nil
	}
	if p.indexBuffer != nil {
		p.indexBuffer.Release()
		p.indexBuffer = nil
	}
}
