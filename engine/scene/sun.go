package scene

import (
	_ "embed"
	"fmt"
	"unsafe"

	"github.com/Carmen-Shannon/oxy-horizon/common"
	"github.com/Carmen-Shannon/oxy-horizon/engine/camera"
	"github.com/Carmen-Shannon/oxy-horizon/engine/renderer"
	"github.com/Carmen-Shannon/oxy-horizon/engine/renderer/bind_group_provider"
	"github.com/Carmen-Shannon/oxy-horizon/engine/renderer/pipeline"
	"github.com/Carmen-Shannon/oxy-horizon/engine/renderer/shader"
)

//go:embed assets/sun.wgsl
var sunSource string

const sunPipelineKey = "scene_sun"

// Sun is the striped disc on the horizon.
type Sun struct {
	Center      [3]float32
	Radius      float32
	TopColor    [3]float32
	BottomColor [3]float32
	// Stripes is the number of scan-line bands across the disc height.
	Stripes float32
	// Intensity scales the colour above 1 so the disc feeds the bloom.
	Intensity float32
}

// Uniform returns the GPU representation of the sun.
func (s Sun) Uniform() GPUSunUniform {
	return GPUSunUniform{
		Center:      s.Center,
		Radius:      s.Radius,
		TopColor:    s.TopColor,
		Stripes:     s.Stripes,
		BottomColor: s.BottomColor,
		Intensity:   s.Intensity,
	}
}

// GPUSunUniform matches the WGSL SunUniform struct in sun.wgsl.
// Size: 48 bytes.
type GPUSunUniform struct {
	Center      [3]float32 // offset  0
	Radius      float32    // offset 12
	TopColor    [3]float32 // offset 16
	Stripes     float32    // offset 28
	BottomColor [3]float32 // offset 32
	Intensity   float32    // offset 44
}

// Size returns the size of the GPUSunUniform struct in bytes.
func (g *GPUSunUniform) Size() int {
	return int(unsafe.Sizeof(*g))
}

// Marshal serializes the uniform for GPU upload. Every field is a float32 without padding,
// so the struct is copied as a single element.
func (g *GPUSunUniform) Marshal() []byte {
	out := make([]byte, g.Size())
	copy(out, common.SliceToBytes([]GPUSunUniform{*g}))
	return out
}

// sunCorners is the billboard quad, expanded by the vertex shader.
var (
	sunCorners = []float32{
		-1, -1,
		1, -1,
		1, 1,
		-1, 1,
	}
	sunIndices = []uint32{0, 1, 2, 0, 2, 3}
)

type sunRenderable struct {
	sun     Sun
	mesh    bind_group_provider.BindGroupProvider
	uniform bind_group_provider.BindGroupProvider
	dirty   bool
}

func newSunRenderable(sun Sun) *sunRenderable {
	return &sunRenderable{
		sun:     sun,
		mesh:    bind_group_provider.NewBindGroupProvider("Sun Mesh"),
		uniform: bind_group_provider.NewBindGroupProvider("Sun Uniform"),
		dirty:   true,
	}
}

func newSunPipeline(sampleCount uint32) (pipeline.Pipeline, error) {
	source := camera.GPUCameraUniformSource + sunSource
	vs, err := shader.NewShader(sunPipelineKey, shader.ShaderTypeVertex, source)
	if err != nil {
		return nil, err
	}
	fs, err := shader.NewShader(sunPipelineKey, shader.ShaderTypeFragment, source)
	if err != nil {
		return nil, err
	}
	return pipeline.NewPipeline(sunPipelineKey,
		pipeline.WithVertexShader(vs),
		pipeline.WithFragmentShader(fs),
		pipeline.WithTargetFormat(renderer.OffscreenFormat),
		pipeline.WithMultisample(sampleCount),
	), nil
}

func (s *sunRenderable) init(r renderer.Renderer) error {
	p, err := newSunPipeline(r.SampleCount())
	if err != nil {
		return fmt.Errorf("sun pipeline: %w", err)
	}
	if err := r.RegisterPipelines(p); err != nil {
		return err
	}
	if err := r.InitMeshBuffers(s.mesh, common.SliceToBytes(sunCorners), common.SliceToBytes(sunIndices), len(sunIndices)); err != nil {
		return fmt.Errorf("sun mesh: %w", err)
	}
	if err := r.InitBindGroup(s.uniform, r.Pipeline(sunPipelineKey).BindGroupLayoutDescriptor(1)); err != nil {
		return fmt.Errorf("sun bind group: %w", err)
	}
	return nil
}

func (s *sunRenderable) prepare() []bind_group_provider.BufferWrite {
	if !s.dirty {
		return nil
	}
	s.dirty = false
	u := s.sun.Uniform()
	return []bind_group_provider.BufferWrite{{Provider: s.uniform, Binding: 0, Data: u.Marshal()}}
}

func (s *sunRenderable) draw(r renderer.Renderer, cameraGroup bind_group_provider.BindGroupProvider) error {
	return r.DrawCall(sunPipelineKey, s.mesh, 1, []bind_group_provider.BindGroupProvider{cameraGroup, s.uniform})
}

func (s *sunRenderable) release() {
	s.mesh.Release()
	s.uniform.Release()
}
