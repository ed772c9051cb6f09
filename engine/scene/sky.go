package scene

import (
	_ "embed"
	"fmt"

	"github.com/Carmen-Shannon/oxy-horizon/common"
	"github.com/Carmen-Shannon/oxy-horizon/engine/assets"
	"github.com/Carmen-Shannon/oxy-horizon/engine/renderer"
	"github.com/Carmen-Shannon/oxy-horizon/engine/renderer/bind_group_provider"
	"github.com/Carmen-Shannon/oxy-horizon/engine/renderer/pipeline"
	"github.com/Carmen-Shannon/oxy-horizon/engine/renderer/shader"
)

//go:embed assets/sky.wgsl
var skySource string

const skyPipelineKey = "scene_sky"

// sky draws the background texture behind the scene. It is black until skybox.webp loads.
type sky struct {
	texture  bind_group_provider.BindGroupProvider
	pipeline pipeline.Pipeline
}

func newSky() *sky {
	return &sky{texture: bind_group_provider.NewBindGroupProvider("Sky Texture")}
}

func newSkyPipeline(sampleCount uint32) (pipeline.Pipeline, error) {
	vs, err := shader.NewShader(skyPipelineKey, shader.ShaderTypeVertex, skySource)
	if err != nil {
		return nil, err
	}
	fs, err := shader.NewShader(skyPipelineKey, shader.ShaderTypeFragment, skySource)
	if err != nil {
		return nil, err
	}
	// The scene pass always carries a depth attachment, so the pipeline declares one but
	// neither tests nor writes it.
	return pipeline.NewPipeline(skyPipelineKey,
		pipeline.WithVertexShader(vs),
		pipeline.WithFragmentShader(fs),
		pipeline.WithTargetFormat(renderer.OffscreenFormat),
		pipeline.WithMultisample(sampleCount),
		pipeline.WithDepthTestEnabled(false),
		pipeline.WithDepthWriteEnabled(false),
	), nil
}

func (s *sky) init(r renderer.Renderer) error {
	p, err := newSkyPipeline(r.SampleCount())
	if err != nil {
		return fmt.Errorf("sky pipeline: %w", err)
	}
	if err := r.RegisterPipelines(p); err != nil {
		return err
	}
	s.pipeline = r.Pipeline(skyPipelineKey)

	if err := r.InitTextureView(s.texture, 0, assets.Fallback(assets.KindColor)); err != nil {
		return fmt.Errorf("sky fallback: %w", err)
	}
	if err := r.InitSampler(s.texture, 1, common.ClampSampler); err != nil {
		return fmt.Errorf("sky sampler: %w", err)
	}
	return r.InitBindGroup(s.texture, s.pipeline.BindGroupLayoutDescriptor(0))
}

func (s *sky) setTexture(r renderer.Renderer, data common.TextureStagingData) error {
	if err := r.InitTextureView(s.texture, 0, data); err != nil {
		return fmt.Errorf("sky texture: %w", err)
	}
	return r.InitBindGroup(s.texture, s.pipeline.BindGroupLayoutDescriptor(0))
}

func (s *sky) draw(r renderer.Renderer) error {
	return r.DrawFullscreen(skyPipelineKey, []bind_group_provider.BindGroupProvider{s.texture})
}

func (s *sky) release() {
	s.texture.Release()
}
