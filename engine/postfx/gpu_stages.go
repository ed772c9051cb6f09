package postfx

import (
	_ "embed"
	"errors"
	"fmt"

	"github.com/Carmen-Shannon/oxy-horizon/common"
	"github.com/Carmen-Shannon/oxy-horizon/engine/renderer"
	"github.com/Carmen-Shannon/oxy-horizon/engine/renderer/bind_group_provider"
	"github.com/Carmen-Shannon/oxy-horizon/engine/renderer/pipeline"
	"github.com/Carmen-Shannon/oxy-horizon/engine/renderer/shader"
	"github.com/cogentcore/webgpu/wgpu"
)

var (
	//go:embed assets/fullscreen.wgsl
	fullscreenSource string
	//go:embed assets/copy.wgsl
	copySource string
	//go:embed assets/rgb_shift.wgsl
	rgbShiftSource string
	//go:embed assets/gamma.wgsl
	gammaSource string
	//go:embed assets/bloom_bright.wgsl
	bloomBrightSource string
	//go:embed assets/bloom_blur.wgsl
	bloomBlurSource string
	//go:embed assets/bloom_composite.wgsl
	bloomCompositeSource string
	//go:embed assets/film_grain.wgsl
	filmGrainSource string
)

// bloomSmoothWidth is the luminance band over which the bright pass fades in.
const bloomSmoothWidth = 0.01

// SceneRenderer draws the 3D scene. The render stage delegates to it.
type SceneRenderer interface {
	// RenderScene draws one frame of the scene into target inside a multisampled scene pass.
	RenderScene(frame Frame, target Target) error
}

// NewGPUStageBuilder returns a StageBuilder creating the WebGPU implementation of each stage.
//
// Parameters:
//   - r: the renderer the stages record into
//   - scene: draws the scene for the render stage
//
// Returns:
//   - StageBuilder: the builder to pass to NewChain
func NewGPUStageBuilder(r renderer.Renderer, scene SceneRenderer) StageBuilder {
	return func(desc StageDescriptor) (Stage, error) {
		switch desc.Kind {
		case StageRender:
			return &renderStage{scene: scene}, nil
		case StageRGBShift:
			return newRGBShiftStage(r, desc.Params)
		case StageGammaCorrection:
			pass, err := newFullscreenPass(r, "postfx_gamma", gammaSource, renderer.OffscreenFormat)
			if err != nil {
				return nil, err
			}
			return &simpleStage{name: "gamma", pass: pass}, nil
		case StageBloom:
			return newBloomStage(r, desc.Params)
		case StageFilmGrain:
			return newFilmGrainStage(r, desc.Params)
		case StageOutput:
			pass, err := newFullscreenPass(r, "postfx_output", copySource, wgpu.TextureFormatUndefined)
			if err != nil {
				return nil, err
			}
			return &simpleStage{name: "output", pass: pass}, nil
		default:
			return nil, fmt.Errorf("%w: no GPU stage for %s", ErrInvalidStages, desc.Kind)
		}
	}
}

// fullscreenPass draws one fullscreen triangle sampling an input target. Group 0 holds the
// input texture and sampler, group 1 the optional parameter uniform.
type fullscreenPass struct {
	r        renderer.Renderer
	key      string
	pipeline pipeline.Pipeline
	params   bind_group_provider.BindGroupProvider

	// inputs caches one group 0 per input view; views change when targets are resized
	inputs map[*wgpu.TextureView]bind_group_provider.BindGroupProvider
}

func newFullscreenPass(r renderer.Renderer, key, fragmentSource string, format wgpu.TextureFormat) (*fullscreenPass, error) {
	source := fullscreenSource + fragmentSource
	vs, err := shader.NewShader(key, shader.ShaderTypeVertex, source)
	if err != nil {
		return nil, err
	}
	fs, err := shader.NewShader(key, shader.ShaderTypeFragment, source)
	if err != nil {
		return nil, err
	}
	err = r.RegisterPipelines(pipeline.NewPipeline(key,
		pipeline.WithVertexShader(vs),
		pipeline.WithFragmentShader(fs),
		pipeline.WithTargetFormat(format),
		pipeline.WithDepthAttachment(false),
		pipeline.WithDepthTestEnabled(false),
		pipeline.WithDepthWriteEnabled(false),
	))
	if err != nil {
		return nil, err
	}

	p := &fullscreenPass{
		r:        r,
		key:      key,
		pipeline: r.Pipeline(key),
		inputs:   make(map[*wgpu.TextureView]bind_group_provider.BindGroupProvider),
	}
	if desc := p.pipeline.BindGroupLayoutDescriptor(1); len(desc.Entries) > 0 {
		p.params = bind_group_provider.NewBindGroupProvider(key + " params")
		if err := r.InitBindGroup(p.params, desc); err != nil {
			return nil, err
		}
	}
	return p, nil
}

func (p *fullscreenPass) writeParams(values ...float32) {
	if p.params == nil {
		return
	}
	p.r.WriteBuffers([]bind_group_provider.BufferWrite{{
		Provider: p.params,
		Binding:  0,
		Data:     common.SliceToBytes(values),
	}})
}

// textureGroup builds a texture + clamp sampler group for a view at the given group index.
func (p *fullscreenPass) textureGroup(label string, view *wgpu.TextureView, group int) (bind_group_provider.BindGroupProvider, error) {
	g := bind_group_provider.NewBindGroupProvider(label, bind_group_provider.WithBorrowedTextureView(0, view))
	if err := p.r.InitSampler(g, 1, common.ClampSampler); err != nil {
		g.Release()
		return nil, err
	}
	if err := p.r.InitBindGroup(g, p.pipeline.BindGroupLayoutDescriptor(group)); err != nil {
		g.Release()
		return nil, err
	}
	return g, nil
}

func (p *fullscreenPass) inputGroup(input Target) (bind_group_provider.BindGroupProvider, error) {
	view := input.View()
	if g, ok := p.inputs[view]; ok {
		return g, nil
	}
	g, err := p.textureGroup(p.key+" input", view, 0)
	if err != nil {
		return nil, err
	}
	p.inputs[view] = g
	return g, nil
}

func (p *fullscreenPass) draw(input, output Target, extra ...bind_group_provider.BindGroupProvider) error {
	if input == nil {
		return fmt.Errorf("%s: no input target", p.key)
	}
	in, err := p.inputGroup(input)
	if err != nil {
		return err
	}
	groups := []bind_group_provider.BindGroupProvider{in}
	if p.params != nil {
		groups = append(groups, p.params)
	}
	groups = append(groups, extra...)

	if err := p.r.BeginPass(output, renderer.PassOptions{Label: p.key, Clear: true}); err != nil {
		return err
	}
	err = p.r.DrawFullscreen(p.key, groups)
	p.r.EndPass()
	return err
}

// reset drops the cached input groups after the targets were reallocated.
func (p *fullscreenPass) reset() {
	for view, g := range p.inputs {
		g.Release()
		delete(p.inputs, view)
	}
}

func (p *fullscreenPass) release() {
	p.reset()
	if p.params != nil {
		p.params.Release()
	}
}

// renderStage is stage 0: the scene drawn into the first buffer.
type renderStage struct {
	scene SceneRenderer
}

func (s *renderStage) Name() string {
	return "render"
}

func (s *renderStage) Resize(int, int) error {
	return nil
}

func (s *renderStage) Render(frame Frame, _, output Target) error {
	return s.scene.RenderScene(frame, output)
}

// simpleStage is a parameterless fullscreen pass: gamma correction and the output copy.
type simpleStage struct {
	name string
	pass *fullscreenPass
}

func (s *simpleStage) Name() string {
	return s.name
}

func (s *simpleStage) Resize(int, int) error {
	s.pass.reset()
	return nil
}

func (s *simpleStage) Render(_ Frame, input, output Target) error {
	return s.pass.draw(input, output)
}

func (s *simpleStage) Release() {
	s.pass.release()
}

type rgbShiftStage struct {
	simpleStage
}

func newRGBShiftStage(r renderer.Renderer, params StageParams) (*rgbShiftStage, error) {
	pass, err := newFullscreenPass(r, "postfx_rgb_shift", rgbShiftSource, renderer.OffscreenFormat)
	if err != nil {
		return nil, err
	}
	pass.writeParams(params.Amount, params.Angle)
	return &rgbShiftStage{simpleStage{name: "rgb_shift", pass: pass}}, nil
}

type filmGrainStage struct {
	simpleStage
	intensity float32
	grayscale float32
}

func newFilmGrainStage(r renderer.Renderer, params StageParams) (*filmGrainStage, error) {
	pass, err := newFullscreenPass(r, "postfx_film_grain", filmGrainSource, renderer.OffscreenFormat)
	if err != nil {
		return nil, err
	}
	s := &filmGrainStage{
		simpleStage: simpleStage{name: "film_grain", pass: pass},
		intensity:   params.Intensity,
	}
	if params.Grayscale {
		s.grayscale = 1
	}
	return s, nil
}

func (s *filmGrainStage) Render(frame Frame, input, output Target) error {
	s.pass.writeParams(float32(frame.Elapsed), s.intensity, s.grayscale)
	return s.pass.draw(input, output)
}

// bloomStage extracts the bright areas into a half-resolution buffer, blurs them separably
// and adds them back onto the input.
type bloomStage struct {
	r         renderer.Renderer
	bright    *fullscreenPass
	blurH     *fullscreenPass
	blurV     *fullscreenPass
	composite *fullscreenPass

	half       [2]Target
	bloomGroup bind_group_provider.BindGroupProvider
}

func newBloomStage(r renderer.Renderer, params StageParams) (*bloomStage, error) {
	s := &bloomStage{r: r}
	var err error
	if s.bright, err = newFullscreenPass(r, "postfx_bloom_bright", bloomBrightSource, renderer.OffscreenFormat); err != nil {
		return nil, err
	}
	// Both blur directions share the pipeline but need their own parameter buffers.
	if s.blurH, err = newFullscreenPass(r, "postfx_bloom_blur", bloomBlurSource, renderer.OffscreenFormat); err != nil {
		return nil, err
	}
	if s.blurV, err = newFullscreenPass(r, "postfx_bloom_blur", bloomBlurSource, renderer.OffscreenFormat); err != nil {
		return nil, err
	}
	if s.composite, err = newFullscreenPass(r, "postfx_bloom_composite", bloomCompositeSource, renderer.OffscreenFormat); err != nil {
		return nil, err
	}

	s.bright.writeParams(params.Threshold, bloomSmoothWidth)
	s.blurH.writeParams(1, 0, params.Radius, 0)
	s.blurV.writeParams(0, 1, params.Radius, 0)
	s.composite.writeParams(params.Strength)

	for i, label := range []string{"bloom half a", "bloom half b"} {
		if s.half[i], err = r.NewTarget(label, 1, 1); err != nil {
			return nil, err
		}
	}
	return s, nil
}

func (s *bloomStage) Name() string {
	return "bloom"
}

func (s *bloomStage) Resize(width, height int) error {
	w, h := max(width/2, 1), max(height/2, 1)
	for _, t := range s.half {
		if err := s.r.ResizeTarget(t, w, h); err != nil {
			return err
		}
	}
	for _, p := range []*fullscreenPass{s.bright, s.blurH, s.blurV, s.composite} {
		p.reset()
	}

	if s.bloomGroup != nil {
		s.bloomGroup.Release()
		s.bloomGroup = nil
	}
	g, err := s.composite.textureGroup("postfx_bloom_composite bloom", s.half[0].View(), 2)
	if err != nil {
		return err
	}
	s.bloomGroup = g
	return nil
}

func (s *bloomStage) Render(_ Frame, input, output Target) error {
	if s.bloomGroup == nil {
		return errors.New("bloom: not sized")
	}
	if err := s.bright.draw(input, s.half[0]); err != nil {
		return err
	}
	if err := s.blurH.draw(s.half[0], s.half[1]); err != nil {
		return err
	}
	if err := s.blurV.draw(s.half[1], s.half[0]); err != nil {
		return err
	}
	return s.composite.draw(input, output, s.bloomGroup)
}

func (s *bloomStage) Release() {
	for _, p := range []*fullscreenPass{s.bright, s.blurH, s.blurV, s.composite} {
		p.release()
	}
	if s.bloomGroup != nil {
		s.bloomGroup.Release()
	}
	type releaser interface{ Release() }
	for _, t := range s.half {
		if r, ok := t.(releaser); ok {
			r.Release()
		}
	}
}
