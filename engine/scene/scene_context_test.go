package scene

import (
	"errors"
	"log/slog"
	"testing"

	"github.com/Carmen-Shannon/oxy-horizon/common"
	"github.com/Carmen-Shannon/oxy-horizon/engine/assets"
	"github.com/Carmen-Shannon/oxy-horizon/engine/camera"
	"github.com/Carmen-Shannon/oxy-horizon/engine/postfx"
	"github.com/Carmen-Shannon/oxy-horizon/engine/renderer"
	"github.com/Carmen-Shannon/oxy-horizon/engine/renderer/bind_group_provider"
	"github.com/Carmen-Shannon/oxy-horizon/engine/terrain"
	"github.com/cogentcore/webgpu/wgpu"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeTarget struct {
	width, height int
}

func (t *fakeTarget) Width() int              { return t.width }
func (t *fakeTarget) Height() int             { return t.height }
func (t *fakeTarget) View() *wgpu.TextureView { return nil }

type fakeSurface struct {
	width, height int
	writes        []bind_group_provider.BufferWrite
	beginErr      error
	calls         []string
	target        *fakeTarget
}

func (s *fakeSurface) Resize(width, height int) {
	s.width, s.height = width, height
	s.calls = append(s.calls, "resize")
}

func (s *fakeSurface) WriteBuffers(writes []bind_group_provider.BufferWrite) {
	s.writes = append(s.writes, writes...)
	s.calls = append(s.calls, "write")
}

func (s *fakeSurface) BeginFrame() error {
	s.calls = append(s.calls, "begin")
	if s.beginErr != nil {
		return s.beginErr
	}
	s.target = &fakeTarget{width: s.width, height: s.height}
	return nil
}

func (s *fakeSurface) SurfaceTarget() renderer.RenderTarget {
	if s.target == nil {
		return nil
	}
	return s.target
}

func (s *fakeSurface) EndFrame() {
	s.calls = append(s.calls, "end")
}

func (s *fakeSurface) Present() {
	s.calls = append(s.calls, "present")
	s.target = nil
}

type fakeChain struct {
	width, height int
	frames        []postfx.Frame
	screens       []postfx.Target
	renderErr     error
	released      bool
}

func (c *fakeChain) Render(frame postfx.Frame, screen postfx.Target) error {
	c.frames = append(c.frames, frame)
	c.screens = append(c.screens, screen)
	return c.renderErr
}

func (c *fakeChain) Resize(width, height int) error {
	c.width, c.height = width, height
	return nil
}

func (c *fakeChain) Release() {
	c.released = true
}

type fakeRenderables struct {
	prepared int
	textures map[assets.Slot]common.TextureStagingData
	setErr   error
}

func (r *fakeRenderables) Prepare(_ postfx.Frame) []bind_group_provider.BufferWrite {
	r.prepared++
	return []bind_group_provider.BufferWrite{{Provider: bind_group_provider.NewBindGroupProvider("fake"), Data: []byte{1}}}
}

func (r *fakeRenderables) SetTexture(slot assets.Slot, data common.TextureStagingData) error {
	if r.setErr != nil {
		return r.setErr
	}
	if r.textures == nil {
		r.textures = map[assets.Slot]common.TextureStagingData{}
	}
	r.textures[slot] = data
	return nil
}

type fakeAssets struct {
	ch chan assets.TextureResult
}

func (a *fakeAssets) Results() <-chan assets.TextureResult {
	return a.ch
}

type fixture struct {
	scene       *SceneContext
	camera      camera.Camera
	surface     *fakeSurface
	chain       *fakeChain
	renderables *fakeRenderables
	assets      *fakeAssets
}

func newFixture(t *testing.T, opts ...SceneContextOption) fixture {
	t.Helper()
	ring, err := terrain.NewRing()
	require.NoError(t, err)

	f := fixture{
		camera:      NewDefaultCamera(1, false),
		surface:     &fakeSurface{},
		chain:       &fakeChain{},
		renderables: &fakeRenderables{},
		assets:      &fakeAssets{ch: make(chan assets.TextureResult, 8)},
	}
	base := []SceneContextOption{
		WithCamera(f.camera),
		WithSurface(f.surface),
		WithTerrain(terrain.NewTerrain(ring)),
		WithChain(f.chain),
		WithRenderables(f.renderables),
		WithAssets(f.assets),
		WithLogger(slog.New(slog.DiscardHandler)),
	}
	f.scene, err = NewSceneContext(append(base, opts...)...)
	require.NoError(t, err)
	return f
}

func TestNewSceneContext_RequiresParts(t *testing.T) {
	ring, err := terrain.NewRing()
	require.NoError(t, err)
	cam := NewDefaultCamera(1, false)
	terr := terrain.NewTerrain(ring)

	tests := []struct {
		name string
		opts []SceneContextOption
	}{
		{"no camera", []SceneContextOption{WithSurface(&fakeSurface{}), WithTerrain(terr), WithChain(&fakeChain{})}},
		{"no surface", []SceneContextOption{WithCamera(cam), WithTerrain(terr), WithChain(&fakeChain{})}},
		{"no terrain", []SceneContextOption{WithCamera(cam), WithSurface(&fakeSurface{}), WithChain(&fakeChain{})}},
		{"no chain", []SceneContextOption{WithCamera(cam), WithSurface(&fakeSurface{}), WithTerrain(terr)}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewSceneContext(tt.opts...)
			assert.Error(t, err)
		})
	}
}

func TestHandleResize_UpdatesEverythingBeforeNextFrame(t *testing.T) {
	f := newFixture(t)

	f.scene.HandleResize(1920, 1080)

	assert.InDelta(t, 1920.0/1080.0, f.camera.Aspect(), 1e-6)
	assert.Equal(t, 1920, f.surface.width)
	assert.Equal(t, 1080, f.surface.height)
	assert.Equal(t, 1920, f.chain.width)
	assert.Equal(t, 1080, f.chain.height)

	require.NoError(t, f.scene.Frame(0.1))
	require.Len(t, f.chain.screens, 1)
	assert.Equal(t, 1920, f.chain.screens[0].Width())
	assert.Equal(t, 1080, f.chain.screens[0].Height())
}

func TestHandleResize_ProjectionFollowsAspect(t *testing.T) {
	f := newFixture(t)

	f.scene.HandleResize(800, 800)
	square := f.camera.ProjectionMatrix()
	f.scene.HandleResize(1600, 800)
	wide := f.camera.ProjectionMatrix()

	assert.InDelta(t, square[0]/2, wide[0], 1e-6, "x scale halves when the aspect doubles")
	assert.InDelta(t, square[5], wide[5], 1e-6)
}

func TestHandleResize_PassesBothDimensions(t *testing.T) {
	f := newFixture(t)

	f.scene.HandleResize(1280, 720)

	w, h := f.scene.Size()
	assert.Equal(t, 1280, w)
	assert.Equal(t, 720, h)
	assert.NotEqual(t, 1, f.chain.width, "width must not collapse to width/height")
}

func TestHandleResize_IgnoresZeroSize(t *testing.T) {
	f := newFixture(t)
	f.scene.HandleResize(640, 480)

	f.scene.HandleResize(0, 0)
	f.scene.HandleResize(640, 0)

	assert.Equal(t, 640, f.surface.width)
	assert.Equal(t, 480, f.chain.height)
	assert.InDelta(t, 640.0/480.0, f.camera.Aspect(), 1e-6)
}

func TestHandleResize_PixelRatioLimit(t *testing.T) {
	scale := float32(3)
	f := newFixture(t, WithPixelRatioLimit(func() float32 { return scale }, 2))

	f.scene.HandleResize(3000, 1500)
	assert.Equal(t, 3000, f.surface.width, "the surface always matches the framebuffer")
	assert.Equal(t, 2000, f.chain.width)
	assert.Equal(t, 1000, f.chain.height)
	rw, rh := f.scene.RenderSize()
	assert.Equal(t, 2000, rw)
	assert.Equal(t, 1000, rh)

	scale = 2
	f.scene.HandleResize(3000, 1500)
	assert.Equal(t, 3000, f.chain.width)
	assert.Equal(t, 1500, f.chain.height)
}

func TestFrame_AdvancesRingAndRenders(t *testing.T) {
	f := newFixture(t)
	f.scene.HandleResize(100, 50)

	require.NoError(t, f.scene.Frame(5))

	assert.Equal(t, 5.0, f.scene.Ring().State().Elapsed)
	models := make([][16]float32, f.scene.Ring().TileCount())
	f.scene.Ring().ModelMatrices(models)
	assert.InDelta(t, 0.5, models[0][14], 1e-6)
	assert.InDelta(t, -1.5, models[1][14], 1e-6)

	assert.Equal(t, []string{"resize", "write", "begin", "end", "present"}, f.surface.calls)
	assert.Equal(t, 1, f.renderables.prepared)
	require.Len(t, f.chain.frames, 1)
	assert.Equal(t, uint64(0), f.chain.frames[0].Index)
	assert.Equal(t, 5.0, f.chain.frames[0].Elapsed)
	assert.Equal(t, uint64(1), f.scene.FrameIndex())
}

func TestFrame_WritesTilesCameraAndRenderables(t *testing.T) {
	f := newFixture(t)
	f.scene.HandleResize(100, 100)

	require.NoError(t, f.scene.Frame(1))

	var cameraWrite bool
	for _, w := range f.surface.writes {
		if w.Provider == f.camera.BindGroupProvider() {
			cameraWrite = true
			assert.Len(t, w.Data, 80)
		}
	}
	assert.True(t, cameraWrite)
	// tiles + material + camera + renderables
	assert.Len(t, f.surface.writes, 4)

	require.NoError(t, f.scene.Frame(2))
	// material is written once
	assert.Len(t, f.surface.writes, 7)
}

func TestFrame_DeltaAndIndex(t *testing.T) {
	f := newFixture(t)
	f.scene.HandleResize(10, 10)

	require.NoError(t, f.scene.Frame(1.0))
	require.NoError(t, f.scene.Frame(1.25))

	require.Len(t, f.chain.frames, 2)
	assert.Equal(t, uint64(1), f.chain.frames[1].Index)
	assert.InDelta(t, 0.25, f.chain.frames[1].Delta, 1e-12)
}

func TestFrame_RenderErrorIsReturnedAndFrameClosed(t *testing.T) {
	f := newFixture(t)
	f.scene.HandleResize(10, 10)
	f.chain.renderErr = errors.New("boom")

	err := f.scene.Frame(1)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "boom")
	assert.Equal(t, []string{"resize", "write", "begin", "end", "present"}, f.surface.calls)
}

func TestFrame_BeginFrameError(t *testing.T) {
	f := newFixture(t)
	f.surface.beginErr = errors.New("surface lost")

	err := f.scene.Frame(1)
	require.Error(t, err)
	assert.Empty(t, f.chain.frames)
	assert.Equal(t, uint64(0), f.scene.FrameIndex())
}

func TestApplyAssets_DrainsWithoutBlocking(t *testing.T) {
	f := newFixture(t)

	assert.Equal(t, 0, f.scene.ApplyAssets())

	grid := common.SolidTexture(1, 2, 3, 255, false)
	f.assets.ch <- assets.TextureResult{Slot: assets.SlotGrid, Data: grid}
	f.assets.ch <- assets.TextureResult{Slot: assets.SlotSkybox, Err: errors.New("missing")}
	f.assets.ch <- assets.TextureResult{Slot: assets.SlotHeight, Data: common.SolidTexture(9, 9, 9, 255, true)}

	assert.Equal(t, 2, f.scene.ApplyAssets())
	assert.Equal(t, grid, f.renderables.textures[assets.SlotGrid])
	assert.Contains(t, f.renderables.textures, assets.SlotHeight)
	assert.NotContains(t, f.renderables.textures, assets.SlotSkybox, "failed loads keep the fallback")
	assert.Equal(t, 0, f.scene.ApplyAssets())
}

func TestApplyAssets_UploadErrorKeepsGoing(t *testing.T) {
	f := newFixture(t)
	f.renderables.setErr = errors.New("upload")
	f.assets.ch <- assets.TextureResult{Slot: assets.SlotGrid, Data: common.SolidTexture(1, 1, 1, 255, false)}

	assert.Equal(t, 0, f.scene.ApplyAssets())
}

func TestRelease_ReleasesChain(t *testing.T) {
	f := newFixture(t)
	f.scene.Release()
	assert.True(t, f.chain.released)
}

func TestControls_DefaultToCameraController(t *testing.T) {
	f := newFixture(t)
	assert.Nil(t, f.scene.Controls())

	ring, err := terrain.NewRing()
	require.NoError(t, err)
	cam := NewDefaultCamera(1, true)
	s, err := NewSceneContext(
		WithCamera(cam),
		WithSurface(&fakeSurface{}),
		WithTerrain(terrain.NewTerrain(ring)),
		WithChain(&fakeChain{}),
	)
	require.NoError(t, err)
	assert.NotNil(t, s.Controls())
}
