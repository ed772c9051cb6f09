package renderer

import "github.com/cogentcore/webgpu/wgpu"

// RenderTarget is a colour attachment a render pass can draw into and later stages can sample.
type RenderTarget interface {
	Width() int
	Height() int
	View() *wgpu.TextureView
}

// offscreenTarget is a renderer-owned texture usable both as an attachment and as a sampled texture.
type offscreenTarget struct {
	label   string
	width   int
	height  int
	texture *wgpu.Texture
	view    *wgpu.TextureView
}

var _ RenderTarget = &offscreenTarget{}

func (t *offscreenTarget) Width() int {
	return t.width
}

func (t *offscreenTarget) Height() int {
	return t.height
}

func (t *offscreenTarget) View() *wgpu.TextureView {
	return t.view
}

// Release frees the texture. The target can be reallocated with Renderer.ResizeTarget.
func (t *offscreenTarget) Release() {
	t.release()
}

func (t *offscreenTarget) release() {
	if t.view != nil {
		t.view.Release()
		t.view = nil
	}
	if t.texture != nil {
		t.texture.Release()
		t.texture = nil
	}
}

// surfaceTarget wraps the swapchain view acquired for the current frame.
type surfaceTarget struct {
	width  int
	height int
	view   *wgpu.TextureView
}

var _ RenderTarget = &surfaceTarget{}

func (t *surfaceTarget) Width() int {
	return t.width
}

func (t *surfaceTarget) Height() int {
	return t.height
}

func (t *surfaceTarget) View() *wgpu.TextureView {
	return t.view
}

// clampSize keeps attachment sizes at one pixel or more; zero-sized textures are invalid.
func clampSize(width, height int) (uint32, uint32) {
	return uint32(max(width, 1)), uint32(max(height, 1))
}
