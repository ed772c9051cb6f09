package renderer

import (
	"errors"

	"github.com/cogentcore/webgpu/wgpu"
)

// ErrUnsupportedAdapter is returned by NewRenderer when no WebGPU adapter, device or surface
// format compatible with the window is available.
var ErrUnsupportedAdapter = errors.New("no compatible WebGPU adapter")

// RendererBackendType identifies the GPU backend implementation used by the Renderer.
type RendererBackendType int

const (
	// BackendTypeWGPU selects the WebGPU-based rendering backend.
	BackendTypeWGPU RendererBackendType = iota
)

// PresentMode controls how rendered frames are presented to the display surface.
type PresentMode int

const (
	// PresentModeVSync waits for the next vertical blank before presenting, capping frame rate
	// to the monitor's refresh rate. Eliminates tearing.
	PresentModeVSync PresentMode = iota

	// PresentModeUncapped presents frames immediately without waiting for vertical blank.
	// May cause screen tearing but provides the lowest latency.
	PresentModeUncapped
)

// MSAASampleCount controls the number of samples used for multisample anti-aliasing of the scene pass.
// WebGPU guarantees support for 1 (off) and 4.
type MSAASampleCount uint32

const (
	// MSAAOff disables multisample anti-aliasing (sample count 1).
	MSAAOff MSAASampleCount = 1

	// MSAA4x enables 4x multisample anti-aliasing. This is the default.
	MSAA4x MSAASampleCount = 4
)

// OffscreenFormat is the colour format of every offscreen target. Half floats keep the HDR range
// the bloom bright-pass thresholds against.
const OffscreenFormat = wgpu.TextureFormatRGBA16Float

// PassOptions configures a render pass started with BeginPass.
type PassOptions struct {
	// Label names the pass in GPU debug tools.
	Label string
	// Clear clears the target to ClearColor instead of loading its contents.
	Clear bool
	// ClearColor is the clear value used when Clear is set.
	ClearColor wgpu.Color
	// Scene renders through the multisampled colour and depth attachments and resolves into the target.
	Scene bool
}

// RendererBackend is the top-level backend interface for the Renderer.
// It embeds the concrete backend interface for the selected GPU API.
type RendererBackend interface {
	wgpuRendererBackend
}

// preferredSurfaceFormats lists linear swapchain formats in order of preference. Gamma is applied
// by a post stage, so an sRGB swapchain would encode the image twice.
var preferredSurfaceFormats = []wgpu.TextureFormat{
	wgpu.TextureFormatBGRA8Unorm,
	wgpu.TextureFormatRGBA8Unorm,
}

// chooseSurfaceFormat picks the first preferred format the surface supports, falling back to
// the surface's own first choice.
//
// Parameters:
//   - supported: the formats reported by the surface capabilities
//
// Returns:
//   - wgpu.TextureFormat: the chosen format
//   - bool: false when the surface reports no formats at all
func chooseSurfaceFormat(supported []wgpu.TextureFormat) (wgpu.TextureFormat, bool) {
	if len(supported) == 0 {
		return wgpu.TextureFormatUndefined, false
	}
	for _, want := range preferredSurfaceFormats {
		for _, have := range supported {
			if want == have {
				return want, true
			}
		}
	}
	return supported[0], true
}
