// package common contains plain data types and helpers shared by the engine packages.
// They are not interface-wrapped structs, just values passed between packages.
package common

import "github.com/cogentcore/webgpu/wgpu"

// TextureStagingData holds RGBA pixel data for a texture binding pending GPU upload.
type TextureStagingData struct {
	// Pixels is the RGBA8 pixel data, 4 bytes per pixel, row-major.
	Pixels []byte
	// Width is the width of the texture in pixels.
	Width uint32
	// Height is the height of the texture in pixels.
	Height uint32
	// Linear marks data textures (height, metalness) that must not be sRGB-decoded when sampled.
	Linear bool
}

// Format returns the GPU texture format matching the staging data's color space.
//
// Returns:
//   - wgpu.TextureFormat: RGBA8Unorm for linear data, RGBA8UnormSrgb otherwise
func (t TextureStagingData) Format() wgpu.TextureFormat {
	if t.Linear {
		return wgpu.TextureFormatRGBA8Unorm
	}
	return wgpu.TextureFormatRGBA8UnormSrgb
}

// SolidTexture builds a 1x1 texture of a single RGBA color.
//
// Parameters:
//   - r, g, b, a: the texel components
//   - linear: whether the texel is data rather than color
//
// Returns:
//   - TextureStagingData: the single texel staging data
func SolidTexture(r, g, b, a uint8, linear bool) TextureStagingData {
	return TextureStagingData{
		Pixels: []byte{r, g, b, a},
		Width:  1,
		Height: 1,
		Linear: linear,
	}
}

// SamplerStagingData holds the configuration for a sampler binding pending GPU creation.
// Zero fields fall back to linear filtering and repeat addressing.
type SamplerStagingData struct {
	// AddressModeU, AddressModeV, AddressModeW specify addressing outside the [0, 1] range.
	AddressModeU, AddressModeV, AddressModeW wgpu.AddressMode
	// MagFilter and MinFilter specify the filtering mode for magnification and minification.
	MagFilter, MinFilter wgpu.FilterMode
	// MipmapFilter specifies the filtering mode for mipmap level selection.
	MipmapFilter wgpu.MipmapFilterMode
	// LodMinClamp and LodMaxClamp specify the level of detail range.
	LodMinClamp, LodMaxClamp float32
	// MaxAnisotropy specifies the maximum anisotropy level.
	MaxAnisotropy uint16
}

// ClampSampler is the sampler used by fullscreen post-processing passes.
var ClampSampler = SamplerStagingData{
	AddressModeU: wgpu.AddressModeClampToEdge,
	AddressModeV: wgpu.AddressModeClampToEdge,
	AddressModeW: wgpu.AddressModeClampToEdge,
}
