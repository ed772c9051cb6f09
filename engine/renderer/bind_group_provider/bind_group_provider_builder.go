package bind_group_provider

import "github.com/cogentcore/webgpu/wgpu"

// BindGroupProviderOption is a functional option used to configure a BindGroupProvider during construction.
type BindGroupProviderOption func(*bindGroupProvider)

// WithTextureView stores an owned texture view for a binding at construction time.
//
// Parameters:
//   - binding: the binding index for this texture
//   - tv: the texture view, released together with the provider
//
// Returns:
//   - BindGroupProviderOption: a function that sets the texture view for the specified binding
func WithTextureView(binding int, tv *wgpu.TextureView) BindGroupProviderOption {
	return func(p *bindGroupProvider) {
		p.SetTextureView(binding, tv)
	}
}

// WithBorrowedTextureView stores a texture view owned elsewhere, typically a render target
// read by a post-processing stage.
//
// Parameters:
//   - binding: the binding index for this texture
//   - tv: the texture view, never released by the provider
//
// Returns:
//   - BindGroupProviderOption: a function that borrows the texture view for the specified binding
func WithBorrowedTextureView(binding int, tv *wgpu.TextureView) BindGroupProviderOption {
	return func(p *bindGroupProvider) {
		p.BorrowTextureView(binding, tv)
	}
}
