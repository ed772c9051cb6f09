package assets

import "log/slog"

// LoaderBuilderOption is a functional option used to configure a Loader during construction.
type LoaderBuilderOption func(*Loader)

// WithWorkers sets the number of decode workers.
func WithWorkers(n int) LoaderBuilderOption {
	return func(l *Loader) {
		if n > 0 {
			l.workers = n
		}
	}
}

// WithMaxTextureSize bounds the longer side of decoded textures. Zero keeps full size.
//
// Parameters:
//   - size: the bound in pixels
//
// Returns:
//   - LoaderBuilderOption: a function that sets the texture size bound
func WithMaxTextureSize(size int) LoaderBuilderOption {
	return func(l *Loader) {
		if size >= 0 {
			l.maxTextureSize = size
		}
	}
}

// WithHeightBlur sets the Gaussian sigma applied to height maps.
func WithHeightBlur(sigma float32) LoaderBuilderOption {
	return func(l *Loader) {
		l.heightBlur = max(sigma, 0)
	}
}

// WithProceduralTerrain replaces a missing height map with a Perlin height field.
//
// Parameters:
//   - enabled: whether the procedural fallback is used
//   - seed: the noise seed
//
// Returns:
//   - LoaderBuilderOption: a function that enables the procedural height map
func WithProceduralTerrain(enabled bool, seed int64) LoaderBuilderOption {
	return func(l *Loader) {
		l.procedural = enabled
		l.seed = seed
	}
}

// WithLogger sets the logger load warnings go to.
func WithLogger(logger *slog.Logger) LoaderBuilderOption {
	return func(l *Loader) {
		if logger != nil {
			l.logger = logger
		}
	}
}
