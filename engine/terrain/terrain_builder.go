package terrain

import "log/slog"

// TerrainBuilderOption is a functional option used to configure a Terrain during construction.
type TerrainBuilderOption func(*Terrain)

// WithGeometry replaces the default 1x2 tile mesh.
func WithGeometry(g Geometry) TerrainBuilderOption {
	return func(t *Terrain) {
		t.geometry = g
	}
}

// WithMaterial replaces the default terrain material.
//
// Parameters:
//   - m: the scalar material parameters
//
// Returns:
//   - TerrainBuilderOption: a function that sets the material
func WithMaterial(m Material) TerrainBuilderOption {
	return func(t *Terrain) {
		t.material = m
	}
}

// WithLogger sets the logger used for terrain diagnostics.
func WithLogger(logger *slog.Logger) TerrainBuilderOption {
	return func(t *Terrain) {
		if logger != nil {
			t.logger = logger
		}
	}
}
