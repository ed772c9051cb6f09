package terrain

// RingBuilderOption is a functional option used to configure a Ring during construction.
type RingBuilderOption func(*Ring)

// WithTileCount sets the number of tiles, between 2 and MaxTiles.
//
// Parameters:
//   - n: the tile count
//
// Returns:
//   - RingBuilderOption: a function that sets the tile count
func WithTileCount(n int) RingBuilderOption {
	return func(r *Ring) {
		r.tileCount = n
	}
}

// WithSpacing sets the distance between neighbouring tiles, which is also the tile length.
func WithSpacing(spacing float64) RingBuilderOption {
	return func(r *Ring) {
		r.spacing = spacing
	}
}

// WithSpeed sets the scroll speed in world units per second.
func WithSpeed(speed float64) RingBuilderOption {
	return func(r *Ring) {
		r.speed = speed
	}
}

// WithBaseOffset shifts every tile by a constant z, for a ring whose first tile leads the camera.
//
// Parameters:
//   - offset: the z offset added to every tile
//
// Returns:
//   - RingBuilderOption: a function that sets the base offset
func WithBaseOffset(offset float64) RingBuilderOption {
	return func(r *Ring) {
		r.baseOffset = offset
	}
}
