package terrain

import (
	"errors"
	"fmt"
	"math"

	"github.com/Carmen-Shannon/oxy-horizon/common"
)

// MaxTiles is the largest tile count a Ring accepts. It matches the size of the tile
// matrix array in the terrain shader.
const MaxTiles = 4

// ErrInvalidRing is returned by NewRing for an out-of-range tile count, spacing or speed.
var ErrInvalidRing = errors.New("invalid tile ring")

// phaseSnap is the relative distance below spacing at which a phase snaps back to zero.
const phaseSnap = 1e-9

// Tile is one instance of the shared terrain mesh.
type Tile struct {
	// Index is the tile's position in the ring, 0 being nearest to the camera.
	Index int
	// BaseZ is the tile's z at phase 0.
	BaseZ float64
	// Spacing is the distance between neighbouring tiles.
	Spacing float64
}

// RingState is a snapshot of the ring's inputs at the last Update.
type RingState struct {
	Elapsed   float64
	Speed     float64
	TileCount int
	Spacing   float64
}

// Ring places a fixed number of tiles at staggered depths and scrolls them towards the camera.
// Positions are always derived from the absolute elapsed time, so the ring never drifts no
// matter how long it runs or how irregular the frame times are.
type Ring struct {
	tileCount  int
	spacing    float64
	speed      float64
	baseOffset float64

	elapsed float64
	z       []float64
}

// RingPhase returns (elapsed*speed) mod spacing in [0, spacing).
// Results within a relative 1e-9 of spacing snap to 0 so exact multiples of the period
// land on 0 instead of just below spacing.
//
// Parameters:
//   - elapsed: seconds since the loop started
//   - speed: scroll speed in world units per second
//   - spacing: distance between tiles, must be > 0
//
// Returns:
//   - float64: the scroll phase
func RingPhase(elapsed, speed, spacing float64) float64 {
	p := math.Mod(elapsed*speed, spacing)
	if p < 0 {
		p += spacing
	}
	if spacing-p <= phaseSnap*spacing {
		return 0
	}
	return p
}

// TileZ returns the z position of tile k: RingPhase(elapsed, speed, spacing) - k*spacing.
func TileZ(k int, elapsed, speed, spacing float64) float64 {
	return RingPhase(elapsed, speed, spacing) - float64(k)*spacing
}

// NewRing creates a tile ring. Without options it has 3 tiles, spacing 2 and speed 0.1.
//
// Parameters:
//   - opts: functional options configuring the ring
//
// Returns:
//   - *Ring: the ring, positioned at elapsed 0
//   - error: an error wrapping ErrInvalidRing when the configuration is out of range
func NewRing(opts ...RingBuilderOption) (*Ring, error) {
	r := &Ring{
		tileCount: 3,
		spacing:   2,
		speed:     0.1,
	}
	for _, opt := range opts {
		opt(r)
	}

	switch {
	case r.tileCount < 2 || r.tileCount > MaxTiles:
		return nil, fmt.Errorf("%w: tile count %d outside [2, %d]", ErrInvalidRing, r.tileCount, MaxTiles)
	case !(r.spacing > 0) || math.IsInf(r.spacing, 0):
		return nil, fmt.Errorf("%w: spacing %v must be positive", ErrInvalidRing, r.spacing)
	case !(r.speed >= 0) || math.IsInf(r.speed, 0):
		return nil, fmt.Errorf("%w: speed %v must be non-negative", ErrInvalidRing, r.speed)
	case math.IsNaN(r.baseOffset) || math.IsInf(r.baseOffset, 0):
		return nil, fmt.Errorf("%w: base offset %v", ErrInvalidRing, r.baseOffset)
	}

	r.z = make([]float64, r.tileCount)
	r.Update(0)
	return r, nil
}

// Update recomputes every tile position for the given elapsed time.
//
// Parameters:
//   - elapsed: seconds since the loop started
//
// Returns:
//   - []float64: the z position of each tile, owned by the ring and overwritten by the next Update
func (r *Ring) Update(elapsed float64) []float64 {
	r.elapsed = elapsed
	phase := RingPhase(elapsed, r.speed, r.spacing)
	for k := range r.z {
		r.z[k] = phase - float64(k)*r.spacing + r.baseOffset
	}
	return r.z
}

// State returns the ring's configuration and the elapsed time of the last Update.
func (r *Ring) State() RingState {
	return RingState{
		Elapsed:   r.elapsed,
		Speed:     r.speed,
		TileCount: r.tileCount,
		Spacing:   r.spacing,
	}
}

// Tiles describes every tile of the ring.
func (r *Ring) Tiles() []Tile {
	tiles := make([]Tile, r.tileCount)
	for k := range tiles {
		tiles[k] = Tile{
			Index:   k,
			BaseZ:   r.baseOffset - float64(k)*r.spacing,
			Spacing: r.spacing,
		}
	}
	return tiles
}

// Period returns the time after which the ring repeats, +Inf for a stopped ring.
func (r *Ring) Period() float64 {
	if r.speed == 0 {
		return math.Inf(1)
	}
	return r.spacing / r.speed
}

// TileCount returns the number of tiles.
func (r *Ring) TileCount() int {
	return r.tileCount
}

// ModelMatrices writes the model matrix of each tile: the plane is laid flat by a -90 degree
// rotation about X and moved to its current z. Extra entries in out are left untouched.
//
// Parameters:
//   - out: destination matrices, column-major
//
// Returns:
//   - int: the number of matrices written
func (r *Ring) ModelMatrices(out [][16]float32) int {
	n := min(len(out), len(r.z))
	for k := 0; k < n; k++ {
		common.RotationX(out[k][:], -math.Pi/2)
		out[k][14] = float32(r.z[k])
	}
	return n
}
