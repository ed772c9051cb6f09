package terrain

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRingPhase(t *testing.T) {
	tests := []struct {
		name    string
		elapsed float64
		speed   float64
		spacing float64
		want    float64
	}{
		{"start", 0, 0.1, 2, 0},
		{"mid period", 5, 0.1, 2, 0.5},
		{"exact period", 20, 0.1, 2, 0},
		{"two periods", 40, 0.1, 2, 0},
		{"just below spacing snaps", 1, 2 - 1e-12, 2, 0},
		{"stopped", 1000, 0, 2, 0},
		{"negative time wraps positive", -5, 0.1, 2, 1.5},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := RingPhase(tt.elapsed, tt.speed, tt.spacing)
			assert.InDelta(t, tt.want, got, 1e-12)
			assert.GreaterOrEqual(t, got, 0.0)
			assert.Less(t, got, tt.spacing)
		})
	}
}

func TestTileZ(t *testing.T) {
	assert.InDelta(t, 0.5, TileZ(0, 5, 0.1, 2), 1e-12)
	assert.InDelta(t, -1.5, TileZ(1, 5, 0.1, 2), 1e-12)
	assert.InDelta(t, -3.5, TileZ(2, 5, 0.1, 2), 1e-12)
}

func TestNewRing_Defaults(t *testing.T) {
	r, err := NewRing()
	require.NoError(t, err)

	state := r.State()
	assert.Equal(t, 3, state.TileCount)
	assert.Equal(t, 2.0, state.Spacing)
	assert.Equal(t, 0.1, state.Speed)
	assert.Equal(t, 0.0, state.Elapsed)
	assert.InDelta(t, 20, r.Period(), 1e-9)
}

func TestNewRing_Invalid(t *testing.T) {
	tests := []struct {
		name string
		opts []RingBuilderOption
	}{
		{"one tile", []RingBuilderOption{WithTileCount(1)}},
		{"too many tiles", []RingBuilderOption{WithTileCount(MaxTiles + 1)}},
		{"zero spacing", []RingBuilderOption{WithSpacing(0)}},
		{"negative spacing", []RingBuilderOption{WithSpacing(-2)}},
		{"NaN spacing", []RingBuilderOption{WithSpacing(math.NaN())}},
		{"negative speed", []RingBuilderOption{WithSpeed(-0.1)}},
		{"NaN speed", []RingBuilderOption{WithSpeed(math.NaN())}},
		{"infinite offset", []RingBuilderOption{WithBaseOffset(math.Inf(1))}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, err := NewRing(tt.opts...)
			assert.ErrorIs(t, err, ErrInvalidRing)
			assert.Nil(t, r)
		})
	}
}

func TestRing_UpdateKnownValues(t *testing.T) {
	r, err := NewRing()
	require.NoError(t, err)

	assert.InDeltaSlice(t, []float64{0.5, -1.5, -3.5}, r.Update(5), 1e-12)
	assert.InDeltaSlice(t, []float64{0, -2, -4}, r.Update(20), 1e-12)
	assert.Equal(t, 20.0, r.State().Elapsed)
}

func TestRing_SpacingHoldsAtAllTimes(t *testing.T) {
	r, err := NewRing(WithTileCount(4), WithSpacing(2), WithSpeed(0.37))
	require.NoError(t, err)

	for _, elapsed := range []float64{0, 0.016, 1, 13.7, 54.05, 1e4, 3.6e6} {
		z := r.Update(elapsed)
		require.Len(t, z, 4)
		for k := 0; k+1 < len(z); k++ {
			assert.InDelta(t, 2, z[k]-z[k+1], 1e-9, "elapsed %v tile %d", elapsed, k)
		}
		assert.GreaterOrEqual(t, z[0], 0.0)
		assert.Less(t, z[0], 2.0)
	}
}

func TestRing_ContinuousAcrossWrap(t *testing.T) {
	r, err := NewRing()
	require.NoError(t, err)
	period := r.Period()
	const eps = 1e-6

	before := append([]float64(nil), r.Update(period-eps)...)
	after := append([]float64(nil), r.Update(period+eps)...)

	// The nearest tile leaves and every other tile moves up one slot.
	for k := 0; k+1 < len(before); k++ {
		assert.InDelta(t, before[k+1], after[k], 1e-5)
	}
}

func TestRing_IsPeriodic(t *testing.T) {
	r, err := NewRing(WithSpeed(0.25))
	require.NoError(t, err)
	period := r.Period()

	first := append([]float64(nil), r.Update(3.3)...)
	later := r.Update(3.3 + 7*period)
	assert.InDeltaSlice(t, first, later, 1e-9)
}

func TestRing_NoDriftFromIrregularFrames(t *testing.T) {
	r, err := NewRing()
	require.NoError(t, err)

	elapsed := 0.0
	for i := 0; i < 10000; i++ {
		elapsed += 0.001 + float64(i%7)*0.003
		r.Update(elapsed)
	}
	expected := TileZ(0, elapsed, 0.1, 2)
	assert.InDelta(t, expected, r.Update(elapsed)[0], 1e-12)
}

func TestRing_StoppedPeriodIsInfinite(t *testing.T) {
	r, err := NewRing(WithSpeed(0))
	require.NoError(t, err)

	assert.True(t, math.IsInf(r.Period(), 1))
	assert.InDeltaSlice(t, []float64{0, -2, -4}, r.Update(123), 1e-12)
}

func TestRing_BaseOffsetAndTiles(t *testing.T) {
	r, err := NewRing(WithBaseOffset(0.15))
	require.NoError(t, err)

	assert.InDeltaSlice(t, []float64{0.65, -1.35, -3.35}, r.Update(5), 1e-12)

	tiles := r.Tiles()
	require.Len(t, tiles, 3)
	for k, tile := range tiles {
		assert.Equal(t, k, tile.Index)
		assert.InDelta(t, 0.15-float64(k)*2, tile.BaseZ, 1e-12)
		assert.Equal(t, 2.0, tile.Spacing)
	}
}

func TestRing_ModelMatrices(t *testing.T) {
	r, err := NewRing()
	require.NoError(t, err)
	r.Update(5)

	out := make([][16]float32, MaxTiles)
	n := r.ModelMatrices(out)
	require.Equal(t, 3, n)

	for k, z := range []float32{0.5, -1.5, -3.5} {
		m := out[k]
		assert.InDelta(t, z, m[14], 1e-6)
		assert.Equal(t, float32(0), m[12])
		assert.Equal(t, float32(0), m[13])

		// local +Z (plane normal) becomes world +Y
		assert.InDelta(t, 0, m[8], 1e-6)
		assert.InDelta(t, 1, m[9], 1e-6)
		assert.InDelta(t, 0, m[10], 1e-6)
		// local +Y (uv top) points away from the camera
		assert.InDelta(t, 0, m[5], 1e-6)
		assert.InDelta(t, -1, m[6], 1e-6)
	}
	assert.Equal(t, [16]float32{}, out[3], "unused slots are untouched")
}
