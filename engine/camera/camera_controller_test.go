package camera

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewOrbitController_DerivesSphericalPose(t *testing.T) {
	ctrl := NewOrbitController([3]float32{0, 0.05, 1}, [3]float32{0, 0.05, 0})

	assert.InDelta(t, 1, ctrl.Radius(), 1e-6)
	assert.InDelta(t, 0, ctrl.Azimuth(), 1e-6)
	assert.InDelta(t, 0, ctrl.Elevation(), 1e-6)
	pos := ctrl.Position()
	assert.InDeltaSlice(t, []float32{0, 0.05, 1}, pos[:], 1e-6)
	assert.Equal(t, float32(0.05), ctrl.DampingFactor())
}

func TestOrbitController_DampingSpreadsRotation(t *testing.T) {
	ctrl := NewOrbitController([3]float32{0, 0, 1}, [3]float32{0, 0, 0})
	ctrl.Rotate(1, 0)

	assert.True(t, ctrl.Update())
	assert.InDelta(t, 0.05, ctrl.Azimuth(), 1e-6, "first frame applies the damping factor")

	ctrl.Update()
	assert.InDelta(t, 0.05+0.05*0.95, ctrl.Azimuth(), 1e-6)

	for ctrl.Update() {
	}
	assert.InDelta(t, 1, ctrl.Azimuth(), 1e-4, "damped motion converges on the full rotation")
	assert.False(t, ctrl.Update())
}

func TestOrbitController_ElevationIsClamped(t *testing.T) {
	ctrl := NewOrbitController([3]float32{0, 0, 1}, [3]float32{0, 0, 0},
		WithDampingFactor(1),
		WithElevationLimits(-0.5, 0.5),
	)
	ctrl.Rotate(0, 3)
	ctrl.Update()
	assert.InDelta(t, 0.5, ctrl.Elevation(), 1e-6)
}

func TestOrbitController_DollyClampsRadius(t *testing.T) {
	ctrl := NewOrbitController([3]float32{0, 0, 1}, [3]float32{0, 0, 0}, WithRadiusLimits(0.5, 2))

	ctrl.Dolly(1)
	assert.InDelta(t, 0.95, ctrl.Radius(), 1e-6)

	ctrl.Dolly(100)
	assert.InDelta(t, 0.5, ctrl.Radius(), 1e-6)

	ctrl.Dolly(-1000)
	assert.InDelta(t, 2, ctrl.Radius(), 1e-6)

	ctrl = NewOrbitController([3]float32{0, 0, 1}, [3]float32{0, 0, 0}, WithZoomScale(0.5))
	ctrl.Dolly(1)
	assert.InDelta(t, 0.5, ctrl.Radius(), 1e-6)
}

func TestOrbitController_PointerDrag(t *testing.T) {
	ctrl := NewOrbitController([3]float32{0, 0, 1}, [3]float32{0, 0, 0},
		WithDampingFactor(1),
		WithMouseSensitivity(0.01),
	)

	ctrl.PointerMove(50, 0)
	ctrl.Update()
	assert.InDelta(t, 0, ctrl.Azimuth(), 1e-6, "moves without a drag are ignored")

	ctrl.PointerDown(100, 100)
	assert.True(t, ctrl.Dragging())
	ctrl.PointerMove(110, 100)
	ctrl.Update()
	assert.InDelta(t, -0.1, ctrl.Azimuth(), 1e-6)

	ctrl.PointerUp()
	assert.False(t, ctrl.Dragging())
}

func TestOrbitController_Reset(t *testing.T) {
	ctrl := NewOrbitController([3]float32{0, 0.05, 1}, [3]float32{0, 0.05, 0})
	ctrl.Rotate(math.Pi, 0.3)
	ctrl.Dolly(5)
	for range 10 {
		ctrl.Update()
	}

	ctrl.Reset()
	pos := ctrl.Position()
	assert.InDeltaSlice(t, []float32{0, 0.05, 1}, pos[:], 1e-6)
	assert.False(t, ctrl.Update(), "reset stops pending motion")
	assert.InDelta(t, 0, ctrl.Azimuth(), 1e-6)
}
