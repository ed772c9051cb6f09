package camera

import (
	"math"
	"sync"

	"github.com/Carmen-Shannon/oxy-horizon/common"
	"github.com/chewxy/math32"
)

// orbitPose is the part of the controller state restored by Reset.
type orbitPose struct {
	target    [3]float32
	radius    float32
	azimuth   float32
	elevation float32
}

// cameraControllerImpl is the orbit controller with damping used by the dev tools.
type cameraControllerImpl struct {
	mu *sync.Mutex

	position [3]float32
	orbitPose
	initial orbitPose

	// pending rotation not yet applied
	deltaAzimuth   float32
	deltaElevation float32

	minRadius    float32
	maxRadius    float32
	minElevation float32
	maxElevation float32

	dampingFactor    float32
	mouseSensitivity float32
	zoomScale        float32

	dragging     bool
	lastX, lastY int32
}

var _ CameraController = &cameraControllerImpl{}

// motionEpsilon is the pending rotation below which the controller counts as settled.
const motionEpsilon = 1e-6

// NewOrbitController creates an orbit controller that starts at the given pose.
// The spherical coordinates are derived from position relative to target.
//
// Parameters:
//   - position: initial camera position
//   - target: orbit pivot
//   - options: functional options to configure the controller
//
// Returns:
//   - CameraController: the newly created controller
func NewOrbitController(position, target [3]float32, options ...CameraControllerOption) CameraController {
	cc := &cameraControllerImpl{
		mu:               &sync.Mutex{},
		minRadius:        0.1,
		maxRadius:        5,
		minElevation:     -math.Pi/2 + 0.01,
		maxElevation:     math.Pi/2 - 0.01,
		dampingFactor:    0.05,
		mouseSensitivity: 0.005,
		zoomScale:        0.95,
	}
	for _, option := range options {
		option(cc)
	}

	dx := position[0] - target[0]
	dy := position[1] - target[1]
	dz := position[2] - target[2]
	cc.target = target
	cc.radius = common.Clamp(math32.Sqrt(dx*dx+dy*dy+dz*dz), cc.minRadius, cc.maxRadius)
	cc.azimuth = math32.Atan2(dx, dz)
	if horizontal := math32.Hypot(dx, dz); horizontal > 0 || dy != 0 {
		cc.elevation = common.Clamp(math32.Atan2(dy, horizontal), cc.minElevation, cc.maxElevation)
	}
	cc.initial = cc.orbitPose
	cc.updatePosition()
	return cc
}

// updatePosition recomputes the camera position from spherical coordinates.
// Caller must hold the mutex.
func (cc *cameraControllerImpl) updatePosition() {
	sinElev, cosElev := math32.Sincos(cc.elevation)
	sinAzim, cosAzim := math32.Sincos(cc.azimuth)

	cc.position[0] = cc.target[0] + cc.radius*cosElev*sinAzim
	cc.position[1] = cc.target[1] + cc.radius*sinElev
	cc.position[2] = cc.target[2] + cc.radius*cosElev*cosAzim
}

func (cc *cameraControllerImpl) Position() [3]float32 {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	return cc.position
}

func (cc *cameraControllerImpl) Target() [3]float32 {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	return cc.target
}

func (cc *cameraControllerImpl) Update() bool {
	cc.mu.Lock()
	defer cc.mu.Unlock()

	cc.azimuth += cc.deltaAzimuth * cc.dampingFactor
	cc.elevation = common.Clamp(cc.elevation+cc.deltaElevation*cc.dampingFactor, cc.minElevation, cc.maxElevation)
	cc.deltaAzimuth *= 1 - cc.dampingFactor
	cc.deltaElevation *= 1 - cc.dampingFactor
	cc.updatePosition()

	moving := math32.Abs(cc.deltaAzimuth) > motionEpsilon || math32.Abs(cc.deltaElevation) > motionEpsilon
	if !moving {
		cc.deltaAzimuth, cc.deltaElevation = 0, 0
	}
	return moving
}

func (cc *cameraControllerImpl) Reset() {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	cc.orbitPose = cc.initial
	cc.deltaAzimuth, cc.deltaElevation = 0, 0
	cc.dragging = false
	cc.updatePosition()
}

func (cc *cameraControllerImpl) Rotate(dAzimuth, dElevation float32) {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	cc.deltaAzimuth += dAzimuth
	cc.deltaElevation += dElevation
}

func (cc *cameraControllerImpl) Dolly(delta float32) {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	cc.radius = common.Clamp(cc.radius*math32.Pow(cc.zoomScale, delta), cc.minRadius, cc.maxRadius)
	cc.updatePosition()
}

func (cc *cameraControllerImpl) Radius() float32 {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	return cc.radius
}

func (cc *cameraControllerImpl) Azimuth() float32 {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	return cc.azimuth
}

func (cc *cameraControllerImpl) Elevation() float32 {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	return cc.elevation
}

func (cc *cameraControllerImpl) DampingFactor() float32 {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	return cc.dampingFactor
}

func (cc *cameraControllerImpl) PointerDown(x, y int32) {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	cc.dragging = true
	cc.lastX, cc.lastY = x, y
}

func (cc *cameraControllerImpl) PointerMove(x, y int32) {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	if !cc.dragging {
		return
	}
	dx := float32(x - cc.lastX)
	dy := float32(y - cc.lastY)
	cc.lastX, cc.lastY = x, y

	// Dragging right swings the camera left around the pivot, dragging down raises it.
	cc.deltaAzimuth -= dx * cc.mouseSensitivity
	cc.deltaElevation += dy * cc.mouseSensitivity
}

func (cc *cameraControllerImpl) PointerUp() {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	cc.dragging = false
}

func (cc *cameraControllerImpl) Dragging() bool {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	return cc.dragging
}
