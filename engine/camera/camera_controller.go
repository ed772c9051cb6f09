package camera

// CameraController drives a camera's position and target from user input.
// Controllers own the positional state; the camera copies it on Camera.Update.
type CameraController interface {
	orbitCameraController
	pointerCameraController

	// Position returns the camera's world-space position.
	//
	// Returns:
	//   - [3]float32: world-space camera position
	Position() [3]float32

	// Target returns the look-at/pivot point.
	//
	// Returns:
	//   - [3]float32: world-space target position
	Target() [3]float32

	// Update applies one frame of damped motion: the pending rotation is moved by the damping
	// factor and the remainder decays. Called once per frame by Camera.Update.
	//
	// Returns:
	//   - bool: true while the controller is still moving
	Update() bool

	// Reset returns the controller to the pose it was created with and stops any motion.
	Reset()
}

// orbitCameraController defines orbit-specific control methods using spherical coordinates
// (radius, azimuth, elevation) relative to the target.
type orbitCameraController interface {
	// Rotate queues an orbit by the given angles. The motion is spread over the following
	// Update calls by the damping factor.
	//
	// Parameters:
	//   - dAzimuth: horizontal angle in radians
	//   - dElevation: vertical angle in radians
	Rotate(dAzimuth, dElevation float32)

	// Dolly moves towards (positive) or away from (negative) the target.
	// The radius is scaled by ZoomScale^delta and clamped to the radius limits.
	//
	// Parameters:
	//   - delta: scroll steps
	Dolly(delta float32)

	// Radius returns the current distance from target.
	Radius() float32

	// Azimuth returns the current horizontal angle around the Y axis, 0 facing +Z.
	Azimuth() float32

	// Elevation returns the current vertical angle from the horizontal plane.
	Elevation() float32

	// DampingFactor returns the fraction of pending rotation applied per Update.
	DampingFactor() float32
}

// pointerCameraController maps window pointer events onto orbit controls.
type pointerCameraController interface {
	// PointerDown starts a drag at the given window position.
	PointerDown(x, y int32)

	// PointerMove rotates by the distance moved since the last event while dragging.
	//
	// Parameters:
	//   - x, y: window position in pixels
	PointerMove(x, y int32)

	// PointerUp ends the drag.
	PointerUp()

	// Dragging reports whether a drag is in progress.
	Dragging() bool
}
