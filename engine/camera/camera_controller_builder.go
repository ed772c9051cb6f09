package camera

// CameraControllerOption is a functional option for configuring a CameraController.
type CameraControllerOption func(*cameraControllerImpl)

// WithDampingFactor sets the fraction of pending rotation applied per frame.
// Values outside (0, 1] are ignored.
//
// Parameters:
//   - factor: damping factor, 0.05 by default
//
// Returns:
//   - CameraControllerOption: functional option to set the damping factor
func WithDampingFactor(factor float32) CameraControllerOption {
	return func(cc *cameraControllerImpl) {
		if factor > 0 && factor <= 1 {
			cc.dampingFactor = factor
		}
	}
}

// WithRadiusLimits sets the minimum and maximum distance from the target.
//
// Parameters:
//   - minRadius: closest zoom distance
//   - maxRadius: farthest zoom distance
//
// Returns:
//   - CameraControllerOption: functional option to set the radius bounds
func WithRadiusLimits(minRadius, maxRadius float32) CameraControllerOption {
	return func(cc *cameraControllerImpl) {
		cc.minRadius = minRadius
		cc.maxRadius = maxRadius
	}
}

// WithElevationLimits sets the allowed vertical angle range in radians.
func WithElevationLimits(minElevation, maxElevation float32) CameraControllerOption {
	return func(cc *cameraControllerImpl) {
		cc.minElevation = minElevation
		cc.maxElevation = maxElevation
	}
}

// WithMouseSensitivity sets the radians of rotation per pixel dragged.
func WithMouseSensitivity(sensitivity float32) CameraControllerOption {
	return func(cc *cameraControllerImpl) {
		cc.mouseSensitivity = sensitivity
	}
}

// WithZoomScale sets the radius multiplier per scroll step towards the target.
//
// Parameters:
//   - scale: multiplier in (0, 1), 0.95 by default
//
// Returns:
//   - CameraControllerOption: functional option to set the zoom scale
func WithZoomScale(scale float32) CameraControllerOption {
	return func(cc *cameraControllerImpl) {
		if scale > 0 && scale < 1 {
			cc.zoomScale = scale
		}
	}
}
