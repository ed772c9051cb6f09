package common

// Virtual key codes for cross-platform input handling.
// These values match GLFW key codes which use ASCII values for printable keys.
// Reference: https://pkg.go.dev/github.com/go-gl/glfw/v3.3/glfw#Key
const (
	KeyM     = 77  // M key (ASCII), music toggle
	KeyR     = 82  // R key (ASCII), reset the dev camera
	KeyMinus = 45  // - key (ASCII)
	KeyEqual = 61  // = / + key (ASCII)
	KeyEsc   = 256 // Escape key (GLFW)

	KeyKPSubtract = 333 // keypad - (GLFW)
	KeyKPAdd      = 334 // keypad + (GLFW)
)
