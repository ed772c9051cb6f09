package window

import (
	"fmt"
	"image"
	"runtime"

	"github.com/cogentcore/webgpu/wgpu"
)

// Input is the set of input and lifecycle callbacks a window delivers. Every callback runs on
// the window thread during ProcessMessages; passing nil disables it.
type Input interface {
	// SetUpdateCallback sets the function called once per message loop iteration, after events
	// have been dispatched. The frame loop runs from it.
	SetUpdateCallback(callback func())

	// SetResizeCallback sets the function receiving the new framebuffer size in pixels.
	// A minimised window reports 0x0.
	SetResizeCallback(callback func(width, height int))

	// SetScrollCallback sets the function receiving vertical wheel steps, positive away from the user.
	SetScrollCallback(callback func(delta float32))

	// SetKeyDownCallback sets the function receiving key presses and auto-repeats as GLFW key codes.
	// Escape is handled by the window and never reported.
	SetKeyDownCallback(callback func(keyCode uint32))

	SetLeftMouseDownCallback(callback func(x, y int32))
	SetLeftMouseUpCallback(callback func(x, y int32))
	SetMouseMoveCallback(callback func(x, y int32))
}

// Window is a desktop window that hosts a WebGPU surface.
type Window interface {
	Input

	// SurfaceDescriptor returns the platform surface descriptor (Win32, X11, Wayland or Metal)
	// the renderer creates its surface from, or nil once the window is closed.
	SurfaceDescriptor() *wgpu.SurfaceDescriptor

	SetTitle(title string)

	// Title returns the title the window was created with. SetTitle does not change it.
	Title() string

	// SetIcon replaces the window icon. A nil image restores the platform default.
	SetIcon(img image.Image)

	// ContentScale returns the ratio between framebuffer pixels and screen coordinates,
	// 2 on a typical high-DPI display.
	ContentScale() float32

	IsRunning() bool

	// Close destroys the window. Closing a closed window returns an error and does nothing else.
	Close() error

	// ProcessMessages polls events and calls the update callback until the window closes.
	ProcessMessages()

	// Width and Height return the framebuffer size in pixels.
	Width() int
	Height() int
}

// callbacks are the registered Input functions.
type callbacks struct {
	update    func()
	resize    func(width, height int)
	scroll    func(delta float32)
	keyDown   func(keyCode uint32)
	mouseDown func(x, y int32)
	mouseUp   func(x, y int32)
	mouseMove func(x, y int32)
}

// engineWindow is the implementation of the Window interface.
type engineWindow struct {
	title string

	minWidth, minHeight int
	maxWidth, maxHeight int

	// width and height track the framebuffer, not the screen-coordinate size requested.
	width, height int

	// internalWindow is the platform window, nil before creation and after Close.
	internalWindow any

	on callbacks
}

var _ Window = &engineWindow{}

// NewWindow creates and shows a new Window with the specified options.
//
// Parameters:
//   - options: functional options to configure the window
//
// Returns:
//   - Window: the spawned window
//   - error: an error if the platform window could not be created
func NewWindow(options ...WindowBuilderOption) (Window, error) {
	w := newEngineWindow(options...)
	if err := newPlatformWindow(w); err != nil {
		return nil, fmt.Errorf("failed to create platform window: %w", err)
	}
	return w, nil
}

func newEngineWindow(options ...WindowBuilderOption) *engineWindow {
	w := &engineWindow{
		title:     "oxy-horizon",
		maxWidth:  glfwDontCare,
		maxHeight: glfwDontCare,
		minWidth:  320,
		minHeight: 180,
		width:     1280,
		height:    720,
	}
	for _, opt := range options {
		opt(w)
	}
	return w
}

func (w *engineWindow) SetUpdateCallback(callback func()) {
	w.on.update = callback
}

func (w *engineWindow) SetResizeCallback(callback func(width, height int)) {
	w.on.resize = callback
}

func (w *engineWindow) SetScrollCallback(callback func(delta float32)) {
	w.on.scroll = callback
}

func (w *engineWindow) SetKeyDownCallback(callback func(keyCode uint32)) {
	w.on.keyDown = callback
}

func (w *engineWindow) SetLeftMouseDownCallback(callback func(x, y int32)) {
	w.on.mouseDown = callback
}

func (w *engineWindow) SetLeftMouseUpCallback(callback func(x, y int32)) {
	w.on.mouseUp = callback
}

func (w *engineWindow) SetMouseMoveCallback(callback func(x, y int32)) {
	w.on.mouseMove = callback
}

// framebufferResized records the new size and forwards it.
func (w *engineWindow) framebufferResized(width, height int) {
	w.width = width
	w.height = height
	if w.on.resize != nil {
		w.on.resize(width, height)
	}
}

func (w *engineWindow) SetTitle(title string) {
	platformSetTitle(w, title)
}

func (w *engineWindow) Title() string {
	return w.title
}

func (w *engineWindow) SetIcon(img image.Image) {
	platformSetIcon(w, img)
}

func (w *engineWindow) ContentScale() float32 {
	return platformContentScale(w)
}

func (w *engineWindow) SurfaceDescriptor() *wgpu.SurfaceDescriptor {
	return platformGetSurfaceDescriptor(w)
}

func (w *engineWindow) IsRunning() bool {
	return platformIsRunningCheck(w)
}

func (w *engineWindow) Close() error {
	return platformCloseWindow(w)
}

func (w *engineWindow) ProcessMessages() {
	for w.IsRunning() {
		if !platformProcessMessages(w) {
			break
		}
		if w.on.update != nil {
			w.on.update()
		}
		runtime.Gosched()
	}
}

func (w *engineWindow) Width() int {
	return w.width
}

func (w *engineWindow) Height() int {
	return w.height
}
