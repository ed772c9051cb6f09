package window

import (
	"errors"
	"fmt"
	"image"
	"image/draw"
	"runtime"

	"github.com/cogentcore/webgpu/wgpu"
	"github.com/cogentcore/webgpu/wgpuglfw"
	"github.com/go-gl/glfw/v3.3/glfw"
)

// glfwDontCare leaves a size limit unconstrained.
const glfwDontCare = glfw.DontCare

var errClosed = errors.New("window is closed")

// glfwWindow is the GLFW handle behind an engineWindow.
type glfwWindow struct {
	window  *glfw.Window
	running bool
}

// newPlatformWindow creates the GLFW window without a client API, since WebGPU brings its own,
// and routes GLFW events into the engineWindow callbacks.
//
// GLFW reference: https://www.glfw.org/docs/latest/window_guide.html
func newPlatformWindow(w *engineWindow) error {
	runtime.LockOSThread()

	if err := glfw.Init(); err != nil {
		return fmt.Errorf("failed to initialize GLFW: %w", err)
	}
	glfw.WindowHint(glfw.ClientAPI, glfw.NoAPI)

	win, err := glfw.CreateWindow(w.width, w.height, w.title, nil, nil)
	if err != nil {
		glfw.Terminate()
		return fmt.Errorf("failed to create GLFW window: %w", err)
	}
	win.SetSizeLimits(w.minWidth, w.minHeight, w.maxWidth, w.maxHeight)

	gw := &glfwWindow{window: win, running: true}
	w.internalWindow = gw

	win.SetKeyCallback(func(_ *glfw.Window, key glfw.Key, _ int, action glfw.Action, _ glfw.ModifierKey) {
		switch translateKey(key, action) {
		case keyQuit:
			gw.running = false
			win.SetShouldClose(true)
		case keyDown:
			if w.on.keyDown != nil {
				w.on.keyDown(uint32(key))
			}
		}
	})
	win.SetScrollCallback(func(_ *glfw.Window, _, yoff float64) {
		if w.on.scroll != nil {
			w.on.scroll(float32(yoff))
		}
	})
	win.SetMouseButtonCallback(func(_ *glfw.Window, button glfw.MouseButton, action glfw.Action, _ glfw.ModifierKey) {
		if button != glfw.MouseButtonLeft {
			return
		}
		x, y := win.GetCursorPos()
		var cb func(x, y int32)
		if action == glfw.Press {
			cb = w.on.mouseDown
		} else if action == glfw.Release {
			cb = w.on.mouseUp
		}
		if cb != nil {
			cb(int32(x), int32(y))
		}
	})
	win.SetCursorPosCallback(func(_ *glfw.Window, x, y float64) {
		if w.on.mouseMove != nil {
			w.on.mouseMove(int32(x), int32(y))
		}
	})

	// The framebuffer callback reports pixels. On high-DPI displays the window size callback
	// would report screen coordinates and leave the surface at the wrong size.
	win.SetFramebufferSizeCallback(func(_ *glfw.Window, width, height int) {
		w.framebufferResized(width, height)
	})
	w.width, w.height = win.GetFramebufferSize()
	return nil
}

type keyResult int

const (
	keyIgnored keyResult = iota
	keyDown
	keyQuit
)

// translateKey maps a GLFW key event onto what the window does with it. Repeats count as
// presses so a held volume key keeps stepping.
func translateKey(key glfw.Key, action glfw.Action) keyResult {
	if action == glfw.Release {
		return keyIgnored
	}
	if key == glfw.KeyEscape {
		if action == glfw.Press {
			return keyQuit
		}
		return keyIgnored
	}
	return keyDown
}

func platformWindow(w *engineWindow) *glfwWindow {
	gw, _ := w.internalWindow.(*glfwWindow)
	return gw
}

// platformGetSurfaceDescriptor uses the wgpuglfw bridge, which knows each platform's handles.
func platformGetSurfaceDescriptor(w *engineWindow) *wgpu.SurfaceDescriptor {
	gw := platformWindow(w)
	if gw == nil {
		return nil
	}
	return wgpuglfw.GetSurfaceDescriptor(gw.window)
}

func platformSetTitle(w *engineWindow, title string) {
	if gw := platformWindow(w); gw != nil {
		gw.window.SetTitle(title)
	}
}

// platformSetIcon installs img as the window icon. Wayland and macOS ignore window icons.
func platformSetIcon(w *engineWindow, img image.Image) {
	gw := platformWindow(w)
	if gw == nil {
		return
	}
	if img == nil {
		gw.window.SetIcon(nil)
		return
	}
	gw.window.SetIcon([]image.Image{iconImage(img)})
}

// iconImage converts img to NRGBA, the pixel layout GLFW expects.
func iconImage(img image.Image) *image.NRGBA {
	if n, ok := img.(*image.NRGBA); ok {
		return n
	}
	n := image.NewNRGBA(img.Bounds())
	draw.Draw(n, n.Bounds(), img, img.Bounds().Min, draw.Src)
	return n
}

// platformContentScale returns the horizontal framebuffer to window coordinate ratio.
func platformContentScale(w *engineWindow) float32 {
	gw := platformWindow(w)
	if gw == nil {
		return 1
	}
	x, _ := gw.window.GetContentScale()
	if x <= 0 {
		return 1
	}
	return x
}

func platformIsRunningCheck(w *engineWindow) bool {
	gw := platformWindow(w)
	return gw != nil && gw.running && !gw.window.ShouldClose()
}

// platformCloseWindow destroys the window and terminates GLFW.
func platformCloseWindow(w *engineWindow) error {
	gw := platformWindow(w)
	if gw == nil {
		return errClosed
	}
	gw.running = false
	gw.window.Destroy()
	glfw.Terminate()
	w.internalWindow = nil
	return nil
}

// platformProcessMessages polls pending events without blocking.
func platformProcessMessages(w *engineWindow) bool {
	glfw.PollEvents()
	return platformIsRunningCheck(w)
}
