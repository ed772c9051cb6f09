package cmd

import (
	"github.com/Carmen-Shannon/oxy-horizon/common"
	"github.com/Carmen-Shannon/oxy-horizon/engine/audio"
	"github.com/Carmen-Shannon/oxy-horizon/engine/camera"
)

// musicToggle is the part of the audio toggle the keyboard drives.
type musicToggle interface {
	ToggleMusic()
}

// controls maps window input onto the music toggle, the volume slider and, with devtools, the
// orbit camera. Any of them may be nil.
type controls struct {
	music  musicToggle
	volume *audio.VolumeSlider
	orbit  camera.CameraController
}

func (c *controls) keyDown(key uint32) {
	switch key {
	case common.KeyM:
		if c.music != nil {
			c.music.ToggleMusic()
		}
	case common.KeyEqual, common.KeyKPAdd:
		if c.volume != nil {
			c.volume.Step(1)
		}
	case common.KeyMinus, common.KeyKPSubtract:
		if c.volume != nil {
			c.volume.Step(-1)
		}
	case common.KeyR:
		if c.orbit != nil {
			c.orbit.Reset()
		}
	}
}

func (c *controls) mouseDown(x, y int32) {
	if c.orbit != nil {
		c.orbit.PointerDown(x, y)
	}
}

func (c *controls) mouseMove(x, y int32) {
	if c.orbit != nil {
		c.orbit.PointerMove(x, y)
	}
}

func (c *controls) mouseUp(_, _ int32) {
	if c.orbit != nil {
		c.orbit.PointerUp()
	}
}

func (c *controls) scroll(delta float32) {
	if c.orbit != nil {
		c.orbit.Dolly(delta)
	}
}

// inputSource is the part of window.Window that delivers input.
type inputSource interface {
	SetKeyDownCallback(func(keyCode uint32))
	SetLeftMouseDownCallback(func(x, y int32))
	SetLeftMouseUpCallback(func(x, y int32))
	SetMouseMoveCallback(func(x, y int32))
	SetScrollCallback(func(delta float32))
}

func (c *controls) attach(w inputSource) {
	w.SetKeyDownCallback(c.keyDown)
	if c.orbit == nil {
		return
	}
	w.SetLeftMouseDownCallback(c.mouseDown)
	w.SetLeftMouseUpCallback(c.mouseUp)
	w.SetMouseMoveCallback(c.mouseMove)
	w.SetScrollCallback(c.scroll)
}
