package cmd

import (
	"image"
	"image/color"
	"strings"
	"sync"

	"github.com/lucasb-eyer/go-colorful"
)

const iconSize = 32

// titleBar is the status line of the desktop host: the window title carries the music badge
// and the profiler's frame stats, the window icon shows the music state.
type titleBar struct {
	mu      sync.Mutex
	base    string
	music   bool
	stats   string
	setText func(string)
	setIcon func(image.Image)
	icons   [2]image.Image
}

func newTitleBar(base string, setText func(string), setIcon func(image.Image)) *titleBar {
	return &titleBar{
		base:    base,
		setText: setText,
		setIcon: setIcon,
		icons: [2]image.Image{
			musicIcon(colorful.Color{R: 0.35, G: 0.35, B: 0.4}, false),
			musicIcon(mustHex("#ed11ff"), true),
		},
	}
}

// SetMusicIcon implements audio.IconSetter.
func (t *titleBar) SetMusicIcon(playing bool) {
	t.mu.Lock()
	t.music = playing
	icon := t.icons[0]
	if playing {
		icon = t.icons[1]
	}
	text := t.textLocked()
	t.mu.Unlock()

	if t.setIcon != nil {
		t.setIcon(icon)
	}
	if t.setText != nil {
		t.setText(text)
	}
}

// SetStats replaces the frame stats shown after the title.
func (t *titleBar) SetStats(stats string) {
	t.mu.Lock()
	t.stats = stats
	text := t.textLocked()
	t.mu.Unlock()

	if t.setText != nil {
		t.setText(text)
	}
}

func (t *titleBar) Text() string {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.textLocked()
}

func (t *titleBar) textLocked() string {
	parts := []string{t.base}
	if t.music {
		parts = append(parts, "♪")
	}
	if t.stats != "" {
		parts = append(parts, "| "+t.stats)
	}
	return strings.Join(parts, " ")
}

// musicIcon draws a filled disc, with a darker bar across it while muted.
func musicIcon(c colorful.Color, playing bool) image.Image {
	img := image.NewRGBA(image.Rect(0, 0, iconSize, iconSize))
	fill := color.RGBAModel.Convert(c).(color.RGBA)
	bar := color.RGBAModel.Convert(c.BlendRgb(colorful.Color{}, 0.6)).(color.RGBA)

	center := float64(iconSize-1) / 2
	radius := float64(iconSize) / 2
	for y := range iconSize {
		for x := range iconSize {
			dx, dy := float64(x)-center, float64(y)-center
			if dx*dx+dy*dy > radius*radius {
				continue
			}
			if !playing && dy > -2 && dy < 2 {
				img.SetRGBA(x, y, bar)
				continue
			}
			img.SetRGBA(x, y, fill)
		}
	}
	return img
}

func mustHex(hex string) colorful.Color {
	c, err := colorful.Hex(hex)
	if err != nil {
		panic(err)
	}
	return c
}
