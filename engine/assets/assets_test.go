package assets

import (
	"bytes"
	"encoding/base64"
	"image"
	"image/color"
	"image/png"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// 1x1 lossless WebP.
const tinyWebP = "UklGRhoAAABXRUJQVlA4TA0AAAAvAAAAEAcQERGIiP4HAA=="

func encodePNG(t *testing.T, w, h int, c color.RGBA) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := range h {
		for x := range w {
			img.SetRGBA(x, y, c)
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func quietLogger() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}

func receive(t *testing.T, l *Loader) TextureResult {
	t.Helper()
	select {
	case res := <-l.Results():
		return res
	case <-time.After(5 * time.Second):
		t.Fatal("no texture result")
		return TextureResult{}
	}
}

func TestSlotKinds(t *testing.T) {
	assert.Equal(t, KindColor, SlotGrid.Kind())
	assert.Equal(t, KindHeight, SlotHeight.Kind())
	assert.Equal(t, KindData, SlotMetalness.Kind())
	assert.Equal(t, KindColor, SlotSkybox.Kind())

	assert.False(t, KindColor.Linear())
	assert.True(t, KindData.Linear())
	assert.True(t, KindHeight.Linear())
}

func TestDefaultTextures(t *testing.T) {
	names := map[Slot]string{}
	for _, req := range DefaultTextures() {
		names[req.Slot] = req.Name
	}
	assert.Equal(t, map[Slot]string{
		SlotGrid:      "grid.webp",
		SlotHeight:    "terrain_data.webp",
		SlotMetalness: "shinystuff.webp",
		SlotSkybox:    "skybox.webp",
	}, names)
}

func TestFallback(t *testing.T) {
	tests := []struct {
		kind   Kind
		pixels []byte
		linear bool
	}{
		{KindColor, []byte{0, 0, 0, 255}, false},
		{KindData, []byte{255, 255, 255, 255}, true},
		{KindHeight, []byte{0, 0, 0, 255}, true},
	}
	for _, tt := range tests {
		t.Run(tt.kind.String(), func(t *testing.T) {
			f := Fallback(tt.kind)
			assert.Equal(t, uint32(1), f.Width)
			assert.Equal(t, uint32(1), f.Height)
			assert.Equal(t, tt.pixels, f.Pixels)
			assert.Equal(t, tt.linear, f.Linear)
		})
	}
}

func TestDecodeTexture_PNG(t *testing.T) {
	data := encodePNG(t, 4, 2, color.RGBA{R: 10, G: 20, B: 30, A: 255})

	tex, err := DecodeTexture(bytes.NewReader(data), KindColor, DecodeOptions{})
	require.NoError(t, err)
	assert.Equal(t, uint32(4), tex.Width)
	assert.Equal(t, uint32(2), tex.Height)
	require.Len(t, tex.Pixels, 4*2*4)
	assert.Equal(t, []byte{10, 20, 30, 255}, tex.Pixels[:4])
	assert.False(t, tex.Linear)
}

func TestDecodeTexture_WebP(t *testing.T) {
	data, err := base64.StdEncoding.DecodeString(tinyWebP)
	require.NoError(t, err)

	tex, err := DecodeTexture(bytes.NewReader(data), KindData, DecodeOptions{})
	require.NoError(t, err)
	assert.Equal(t, uint32(1), tex.Width)
	assert.Equal(t, uint32(1), tex.Height)
	assert.Len(t, tex.Pixels, 4)
	assert.True(t, tex.Linear)
}

func TestDecodeTexture_DownscalesKeepingAspect(t *testing.T) {
	data := encodePNG(t, 64, 32, color.RGBA{R: 255, A: 255})

	tex, err := DecodeTexture(bytes.NewReader(data), KindColor, DecodeOptions{MaxSize: 16})
	require.NoError(t, err)
	assert.Equal(t, uint32(16), tex.Width)
	assert.Equal(t, uint32(8), tex.Height)
	assert.Len(t, tex.Pixels, 16*8*4)
}

func TestDecodeTexture_HeightBlurKeepsSize(t *testing.T) {
	data := encodePNG(t, 8, 8, color.RGBA{R: 128, G: 128, B: 128, A: 255})

	tex, err := DecodeTexture(bytes.NewReader(data), KindHeight, DecodeOptions{HeightBlur: 1.5})
	require.NoError(t, err)
	assert.Equal(t, uint32(8), tex.Width)
	assert.Equal(t, uint32(8), tex.Height)
	assert.True(t, tex.Linear)
}

func TestDecodeTexture_Garbage(t *testing.T) {
	_, err := DecodeTexture(bytes.NewReader([]byte("not an image")), KindColor, DecodeOptions{})
	assert.Error(t, err)
}

func TestProceduralHeightMap(t *testing.T) {
	a := ProceduralHeightMap(16, 8, 4, 42)
	b := ProceduralHeightMap(16, 8, 4, 42)

	assert.Equal(t, uint32(16), a.Width)
	assert.Equal(t, uint32(8), a.Height)
	assert.True(t, a.Linear)
	require.Len(t, a.Pixels, 16*8*4)
	assert.Equal(t, a.Pixels, b.Pixels, "same seed gives the same field")

	for i := 0; i < len(a.Pixels); i += 4 {
		assert.Equal(t, a.Pixels[i], a.Pixels[i+1])
		assert.Equal(t, a.Pixels[i], a.Pixels[i+2])
		assert.Equal(t, byte(255), a.Pixels[i+3])
	}

	empty := ProceduralHeightMap(0, -3, 0, 1)
	assert.Equal(t, uint32(1), empty.Width)
	assert.Equal(t, uint32(1), empty.Height)
}

func TestLoader_LoadsFromDirectory(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "grid.png"), encodePNG(t, 2, 2, color.RGBA{G: 255, A: 255}), 0o644))

	l := NewLoader(dir, WithLogger(quietLogger()), WithWorkers(1))
	defer l.Close()

	l.LoadTexture(SlotGrid, "grid.png", KindColor)
	res := receive(t, l)

	require.NoError(t, res.Err)
	assert.Equal(t, SlotGrid, res.Slot)
	assert.Equal(t, "grid.png", res.Name)
	assert.Equal(t, uint32(2), res.Data.Width)
	assert.Equal(t, []byte{0, 255, 0, 255}, res.Data.Pixels[:4])
}

func TestLoader_MissingFileIsNonFatal(t *testing.T) {
	l := NewLoader(t.TempDir(), WithLogger(quietLogger()))
	defer l.Close()

	l.LoadAll(DefaultTextures())
	l.Wait()

	seen := map[Slot]bool{}
	for range DefaultTextures() {
		res := receive(t, l)
		assert.ErrorIs(t, res.Err, os.ErrNotExist)
		assert.Empty(t, res.Data.Pixels)
		seen[res.Slot] = true
	}
	assert.Len(t, seen, 4)
}

func TestLoader_ProceduralHeightFallback(t *testing.T) {
	l := NewLoader(t.TempDir(), WithLogger(quietLogger()), WithProceduralTerrain(true, 7))
	defer l.Close()

	l.LoadTexture(SlotHeight, "terrain_data.webp", KindHeight)
	res := receive(t, l)

	require.NoError(t, res.Err)
	assert.Equal(t, uint32(512), res.Data.Width)
	assert.True(t, res.Data.Linear)
}

func TestLoader_ProceduralOnlyForHeight(t *testing.T) {
	l := NewLoader(t.TempDir(), WithLogger(quietLogger()), WithProceduralTerrain(true, 7))
	defer l.Close()

	l.LoadTexture(SlotGrid, "grid.webp", KindColor)
	res := receive(t, l)
	assert.Error(t, res.Err)
}

func TestLoader_CorruptFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "skybox.webp"), []byte("RIFF junk"), 0o644))

	l := NewLoader(dir, WithLogger(quietLogger()))
	defer l.Close()

	l.LoadTexture(SlotSkybox, "skybox.webp", KindColor)
	res := receive(t, l)
	assert.Error(t, res.Err)
	assert.Equal(t, SlotSkybox, res.Slot)
}

func TestLoader_CloseIsIdempotent(t *testing.T) {
	l := NewLoader(t.TempDir(), WithLogger(quietLogger()))
	l.Close()
	l.Close()

	l.LoadTexture(SlotGrid, "grid.webp", KindColor)
	select {
	case <-l.Results():
		t.Fatal("closed loader delivered a result")
	case <-time.After(50 * time.Millisecond):
	}
}
