// Package assets decodes the scene's textures off the frame loop.
//
// Loads never block the first frame: every texture starts out as a one-texel fallback and is
// swapped in when its decode finishes. A missing or undecodable file only produces a warning.
package assets

import (
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"math"

	"github.com/Carmen-Shannon/oxy-horizon/common"
	"github.com/aquilax/go-perlin"
	"github.com/disintegration/gift"
	_ "golang.org/x/image/webp"
)

// Kind tells the decoder how a texture is sampled.
type Kind int

const (
	// KindColor is an sRGB colour texture.
	KindColor Kind = iota
	// KindData is a linear data texture such as a metalness map.
	KindData
	// KindHeight is a linear height map, optionally blurred after decoding.
	KindHeight
)

func (k Kind) String() string {
	switch k {
	case KindColor:
		return "color"
	case KindData:
		return "data"
	case KindHeight:
		return "height"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// Linear reports whether textures of this kind skip sRGB decoding when sampled.
func (k Kind) Linear() bool {
	return k != KindColor
}

// Slot names the scene binding a texture is loaded for.
type Slot int

const (
	SlotGrid Slot = iota
	SlotHeight
	SlotMetalness
	SlotSkybox
)

func (s Slot) String() string {
	switch s {
	case SlotGrid:
		return "grid"
	case SlotHeight:
		return "height"
	case SlotMetalness:
		return "metalness"
	case SlotSkybox:
		return "skybox"
	default:
		return fmt.Sprintf("Slot(%d)", int(s))
	}
}

// Kind returns the decode kind of the slot.
func (s Slot) Kind() Kind {
	switch s {
	case SlotHeight:
		return KindHeight
	case SlotMetalness:
		return KindData
	default:
		return KindColor
	}
}

// TextureRequest is one file to load into a slot.
type TextureRequest struct {
	Slot Slot
	Name string
}

// DefaultTextures is the fixed texture set of the scene, relative to the asset directory.
func DefaultTextures() []TextureRequest {
	return []TextureRequest{
		{Slot: SlotGrid, Name: "grid.webp"},
		{Slot: SlotHeight, Name: "terrain_data.webp"},
		{Slot: SlotMetalness, Name: "shinystuff.webp"},
		{Slot: SlotSkybox, Name: "skybox.webp"},
	}
}

// TextureResult is a finished load. When Err is set Data is empty and the slot keeps its
// fallback.
type TextureResult struct {
	Slot Slot
	Name string
	Data common.TextureStagingData
	Err  error
}

// Fallback returns the single texel a slot of the given kind shows until its texture loads:
// black colour, flat height and full data.
//
// Parameters:
//   - kind: the texture kind
//
// Returns:
//   - common.TextureStagingData: a 1x1 texture
func Fallback(kind Kind) common.TextureStagingData {
	switch kind {
	case KindData:
		return common.SolidTexture(255, 255, 255, 255, true)
	case KindHeight:
		return common.SolidTexture(0, 0, 0, 255, true)
	default:
		return common.SolidTexture(0, 0, 0, 255, false)
	}
}

// DecodeOptions controls post-processing of a decoded image.
type DecodeOptions struct {
	// MaxSize bounds the longer side, larger images are downscaled keeping their aspect ratio.
	// Zero disables the bound.
	MaxSize int
	// HeightBlur is the Gaussian sigma applied to height maps. Zero disables the blur.
	HeightBlur float32
}

// DecodeTexture decodes a WebP, PNG or JPEG image into RGBA staging data.
//
// Parameters:
//   - r: the encoded image
//   - kind: the texture kind, selecting colour space and height blur
//   - opts: resize and blur settings
//
// Returns:
//   - common.TextureStagingData: the RGBA pixels
//   - error: an error if the image cannot be decoded
func DecodeTexture(r io.Reader, kind Kind, opts DecodeOptions) (common.TextureStagingData, error) {
	src, format, err := image.Decode(r)
	if err != nil {
		return common.TextureStagingData{}, fmt.Errorf("decode: %w", err)
	}

	g := gift.New()
	b := src.Bounds()
	if opts.MaxSize > 0 && max(b.Dx(), b.Dy()) > opts.MaxSize {
		if b.Dx() >= b.Dy() {
			g.Add(gift.Resize(opts.MaxSize, 0, gift.LanczosResampling))
		} else {
			g.Add(gift.Resize(0, opts.MaxSize, gift.LanczosResampling))
		}
	}
	if kind == KindHeight && opts.HeightBlur > 0 {
		g.Add(gift.GaussianBlur(opts.HeightBlur))
	}

	dst := image.NewRGBA(g.Bounds(b))
	g.Draw(dst, src)
	if dst.Bounds().Empty() {
		return common.TextureStagingData{}, fmt.Errorf("decode: empty %s image", format)
	}

	return common.TextureStagingData{
		Pixels: dst.Pix,
		Width:  uint32(dst.Bounds().Dx()),
		Height: uint32(dst.Bounds().Dy()),
		Linear: kind.Linear(),
	}, nil
}

// ProceduralHeightMap generates a grey Perlin height field, used when the height map file is
// missing and procedural terrain is enabled.
//
// Parameters:
//   - width, height: the map size in pixels, clamped to at least 1
//   - scale: noise feature size in pixels, smaller gives more detail
//   - seed: the noise seed
//
// Returns:
//   - common.TextureStagingData: a linear RGBA height map
func ProceduralHeightMap(width, height int, scale float64, seed int64) common.TextureStagingData {
	width = max(width, 1)
	height = max(height, 1)
	if scale <= 0 {
		scale = 1
	}

	p := perlin.NewPerlin(2.0, 2.0, 3, seed)
	pix := make([]byte, width*height*4)
	for y := range height {
		for x := range width {
			v := (p.Noise2D(float64(x)/scale, float64(y)/scale) + 1.0) / 2.0
			grey := uint8(math.Max(0, math.Min(255, v*255)))
			i := (y*width + x) * 4
			pix[i], pix[i+1], pix[i+2], pix[i+3] = grey, grey, grey, 255
		}
	}

	return common.TextureStagingData{
		Pixels: pix,
		Width:  uint32(width),
		Height: uint32(height),
		Linear: true,
	}
}
