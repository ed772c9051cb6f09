package common

import (
	"fmt"

	colorful "github.com/lucasb-eyer/go-colorful"
)

// Scene palette.
const (
	Black     = "#000000"
	Pink      = "#ed11ff"
	Turquoise = "#26ead7"
)

// ParseHexColor parses a "#rrggbb" color and returns its linear-light RGB components,
// which is the space lighting and fog are computed in.
//
// Parameters:
//   - hex: the color in CSS hex notation
//
// Returns:
//   - [3]float32: linear RGB in [0, 1]
//   - error: an error if hex is not a valid color
func ParseHexColor(hex string) ([3]float32, error) {
	c, err := colorful.Hex(hex)
	if err != nil {
		return [3]float32{}, fmt.Errorf("invalid color %q: %w", hex, err)
	}
	r, g, b := c.LinearRgb()
	return [3]float32{float32(r), float32(g), float32(b)}, nil
}

// MustParseHexColor is ParseHexColor for compile-time constants. It panics on malformed input.
func MustParseHexColor(hex string) [3]float32 {
	c, err := ParseHexColor(hex)
	if err != nil {
		panic(err)
	}
	return c
}
