package light

import (
	_ "embed"
	"encoding/binary"
	"math"
	"unsafe"
)

// MaxSpotLights is the number of spot light slots in the light uniform.
const MaxSpotLights = 2

// GPULightUniformSource is the WGSL definition of the SpotLight and LightUniform structs,
// prepended to every shader that binds the lights at group 1.
//
//go:embed assets/light_uniform.wgsl
var GPULightUniformSource string

// GPUSpotLight matches the WGSL SpotLight struct.
// Size: 64 bytes.
type GPUSpotLight struct {
	Position    [3]float32 // offset  0
	Intensity   float32    // offset 12
	Direction   [3]float32 // offset 16
	Distance    float32    // offset 28
	Color       [3]float32 // offset 32
	ConeCos     float32    // offset 44
	PenumbraCos float32    // offset 48
	Decay       float32    // offset 52
	_           [2]float32 // offset 56: pad0
}

// GPULightUniform matches the WGSL LightUniform struct: ambient term, fog and the spot lights.
// Size: 176 bytes.
type GPULightUniform struct {
	AmbientColor     [3]float32                  // offset  0
	AmbientIntensity float32                     // offset 12
	FogColor         [3]float32                  // offset 16
	FogNear          float32                     // offset 28
	FogFar           float32                     // offset 32
	SpotCount        uint32                      // offset 36
	_                [2]float32                  // offset 40: pad0
	Spots            [MaxSpotLights]GPUSpotLight // offset 48
}

// Size returns the size of the GPULightUniform struct in bytes.
//
// Returns:
//   - int: the struct size in bytes (176)
func (g *GPULightUniform) Size() int {
	return int(unsafe.Sizeof(*g))
}

// Marshal serializes the GPULightUniform struct into a byte buffer suitable for GPU upload.
//
// Returns:
//   - []byte: the serialized byte buffer
func (g *GPULightUniform) Marshal() []byte {
	buf := make([]byte, g.Size())
	putVec3 := func(offset int, v [3]float32) {
		for i := range 3 {
			binary.LittleEndian.PutUint32(buf[offset+i*4:], math.Float32bits(v[i]))
		}
	}
	putF32 := func(offset int, v float32) {
		binary.LittleEndian.PutUint32(buf[offset:], math.Float32bits(v))
	}

	putVec3(0, g.AmbientColor)
	putF32(12, g.AmbientIntensity)
	putVec3(16, g.FogColor)
	putF32(28, g.FogNear)
	putF32(32, g.FogFar)
	binary.LittleEndian.PutUint32(buf[36:], g.SpotCount)

	for i, s := range g.Spots {
		base := 48 + i*64
		putVec3(base, s.Position)
		putF32(base+12, s.Intensity)
		putVec3(base+16, s.Direction)
		putF32(base+28, s.Distance)
		putVec3(base+32, s.Color)
		putF32(base+44, s.ConeCos)
		putF32(base+48, s.PenumbraCos)
		putF32(base+52, s.Decay)
	}
	return buf
}
