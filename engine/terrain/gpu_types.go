package terrain

import (
	"encoding/binary"
	"math"
	"unsafe"
)

// Material holds the scalar surface parameters of the terrain.
type Material struct {
	DisplacementScale float32
	DisplacementBias  float32
	Metalness         float32
	Roughness         float32
}

// DefaultMaterial returns the synthwave terrain surface: strongly displaced, fully metallic.
func DefaultMaterial() Material {
	return Material{
		DisplacementScale: 0.6,
		DisplacementBias:  0,
		Metalness:         1,
		Roughness:         0.65,
	}
}

// GPU returns the uniform representation of the material.
func (m Material) GPU() GPUMaterialUniform {
	return GPUMaterialUniform(m)
}

// GPUMaterialUniform matches the WGSL Material struct in terrain.wgsl.
// Size: 16 bytes.
type GPUMaterialUniform struct {
	DisplacementScale float32 // offset  0
	DisplacementBias  float32 // offset  4
	Metalness         float32 // offset  8
	Roughness         float32 // offset 12
}

// Size returns the size of the GPUMaterialUniform struct in bytes.
//
// Returns:
//   - int: the struct size in bytes (16)
func (g *GPUMaterialUniform) Size() int {
	return int(unsafe.Sizeof(*g))
}

// Marshal serializes the GPUMaterialUniform struct into a byte buffer suitable for GPU upload.
//
// Returns:
//   - []byte: the serialized byte buffer
func (g *GPUMaterialUniform) Marshal() []byte {
	buf := make([]byte, g.Size())
	binary.LittleEndian.PutUint32(buf[0:], math.Float32bits(g.DisplacementScale))
	binary.LittleEndian.PutUint32(buf[4:], math.Float32bits(g.DisplacementBias))
	binary.LittleEndian.PutUint32(buf[8:], math.Float32bits(g.Metalness))
	binary.LittleEndian.PutUint32(buf[12:], math.Float32bits(g.Roughness))
	return buf
}

// GPUTileUniform holds one model matrix per tile, indexed by instance in the vertex shader.
// Unused slots are ignored since only TileCount instances are drawn.
// Size: 256 bytes.
type GPUTileUniform struct {
	Models [MaxTiles][16]float32
}

// Size returns the size of the GPUTileUniform struct in bytes.
func (g *GPUTileUniform) Size() int {
	return int(unsafe.Sizeof(*g))
}

// Marshal serializes the tile matrices, column-major, for GPU upload.
func (g *GPUTileUniform) Marshal() []byte {
	buf := make([]byte, g.Size())
	for t := range MaxTiles {
		for i := range 16 {
			binary.LittleEndian.PutUint32(buf[(t*16+i)*4:], math.Float32bits(g.Models[t][i]))
		}
	}
	return buf
}
