package terrain

import "github.com/Carmen-Shannon/oxy-horizon/common"

// Vertex is the interleaved vertex layout of the terrain mesh, 32 bytes.
type Vertex struct {
	Position [3]float32
	Normal   [3]float32
	UV       [2]float32
}

// Geometry is a CPU-side indexed triangle mesh.
type Geometry struct {
	Vertices []Vertex
	Indices  []uint32
}

// NewPlaneGeometry builds a plane in the local XY plane facing +Z and centred on the origin.
// Vertices run row by row from the top edge (+Y) down, so uv (0,0) is the top-left corner.
//
// Parameters:
//   - width: extent along X
//   - height: extent along Y
//   - segX: number of segments along X, at least 1
//   - segY: number of segments along Y, at least 1
//
// Returns:
//   - Geometry: (segX+1)*(segY+1) vertices and segX*segY*6 counter-clockwise indices
func NewPlaneGeometry(width, height float32, segX, segY int) Geometry {
	segX = max(segX, 1)
	segY = max(segY, 1)

	segW := width / float32(segX)
	segH := height / float32(segY)
	halfW := width / 2
	halfH := height / 2

	g := Geometry{
		Vertices: make([]Vertex, 0, (segX+1)*(segY+1)),
		Indices:  make([]uint32, 0, segX*segY*6),
	}

	for iy := 0; iy <= segY; iy++ {
		y := halfH - float32(iy)*segH
		for ix := 0; ix <= segX; ix++ {
			g.Vertices = append(g.Vertices, Vertex{
				Position: [3]float32{float32(ix)*segW - halfW, y, 0},
				Normal:   [3]float32{0, 0, 1},
				UV:       [2]float32{float32(ix) / float32(segX), float32(iy) / float32(segY)},
			})
		}
	}

	row := uint32(segX + 1)
	for iy := 0; iy < segY; iy++ {
		for ix := 0; ix < segX; ix++ {
			a := uint32(ix) + row*uint32(iy)
			b := uint32(ix) + row*uint32(iy+1)
			c := uint32(ix+1) + row*uint32(iy+1)
			d := uint32(ix+1) + row*uint32(iy)
			g.Indices = append(g.Indices, a, b, d, b, c, d)
		}
	}
	return g
}

// DefaultGeometry is the terrain tile: 1 wide, 2 long, 24x24 segments.
func DefaultGeometry() Geometry {
	return NewPlaneGeometry(1, 2, 24, 24)
}

func (g Geometry) VertexBytes() []byte {
	return common.SliceToBytes(g.Vertices)
}

func (g Geometry) IndexBytes() []byte {
	return common.SliceToBytes(g.Indices)
}

func (g Geometry) VertexCount() int {
	return len(g.Vertices)
}

func (g Geometry) IndexCount() int {
	return len(g.Indices)
}
