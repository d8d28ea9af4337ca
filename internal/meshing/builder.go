package meshing

import (
	"fmt"
	"strings"

	"chunkmesh/internal/atlas"
	"chunkmesh/internal/world"

	"github.com/go-gl/mathgl/mgl32"
)

// Winding selects which triangle vertex order counts as front-facing.
type Winding int

const (
	// CounterClockwise makes triangles appear counter-clockwise when viewed
	// from outside the block (OpenGL default front face).
	CounterClockwise Winding = iota
	// Clockwise is the reverse convention.
	Clockwise
)

func (w Winding) String() string {
	if w == Clockwise {
		return "cw"
	}
	return "ccw"
}

// ParseWinding accepts "ccw" or "cw" (case-insensitive).
func ParseWinding(s string) (Winding, error) {
	switch strings.ToLower(s) {
	case "", "ccw", "counterclockwise", "counter-clockwise":
		return CounterClockwise, nil
	case "cw", "clockwise":
		return Clockwise, nil
	default:
		return CounterClockwise, fmt.Errorf("unknown winding %q", s)
	}
}

// Quad corners are emitted in the order (-u,+v), (+u,+v), (-u,-v), (+u,-v)
// where u and v are the face tangents.
var cornerSigns = [VerticesPerFace][2]float32{
	{-1, +1},
	{+1, +1},
	{-1, -1},
	{+1, -1},
}

// Triangle index patterns, relative to the first vertex of the quad, that
// produce counter-clockwise front faces. Faces whose tangent basis has
// reversed handedness use the mirrored pattern.
var (
	quadIndices         = [IndicesPerFace]uint32{0, 3, 2, 0, 1, 3}
	mirroredQuadIndices = [IndicesPerFace]uint32{0, 2, 3, 0, 3, 1}
)

// Builder writes one quad per visible face into a pre-sized ChunkMesh.
// A Builder is stateless apart from its settings and may be shared.
type Builder struct {
	layout   atlas.Layout
	cellSize float32
	winding  Winding
}

// NewBuilder creates a builder for the given atlas layout, cell edge length
// and winding convention.
func NewBuilder(layout atlas.Layout, cellSize float32, winding Winding) *Builder {
	if cellSize <= 0 {
		cellSize = 1
	}
	return &Builder{layout: layout, cellSize: cellSize, winding: winding}
}

// indexPattern returns the six relative indices for a face under the
// builder's winding convention.
func (b *Builder) indexPattern(face world.BlockFace) [IndicesPerFace]uint32 {
	p := quadIndices
	if face.MirroredWinding() {
		p = mirroredQuadIndices
	}
	if b.winding == Clockwise {
		p[1], p[2] = p[2], p[1]
		p[4], p[5] = p[5], p[4]
	}
	return p
}

// WriteFace writes the quad for one face of the voxel at (x, y, z) into slot
// faceIndex of m.
func (b *Builder) WriteFace(m *ChunkMesh, faceIndex int, x, y, z int, face world.BlockFace, cell atlas.Cell) {
	half := b.cellSize / 2
	normal := face.Normal()
	tangent, bitangent := face.Tangents()

	center := mgl32.Vec3{
		(float32(x) + 0.5) * b.cellSize,
		(float32(y) + 0.5) * b.cellSize,
		(float32(z) + 0.5) * b.cellSize,
	}
	faceCenter := center.Add(normal.Mul(half))

	v0 := faceIndex * VerticesPerFace
	for i, s := range cornerSigns {
		m.Vertices[v0+i] = faceCenter.Add(tangent.Mul(s[0] * half)).Add(bitangent.Mul(s[1] * half))
		m.Normals[v0+i] = normal
		m.UVs[v0+i] = b.layout.Corner(cell, int(s[0]+1)/2, int(s[1]+1)/2)
	}

	i0 := faceIndex * IndicesPerFace
	for i, rel := range b.indexPattern(face) {
		m.Indices[i0+i] = uint32(v0) + rel
	}
}

// buildRange emits quads for the z-slabs [z0, z1) starting at faceIndex and
// returns the next free face slot.
func (b *Builder) buildRange(m *ChunkMesh, grid *world.Grid, table blockTable, vis *FaceVisibility, z0, z1, faceIndex int) int {
	for z := z0; z < z1; z++ {
		for y := range world.ChunkSize {
			for x := range world.ChunkSize {
				mask := vis.masks[world.Index(x, y, z)]
				if mask == 0 {
					continue
				}
				info := &table[grid.Get(x, y, z)]
				for _, f := range world.Faces {
					if mask&(1<<f) == 0 {
						continue
					}
					b.WriteFace(m, faceIndex, x, y, z, f, info.cells[f])
					faceIndex++
				}
			}
		}
	}
	return faceIndex
}
