package meshing

import (
	"errors"
	"fmt"

	"github.com/go-gl/mathgl/mgl32"
)

const (
	// VerticesPerFace is the number of vertices emitted per visible face.
	VerticesPerFace = 4
	// IndicesPerFace is the number of indices emitted per visible face (two triangles).
	IndicesPerFace = 6
	// VertexStride is number of float32 per interleaved vertex (pos.xyz + normal.xyz + uv)
	VertexStride = 8
)

// ErrMalformedMesh is returned by Validate when the buffers break their invariants.
var ErrMalformedMesh = errors.New("malformed chunk mesh")

// ChunkMesh holds the geometry of one chunk. Vertices, UVs and Normals share
// the same per-vertex ordering; Indices holds triangle triples into them.
type ChunkMesh struct {
	Vertices []mgl32.Vec3
	Indices  []uint32
	UVs      []mgl32.Vec2
	Normals  []mgl32.Vec3
}

func newChunkMesh(faces int) *ChunkMesh {
	return &ChunkMesh{
		Vertices: make([]mgl32.Vec3, faces*VerticesPerFace),
		Indices:  make([]uint32, faces*IndicesPerFace),
		UVs:      make([]mgl32.Vec2, faces*VerticesPerFace),
		Normals:  make([]mgl32.Vec3, faces*VerticesPerFace),
	}
}

// FaceCount returns the number of quads in the mesh.
func (m *ChunkMesh) FaceCount() int {
	return len(m.Vertices) / VerticesPerFace
}

// IsEmpty reports whether the mesh has no geometry.
func (m *ChunkMesh) IsEmpty() bool {
	return len(m.Vertices) == 0
}

// Validate checks the buffer length parity and that every index is in range.
func (m *ChunkMesh) Validate() error {
	faces := m.FaceCount()
	switch {
	case len(m.Vertices)%VerticesPerFace != 0:
		return fmt.Errorf("%w: %d vertices is not a multiple of %d", ErrMalformedMesh, len(m.Vertices), VerticesPerFace)
	case len(m.Indices) != faces*IndicesPerFace:
		return fmt.Errorf("%w: %d indices for %d faces", ErrMalformedMesh, len(m.Indices), faces)
	case len(m.UVs) != len(m.Vertices):
		return fmt.Errorf("%w: %d uvs for %d vertices", ErrMalformedMesh, len(m.UVs), len(m.Vertices))
	case len(m.Normals) != len(m.Vertices):
		return fmt.Errorf("%w: %d normals for %d vertices", ErrMalformedMesh, len(m.Normals), len(m.Vertices))
	}
	for i, idx := range m.Indices {
		if int(idx) >= len(m.Vertices) {
			return fmt.Errorf("%w: index %d at %d out of range", ErrMalformedMesh, idx, i)
		}
	}
	return nil
}

// Interleaved packs the vertex attributes into one stream of VertexStride
// floats per vertex, ready for a single vertex buffer.
func (m *ChunkMesh) Interleaved() []float32 {
	out := make([]float32, 0, len(m.Vertices)*VertexStride)
	for i, p := range m.Vertices {
		n := m.Normals[i]
		uv := m.UVs[i]
		out = append(out, p[0], p[1], p[2], n[0], n[1], n[2], uv[0], uv[1])
	}
	return out
}
