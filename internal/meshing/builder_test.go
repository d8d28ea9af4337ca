package meshing

import (
	"math"
	"testing"

	"chunkmesh/internal/atlas"
	"chunkmesh/internal/world"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// triangleNormal returns the unit geometric normal (b-a)x(c-a) of triangle t.
func triangleNormal(m *ChunkMesh, t int) mgl32.Vec3 {
	a := m.Vertices[m.Indices[t*3]]
	b := m.Vertices[m.Indices[t*3+1]]
	c := m.Vertices[m.Indices[t*3+2]]
	return b.Sub(a).Cross(c.Sub(a)).Normalize()
}

func singleFaceMesh(b *Builder, x, y, z int, face world.BlockFace, cell atlas.Cell) *ChunkMesh {
	m := newChunkMesh(1)
	b.WriteFace(m, 0, x, y, z, face, cell)
	return m
}

func TestWriteFaceGeometry(t *testing.T) {
	b := NewBuilder(atlas.DefaultLayout(), 1, CounterClockwise)
	for _, f := range world.Faces {
		t.Run(f.String(), func(t *testing.T) {
			m := singleFaceMesh(b, 3, 4, 5, f, atlas.Cell{})
			center := mgl32.Vec3{3.5, 4.5, 5.5}.Add(f.Normal().Mul(0.5))

			var sum mgl32.Vec3
			for i, v := range m.Vertices {
				sum = sum.Add(v)
				// Every corner lies on the face plane, half a cell from its centre on both tangents.
				assert.InDelta(t, 0, v.Sub(center).Dot(f.Normal()), 1e-6)
				assert.InDelta(t, 0.5*math.Sqrt2, v.Sub(center).Len(), 1e-5)
				assert.Equal(t, f.Normal(), m.Normals[i])
			}
			assert.True(t, sum.Mul(0.25).ApproxEqual(center))
		})
	}
}

func TestWindingIsOutwardForEveryFace(t *testing.T) {
	for _, w := range []Winding{CounterClockwise, Clockwise} {
		b := NewBuilder(atlas.DefaultLayout(), 1, w)
		for _, f := range world.Faces {
			m := singleFaceMesh(b, 0, 0, 0, f, atlas.Cell{})
			want := f.Normal()
			if w == Clockwise {
				want = want.Mul(-1)
			}
			for tri := 0; tri < 2; tri++ {
				assert.Truef(t, triangleNormal(m, tri).ApproxEqualThreshold(want, 1e-5),
					"%s face, %s winding, triangle %d: got %v want %v", f, w, tri, triangleNormal(m, tri), want)
			}
		}
	}
}

func TestMirroredWindingOnlyOnBottom(t *testing.T) {
	for _, f := range world.Faces {
		u, v := f.Tangents()
		handedness := u.Cross(v).Dot(f.Normal())
		if f.MirroredWinding() {
			assert.InDelta(t, 1, handedness, 1e-6, f.String())
		} else {
			assert.InDelta(t, -1, handedness, 1e-6, f.String())
		}
	}
}

func TestWriteFaceUVs(t *testing.T) {
	layout := atlas.DefaultLayout()
	b := NewBuilder(layout, 1, CounterClockwise)
	cell := atlas.Cell{U: 1, V: 0}
	m := singleFaceMesh(b, 0, 0, 0, world.FaceNorth, cell)

	span := layout.CellSpan()
	want := []mgl32.Vec2{
		{1 * span, 1 * span}, // (-u,+v)
		{2 * span, 1 * span}, // (+u,+v)
		{1 * span, 0},        // (-u,-v)
		{2 * span, 0},        // (+u,-v)
	}
	for i := range want {
		assert.Truef(t, m.UVs[i].ApproxEqual(want[i]), "corner %d: got %v want %v", i, m.UVs[i], want[i])
	}
}

func TestWriteFaceCellSize(t *testing.T) {
	b := NewBuilder(atlas.DefaultLayout(), 0.5, CounterClockwise)
	m := singleFaceMesh(b, 1, 0, 0, world.FaceTop, atlas.Cell{})

	var sum mgl32.Vec3
	for _, v := range m.Vertices {
		sum = sum.Add(v)
	}
	assert.True(t, sum.Mul(0.25).ApproxEqual(mgl32.Vec3{0.75, 0.5, 0.25}))
}

func TestWriteFaceIndicesOffsetBySlot(t *testing.T) {
	b := NewBuilder(atlas.DefaultLayout(), 1, CounterClockwise)
	m := newChunkMesh(3)
	b.WriteFace(m, 2, 0, 0, 0, world.FaceEast, atlas.Cell{})

	for _, idx := range m.Indices[12:] {
		assert.GreaterOrEqual(t, idx, uint32(8))
		assert.Less(t, idx, uint32(12))
	}
	require.NoError(t, m.Validate())
}

func TestParseWinding(t *testing.T) {
	w, err := ParseWinding("CW")
	require.NoError(t, err)
	assert.Equal(t, Clockwise, w)

	w, err = ParseWinding("")
	require.NoError(t, err)
	assert.Equal(t, CounterClockwise, w)

	_, err = ParseWinding("sideways")
	assert.Error(t, err)
}
