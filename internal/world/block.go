package world

import (
	"github.com/go-gl/mathgl/mgl32"
)

// BlockID indexes the block catalog.
type BlockID uint16

// Voxel is a single grid cell. It carries nothing but its block ID.
type Voxel struct {
	ID BlockID
}

// BlockFace identifies a face of a block
type BlockFace int

const (
	FaceEast   BlockFace = iota // +X
	FaceWest                    // -X
	FaceNorth                   // +Z
	FaceSouth                   // -Z
	FaceTop                     // +Y
	FaceBottom                  // -Y
)

// NumFaces is the number of faces on a block.
const NumFaces = 6

// Faces lists every face in emission order.
var Faces = [NumFaces]BlockFace{FaceEast, FaceWest, FaceNorth, FaceSouth, FaceTop, FaceBottom}

// faceBasis holds the outward normal and the two in-plane tangents of a face.
// Side and top faces have tangent×bitangent == -normal; the bottom face is the
// one with the opposite handedness.
type faceBasis struct {
	normal    mgl32.Vec3
	tangent   mgl32.Vec3
	bitangent mgl32.Vec3
	offset    [3]int
}

var faceBases = [NumFaces]faceBasis{
	FaceEast:   {normal: mgl32.Vec3{1, 0, 0}, tangent: mgl32.Vec3{0, 0, 1}, bitangent: mgl32.Vec3{0, 1, 0}, offset: [3]int{1, 0, 0}},
	FaceWest:   {normal: mgl32.Vec3{-1, 0, 0}, tangent: mgl32.Vec3{0, 0, -1}, bitangent: mgl32.Vec3{0, 1, 0}, offset: [3]int{-1, 0, 0}},
	FaceNorth:  {normal: mgl32.Vec3{0, 0, 1}, tangent: mgl32.Vec3{-1, 0, 0}, bitangent: mgl32.Vec3{0, 1, 0}, offset: [3]int{0, 0, 1}},
	FaceSouth:  {normal: mgl32.Vec3{0, 0, -1}, tangent: mgl32.Vec3{1, 0, 0}, bitangent: mgl32.Vec3{0, 1, 0}, offset: [3]int{0, 0, -1}},
	FaceTop:    {normal: mgl32.Vec3{0, 1, 0}, tangent: mgl32.Vec3{1, 0, 0}, bitangent: mgl32.Vec3{0, 0, 1}, offset: [3]int{0, 1, 0}},
	FaceBottom: {normal: mgl32.Vec3{0, -1, 0}, tangent: mgl32.Vec3{-1, 0, 0}, bitangent: mgl32.Vec3{0, 0, -1}, offset: [3]int{0, -1, 0}},
}

// Normal returns the outward unit normal of the face.
func (f BlockFace) Normal() mgl32.Vec3 {
	return faceBases[f].normal
}

// Tangents returns the two unit vectors spanning the face plane.
func (f BlockFace) Tangents() (mgl32.Vec3, mgl32.Vec3) {
	b := faceBases[f]
	return b.tangent, b.bitangent
}

// Offset returns the integer step from a cell to its neighbour across the face.
func (f BlockFace) Offset() (dx, dy, dz int) {
	o := faceBases[f].offset
	return o[0], o[1], o[2]
}

// MirroredWinding reports whether the face's tangent basis has reversed
// handedness, so its triangles need the mirrored index order.
func (f BlockFace) MirroredWinding() bool {
	return f == FaceBottom
}

func (f BlockFace) String() string {
	switch f {
	case FaceEast:
		return "east"
	case FaceWest:
		return "west"
	case FaceNorth:
		return "north"
	case FaceSouth:
		return "south"
	case FaceTop:
		return "top"
	case FaceBottom:
		return "bottom"
	default:
		return "unknown"
	}
}
