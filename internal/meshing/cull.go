package meshing

import (
	"fmt"

	"chunkmesh/internal/atlas"
	"chunkmesh/internal/registry"
	"chunkmesh/internal/world"
)

// BlockSource is the catalog view the mesher needs.
type BlockSource interface {
	Len() int
	Descriptor(id world.BlockID) (registry.Descriptor, error)
	Layout() atlas.Layout
}

type blockClass uint8

const (
	classAir blockClass = iota
	classTransparent
	classOpaque
)

type blockInfo struct {
	class       blockClass
	transparent bool
	cells       [world.NumFaces]atlas.Cell
}

// blockTable is a per-rebuild snapshot of the catalog indexed by block ID.
type blockTable []blockInfo

func newBlockTable(blocks BlockSource) (blockTable, error) {
	t := make(blockTable, blocks.Len())
	for i := range t {
		d, err := blocks.Descriptor(world.BlockID(i))
		if err != nil {
			return nil, err
		}
		switch {
		case d.IsAir():
			t[i].class = classAir
		case d.Transparent:
			t[i].class = classTransparent
		default:
			t[i].class = classOpaque
		}
		t[i].transparent = d.Transparent
		for _, f := range world.Faces {
			t[i].cells[f] = d.CellFor(f)
		}
	}
	return t, nil
}

// seeThrough reports whether a neighbour lets its adjacent face show. Only the
// transparency flag counts, so an air entry flagged opaque hides faces.
func (t blockTable) seeThrough(id world.BlockID) bool {
	return t[id].transparent
}

// FaceVisibility is the derived per-voxel, per-face visibility grid. Each voxel
// stores a 6-bit mask indexed by world.BlockFace.
type FaceVisibility struct {
	masks []uint8
}

func newFaceVisibility() *FaceVisibility {
	return &FaceVisibility{masks: make([]uint8, world.ChunkVolume)}
}

// Visible reports whether the given face of the voxel at (x, y, z) is drawn.
func (v *FaceVisibility) Visible(x, y, z int, face world.BlockFace) bool {
	return v.masks[world.Index(x, y, z)]&(1<<face) != 0
}

// VisibleFaces returns how many faces of the voxel at (x, y, z) are drawn.
func (v *FaceVisibility) VisibleFaces(x, y, z int) int {
	return popcount6(v.masks[world.Index(x, y, z)])
}

// Count returns the total number of visible faces.
func (v *FaceVisibility) Count() int {
	return v.countRange(0, world.ChunkSize)
}

// countRange counts visible faces in z-slabs [z0, z1).
func (v *FaceVisibility) countRange(z0, z1 int) int {
	n := 0
	for _, m := range v.masks[world.Index(0, 0, z0):world.Index(0, 0, z1)] {
		n += popcount6(m)
	}
	return n
}

func popcount6(m uint8) int {
	n := 0
	for ; m != 0; m &= m - 1 {
		n++
	}
	return n
}

const allFaces = uint8(1<<world.NumFaces - 1)

// Cull computes face visibility for every voxel of the grid:
// air shows no faces, transparent blocks show all six, and an opaque block
// shows a face when the neighbour across it is transparent or outside the grid.
func Cull(grid *world.Grid, blocks BlockSource) (*FaceVisibility, error) {
	table, err := newBlockTable(blocks)
	if err != nil {
		return nil, err
	}
	vis := newFaceVisibility()
	if err := cullRange(grid, table, vis, 0, world.ChunkSize); err != nil {
		return nil, err
	}
	return vis, nil
}

// cullRange fills vis for the z-slabs [z0, z1). It only writes masks inside
// that range, so disjoint ranges may run concurrently.
func cullRange(grid *world.Grid, table blockTable, vis *FaceVisibility, z0, z1 int) error {
	for z := z0; z < z1; z++ {
		for y := range world.ChunkSize {
			for x := range world.ChunkSize {
				id := grid.Get(x, y, z)
				if int(id) >= len(table) {
					return fmt.Errorf("%w: %d at (%d,%d,%d)", registry.ErrInvalidBlockID, id, x, y, z)
				}

				var mask uint8
				switch table[id].class {
				case classAir:
				case classTransparent:
					mask = allFaces
				default:
					for _, f := range world.Faces {
						dx, dy, dz := f.Offset()
						nx, ny, nz := x+dx, y+dy, z+dz
						if !world.InBounds(nx, ny, nz) {
							mask |= 1 << f
							continue
						}
						nid := grid.Get(nx, ny, nz)
						if int(nid) >= len(table) {
							return fmt.Errorf("%w: %d at (%d,%d,%d)", registry.ErrInvalidBlockID, nid, nx, ny, nz)
						}
						if table.seeThrough(nid) {
							mask |= 1 << f
						}
					}
				}
				vis.masks[world.Index(x, y, z)] = mask
			}
		}
	}
	return nil
}
