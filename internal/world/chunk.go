package world

import (
	"errors"
	"fmt"
)

const (
	// ChunkSize is the edge length of a chunk in blocks.
	ChunkSize = 32

	// ChunkVolume is the number of cells in a chunk.
	ChunkVolume = ChunkSize * ChunkSize * ChunkSize
)

// ErrDimensionMismatch is returned when grid data does not describe a ChunkSize cube.
var ErrDimensionMismatch = errors.New("grid dimension mismatch")

// Grid is a dense ChunkSize^3 cube of voxels stored in one flat buffer.
type Grid struct {
	voxels []Voxel
}

// NewGrid creates a grid filled with block ID 0.
func NewGrid() *Grid {
	return &Grid{voxels: make([]Voxel, ChunkVolume)}
}

// NewGridFromIDs builds a grid of edge length size from ids laid out in
// Index order. size must equal ChunkSize.
func NewGridFromIDs(size int, ids []BlockID) (*Grid, error) {
	if size != ChunkSize {
		return nil, fmt.Errorf("%w: edge %d, want %d", ErrDimensionMismatch, size, ChunkSize)
	}
	if len(ids) != ChunkVolume {
		return nil, fmt.Errorf("%w: %d cells, want %d", ErrDimensionMismatch, len(ids), ChunkVolume)
	}
	g := NewGrid()
	for i, id := range ids {
		g.voxels[i].ID = id
	}
	return g, nil
}

// Index converts local coordinates to a flat index.
func Index(x, y, z int) int {
	return x + y*ChunkSize + z*ChunkSize*ChunkSize
}

// InBounds reports whether (x, y, z) lies inside the grid.
func InBounds(x, y, z int) bool {
	return x >= 0 && x < ChunkSize && y >= 0 && y < ChunkSize && z >= 0 && z < ChunkSize
}

// Get returns the block ID at the given local coordinates.
// Callers must stay in bounds.
func (g *Grid) Get(x, y, z int) BlockID {
	return g.voxels[Index(x, y, z)].ID
}

// Set stores a block ID. Out-of-bounds writes are ignored.
func (g *Grid) Set(x, y, z int, id BlockID) {
	if !InBounds(x, y, z) {
		return
	}
	g.voxels[Index(x, y, z)].ID = id
}

// At returns the voxel at a flat index.
func (g *Grid) At(i int) Voxel {
	return g.voxels[i]
}

// Fill sets every cell to id.
func (g *Grid) Fill(id BlockID) {
	for i := range g.voxels {
		g.voxels[i].ID = id
	}
}

// FillBox sets every cell in the inclusive box [min, max] to id.
func (g *Grid) FillBox(x0, y0, z0, x1, y1, z1 int, id BlockID) {
	for z := z0; z <= z1; z++ {
		for y := y0; y <= y1; y++ {
			for x := x0; x <= x1; x++ {
				g.Set(x, y, z, id)
			}
		}
	}
}

// IDs returns a copy of the grid contents in Index order.
func (g *Grid) IDs() []BlockID {
	out := make([]BlockID, len(g.voxels))
	for i, v := range g.voxels {
		out[i] = v.ID
	}
	return out
}

// Clone returns an independent copy of the grid.
func (g *Grid) Clone() *Grid {
	out := &Grid{voxels: make([]Voxel, len(g.voxels))}
	copy(out.voxels, g.voxels)
	return out
}

// ChunkCoord addresses a chunk in chunk units.
type ChunkCoord struct {
	X, Y, Z int
}

// Chunk owns a grid plus the dirty flag that drives mesh rebuilds.
type Chunk struct {
	Coord ChunkCoord
	grid  *Grid
	dirty bool
}

// NewChunk creates a new empty chunk at the specified chunk coordinates
func NewChunk(coord ChunkCoord) *Chunk {
	return &Chunk{
		Coord: coord,
		grid:  NewGrid(),
		dirty: true,
	}
}

// Grid exposes the chunk's voxels for reading.
func (c *Chunk) Grid() *Grid {
	return c.grid
}

// GetBlock returns the block ID at local coordinates, or 0 when out of bounds.
func (c *Chunk) GetBlock(x, y, z int) BlockID {
	if !InBounds(x, y, z) {
		return 0
	}
	return c.grid.Get(x, y, z)
}

// SetBlock edits a cell and marks the chunk dirty if the value changed.
func (c *Chunk) SetBlock(x, y, z int, id BlockID) {
	if !InBounds(x, y, z) {
		return
	}
	if c.grid.Get(x, y, z) != id {
		c.grid.Set(x, y, z, id)
		c.dirty = true
	}
}

// IsDirty returns whether the chunk has been modified since its last mesh rebuild
func (c *Chunk) IsDirty() bool {
	return c.dirty
}

// MarkDirty forces the next rebuild.
func (c *Chunk) MarkDirty() {
	c.dirty = true
}

// SetClean marks the chunk as clean (not modified)
func (c *Chunk) SetClean() {
	c.dirty = false
}
