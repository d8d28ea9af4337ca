// Package atlas describes the shared block texture atlas: a square image
// split into RowCapacity x RowCapacity equally sized cells.
package atlas

import (
	"errors"
	"fmt"

	"github.com/go-gl/mathgl/mgl32"
)

const (
	// DefaultRowCapacity is the number of cells in one atlas row.
	DefaultRowCapacity = 16
	// DefaultCellPixels is the edge length of one cell in texels.
	DefaultCellPixels = 16
)

// ErrInvalidLayout is returned for layouts that cannot address any cell.
var ErrInvalidLayout = errors.New("invalid atlas layout")

// Cell is an integer (column, row) coordinate of an atlas cell.
// Row 0 sits at texture coordinate v=0.
type Cell struct {
	U, V int
}

// Layout describes how cells are arranged in the atlas.
type Layout struct {
	RowCapacity int
	CellPixels  int
}

// DefaultLayout returns a 16x16 atlas of 16px cells.
func DefaultLayout() Layout {
	return Layout{RowCapacity: DefaultRowCapacity, CellPixels: DefaultCellPixels}
}

// Validate checks that the layout addresses at least one cell.
func (l Layout) Validate() error {
	if l.RowCapacity <= 0 {
		return fmt.Errorf("%w: row capacity %d", ErrInvalidLayout, l.RowCapacity)
	}
	if l.CellPixels < 0 {
		return fmt.Errorf("%w: cell pixels %d", ErrInvalidLayout, l.CellPixels)
	}
	return nil
}

// Contains reports whether the cell lies inside the atlas.
func (l Layout) Contains(c Cell) bool {
	return c.U >= 0 && c.V >= 0 && c.U < l.RowCapacity && c.V < l.RowCapacity
}

// CellSpan is the size of one cell in normalized texture coordinates.
func (l Layout) CellSpan() float32 {
	return 1 / float32(l.RowCapacity)
}

// Origin returns the texture coordinate of the cell's (0,0) corner.
func (l Layout) Origin(c Cell) mgl32.Vec2 {
	r := float32(l.RowCapacity)
	return mgl32.Vec2{float32(c.U) / r, float32(c.V) / r}
}

// Corner returns the texture coordinate of one cell corner; du and dv select
// the near (0) or far (1) edge along each atlas axis.
func (l Layout) Corner(c Cell, du, dv int) mgl32.Vec2 {
	span := l.CellSpan()
	return l.Origin(c).Add(mgl32.Vec2{float32(du) * span, float32(dv) * span})
}

// PixelSize is the edge length of the whole atlas image in texels.
func (l Layout) PixelSize() int {
	return l.RowCapacity * l.CellPixels
}
