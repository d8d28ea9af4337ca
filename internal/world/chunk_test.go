package world

import (
	"errors"
	"testing"
)

func TestIndexLayout(t *testing.T) {
	if Index(0, 0, 0) != 0 {
		t.Error("Index(0,0,0) should be 0")
	}
	if Index(1, 0, 0) != 1 {
		t.Error("x should be the fastest axis")
	}
	if Index(0, 1, 0) != ChunkSize {
		t.Error("y stride should be ChunkSize")
	}
	if Index(0, 0, 1) != ChunkSize*ChunkSize {
		t.Error("z stride should be ChunkSize^2")
	}
	if Index(ChunkSize-1, ChunkSize-1, ChunkSize-1) != ChunkVolume-1 {
		t.Error("last cell should map to ChunkVolume-1")
	}
}

func TestNewGridFromIDs(t *testing.T) {
	ids := make([]BlockID, ChunkVolume)
	ids[Index(3, 4, 5)] = 7

	g, err := NewGridFromIDs(ChunkSize, ids)
	if err != nil {
		t.Fatalf("NewGridFromIDs failed: %v", err)
	}
	if got := g.Get(3, 4, 5); got != 7 {
		t.Errorf("Expected 7 at (3,4,5), got %d", got)
	}

	ids[0] = 9
	if g.Get(0, 0, 0) != 0 {
		t.Error("Grid should not alias the input slice")
	}
}

func TestNewGridFromIDsMismatch(t *testing.T) {
	cases := []struct {
		name string
		size int
		n    int
	}{
		{"small edge", 16, 16 * 16 * 16},
		{"short data", ChunkSize, ChunkVolume - 1},
		{"long data", ChunkSize, ChunkVolume + 1},
		{"empty", ChunkSize, 0},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := NewGridFromIDs(tc.size, make([]BlockID, tc.n))
			if !errors.Is(err, ErrDimensionMismatch) {
				t.Errorf("Expected ErrDimensionMismatch, got %v", err)
			}
		})
	}
}

func TestGridSetOutOfBoundsIgnored(t *testing.T) {
	g := NewGrid()
	g.Set(-1, 0, 0, 4)
	g.Set(0, ChunkSize, 0, 4)
	g.Set(0, 0, ChunkSize, 4)
	for _, id := range g.IDs() {
		if id != 0 {
			t.Fatal("Out-of-bounds Set modified the grid")
		}
	}
}

func TestGridFillBox(t *testing.T) {
	g := NewGrid()
	g.FillBox(2, 2, 2, 3, 4, 5, 1)

	count := 0
	for _, id := range g.IDs() {
		if id == 1 {
			count++
		}
	}
	if count != 2*3*4 {
		t.Errorf("Expected 24 filled cells, got %d", count)
	}
	if g.Get(3, 4, 5) != 1 || g.Get(2, 2, 2) != 1 {
		t.Error("FillBox bounds should be inclusive")
	}
}

func TestGridClone(t *testing.T) {
	g := NewGrid()
	g.Set(1, 2, 3, 5)
	c := g.Clone()
	g.Set(1, 2, 3, 6)

	if c.Get(1, 2, 3) != 5 {
		t.Error("Clone should be independent of the source grid")
	}
}

func TestChunkDirtyFlag(t *testing.T) {
	c := NewChunk(ChunkCoord{X: 1, Y: 0, Z: -2})
	if !c.IsDirty() {
		t.Error("New chunk should be dirty")
	}

	c.SetClean()
	c.SetBlock(0, 0, 0, 0)
	if c.IsDirty() {
		t.Error("Writing the same value should not dirty the chunk")
	}

	c.SetBlock(0, 0, 0, 3)
	if !c.IsDirty() {
		t.Error("Changing a block should dirty the chunk")
	}

	c.SetClean()
	c.SetBlock(ChunkSize, 0, 0, 3)
	if c.IsDirty() {
		t.Error("Out-of-bounds SetBlock should be ignored")
	}
	if c.GetBlock(-1, 0, 0) != 0 {
		t.Error("Out-of-bounds GetBlock should return 0")
	}
}
