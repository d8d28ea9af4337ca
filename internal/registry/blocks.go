package registry

import (
	"errors"
	"fmt"

	"chunkmesh/internal/atlas"
	"chunkmesh/internal/world"
)

// AirName is the reserved name of the empty block.
const AirName = "air"

var (
	// ErrInvalidBlockID is returned when an ID does not index the catalog.
	ErrInvalidBlockID = errors.New("invalid block id")
	// ErrInvalidCatalog is returned when descriptors cannot form a catalog.
	ErrInvalidCatalog = errors.New("invalid block catalog")
)

// Descriptor defines the properties of a block type
type Descriptor struct {
	Name        string
	Transparent bool
	Atlas       atlas.Cell

	// Optional per-face cells. A horizontal face falls back to Side, and
	// every face falls back to Atlas.
	Top    *atlas.Cell
	Bottom *atlas.Cell
	Side   *atlas.Cell
	North  *atlas.Cell
	South  *atlas.Cell
	East   *atlas.Cell
	West   *atlas.Cell
}

// IsAir reports whether this is the reserved air block.
func (d Descriptor) IsAir() bool {
	return d.Name == AirName
}

// CellFor returns the atlas cell used for the given face.
func (d Descriptor) CellFor(face world.BlockFace) atlas.Cell {
	var c *atlas.Cell
	switch face {
	case world.FaceTop:
		c = d.Top
	case world.FaceBottom:
		c = d.Bottom
	case world.FaceNorth:
		c = d.North
	case world.FaceSouth:
		c = d.South
	case world.FaceEast:
		c = d.East
	case world.FaceWest:
		c = d.West
	}
	if c == nil && face != world.FaceTop && face != world.FaceBottom {
		c = d.Side
	}
	if c != nil {
		return *c
	}
	return d.Atlas
}

// Catalog is an immutable table of descriptors indexed by block ID.
type Catalog struct {
	blocks []Descriptor
	names  map[string]world.BlockID
	layout atlas.Layout
}

// NewCatalog validates descriptors and builds a catalog. The slice position of
// each descriptor becomes its block ID.
func NewCatalog(layout atlas.Layout, defs []Descriptor) (*Catalog, error) {
	if err := layout.Validate(); err != nil {
		return nil, err
	}
	if len(defs) == 0 {
		return nil, fmt.Errorf("%w: no descriptors", ErrInvalidCatalog)
	}
	if len(defs) > int(^world.BlockID(0))+1 {
		return nil, fmt.Errorf("%w: %d descriptors exceed the id range", ErrInvalidCatalog, len(defs))
	}

	c := &Catalog{
		blocks: make([]Descriptor, len(defs)),
		names:  make(map[string]world.BlockID, len(defs)),
		layout: layout,
	}
	for i, d := range defs {
		if d.Name == "" {
			return nil, fmt.Errorf("%w: descriptor %d has no name", ErrInvalidCatalog, i)
		}
		if _, dup := c.names[d.Name]; dup {
			return nil, fmt.Errorf("%w: duplicate name '%s'", ErrInvalidCatalog, d.Name)
		}
		for _, face := range world.Faces {
			if cell := d.CellFor(face); !layout.Contains(cell) {
				return nil, fmt.Errorf("%w: '%s' %s cell %v outside %dx%d atlas",
					ErrInvalidCatalog, d.Name, face, cell, layout.RowCapacity, layout.RowCapacity)
			}
		}
		c.blocks[i] = copyDescriptor(d)
		c.names[d.Name] = world.BlockID(i)
	}
	return c, nil
}

// copyDescriptor detaches the optional cell pointers from the caller's values.
func copyDescriptor(d Descriptor) Descriptor {
	out := d
	for _, p := range []**atlas.Cell{&out.Top, &out.Bottom, &out.Side, &out.North, &out.South, &out.East, &out.West} {
		if *p != nil {
			v := **p
			*p = &v
		}
	}
	return out
}

// Len returns the number of block types.
func (c *Catalog) Len() int {
	return len(c.blocks)
}

// Layout returns the atlas layout the catalog was validated against.
func (c *Catalog) Layout() atlas.Layout {
	return c.layout
}

// Descriptor returns the descriptor for id.
func (c *Catalog) Descriptor(id world.BlockID) (Descriptor, error) {
	if int(id) >= len(c.blocks) {
		return Descriptor{}, fmt.Errorf("%w: %d (catalog has %d types)", ErrInvalidBlockID, id, len(c.blocks))
	}
	return c.blocks[id], nil
}

// IsTransparent reports the transparency flag; unknown IDs report false.
func (c *Catalog) IsTransparent(id world.BlockID) bool {
	d, err := c.Descriptor(id)
	return err == nil && d.Transparent
}

// IsAir reports whether id names the air block; unknown IDs report false.
func (c *Catalog) IsAir(id world.BlockID) bool {
	d, err := c.Descriptor(id)
	return err == nil && d.IsAir()
}

// AtlasCoord returns the default atlas cell of id; unknown IDs report the zero cell.
func (c *Catalog) AtlasCoord(id world.BlockID) atlas.Cell {
	d, _ := c.Descriptor(id)
	return d.Atlas
}

// AtlasCoordFor returns the atlas cell id uses on face.
func (c *Catalog) AtlasCoordFor(id world.BlockID, face world.BlockFace) atlas.Cell {
	d, _ := c.Descriptor(id)
	return d.CellFor(face)
}

// Lookup finds a block ID by name.
func (c *Catalog) Lookup(name string) (world.BlockID, bool) {
	id, ok := c.names[name]
	return id, ok
}

// MustLookup is Lookup for names the caller knows are present.
func (c *Catalog) MustLookup(name string) world.BlockID {
	id, ok := c.names[name]
	if !ok {
		panic(fmt.Sprintf("registry: block '%s' not in catalog", name))
	}
	return id
}

// Palette picks generator block IDs by name, falling back to air for missing names.
func (c *Catalog) Palette(surface, filler, bedrock string) world.Palette {
	air, _ := c.Lookup(AirName)
	pick := func(name string) world.BlockID {
		if id, ok := c.Lookup(name); ok {
			return id
		}
		return air
	}
	return world.Palette{Air: air, Surface: pick(surface), Filler: pick(filler), Bedrock: pick(bedrock)}
}

func cell(u, v int) *atlas.Cell {
	return &atlas.Cell{U: u, V: v}
}

// Default returns the built-in catalog on the default atlas layout.
func Default() *Catalog {
	c, err := DefaultWithLayout(atlas.DefaultLayout())
	if err != nil {
		panic(err)
	}
	return c
}

// DefaultWithLayout builds the built-in block set against layout. It fails
// when the layout is too small to hold the built-in cells.
func DefaultWithLayout(layout atlas.Layout) (*Catalog, error) {
	return NewCatalog(layout, []Descriptor{
		{Name: AirName, Transparent: true},
		{Name: "stone", Atlas: atlas.Cell{U: 1, V: 0}},
		{Name: "dirt", Atlas: atlas.Cell{U: 2, V: 0}},
		{Name: "grass", Atlas: atlas.Cell{U: 3, V: 0}, Top: cell(0, 0), Bottom: cell(2, 0)},
		{Name: "cobblestone", Atlas: atlas.Cell{U: 0, V: 1}},
		{Name: "bedrock", Atlas: atlas.Cell{U: 1, V: 1}},
		{Name: "sand", Atlas: atlas.Cell{U: 2, V: 1}},
		{Name: "oak_log", Atlas: atlas.Cell{U: 4, V: 1}, Top: cell(5, 1), Bottom: cell(5, 1)},
		{Name: "oak_planks", Atlas: atlas.Cell{U: 4, V: 0}},
		{Name: "glass", Transparent: true, Atlas: atlas.Cell{U: 1, V: 3}},
		{Name: "oak_leaves", Transparent: true, Atlas: atlas.Cell{U: 4, V: 3}},
		{Name: "water", Transparent: true, Atlas: atlas.Cell{U: 13, V: 12}},
	})
}
