package registry

import (
	"fmt"
	"path/filepath"

	"chunkmesh/internal/atlas"
	"chunkmesh/internal/logging"
	"chunkmesh/pkg/blockdef"
)

// LoadCatalog reads a catalog directory (see blockdef.Loader). When the
// manifest names an atlas image, the row capacity is taken from the image and
// must agree with any row_capacity in the manifest.
func LoadCatalog(root string, cellPixels int) (*Catalog, error) {
	loader := blockdef.NewLoader(root)
	m, blocks, err := loader.LoadAll()
	if err != nil {
		return nil, err
	}

	layout := atlas.Layout{RowCapacity: m.RowCapacity, CellPixels: cellPixels}
	if layout.RowCapacity == 0 {
		layout.RowCapacity = atlas.DefaultRowCapacity
	}
	if m.Atlas != "" {
		path := m.Atlas
		if !filepath.IsAbs(path) {
			path = filepath.Join(root, path)
		}
		inspected, format, err := atlas.Inspect(path, cellPixels)
		if err != nil {
			return nil, err
		}
		if m.RowCapacity != 0 && m.RowCapacity != inspected.RowCapacity {
			return nil, fmt.Errorf("%w: manifest row_capacity %d but %s atlas holds %d",
				atlas.ErrInvalidLayout, m.RowCapacity, format, inspected.RowCapacity)
		}
		layout = inspected
	}

	defs := make([]Descriptor, 0, len(blocks))
	for _, b := range blocks {
		defs = append(defs, fromDefinition(b))
	}
	if _, ok := findName(defs, AirName); !ok {
		logging.Warn("catalog %s has no '%s' block; every block will produce geometry", root, AirName)
	}

	c, err := NewCatalog(layout, defs)
	if err != nil {
		return nil, fmt.Errorf("catalog %s: %w", root, err)
	}
	logging.Info("loaded %d block types from %s (atlas row capacity %d)", c.Len(), root, layout.RowCapacity)
	return c, nil
}

func fromDefinition(b *blockdef.Block) Descriptor {
	d := Descriptor{
		Name:        b.Name,
		Transparent: b.IsTransparent(),
		Top:         toCell(b.Top),
		Bottom:      toCell(b.Bottom),
		Side:        toCell(b.Side),
		North:       toCell(b.North),
		South:       toCell(b.South),
		East:        toCell(b.East),
		West:        toCell(b.West),
	}
	if b.Atlas != nil {
		d.Atlas = *toCell(b.Atlas)
	}
	return d
}

func toCell(v *[2]int) *atlas.Cell {
	if v == nil {
		return nil
	}
	return &atlas.Cell{U: v[0], V: v[1]}
}

func findName(defs []Descriptor, name string) (int, bool) {
	for i, d := range defs {
		if d.Name == name {
			return i, true
		}
	}
	return 0, false
}
