package world

import (
	"fmt"
	"math"

	"github.com/aquilax/go-perlin"
	"github.com/ojrac/opensimplex-go"
)

// Palette names the block IDs a generator writes.
type Palette struct {
	Air     BlockID
	Surface BlockID
	Filler  BlockID
	Bedrock BlockID
}

// Generator fills a chunk's grid with initial content.
type Generator interface {
	Populate(c *Chunk)
}

// FlatGenerator fills cells up to world height Level: bedrock at y=0, filler
// below Level, surface at Level, air above.
type FlatGenerator struct {
	Palette Palette
	Level   int
}

// Populate fills a chunk with a flat slab.
func (g FlatGenerator) Populate(c *Chunk) {
	baseY := c.Coord.Y * ChunkSize
	for z := range ChunkSize {
		for y := range ChunkSize {
			id := g.Palette.Air
			switch wy := baseY + y; {
			case wy == 0:
				id = g.Palette.Bedrock
			case wy < g.Level:
				id = g.Palette.Filler
			case wy == g.Level:
				id = g.Palette.Surface
			}
			for x := range ChunkSize {
				c.SetBlock(x, y, z, id)
			}
		}
	}
	c.MarkDirty()
}

// heightFunc maps world X,Z to a value in [0,1].
type heightFunc func(worldX, worldZ int) float64

// heightmap holds the column-filling logic shared by the noise generators.
type heightmap struct {
	palette    Palette
	baseHeight int
	amp        float64
	sample     heightFunc
}

// HeightAt computes the surface height (block Y, world space) at world X,Z.
func (h heightmap) HeightAt(worldX, worldZ int) int {
	height := float64(h.baseHeight) + h.sample(worldX, worldZ)*h.amp
	if height < 0 {
		height = 0
	}
	return int(math.Floor(height))
}

func (h heightmap) populate(c *Chunk) {
	chunkBaseY := c.Coord.Y * ChunkSize
	for lx := range ChunkSize {
		for lz := range ChunkSize {
			worldX := c.Coord.X*ChunkSize + lx
			worldZ := c.Coord.Z*ChunkSize + lz
			topLocal := h.HeightAt(worldX, worldZ) - chunkBaseY
			for ly := range ChunkSize {
				id := h.palette.Air
				switch {
				case chunkBaseY+ly == 0:
					id = h.palette.Bedrock
				case ly < topLocal:
					id = h.palette.Filler
				case ly == topLocal:
					id = h.palette.Surface
				}
				c.SetBlock(lx, ly, lz, id)
			}
		}
	}
	c.MarkDirty()
}

// PerlinGenerator uses Perlin noise for terrain height.
type PerlinGenerator struct {
	heightmap
}

// NewPerlinGenerator creates a Perlin generator.
func NewPerlinGenerator(seed int64, p Palette) *PerlinGenerator {
	// alpha smooths, beta sets frequency, n is the octave count
	noise := perlin.NewPerlin(2.0, 2.0, 3, seed)
	return &PerlinGenerator{heightmap{
		palette:    p,
		baseHeight: 10,
		amp:        14,
		sample: func(x, z int) float64 {
			return clamp01((noise.Noise2D(float64(x)/48.0, float64(z)/48.0) + 1.0) / 2.0)
		},
	}}
}

// Populate fills a chunk using Perlin noise.
func (g *PerlinGenerator) Populate(c *Chunk) { g.populate(c) }

// SimplexGenerator uses OpenSimplex noise for terrain height.
type SimplexGenerator struct {
	heightmap
}

// NewSimplexGenerator creates an OpenSimplex generator.
func NewSimplexGenerator(seed int64, p Palette) *SimplexGenerator {
	noise := opensimplex.New(seed)
	return &SimplexGenerator{heightmap{
		palette:    p,
		baseHeight: 10,
		amp:        14,
		sample: func(x, z int) float64 {
			return clamp01((noise.Eval2(float64(x)/40.0, float64(z)/40.0) + 1.0) / 2.0)
		},
	}}
}

// Populate fills a chunk using OpenSimplex noise.
func (g *SimplexGenerator) Populate(c *Chunk) { g.populate(c) }

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// NewGeneratorByName picks a generator by its config name.
func NewGeneratorByName(name string, seed int64, level int, p Palette) (Generator, error) {
	switch name {
	case "", "flat":
		return FlatGenerator{Palette: p, Level: level}, nil
	case "perlin":
		return NewPerlinGenerator(seed, p), nil
	case "simplex":
		return NewSimplexGenerator(seed, p), nil
	default:
		return nil, fmt.Errorf("unknown generator %q", name)
	}
}
