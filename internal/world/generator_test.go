package world

import (
	"crypto/sha256"
	"testing"
)

var testPalette = Palette{Air: 0, Surface: 3, Filler: 2, Bedrock: 5}

func TestGeneratorsImplementInterface(t *testing.T) {
	var _ Generator = FlatGenerator{}
	var _ Generator = NewPerlinGenerator(1, testPalette)
	var _ Generator = NewSimplexGenerator(1, testPalette)
}

func TestFlatGeneratorPopulate(t *testing.T) {
	c := NewChunk(ChunkCoord{})
	c.SetClean()
	g := FlatGenerator{Palette: testPalette, Level: 5}

	g.Populate(c)

	if !c.IsDirty() {
		t.Error("Populate should mark the chunk dirty")
	}
	for _, pos := range [][3]int{{0, 0, 0}, {31, 0, 31}, {7, 0, 12}} {
		if got := c.GetBlock(pos[0], pos[1], pos[2]); got != testPalette.Bedrock {
			t.Errorf("Expected bedrock at %v, got %d", pos, got)
		}
	}
	for y := 1; y < 5; y++ {
		if got := c.GetBlock(4, y, 9); got != testPalette.Filler {
			t.Errorf("Expected filler at y=%d, got %d", y, got)
		}
	}
	if got := c.GetBlock(4, 5, 9); got != testPalette.Surface {
		t.Errorf("Expected surface at y=5, got %d", got)
	}
	for y := 6; y < ChunkSize; y++ {
		if got := c.GetBlock(4, y, 9); got != testPalette.Air {
			t.Errorf("Expected air at y=%d, got %d", y, got)
		}
	}
}

func TestFlatGeneratorUpperChunkIsAir(t *testing.T) {
	c := NewChunk(ChunkCoord{Y: 1})
	FlatGenerator{Palette: testPalette, Level: 5}.Populate(c)

	for _, id := range c.Grid().IDs() {
		if id != testPalette.Air {
			t.Fatalf("Expected only air above the slab, found %d", id)
		}
	}
}

// hashChunkBlocks computes a SHA256 hash of all blocks in a chunk
func hashChunkBlocks(c *Chunk) [32]byte {
	h := sha256.New()
	for _, id := range c.Grid().IDs() {
		h.Write([]byte{byte(id), byte(id >> 8)})
	}
	var result [32]byte
	copy(result[:], h.Sum(nil))
	return result
}

func noiseGenerators(seed int64) map[string]Generator {
	return map[string]Generator{
		"perlin":  NewPerlinGenerator(seed, testPalette),
		"simplex": NewSimplexGenerator(seed, testPalette),
	}
}

// TestNoiseGeneratorDeterminism verifies same seed produces identical terrain
func TestNoiseGeneratorDeterminism(t *testing.T) {
	positions := []ChunkCoord{{0, 0, 0}, {1, 0, 0}, {0, 0, 1}, {-1, 0, -1}}

	for name := range noiseGenerators(0) {
		for _, pos := range positions {
			c1 := NewChunk(pos)
			noiseGenerators(12345)[name].Populate(c1)
			c2 := NewChunk(pos)
			noiseGenerators(12345)[name].Populate(c2)

			if hashChunkBlocks(c1) != hashChunkBlocks(c2) {
				t.Errorf("%s: chunk at %v not deterministic", name, pos)
			}
		}
	}
}

// TestNoiseGeneratorColumns verifies every column is bedrock, filler, one surface block, then air
func TestNoiseGeneratorColumns(t *testing.T) {
	for name, g := range noiseGenerators(1337) {
		c := NewChunk(ChunkCoord{})
		g.Populate(c)

		for x := range ChunkSize {
			for z := range ChunkSize {
				if got := c.GetBlock(x, 0, z); got != testPalette.Bedrock {
					t.Fatalf("%s: expected bedrock at (%d,0,%d), got %d", name, x, z, got)
				}
				surfaces := 0
				seenAir := false
				for y := 1; y < ChunkSize; y++ {
					switch c.GetBlock(x, y, z) {
					case testPalette.Surface:
						surfaces++
						if seenAir {
							t.Fatalf("%s: surface above air in column (%d,%d)", name, x, z)
						}
					case testPalette.Air:
						seenAir = true
					case testPalette.Filler:
						if seenAir || surfaces > 0 {
							t.Fatalf("%s: filler above surface in column (%d,%d)", name, x, z)
						}
					}
				}
				if surfaces > 1 {
					t.Fatalf("%s: %d surface blocks in column (%d,%d)", name, surfaces, x, z)
				}
			}
		}
	}
}

func TestHeightmapHeightInRange(t *testing.T) {
	g := NewSimplexGenerator(9, testPalette)
	for x := -64; x < 64; x += 3 {
		for z := -64; z < 64; z += 5 {
			h := g.HeightAt(x, z)
			if h < g.baseHeight || h > g.baseHeight+int(g.amp) {
				t.Fatalf("HeightAt(%d,%d) = %d outside [%d,%d]", x, z, h, g.baseHeight, g.baseHeight+int(g.amp))
			}
		}
	}
}

func TestNewGeneratorByName(t *testing.T) {
	for _, name := range []string{"", "flat", "perlin", "simplex"} {
		g, err := NewGeneratorByName(name, 1, 8, testPalette)
		if err != nil {
			t.Errorf("NewGeneratorByName(%q) failed: %v", name, err)
			continue
		}
		if g == nil {
			t.Errorf("NewGeneratorByName(%q) returned nil", name)
		}
	}

	for _, name := range []string{"caves", "heightmap"} {
		if _, err := NewGeneratorByName(name, 1, 8, testPalette); err == nil {
			t.Errorf("Expected error for unknown generator %q", name)
		}
	}
}

func BenchmarkSimplexPopulate(b *testing.B) {
	g := NewSimplexGenerator(42, testPalette)
	c := NewChunk(ChunkCoord{})
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		g.Populate(c)
	}
}
