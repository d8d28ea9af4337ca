package game

import (
	"context"
	"fmt"
	"sort"
	"time"

	"chunkmesh/internal/config"
	"chunkmesh/internal/logging"
	"chunkmesh/internal/meshing"
	"chunkmesh/internal/registry"
	"chunkmesh/internal/world"

	"github.com/prometheus/client_golang/prometheus"
)

// Session wires a loaded configuration into a catalog, a generator and a
// mesher, and owns the chunks generated so far.
type Session struct {
	Config    *config.Config
	Blocks    *registry.Catalog
	Generator world.Generator
	Mesher    *meshing.Mesher
	Metrics   *meshing.Metrics

	chunks map[world.ChunkCoord]*world.Chunk
}

// RebuildStats summarizes one RebuildDirty pass.
type RebuildStats struct {
	Chunks   int
	Faces    int
	Vertices int
	Failed   int
	Elapsed  time.Duration
}

// NewSession builds a session from cfg. Metrics are registered with reg when
// it is non-nil.
func NewSession(cfg *config.Config, reg prometheus.Registerer) (*Session, error) {
	logging.SetLevel(logging.ParseLevel(cfg.Log.Level))

	blocks, err := loadBlocks(cfg)
	if err != nil {
		return nil, err
	}

	winding, err := meshing.ParseWinding(cfg.Meshing.Winding)
	if err != nil {
		return nil, err
	}

	palette := blocks.Palette(cfg.Generator.Surface, cfg.Generator.Filler, cfg.Generator.Bedrock)
	gen, err := world.NewGeneratorByName(cfg.Generator.Kind, cfg.Generator.Seed, cfg.Generator.Level, palette)
	if err != nil {
		return nil, err
	}

	config.SetWorkers(cfg.Meshing.Workers)
	metrics := meshing.NewMetrics(reg)
	mesher := meshing.NewMesher(meshing.Options{
		CellSize: cfg.Chunk.CellSize,
		Winding:  winding,
		Workers:  config.GetWorkers(),
		Metrics:  metrics,
	})

	return &Session{
		Config:    cfg,
		Blocks:    blocks,
		Generator: gen,
		Mesher:    mesher,
		Metrics:   metrics,
		chunks:    make(map[world.ChunkCoord]*world.Chunk),
	}, nil
}

func loadBlocks(cfg *config.Config) (*registry.Catalog, error) {
	if cfg.Catalog.Path == "" {
		blocks, err := registry.DefaultWithLayout(cfg.Layout())
		if err != nil {
			return nil, fmt.Errorf("built-in catalog: %w", err)
		}
		return blocks, nil
	}
	blocks, err := registry.LoadCatalog(cfg.Catalog.Path, cfg.Atlas.CellPixels)
	if err != nil {
		return nil, err
	}
	if blocks.Layout().RowCapacity != cfg.Atlas.RowCapacity {
		logging.Warn("catalog atlas has %d cells per row, config says %d; using the catalog",
			blocks.Layout().RowCapacity, cfg.Atlas.RowCapacity)
	}
	return blocks, nil
}

// Chunk returns the chunk at coord, generating it on first use.
func (s *Session) Chunk(coord world.ChunkCoord) *world.Chunk {
	if c, ok := s.chunks[coord]; ok {
		return c
	}
	c := world.NewChunk(coord)
	s.Generator.Populate(c)
	s.chunks[coord] = c
	return c
}

// ChunksAround returns the ground-layer chunks within radius of the origin
// column, generating missing ones, in a stable order.
func (s *Session) ChunksAround(radius int) []*world.Chunk {
	if radius < 0 {
		radius = 0
	}
	out := make([]*world.Chunk, 0, (2*radius+1)*(2*radius+1))
	for x := -radius; x <= radius; x++ {
		for z := -radius; z <= radius; z++ {
			out = append(out, s.Chunk(world.ChunkCoord{X: x, Z: z}))
		}
	}
	return out
}

// Loaded returns all generated chunks sorted by coordinate.
func (s *Session) Loaded() []*world.Chunk {
	out := make([]*world.Chunk, 0, len(s.chunks))
	for _, c := range s.chunks {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool {
		a, b := out[i].Coord, out[j].Coord
		if a.X != b.X {
			return a.X < b.X
		}
		if a.Y != b.Y {
			return a.Y < b.Y
		}
		return a.Z < b.Z
	})
	return out
}

// JobSubmitter queues mesh jobs; *meshing.WorkerPool implements it.
type JobSubmitter interface {
	SubmitJobBlocking(ctx context.Context, job meshing.MeshJob) error
}

// RebuildDirty meshes every dirty chunk on pool and waits for the results.
// A failed chunk is logged and stays dirty; the first failure is returned
// after all results are in. When submission or waiting is cut short, every
// chunk without a mesh is dirty again.
func (s *Session) RebuildDirty(ctx context.Context, pool JobSubmitter) (map[world.ChunkCoord]*meshing.ChunkMesh, RebuildStats, error) {
	start := time.Now()
	results := make(chan meshing.MeshResult, len(s.chunks))
	pending := make(map[world.ChunkCoord]*world.Chunk)
	redirty := func() {
		for _, c := range pending {
			c.MarkDirty()
		}
	}
	for _, c := range s.Loaded() {
		if !c.IsDirty() {
			continue
		}
		if err := pool.SubmitJobBlocking(ctx, meshing.NewJob(c, s.Blocks, results)); err != nil {
			c.MarkDirty()
			redirty()
			return nil, RebuildStats{}, fmt.Errorf("submit chunk %v: %w", c.Coord, err)
		}
		pending[c.Coord] = c
	}

	submitted := len(pending)
	meshes := make(map[world.ChunkCoord]*meshing.ChunkMesh, submitted)
	stats := RebuildStats{Chunks: submitted}
	var firstErr error
	for range submitted {
		select {
		case r := <-results:
			delete(pending, r.Coord)
			if r.Err != nil {
				stats.Failed++
				s.chunks[r.Coord].MarkDirty()
				logging.Error("rebuild %v (job %s): %v", r.Coord, r.ID, r.Err)
				if firstErr == nil {
					firstErr = r.Err
				}
				continue
			}
			meshes[r.Coord] = r.Mesh
			stats.Faces += r.Mesh.FaceCount()
			stats.Vertices += len(r.Mesh.Vertices)
		case <-ctx.Done():
			redirty()
			return nil, stats, ctx.Err()
		}
	}
	stats.Elapsed = time.Since(start)
	logging.Debug("rebuilt %d chunks: %d faces in %v", stats.Chunks, stats.Faces, stats.Elapsed)
	return meshes, stats, firstErr
}

// floorDiv splits a world cell coordinate into chunk and local parts.
func floorDiv(v int) (chunk, local int) {
	chunk = v / world.ChunkSize
	local = v % world.ChunkSize
	if local < 0 {
		chunk--
		local += world.ChunkSize
	}
	return chunk, local
}

func (s *Session) locate(x, y, z int) (*world.Chunk, int, int, int) {
	cx, lx := floorDiv(x)
	cy, ly := floorDiv(y)
	cz, lz := floorDiv(z)
	return s.chunks[world.ChunkCoord{X: cx, Y: cy, Z: cz}], lx, ly, lz
}

// BlockAt returns the block at world cell (x, y, z) and whether its chunk is
// loaded. Unloaded cells read as air.
func (s *Session) BlockAt(x, y, z int) (world.BlockID, bool) {
	c, lx, ly, lz := s.locate(x, y, z)
	if c == nil {
		return 0, false
	}
	return c.GetBlock(lx, ly, lz), true
}

// Solid reports whether a loaded, non-air block occupies the cell.
func (s *Session) Solid(x, y, z int) bool {
	id, ok := s.BlockAt(x, y, z)
	return ok && !s.Blocks.IsAir(id)
}

// SetBlockAt edits a loaded cell, dirtying its chunk when the value changes.
// Chunks mesh independently, so neighbours are unaffected.
func (s *Session) SetBlockAt(x, y, z int, id world.BlockID) bool {
	c, lx, ly, lz := s.locate(x, y, z)
	if c == nil {
		return false
	}
	c.SetBlock(lx, ly, lz, id)
	return true
}
