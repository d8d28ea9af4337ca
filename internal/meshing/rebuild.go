package meshing

import (
	"runtime"
	"time"

	"chunkmesh/internal/profiling"
	"chunkmesh/internal/world"

	"golang.org/x/sync/errgroup"
)

// Options configures a Mesher.
type Options struct {
	// CellSize is the edge length of one voxel in mesh units.
	CellSize float32
	// Winding is the front-face convention applied to every quad.
	Winding Winding
	// Workers is the number of goroutines used per rebuild; 1 or less
	// rebuilds on the calling goroutine.
	Workers int
	// Metrics, when set, receives rebuild counters and timings.
	Metrics *Metrics
}

// DefaultOptions returns unit cells, counter-clockwise winding and a serial rebuild.
func DefaultOptions() Options {
	return Options{CellSize: 1, Winding: CounterClockwise, Workers: 1}
}

// Mesher turns voxel grids into chunk meshes.
type Mesher struct {
	opts Options
}

// NewMesher creates a mesher.
func NewMesher(opts Options) *Mesher {
	if opts.CellSize <= 0 {
		opts.CellSize = 1
	}
	return &Mesher{opts: opts}
}

// Rebuild is a convenience for NewMesher(DefaultOptions()).Rebuild.
func Rebuild(grid *world.Grid, blocks BlockSource) (*ChunkMesh, error) {
	return NewMesher(DefaultOptions()).Rebuild(grid, blocks)
}

// Rebuild computes the full mesh of grid. It never mutates grid. On error no
// mesh is returned.
func (m *Mesher) Rebuild(grid *world.Grid, blocks BlockSource) (*ChunkMesh, error) {
	if m.opts.Workers > 1 {
		return m.RebuildParallel(grid, blocks, m.opts.Workers)
	}
	start := time.Now()
	mesh, err := m.rebuild(grid, blocks, 1)
	m.observe("serial", start, mesh, err)
	return mesh, err
}

// RebuildParallel is Rebuild with culling and filling sharded across workers
// goroutines by z-slab. The result is identical to Rebuild. workers <= 0 uses
// GOMAXPROCS.
func (m *Mesher) RebuildParallel(grid *world.Grid, blocks BlockSource, workers int) (*ChunkMesh, error) {
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	start := time.Now()
	mesh, err := m.rebuild(grid, blocks, workers)
	m.observe("parallel", start, mesh, err)
	return mesh, err
}

func (m *Mesher) observe(mode string, start time.Time, mesh *ChunkMesh, err error) {
	if m.opts.Metrics == nil {
		return
	}
	faces := 0
	if mesh != nil {
		faces = mesh.FaceCount()
	}
	m.opts.Metrics.observe(mode, time.Since(start), faces, err)
}

// rebuild runs cull, count and fill over shards of z-slabs. Each shard owns a
// disjoint range of the visibility grid and, after the prefix sum over shard
// face counts, a disjoint range of the output buffers.
func (m *Mesher) rebuild(grid *world.Grid, blocks BlockSource, workers int) (*ChunkMesh, error) {
	table, err := newBlockTable(blocks)
	if err != nil {
		return nil, err
	}
	shards := splitSlabs(workers)
	vis := newFaceVisibility()

	stopCull := profiling.Track("meshing.Cull")
	err = forEachShard(shards, func(s shard) error {
		return cullRange(grid, table, vis, s.z0, s.z1)
	})
	stopCull()
	if err != nil {
		return nil, err
	}

	offsets := make([]int, len(shards)+1)
	for i, s := range shards {
		offsets[i+1] = offsets[i] + vis.countRange(s.z0, s.z1)
	}

	defer profiling.Track("meshing.Build")()
	mesh := newChunkMesh(offsets[len(shards)])
	b := NewBuilder(blocks.Layout(), m.opts.CellSize, m.opts.Winding)
	err = forEachShard(shards, func(s shard) error {
		b.buildRange(mesh, grid, table, vis, s.z0, s.z1, offsets[s.index])
		return nil
	})
	if err != nil {
		return nil, err
	}
	return mesh, nil
}

type shard struct {
	index  int
	z0, z1 int
}

// splitSlabs divides the chunk's z range into at most n contiguous shards.
func splitSlabs(n int) []shard {
	if n < 1 {
		n = 1
	}
	if n > world.ChunkSize {
		n = world.ChunkSize
	}
	shards := make([]shard, n)
	for i := range shards {
		shards[i] = shard{
			index: i,
			z0:    i * world.ChunkSize / n,
			z1:    (i + 1) * world.ChunkSize / n,
		}
	}
	return shards
}

// forEachShard runs fn for every shard, inline when there is only one.
func forEachShard(shards []shard, fn func(shard) error) error {
	if len(shards) == 1 {
		return fn(shards[0])
	}
	var g errgroup.Group
	for _, s := range shards {
		g.Go(func() error { return fn(s) })
	}
	return g.Wait()
}
