package graphics

import (
	"sync"

	"chunkmesh/internal/logging"
	"chunkmesh/internal/meshing"
	"chunkmesh/internal/world"

	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/google/uuid"
)

// ChunkRenderer keeps one GPUMesh per chunk, rebuilding dirty chunks on a
// worker pool and uploading finished meshes on the render thread.
type ChunkRenderer struct {
	pool     *meshing.WorkerPool
	blocks   meshing.BlockSource
	cellSize float32

	meshes  map[world.ChunkCoord]*GPUMesh
	results chan meshing.MeshResult

	// pending tracks which chunks have jobs in progress
	pendingMu sync.Mutex
	pending   map[world.ChunkCoord]uuid.UUID
}

// NewChunkRenderer creates a renderer submitting jobs to pool.
func NewChunkRenderer(pool *meshing.WorkerPool, blocks meshing.BlockSource, cellSize float32) *ChunkRenderer {
	return &ChunkRenderer{
		pool:     pool,
		blocks:   blocks,
		cellSize: cellSize,
		meshes:   make(map[world.ChunkCoord]*GPUMesh),
		results:  make(chan meshing.MeshResult, 100),
		pending:  make(map[world.ChunkCoord]uuid.UUID),
	}
}

// Track submits a rebuild for c if it is dirty and has no job in flight.
// Returns false when the pool queue is full; the chunk stays dirty.
func (r *ChunkRenderer) Track(c *world.Chunk) bool {
	if !c.IsDirty() {
		return true
	}
	r.pendingMu.Lock()
	defer r.pendingMu.Unlock()
	if _, busy := r.pending[c.Coord]; busy {
		return true
	}

	job := meshing.NewJob(c, r.blocks, r.results)
	if !r.pool.SubmitJob(job) {
		c.MarkDirty()
		return false
	}
	r.pending[c.Coord] = job.ID
	return true
}

// ProcessResults uploads every finished mesh. Call once per frame from the
// thread that owns the GL context.
func (r *ChunkRenderer) ProcessResults() {
	for {
		select {
		case result := <-r.results:
			r.apply(result)
		default:
			return // No more results to process this frame
		}
	}
}

func (r *ChunkRenderer) apply(result meshing.MeshResult) {
	r.pendingMu.Lock()
	if id, ok := r.pending[result.Coord]; ok && id == result.ID {
		delete(r.pending, result.Coord)
	}
	r.pendingMu.Unlock()

	if result.Err != nil {
		logging.Error("rebuild of chunk %v failed: %v", result.Coord, result.Err)
		return
	}

	if existing := r.meshes[result.Coord]; existing != nil {
		existing.Update(result.Mesh)
		return
	}
	r.meshes[result.Coord] = UploadMesh(result.Mesh)
}

// Pending returns the number of chunks with a rebuild in flight.
func (r *ChunkRenderer) Pending() int {
	r.pendingMu.Lock()
	defer r.pendingMu.Unlock()
	return len(r.pending)
}

// Render draws every uploaded chunk with shader, offset by its chunk coordinate.
func (r *ChunkRenderer) Render(shader *Shader, texture uint32, cam *Camera) {
	shader.Use()
	proj := cam.GetProjectionMatrix()
	view := cam.GetViewMatrix()
	shader.SetMatrix4("proj", &proj[0])
	shader.SetMatrix4("view", &view[0])
	shader.SetVector3("lightDir", -0.4, -1.0, -0.3)
	shader.SetInt("atlas", 0)

	gl.ActiveTexture(gl.TEXTURE0)
	gl.BindTexture(gl.TEXTURE_2D, texture)

	span := float32(world.ChunkSize) * r.cellSize
	for coord, m := range r.meshes {
		model := mgl32.Translate3D(float32(coord.X)*span, float32(coord.Y)*span, float32(coord.Z)*span)
		shader.SetMatrix4("model", &model[0])
		m.Draw()
	}
	gl.BindVertexArray(0)
}

// Delete frees every GPU mesh.
func (r *ChunkRenderer) Delete() {
	for coord, m := range r.meshes {
		m.Delete()
		delete(r.meshes, coord)
	}
}
