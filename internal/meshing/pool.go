package meshing

import (
	"context"
	"errors"
	"sync"

	"chunkmesh/internal/world"

	"github.com/google/uuid"
)

// ErrPoolClosed is returned for jobs submitted after Shutdown.
var ErrPoolClosed = errors.New("mesh worker pool is shut down")

// MeshJob represents a meshing job request
type MeshJob struct {
	ID     uuid.UUID
	Coord  world.ChunkCoord
	Grid   *world.Grid
	Blocks BlockSource
	// Result channel - will be sent the result when done
	ResultChan chan<- MeshResult
}

// MeshResult contains the result of a meshing operation
type MeshResult struct {
	ID    uuid.UUID
	Coord world.ChunkCoord
	Mesh  *ChunkMesh
	Err   error
}

// WorkerPool rebuilds chunk meshes on a fixed set of goroutines.
type WorkerPool struct {
	mesher   *Mesher
	jobQueue chan MeshJob
	workers  int
	ctx      context.Context
	cancel   context.CancelFunc
	wg       sync.WaitGroup
}

// NewWorkerPool creates a new mesh worker pool
func NewWorkerPool(mesher *Mesher, workers int, queueSize int) *WorkerPool {
	if workers < 1 {
		workers = 1
	}
	ctx, cancel := context.WithCancel(context.Background())
	pool := &WorkerPool{
		mesher:   mesher,
		jobQueue: make(chan MeshJob, queueSize),
		workers:  workers,
		ctx:      ctx,
		cancel:   cancel,
	}

	for i := range workers {
		pool.wg.Add(1)
		go pool.worker(i)
	}

	return pool
}

// NewJob snapshots a chunk's grid into a job and marks the chunk clean, so
// later edits make it dirty again without racing the rebuild.
func NewJob(c *world.Chunk, blocks BlockSource, results chan<- MeshResult) MeshJob {
	job := MeshJob{
		ID:         uuid.New(),
		Coord:      c.Coord,
		Grid:       c.Grid().Clone(),
		Blocks:     blocks,
		ResultChan: results,
	}
	c.SetClean()
	return job
}

// SubmitJob submits a mesh generation job to the pool
// Returns true if job was submitted successfully, false if queue is full
func (p *WorkerPool) SubmitJob(job MeshJob) bool {
	if p.ctx.Err() != nil {
		return false
	}
	select {
	case p.jobQueue <- job:
		return true
	default:
		return false // Queue is full
	}
}

// SubmitJobBlocking submits a job and blocks until it's queued or ctx ends.
func (p *WorkerPool) SubmitJobBlocking(ctx context.Context, job MeshJob) error {
	if p.ctx.Err() != nil {
		return ErrPoolClosed
	}
	select {
	case p.jobQueue <- job:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	case <-p.ctx.Done():
		return ErrPoolClosed
	}
}

// worker is the worker goroutine that processes mesh jobs
func (p *WorkerPool) worker(id int) {
	defer p.wg.Done()

	for {
		select {
		case job := <-p.jobQueue:
			mesh, err := p.mesher.Rebuild(job.Grid, job.Blocks)
			result := MeshResult{
				ID:    job.ID,
				Coord: job.Coord,
				Mesh:  mesh,
				Err:   err,
			}

			select {
			case job.ResultChan <- result:
			case <-p.ctx.Done():
				return
			}

		case <-p.ctx.Done():
			return
		}
	}
}

// Shutdown stops the workers and waits for them. Queued jobs are dropped.
func (p *WorkerPool) Shutdown() {
	p.cancel()
	p.wg.Wait()
}

// GetQueueLength returns the current number of jobs in the queue
func (p *WorkerPool) GetQueueLength() int {
	return len(p.jobQueue)
}

// Workers returns the number of worker goroutines.
func (p *WorkerPool) Workers() int {
	return p.workers
}
