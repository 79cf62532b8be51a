package renderer

import (
	"context"
	"runtime"
	"sync"

	"github.com/df07/go-pathtracer/pkg/core"
)

// TileTask represents a tile rendering task for the worker pool
type TileTask struct {
	Tile          *Tile
	PassNumber    int
	TargetSamples int
	TaskID        int // Index of the tile, used to match results
}

// TileResult contains the result from rendering a tile
type TileResult struct {
	TaskID int
	Stats  RenderStats
	Error  error
}

// WorkerPool manages parallel tile rendering
type WorkerPool struct {
	taskQueue   chan TileTask
	resultQueue chan TileResult
	workers     []*Worker
	numWorkers  int
	wg          sync.WaitGroup
}

// Worker handles individual tile rendering tasks
type Worker struct {
	ID           int
	tileRenderer *TileRenderer
	accumulator  *Accumulator
	sampler      *core.RandomSampler // Reseeded per sample, owned by this worker
	taskQueue    chan TileTask
	resultQueue  chan TileResult
}

// NewWorkerPool creates a worker pool with the specified number of workers.
// numWorkers <= 0 uses one worker per CPU; maxTasks sizes the queues so a whole pass
// can be submitted without blocking.
func NewWorkerPool(tileRenderer *TileRenderer, acc *Accumulator, numWorkers, maxTasks int) *WorkerPool {
	if numWorkers <= 0 {
		numWorkers = runtime.NumCPU()
	}

	wp := &WorkerPool{
		taskQueue:   make(chan TileTask, maxTasks),
		resultQueue: make(chan TileResult, maxTasks),
		numWorkers:  numWorkers,
	}

	for i := 0; i < numWorkers; i++ {
		wp.workers = append(wp.workers, &Worker{
			ID:           i,
			tileRenderer: tileRenderer,
			accumulator:  acc,
			sampler:      core.NewRandomSampler(uint64(i)),
			taskQueue:    wp.taskQueue,
			resultQueue:  wp.resultQueue,
		})
	}

	return wp
}

// Start begins all workers. Tasks picked up after ctx is done are reported
// with ctx.Err() instead of being rendered.
func (wp *WorkerPool) Start(ctx context.Context) {
	for _, worker := range wp.workers {
		wp.wg.Add(1)
		go worker.run(ctx, &wp.wg)
	}
}

// Stop gracefully shuts down all workers
func (wp *WorkerPool) Stop() {
	close(wp.taskQueue) // No more tasks
	wp.wg.Wait()        // Wait for workers to finish
	close(wp.resultQueue)
}

// SubmitTask submits a tile task to the worker pool
func (wp *WorkerPool) SubmitTask(task TileTask) {
	wp.taskQueue <- task
}

// GetResult retrieves a completed tile result
func (wp *WorkerPool) GetResult() (TileResult, bool) {
	result, ok := <-wp.resultQueue
	return result, ok
}

// GetNumWorkers returns the number of workers in the pool
func (wp *WorkerPool) GetNumWorkers() int {
	return wp.numWorkers
}

// run is the main worker loop
func (w *Worker) run(ctx context.Context, wg *sync.WaitGroup) {
	defer wg.Done()

	for task := range w.taskQueue {
		if err := ctx.Err(); err != nil {
			w.resultQueue <- TileResult{TaskID: task.TaskID, Error: err}
			continue
		}

		// Tiles have non-overlapping bounds, so writing to the shared accumulator is safe
		stats := w.tileRenderer.RenderTileBounds(task.Tile.Bounds, w.accumulator, w.sampler, task.TargetSamples)
		w.resultQueue <- TileResult{TaskID: task.TaskID, Stats: stats}
	}
}
