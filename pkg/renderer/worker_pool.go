package renderer

import (
	"context"
	"runtime"
	"sync"
)

// TileTask represents a tile rendering task for the worker pool
type TileTask struct {
	Tile   *Tile
	TaskID int // For deterministic ordering
}

// TileResult contains the result from rendering a tile
type TileResult struct {
	TaskID int
	Stats  BDPTStats
	Error  error
}

// TileFunc renders one tile
type TileFunc func(ctx context.Context, tile *Tile) (BDPTStats, error)

// WorkerPool manages parallel tile rendering
type WorkerPool struct {
	taskQueue   chan TileTask
	resultQueue chan TileResult
	numWorkers  int
	render      TileFunc
	wg          sync.WaitGroup
}

// NewWorkerPool creates a worker pool with the specified number of workers.
// queueSize bounds the number of tasks that can be submitted without
// blocking.
func NewWorkerPool(numWorkers, queueSize int, render TileFunc) *WorkerPool {
	if numWorkers <= 0 {
		numWorkers = runtime.NumCPU()
	}
	return &WorkerPool{
		taskQueue:   make(chan TileTask, queueSize),
		resultQueue: make(chan TileResult, queueSize),
		numWorkers:  numWorkers,
		render:      render,
	}
}

// Start begins all workers. They stop rendering, but keep draining tasks,
// once ctx is done.
func (wp *WorkerPool) Start(ctx context.Context) {
	for i := 0; i < wp.numWorkers; i++ {
		wp.wg.Add(1)
		go wp.run(ctx)
	}
}

// Stop waits for the submitted tasks to finish and closes the results
func (wp *WorkerPool) Stop() {
	close(wp.taskQueue) // No more tasks
	wp.wg.Wait()
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

func (wp *WorkerPool) run(ctx context.Context) {
	defer wp.wg.Done()

	for task := range wp.taskQueue {
		if err := ctx.Err(); err != nil {
			wp.resultQueue <- TileResult{TaskID: task.TaskID, Error: err}
			continue
		}
		stats, err := wp.render(ctx, task.Tile)
		wp.resultQueue <- TileResult{TaskID: task.TaskID, Stats: stats, Error: err}
	}
}
