package renderer

import (
	"context"
	"runtime"
	"sync"

	"github.com/df07/go-pathtracer/pkg/core"
)

// RowTask represents a scanline rendering task for the worker pool
type RowTask struct {
	Row int
}

// RowResult contains the tone-mapped pixels of a finished row
type RowResult struct {
	Row    int
	Pixels []core.RGB
	Error  error
}

// WorkerPool manages parallel row rendering
type WorkerPool struct {
	taskQueue   chan RowTask
	resultQueue chan RowResult
	workers     []*Worker
	numWorkers  int
	wg          sync.WaitGroup
}

// Worker handles individual row rendering tasks
type Worker struct {
	ID          int
	raytracer   *Raytracer
	taskQueue   chan RowTask
	resultQueue chan RowResult
}

// NewWorkerPool creates a worker pool with the specified number of workers.
// Queues are buffered for every row so submission and delivery never block.
func NewWorkerPool(raytracer *Raytracer, rows, numWorkers int) *WorkerPool {
	if numWorkers <= 0 {
		numWorkers = runtime.NumCPU()
	}
	if rows > 0 && numWorkers > rows {
		numWorkers = rows
	}

	wp := &WorkerPool{
		taskQueue:   make(chan RowTask, rows),
		resultQueue: make(chan RowResult, rows),
		numWorkers:  numWorkers,
	}

	for i := 0; i < numWorkers; i++ {
		wp.workers = append(wp.workers, &Worker{
			ID:          i,
			raytracer:   raytracer,
			taskQueue:   wp.taskQueue,
			resultQueue: wp.resultQueue,
		})
	}

	return wp
}

// Start begins all workers
func (wp *WorkerPool) Start(ctx context.Context) {
	for _, worker := range wp.workers {
		wp.wg.Add(1)
		go worker.run(ctx, &wp.wg)
	}
}

// Stop closes the task queue, waits for workers to drain it and closes the results
func (wp *WorkerPool) Stop() {
	close(wp.taskQueue)
	wp.wg.Wait()
	close(wp.resultQueue)
}

// SubmitTask submits a row task to the worker pool
func (wp *WorkerPool) SubmitTask(task RowTask) {
	wp.taskQueue <- task
}

// GetResult retrieves a completed row, ok is false once the pool has stopped
func (wp *WorkerPool) GetResult() (RowResult, bool) {
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
		// Remaining tasks are still consumed after cancellation so Stop can finish
		if err := ctx.Err(); err != nil {
			w.resultQueue <- RowResult{Row: task.Row, Error: err}
			continue
		}

		pixels := make([]core.RGB, w.raytracer.camera.Width())
		w.raytracer.RenderRow(task.Row, pixels)
		w.resultQueue <- RowResult{Row: task.Row, Pixels: pixels}
	}
}
