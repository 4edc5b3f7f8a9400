package worker

import (
	"context"
	"log"
	"runtime"
	"sync"
)

// Task is one unit of export work (clipboard copy, file write) that must not
// run on the event loop goroutine.
type Task func(ctx context.Context) error

// ResultCallback is invoked on task completion (from a worker goroutine).
// The event loop should pass a closure that posts back into the event loop safely.
type ResultCallback func(err error)

// Pool is a fixed-size worker pool with a 1-slot input queue (strict back-pressure).
type Pool struct {
	jobs chan job
	wg   sync.WaitGroup

	mu     sync.Mutex
	closed bool
}

type job struct {
	ctx  context.Context
	name string
	task Task
	cb   ResultCallback
}

// New creates a worker pool. Size defaults to NumCPU when size<=0. Queue is 1 slot.
func New(size int) *Pool {
	if size <= 0 {
		size = runtime.NumCPU()
	}
	p := &Pool{jobs: make(chan job, 1)}
	p.start(size)
	return p
}

func (p *Pool) start(n int) {
	for i := 0; i < n; i++ {
		p.wg.Add(1)
		go func() {
			defer p.wg.Done()
			for j := range p.jobs {
				err := runWithContext(j.ctx, j.task)
				if err != nil {
					log.Printf("Worker: %s failed: %v", j.name, err)
				}
				if j.cb != nil {
					j.cb(err)
				}
			}
		}()
	}
}

// Submit enqueues a task if the single-slot queue is free. Returns false if
// dropped or if the pool is closed.
func (p *Pool) Submit(ctx context.Context, name string, task Task, cb ResultCallback) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return false
	}
	select {
	case p.jobs <- job{ctx: ctx, name: name, task: task, cb: cb}:
		return true
	default:
		log.Printf("Worker: queue full, dropping %s", name)
		return false
	}
}

// Close stops the pool after draining current work. It is safe to call more than once.
func (p *Pool) Close() {
	p.mu.Lock()
	if !p.closed {
		p.closed = true
		close(p.jobs)
	}
	p.mu.Unlock()
	p.wg.Wait()
}

// runWithContext runs task and returns early with ctx's error when ctx ends
// first. The task keeps running in the background in that case.
func runWithContext(ctx context.Context, task Task) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if ctx.Done() == nil {
		return task(ctx)
	}
	errCh := make(chan error, 1)
	go func() { errCh <- task(ctx) }()
	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}
