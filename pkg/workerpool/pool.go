// Package workerpool runs submitted tasks on a fixed set of goroutines.
package workerpool

import (
	"context"
	"errors"
	"sync"
)

var ErrClosed = errors.New("workerpool: closed")

// Task is a unit of background work.
type Task func(ctx context.Context)

// Pool executes tasks with bounded concurrency.
type Pool struct {
	tasks chan Task

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	mu     sync.Mutex
	closed bool
}

// New starts a pool with the given number of workers and task queue depth.
func New(workers, depth int) *Pool {
	if workers < 1 {
		workers = 1
	}
	if depth < 1 {
		depth = workers
	}
	ctx, cancel := context.WithCancel(context.Background())
	p := &Pool{
		tasks:  make(chan Task, depth),
		ctx:    ctx,
		cancel: cancel,
	}
	for i := 0; i < workers; i++ {
		p.wg.Add(1)
		go p.worker()
	}
	return p
}

func (p *Pool) worker() {
	defer p.wg.Done()
	for task := range p.tasks {
		task(p.ctx)
	}
}

// Submit enqueues a task, blocking while the queue is full.
// Returns ErrClosed after Shutdown.
func (p *Pool) Submit(task Task) error {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return ErrClosed
	}
	p.mu.Unlock()

	select {
	case p.tasks <- task:
		return nil
	case <-p.ctx.Done():
		return ErrClosed
	}
}

// TrySubmit enqueues a task without blocking; returns false when the queue
// is full or the pool is closed.
func (p *Pool) TrySubmit(task Task) bool {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return false
	}
	p.mu.Unlock()

	select {
	case p.tasks <- task:
		return true
	default:
		return false
	}
}

// Shutdown stops accepting tasks, waits for queued tasks to drain, then
// cancels the pool context handed to running tasks.
func (p *Pool) Shutdown() {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return
	}
	p.closed = true
	close(p.tasks)
	p.mu.Unlock()

	p.wg.Wait()
	p.cancel()
}
