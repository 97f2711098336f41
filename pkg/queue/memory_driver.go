package queue

import (
	"context"
	"errors"
	"sync"
	"time"
)

// MemoryDriver is an in-process queue used by default and in tests.
type MemoryDriver struct {
	jobs chan Job

	mu     sync.Mutex
	closed bool
}

// NewMemoryDriver returns a driver holding up to depth pending jobs.
func NewMemoryDriver(depth int) *MemoryDriver {
	if depth < 1 {
		depth = 256
	}
	return &MemoryDriver{jobs: make(chan Job, depth)}
}

func (d *MemoryDriver) Push(ctx context.Context, job Job) error {
	d.mu.Lock()
	if d.closed {
		d.mu.Unlock()
		return errors.New("queue: memory driver closed")
	}
	d.mu.Unlock()

	select {
	case d.jobs <- job:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (d *MemoryDriver) Pop(ctx context.Context) (*Job, error) {
	select {
	case job, ok := <-d.jobs:
		if !ok {
			return nil, errors.New("queue: memory driver closed")
		}
		return &job, nil
	case <-time.After(time.Second):
		return nil, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func (d *MemoryDriver) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if !d.closed {
		d.closed = true
		close(d.jobs)
	}
	return nil
}
