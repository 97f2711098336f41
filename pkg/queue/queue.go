// Package queue dispatches named background jobs through a pluggable
// driver. The memory driver serves single-process deployments and tests;
// the redis driver survives restarts and fans work across processes.
package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/shashiranjanraj/bazaar/pkg/logger"
	"github.com/shashiranjanraj/bazaar/pkg/metrics"
	"github.com/shashiranjanraj/bazaar/pkg/reqid"
	"github.com/shashiranjanraj/bazaar/pkg/workerpool"
)

const maxAttempts = 3

// Job is one unit of queued work.
type Job struct {
	ID       string          `json:"id"`
	Name     string          `json:"name"`
	Payload  json.RawMessage `json:"payload"`
	Attempts int             `json:"attempts"`
	Queued   time.Time       `json:"queued"`
}

// Handler processes a job payload.
type Handler func(ctx context.Context, payload json.RawMessage) error

// Driver moves jobs between Dispatch and the workers.
type Driver interface {
	Push(ctx context.Context, job Job) error
	// Pop blocks up to a driver-chosen timeout and returns nil when no
	// job arrived.
	Pop(ctx context.Context) (*Job, error)
	Close() error
}

// FailedStore records jobs that exhausted their attempts.
type FailedStore interface {
	Record(ctx context.Context, job Job, jobErr error) error
}

// Manager owns the driver, the handler registry and the worker pool.
type Manager struct {
	driver Driver
	failed FailedStore

	mu       sync.RWMutex
	handlers map[string]Handler

	pool   *workerpool.Pool
	cancel context.CancelFunc
	done   chan struct{}
}

// NewManager builds a manager over the given driver. failed may be nil.
func NewManager(driver Driver, failed FailedStore) *Manager {
	return &Manager{
		driver:   driver,
		failed:   failed,
		handlers: make(map[string]Handler),
	}
}

// Register binds a handler to a job name. Dispatching an unregistered name
// is an error.
func (m *Manager) Register(name string, h Handler) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.handlers[name] = h
}

// Dispatch enqueues a job. payload is JSON-marshalled.
func (m *Manager) Dispatch(ctx context.Context, name string, payload interface{}) error {
	m.mu.RLock()
	_, ok := m.handlers[name]
	m.mu.RUnlock()
	if !ok {
		return fmt.Errorf("queue: no handler registered for %q", name)
	}

	raw, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("queue: marshal payload for %q: %w", name, err)
	}
	job := Job{
		ID:      reqid.New(),
		Name:    name,
		Payload: raw,
		Queued:  time.Now(),
	}
	return m.driver.Push(ctx, job)
}

// StartWorkers begins consuming jobs with the given concurrency. Call
// Shutdown to stop.
func (m *Manager) StartWorkers(workers int) {
	ctx, cancel := context.WithCancel(context.Background())
	m.cancel = cancel
	m.pool = workerpool.New(workers, workers*2)
	m.done = make(chan struct{})

	go func() {
		defer close(m.done)
		for {
			job, err := m.driver.Pop(ctx)
			if err != nil {
				if ctx.Err() != nil {
					return
				}
				logger.L().Error("queue pop failed", "error", err)
				time.Sleep(time.Second)
				continue
			}
			if job == nil {
				if ctx.Err() != nil {
					return
				}
				continue
			}
			j := *job
			if err := m.pool.Submit(func(taskCtx context.Context) {
				m.process(taskCtx, j)
			}); err != nil {
				return
			}
		}
	}()
}

func (m *Manager) process(ctx context.Context, job Job) {
	m.mu.RLock()
	h, ok := m.handlers[job.Name]
	m.mu.RUnlock()
	if !ok {
		logger.L().Error("queue job has no handler", "job", job.Name, "id", job.ID)
		metrics.QueueJobs.WithLabelValues(job.Name, "dropped").Inc()
		return
	}

	job.Attempts++
	err := h(ctx, job.Payload)
	if err == nil {
		metrics.QueueJobs.WithLabelValues(job.Name, "ok").Inc()
		return
	}

	logger.L().Warn("queue job failed",
		"job", job.Name, "id", job.ID, "attempt", job.Attempts, "error", err)

	if job.Attempts < maxAttempts {
		metrics.QueueJobs.WithLabelValues(job.Name, "retry").Inc()
		if pushErr := m.driver.Push(ctx, job); pushErr != nil {
			logger.L().Error("queue requeue failed", "job", job.Name, "error", pushErr)
		}
		return
	}

	metrics.QueueJobs.WithLabelValues(job.Name, "failed").Inc()
	if m.failed != nil {
		if recErr := m.failed.Record(ctx, job, err); recErr != nil {
			logger.L().Error("failed job not recorded", "job", job.Name, "error", recErr)
		}
	}
}

// Shutdown stops job consumption, drains in-flight work and closes the
// driver.
func (m *Manager) Shutdown() {
	if m.cancel != nil {
		m.cancel()
		<-m.done
	}
	if m.pool != nil {
		m.pool.Shutdown()
	}
	_ = m.driver.Close()
}
