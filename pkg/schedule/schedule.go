// Package schedule runs named tasks on fixed intervals.
package schedule

import (
	"context"
	"sync"
	"time"

	"github.com/shashiranjanraj/bazaar/pkg/logger"
)

// Task is a periodic unit of work.
type Task func(ctx context.Context) error

type entry struct {
	name     string
	interval time.Duration
	task     Task
}

// Scheduler runs each registered task on its own ticker.
type Scheduler struct {
	mu      sync.Mutex
	entries []entry
	cancel  context.CancelFunc
	wg      sync.WaitGroup
}

func New() *Scheduler {
	return &Scheduler{}
}

// Every registers task to run once per interval. The first run happens
// after the first interval elapses, not immediately.
func (s *Scheduler) Every(interval time.Duration, name string, task Task) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries = append(s.entries, entry{name: name, interval: interval, task: task})
}

// Start launches all registered tasks.
func (s *Scheduler) Start() {
	ctx, cancel := context.WithCancel(context.Background())
	s.mu.Lock()
	s.cancel = cancel
	entries := append([]entry{}, s.entries...)
	s.mu.Unlock()

	for _, e := range entries {
		e := e
		s.wg.Add(1)
		go func() {
			defer s.wg.Done()
			ticker := time.NewTicker(e.interval)
			defer ticker.Stop()
			for {
				select {
				case <-ticker.C:
					if err := e.task(ctx); err != nil {
						logger.L().Error("scheduled task failed",
							"task", e.name, "error", err)
					}
				case <-ctx.Done():
					return
				}
			}
		}()
	}
}

// Stop cancels all tasks and waits for them to exit.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	cancel := s.cancel
	s.mu.Unlock()
	if cancel != nil {
		cancel()
	}
	s.wg.Wait()
}
