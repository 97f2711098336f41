// Package event is a process-local publish/subscribe bus. Listeners run
// synchronously in Fire's goroutine; anything slow should hand off to the
// queue.
package event

import (
	"context"
	"sync"

	"github.com/shashiranjanraj/bazaar/pkg/logger"
)

// Listener handles one event occurrence.
type Listener func(ctx context.Context, payload interface{})

// Bus routes named events to their listeners.
type Bus struct {
	mu        sync.RWMutex
	listeners map[string][]Listener
}

func NewBus() *Bus {
	return &Bus{listeners: make(map[string][]Listener)}
}

// On registers a listener for the named event.
func (b *Bus) On(name string, l Listener) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.listeners[name] = append(b.listeners[name], l)
}

// Fire invokes every listener for name. A panicking listener is logged and
// does not stop the others.
func (b *Bus) Fire(ctx context.Context, name string, payload interface{}) {
	b.mu.RLock()
	ls := b.listeners[name]
	b.mu.RUnlock()

	for _, l := range ls {
		func() {
			defer func() {
				if rec := recover(); rec != nil {
					logger.WithCtx(ctx).Error("event listener panicked",
						"event", name, "panic", rec)
				}
			}()
			l(ctx, payload)
		}()
	}
}
