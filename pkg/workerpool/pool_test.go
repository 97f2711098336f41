package workerpool

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPoolRunsAllTasks(t *testing.T) {
	p := New(4, 16)

	var ran int64
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		err := p.Submit(func(ctx context.Context) {
			defer wg.Done()
			atomic.AddInt64(&ran, 1)
		})
		require.NoError(t, err)
	}
	wg.Wait()
	p.Shutdown()

	assert.Equal(t, int64(50), atomic.LoadInt64(&ran))
}

func TestSubmitAfterShutdown(t *testing.T) {
	p := New(1, 1)
	p.Shutdown()

	err := p.Submit(func(ctx context.Context) {})
	assert.ErrorIs(t, err, ErrClosed)
	assert.False(t, p.TrySubmit(func(ctx context.Context) {}))
}

func TestShutdownDrainsQueue(t *testing.T) {
	p := New(1, 8)

	var ran int64
	for i := 0; i < 8; i++ {
		require.NoError(t, p.Submit(func(ctx context.Context) {
			atomic.AddInt64(&ran, 1)
		}))
	}
	p.Shutdown()

	assert.Equal(t, int64(8), atomic.LoadInt64(&ran))
}

func TestShutdownIdempotent(t *testing.T) {
	p := New(2, 2)
	p.Shutdown()
	p.Shutdown()
}
