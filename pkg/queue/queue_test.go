package queue

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memFailedStore struct {
	mu   sync.Mutex
	jobs []Job
}

func (s *memFailedStore) Record(_ context.Context, job Job, _ error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.jobs = append(s.jobs, job)
	return nil
}

func TestDispatchAndProcess(t *testing.T) {
	m := NewManager(NewMemoryDriver(16), nil)

	done := make(chan string, 1)
	m.Register("greet", func(ctx context.Context, payload json.RawMessage) error {
		var p struct {
			Name string `json:"name"`
		}
		if err := json.Unmarshal(payload, &p); err != nil {
			return err
		}
		done <- p.Name
		return nil
	})

	m.StartWorkers(2)
	defer m.Shutdown()

	err := m.Dispatch(context.Background(), "greet", map[string]string{"name": "ada"})
	require.NoError(t, err)

	select {
	case name := <-done:
		assert.Equal(t, "ada", name)
	case <-time.After(3 * time.Second):
		t.Fatal("job was not processed")
	}
}

func TestDispatchUnregistered(t *testing.T) {
	m := NewManager(NewMemoryDriver(4), nil)
	err := m.Dispatch(context.Background(), "nope", nil)
	assert.Error(t, err)
}

func TestRetriesThenFailedStore(t *testing.T) {
	failed := &memFailedStore{}
	m := NewManager(NewMemoryDriver(16), failed)

	var attempts int64
	exhausted := make(chan struct{})
	m.Register("flaky", func(ctx context.Context, payload json.RawMessage) error {
		n := atomic.AddInt64(&attempts, 1)
		if n >= maxAttempts {
			defer close(exhausted)
		}
		return errors.New("boom")
	})

	m.StartWorkers(1)
	defer m.Shutdown()

	require.NoError(t, m.Dispatch(context.Background(), "flaky", nil))

	select {
	case <-exhausted:
	case <-time.After(5 * time.Second):
		t.Fatal("job never exhausted retries")
	}

	assert.Eventually(t, func() bool {
		failed.mu.Lock()
		defer failed.mu.Unlock()
		return len(failed.jobs) == 1
	}, 3*time.Second, 50*time.Millisecond)

	assert.Equal(t, int64(maxAttempts), atomic.LoadInt64(&attempts))
}

func TestMemoryDriverPopTimeout(t *testing.T) {
	d := NewMemoryDriver(1)
	defer d.Close()

	start := time.Now()
	job, err := d.Pop(context.Background())
	require.NoError(t, err)
	assert.Nil(t, job)
	assert.GreaterOrEqual(t, time.Since(start), 900*time.Millisecond)
}
