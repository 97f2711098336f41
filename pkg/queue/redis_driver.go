package queue

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

const redisQueueKey = "bazaar:queue:jobs"

// RedisDriver backs the queue with a Redis list so jobs survive restarts
// and can be shared by multiple worker processes.
type RedisDriver struct {
	client *redis.Client
}

// NewRedisDriver wraps an existing Redis client. The caller owns the
// client's lifecycle.
func NewRedisDriver(client *redis.Client) *RedisDriver {
	return &RedisDriver{client: client}
}

func (d *RedisDriver) Push(ctx context.Context, job Job) error {
	raw, err := json.Marshal(job)
	if err != nil {
		return err
	}
	return d.client.LPush(ctx, redisQueueKey, raw).Err()
}

func (d *RedisDriver) Pop(ctx context.Context) (*Job, error) {
	res, err := d.client.BRPop(ctx, time.Second, redisQueueKey).Result()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	// BRPop returns [key, value].
	if len(res) != 2 {
		return nil, nil
	}
	var job Job
	if err := json.Unmarshal([]byte(res[1]), &job); err != nil {
		return nil, err
	}
	return &job, nil
}

// Close is a no-op; the shared Redis client is closed by its owner.
func (d *RedisDriver) Close() error { return nil }
