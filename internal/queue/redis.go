package queue

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// DefaultKey is the Redis list holding pending scoring tasks.
const DefaultKey = "jobscout:score_tasks"

// Redis is a Queue backed by a Redis list. Producers LPUSH, consumers BRPOP,
// so tasks are delivered in FIFO order across any number of workers.
type Redis struct {
	client *redis.Client
	key    string
}

// NewRedis connects to Redis at addr and verifies the connection.
func NewRedis(ctx context.Context, addr string) (*Redis, error) {
	client := redis.NewClient(&redis.Options{Addr: addr})
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}
	return &Redis{client: client, key: DefaultKey}, nil
}

// Close releases the Redis connection.
func (r *Redis) Close() error {
	return r.client.Close()
}

func (r *Redis) Enqueue(ctx context.Context, task ScoreTask) error {
	payload, err := json.Marshal(task)
	if err != nil {
		return fmt.Errorf("failed to marshal task: %w", err)
	}
	if err := r.client.LPush(ctx, r.key, payload).Err(); err != nil {
		return fmt.Errorf("failed to enqueue task: %w", err)
	}
	return nil
}

// Dequeue blocks until a task arrives or ctx is cancelled.
func (r *Redis) Dequeue(ctx context.Context) (ScoreTask, error) {
	res, err := r.client.BRPop(ctx, 0, r.key).Result()
	if err != nil {
		return ScoreTask{}, fmt.Errorf("failed to dequeue task: %w", err)
	}
	// BRPOP returns [key, value]
	if len(res) != 2 {
		return ScoreTask{}, fmt.Errorf("unexpected BRPOP reply length %d", len(res))
	}

	var task ScoreTask
	if err := json.Unmarshal([]byte(res[1]), &task); err != nil {
		return ScoreTask{}, fmt.Errorf("failed to unmarshal task: %w", err)
	}
	return task, nil
}
