package worker

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/go-redis/redis/v8"
	"meetups.app/config"
)

// job is the unit carried by a queue. Payloads are JSON so the Redis backend
// can move them through the broker; handles never leave the process.
type job struct {
	ID      string          `json:"id"`
	Name    string          `json:"name"`
	Payload json.RawMessage `json:"payload"`
}

// Queue is the broker boundary of the task pool
type Queue interface {
	Push(ctx context.Context, j *job) error
	// Pop blocks until a job is available or the context is done.
	Pop(ctx context.Context) (*job, error)
	Close() error
}

// NewQueue builds a queue backend from configuration
func NewQueue(cfg *config.WorkerConfig) (Queue, error) {
	switch cfg.QueueType {
	case "redis":
		return NewRedisQueue(cfg)
	case "memory":
		return NewMemoryQueue(cfg.QueueSize), nil
	default:
		return nil, fmt.Errorf("unknown worker queue type: %s", cfg.QueueType)
	}
}

// MemoryQueue is a process-local queue backed by a buffered channel
type MemoryQueue struct {
	jobs chan *job
}

// NewMemoryQueue creates an in-process queue with the given capacity
func NewMemoryQueue(size int) *MemoryQueue {
	if size <= 0 {
		size = 64
	}
	return &MemoryQueue{jobs: make(chan *job, size)}
}

func (q *MemoryQueue) Push(ctx context.Context, j *job) error {
	select {
	case q.jobs <- j:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (q *MemoryQueue) Pop(ctx context.Context) (*job, error) {
	select {
	case j, ok := <-q.jobs:
		if !ok {
			return nil, context.Canceled
		}
		return j, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func (q *MemoryQueue) Close() error {
	close(q.jobs)
	return nil
}

// RedisQueue is a broker-backed queue built on a Redis list
type RedisQueue struct {
	client *redis.Client
	key    string
}

// NewRedisQueue connects to Redis and verifies the connection
func NewRedisQueue(cfg *config.WorkerConfig) (*RedisQueue, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})

	if err := client.Ping(context.Background()).Err(); err != nil {
		return nil, fmt.Errorf("connect to redis broker: %w", err)
	}

	slog.Info("Redis task queue connected successfully", "addr", cfg.RedisAddr)

	return &RedisQueue{client: client, key: cfg.RedisQueueKey}, nil
}

func (q *RedisQueue) Push(ctx context.Context, j *job) error {
	data, err := json.Marshal(j)
	if err != nil {
		return err
	}
	return q.client.LPush(ctx, q.key, data).Err()
}

func (q *RedisQueue) Pop(ctx context.Context) (*job, error) {
	for {
		result, err := q.client.BRPop(ctx, time.Second, q.key).Result()
		if err != nil {
			if err == redis.Nil {
				select {
				case <-ctx.Done():
					return nil, ctx.Err()
				default:
					continue
				}
			}
			return nil, err
		}

		var j job
		if err := json.Unmarshal([]byte(result[1]), &j); err != nil {
			slog.Error("Dropping malformed job from redis queue", "error", err)
			continue
		}
		return &j, nil
	}
}

func (q *RedisQueue) Close() error {
	return q.client.Close()
}
