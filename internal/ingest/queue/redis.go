package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisQueue implements Queue over a Redis Stream + consumer group,
// adapted from the teacher's internal/queue/redis.go. Selected when
// config.Queue.Driver is "redis".
type RedisQueue struct {
	client   *redis.Client
	stream   string
	group    string
	consumer string
	mu       sync.RWMutex
	jobsMap  map[string]*Job
}

// RedisQueueConfig configures a RedisQueue.
type RedisQueueConfig struct {
	Addr     string
	Password string
	DB       int
	Stream   string
	Group    string
	Consumer string
}

// DefaultRedisQueueConfig returns sane defaults for the ingestion stream.
func DefaultRedisQueueConfig() *RedisQueueConfig {
	return &RedisQueueConfig{
		Addr:     "localhost:6379",
		Stream:   "lexcore:ingestion",
		Group:    "lexcore-ingest-workers",
		Consumer: "worker-1",
	}
}

// NewRedisQueue connects to Redis and ensures the consumer group exists.
func NewRedisQueue(cfg *RedisQueueConfig) (*RedisQueue, error) {
	if cfg == nil {
		cfg = DefaultRedisQueueConfig()
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("connect to Redis: %w", err)
	}

	q := &RedisQueue{
		client:   client,
		stream:   cfg.Stream,
		group:    cfg.Group,
		consumer: cfg.Consumer,
		jobsMap:  make(map[string]*Job),
	}

	if err := client.XGroupCreateMkStream(ctx, q.stream, q.group, "0").Err(); err != nil &&
		err.Error() != "BUSYGROUP Consumer Group name already exists" {
		client.Close()
		return nil, fmt.Errorf("create consumer group: %w", err)
	}

	return q, nil
}

func (rq *RedisQueue) Enqueue(ctx context.Context, job *Job) error {
	data, err := json.Marshal(job)
	if err != nil {
		return fmt.Errorf("marshal job: %w", err)
	}
	if err := rq.client.XAdd(ctx, &redis.XAddArgs{
		Stream: rq.stream,
		Values: map[string]interface{}{"id": job.ID, "data": string(data)},
	}).Err(); err != nil {
		return fmt.Errorf("add to stream: %w", err)
	}
	rq.mu.Lock()
	rq.jobsMap[job.ID] = job
	rq.mu.Unlock()
	return nil
}

func (rq *RedisQueue) Dequeue(ctx context.Context) (*Job, error) {
	streams, err := rq.client.XReadGroup(ctx, &redis.XReadGroupArgs{
		Group:    rq.group,
		Consumer: rq.consumer,
		Streams:  []string{rq.stream, ">"},
		Count:    1,
		Block:    time.Second,
	}).Result()
	if err != nil {
		if err == redis.Nil {
			return nil, ErrQueueEmpty
		}
		return nil, fmt.Errorf("read from stream: %w", err)
	}
	if len(streams) == 0 || len(streams[0].Messages) == 0 {
		return nil, ErrQueueEmpty
	}

	raw, ok := streams[0].Messages[0].Values["data"].(string)
	if !ok {
		return nil, fmt.Errorf("invalid job payload format")
	}

	var job Job
	if err := json.Unmarshal([]byte(raw), &job); err != nil {
		return nil, fmt.Errorf("unmarshal job: %w", err)
	}
	job.MarkStarted()

	rq.mu.Lock()
	rq.jobsMap[job.ID] = &job
	rq.mu.Unlock()

	return &job, nil
}

func (rq *RedisQueue) Ack(ctx context.Context, jobID string) error {
	rq.mu.Lock()
	defer rq.mu.Unlock()
	job, ok := rq.jobsMap[jobID]
	if !ok {
		return ErrJobNotFound
	}
	job.MarkCompleted()
	delete(rq.jobsMap, jobID)
	return nil
}

func (rq *RedisQueue) Nack(ctx context.Context, jobID string, requeue bool) error {
	rq.mu.Lock()
	job, ok := rq.jobsMap[jobID]
	if !ok {
		rq.mu.Unlock()
		return ErrJobNotFound
	}
	delete(rq.jobsMap, jobID)
	rq.mu.Unlock()

	if requeue && job.ShouldRetry() {
		return rq.Enqueue(ctx, job)
	}
	job.MarkFailed(fmt.Errorf("job failed after %d attempts", job.Attempts))
	return nil
}

func (rq *RedisQueue) GetDepth(ctx context.Context) (int, error) {
	n, err := rq.client.XLen(ctx, rq.stream).Result()
	if err != nil {
		return 0, err
	}
	return int(n), nil
}

func (rq *RedisQueue) Close() error {
	return rq.client.Close()
}
