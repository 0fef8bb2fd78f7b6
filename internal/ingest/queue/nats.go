package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/nats-io/nats.go"
)

// NATSQueue implements Queue over a NATS JetStream work-queue stream,
// adapted from the teacher's internal/queue/nats.go. Selected when
// config.Queue.Driver is "nats" — useful when the ingestion engine runs
// as a separate fleet from the tool-call process.
type NATSQueue struct {
	nc       *nats.Conn
	js       nats.JetStreamContext
	stream   string
	subject  string
	consumer string
	mu       sync.RWMutex
	jobsMap  map[string]*Job
}

// NATSQueueConfig configures a NATSQueue.
type NATSQueueConfig struct {
	URL      string
	Stream   string
	Subject  string
	Consumer string
}

// DefaultNATSQueueConfig returns sane defaults for the ingestion stream.
func DefaultNATSQueueConfig() *NATSQueueConfig {
	return &NATSQueueConfig{
		URL:      nats.DefaultURL,
		Stream:   "LEXCORE_INGESTION",
		Subject:  "ingestion.jobs",
		Consumer: "lexcore-ingest-workers",
	}
}

// NewNATSQueue connects to NATS and ensures the backing stream exists.
func NewNATSQueue(cfg *NATSQueueConfig) (*NATSQueue, error) {
	if cfg == nil {
		cfg = DefaultNATSQueueConfig()
	}

	nc, err := nats.Connect(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("connect to NATS: %w", err)
	}

	js, err := nc.JetStream()
	if err != nil {
		nc.Close()
		return nil, fmt.Errorf("create JetStream context: %w", err)
	}

	q := &NATSQueue{
		nc:       nc,
		js:       js,
		stream:   cfg.Stream,
		subject:  cfg.Subject,
		consumer: cfg.Consumer,
		jobsMap:  make(map[string]*Job),
	}

	if _, err := js.StreamInfo(q.stream); err != nil {
		if _, err := js.AddStream(&nats.StreamConfig{
			Name:      q.stream,
			Subjects:  []string{q.subject},
			Storage:   nats.FileStorage,
			Retention: nats.WorkQueuePolicy,
			MaxAge:    24 * time.Hour,
		}); err != nil {
			nc.Close()
			return nil, fmt.Errorf("create ingestion stream: %w", err)
		}
	}

	return q, nil
}

func (nq *NATSQueue) Enqueue(ctx context.Context, job *Job) error {
	data, err := json.Marshal(job)
	if err != nil {
		return fmt.Errorf("marshal job: %w", err)
	}
	if _, err := nq.js.Publish(nq.subject, data); err != nil {
		return fmt.Errorf("publish job: %w", err)
	}
	nq.mu.Lock()
	nq.jobsMap[job.ID] = job
	nq.mu.Unlock()
	return nil
}

func (nq *NATSQueue) Dequeue(ctx context.Context) (*Job, error) {
	sub, err := nq.js.PullSubscribe(nq.subject, nq.consumer)
	if err != nil {
		return nil, fmt.Errorf("subscribe: %w", err)
	}
	defer sub.Unsubscribe()

	msgs, err := sub.Fetch(1, nats.Context(ctx))
	if err != nil {
		if err == context.Canceled || err == context.DeadlineExceeded {
			return nil, err
		}
		return nil, ErrQueueEmpty
	}
	if len(msgs) == 0 {
		return nil, ErrQueueEmpty
	}

	var job Job
	if err := json.Unmarshal(msgs[0].Data, &job); err != nil {
		msgs[0].Nak()
		return nil, fmt.Errorf("unmarshal job: %w", err)
	}
	job.MarkStarted()

	nq.mu.Lock()
	nq.jobsMap[job.ID] = &job
	nq.mu.Unlock()

	return &job, nil
}

func (nq *NATSQueue) Ack(ctx context.Context, jobID string) error {
	nq.mu.Lock()
	defer nq.mu.Unlock()
	job, ok := nq.jobsMap[jobID]
	if !ok {
		return ErrJobNotFound
	}
	job.MarkCompleted()
	delete(nq.jobsMap, jobID)
	return nil
}

func (nq *NATSQueue) Nack(ctx context.Context, jobID string, requeue bool) error {
	nq.mu.Lock()
	job, ok := nq.jobsMap[jobID]
	if !ok {
		nq.mu.Unlock()
		return ErrJobNotFound
	}
	delete(nq.jobsMap, jobID)
	nq.mu.Unlock()

	if requeue && job.ShouldRetry() {
		return nq.Enqueue(ctx, job)
	}
	job.MarkFailed(fmt.Errorf("job failed after %d attempts", job.Attempts))
	return nil
}

func (nq *NATSQueue) GetDepth(ctx context.Context) (int, error) {
	info, err := nq.js.StreamInfo(nq.stream)
	if err != nil {
		return 0, err
	}
	return int(info.State.Msgs), nil
}

func (nq *NATSQueue) Close() error {
	nq.nc.Close()
	return nil
}
