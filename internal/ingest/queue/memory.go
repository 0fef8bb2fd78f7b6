package queue

import (
	"context"
	"fmt"
	"sync"
)

// MemoryQueue is an in-process implementation of Queue, adapted from the
// teacher's internal/queue/memory.go. The default driver: run_ingestion
// does not need a distributed queue unless multiple process instances
// share one ingestion engine.
type MemoryQueue struct {
	jobs     []*Job
	jobsMap  map[string]*Job
	mu       sync.RWMutex
	notEmpty chan struct{}
	closed   bool
}

// NewMemoryQueue creates a new MemoryQueue.
func NewMemoryQueue() *MemoryQueue {
	return &MemoryQueue{
		jobs:     make([]*Job, 0),
		jobsMap:  make(map[string]*Job),
		notEmpty: make(chan struct{}, 1),
	}
}

func (mq *MemoryQueue) Enqueue(ctx context.Context, job *Job) error {
	mq.mu.Lock()
	defer mq.mu.Unlock()

	if mq.closed {
		return ErrQueueClosed
	}

	mq.jobsMap[job.ID] = job
	mq.jobs = append(mq.jobs, job)
	mq.sortByPriority()

	select {
	case mq.notEmpty <- struct{}{}:
	default:
	}

	return nil
}

func (mq *MemoryQueue) Dequeue(ctx context.Context) (*Job, error) {
	for {
		mq.mu.Lock()
		if mq.closed && len(mq.jobs) == 0 {
			mq.mu.Unlock()
			return nil, ErrQueueClosed
		}

		if len(mq.jobs) > 0 {
			job := mq.jobs[0]
			mq.jobs = mq.jobs[1:]
			mq.mu.Unlock()
			job.MarkStarted()
			return job, nil
		}
		mq.mu.Unlock()

		select {
		case <-mq.notEmpty:
			continue
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
}

func (mq *MemoryQueue) Ack(ctx context.Context, jobID string) error {
	mq.mu.Lock()
	defer mq.mu.Unlock()

	job, ok := mq.jobsMap[jobID]
	if !ok {
		return ErrJobNotFound
	}
	job.MarkCompleted()
	delete(mq.jobsMap, jobID)
	return nil
}

func (mq *MemoryQueue) Nack(ctx context.Context, jobID string, requeue bool) error {
	mq.mu.Lock()
	defer mq.mu.Unlock()

	job, ok := mq.jobsMap[jobID]
	if !ok {
		return ErrJobNotFound
	}

	if requeue && job.ShouldRetry() {
		mq.jobs = append(mq.jobs, job)
		mq.sortByPriority()
		select {
		case mq.notEmpty <- struct{}{}:
		default:
		}
		return nil
	}

	job.MarkFailed(fmt.Errorf("job failed after %d attempts", job.Attempts))
	delete(mq.jobsMap, jobID)
	return nil
}

func (mq *MemoryQueue) GetDepth(ctx context.Context) (int, error) {
	mq.mu.RLock()
	defer mq.mu.RUnlock()
	return len(mq.jobs), nil
}

func (mq *MemoryQueue) Close() error {
	mq.mu.Lock()
	defer mq.mu.Unlock()
	if mq.closed {
		return nil
	}
	mq.closed = true
	close(mq.notEmpty)
	return nil
}

func (mq *MemoryQueue) sortByPriority() {
	n := len(mq.jobs)
	for i := 0; i < n-1; i++ {
		for j := 0; j < n-i-1; j++ {
			if mq.jobs[j].Priority < mq.jobs[j+1].Priority {
				mq.jobs[j], mq.jobs[j+1] = mq.jobs[j+1], mq.jobs[j]
			}
		}
	}
}
