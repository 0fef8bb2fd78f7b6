package worker

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gongahkia/lexcore/internal/ingest/queue"
)

func TestWorkerProcessSuccessAcks(t *testing.T) {
	q := queue.NewMemoryQueue()
	ctx := context.Background()

	job := queue.NewJob(queue.JobTypeIngest, nil)
	require.NoError(t, q.Enqueue(ctx, job))
	dequeued, err := q.Dequeue(ctx)
	require.NoError(t, err)

	called := false
	w := NewWorker(1, q, func(ctx context.Context, j *queue.Job) error {
		called = true
		return nil
	}, time.Second, nil)

	w.process(ctx, dequeued)

	assert.True(t, called)
	stats := w.GetStats()
	assert.Equal(t, int64(1), stats.JobsProcessed)
	assert.Equal(t, int64(0), stats.JobsFailed)
	assert.False(t, stats.IsBusy)
}

func TestWorkerProcessFailureNacks(t *testing.T) {
	q := queue.NewMemoryQueue()
	ctx := context.Background()

	job := queue.NewJob(queue.JobTypeIngest, nil)
	require.NoError(t, q.Enqueue(ctx, job))
	dequeued, err := q.Dequeue(ctx)
	require.NoError(t, err)

	w := NewWorker(1, q, func(ctx context.Context, j *queue.Job) error {
		return errors.New("subprocess exploded")
	}, time.Second, nil)

	w.process(ctx, dequeued)

	stats := w.GetStats()
	assert.Equal(t, int64(0), stats.JobsProcessed)
	assert.Equal(t, int64(1), stats.JobsFailed)
	assert.Equal(t, queue.JobStatusFailed, dequeued.Status)
}

func TestWorkerRunStopsOnContextCancel(t *testing.T) {
	q := queue.NewMemoryQueue()
	w := NewWorker(1, q, func(ctx context.Context, j *queue.Job) error { return nil }, time.Second, nil)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		w.Run(ctx)
		close(done)
	}()

	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("worker did not stop after context cancellation")
	}
}
