package queue

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryQueueEnqueueDequeueAck(t *testing.T) {
	q := NewMemoryQueue()
	ctx := context.Background()

	job := NewJob(JobTypeIngest, map[string]interface{}{"sourceId": "bgbl"})
	require.NoError(t, q.Enqueue(ctx, job))

	depth, err := q.GetDepth(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, depth)

	got, err := q.Dequeue(ctx)
	require.NoError(t, err)
	assert.Equal(t, job.ID, got.ID)
	assert.Equal(t, JobStatusRunning, got.Status)

	require.NoError(t, q.Ack(ctx, got.ID))
	assert.ErrorIs(t, q.Ack(ctx, got.ID), ErrJobNotFound)
}

func TestMemoryQueueDequeueBlocksUntilEnqueue(t *testing.T) {
	q := NewMemoryQueue()
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	resultCh := make(chan *Job, 1)
	go func() {
		job, err := q.Dequeue(ctx)
		if err == nil {
			resultCh <- job
		}
	}()

	time.Sleep(10 * time.Millisecond)
	job := NewJob(JobTypeIngest, nil)
	require.NoError(t, q.Enqueue(context.Background(), job))

	select {
	case got := <-resultCh:
		assert.Equal(t, job.ID, got.ID)
	case <-time.After(time.Second):
		t.Fatal("dequeue did not unblock after enqueue")
	}
}

func TestMemoryQueueNackWithoutRetryDrops(t *testing.T) {
	q := NewMemoryQueue()
	ctx := context.Background()

	job := NewJob(JobTypeIngest, nil)
	require.NoError(t, q.Enqueue(ctx, job))
	got, err := q.Dequeue(ctx)
	require.NoError(t, err)

	require.NoError(t, q.Nack(ctx, got.ID, true))

	depth, err := q.GetDepth(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, depth, "job with MaxAttempts:1 should not be requeued")
}

func TestMemoryQueueCloseRejectsEnqueue(t *testing.T) {
	q := NewMemoryQueue()
	require.NoError(t, q.Close())

	err := q.Enqueue(context.Background(), NewJob(JobTypeIngest, nil))
	assert.ErrorIs(t, err, ErrQueueClosed)
}
