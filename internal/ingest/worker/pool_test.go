package worker

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gongahkia/lexcore/internal/ingest/queue"
)

func TestPoolProcessesEnqueuedJobs(t *testing.T) {
	q := queue.NewMemoryQueue()

	var mu sync.Mutex
	var processed int

	pool := NewPool(Config{WorkerCount: 2, JobTimeout: time.Second}, q, func(ctx context.Context, j *queue.Job) error {
		mu.Lock()
		processed++
		mu.Unlock()
		return nil
	}, nil)
	pool.Start()
	defer pool.Stop(time.Second)

	for i := 0; i < 5; i++ {
		require.NoError(t, q.Enqueue(context.Background(), queue.NewJob(queue.JobTypeIngest, nil)))
	}

	require.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return processed == 5
	}, 2*time.Second, 10*time.Millisecond)

	stats := pool.GetStats()
	assert.Equal(t, 2, stats.WorkerCount)
	assert.Equal(t, int64(5), stats.TotalJobsProcessed)
}

func TestPoolDefaultsWorkerCountAndTimeout(t *testing.T) {
	pool := NewPool(Config{}, queue.NewMemoryQueue(), func(ctx context.Context, j *queue.Job) error { return nil }, nil)
	assert.Len(t, pool.workers, 1)
	assert.Equal(t, 2*time.Minute, pool.workers[0].jobTimeout)
}

func TestPoolStopDrainsWithinTimeout(t *testing.T) {
	q := queue.NewMemoryQueue()
	pool := NewPool(Config{WorkerCount: 1, JobTimeout: time.Second}, q, func(ctx context.Context, j *queue.Job) error { return nil }, nil)
	pool.Start()

	assert.NoError(t, pool.Stop(time.Second))
}
