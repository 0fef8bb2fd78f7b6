package worker

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/gongahkia/lexcore/internal/ingest/queue"
	"github.com/gongahkia/lexcore/internal/observability"
)

// Pool runs a fixed number of Workers against a shared queue.Queue.
type Pool struct {
	workers []*Worker
	queue   queue.Queue
	handler JobHandler
	ctx     context.Context
	cancel  context.CancelFunc
	wg      sync.WaitGroup
	mu      sync.RWMutex
}

// Config sizes and times out a Pool's workers.
type Config struct {
	WorkerCount int
	JobTimeout  time.Duration
}

// NewPool creates a Pool bound to q, ready to Start.
func NewPool(cfg Config, q queue.Queue, handler JobHandler, log *observability.Logger) *Pool {
	ctx, cancel := context.WithCancel(context.Background())
	p := &Pool{queue: q, handler: handler, ctx: ctx, cancel: cancel}

	if cfg.JobTimeout <= 0 {
		cfg.JobTimeout = 2 * time.Minute
	}
	if cfg.WorkerCount <= 0 {
		cfg.WorkerCount = 1
	}

	p.mu.Lock()
	for i := 0; i < cfg.WorkerCount; i++ {
		p.workers = append(p.workers, NewWorker(i, q, handler, cfg.JobTimeout, log))
	}
	p.mu.Unlock()

	return p
}

// Start launches all workers in background goroutines.
func (p *Pool) Start() {
	p.mu.RLock()
	defer p.mu.RUnlock()
	for _, w := range p.workers {
		p.wg.Add(1)
		go func(w *Worker) {
			defer p.wg.Done()
			w.Run(p.ctx)
		}(w)
	}
}

// Stop cancels all workers and waits up to timeout for them to drain.
func (p *Pool) Stop(timeout time.Duration) error {
	p.cancel()

	done := make(chan struct{})
	go func() {
		p.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-time.After(timeout):
		return fmt.Errorf("ingestion worker pool shutdown timeout after %v", timeout)
	}
}

// Stats summarizes the pool's workers.
type Stats struct {
	WorkerCount        int     `json:"worker_count"`
	BusyWorkers        int     `json:"busy_workers"`
	TotalJobsProcessed int64   `json:"total_jobs_processed"`
	TotalJobsFailed    int64   `json:"total_jobs_failed"`
	Utilization        float64 `json:"utilization"`
}

// GetStats aggregates per-worker counters.
func (p *Pool) GetStats() Stats {
	p.mu.RLock()
	defer p.mu.RUnlock()

	stats := Stats{WorkerCount: len(p.workers)}
	for _, w := range p.workers {
		s := w.GetStats()
		stats.TotalJobsProcessed += s.JobsProcessed
		stats.TotalJobsFailed += s.JobsFailed
		if s.IsBusy {
			stats.BusyWorkers++
		}
	}
	if stats.WorkerCount > 0 {
		stats.Utilization = float64(stats.BusyWorkers) / float64(stats.WorkerCount)
	}
	return stats
}
