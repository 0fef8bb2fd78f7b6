// Package ingest implements the run_ingestion subsystem: a bounded pool
// of workers dequeueing ingestion jobs from a queue.Queue and dispatching
// each to an out-of-core ingestion engine subprocess. Grounded on the
// teacher's internal/queue + internal/worker packages plus the
// internal/admin/commands subprocess-dispatch pattern.
package ingest

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/gongahkia/lexcore/internal/adapter"
	"github.com/gongahkia/lexcore/internal/config"
	"github.com/gongahkia/lexcore/internal/ingest/queue"
	"github.com/gongahkia/lexcore/internal/ingest/worker"
	"github.com/gongahkia/lexcore/internal/observability"
)

// Runner implements adapter.Ingestor over a queue+worker-pool pipeline.
type Runner struct {
	cfg     config.IngestionConfig
	q       queue.Queue
	pool    *worker.Pool
	metrics *observability.Metrics
	log     *observability.Logger

	mu      sync.Mutex
	pending map[string]chan adapter.IngestionReport
}

var _ adapter.Ingestor = (*Runner)(nil)

// NewRunner builds a Runner with q as its job queue (the caller builds q,
// typically with NewQueue from config.Queue, whose Driver selects the
// memory, NATS or Redis queue) and starts its worker pool, sized by
// cfg.WorkerCount.
func NewRunner(cfg config.IngestionConfig, q queue.Queue, metrics *observability.Metrics, log *observability.Logger) *Runner {
	r := &Runner{
		cfg:     cfg,
		q:       q,
		metrics: metrics,
		log:     log,
		pending: make(map[string]chan adapter.IngestionReport),
	}
	r.pool = worker.NewPool(worker.Config{WorkerCount: cfg.WorkerCount, JobTimeout: cfg.RequestTimeout}, q, r.handle, log)
	r.pool.Start()
	return r
}

// Run enqueues an ingestion job for sourceID and blocks until the worker
// pool finishes it or ctx is cancelled.
func (r *Runner) Run(ctx context.Context, sourceID string, dryRun bool) (adapter.IngestionReport, error) {
	job := queue.NewJob(queue.JobTypeIngest, map[string]interface{}{
		"sourceId": sourceID,
		"dryRun":   dryRun,
	})

	resultCh := make(chan adapter.IngestionReport, 1)
	r.mu.Lock()
	r.pending[job.ID] = resultCh
	r.mu.Unlock()
	defer func() {
		r.mu.Lock()
		delete(r.pending, job.ID)
		r.mu.Unlock()
	}()

	if err := r.q.Enqueue(ctx, job); err != nil {
		return adapter.IngestionReport{}, fmt.Errorf("enqueue ingestion job: %w", err)
	}

	select {
	case report := <-resultCh:
		return report, nil
	case <-ctx.Done():
		return adapter.IngestionReport{}, ctx.Err()
	}
}

// handle is the worker.JobHandler executed by each pool worker. It never
// returns an error for a subprocess/parse failure: those degrade to a
// zeroed report delivered on the job's result channel, matching the
// run_ingestion failure semantics (an error return here would instead make
// the worker mark the job failed and Nack it, with no report delivered to
// the waiting Run call).
func (r *Runner) handle(ctx context.Context, job *queue.Job) error {
	sourceID, _ := job.Payload["sourceId"].(string)
	dryRun, _ := job.Payload["dryRun"].(bool)

	startedAt := time.Now()
	report := adapter.IngestionReport{
		SourceID:  sourceID,
		DryRun:    dryRun,
		StartedAt: startedAt.Format(time.RFC3339),
	}

	result, err := runSubprocess(ctx, r.cfg.Command, sourceID, dryRun)
	if err != nil {
		if r.log != nil {
			r.log.WithField("source_id", sourceID).ErrorWithErr(err, "ingestion subprocess failed")
		}
		if r.metrics != nil {
			r.metrics.IngestionFailures.WithLabelValues(sourceID, "subprocess_error").Inc()
		}
	} else {
		report.IngestedCount = result.IngestedCount
		report.SkippedCount = result.SkippedCount
	}

	if dryRun && r.cfg.PreviewSnapshot != "" {
		if preview, err := PreviewHTML(r.cfg.PreviewSnapshot); err == nil {
			report.SkippedCount += preview.SectionCount
		} else if r.log != nil {
			r.log.WithField("source_id", sourceID).ErrorWithErr(err, "ingestion preview snapshot unreadable")
		}
	}

	report.FinishedAt = time.Now().Format(time.RFC3339)

	status := "ok"
	if err != nil {
		status = "failed"
	}
	if r.metrics != nil {
		r.metrics.RecordIngestionRun(sourceID, status, time.Since(startedAt))
	}

	r.mu.Lock()
	ch, ok := r.pending[job.ID]
	r.mu.Unlock()
	if ok {
		ch <- report
	}

	return nil
}

// Stop drains the worker pool, waiting up to timeout.
func (r *Runner) Stop(timeout time.Duration) error {
	return r.pool.Stop(timeout)
}
