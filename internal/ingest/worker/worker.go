// Package worker runs a small fixed-size pool of goroutines that dequeue
// ingestion jobs and execute them, adapted from the teacher's
// internal/worker/{pool,worker}.go. It bounds how many ingestion
// subprocesses run concurrently regardless of how many run_ingestion
// tool calls arrive at once.
package worker

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/gongahkia/lexcore/internal/ingest/queue"
	"github.com/gongahkia/lexcore/internal/observability"
)

// JobHandler executes a single ingestion job.
type JobHandler func(ctx context.Context, job *queue.Job) error

// Worker pulls jobs from a queue.Queue and runs them through a JobHandler.
type Worker struct {
	id            int
	queue         queue.Queue
	handler       JobHandler
	jobTimeout    time.Duration
	log           *observability.Logger
	isBusy        atomic.Bool
	jobsProcessed atomic.Int64
	jobsFailed    atomic.Int64
}

// NewWorker creates a Worker.
func NewWorker(id int, q queue.Queue, handler JobHandler, jobTimeout time.Duration, log *observability.Logger) *Worker {
	return &Worker{id: id, queue: q, handler: handler, jobTimeout: jobTimeout, log: log}
}

// Run loops dequeueing and processing jobs until ctx is cancelled.
func (w *Worker) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		job, err := w.queue.Dequeue(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			time.Sleep(50 * time.Millisecond)
			continue
		}

		w.process(ctx, job)
	}
}

func (w *Worker) process(ctx context.Context, job *queue.Job) {
	w.isBusy.Store(true)
	defer w.isBusy.Store(false)

	jobCtx, cancel := context.WithTimeout(ctx, w.jobTimeout)
	defer cancel()

	err := w.handler(jobCtx, job)
	if err != nil {
		w.jobsFailed.Add(1)
		job.MarkFailed(err)
		if w.log != nil {
			w.log.WithField("job_id", job.ID).ErrorWithErr(err, "ingestion job failed")
		}
		if nackErr := w.queue.Nack(ctx, job.ID, job.ShouldRetry()); nackErr != nil && w.log != nil {
			w.log.WithField("job_id", job.ID).ErrorWithErr(nackErr, "failed to nack ingestion job")
		}
		return
	}

	w.jobsProcessed.Add(1)
	job.MarkCompleted()
	if ackErr := w.queue.Ack(ctx, job.ID); ackErr != nil && w.log != nil {
		w.log.WithField("job_id", job.ID).ErrorWithErr(ackErr, "failed to ack ingestion job")
	}
}

// Stats reports a snapshot of this worker's counters.
type Stats struct {
	WorkerID      int   `json:"worker_id"`
	IsBusy        bool  `json:"is_busy"`
	JobsProcessed int64 `json:"jobs_processed"`
	JobsFailed    int64 `json:"jobs_failed"`
}

// GetStats returns the worker's current counters.
func (w *Worker) GetStats() Stats {
	return Stats{
		WorkerID:      w.id,
		IsBusy:        w.isBusy.Load(),
		JobsProcessed: w.jobsProcessed.Load(),
		JobsFailed:    w.jobsFailed.Load(),
	}
}
