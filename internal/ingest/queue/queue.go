// Package queue provides the job queue backing run_ingestion's bounded
// concurrent subprocess dispatch, adapted from the teacher's
// internal/queue package (Queue interface, Job shape, priority ordering)
// and narrowed to the single ingestion job type the retrieval core needs.
package queue

import (
	"context"
	"errors"
	"math/rand"
	"sync"
	"time"
)

// Sentinel errors returned by Queue implementations. Unlike the Shell's
// closed error-code vocabulary, these never reach a tool-call caller: the
// ingest.Runner returns them wrapped, and the adapter's RunIngestion turns
// any such error into a zeroed report (the run_ingestion zeroed-report
// rule).
var (
	ErrQueueClosed = errors.New("queue is closed")
	ErrQueueEmpty  = errors.New("no messages available")
	ErrJobNotFound = errors.New("job not found")
)

// Queue defines the interface for job queue implementations.
type Queue interface {
	Enqueue(ctx context.Context, job *Job) error
	Dequeue(ctx context.Context) (*Job, error)
	Ack(ctx context.Context, jobID string) error
	Nack(ctx context.Context, jobID string, requeue bool) error
	GetDepth(ctx context.Context) (int, error)
	Close() error
}

// JobType identifies the kind of work a Job carries. The ingestion
// subsystem only ever enqueues JobTypeIngest, but the field survives from
// the teacher's queue as a general-purpose marker.
type JobType string

const (
	JobTypeIngest JobType = "ingest_source"
)

// Priority represents job priority ordering within a queue.
type Priority int

const (
	PriorityLow    Priority = 1
	PriorityNormal Priority = 2
	PriorityHigh   Priority = 3
)

// JobStatus represents the lifecycle state of a Job.
type JobStatus string

const (
	JobStatusPending   JobStatus = "pending"
	JobStatusRunning   JobStatus = "running"
	JobStatusCompleted JobStatus = "completed"
	JobStatusFailed    JobStatus = "failed"
	JobStatusRetrying  JobStatus = "retrying"
)

// Job represents a single unit of ingestion work.
type Job struct {
	ID          string
	Type        JobType
	Priority    Priority
	Payload     map[string]interface{}
	Status      JobStatus
	CreatedAt   time.Time
	UpdatedAt   time.Time
	StartedAt   *time.Time
	CompletedAt *time.Time
	Attempts    int
	MaxAttempts int
	Error       string
}

// NewJob creates a pending ingestion job. MaxAttempts is 1: a failed
// ingestion subprocess run degrades to a zeroed report rather than
// retrying, per the adapter's run_ingestion failure semantics.
func NewJob(jobType JobType, payload map[string]interface{}) *Job {
	now := time.Now()
	return &Job{
		ID:          generateJobID(),
		Type:        jobType,
		Priority:    PriorityNormal,
		Payload:     payload,
		Status:      JobStatusPending,
		CreatedAt:   now,
		UpdatedAt:   now,
		MaxAttempts: 1,
	}
}

// MarkStarted marks the job as started.
func (j *Job) MarkStarted() {
	now := time.Now()
	j.Status = JobStatusRunning
	j.StartedAt = &now
	j.UpdatedAt = now
	j.Attempts++
}

// MarkCompleted marks the job as completed.
func (j *Job) MarkCompleted() {
	now := time.Now()
	j.Status = JobStatusCompleted
	j.CompletedAt = &now
	j.UpdatedAt = now
}

// MarkFailed marks the job as failed or retrying depending on attempts.
func (j *Job) MarkFailed(err error) {
	j.UpdatedAt = time.Now()
	if j.Attempts >= j.MaxAttempts {
		j.Status = JobStatusFailed
	} else {
		j.Status = JobStatusRetrying
	}
	if err != nil {
		j.Error = err.Error()
	}
}

// ShouldRetry returns true if the job should be requeued.
func (j *Job) ShouldRetry() bool {
	return j.Attempts < j.MaxAttempts && j.Status == JobStatusRetrying
}

var (
	jobIDMu   sync.Mutex
	jobIDRand = rand.New(rand.NewSource(time.Now().UnixNano()))
)

func generateJobID() string {
	jobIDMu.Lock()
	defer jobIDMu.Unlock()
	const letters = "abcdefghijklmnopqrstuvwxyz0123456789"
	b := make([]byte, 8)
	for i := range b {
		b[i] = letters[jobIDRand.Intn(len(letters))]
	}
	return time.Now().Format("20060102150405") + "-" + string(b)
}
