package queue

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewJobDefaults(t *testing.T) {
	job := NewJob(JobTypeIngest, map[string]interface{}{"sourceId": "bgbl"})
	assert.NotEmpty(t, job.ID)
	assert.Equal(t, JobStatusPending, job.Status)
	assert.Equal(t, 1, job.MaxAttempts)
	assert.Equal(t, PriorityNormal, job.Priority)
}

func TestJobLifecycleTransitions(t *testing.T) {
	job := NewJob(JobTypeIngest, nil)

	job.MarkStarted()
	assert.Equal(t, JobStatusRunning, job.Status)
	assert.Equal(t, 1, job.Attempts)

	job.MarkCompleted()
	assert.Equal(t, JobStatusCompleted, job.Status)
}

func TestJobShouldRetryRespectsMaxAttempts(t *testing.T) {
	job := NewJob(JobTypeIngest, nil)
	job.MarkStarted()
	job.MarkFailed(errors.New("boom"))

	assert.Equal(t, JobStatusFailed, job.Status)
	assert.Equal(t, "boom", job.Error)
	assert.False(t, job.ShouldRetry())
}

func TestGenerateJobIDIsUnique(t *testing.T) {
	a := generateJobID()
	b := generateJobID()
	assert.NotEqual(t, a, b)
}
