package ingest

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gongahkia/lexcore/internal/config"
)

func TestNewQueueDefaultsToMemory(t *testing.T) {
	q, err := NewQueue(config.QueueConfig{})
	require.NoError(t, err)
	defer q.Close()
}

func TestNewQueueMemoryDriver(t *testing.T) {
	q, err := NewQueue(config.QueueConfig{Driver: "memory"})
	require.NoError(t, err)
	defer q.Close()
}

func TestNewQueueUnknownDriver(t *testing.T) {
	_, err := NewQueue(config.QueueConfig{Driver: "carrier-pigeon"})
	assert.Error(t, err)
}
