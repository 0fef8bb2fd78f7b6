package ingest

import (
	"fmt"

	"github.com/gongahkia/lexcore/internal/config"
	"github.com/gongahkia/lexcore/internal/ingest/queue"
)

// NewQueue selects a queue.Queue implementation per cfg.Driver, mirroring
// the teacher's cmd/kite-api/main.go driver-selection switch.
func NewQueue(cfg config.QueueConfig) (queue.Queue, error) {
	switch cfg.Driver {
	case "", "memory":
		return queue.NewMemoryQueue(), nil
	case "nats":
		natsCfg := queue.DefaultNATSQueueConfig()
		if cfg.URL != "" {
			natsCfg.URL = cfg.URL
		}
		return queue.NewNATSQueue(natsCfg)
	case "redis":
		redisCfg := queue.DefaultRedisQueueConfig()
		if cfg.URL != "" {
			redisCfg.Addr = cfg.URL
		}
		return queue.NewRedisQueue(redisCfg)
	default:
		return nil, fmt.Errorf("unknown queue driver: %s", cfg.Driver)
	}
}
