package ingest

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gongahkia/lexcore/internal/config"
	"github.com/gongahkia/lexcore/internal/ingest/queue"
	"github.com/gongahkia/lexcore/internal/observability"
)

// testMetrics is shared by every test runner: NewMetrics registers its
// collectors on the default Prometheus registry, which accepts each only once.
var testMetrics = observability.NewMetrics()

func newTestRunner(t *testing.T, cfg config.IngestionConfig) *Runner {
	t.Helper()
	q := queue.NewMemoryQueue()
	metrics := testMetrics
	log := observability.NewLogger("error", "json")
	if cfg.WorkerCount == 0 {
		cfg.WorkerCount = 1
	}
	if cfg.RequestTimeout == 0 {
		cfg.RequestTimeout = 5 * time.Second
	}
	r := NewRunner(cfg, q, metrics, log)
	t.Cleanup(func() { _ = r.Stop(time.Second) })
	return r
}

func TestRunnerRunDeliversSubprocessResult(t *testing.T) {
	script := filepath.Join(t.TempDir(), "engine.sh")
	require.NoError(t, os.WriteFile(script, []byte("#!/bin/sh\necho '{\"ingestedCount\":5,\"skippedCount\":2}'\n"), 0o755))

	r := newTestRunner(t, config.IngestionConfig{Command: script})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	report, err := r.Run(ctx, "bgbl", false)
	require.NoError(t, err)
	assert.Equal(t, "bgbl", report.SourceID)
	assert.False(t, report.DryRun)
	assert.Equal(t, 5, report.IngestedCount)
	assert.Equal(t, 2, report.SkippedCount)
	assert.NotEmpty(t, report.StartedAt)
	assert.NotEmpty(t, report.FinishedAt)
}

func TestRunnerRunDegradesToZeroedReportOnSubprocessFailure(t *testing.T) {
	r := newTestRunner(t, config.IngestionConfig{Command: ""})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	report, err := r.Run(ctx, "bgbl", false)
	require.NoError(t, err, "a subprocess failure must not surface as a Run error")
	assert.Equal(t, 0, report.IngestedCount)
	assert.Equal(t, 0, report.SkippedCount)
}

func TestRunnerDryRunAddsPreviewSectionCount(t *testing.T) {
	script := filepath.Join(t.TempDir(), "engine.sh")
	require.NoError(t, os.WriteFile(script, []byte("#!/bin/sh\necho '{\"ingestedCount\":0,\"skippedCount\":0}'\n"), 0o755))

	snapshot := filepath.Join(t.TempDir(), "preview.html")
	require.NoError(t, os.WriteFile(snapshot, []byte("<article><section>a</section><section>b</section></article>"), 0o644))

	r := newTestRunner(t, config.IngestionConfig{Command: script, PreviewSnapshot: snapshot})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	report, err := r.Run(ctx, "bgbl", true)
	require.NoError(t, err)
	assert.True(t, report.DryRun)
	assert.Equal(t, 2, report.SkippedCount)
}

func TestRunnerRunRespectsContextCancellation(t *testing.T) {
	r := newTestRunner(t, config.IngestionConfig{Command: ""})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := r.Run(ctx, "bgbl", false)
	assert.Error(t, err)
}
