package ingest

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFakeEngine(t *testing.T, script string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "fake-engine.sh")
	require.NoError(t, os.WriteFile(path, []byte(script), 0o755))
	return path
}

func TestRunSubprocessParsesStdoutLine(t *testing.T) {
	path := writeFakeEngine(t, "#!/bin/sh\necho '{\"ingestedCount\":3,\"skippedCount\":1}'\n")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	result, err := runSubprocess(ctx, path, "bgbl", false)
	require.NoError(t, err)
	assert.Equal(t, 3, result.IngestedCount)
	assert.Equal(t, 1, result.SkippedCount)
}

func TestRunSubprocessNoCommandConfigured(t *testing.T) {
	_, err := runSubprocess(context.Background(), "", "bgbl", false)
	assert.Error(t, err)
}

func TestRunSubprocessNonZeroExit(t *testing.T) {
	path := writeFakeEngine(t, "#!/bin/sh\nexit 1\n")

	_, err := runSubprocess(context.Background(), path, "bgbl", false)
	assert.Error(t, err)
}

func TestRunSubprocessMalformedOutput(t *testing.T) {
	path := writeFakeEngine(t, "#!/bin/sh\necho 'not json'\n")

	_, err := runSubprocess(context.Background(), path, "bgbl", false)
	assert.Error(t, err)
}
