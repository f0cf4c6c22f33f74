package commands

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestExecuteFlushesTelemetryOnFailure(t *testing.T) {
	flushed := 0
	flushTelemetry = func() {
		flushed++
	}
	t.Cleanup(func() {
		flushTelemetry = shutdownTelemetry
	})

	path := filepath.Join(t.TempDir(), "config.json5")
	writeFile(t, path, `{ top_n: -1 }`)

	err := execute(context.Background(), []string{"scrape", "--config", path})
	require.ErrorContains(t, err, "top_n must be positive")
	require.Equal(t, 1, flushed)
}
