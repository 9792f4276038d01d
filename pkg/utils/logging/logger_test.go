package logging

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLogFileName(t *testing.T) {
	started := time.Date(2026, 3, 2, 14, 5, 9, 0, time.UTC)

	assert.Equal(t, filepath.Join("logs", "scheduler_prod_2026-03-02_14-05-09.log"), LogFileName("logs", "prod", started))
	assert.Equal(t, filepath.Join("x", "scheduler_default_2026-03-02_14-05-09.log"), LogFileName("x", "", started))
}

func TestInitLogger_WritesJSONFile(t *testing.T) {
	dir := t.TempDir()

	logger, err := InitLogger(Options{Env: "test", Dir: dir})
	require.NoError(t, err)

	logger.Debug("optimisation started")
	_ = logger.Sync()

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)

	data, err := os.ReadFile(filepath.Join(dir, entries[0].Name()))
	require.NoError(t, err)
	assert.Contains(t, string(data), `"msg":"optimisation started"`)
	assert.Contains(t, string(data), `"level":"debug"`)
}
