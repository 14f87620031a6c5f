package cmd

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/peekknuf/appprofile/internal/store"
)

var testdata = filepath.Join("..", "internal", "pipeline", "testdata")

func execute(t *testing.T, args ...string) string {
	t.Helper()
	t.Setenv("HOME", t.TempDir())

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetArgs(append(args, "--data-dir", testdata, "--log-level", "error"))
	require.NoError(t, rootCmd.Execute())
	return out.String()
}

func TestAnalyzeWritesReport(t *testing.T) {
	outPath := filepath.Join(t.TempDir(), "report.txt")
	out := execute(t, "analyze", "--output", outPath)
	assert.Contains(t, out, "Results saved to")

	data, err := os.ReadFile(outPath)
	require.NoError(t, err)
	assert.Contains(t, string(data), "=== RECOMMENDATION ===")
	assert.Contains(t, string(data), "PHOTOGRAPHY")
}

func TestExploreMarketplace(t *testing.T) {
	out := execute(t, "explore", "marketplace", "--start", "0", "--end", "1", "--shape")
	assert.Contains(t, out, `"Photo Editor Pro"`)
	assert.Contains(t, out, "Number of rows: 9")
	assert.Contains(t, out, "Number of columns: 13")
}

func TestExportWritesTables(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "apps.sqlite")
	execute(t, "export", "--db", dbPath)

	db, err := store.Open(dbPath)
	require.NoError(t, err)
	defer db.Close()

	n, err := db.CountRows("free_marketplace")
	require.NoError(t, err)
	assert.Equal(t, 5, n)

	n, err = db.CountRows("appstore_genres")
	require.NoError(t, err)
	assert.Equal(t, 4, n)
}

func TestNewLoggerLevels(t *testing.T) {
	assert.Equal(t, zerolog.DebugLevel, newLogger("DEBUG").GetLevel())
	assert.Equal(t, zerolog.InfoLevel, newLogger("").GetLevel())
	assert.Equal(t, zerolog.InfoLevel, newLogger("loud").GetLevel())
}
