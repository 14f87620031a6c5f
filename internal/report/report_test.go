package report

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/peekknuf/appprofile/internal/config"
	"github.com/peekknuf/appprofile/internal/dataset"
	"github.com/peekknuf/appprofile/internal/pipeline"
	"github.com/peekknuf/appprofile/internal/stats"
)

func runFixture(t *testing.T) *pipeline.Result {
	t.Helper()
	cfg, err := config.Load(viper.New())
	require.NoError(t, err)
	res, err := pipeline.New(cfg, zerolog.Nop()).Run(pipeline.Sources{
		AppStore:    filepath.Join("..", "pipeline", "testdata", "AppleStore.csv"),
		Marketplace: filepath.Join("..", "pipeline", "testdata", "googleplaystore.csv"),
	})
	require.NoError(t, err)
	return res
}

func TestWrite(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, runFixture(t)))
	out := buf.String()

	assert.Contains(t, out, "=== DATA CLEANING SUMMARY ===")
	assert.Contains(t, out, "Duplicate marketplace entries: 1")
	assert.Contains(t, out, "Examples: Photo Editor Pro")
	assert.Contains(t, out, "excluded: WhatsApp Messenger")
	assert.Contains(t, out, "1,927,675.5")
	assert.Contains(t, out, "Start with a free app in PHOTOGRAPHY (3,000,000 average installs without outliers)")

	entertainment := lineWith(out, "ENTERTAINMENT")
	assert.Contains(t, entertainment, "n/a")

	categories := out[strings.Index(out, "MARKETPLACE CATEGORIES"):]
	assert.Less(t, strings.Index(categories, "PHOTOGRAPHY"), strings.Index(categories, "COMMUNICATION"))
	assert.Less(t, strings.Index(categories, "COMMUNICATION"), strings.Index(categories, "NEWS_AND_MAGAZINES"))
}

func TestWriteWithoutRecommendation(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, &pipeline.Result{Adjusted: []pipeline.Adjusted{{Group: stats.Group{Category: "GAME", Threshold: 10}}}}))
	assert.Contains(t, buf.String(), "No category had apps left")
}

func TestWriteRows(t *testing.T) {
	table := dataset.Table{Header: dataset.Row{"a", "b"}, Rows: []dataset.Row{{"1", "2"}, {"3", "4"}, {"5", "6"}}}

	var buf bytes.Buffer
	require.NoError(t, WriteRows(&buf, table, 1, 2, true))
	out := buf.String()
	assert.Contains(t, out, `["3" "4"]`)
	assert.NotContains(t, out, `"1"`)
	assert.Contains(t, out, "Number of rows: 3")
	assert.Contains(t, out, "Number of columns: 2")
}

func lineWith(out, needle string) string {
	for _, line := range strings.Split(out, "\n") {
		if strings.Contains(line, needle) && strings.Contains(line, "excluding") {
			return line
		}
	}
	return ""
}
