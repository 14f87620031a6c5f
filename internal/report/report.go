package report

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/dustin/go-humanize"

	"github.com/peekknuf/appprofile/internal/dataset"
	"github.com/peekknuf/appprofile/internal/pipeline"
	"github.com/peekknuf/appprofile/internal/stats"
)

// maxDuplicateExamples caps the duplicated names listed in the summary
const maxDuplicateExamples = 10

// Write renders the full analysis of res
func Write(w io.Writer, res *pipeline.Result) error {
	var output strings.Builder

	output.WriteString("=== DATA CLEANING SUMMARY ===\n")
	output.WriteString(fmt.Sprintf("%-20s %10s %10s %12s %12s %10s\n", "Source", "Rows", "Malformed", "Unique", "Primary", "Free"))
	output.WriteString(strings.Repeat("-", 79) + "\n")
	writeSummary(&output, "App store", res.AppStore)
	writeSummary(&output, "Marketplace", res.Marketplace)
	output.WriteString("\n")

	output.WriteString(fmt.Sprintf("Duplicate marketplace entries: %d\n", len(res.Duplicates.Duplicates)))
	output.WriteString(fmt.Sprintf("Unique marketplace apps: %d\n", res.Duplicates.Unique))
	if n := len(res.Duplicates.Duplicates); n > 0 {
		if n > maxDuplicateExamples {
			n = maxDuplicateExamples
		}
		output.WriteString(fmt.Sprintf("Examples: %s\n", strings.Join(res.Duplicates.Duplicates[:n], ", ")))
	}
	output.WriteString("\n")

	writeFrequency(&output, "APP STORE GENRES (free apps)", res.AppStoreGenres)
	writeFrequency(&output, "MARKETPLACE GENRES (free apps)", res.MarketplaceGenres)
	writeFrequency(&output, "MARKETPLACE CATEGORIES (free apps)", res.MarketplaceCategories)

	output.WriteString("=== AVERAGE RATING COUNT BY APP STORE GENRE ===\n")
	for _, g := range res.AppStoreRatings.Groups() {
		output.WriteString(fmt.Sprintf("%-30s %18s %8d apps\n", g.Category, formatMean(g), g.Count))
	}
	output.WriteString("\n")

	output.WriteString("=== AVERAGE INSTALLS BY MARKETPLACE CATEGORY ===\n")
	output.WriteString(fmt.Sprintf("%-30s %18s %8s %10s\n", "Category", "Avg installs", "Apps", "Popular"))
	for _, g := range res.MarketplaceInstalls.Groups() {
		output.WriteString(fmt.Sprintf("%-30s %18s %8d %10d\n", g.Category, formatMean(g), g.Count, g.Popular))
	}
	output.WriteString("\n")

	if len(res.Adjusted) > 0 {
		output.WriteString("=== OUTLIER-ADJUSTED AVERAGE INSTALLS ===\n")
		for _, a := range res.Adjusted {
			output.WriteString(fmt.Sprintf("%-30s %18s %8d apps (excluding >= %s installs)\n",
				a.Group.Category, formatMean(a.Group), a.Group.Count, humanize.Comma(int64(a.Group.Threshold))))
			if len(a.Outliers) > 0 {
				output.WriteString(fmt.Sprintf("  excluded: %s\n", strings.Join(a.Outliers, ", ")))
			}
		}
		output.WriteString("\n")
	}

	output.WriteString("=== RECOMMENDATION ===\n")
	if res.Recommendation != nil {
		output.WriteString(fmt.Sprintf("Start with a free app in %s (%s average installs without outliers)\n",
			res.Recommendation.Category, formatMean(*res.Recommendation)))
	} else {
		output.WriteString("No category had apps left after outlier exclusion\n")
	}

	_, err := io.WriteString(w, output.String())
	return err
}

func writeSummary(b *strings.Builder, label string, s pipeline.SourceSummary) {
	b.WriteString(fmt.Sprintf("%-20s %10d %10d %12d %12d %10d\n",
		label, s.Loaded, s.Malformed, s.Deduplicated, s.PrimaryScript, s.Free))
}

func writeFrequency(b *strings.Builder, title string, ft stats.FrequencyTable) {
	b.WriteString(fmt.Sprintf("=== %s ===\n", title))
	for _, s := range ft.Sorted() {
		b.WriteString(fmt.Sprintf("%-30s %7.2f%%\n", s.Value, s.Proportion*100))
	}
	b.WriteString("\n")
}

func formatMean(g stats.Group) string {
	mean, err := g.Mean()
	if errors.Is(err, stats.ErrEmptyGroup) {
		return "n/a"
	}
	return humanize.CommafWithDigits(mean, 2)
}

// WriteRows prints rows [start, end) of t, one per line, followed by the
// table shape when shape is set.
func WriteRows(w io.Writer, t dataset.Table, start, end int, shape bool) error {
	var output strings.Builder
	for _, row := range t.Slice(start, end) {
		output.WriteString(fmt.Sprintf("%q\n\n", []string(row)))
	}
	if shape {
		output.WriteString(fmt.Sprintf("Number of rows: %d\n", t.Len()))
		output.WriteString(fmt.Sprintf("Number of columns: %d\n", t.Width()))
	}
	_, err := io.WriteString(w, output.String())
	return err
}
