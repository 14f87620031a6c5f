package stats

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/peekknuf/appprofile/internal/dataset"
	"github.com/peekknuf/appprofile/internal/schema"
)

var header = dataset.Row{"App", "Category", "Rating", "Reviews", "Size", "Installs", "Type", "Price", "Content Rating", "Genres"}

func app(name, category, installs string) dataset.Row {
	return dataset.Row{name, category, "4.0", "10", "+", installs, "Free", "0", "Everyone", "Tools"}
}

func fixture(t *testing.T) (dataset.Table, schema.Layout) {
	t.Helper()
	layout, err := schema.Marketplace.Bind(header)
	require.NoError(t, err)
	return dataset.Table{Header: header, Rows: []dataset.Row{
		app("App1", "COMMUNICATION", "1,000,000,000+"),
		app("App2", "COMMUNICATION", "10,000,000+"),
		app("App3", "COMMUNICATION", "1,000+"),
		app("App4", "PHOTOGRAPHY", "5,000,000+"),
		app("App5", "TOOLS", "100+"),
		app("App6", "PHOTOGRAPHY", "500,000,000+"),
	}}, layout
}

func TestFrequencyProportions(t *testing.T) {
	table, layout := fixture(t)
	ft := Frequency(table, layout.Column(schema.Category))

	assert.Equal(t, 3, ft.Len())
	assert.Equal(t, 6, ft.Total())
	assert.Equal(t, schema.Category, ft.Column())

	sum := 0.0
	for _, s := range ft.Entries() {
		assert.GreaterOrEqual(t, s.Proportion, 0.0)
		assert.LessOrEqual(t, s.Proportion, 1.0)
		sum += s.Proportion
	}
	assert.InDelta(t, 1.0, sum, 1e-9)

	p, ok := ft.Proportion("COMMUNICATION")
	require.True(t, ok)
	assert.InDelta(t, 0.5, p, 1e-12)

	_, ok = ft.Proportion("GAME")
	assert.False(t, ok)
}

func TestFrequencySortedStableTies(t *testing.T) {
	table := dataset.Table{Header: dataset.Row{"g"}, Rows: []dataset.Row{{"b"}, {"a"}, {"c"}, {"a"}, {"c"}, {"d"}}}
	col := schema.Column{Name: "g", Index: 0}
	sorted := Frequency(table, col).Sorted()

	var order []string
	for _, s := range sorted {
		order = append(order, s.Value)
	}
	assert.Equal(t, []string{"a", "c", "b", "d"}, order)
}

func TestFrequencyEmptyTable(t *testing.T) {
	ft := Frequency(dataset.Table{Header: dataset.Row{"g"}}, schema.Column{Name: "g"})
	assert.Equal(t, 0, ft.Len())
	assert.Empty(t, ft.Sorted())
}

func TestMeanByAllCategories(t *testing.T) {
	table, layout := fixture(t)
	mt, err := MeanBy(table, layout.Column(schema.Category), layout.Column(schema.Installs), WithPopularCutoff(10000000))
	require.NoError(t, err)

	groups := mt.Groups()
	require.Len(t, groups, 3)
	assert.Equal(t, "COMMUNICATION", groups[0].Category)

	comm, ok := mt.Lookup("COMMUNICATION")
	require.True(t, ok)
	assert.Equal(t, 3, comm.Count)
	assert.Equal(t, 1, comm.Popular)
	mean, err := comm.Mean()
	require.NoError(t, err)
	assert.InDelta(t, (1e9+1e7+1e3)/3, mean, 1e-6)
	assert.Equal(t, comm.Sum/float64(comm.Count), mean)

	_, ok = mt.Lookup("GAME")
	assert.False(t, ok)
}

func TestMeanByWithThreshold(t *testing.T) {
	table, layout := fixture(t)
	mt, err := MeanBy(table, layout.Column(schema.Category), layout.Column(schema.Installs), WithThreshold(100000000))
	require.NoError(t, err)

	photo, ok := mt.Lookup("PHOTOGRAPHY")
	require.True(t, ok)
	assert.Equal(t, 1, photo.Count)
	assert.Equal(t, 1, photo.Excluded)
	assert.Equal(t, 5000000.0, photo.Sum)
}

func TestCategoryMeanExcludesAtThreshold(t *testing.T) {
	table, layout := fixture(t)
	category, installs := layout.Column(schema.Category), layout.Column(schema.Installs)

	g, err := CategoryMean(table, category, installs, "COMMUNICATION", 100000000)
	require.NoError(t, err)
	assert.Equal(t, 2, g.Count, "App1 with 1,000,000,000+ installs is excluded")
	assert.Equal(t, 1, g.Excluded)
	mean, err := g.Mean()
	require.NoError(t, err)
	assert.Equal(t, (1e7+1e3)/2, mean)

	g, err = CategoryMean(table, category, installs, "COMMUNICATION", 10000000)
	require.NoError(t, err)
	assert.Equal(t, 1, g.Count, "a metric equal to the threshold is excluded")
}

func TestCategoryMeanEmptyGroup(t *testing.T) {
	table, layout := fixture(t)
	g, err := CategoryMean(table, layout.Column(schema.Category), layout.Column(schema.Installs), "TOOLS", 10)
	require.NoError(t, err)
	assert.Equal(t, 0, g.Count)

	_, err = g.Mean()
	assert.True(t, errors.Is(err, ErrEmptyGroup))
}

func TestCategoryMeanUnparseable(t *testing.T) {
	_, layout := fixture(t)
	table := dataset.Table{Header: header, Rows: []dataset.Row{app("X", "TOOLS", "Free")}}
	_, err := CategoryMean(table, layout.Column(schema.Category), layout.Column(schema.Installs), "TOOLS", NoThreshold)
	assert.ErrorIs(t, err, schema.ErrUnparseableMetric)
}

func TestOutliers(t *testing.T) {
	table, layout := fixture(t)
	rows, err := Outliers(table, layout.Column(schema.Category), layout.Column(schema.Installs), "COMMUNICATION", 100000000)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "App1", rows[0][0])
}

func TestRecommend(t *testing.T) {
	groups := []Group{
		{Category: "EMPTY"},
		{Category: "LOW", Count: 2, Sum: 4, values: []float64{1, 3}},
		{Category: "HIGH", Count: 1, Sum: 9, values: []float64{9}},
	}
	best, err := Recommend(groups)
	require.NoError(t, err)
	assert.Equal(t, "HIGH", best.Category)

	_, err = Recommend([]Group{{Category: "EMPTY"}})
	assert.ErrorIs(t, err, ErrEmptyGroup)
}

func TestNoThresholdKeepsEverything(t *testing.T) {
	assert.True(t, math.IsInf(NoThreshold, 1))
}
