package stats

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/peekknuf/appprofile/internal/dataset"
	"github.com/peekknuf/appprofile/internal/schema"
)

// ErrEmptyGroup is returned when a mean is asked of a group with no included rows
var ErrEmptyGroup = errors.New("mean undefined for empty group")

// NoThreshold disables outlier exclusion
var NoThreshold = math.Inf(1)

// Group is the aggregate of one category value
type Group struct {
	Category  string
	Count     int
	Sum       float64
	Popular   int
	Excluded  int
	Threshold float64
	values    []float64
}

// Mean returns Sum/Count, or ErrEmptyGroup when no row was included
func (g Group) Mean() (float64, error) {
	if g.Count == 0 {
		return 0, fmt.Errorf("%w: %q", ErrEmptyGroup, g.Category)
	}
	return stat.Mean(g.values, nil), nil
}

type options struct {
	threshold     float64
	popularCutoff float64
}

// Option tunes MeanBy
type Option func(*options)

// WithThreshold excludes rows whose metric is >= threshold
func WithThreshold(threshold float64) Option {
	return func(o *options) { o.threshold = threshold }
}

// WithPopularCutoff counts included rows whose metric is > cutoff
func WithPopularCutoff(cutoff float64) Option {
	return func(o *options) { o.popularCutoff = cutoff }
}

// MetricTable holds one Group per observed category, in first-occurrence order
type MetricTable struct {
	Category string
	Metric   string
	groups   []Group
	index    map[string]int
}

// Groups returns a copy of the groups in first-occurrence order
func (mt MetricTable) Groups() []Group {
	out := make([]Group, len(mt.groups))
	copy(out, mt.groups)
	return out
}

// Lookup returns the group for category
func (mt MetricTable) Lookup(category string) (Group, bool) {
	i, ok := mt.index[category]
	if !ok {
		return Group{}, false
	}
	return mt.groups[i], true
}

// MeanBy aggregates metric for every category value of t
func MeanBy(t dataset.Table, category, metric schema.Column, opts ...Option) (MetricTable, error) {
	o := options{threshold: NoThreshold, popularCutoff: NoThreshold}
	for _, opt := range opts {
		opt(&o)
	}

	mt := MetricTable{
		Category: category.Name,
		Metric:   metric.Name,
		index:    make(map[string]int),
	}
	for _, row := range t.Rows {
		v, err := metric.Float(row)
		if err != nil {
			return MetricTable{}, err
		}
		key := category.Value(row)
		i, ok := mt.index[key]
		if !ok {
			i = len(mt.groups)
			mt.index[key] = i
			mt.groups = append(mt.groups, Group{Category: key, Threshold: o.threshold})
		}
		mt.groups[i].add(v, o)
	}
	for i := range mt.groups {
		mt.groups[i].Sum = floats.Sum(mt.groups[i].values)
	}
	return mt, nil
}

// CategoryMean aggregates metric for the single category name, leaving out
// rows whose metric is >= threshold.
func CategoryMean(t dataset.Table, category, metric schema.Column, name string, threshold float64) (Group, error) {
	o := options{threshold: threshold, popularCutoff: NoThreshold}
	g := Group{Category: name, Threshold: threshold}
	for _, row := range t.Rows {
		if category.Value(row) != name {
			continue
		}
		v, err := metric.Float(row)
		if err != nil {
			return Group{}, err
		}
		g.add(v, o)
	}
	g.Sum = floats.Sum(g.values)
	return g, nil
}

func (g *Group) add(v float64, o options) {
	if v >= o.threshold {
		g.Excluded++
		return
	}
	g.Count++
	g.values = append(g.values, v)
	if v > o.popularCutoff {
		g.Popular++
	}
}

// Outliers returns the rows of category name whose metric is >= threshold
func Outliers(t dataset.Table, category, metric schema.Column, name string, threshold float64) ([]dataset.Row, error) {
	var rows []dataset.Row
	for _, row := range t.Rows {
		if category.Value(row) != name {
			continue
		}
		v, err := metric.Float(row)
		if err != nil {
			return nil, err
		}
		if v >= threshold {
			rows = append(rows, row)
		}
	}
	return rows, nil
}

// Recommend returns the group with the highest mean. Empty groups are skipped.
func Recommend(groups []Group) (Group, error) {
	var (
		best     Group
		bestMean = math.Inf(-1)
		found    bool
	)
	for _, g := range groups {
		m, err := g.Mean()
		if err != nil {
			continue
		}
		if m > bestMean {
			best, bestMean, found = g, m, true
		}
	}
	if !found {
		return Group{}, fmt.Errorf("%w: no category has included rows", ErrEmptyGroup)
	}
	return best, nil
}
