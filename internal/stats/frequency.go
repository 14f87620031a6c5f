package stats

import (
	"sort"

	"github.com/peekknuf/appprofile/internal/dataset"
	"github.com/peekknuf/appprofile/internal/schema"
)

// Share is one distinct value and the proportion of rows holding it
type Share struct {
	Value      string
	Count      int
	Proportion float64
}

// FrequencyTable is the distribution of one column. It is built once by
// Frequency and exposes only copies of its entries.
type FrequencyTable struct {
	column  string
	total   int
	entries []Share
	index   map[string]int
}

// Frequency computes, for each distinct value of col, its share of all rows
func Frequency(t dataset.Table, col schema.Column) FrequencyTable {
	ft := FrequencyTable{
		column: col.Name,
		total:  t.Len(),
		index:  make(map[string]int),
	}
	for _, row := range t.Rows {
		v := col.Value(row)
		i, ok := ft.index[v]
		if !ok {
			i = len(ft.entries)
			ft.index[v] = i
			ft.entries = append(ft.entries, Share{Value: v})
		}
		ft.entries[i].Count++
	}
	for i := range ft.entries {
		ft.entries[i].Proportion = float64(ft.entries[i].Count) / float64(ft.total)
	}
	return ft
}

// Column returns the name of the aggregated column
func (ft FrequencyTable) Column() string {
	return ft.column
}

// Total returns the number of rows aggregated
func (ft FrequencyTable) Total() int {
	return ft.total
}

// Len returns the number of distinct values
func (ft FrequencyTable) Len() int {
	return len(ft.entries)
}

// Proportion returns the share of value and whether it was observed
func (ft FrequencyTable) Proportion(value string) (float64, bool) {
	i, ok := ft.index[value]
	if !ok {
		return 0, false
	}
	return ft.entries[i].Proportion, true
}

// Entries returns the shares in first-occurrence order
func (ft FrequencyTable) Entries() []Share {
	out := make([]Share, len(ft.entries))
	copy(out, ft.entries)
	return out
}

// Sorted returns the shares by descending proportion; equal proportions keep
// first-occurrence order.
func (ft FrequencyTable) Sorted() []Share {
	out := ft.Entries()
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Proportion > out[j].Proportion
	})
	return out
}
