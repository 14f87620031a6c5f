package clean

import (
	"errors"
	"fmt"
	"strings"

	"github.com/peekknuf/appprofile/internal/dataset"
	"github.com/peekknuf/appprofile/internal/schema"
)

// ErrUnknownKey is returned when a name is looked up in the review-count index
// without having been indexed.
var ErrUnknownKey = errors.New("unknown key")

// TieBreak picks which row survives when several rows of one name share the
// maximum metric.
type TieBreak int

const (
	// KeepFirst keeps the first row at the maximum in table order
	KeepFirst TieBreak = iota
	// KeepLast keeps the last row at the maximum in table order
	KeepLast
)

func (tb TieBreak) String() string {
	if tb == KeepLast {
		return "last"
	}
	return "first"
}

// ParseTieBreak maps "first" / "last" to a TieBreak
func ParseTieBreak(s string) (TieBreak, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "first":
		return KeepFirst, nil
	case "last":
		return KeepLast, nil
	}
	return KeepFirst, fmt.Errorf("unknown tie-break policy %q (want first or last)", s)
}

// reviewIndex maps a name to the largest metric seen for it
type reviewIndex map[string]float64

func buildReviewIndex(t dataset.Table, name, metric schema.Column) (reviewIndex, error) {
	index := make(reviewIndex, t.Len())
	for _, row := range t.Rows {
		v, err := metric.Float(row)
		if err != nil {
			return nil, err
		}
		key := name.Value(row)
		if top, ok := index[key]; !ok || v > top {
			index[key] = v
		}
	}
	return index, nil
}

func (idx reviewIndex) lookup(key string) (float64, error) {
	v, ok := idx[key]
	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrUnknownKey, key)
	}
	return v, nil
}

// Deduplicate collapses rows sharing a name into the single row carrying the
// largest metric. Review count stands in for recency, which the exports lack.
func Deduplicate(t dataset.Table, name, metric schema.Column, policy TieBreak) (dataset.Table, error) {
	index, err := buildReviewIndex(t, name, metric)
	if err != nil {
		return dataset.Table{}, fmt.Errorf("build review index: %w", err)
	}

	chosen := make(map[string]int, len(index))
	for i, row := range t.Rows {
		v, err := metric.Float(row)
		if err != nil {
			return dataset.Table{}, err
		}
		key := name.Value(row)
		top, err := index.lookup(key)
		if err != nil {
			return dataset.Table{}, err
		}
		if v != top {
			continue
		}
		if _, done := chosen[key]; done && policy == KeepFirst {
			continue
		}
		chosen[key] = i
	}

	rows := make([]dataset.Row, 0, len(chosen))
	for i, row := range t.Rows {
		if at, ok := chosen[name.Value(row)]; ok && at == i {
			rows = append(rows, row)
		}
	}
	return t.WithRows(rows), nil
}

// DuplicateSurvey summarizes repeated names before deduplication
type DuplicateSurvey struct {
	Unique     int
	Duplicates []string
}

// SurveyDuplicates counts unique names and lists every repeat occurrence
func SurveyDuplicates(t dataset.Table, name schema.Column) DuplicateSurvey {
	seen := make(map[string]struct{}, t.Len())
	var survey DuplicateSurvey
	for _, row := range t.Rows {
		key := name.Value(row)
		if _, ok := seen[key]; ok {
			survey.Duplicates = append(survey.Duplicates, key)
			continue
		}
		seen[key] = struct{}{}
	}
	survey.Unique = len(seen)
	return survey
}
