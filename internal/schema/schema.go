package schema

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ErrUnparseableMetric is returned when a value expected to be numeric cannot be parsed.
var ErrUnparseableMetric = errors.New("unparseable metric")

// Normalizer rewrites a raw field before it is parsed as a number
type Normalizer func(string) string

// Field is a named column with its documented position in the export
type Field struct {
	Name      string
	Position  int
	Normalize Normalizer
}

// Schema describes the columns one source export is read by
type Schema struct {
	Name   string
	Fields []Field
}

// Field names of the app store export (Source A)
const (
	TrackName      = "track_name"
	Price          = "price"
	RatingCountTot = "rating_count_tot"
	PrimeGenre     = "prime_genre"
)

// Field names of the marketplace export (Source B)
const (
	App      = "App"
	Category = "Category"
	Reviews  = "Reviews"
	Installs = "Installs"
	Type     = "Type"
	Genres   = "Genres"
)

// AppStore is the app store export layout
var AppStore = Schema{
	Name: "appstore",
	Fields: []Field{
		{Name: TrackName, Position: 1},
		{Name: Price, Position: 4},
		{Name: RatingCountTot, Position: 5},
		{Name: PrimeGenre, Position: 11},
	},
}

// Marketplace is the OS marketplace export layout
var Marketplace = Schema{
	Name: "marketplace",
	Fields: []Field{
		{Name: App, Position: 0},
		{Name: Category, Position: 1},
		{Name: Reviews, Position: 3},
		{Name: Installs, Position: 5, Normalize: StripInstallSuffix},
		{Name: Type, Position: 6},
		{Name: Genres, Position: 9},
	},
}

// StripInstallSuffix turns "1,000,000+" into "1000000"
func StripInstallSuffix(s string) string {
	s = strings.ReplaceAll(s, "+", "")
	return strings.ReplaceAll(s, ",", "")
}

// Column is a field resolved against a concrete header
type Column struct {
	Name      string
	Index     int
	normalize Normalizer
}

// Value returns the raw field of row, or "" when the row is too short
func (c Column) Value(row []string) string {
	if c.Index < 0 || c.Index >= len(row) {
		return ""
	}
	return row[c.Index]
}

// Float parses the normalized field as a float64
func (c Column) Float(row []string) (float64, error) {
	raw := c.Value(row)
	if c.normalize != nil {
		raw = c.normalize(raw)
	}
	v, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil {
		return 0, fmt.Errorf("%w: column %s value %q", ErrUnparseableMetric, c.Name, c.Value(row))
	}
	return v, nil
}

// Layout maps field names to header positions for one source
type Layout struct {
	schema  string
	columns map[string]Column
}

// Bind resolves every field of the schema against header. A header cell whose
// name matches the field wins; otherwise the documented position is used.
func (s Schema) Bind(header []string) (Layout, error) {
	byName := make(map[string]int, len(header))
	for i, h := range header {
		key := strings.ToLower(strings.TrimSpace(h))
		if _, seen := byName[key]; !seen {
			byName[key] = i
		}
	}

	layout := Layout{schema: s.Name, columns: make(map[string]Column, len(s.Fields))}
	for _, f := range s.Fields {
		idx, ok := byName[strings.ToLower(f.Name)]
		if !ok {
			idx = f.Position
		}
		if idx < 0 || idx >= len(header) {
			return Layout{}, fmt.Errorf("%s: field %s at position %d outside header of %d columns",
				s.Name, f.Name, idx, len(header))
		}
		layout.columns[f.Name] = Column{Name: f.Name, Index: idx, normalize: f.Normalize}
	}
	return layout, nil
}

// Column returns the resolved column for name. It panics on a name the schema
// does not declare, which is a programming error.
func (l Layout) Column(name string) Column {
	c, ok := l.columns[name]
	if !ok {
		panic(fmt.Sprintf("schema %s has no field %q", l.schema, name))
	}
	return c
}

// Schema returns the name of the schema the layout was bound from
func (l Layout) Schema() string {
	return l.schema
}
