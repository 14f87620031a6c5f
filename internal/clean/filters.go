package clean

import (
	"github.com/peekknuf/appprofile/internal/dataset"
	"github.com/peekknuf/appprofile/internal/schema"
)

// DefaultNonASCIILimit tolerates a few emoji or trademark glyphs in a name
const DefaultNonASCIILimit = 3

// DefaultPaidLabel is the marketplace Type value of non-free apps
const DefaultPaidLabel = "Paid"

// IsPrimaryScript reports whether name has at most limit code points above 127.
// Names with more symbols than that are rejected even when they are English.
func IsPrimaryScript(name string, limit int) bool {
	nonASCII := 0
	for _, r := range name {
		if r > 127 {
			nonASCII++
		}
		if nonASCII > limit {
			return false
		}
	}
	return true
}

// PrimaryScript keeps rows whose name passes IsPrimaryScript
func PrimaryScript(t dataset.Table, name schema.Column, limit int) dataset.Table {
	return t.Filter(func(r dataset.Row) bool {
		return IsPrimaryScript(name.Value(r), limit)
	})
}

// FreeByPrice keeps rows whose numeric price is exactly zero
func FreeByPrice(t dataset.Table, price schema.Column) (dataset.Table, error) {
	return t.FilterErr(func(r dataset.Row) (bool, error) {
		p, err := price.Float(r)
		if err != nil {
			return false, err
		}
		return p == 0, nil
	})
}

// FreeByType drops rows whose type label equals paidLabel
func FreeByType(t dataset.Table, typ schema.Column, paidLabel string) dataset.Table {
	return t.Filter(func(r dataset.Row) bool {
		return typ.Value(r) != paidLabel
	})
}
