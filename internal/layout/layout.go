// Package layout maps the semantic columns of the listing table to their positions.
//
// The page is addressed positionally, so a change to its column order only needs a new
// Layout here (or in config.json5) instead of touching every field rule.
package layout

import (
	"fmt"
)

// Columns holds the cell index of every semantic column.
type Columns struct {
	Rank              int `json:"rank"`
	Favorite          int `json:"favorite"`
	Identity          int `json:"identity"`
	Price             int `json:"price"`
	Change24h         int `json:"change24h"`
	Change7d          int `json:"change7d"`
	MarketCap         int `json:"market_cap"`
	Volume24h         int `json:"volume24h"`
	CirculatingSupply int `json:"circulating_supply"`
}

func (c Columns) indices() []int {
	return []int{
		c.Rank,
		c.Favorite,
		c.Identity,
		c.Price,
		c.Change24h,
		c.Change7d,
		c.MarketCap,
		c.Volume24h,
		c.CirculatingSupply,
	}
}

type Layout struct {
	Version string `json:"version"`
	// PendingAttr is the attribute a row carries while its contents are still being rendered.
	PendingAttr string `json:"pending_attr"`
	// Strict makes a row with fewer cells than Width() a structural failure instead of
	// a set of absent fields.
	Strict  *bool   `json:"strict"`
	Columns Columns `json:"columns"`
}

// V1 is the layout of the listing table as of the first revision of this scraper.
var V1 = Layout{
	Version:     "v1",
	PendingAttr: "class",
	Strict:      boolPtr(true),
	Columns: Columns{
		Rank:              0,
		Favorite:          1,
		Identity:          2,
		Price:             3,
		Change24h:         4,
		Change7d:          5,
		MarketCap:         6,
		Volume24h:         7,
		CirculatingSupply: 8,
	},
}

var known = map[string]Layout{
	V1.Version: V1,
}

func boolPtr(b bool) *bool {
	return &b
}

// Lookup returns a known layout by version.
func Lookup(version string) (Layout, error) {
	l, ok := known[version]
	if !ok {
		return Layout{}, fmt.Errorf("unknown layout version '%s'", version)
	}
	return l, nil
}

// IsStrict reports if insufficient cell counts are fatal, defaults to true.
func (l Layout) IsStrict() bool {
	if l.Strict == nil {
		return true
	}
	return *l.Strict
}

// Width is the minimum number of cells a row must have to address every column.
func (l Layout) Width() int {
	width := 0
	for _, idx := range l.Columns.indices() {
		if idx+1 > width {
			width = idx + 1
		}
	}
	return width
}

// Validate checks that no column index is negative and that no two columns share a cell.
func (l Layout) Validate() error {
	if l.Version == "" {
		return fmt.Errorf("layout has no version")
	}
	if l.PendingAttr == "" {
		return fmt.Errorf("layout %s: pending_attr is empty", l.Version)
	}
	seen := map[int]struct{}{}
	for _, idx := range l.Columns.indices() {
		if idx < 0 {
			return fmt.Errorf("layout %s: negative column index %d", l.Version, idx)
		}
		if _, dup := seen[idx]; dup {
			return fmt.Errorf("layout %s: column index %d is used twice", l.Version, idx)
		}
		seen[idx] = struct{}{}
	}
	return nil
}
