package scraper

import (
	"context"
	"fmt"
	"testing"

	"marketsnap/internal/layout"
	"marketsnap/internal/market"
	"marketsnap/lib/telemetry"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
)

func cellsFromRow(t testing.TB, row string) Cells {
	t.Helper()
	rows, err := parseRows(context.Background(), page(row))
	if err != nil {
		t.Fatal(err)
	}
	require.Equal(t, 1, rows.Length())
	return cellsOf(rows.Eq(0))
}

var bitcoinCoin = market.Coin{
	Name:              market.Some("Bitcoin"),
	Symbol:            market.Some("BTC"),
	Price:             market.Some(45000.12),
	Change24h:         market.Some(2.34),
	Change7d:          market.Some(-1.20),
	MarketCap:         market.Some[int64](850210000000),
	Volume24h:         market.Some[int64](32000000000),
	CirculatingSupply: market.Some[int64](19000000),
}

func TestRules(t *testing.T) {
	rules := NewRules(layout.V1.Columns)
	cells := cellsFromRow(t, bitcoin.row(1))
	require.Len(t, cells, 9)

	price, err := rules.Price(cells)
	require.NoError(t, err)
	require.Equal(t, 45000.12, price)

	change24h, err := rules.Change24h(cells)
	require.NoError(t, err)
	require.Equal(t, 2.34, change24h)

	change7d, err := rules.Change7d(cells)
	require.NoError(t, err)
	require.Equal(t, -1.20, change7d)

	name, err := rules.Name(cells)
	require.NoError(t, err)
	require.Equal(t, "Bitcoin", name)

	symbol, err := rules.Symbol(cells)
	require.NoError(t, err)
	require.Equal(t, "BTC", symbol)

	marketCap, err := rules.MarketCap(cells)
	require.NoError(t, err)
	require.Equal(t, int64(850210000000), marketCap)

	volume, err := rules.Volume24h(cells)
	require.NoError(t, err)
	require.Equal(t, int64(32000000000), volume)

	supply, err := rules.CirculatingSupply(cells)
	require.NoError(t, err)
	require.Equal(t, int64(19000000), supply)
}

// the sign of a change defaults to negative whenever the direction marker cannot be
// read as "up", so an unmarked positive value comes out negative.
func TestChangeSignDefault(t *testing.T) {
	rules := NewRules(layout.V1.Columns)

	testCases := []struct {
		name string
		cell string
	}{
		{name: "marker missing", cell: `<td><span>2.34%</span></td>`},
		{name: "no spans at all", cell: `<td>2.34%</td>`},
		{name: "marker without class", cell: `<td><span><span></span>2.34%</span></td>`},
		{name: "unexpected class", cell: `<td><span><span class="icon-flat up"></span>2.34%</span></td>`},
	}

	for _, test := range testCases {
		t.Run(test.name, func(t *testing.T) {
			cells := bitcoin.cells(1)
			cells[layout.V1.Columns.Change24h] = test.cell
			row := "<tr>"
			for _, c := range cells {
				row += c
			}
			row += "</tr>"

			change, err := rules.Change24h(cellsFromRow(t, row))
			require.NoError(t, err)
			require.Equal(t, -2.34, change)
		})
	}
}

func TestFieldIndependence(t *testing.T) {
	columns := layout.V1.Columns

	testCases := []struct {
		column int
		absent []string
	}{
		{column: columns.Identity, absent: []string{market.FieldName, market.FieldSymbol}},
		{column: columns.Price, absent: []string{market.FieldPrice}},
		{column: columns.Change24h, absent: []string{market.FieldChange24h}},
		{column: columns.Change7d, absent: []string{market.FieldChange7d}},
		{column: columns.MarketCap, absent: []string{market.FieldMarketCap}},
		{column: columns.Volume24h, absent: []string{market.FieldVolume24h}},
		{column: columns.CirculatingSupply, absent: []string{market.FieldCirculatingSupply}},
	}

	for _, test := range testCases {
		t.Run(fmt.Sprintf("column %d", test.column), func(t *testing.T) {
			cells := bitcoin.cells(1)
			cells[test.column] = `<td><i>n/a</i></td>`
			row := "<tr>"
			for _, c := range cells {
				row += c
			}
			row += "</tr>"

			collector := telemetry.NewCollector()
			coin := NewFieldExtractor(columns, collector).Extract(cellsFromRow(t, row), 7)

			expected := bitcoinCoin
			for _, field := range test.absent {
				switch field {
				case market.FieldName:
					expected.Name = market.Absent[string]()
				case market.FieldSymbol:
					expected.Symbol = market.Absent[string]()
				case market.FieldPrice:
					expected.Price = market.Absent[float64]()
				case market.FieldChange24h:
					expected.Change24h = market.Absent[float64]()
				case market.FieldChange7d:
					expected.Change7d = market.Absent[float64]()
				case market.FieldMarketCap:
					expected.MarketCap = market.Absent[int64]()
				case market.FieldVolume24h:
					expected.Volume24h = market.Absent[int64]()
				case market.FieldCirculatingSupply:
					expected.CirculatingSupply = market.Absent[int64]()
				}
			}
			if diff := cmp.Diff(expected, coin); diff != "" {
				t.Fatalf("unexpected coin (-want +got):\n%s", diff)
			}

			warnings := collector.Filter(telemetry.LevelWarning)
			require.Len(t, warnings, len(test.absent))
			for i, field := range test.absent {
				require.Equal(t, "extract."+field, warnings[i].ID)
				require.Equal(t, 7, warnings[i].Params[1])
			}
		})
	}
}

func TestExtractNoCells(t *testing.T) {
	collector := telemetry.NewCollector()
	coin := NewFieldExtractor(layout.V1.Columns, collector).Extract(nil, 1)
	require.Equal(t, len(market.Fields), coin.AbsentCount())
	require.Equal(t, len(market.Fields), collector.Count(telemetry.LevelWarning))
}

func TestFailOpenRecoversPanics(t *testing.T) {
	collector := telemetry.NewCollector()
	value := failOpen(collector, "price", 3, nil, func(Cells) (float64, error) {
		panic("index out of range")
	})
	require.True(t, value.IsAbsent())
	require.Equal(t, 1, collector.Count(telemetry.LevelWarning))
}

// normalizing text that is already normalized yields the same number.
func TestNormalizationIdempotent(t *testing.T) {
	rules := NewRules(layout.V1.Columns)
	first := cellsFromRow(t, bitcoin.row(1))

	normalized := bitcoin
	normalized.price = "45000.12"
	normalized.change24h = "2.34"
	normalized.change7d = "1.2"
	normalized.marketCap = "850210000000"
	normalized.volume = "32000000000"
	normalized.supply = "19000000"
	second := cellsFromRow(t, normalized.row(1))

	collector := telemetry.NewCollector()
	extractor := NewFieldExtractor(layout.V1.Columns, collector)
	if diff := cmp.Diff(extractor.Extract(first, 1), extractor.Extract(second, 1)); diff != "" {
		t.Fatalf("normalized row extracted differently (-raw +normalized):\n%s", diff)
	}
	require.Empty(t, collector.Entries())

	price, err := rules.Price(second)
	require.NoError(t, err)
	require.Equal(t, 45000.12, price)
}
