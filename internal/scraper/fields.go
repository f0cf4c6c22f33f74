package scraper

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"marketsnap/internal/assert"
	"marketsnap/internal/layout"
	"marketsnap/internal/market"
	"marketsnap/lib/htmlutil"
	"marketsnap/lib/telemetry"
	"marketsnap/lib/textutil"

	"github.com/PuerkitoBio/goquery"
)

var errNodeNotFound = errors.New("node not found")

// Rules holds one pure rule per field, each of them turns the cells of a row into a
// value or an error. They do not know about absence, that is handled by FieldExtractor.
type Rules struct {
	columns layout.Columns
}

func NewRules(columns layout.Columns) Rules {
	return Rules{columns: columns}
}

func cell(cells Cells, index int) (*goquery.Selection, error) {
	if index < 0 || index >= len(cells) {
		return nil, fmt.Errorf("cell %d: %w (row has %d cells)", index, errNodeNotFound, len(cells))
	}
	return cells[index], nil
}

// nthText returns the text of the n-th `selector` descendant of cell `index`.
func nthText(cells Cells, index int, selector string, n int) (string, error) {
	c, err := cell(cells, index)
	if err != nil {
		return "", err
	}
	nodes := c.Find(selector)
	if n < 0 {
		n = nodes.Length() + n
	}
	if n < 0 || n >= nodes.Length() {
		return "", fmt.Errorf("cell %d: %s[%d]: %w", index, selector, n, errNodeNotFound)
	}
	return htmlutil.Text(nodes.Eq(n)), nil
}

func nonEmpty(text string, err error) (string, error) {
	if err != nil {
		return "", err
	}
	if text == "" {
		return "", fmt.Errorf("text is empty")
	}
	return text, nil
}

func parseFloat(text string) (float64, error) {
	return strconv.ParseFloat(text, 64)
}

func parseInt(text string) (int64, error) {
	return strconv.ParseInt(text, 10, 64)
}

func (r Rules) Name(cells Cells) (string, error) {
	return nonEmpty(nthText(cells, r.columns.Identity, "p", 0))
}

func (r Rules) Symbol(cells Cells) (string, error) {
	return nonEmpty(nthText(cells, r.columns.Identity, "p", 1))
}

func (r Rules) Price(cells Cells) (float64, error) {
	text, err := nthText(cells, r.columns.Price, "a", 0)
	if err != nil {
		return 0, err
	}
	return parseFloat(textutil.StripCurrency(text))
}

// changeSign returns +1 if the first class of the nested direction marker (span > span)
// contains "up" and -1 in every other case, including a missing marker.
func changeSign(c *goquery.Selection) float64 {
	marker := c.Find("span").First().Find("span").First()
	classes := htmlutil.ClassTokens(marker)
	if len(classes) > 0 && strings.Contains(classes[0], "up") {
		return 1
	}
	return -1
}

func change(cells Cells, index int) (float64, error) {
	c, err := cell(cells, index)
	if err != nil {
		return 0, err
	}
	magnitude, err := parseFloat(textutil.StripPercent(htmlutil.Text(c)))
	if err != nil {
		return 0, err
	}
	return changeSign(c) * magnitude, nil
}

func (r Rules) Change24h(cells Cells) (float64, error) {
	return change(cells, r.columns.Change24h)
}

func (r Rules) Change7d(cells Cells) (float64, error) {
	return change(cells, r.columns.Change7d)
}

func (r Rules) MarketCap(cells Cells) (int64, error) {
	text, err := nthText(cells, r.columns.MarketCap, "span", -1)
	if err != nil {
		return 0, err
	}
	return parseInt(textutil.StripCurrency(text))
}

func (r Rules) Volume24h(cells Cells) (int64, error) {
	c, err := cell(cells, r.columns.Volume24h)
	if err != nil {
		return 0, err
	}
	p := c.Find("a").First().Find("p").First()
	if p.Length() == 0 {
		return 0, fmt.Errorf("cell %d: a > p: %w", r.columns.Volume24h, errNodeNotFound)
	}
	return parseInt(textutil.StripCurrency(htmlutil.Text(p)))
}

func (r Rules) CirculatingSupply(cells Cells) (int64, error) {
	text, err := nthText(cells, r.columns.CirculatingSupply, "p", 0)
	if err != nil {
		return 0, err
	}
	return parseInt(textutil.StripUnits(text))
}

// failOpen runs a single rule, any error (or panic) it produces becomes an absent value
// and one warning naming the field and the rank of the row.
func failOpen[T market.Scalar](
	tel telemetry.API,
	field string,
	rank int,
	cells Cells,
	rule func(Cells) (T, error),
) (out market.Value[T]) {
	defer func() {
		if r := recover(); r != nil {
			tel.ReportWarning(fmt.Sprintf("%s.%s", report_extract, field), fmt.Errorf("panic: %v", r), rank)
			out = market.Absent[T]()
		}
	}()

	value, err := rule(cells)
	if err != nil {
		tel.ReportWarning(fmt.Sprintf("%s.%s", report_extract, field), err, rank)
		return market.Absent[T]()
	}
	return market.Some(value)
}

// FieldExtractor turns the cells of a row into a Coin, every field failing independently.
type FieldExtractor struct {
	rules Rules
	tel   telemetry.API
}

func NewFieldExtractor(columns layout.Columns, tel telemetry.API) FieldExtractor {
	assert.NotNil(tel)
	return FieldExtractor{rules: NewRules(columns), tel: tel}
}

// Extract never fails, unparseable fields are left absent. `rank` is only used in diagnostics.
func (e FieldExtractor) Extract(cells Cells, rank int) market.Coin {
	r := e.rules
	return market.Coin{
		Name:              failOpen(e.tel, market.FieldName, rank, cells, r.Name),
		Symbol:            failOpen(e.tel, market.FieldSymbol, rank, cells, r.Symbol),
		Price:             failOpen(e.tel, market.FieldPrice, rank, cells, r.Price),
		Change24h:         failOpen(e.tel, market.FieldChange24h, rank, cells, r.Change24h),
		Change7d:          failOpen(e.tel, market.FieldChange7d, rank, cells, r.Change7d),
		MarketCap:         failOpen(e.tel, market.FieldMarketCap, rank, cells, r.MarketCap),
		Volume24h:         failOpen(e.tel, market.FieldVolume24h, rank, cells, r.Volume24h),
		CirculatingSupply: failOpen(e.tel, market.FieldCirculatingSupply, rank, cells, r.CirculatingSupply),
	}
}
