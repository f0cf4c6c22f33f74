package scraper

import (
	"context"
	"fmt"

	"marketsnap/lib/htmlutil"

	"github.com/PuerkitoBio/goquery"
)

// Cells is the ordered set of <td> cells of one table row.
type Cells []*goquery.Selection

// parseRows parses rendered markup and locates every row of the first table body.
func parseRows(ctx context.Context, markup string) (*goquery.Selection, error) {
	doc, err := htmlutil.ParseDocument(ctx, markup)
	if err != nil {
		return nil, fmt.Errorf("%w: parse markup: %w", ErrStructural, err)
	}
	tbody := doc.Find("tbody").First()
	if tbody.Length() == 0 {
		return nil, fmt.Errorf("%w: table body not found", ErrStructural)
	}
	return tbody.Find("tr"), nil
}

// isLoaded reports if a row has finished rendering, rows carry `pendingAttr`
// only while their contents are still being streamed in.
func isLoaded(row *goquery.Selection, pendingAttr string) bool {
	_, pending := row.Attr(pendingAttr)
	return !pending
}

func cellsOf(row *goquery.Selection) Cells {
	var cells Cells
	row.Find("td").Each(func(_ int, td *goquery.Selection) {
		cells = append(cells, td)
	})
	return cells
}
