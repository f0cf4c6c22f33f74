package scraper

import (
	"context"
	"fmt"
	"strings"
	"time"

	"marketsnap/lib/browser"
)

// fakeDriver serves `pages` in order, every scroll advances to the next page if there is one.
type fakeDriver struct {
	pages     []string
	current   int
	navigated []string
	scrolls   int
}

func (d *fakeDriver) Navigate(ctx context.Context, url string) error {
	d.navigated = append(d.navigated, url)
	return nil
}

func (d *fakeDriver) CurrentMarkup(ctx context.Context) (string, error) {
	if len(d.navigated) == 0 {
		return "", browser.ErrNotNavigated
	}
	return d.pages[d.current], nil
}

func (d *fakeDriver) Scroll(ctx context.Context) error {
	d.scrolls++
	if d.current < len(d.pages)-1 {
		d.current++
	}
	return nil
}

func (d *fakeDriver) Close() error {
	return nil
}

type fakeClock struct {
	now    time.Time
	sleeps []time.Duration
}

func (c *fakeClock) Now() time.Time {
	return c.now
}

func (c *fakeClock) Sleep(ctx context.Context, d time.Duration) error {
	c.sleeps = append(c.sleeps, d)
	c.now = c.now.Add(d)
	return nil
}

type testCoin struct {
	name      string
	symbol    string
	price     string
	change24h string
	up24h     bool
	change7d  string
	up7d      bool
	marketCap string
	volume    string
	supply    string
}

var bitcoin = testCoin{
	name:      "Bitcoin",
	symbol:    "BTC",
	price:     "$45,000.12",
	change24h: "2.34%",
	up24h:     true,
	change7d:  "1.20%",
	up7d:      false,
	marketCap: "$850,210,000,000",
	volume:    "$32,000,000,000",
	supply:    "19,000,000 BTC",
}

func direction(up bool) string {
	if up {
		return "icon-Caret-up"
	}
	return "icon-Caret-down"
}

func (c testCoin) cells(rank int) []string {
	return []string{
		fmt.Sprintf(`<td><p>%d</p></td>`, rank),
		`<td><span class="star"></span></td>`,
		fmt.Sprintf(`<td><a href="#"><div><p>%s</p><div><p>%s</p></div></div></a></td>`, c.name, c.symbol),
		fmt.Sprintf(`<td><div><a href="#"><span>%s</span></a></div></td>`, c.price),
		fmt.Sprintf(`<td><span><span class="%s"></span>%s</span></td>`, direction(c.up24h), c.change24h),
		fmt.Sprintf(`<td><span><span class="%s"></span>%s</span></td>`, direction(c.up7d), c.change7d),
		fmt.Sprintf(`<td><p><span class="short">$850.21B</span><span>%s</span></p></td>`, c.marketCap),
		fmt.Sprintf(`<td><div><a href="#"><p>%s</p></a><div><p>712,000 %s</p></div></div></td>`, c.volume, c.symbol),
		fmt.Sprintf(`<td><div><p>%s</p></div></td>`, c.supply),
	}
}

func (c testCoin) row(rank int) string {
	return "<tr>" + strings.Join(c.cells(rank), "") + "</tr>"
}

func pendingRow() string {
	return `<tr class="placeholder"><td></td><td></td><td></td></tr>`
}

func page(rows ...string) string {
	return "<html><body><table><thead><tr><th>#</th></tr></thead><tbody>" +
		strings.Join(rows, "") +
		"</tbody></table></body></html>"
}

func numbered(name string, i int) testCoin {
	c := bitcoin
	c.name = fmt.Sprintf("%s %d", name, i)
	c.symbol = fmt.Sprintf("C%d", i)
	return c
}

func loadedRows(n int) []string {
	rows := make([]string, n)
	for i := range rows {
		rows[i] = numbered("Coin", i+1).row(i + 1)
	}
	return rows
}
