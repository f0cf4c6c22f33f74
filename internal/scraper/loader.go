package scraper

import (
	"context"
	"fmt"
	"time"

	"marketsnap/internal/assert"
	"marketsnap/internal/chrono"
	"marketsnap/lib/browser"
	"marketsnap/lib/telemetry"

	"github.com/PuerkitoBio/goquery"
)

// settleInterval is how long the page is given to render rows after a scroll.
const settleInterval = 500 * time.Millisecond

// Loader makes sure a row's contents have been rendered before it is extracted.
type Loader struct {
	driver      browser.Driver
	time        chrono.TimeAPI
	pendingAttr string
	tel         telemetry.API
}

func NewLoader(driver browser.Driver, time chrono.TimeAPI, pendingAttr string, tel telemetry.API) Loader {
	assert.NotNil(driver)
	assert.NotNil(time)
	assert.NotNil(tel)
	assert.NotEmptyStr(pendingAttr)

	return Loader{
		driver:      driver,
		time:        time,
		pendingAttr: pendingAttr,
		tel:         tel,
	}
}

// EnsureLoaded returns `rows` as-is if rows[index] has rendered. Otherwise it scrolls
// the page once, waits for it to settle and returns the refreshed row collection, the
// caller is expected to re-index it at the same position. A row that is still pending
// after the reload is returned anyway and extracted best-effort.
func (l Loader) EnsureLoaded(ctx context.Context, rows *goquery.Selection, index int) (*goquery.Selection, error) {
	if isLoaded(rows.Eq(index), l.pendingAttr) {
		return rows, nil
	}

	ctx, span := tracer.Start(ctx, "Loader.EnsureLoaded")
	defer span.End()

	l.tel.ReportDebug("row is still rendering, scrolling", index+1)

	err := l.driver.Scroll(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: scroll: %w", ErrStructural, err)
	}
	err = l.time.Sleep(ctx, settleInterval)
	if err != nil {
		return nil, err
	}

	markup, err := l.driver.CurrentMarkup(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: read markup: %w", ErrStructural, err)
	}
	refreshed, err := parseRows(ctx, markup)
	if err != nil {
		return nil, err
	}

	if index < refreshed.Length() && !isLoaded(refreshed.Eq(index), l.pendingAttr) {
		l.tel.ReportWarning(report_ensure_loaded, fmt.Errorf("row is still rendering after a reload"), index+1)
	}
	return refreshed, nil
}
