// Package scraper extracts the top N rows of the listing table into coins.
package scraper

import (
	"context"
	"fmt"

	"marketsnap/internal/assert"
	"marketsnap/internal/chrono"
	"marketsnap/internal/layout"
	"marketsnap/internal/market"
	"marketsnap/lib/browser"
	"marketsnap/lib/restyutil"
	"marketsnap/lib/telemetry"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

var tracer = otel.Tracer("marketsnap.internal.scraper")

const (
	report_scrape        = "scraper.scrape"
	report_assemble      = "assembler.assemble"
	report_ensure_loaded = "loader.ensure-loaded"
	report_extract       = "extract"

	report_count_records       = "run.records"
	report_count_absent_fields = "run.absent_fields"
	report_count_partial       = "run.partial_records"
)

// Scraper drives one extraction pass against a live page.
type Scraper struct {
	driver    browser.Driver
	assembler Assembler
	time      chrono.TimeAPI
	tel       telemetry.API
	dump      restyutil.DumpOutput
}

type Options struct {
	Layout layout.Layout
	// Dump receives every captured document, it may be nil.
	Dump restyutil.DumpOutput
}

func NewScraper(driver browser.Driver, time chrono.TimeAPI, tel telemetry.API, opts Options) Scraper {
	assert.NotNil(driver)
	assert.NotNil(time)
	assert.NotNil(tel)

	loader := NewLoader(driver, time, opts.Layout.PendingAttr, tel)
	extractor := NewFieldExtractor(opts.Layout.Columns, tel)

	return Scraper{
		driver:    driver,
		assembler: NewAssembler(loader, extractor, opts.Layout, tel),
		time:      time,
		tel:       tel,
		dump:      opts.Dump,
	}
}

// Scrape navigates to `url` and assembles its first `target` rows. The batch is
// stamped with the time navigation started.
func (s Scraper) Scrape(ctx context.Context, url string, target int) (market.Batch, error) {
	ctx, span := tracer.Start(ctx, "Scraper.Scrape")
	defer span.End()
	span.SetAttributes(attribute.String("url", url))

	started := s.time.Now()

	err := s.driver.Navigate(ctx, url)
	if err != nil {
		err = fmt.Errorf("%w: %w", ErrStructural, err)
		s.tel.ReportBroken(report_scrape, err, url)
		span.RecordError(err)
		span.SetStatus(codes.Error, "navigation failed")
		return market.Batch{}, err
	}
	markup, err := s.driver.CurrentMarkup(ctx)
	if err != nil {
		err = fmt.Errorf("%w: read markup: %w", ErrStructural, err)
		s.tel.ReportBroken(report_scrape, err, url)
		span.RecordError(err)
		span.SetStatus(codes.Error, "read markup failed")
		return market.Batch{}, err
	}
	if s.dump != nil {
		s.dump.Write(restyutil.DumpName(ctx, "page", started.Format("20060102T150405Z"), "html"), markup)
	}

	coins, err := s.assembler.Assemble(ctx, markup, target)
	if err != nil {
		return market.Batch{}, err
	}

	absent := 0
	partial := 0
	for _, c := range coins {
		n := c.AbsentCount()
		absent += n
		if n > 0 {
			partial++
		}
	}
	s.tel.ReportCount(report_count_records, int64(len(coins)))
	s.tel.ReportCount(report_count_absent_fields, int64(absent))
	s.tel.ReportCount(report_count_partial, int64(partial))
	s.tel.ReportDebug("scrape finished", url, s.time.Now().Sub(started).String())

	return market.Batch{Time: started, Coins: coins}, nil
}
