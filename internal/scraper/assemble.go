package scraper

import (
	"context"
	"fmt"

	"marketsnap/internal/assert"
	"marketsnap/internal/layout"
	"marketsnap/internal/market"
	"marketsnap/lib/telemetry"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

// Assembler turns a rendered listing page into exactly `target` coins in rank order.
type Assembler struct {
	loader    Loader
	extractor FieldExtractor
	layout    layout.Layout
	tel       telemetry.API
}

func NewAssembler(loader Loader, extractor FieldExtractor, l layout.Layout, tel telemetry.API) Assembler {
	assert.NotNil(tel)
	return Assembler{
		loader:    loader,
		extractor: extractor,
		layout:    l,
		tel:       tel,
	}
}

func (a Assembler) fail(err error) ([]market.Coin, error) {
	a.tel.ReportBroken(report_assemble, err)
	return nil, err
}

// Assemble returns either all `target` coins or none of them along with an error
// wrapping ErrStructural or ErrInsufficientData.
func (a Assembler) Assemble(ctx context.Context, markup string, target int) (coins []market.Coin, err error) {
	ctx, span := tracer.Start(ctx, "Assembler.Assemble")
	defer span.End()
	defer func() {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
	}()
	span.SetAttributes(attribute.Int("target", target))

	rows, err := parseRows(ctx, markup)
	if err != nil {
		return a.fail(err)
	}
	if rows.Length() < target {
		return a.fail(fmt.Errorf(
			"%w: page has %d rows, %d requested",
			ErrInsufficientData, rows.Length(), target,
		))
	}

	width := a.layout.Width()
	strict := a.layout.IsStrict()

	coins = make([]market.Coin, 0, target)
	for i := 0; i < target; i++ {
		rows, err = a.loader.EnsureLoaded(ctx, rows, i)
		if err != nil {
			return a.fail(err)
		}
		if rows.Length() < target {
			return a.fail(fmt.Errorf(
				"%w: page has %d rows after reload, %d requested",
				ErrStructural, rows.Length(), target,
			))
		}

		cells := cellsOf(rows.Eq(i))
		if len(cells) == 0 {
			return a.fail(fmt.Errorf("%w: row %d has no cells", ErrStructural, i+1))
		}
		if strict && len(cells) < width {
			return a.fail(fmt.Errorf(
				"%w: row %d has %d cells, layout %s needs %d",
				ErrStructural, i+1, len(cells), a.layout.Version, width,
			))
		}

		coins = append(coins, a.extractor.Extract(cells, i+1))
	}

	return coins, nil
}
