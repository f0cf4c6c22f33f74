package scraper

import (
	"context"
	"testing"
	"time"

	"marketsnap/internal/layout"
	"marketsnap/internal/market"
	"marketsnap/lib/telemetry"

	"github.com/stretchr/testify/require"
)

type assemblerEnv struct {
	driver    *fakeDriver
	clock     *fakeClock
	collector *telemetry.Collector
	assembler Assembler
}

func newAssemblerEnv(l layout.Layout, pages ...string) assemblerEnv {
	driver := &fakeDriver{pages: pages, navigated: []string{"https://example.com"}}
	clock := &fakeClock{now: time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)}
	collector := telemetry.NewCollector()

	loader := NewLoader(driver, clock, l.PendingAttr, collector)
	extractor := NewFieldExtractor(l.Columns, collector)

	return assemblerEnv{
		driver:    driver,
		clock:     clock,
		collector: collector,
		assembler: NewAssembler(loader, extractor, l, collector),
	}
}

func names(coins []market.Coin) []string {
	out := make([]string, len(coins))
	for i, c := range coins {
		out[i] = c.Name.Or("")
	}
	return out
}

func TestAssembleExactRows(t *testing.T) {
	markup := page(loadedRows(5)...)
	env := newAssemblerEnv(layout.V1, markup)

	coins, err := env.assembler.Assemble(context.Background(), markup, 5)
	require.NoError(t, err)
	require.Equal(t, []string{"Coin 1", "Coin 2", "Coin 3", "Coin 4", "Coin 5"}, names(coins))
	for _, c := range coins {
		require.Equal(t, 0, c.AbsentCount())
	}
	require.Equal(t, 0, env.driver.scrolls)
	require.Empty(t, env.collector.Filter(telemetry.LevelWarning))
}

func TestAssembleTakesFirstRows(t *testing.T) {
	markup := page(loadedRows(8)...)
	env := newAssemblerEnv(layout.V1, markup)

	coins, err := env.assembler.Assemble(context.Background(), markup, 3)
	require.NoError(t, err)
	require.Equal(t, []string{"Coin 1", "Coin 2", "Coin 3"}, names(coins))
}

func TestAssembleInsufficientRows(t *testing.T) {
	markup := page(loadedRows(4)...)
	env := newAssemblerEnv(layout.V1, markup)

	coins, err := env.assembler.Assemble(context.Background(), markup, 5)
	require.ErrorIs(t, err, ErrInsufficientData)
	require.NotErrorIs(t, err, ErrStructural)
	require.Empty(t, coins)
	require.Equal(t, 1, env.collector.Count(telemetry.LevelBroken))
}

func TestAssembleNoTableBody(t *testing.T) {
	markup := "<html><body><div>maintenance</div></body></html>"
	env := newAssemblerEnv(layout.V1, markup)

	coins, err := env.assembler.Assemble(context.Background(), markup, 1)
	require.ErrorIs(t, err, ErrStructural)
	require.Empty(t, coins)
	require.Equal(t, 0, env.driver.scrolls)
}

func TestAssembleScrollsOnce(t *testing.T) {
	rows := loadedRows(3)
	initial := page(rows[0], rows[1], pendingRow())
	rendered := page(rows...)
	env := newAssemblerEnv(layout.V1, initial, rendered)

	coins, err := env.assembler.Assemble(context.Background(), initial, 3)
	require.NoError(t, err)
	require.Equal(t, []string{"Coin 1", "Coin 2", "Coin 3"}, names(coins))
	require.Equal(t, 1, env.driver.scrolls)
	require.Equal(t, []time.Duration{settleInterval}, env.clock.sleeps)
	require.Equal(t, 500*time.Millisecond, settleInterval)
}

func TestAssembleStillPending(t *testing.T) {
	// the second row keeps its pending marker but already has its contents
	pending := `<tr class="placeholder">` + numbered("Coin", 2).row(2)[len("<tr>"):]
	markup := page(numbered("Coin", 1).row(1), pending)
	env := newAssemblerEnv(layout.V1, markup)

	coins, err := env.assembler.Assemble(context.Background(), markup, 2)
	require.NoError(t, err)
	require.Equal(t, []string{"Coin 1", "Coin 2"}, names(coins))
	require.Equal(t, 1, env.driver.scrolls)

	warnings := env.collector.Filter(telemetry.LevelWarning)
	require.Len(t, warnings, 1)
	require.Equal(t, report_ensure_loaded, warnings[0].ID)
}

func TestAssembleRowsShrinkAfterReload(t *testing.T) {
	rows := loadedRows(3)
	initial := page(rows[0], pendingRow(), rows[2])
	shrunk := page(rows[0], rows[1])
	env := newAssemblerEnv(layout.V1, initial, shrunk)

	coins, err := env.assembler.Assemble(context.Background(), initial, 3)
	require.ErrorIs(t, err, ErrStructural)
	require.Empty(t, coins)
}

func TestAssembleReloadLosesTableBody(t *testing.T) {
	rows := loadedRows(2)
	initial := page(rows[0], pendingRow())
	env := newAssemblerEnv(layout.V1, initial, "<html><body></body></html>")

	_, err := env.assembler.Assemble(context.Background(), initial, 2)
	require.ErrorIs(t, err, ErrStructural)
}

func TestAssembleCellCount(t *testing.T) {
	short := "<tr><td>1</td><td></td><td><p>Bitcoin</p><p>BTC</p></td><td><a>$1.00</a></td></tr>"

	t.Run("no cells", func(t *testing.T) {
		markup := page("<tr></tr>")
		env := newAssemblerEnv(layout.V1, markup)
		_, err := env.assembler.Assemble(context.Background(), markup, 1)
		require.ErrorIs(t, err, ErrStructural)
	})

	t.Run("strict", func(t *testing.T) {
		markup := page(short)
		env := newAssemblerEnv(layout.V1, markup)
		_, err := env.assembler.Assemble(context.Background(), markup, 1)
		require.ErrorIs(t, err, ErrStructural)
	})

	t.Run("lenient", func(t *testing.T) {
		lenient := layout.V1
		strict := false
		lenient.Strict = &strict

		markup := page(short)
		env := newAssemblerEnv(lenient, markup)
		coins, err := env.assembler.Assemble(context.Background(), markup, 1)
		require.NoError(t, err)
		require.Len(t, coins, 1)
		require.Equal(t, "BTC", coins[0].Symbol.Or(""))
		require.Equal(t, 1.0, coins[0].Price.Or(0))
		require.True(t, coins[0].Change24h.IsAbsent())
		require.True(t, coins[0].CirculatingSupply.IsAbsent())
		require.Equal(t, 5, env.collector.Count(telemetry.LevelWarning))
	})
}
