package commands

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"marketsnap/internal/chrono"
	"marketsnap/internal/db"
	"marketsnap/internal/layout"
	"marketsnap/internal/scraper"
	"marketsnap/internal/snapshot"
	"marketsnap/lib/telemetry"
	"marketsnap/lib/testutil"

	"github.com/stretchr/testify/require"
)

type staticDriver struct {
	markup string
}

func (d staticDriver) Navigate(ctx context.Context, url string) error    { return nil }
func (d staticDriver) CurrentMarkup(ctx context.Context) (string, error) { return d.markup, nil }
func (d staticDriver) Scroll(ctx context.Context) error                  { return nil }
func (d staticDriver) Close() error                                      { return nil }

const listingRow = `<tr>
<td>1</td>
<td></td>
<td><a><div><p>Bitcoin</p><div><p>BTC</p></div></div></a></td>
<td><a><span>$45,000.12</span></a></td>
<td><span><span class="icon-Caret-up"></span>2.34%</span></td>
<td><span><span class="icon-Caret-down"></span>1.20%</span></td>
<td><span>$850.21B</span><span>$850,210,000,000</span></td>
<td><a><p>$32,000,000,000</p></a></td>
<td><p>19,000,000 BTC</p></td>
</tr>`

func newTestPipeline(t *testing.T, markup string, topN int) (pipeline, *telemetry.Collector) {
	dir := t.TempDir()
	collector := telemetry.NewCollector()
	return pipeline{
		cfg: Config{
			Url:         "https://example.com/",
			TopN:        topN,
			SnapshotDir: filepath.Join(dir, "snapshots"),
			Layout:      layout.V1,
		},
		driver: staticDriver{markup: markup},
		db:     testutil.OpenDB(t, testutil.DBParams{Name: "cmd/marketsnap", Schema: db.Schema}),
		clock:  chrono.NewStandardTime(),
		out:    collector,
		lock:   &sync.Mutex{},
	}, collector
}

func TestPipelineRun(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Second*5)
	defer cancel()

	markup := "<html><body><table><tbody>" + listingRow + "</tbody></table></body></html>"
	p, collector := newTestPipeline(t, markup, 1)

	require.NoError(t, p.run(ctx))
	require.NoError(t, p.run(ctx))

	coins, err := snapshot.NewStore(p.db, collector).Coins(ctx)
	require.NoError(t, err)
	require.Len(t, coins, 1)
	require.Equal(t, int64(2), coins[0].Observations)

	files, err := os.ReadDir(p.cfg.SnapshotDir)
	require.NoError(t, err)
	require.NotEmpty(t, files)

	// diagnostics are only forwarded once a run is over, scoped by run id
	require.Empty(t, collector.Filter(telemetry.LevelBroken))
	counts := collector.Filter(telemetry.LevelCount)
	require.NotEmpty(t, counts)
	require.True(t, strings.HasPrefix(counts[0].ID, "run "))
}

func TestPipelineRunInsufficientRows(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Second*5)
	defer cancel()

	markup := "<html><body><table><tbody>" + listingRow + "</tbody></table></body></html>"
	p, collector := newTestPipeline(t, markup, 2)

	err := p.run(ctx)
	require.ErrorIs(t, err, scraper.ErrInsufficientData)
	require.Equal(t, 1, collector.Count(telemetry.LevelBroken))

	// nothing is exported or persisted
	_, err = os.Stat(p.cfg.SnapshotDir)
	require.True(t, os.IsNotExist(err))
	count, err := db.New(p.db).CountObservations(ctx)
	require.NoError(t, err)
	require.Zero(t, count)
}
