package commands

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"marketsnap/internal/chrono"
	"marketsnap/internal/db"
	"marketsnap/internal/scraper"
	"marketsnap/internal/snapshot"
	"marketsnap/lib/browser"
	"marketsnap/lib/restyutil"
	"marketsnap/lib/telemetry"

	"github.com/mazen160/go-random"
)

const report_export = "export.csv"

// pipeline is everything a run needs that outlives the run.
type pipeline struct {
	cfg    Config
	driver browser.Driver
	db     *sql.DB
	clock  chrono.TimeAPI
	dump   restyutil.DumpOutput
	// out receives the diagnostics of each run once it finishes.
	out telemetry.API
	// runs share the driver, so they must not overlap
	lock *sync.Mutex
}

func newPipeline(ctx context.Context, cfg Config) (pipeline, func(), error) {
	var dump restyutil.DumpOutput
	if cfg.DumpDir != "" {
		output, err := restyutil.NewFilesystemOutput(cfg.DumpDir)
		if err != nil {
			return pipeline{}, nil, err
		}
		dump = output
		cfg.Browser.Dump = output
	}

	database, err := cfg.Database.OpenDB(db.Schema)
	if err != nil {
		return pipeline{}, nil, fmt.Errorf("open database: %w", err)
	}

	driver, err := browser.New(ctx, cfg.Browser)
	if err != nil {
		database.Close()
		return pipeline{}, nil, fmt.Errorf("start browser: %w", err)
	}

	cleanup := func() {
		driver.Close()
		database.Close()
	}
	return pipeline{
		cfg:    cfg,
		driver: driver,
		db:     database,
		clock:  chrono.NewStandardTime(),
		dump:   dump,
		out:    telemetry.SlogAPI{},
		lock:   &sync.Mutex{},
	}, cleanup, nil
}

// run performs one scrape, then exports and persists its batch concurrently. Every
// diagnostic of the run is collected and written out once the run is over.
func (p pipeline) run(ctx context.Context) error {
	p.lock.Lock()
	defer p.lock.Unlock()

	runId, err := random.String(8)
	if err != nil {
		return err
	}

	collector := telemetry.NewCollector()
	defer collector.Flush(p.out)
	tel := telemetry.NewScopedAPI(fmt.Sprintf("run %s", runId), collector)
	ctx = restyutil.WithRunId(ctx, runId)

	s := scraper.NewScraper(p.driver, p.clock, tel, scraper.Options{
		Layout: p.cfg.Layout,
		Dump:   p.dump,
	})
	batch, err := s.Scrape(ctx, p.cfg.Url, p.cfg.TopN)
	if err != nil {
		return err
	}

	reconciler := snapshot.NewReconciler(p.db, tel)

	var (
		wg           sync.WaitGroup
		path         string
		exportErr    error
		reconcileErr error
	)
	wg.Add(2)
	go func() {
		defer wg.Done()
		path, exportErr = snapshot.ExportCSV(p.cfg.SnapshotDir, batch)
		if exportErr != nil {
			tel.ReportBroken(report_export, exportErr)
		}
	}()
	go func() {
		defer wg.Done()
		reconcileErr = reconciler.Reconcile(ctx, batch)
	}()
	wg.Wait()

	if exportErr == nil {
		slog.Info("wrote snapshot", "run", runId, "path", path, "records", len(batch.Coins))
	}
	return errors.Join(exportErr, reconcileErr)
}
