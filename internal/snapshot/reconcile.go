// Package snapshot persists assembled batches and reads them back.
package snapshot

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"marketsnap/internal/assert"
	"marketsnap/internal/db"
	"marketsnap/internal/market"
	"marketsnap/lib/telemetry"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

var tracer = otel.Tracer("marketsnap.internal.snapshot")

const (
	report_db_query            = "db.query"
	report_reconcile_record    = "reconcile.record"
	report_reconcile_integrity = "reconcile.integrity"
	report_reconcile_unkeyed   = "reconcile.unkeyed"

	report_count_created      = "reconcile.created_entities"
	report_count_observations = "reconcile.observations"
)

// ErrDurability wraps every failure to persist a record.
var ErrDurability = errors.New("failed to persist snapshot")

// Reconciler writes batches into the store: one cryptocurrency per (name, symbol)
// and one market observation per record per batch.
//
// The lookup and the insert of a cryptocurrency are not atomic across processes, two
// reconcilers running against the same store at once can both create the same pair.
// That shows up as a reconcile.integrity warning on later runs.
type Reconciler struct {
	db  *sql.DB
	tel telemetry.API
}

func NewReconciler(database *sql.DB, tel telemetry.API) Reconciler {
	assert.NotNil(database)
	assert.NotNil(tel)
	return Reconciler{db: database, tel: tel}
}

func nullFloat(v market.Value[float64]) sql.NullFloat64 {
	n := v.Null()
	return sql.NullFloat64{Float64: n.V, Valid: n.Valid}
}

func nullInt(v market.Value[int64]) sql.NullInt64 {
	n := v.Null()
	return sql.NullInt64{Int64: n.V, Valid: n.Valid}
}

// Reconcile commits every record in its own transaction. A failing record does not
// undo the ones before it and does not stop the ones after it, every failure is
// joined into the returned error which wraps ErrDurability.
func (r Reconciler) Reconcile(ctx context.Context, batch market.Batch) error {
	ctx, span := tracer.Start(ctx, "Reconciler.Reconcile")
	defer span.End()
	span.SetAttributes(attribute.Int("records", len(batch.Coins)))

	conn, err := r.db.Conn(ctx)
	if err != nil {
		err = fmt.Errorf("%w: acquire connection: %w", ErrDurability, err)
		r.tel.ReportBroken(report_db_query, err)
		span.RecordError(err)
		span.SetStatus(codes.Error, "acquire connection failed")
		return err
	}
	defer conn.Close()

	makeTx := db.NewMakeTx(conn)
	timestamp := batch.Time.Unix()

	var created, observed int64
	var errlist []error
	for i, coin := range batch.Coins {
		rank := i + 1
		name, symbol, ok := coin.Key()
		if !ok {
			r.tel.ReportWarning(
				report_reconcile_unkeyed,
				fmt.Errorf("record has no name or symbol, skipping"),
				rank,
			)
			continue
		}

		isNew, err := r.reconcileRecord(ctx, makeTx, timestamp, name, symbol, coin)
		if err != nil {
			r.tel.ReportBroken(report_reconcile_record, err, rank, name, symbol)
			errlist = append(errlist, fmt.Errorf("rank %d (%s, %s): %w", rank, name, symbol, err))
			continue
		}
		if isNew {
			created++
		}
		observed++
	}

	r.tel.ReportCount(report_count_created, created)
	r.tel.ReportCount(report_count_observations, observed)

	if len(errlist) > 0 {
		err := fmt.Errorf("%w: %w", ErrDurability, errors.Join(errlist...))
		span.RecordError(err)
		span.SetStatus(codes.Error, fmt.Sprintf("%d records failed", len(errlist)))
		return err
	}
	return nil
}

func (r Reconciler) reconcileRecord(
	ctx context.Context,
	makeTx db.MakeTx,
	timestamp int64,
	name, symbol string,
	coin market.Coin,
) (created bool, err error) {
	tx, discard, commit, err := makeTx(ctx)
	if err != nil {
		return false, fmt.Errorf("begin tx: %w", err)
	}
	defer discard()

	matches, err := tx.FindCryptocurrencies(ctx, db.FindCryptocurrenciesParams{
		Name:   name,
		Symbol: symbol,
	})
	if err != nil {
		return false, fmt.Errorf("find cryptocurrency: %w", err)
	}

	var id int64
	switch {
	case len(matches) == 0:
		id, err = tx.CreateCryptocurrency(ctx, db.CreateCryptocurrencyParams{
			Name:   name,
			Symbol: symbol,
		})
		if err != nil {
			return false, fmt.Errorf("create cryptocurrency: %w", err)
		}
		created = true
	case len(matches) > 1:
		ids := make([]int64, len(matches))
		for i, m := range matches {
			ids[i] = m.ID
		}
		r.tel.ReportWarning(
			report_reconcile_integrity,
			fmt.Errorf("%d cryptocurrencies share the same name and symbol, using the first", len(matches)),
			name, symbol, ids,
		)
		id = matches[0].ID
	default:
		id = matches[0].ID
	}

	err = tx.CreateObservation(ctx, db.CreateObservationParams{
		Timestamp:         timestamp,
		Price:             nullFloat(coin.Price),
		Change24h:         nullFloat(coin.Change24h),
		Change7d:          nullFloat(coin.Change7d),
		MarketCap:         nullInt(coin.MarketCap),
		Volume24h:         nullInt(coin.Volume24h),
		CirculatingSupply: nullInt(coin.CirculatingSupply),
		CryptocurrencyID:  id,
	})
	if err != nil {
		return false, fmt.Errorf("create observation: %w", err)
	}

	err = commit()
	if err != nil {
		return false, fmt.Errorf("commit: %w", err)
	}
	return created, nil
}
