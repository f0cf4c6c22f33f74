package snapshot

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"marketsnap/internal/assert"
	"marketsnap/internal/db"
	"marketsnap/internal/market"
	"marketsnap/lib/telemetry"
	"marketsnap/lib/textutil"

	"github.com/antzucaro/matchr"
)

// Store reads back what the Reconciler wrote.
type Store struct {
	qry *db.Queries
	tel telemetry.API
}

func NewStore(database *sql.DB, tel telemetry.API) Store {
	assert.NotNil(database)
	assert.NotNil(tel)
	return Store{qry: db.New(database), tel: tel}
}

type CoinSummary struct {
	ID           int64
	Name         string
	Symbol       string
	Observations int64
	// LastSeen is the zero time if the coin has never been observed.
	LastSeen time.Time
}

type Observation struct {
	Time              time.Time
	Price             market.Value[float64]
	Change24h         market.Value[float64]
	Change7d          market.Value[float64]
	MarketCap         market.Value[int64]
	Volume24h         market.Value[int64]
	CirculatingSupply market.Value[int64]
}

func fromNullFloat(n sql.NullFloat64) market.Value[float64] {
	return market.FromNull(sql.Null[float64]{V: n.Float64, Valid: n.Valid})
}

func fromNullInt(n sql.NullInt64) market.Value[int64] {
	return market.FromNull(sql.Null[int64]{V: n.Int64, Valid: n.Valid})
}

func (s Store) Coins(ctx context.Context) ([]CoinSummary, error) {
	rows, err := s.qry.ListCryptocurrencies(ctx)
	if err != nil {
		s.tel.ReportBroken(report_db_query, err, "ListCryptocurrencies")
		return nil, err
	}
	out := make([]CoinSummary, len(rows))
	for i, r := range rows {
		out[i] = CoinSummary{
			ID:           r.ID,
			Name:         r.Name,
			Symbol:       r.Symbol,
			Observations: r.Observations,
		}
		if r.LastSeen.Valid {
			out[i].LastSeen = time.Unix(r.LastSeen.Int64, 0).UTC()
		}
	}
	return out, nil
}

// Resolve finds the coins whose name or symbol equals `query`, ignoring case and whitespace.
func (s Store) Resolve(ctx context.Context, query string) ([]CoinSummary, error) {
	coins, err := s.Coins(ctx)
	if err != nil {
		return nil, err
	}
	normalized := textutil.NormalizeName(query)

	var out []CoinSummary
	for _, c := range coins {
		if textutil.NormalizeName(c.Name) == normalized ||
			textutil.NormalizeName(c.Symbol) == normalized {
			out = append(out, c)
		}
	}
	return out, nil
}

// History returns every observation of a coin, oldest first.
func (s Store) History(ctx context.Context, coinId int64) ([]Observation, error) {
	rows, err := s.qry.GetObservations(ctx, coinId)
	if err != nil {
		s.tel.ReportBroken(report_db_query, err, "GetObservations", coinId)
		return nil, fmt.Errorf("get observations: %w", err)
	}
	out := make([]Observation, len(rows))
	for i, r := range rows {
		out[i] = Observation{
			Time:              time.Unix(r.Timestamp, 0).UTC(),
			Price:             fromNullFloat(r.Price),
			Change24h:         fromNullFloat(r.Change24h),
			Change7d:          fromNullFloat(r.Change7d),
			MarketCap:         fromNullInt(r.MarketCap),
			Volume24h:         fromNullInt(r.Volume24h),
			CirculatingSupply: fromNullInt(r.CirculatingSupply),
		}
	}
	return out, nil
}

// Suggest returns the coin whose name or symbol is the most similar to `query`.
// ok is false if nothing is similar at all.
func Suggest(query string, coins []CoinSummary) (suggestion CoinSummary, ok bool) {
	normalized := textutil.NormalizeName(query)

	var mostSimilarity float64
	for _, c := range coins {
		for _, candidate := range []string{c.Name, c.Symbol} {
			similarity := matchr.JaroWinkler(normalized, textutil.NormalizeName(candidate), false)
			if similarity > mostSimilarity {
				mostSimilarity = similarity
				suggestion = c
			}
		}
	}
	return suggestion, mostSimilarity > 0
}
