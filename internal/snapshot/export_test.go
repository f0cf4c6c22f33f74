package snapshot

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"marketsnap/internal/market"

	"github.com/stretchr/testify/require"
)

func TestExportCSV(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "snapshots")

	partial := market.Coin{
		Name:   market.Some("Tether, USD"),
		Symbol: market.Some("USDT"),
		Price:  market.Some(1.0),
	}
	batch := market.Batch{
		Time:  time.Date(2024, 5, 1, 12, 30, 5, 0, time.UTC),
		Coins: []market.Coin{coin("Bitcoin", "BTC", 45000.12), partial},
	}

	path, err := ExportCSV(dir, batch)
	if err != nil {
		t.Fatal(err)
	}
	require.Equal(t, filepath.Join(dir, "coins-20240501T123005Z.csv"), path)

	contents, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	require.Equal(t,
		"name,symbol,price,change24h,change7d,market_cap,volume24h,circulating_supply\n"+
			"Bitcoin,BTC,45000.12,2.34,-1.2,850210000000,32000000000,19000000\n"+
			"\"Tether, USD\",USDT,1,None,None,None,None,None\n",
		string(contents),
	)
}
