package commands

import (
	"fmt"

	"marketsnap/internal/db"
	"marketsnap/internal/snapshot"
	"marketsnap/lib/telemetry"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

var historyLimit int

func init() {
	historyCmd.Flags().IntVarP(&historyLimit, "limit", "n", 0, "Only shows the most recent n observations, 0 shows all of them.")
	rootCmd.AddCommand(historyCmd)
}

var historyCmd = &cobra.Command{
	Use:   "history <name | symbol>",
	Short: "Prints the recorded observations of a cryptocurrency.",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		cfg, err := loadConfig(configPath)
		if err != nil {
			return err
		}
		database, err := cfg.Database.OpenDB(db.Schema)
		if err != nil {
			return err
		}
		defer database.Close()

		store := snapshot.NewStore(database, telemetry.SlogAPI{})
		matches, err := store.Resolve(ctx, args[0])
		if err != nil {
			return err
		}
		if len(matches) == 0 {
			coins, err := store.Coins(ctx)
			if err != nil {
				return err
			}
			suggestion, ok := snapshot.Suggest(args[0], coins)
			if !ok {
				return fmt.Errorf("no cryptocurrency matches '%s'", args[0])
			}
			return fmt.Errorf(
				"no cryptocurrency matches '%s', did you mean '%s' (%s)?",
				args[0], suggestion.Name, suggestion.Symbol,
			)
		}

		for _, coin := range matches {
			observations, err := store.History(ctx, coin.ID)
			if err != nil {
				return err
			}
			if historyLimit > 0 && len(observations) > historyLimit {
				observations = observations[len(observations)-historyLimit:]
			}

			t := newTable()
			t.SetTitle(fmt.Sprintf("%s (%s)", coin.Name, coin.Symbol))
			t.AppendHeader(table.Row{
				"Time (UTC)", "Price", "24h %", "7d %", "Market cap", "Volume (24h)", "Circulating supply",
			})
			for _, o := range observations {
				t.AppendRow(table.Row{
					formatTime(o.Time),
					o.Price.String(),
					o.Change24h.String(),
					o.Change7d.String(),
					o.MarketCap.String(),
					o.Volume24h.String(),
					o.CirculatingSupply.String(),
				})
			}
			t.Render()
		}
		return nil
	},
}
