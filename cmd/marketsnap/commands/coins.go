package commands

import (
	"marketsnap/internal/db"
	"marketsnap/internal/snapshot"
	"marketsnap/lib/telemetry"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(coinsCmd)
}

var coinsCmd = &cobra.Command{
	Use:   "coins",
	Short: "Lists every cryptocurrency that has been recorded.",
	RunE: func(cmd *cobra.Command, args []string) error {
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
		coins, err := store.Coins(cmd.Context())
		if err != nil {
			return err
		}

		t := newTable()
		t.AppendHeader(table.Row{"ID", "Name", "Symbol", "Observations", "Last seen (UTC)"})
		for _, c := range coins {
			t.AppendRow(table.Row{c.ID, c.Name, c.Symbol, c.Observations, formatTime(c.LastSeen)})
		}
		t.Render()
		return nil
	},
}
