package commands

import (
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(scrapeCmd)
}

var scrapeCmd = &cobra.Command{
	Use:   "scrape",
	Short: "Takes a single snapshot of the listing and exits.",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(configPath)
		if err != nil {
			return err
		}

		p, cleanup, err := newPipeline(cmd.Context(), cfg)
		if err != nil {
			return err
		}
		defer cleanup()

		return p.run(cmd.Context())
	},
}
