package commands

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"time"

	"marketsnap/lib/telemetry"
	"marketsnap/lib/util/serviceutil"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var (
	configPath string
	verbose    bool
)

var rootCmd = &cobra.Command{
	Use:          "marketsnap",
	Short:        "marketsnap takes snapshots of the top cryptocurrencies listed on coinmarketcap.",
	SilenceUsage: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		telemetry.InitSlog(verbose)

		err := godotenv.Load()
		if err != nil && !os.IsNotExist(err) {
			slog.Warn("failed to load .env", "err", err)
		}

		err = telemetry.SetupFromEnv(cmd.Context(), "marketsnap")
		if errors.Is(err, telemetry.ErrNotConfigured) {
			slog.Debug("no telemetry.json5 found, tracing is disabled")
			return
		}
		if err != nil {
			slog.Warn("failed to setup telemetry", "err", err)
		}
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "config.json5", "The configuration file to read.")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enables debug logging.")
}

func shutdownTelemetry() {
	ctx, cancel := context.WithTimeout(context.Background(), time.Second*10)
	defer cancel()
	err := telemetry.Shutdown(ctx)
	if err != nil {
		slog.Warn("failed to flush telemetry", "err", err)
	}
}

// flushTelemetry runs once the command returns, failed or not.
var flushTelemetry = shutdownTelemetry

func execute(ctx context.Context, args []string) error {
	defer flushTelemetry()
	rootCmd.SetArgs(args)
	return rootCmd.ExecuteContext(ctx)
}

func ExecuteContext(ctx context.Context) {
	err := execute(ctx, os.Args[1:])
	if err != nil {
		serviceutil.Fatal("marketsnap failed", err)
	}
}
