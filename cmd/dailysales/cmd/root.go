package cmd

import (
	"context"
	"fmt"
	"os"

	"salespipe-backend/lib/configutil"
	"salespipe-backend/lib/osutil"
	"salespipe-backend/lib/telemetry"
	"salespipe-backend/services/dailysales"
	"salespipe-backend/services/dailysales/db"

	"github.com/spf13/cobra"
)

var configFile string

var rootCmd = &cobra.Command{
	Use:   "dailysales",
	Short: "dailysales collects sales and ad spend from the retailer consoles and fills the daily report spreadsheet.",
}

func init() {
	rootCmd.PersistentFlags().StringVar(
		&configFile, "config", "config.json5", "path to the config file",
	)
	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(historyCmd)
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func loadConfig() dailysales.Config {
	config, err := configutil.ReadConfig[dailysales.Config](configFile)
	if err != nil {
		osutil.Fatal("failed to read config", err)
	}
	if config.Interpreter == "" {
		config.Interpreter = "python"
	}
	err = config.Validate()
	if err != nil {
		osutil.Fatal("invalid config", err)
	}
	return config
}

// openHistory opens the run history database, nil when none is
// configured.
func openHistory(config dailysales.Config) *db.Queries {
	if config.Database.File == "" && config.Database.Url == "" {
		return nil
	}
	sqlite, err := config.Database.OpenDB(db.Schema)
	if err != nil {
		osutil.Fatal("failed to open database", err)
	}
	return db.New(sqlite)
}

// setupTelemetry initializes slog and, when a telemetry.json5 is
// around, the otlp exporters. Missing telemetry config is fine, the
// pipeline mostly runs off a task scheduler with no collector.
func setupTelemetry(ctx context.Context, serviceName string) func() {
	telemetry.InitSlog(false)
	tel, err := telemetry.SetupFromEnv(ctx, serviceName)
	if os.IsNotExist(err) {
		return func() {}
	}
	if err != nil {
		osutil.Fatal("failed to setup telemetry", err)
	}
	telemetry.InstrumentPerfStats(ctx)
	return func() {
		tel.Shutdown(context.Background())
	}
}
