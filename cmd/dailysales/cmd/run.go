package cmd

import (
	"log/slog"
	"os"

	"salespipe-backend/lib/osutil"
	"salespipe-backend/lib/runner"
	"salespipe-backend/lib/sheets"
	"salespipe-backend/lib/timezone"
	"salespipe-backend/services/dailysales"

	"github.com/spf13/cobra"
)

var runDate string

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Collect every channel and fill the report for one date.",
	Run: func(cmd *cobra.Command, args []string) {
		ctx := osutil.SignalContext()
		shutdown := setupTelemetry(ctx, "dailysales")
		defer shutdown()

		config := loadConfig()

		client, err := sheets.NewClient(ctx, config.ResolveCredentialsFile())
		if err != nil {
			osutil.Fatal("failed to authorize against google sheets", err)
		}

		svc, err := dailysales.NewService(
			config,
			runner.Runner{
				Interpreter: config.Interpreter,
				TempDir:     config.TempDir,
			},
			spreadsheet{client.Spreadsheet(config.Spreadsheet)},
			openHistory(config),
		)
		if err != nil {
			osutil.Fatal("failed to initialize service", err)
		}

		date := runDate
		if date == "" {
			date = timezone.Yesterday()
		}
		err = svc.Run(ctx, date)
		if err != nil {
			slog.ErrorContext(ctx, "daily sales run failed", "err", err)
			mailErr := dailysales.SendFailureEmail(ctx, config.Smtp, date, err)
			if mailErr != nil {
				slog.ErrorContext(ctx, "failure email not sent", "err", mailErr)
			}
			shutdown()
			os.Exit(1)
		}
	},
}

func init() {
	runCmd.Flags().StringVar(
		&runDate, "date", "",
		"date to collect as yyyy-mm-dd, defaults to yesterday in KST",
	)
}

type spreadsheet struct {
	inner sheets.Spreadsheet
}

func (s spreadsheet) Worksheet(title string) dailysales.Worksheet {
	return s.inner.Worksheet(title)
}
