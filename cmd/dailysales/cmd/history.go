package cmd

import (
	"database/sql"
	"log"
	"os"
	"time"

	"salespipe-backend/lib/osutil"
	"salespipe-backend/services/dailysales/db"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

var (
	historyDate  string
	historyLimit int64
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Prints what past runs recorded, per brand and channel.",
	Run: func(cmd *cobra.Command, args []string) {
		ctx := osutil.SignalContext()
		config := loadConfig()

		qry := openHistory(config)
		if qry == nil {
			log.Fatal("no run history database is configured")
		}

		var records []db.Record
		var err error
		if historyDate != "" {
			records, err = qry.GetRecordsByDate(ctx, historyDate)
		} else {
			records, err = qry.GetRecentRecords(ctx, historyLimit)
		}
		if err != nil {
			log.Fatal(err)
		}

		t := table.NewWriter()
		t.SetStyle(table.StyleRounded)
		t.SetOutputMirror(os.Stdout)
		t.AppendHeader(table.Row{
			"Run", "Date", "Brand", "Channel",
			"Sales", "Orders", "Spend", "Purchases", "Recorded at",
		})
		for _, r := range records {
			t.AppendRow(table.Row{
				r.RunID, r.Date, r.Brand, r.Channel,
				nullCell(r.Sales),
				nullCell(r.Orders),
				nullCell(r.Spend),
				nullCell(r.Purchases),
				time.Unix(r.RecordedAt, 0).Format(time.DateTime),
			})
		}
		t.Render()
	},
}

func nullCell(v sql.NullInt64) any {
	if !v.Valid {
		return ""
	}
	return v.Int64
}

func init() {
	historyCmd.Flags().StringVar(
		&historyDate, "date", "", "only show records for this yyyy-mm-dd date",
	)
	historyCmd.Flags().Int64Var(
		&historyLimit, "limit", 50, "how many recent records to show",
	)
}
