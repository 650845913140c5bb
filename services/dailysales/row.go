package dailysales

import (
	"context"
	"fmt"
	"strings"
)

// maxChannelPairs bounds the sales channels per brand: each channel
// takes a (sales, orders) column pair and only B-G is reserved.
const maxChannelPairs = 3

// adSpendCol..adPurchasesCol hold the ad channel pair, leaving H-I
// free for the sheet's own formulas.
const (
	adSpendCol     = "J"
	adPurchasesCol = "K"
)

// Worksheet is the slice of the sheets client the writer needs.
type Worksheet interface {
	Title() string
	ColValues(ctx context.Context, col string) ([]string, error)
	Update(ctx context.Context, ref string, values []any) error
	AppendRow(ctx context.Context, values []any) error
}

// findOrCreateRow resolves the 1-based row for a date in column A,
// appending a new row holding just the date when none matches. Dates
// compare trimmed and exact, the sheet may hold them as text or as a
// date-formatted cell rendering to the same yyyy-mm-dd string.
func findOrCreateRow(ctx context.Context, ws Worksheet, date string) (int, error) {
	dates, err := ws.ColValues(ctx, "A")
	if err != nil {
		return 0, fmt.Errorf("read date column of %s: %w", ws.Title(), err)
	}
	for i, cell := range dates {
		if strings.TrimSpace(cell) == date {
			return i + 1, nil
		}
	}
	err = ws.AppendRow(ctx, []any{date})
	if err != nil {
		return 0, fmt.Errorf("append date row to %s: %w", ws.Title(), err)
	}
	return len(dates) + 1, nil
}

// writeMetricsRow writes the B-G sales block for one row. The slice
// follows the brand's channel order, a nil entry means the channel
// does not apply to the brand and both cells stay empty. Absent is not
// zero, a blank cell and a 0 read differently on the sheet.
func writeMetricsRow(ctx context.Context, ws Worksheet, row int, metrics []*DailyMetrics) error {
	values := make([]any, 0, maxChannelPairs*2)
	for i := 0; i < maxChannelPairs; i++ {
		if i < len(metrics) && metrics[i] != nil {
			values = append(values, metrics[i].Sales, metrics[i].Orders)
		} else {
			values = append(values, "", "")
		}
	}
	ref := fmt.Sprintf("B%d:G%d", row, row)
	err := ws.Update(ctx, ref, values)
	if err != nil {
		return fmt.Errorf("write sales block %s of %s: %w", ref, ws.Title(), err)
	}
	return nil
}

// writeAdMetricsRow writes the J-K ad block for one row.
func writeAdMetricsRow(ctx context.Context, ws Worksheet, row int, metrics AdMetrics) error {
	ref := fmt.Sprintf("%s%d:%s%d", adSpendCol, row, adPurchasesCol, row)
	err := ws.Update(ctx, ref, []any{metrics.Spend, metrics.Purchases})
	if err != nil {
		return fmt.Errorf("write ad block %s of %s: %w", ref, ws.Title(), err)
	}
	return nil
}
