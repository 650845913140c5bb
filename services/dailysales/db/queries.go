package db

import (
	"context"
	"database/sql"
)

type Queries struct {
	db *sql.DB
}

func New(db *sql.DB) *Queries {
	return &Queries{db: db}
}

// Record is what one channel wrote for one brand on one date. Metric
// columns are nullable, a channel that does not apply to a brand
// records NULL, never 0.
type Record struct {
	ID         int64
	RunID      string
	Date       string
	Brand      string
	Channel    string
	Sales      sql.NullInt64
	Orders     sql.NullInt64
	Spend      sql.NullInt64
	Purchases  sql.NullInt64
	RecordedAt int64
}

type CreateRecordParams struct {
	RunID      string
	Date       string
	Brand      string
	Channel    string
	Sales      sql.NullInt64
	Orders     sql.NullInt64
	Spend      sql.NullInt64
	Purchases  sql.NullInt64
	RecordedAt int64
}

func (q *Queries) CreateRecord(ctx context.Context, params CreateRecordParams) error {
	_, err := q.db.ExecContext(
		ctx,
		`INSERT INTO run_record
		(run_id, date, brand, channel, sales, orders, spend, purchases, recorded_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		params.RunID,
		params.Date,
		params.Brand,
		params.Channel,
		params.Sales,
		params.Orders,
		params.Spend,
		params.Purchases,
		params.RecordedAt,
	)
	return err
}

func (q *Queries) GetRecordsByDate(ctx context.Context, date string) ([]Record, error) {
	rows, err := q.db.QueryContext(
		ctx,
		`SELECT id, run_id, date, brand, channel, sales, orders, spend, purchases, recorded_at
		FROM run_record WHERE date = ? ORDER BY id`,
		date,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanRecords(rows)
}

func (q *Queries) GetRecentRecords(ctx context.Context, limit int64) ([]Record, error) {
	rows, err := q.db.QueryContext(
		ctx,
		`SELECT id, run_id, date, brand, channel, sales, orders, spend, purchases, recorded_at
		FROM run_record ORDER BY id DESC LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanRecords(rows)
}

func scanRecords(rows *sql.Rows) ([]Record, error) {
	var records []Record
	for rows.Next() {
		var r Record
		err := rows.Scan(
			&r.ID,
			&r.RunID,
			&r.Date,
			&r.Brand,
			&r.Channel,
			&r.Sales,
			&r.Orders,
			&r.Spend,
			&r.Purchases,
			&r.RecordedAt,
		)
		if err != nil {
			return nil, err
		}
		records = append(records, r)
	}
	return records, rows.Err()
}
