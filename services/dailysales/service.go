package dailysales

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"salespipe-backend/lib/timezone"
	"salespipe-backend/services/dailysales/db"

	"github.com/mazen160/go-random"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
)

var tracer = otel.Tracer("services/dailysales")

// Invoker runs one scraper script and yields the object it printed.
type Invoker interface {
	Run(ctx context.Context, script string, args ...string) (map[string]any, error)
}

// Spreadsheet hands out worksheets by title.
type Spreadsheet interface {
	Worksheet(title string) Worksheet
}

type Service struct {
	config  Config
	invoker Invoker
	sheet   Spreadsheet
	qry     *db.Queries
	runID   string
}

// NewService wires a run of the daily pipeline. qry may be nil when no
// run history database is configured.
func NewService(config Config, invoker Invoker, sheet Spreadsheet, qry *db.Queries) (*Service, error) {
	err := config.Validate()
	if err != nil {
		return nil, err
	}
	runID, err := random.String(8)
	if err != nil {
		return nil, fmt.Errorf("generate run id: %w", err)
	}
	return &Service{
		config:  config,
		invoker: invoker,
		sheet:   sheet,
		qry:     qry,
		runID:   runID,
	}, nil
}

// brandDay accumulates everything collected for one brand before the
// sheet is touched, so a scraper failure aborts the run with no brand
// half-written.
type brandDay struct {
	brand   BrandConfig
	metrics []*DailyMetrics
	ads     *AdMetrics
}

// Run collects every configured channel for the date and writes each
// brand's row. date defaults to yesterday in KST, the day whose sales
// are complete. Channels run sequentially, the consoles rate-limit
// logins and the nightly schedule has no deadline worth racing.
func (s *Service) Run(ctx context.Context, date string) error {
	ctx, span := tracer.Start(ctx, "Run")
	defer span.End()

	if date == "" {
		date = timezone.Yesterday()
	}
	slog.InfoContext(ctx, "daily sales run", "run_id", s.runID, "date", date)

	days := make([]*brandDay, len(s.config.Brands))
	for i, brand := range s.config.Brands {
		days[i] = &brandDay{
			brand:   brand,
			metrics: make([]*DailyMetrics, len(brand.Channels)),
		}
	}

	for _, channel := range s.config.SalesChannels {
		err := s.collectChannel(ctx, channel, date, days)
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, "channel collection failed")
			return fmt.Errorf("collect %s: %w", channel.Name, err)
		}
	}
	if s.config.AdsChannel != nil {
		err := s.collectAds(ctx, *s.config.AdsChannel, date, days)
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, "ads collection failed")
			return fmt.Errorf("collect %s: %w", s.config.AdsChannel.Name, err)
		}
	}

	for _, day := range days {
		err := s.writeBrand(ctx, date, day)
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, "worksheet write failed")
			return fmt.Errorf("write brand %s: %w", day.brand.Key, err)
		}
	}
	return nil
}

// collectChannel fills the channel's metric slot of every brand that
// uses it. Per-brand channels run once per brand with its profile,
// multi-brand channels run once and the payload is split afterwards.
func (s *Service) collectChannel(ctx context.Context, channel ChannelConfig, date string, days []*brandDay) error {
	ctx, span := tracer.Start(ctx, "collectChannel")
	defer span.End()

	if channel.PerBrand {
		for _, day := range days {
			slot := day.channelSlot(channel.Name)
			if slot < 0 {
				continue
			}
			args := append([]string{"--profile", day.brand.Key, "--date", date}, channel.Args...)
			payload, err := s.invoker.Run(ctx, channel.Script, args...)
			if err != nil {
				return err
			}
			metrics := MetricsFromSimple(payload)
			day.metrics[slot] = &metrics
			s.recordSales(ctx, date, day.brand.Key, channel.Name, metrics)
		}
		return nil
	}

	args := append([]string{"--date", date}, channel.Args...)
	payload, err := s.invoker.Run(ctx, channel.Script, args...)
	if err != nil {
		return err
	}
	for _, day := range days {
		slot := day.channelSlot(channel.Name)
		if slot < 0 {
			continue
		}
		metrics := MetricsForBrand(payload, day.brand.Brand())
		day.metrics[slot] = &metrics
		s.recordSales(ctx, date, day.brand.Key, channel.Name, metrics)
	}
	return nil
}

func (s *Service) collectAds(ctx context.Context, channel ChannelConfig, date string, days []*brandDay) error {
	ctx, span := tracer.Start(ctx, "collectAds")
	defer span.End()

	args := append([]string{"--date", date}, channel.Args...)
	payload, err := s.invoker.Run(ctx, channel.Script, args...)
	if err != nil {
		return err
	}
	for _, day := range days {
		if !day.brand.Ads {
			continue
		}
		metrics := AdMetricsForBrand(payload, day.brand.Brand())
		day.ads = &metrics
		s.recordAds(ctx, date, day.brand.Key, channel.Name, metrics)
	}
	return nil
}

// writeBrand resolves the date row on the brand's worksheet and writes
// the sales block plus, when the brand advertises, the ad block.
func (s *Service) writeBrand(ctx context.Context, date string, day *brandDay) error {
	ctx, span := tracer.Start(ctx, "writeBrand")
	defer span.End()

	ws := s.sheet.Worksheet(day.brand.Worksheet)
	row, err := findOrCreateRow(ctx, ws, date)
	if err != nil {
		return err
	}
	slog.InfoContext(
		ctx, "write brand row",
		"brand", day.brand.Key,
		"worksheet", day.brand.Worksheet,
		"row", row,
	)

	err = writeMetricsRow(ctx, ws, row, day.metrics)
	if err != nil {
		return err
	}
	if day.ads != nil {
		err = writeAdMetricsRow(ctx, ws, row, *day.ads)
		if err != nil {
			return err
		}
	}
	return nil
}

func (d *brandDay) channelSlot(name string) int {
	for i, ch := range d.brand.Channels {
		if ch == name {
			return i
		}
	}
	return -1
}

// recordSales appends the run history row. History is best effort, a
// failed insert logs and never fails the run.
func (s *Service) recordSales(ctx context.Context, date, brand, channel string, m DailyMetrics) {
	if s.qry == nil {
		return
	}
	err := s.qry.CreateRecord(ctx, db.CreateRecordParams{
		RunID:      s.runID,
		Date:       date,
		Brand:      brand,
		Channel:    channel,
		Sales:      sql.NullInt64{Int64: int64(m.Sales), Valid: true},
		Orders:     sql.NullInt64{Int64: int64(m.Orders), Valid: true},
		RecordedAt: time.Now().Unix(),
	})
	if err != nil {
		slog.WarnContext(ctx, "record run history", "err", err)
	}
}

func (s *Service) recordAds(ctx context.Context, date, brand, channel string, m AdMetrics) {
	if s.qry == nil {
		return
	}
	err := s.qry.CreateRecord(ctx, db.CreateRecordParams{
		RunID:      s.runID,
		Date:       date,
		Brand:      brand,
		Channel:    channel,
		Spend:      sql.NullInt64{Int64: int64(m.Spend), Valid: true},
		Purchases:  sql.NullInt64{Int64: int64(m.Purchases), Valid: true},
		RecordedAt: time.Now().Unix(),
	})
	if err != nil {
		slog.WarnContext(ctx, "record run history", "err", err)
	}
}
