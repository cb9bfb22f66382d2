package services

import (
	"context"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"sales-dashboard/internal/datasource"
	"sales-dashboard/internal/models"
	"sales-dashboard/internal/observability"
)

const maxWorkers = 4

// Source supplies sale records for a query.
type Source interface {
	Fetch(ctx context.Context, q models.Query) ([]models.SaleRecord, error)
}

// StatsSource is implemented by sources that track upstream latency.
type StatsSource interface {
	Stats() datasource.LatencyStats
}

type DashboardRequest struct {
	Query models.Query
	// Sellers narrows the records before aggregation; nil keeps all.
	Sellers    []string
	TopSellers int
}

type RawRequest struct {
	Spec    models.FilterSpec
	Columns []string
}

type Dashboard struct {
	source  Source
	encoder *CSVEncoder
	logger  *slog.Logger
}

func NewDashboard(source Source, logger *slog.Logger) *Dashboard {
	return &Dashboard{
		source:  source,
		encoder: NewCSVEncoder(),
		logger:  logger,
	}
}

// Build fetches the records of req.Query and derives every dashboard table.
// req.TopSellers is used as given; callers apply DefaultTopSellers themselves.
func (d *Dashboard) Build(ctx context.Context, req DashboardRequest) (*models.DashboardView, error) {
	if err := validateTopSellers(req.TopSellers); err != nil {
		return nil, err
	}

	fetched, err := d.source.Fetch(ctx, req.Query)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	records := FilterSellers(fetched, req.Sellers)

	view := &models.DashboardView{
		Query:   req.Query,
		Sellers: distinct(fetched, func(r models.SaleRecord) string { return r.Seller }),
	}

	var g errgroup.Group
	g.SetLimit(maxWorkers)

	g.Go(func() error {
		view.Metrics = metrics(records)
		return nil
	})
	g.Go(func() error {
		view.RevenueByState = GeoJoin(records, Aggregate(records, models.DimensionState, models.ReducerSumPrice))
		view.TopStatesRevenue = view.RevenueByState.Head(DefaultTopStates)
		view.RevenueByMonth = Aggregate(records, models.DimensionMonth, models.ReducerSumPrice)
		view.RevenueByCategory = Aggregate(records, models.DimensionCategory, models.ReducerSumPrice)
		return nil
	})
	g.Go(func() error {
		view.SalesByState = GeoJoin(records, Aggregate(records, models.DimensionState, models.ReducerCountRows))
		view.TopStatesSales = view.SalesByState.Head(DefaultTopStates)
		view.SalesByMonth = Aggregate(records, models.DimensionMonth, models.ReducerCountRows)
		view.SalesByCategory = Aggregate(records, models.DimensionCategory, models.ReducerCountRows)
		return nil
	})
	g.Go(func() error {
		ranking, err := RankSellers(records, req.TopSellers)
		if err != nil {
			return err
		}
		view.SellerRanking = ranking
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}

	d.logger.Debug("dashboard built",
		"records", len(fetched),
		"filtered", len(records),
		"duration", time.Since(start),
		"request_id", observability.GetRequestID(ctx),
	)
	return view, nil
}

func metrics(records []models.SaleRecord) models.Metrics {
	var acc accumulator
	for _, rec := range records {
		acc.add(rec)
	}
	revenue := acc.sum.InexactFloat64()
	return models.Metrics{
		Revenue:      revenue,
		RevenueLabel: FormatNumber(revenue, CurrencyPrefix),
		Sales:        acc.count,
		SalesLabel:   FormatNumber(float64(acc.count), ""),
	}
}

// Raw fetches every record, applies req.Spec and projects the result onto
// req.Columns.
func (d *Dashboard) Raw(ctx context.Context, req RawRequest) (*models.RawView, error) {
	if err := req.Spec.Validate(); err != nil {
		return nil, err
	}

	fetched, err := d.source.Fetch(ctx, models.Query{})
	if err != nil {
		return nil, err
	}

	table, err := TableFromRecords(Apply(fetched, req.Spec), req.Columns)
	if err != nil {
		return nil, err
	}

	return &models.RawView{
		Options:     filterOptions(fetched),
		Table:       table,
		RowCount:    len(table.Rows),
		ColumnCount: len(table.Columns),
	}, nil
}

// Export returns the CSV encoding of the raw view selected by req.
func (d *Dashboard) Export(ctx context.Context, req RawRequest) ([]byte, error) {
	view, err := d.Raw(ctx, req)
	if err != nil {
		return nil, err
	}
	return d.encoder.Encode(view.Table)
}

func (d *Dashboard) Stats() map[string]any {
	stats := map[string]any{
		"export_cache": d.encoder.Stats(),
	}
	if s, ok := d.source.(StatsSource); ok {
		stats["data_source"] = s.Stats()
	}
	return stats
}

func filterOptions(records []models.SaleRecord) models.FilterOptions {
	opts := models.FilterOptions{
		Products:     distinct(records, func(r models.SaleRecord) string { return r.Product }),
		Categories:   distinct(records, func(r models.SaleRecord) string { return r.Category }),
		Sellers:      distinct(records, func(r models.SaleRecord) string { return r.Seller }),
		States:       distinct(records, func(r models.SaleRecord) string { return r.State }),
		PaymentTypes: distinct(records, func(r models.SaleRecord) string { return r.PaymentType }),
	}
	for i, rec := range records {
		if i == 0 || rec.PurchaseDate.Before(opts.FirstDate) {
			opts.FirstDate = rec.PurchaseDate
		}
		if i == 0 || rec.PurchaseDate.After(opts.LastDate) {
			opts.LastDate = rec.PurchaseDate
		}
	}
	return opts
}

// distinct returns the values of field in first-seen order.
func distinct(records []models.SaleRecord, field func(models.SaleRecord) string) []string {
	seen := make(map[string]bool)
	out := []string{}
	for _, rec := range records {
		v := field(rec)
		if !seen[v] {
			seen[v] = true
			out = append(out, v)
		}
	}
	return out
}
