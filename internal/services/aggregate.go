package services

import (
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"sales-dashboard/internal/errors"
	"sales-dashboard/internal/models"
)

const (
	MinTopSellers     = 2
	MaxTopSellers     = 10
	DefaultTopSellers = 5
	DefaultTopStates  = 5
)

type accumulator struct {
	sum   decimal.Decimal
	count int
}

func (a *accumulator) add(rec models.SaleRecord) {
	a.sum = a.sum.Add(rec.Price)
	a.count++
}

func (a accumulator) reduce(r models.Reducer) float64 {
	if r == models.ReducerCountRows {
		return float64(a.count)
	}
	return a.sum.InexactFloat64()
}

// Aggregate groups records on one dimension and reduces every group.
// Month tables are chronological and include empty months between the
// first and last sale; every other table is sorted by value descending,
// ties keeping ascending key order.
func Aggregate(records []models.SaleRecord, dim models.Dimension, reducer models.Reducer) models.AggregateTable {
	table := models.AggregateTable{Dimension: dim, Reducer: reducer, Rows: []models.AggregateRow{}}

	if dim == models.DimensionMonth {
		table.Rows = aggregateMonths(records, reducer)
		return table
	}

	groups := make(map[string]*accumulator)
	for _, rec := range records {
		key := dimensionKey(rec, dim)
		acc, ok := groups[key]
		if !ok {
			acc = &accumulator{}
			groups[key] = acc
		}
		acc.add(rec)
	}

	keys := make([]string, 0, len(groups))
	for k := range groups {
		keys = append(keys, k)
	}
	slices.Sort(keys)

	for _, k := range keys {
		table.Rows = append(table.Rows, models.AggregateRow{Key: k, Value: groups[k].reduce(reducer)})
	}
	slices.SortStableFunc(table.Rows, func(a, b models.AggregateRow) int {
		return descending(a.Value, b.Value)
	})
	return table
}

func dimensionKey(rec models.SaleRecord, dim models.Dimension) string {
	switch dim {
	case models.DimensionState:
		return rec.State
	case models.DimensionCategory:
		return rec.Category
	case models.DimensionSeller:
		return rec.Seller
	default:
		panic(fmt.Sprintf("services: unsupported dimension %q", dim))
	}
}

// monthEnd returns the last day of the month containing t.
func monthEnd(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month()+1, 0, 0, 0, 0, 0, time.UTC)
}

func aggregateMonths(records []models.SaleRecord, reducer models.Reducer) []models.AggregateRow {
	if len(records) == 0 {
		return []models.AggregateRow{}
	}

	buckets := make(map[time.Time]*accumulator)
	first, last := monthEnd(records[0].PurchaseDate), monthEnd(records[0].PurchaseDate)
	for _, rec := range records {
		end := monthEnd(rec.PurchaseDate)
		acc, ok := buckets[end]
		if !ok {
			acc = &accumulator{}
			buckets[end] = acc
		}
		acc.add(rec)
		if end.Before(first) {
			first = end
		}
		if end.After(last) {
			last = end
		}
	}

	var rows []models.AggregateRow
	for start := firstOfMonth(first); !start.After(last); start = start.AddDate(0, 1, 0) {
		end := monthEnd(start)
		var acc accumulator
		if b, ok := buckets[end]; ok {
			acc = *b
		}
		rows = append(rows, models.AggregateRow{
			Key:      end.Format(time.DateOnly),
			Value:    acc.reduce(reducer),
			MonthEnd: end,
			Month:    end.Month().String(),
			Year:     end.Year(),
		})
	}
	return rows
}

func firstOfMonth(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
}

// GeoJoin attaches to every state of table the coordinates of its first
// record. States with no record are dropped; row order is preserved.
func GeoJoin(records []models.SaleRecord, table models.AggregateTable) models.GeoTable {
	type coord struct{ lat, lon float64 }
	coords := make(map[string]coord)
	for _, rec := range records {
		if _, seen := coords[rec.State]; !seen {
			coords[rec.State] = coord{rec.Lat, rec.Lon}
		}
	}

	out := models.GeoTable{Reducer: table.Reducer, Rows: make([]models.GeoRow, 0, len(table.Rows))}
	for _, row := range table.Rows {
		c, ok := coords[row.Key]
		if !ok {
			continue
		}
		out.Rows = append(out.Rows, models.GeoRow{State: row.Key, Lat: c.lat, Lon: c.lon, Value: row.Value})
	}
	return out
}

// RankSellers computes revenue and sale count per seller in one pass and
// returns the top n sellers by each metric.
func RankSellers(records []models.SaleRecord, n int) (models.SellerRanking, error) {
	if err := validateTopSellers(n); err != nil {
		return models.SellerRanking{}, err
	}

	groups := make(map[string]*accumulator)
	for _, rec := range records {
		acc, ok := groups[rec.Seller]
		if !ok {
			acc = &accumulator{}
			groups[rec.Seller] = acc
		}
		acc.add(rec)
	}

	stats := make([]models.SellerStats, 0, len(groups))
	for seller, acc := range groups {
		stats = append(stats, models.SellerStats{
			Seller:  seller,
			Revenue: acc.sum.InexactFloat64(),
			Sales:   acc.count,
		})
	}
	slices.SortFunc(stats, func(a, b models.SellerStats) int {
		return strings.Compare(a.Seller, b.Seller)
	})

	byRevenue := slices.Clone(stats)
	slices.SortStableFunc(byRevenue, func(a, b models.SellerStats) int {
		return descending(a.Revenue, b.Revenue)
	})
	bySales := slices.Clone(stats)
	slices.SortStableFunc(bySales, func(a, b models.SellerStats) int {
		return descending(float64(a.Sales), float64(b.Sales))
	})

	return models.SellerRanking{
		N:         n,
		ByRevenue: head(byRevenue, n),
		BySales:   head(bySales, n),
	}, nil
}

func validateTopSellers(n int) error {
	if n < MinTopSellers || n > MaxTopSellers {
		return errors.Validation(
			fmt.Sprintf("seller count must be between %d and %d, got %d", MinTopSellers, MaxTopSellers, n))
	}
	return nil
}

func head[T any](s []T, n int) []T {
	if n < len(s) {
		return s[:n]
	}
	return s
}

func descending(a, b float64) int {
	switch {
	case a > b:
		return -1
	case a < b:
		return 1
	default:
		return 0
	}
}
