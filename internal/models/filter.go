package models

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"sales-dashboard/internal/errors"
)

type DecimalRange struct {
	Min decimal.Decimal `json:"min"`
	Max decimal.Decimal `json:"max"`
}

func (r DecimalRange) Contains(v decimal.Decimal) bool {
	return v.GreaterThanOrEqual(r.Min) && v.LessThanOrEqual(r.Max)
}

type IntRange struct {
	Min int `json:"min"`
	Max int `json:"max"`
}

func (r IntRange) Contains(v int) bool {
	return v >= r.Min && v <= r.Max
}

// DateRange bounds are compared at day granularity.
type DateRange struct {
	Min time.Time `json:"min"`
	Max time.Time `json:"max"`
}

func (r DateRange) Contains(t time.Time) bool {
	day := truncateDay(t)
	return !day.Before(truncateDay(r.Min)) && !day.After(truncateDay(r.Max))
}

func truncateDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// FilterSpec restricts a record set. A nil slice or range leaves its
// dimension unrestricted; a non-nil empty slice matches nothing.
type FilterSpec struct {
	Products     []string      `json:"products,omitempty"`
	Categories   []string      `json:"categories,omitempty"`
	Price        *DecimalRange `json:"price,omitempty"`
	Freight      *DecimalRange `json:"freight,omitempty"`
	Date         *DateRange    `json:"date,omitempty"`
	Sellers      []string      `json:"sellers,omitempty"`
	States       []string      `json:"states,omitempty"`
	Rating       *IntRange     `json:"rating,omitempty"`
	PaymentTypes []string      `json:"payment_types,omitempty"`
	Installments *IntRange     `json:"installments,omitempty"`
}

func (f FilterSpec) IsEmpty() bool {
	return f.Products == nil && f.Categories == nil && f.Sellers == nil &&
		f.States == nil && f.PaymentTypes == nil &&
		f.Price == nil && f.Freight == nil && f.Date == nil &&
		f.Rating == nil && f.Installments == nil
}

// Validate rejects inverted range bounds.
func (f FilterSpec) Validate() error {
	if f.Price != nil && f.Price.Min.GreaterThan(f.Price.Max) {
		return invertedRange(ColumnPrice, f.Price.Min.String(), f.Price.Max.String())
	}
	if f.Freight != nil && f.Freight.Min.GreaterThan(f.Freight.Max) {
		return invertedRange(ColumnFreight, f.Freight.Min.String(), f.Freight.Max.String())
	}
	if f.Date != nil && truncateDay(f.Date.Min).After(truncateDay(f.Date.Max)) {
		return invertedRange(ColumnPurchaseDate, f.Date.Min.Format(time.DateOnly), f.Date.Max.Format(time.DateOnly))
	}
	if f.Rating != nil && f.Rating.Min > f.Rating.Max {
		return invertedRange(ColumnRating, fmt.Sprint(f.Rating.Min), fmt.Sprint(f.Rating.Max))
	}
	if f.Installments != nil && f.Installments.Min > f.Installments.Max {
		return invertedRange(ColumnInstallments, fmt.Sprint(f.Installments.Min), fmt.Sprint(f.Installments.Max))
	}
	return nil
}

func invertedRange(column, lo, hi string) error {
	return errors.FilterConstruction(fmt.Sprintf("%s range is inverted: min %s > max %s", column, lo, hi))
}
