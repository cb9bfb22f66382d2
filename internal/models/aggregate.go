package models

import "time"

type Dimension string

const (
	DimensionState    Dimension = "state"
	DimensionMonth    Dimension = "month"
	DimensionCategory Dimension = "category"
	DimensionSeller   Dimension = "seller"
)

type Reducer string

const (
	ReducerSumPrice  Reducer = "sum_price"
	ReducerCountRows Reducer = "count_rows"
)

type AggregateRow struct {
	Key   string  `json:"key"`
	Value float64 `json:"value"`

	// Set for month tables only.
	MonthEnd time.Time `json:"month_end,omitzero"`
	Month    string    `json:"month,omitempty"`
	Year     int       `json:"year,omitempty"`
}

type AggregateTable struct {
	Dimension Dimension      `json:"dimension"`
	Reducer   Reducer        `json:"reducer"`
	Rows      []AggregateRow `json:"rows"`
}

// Head returns a table holding at most the first n rows.
func (t AggregateTable) Head(n int) AggregateTable {
	if n < len(t.Rows) {
		t.Rows = t.Rows[:n]
	}
	return t
}

type GeoRow struct {
	State string  `json:"state"`
	Lat   float64 `json:"lat"`
	Lon   float64 `json:"lon"`
	Value float64 `json:"value"`
}

type GeoTable struct {
	Reducer Reducer  `json:"reducer"`
	Rows    []GeoRow `json:"rows"`
}

func (t GeoTable) Head(n int) GeoTable {
	if n < len(t.Rows) {
		t.Rows = t.Rows[:n]
	}
	return t
}

type SellerStats struct {
	Seller  string  `json:"seller"`
	Revenue float64 `json:"revenue"`
	Sales   int     `json:"sales"`
}

type SellerRanking struct {
	N         int           `json:"n"`
	ByRevenue []SellerStats `json:"by_revenue"`
	BySales   []SellerStats `json:"by_sales"`
}

// Table is a plain string table, the unit of CSV export.
type Table struct {
	Columns []string   `json:"columns"`
	Rows    [][]string `json:"rows"`
}
