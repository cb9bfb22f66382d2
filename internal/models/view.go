package models

import "time"

type Metrics struct {
	Revenue      float64 `json:"revenue"`
	RevenueLabel string  `json:"revenue_label"`
	Sales        int     `json:"sales"`
	SalesLabel   string  `json:"sales_label"`
}

// DashboardView bundles every table of the dashboard page.
type DashboardView struct {
	Query   Query    `json:"query"`
	Sellers []string `json:"sellers"`
	Metrics Metrics  `json:"metrics"`

	RevenueByState    GeoTable       `json:"revenue_by_state"`
	TopStatesRevenue  GeoTable       `json:"top_states_revenue"`
	RevenueByMonth    AggregateTable `json:"revenue_by_month"`
	RevenueByCategory AggregateTable `json:"revenue_by_category"`

	SalesByState    GeoTable       `json:"sales_by_state"`
	TopStatesSales  GeoTable       `json:"top_states_sales"`
	SalesByMonth    AggregateTable `json:"sales_by_month"`
	SalesByCategory AggregateTable `json:"sales_by_category"`

	SellerRanking SellerRanking `json:"seller_ranking"`
}

// FilterOptions lists the values offered by the raw data filters.
type FilterOptions struct {
	Products     []string  `json:"products"`
	Categories   []string  `json:"categories"`
	Sellers      []string  `json:"sellers"`
	States       []string  `json:"states"`
	PaymentTypes []string  `json:"payment_types"`
	FirstDate    time.Time `json:"first_date,omitzero"`
	LastDate     time.Time `json:"last_date,omitzero"`
}

type RawView struct {
	Options     FilterOptions `json:"options"`
	Table       Table         `json:"table"`
	RowCount    int           `json:"row_count"`
	ColumnCount int           `json:"column_count"`
}
