package templates

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sales-dashboard/internal/models"
)

func renderString(t *testing.T, name string, data any) string {
	t.Helper()
	html, err := RenderString(context.Background(), render(name, data))
	require.NoError(t, err)
	return html
}

func TestDashboardPage(t *testing.T) {
	html, err := RenderString(context.Background(), Dashboard(DashboardPage{
		Regions:    models.Regions,
		Years:      []string{"2020", "2021"},
		Query:      models.Query{Region: "Sul", Year: "2021"},
		TopSellers: 5,
		MinTop:     2,
		MaxTop:     10,
	}))
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(html, "<!DOCTYPE html>"))
	assert.Contains(t, html, "Dashboard de vendas")
	assert.Contains(t, html, `<option value="Sul" selected>Sul</option>`)
	assert.Contains(t, html, `<option value="2021" selected>2021</option>`)
	assert.Contains(t, html, `id="metrics"`)
	assert.Contains(t, html, `id="dashboard-tables"`)
	assert.Contains(t, html, "/sse/dashboard")
}

func TestRawDataPage(t *testing.T) {
	html, err := RenderString(context.Background(), RawData(RawPage{Columns: models.Columns, DefaultFilename: "dados"}))
	require.NoError(t, err)

	assert.Contains(t, html, `<option value="Local da compra" selected>`)
	assert.Contains(t, html, `name="filename" value="dados"`)
	assert.Contains(t, html, `id="export-notice"`)
	assert.Contains(t, html, "/sse/export-notice")
}

func TestMetrics(t *testing.T) {
	html := renderString(t, "metrics", models.Metrics{RevenueLabel: "R$ 6.80 mil", SalesLabel: " 5.00 "})

	assert.Contains(t, html, `<div id="metrics"`)
	assert.Contains(t, html, "R$ 6.80 mil")
}

func TestDashboardTables(t *testing.T) {
	view := &models.DashboardView{
		RevenueByState: models.GeoTable{
			Reducer: models.ReducerSumPrice,
			Rows:    []models.GeoRow{{State: "SP", Lat: -22.19, Lon: -48.79, Value: 1500}},
		},
		SalesByCategory: models.AggregateTable{
			Dimension: models.DimensionCategory,
			Reducer:   models.ReducerCountRows,
			Rows:      []models.AggregateRow{{Key: "moveis", Value: 3}},
		},
		RevenueByMonth: models.AggregateTable{
			Dimension: models.DimensionMonth,
			Reducer:   models.ReducerSumPrice,
			Rows: []models.AggregateRow{{
				Key: "2021-01-31", Value: 2000, MonthEnd: time.Date(2021, 1, 31, 0, 0, 0, 0, time.UTC),
				Month: "January", Year: 2021,
			}},
		},
		SellerRanking: models.SellerRanking{
			N:         2,
			ByRevenue: []models.SellerStats{{Seller: "Ana", Revenue: 2200, Sales: 2}},
			BySales:   []models.SellerStats{{Seller: "Bruno", Revenue: 600, Sales: 2}},
		},
	}

	html := renderString(t, "dashboard-tables", view)

	assert.Contains(t, html, "<td>SP</td>")
	assert.Contains(t, html, "-22.19")
	assert.Contains(t, html, "R$ 1.50 mil")
	assert.Contains(t, html, `<td>moveis</td><td class="num">3</td>`)
	assert.Contains(t, html, "<td>January</td>")
	assert.Contains(t, html, "Top 2 vendedores")
	assert.Contains(t, html, "<td>Bruno</td>")
}

func TestSellerOptions_KeepsSelection(t *testing.T) {
	html, err := RenderString(context.Background(), SellerOptions([]string{"Ana", "Bruno"}, []string{"Bruno"}))
	require.NoError(t, err)

	assert.Contains(t, html, `<option value="Ana">Ana</option>`)
	assert.Contains(t, html, `<option value="Bruno" selected>Bruno</option>`)
}

func TestRawFragments(t *testing.T) {
	filters := renderString(t, "raw-filters", models.FilterOptions{
		Products:  []string{"Cadeira"},
		States:    []string{"RJ"},
		FirstDate: time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC),
		LastDate:  time.Date(2023, 3, 31, 0, 0, 0, 0, time.UTC),
	})
	assert.Contains(t, filters, `<select name="product" multiple>`)
	assert.Contains(t, filters, `<option value="RJ">RJ</option>`)
	assert.Contains(t, filters, "2020-01-01 e 2023-03-31")

	table := renderString(t, "raw-table", &models.RawView{
		Table:       models.Table{Columns: []string{"Produto"}, Rows: [][]string{{"<Cadeira>"}}},
		RowCount:    1,
		ColumnCount: 1,
	})
	assert.Contains(t, table, "<th>Produto</th>")
	assert.Contains(t, table, "&lt;Cadeira&gt;")
}

func TestExportNotice(t *testing.T) {
	notice, err := RenderString(context.Background(), ExportNotice("vendas.csv"))
	require.NoError(t, err)
	assert.Contains(t, notice, "vendas.csv baixado com sucesso")

	cleared, err := RenderString(context.Background(), ExportNoticeCleared())
	require.NoError(t, err)
	assert.Equal(t, `<div id="export-notice"></div>`, cleared)
}

func TestErrorNotice(t *testing.T) {
	html, err := RenderString(context.Background(), ErrorNotice("metrics", "upstream down"))
	require.NoError(t, err)
	assert.Equal(t, `<div id="metrics" class="error">upstream down</div>`, html)
}
