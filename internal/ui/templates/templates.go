// Package templates holds the HTML pages and the fragments patched into
// them over SSE.
package templates

import (
	"context"
	"embed"
	"html/template"
	"io"
	"slices"
	"strconv"
	"strings"

	"github.com/a-h/templ"

	"sales-dashboard/internal/models"
	"sales-dashboard/internal/services"
)

//go:embed html/*.html
var files embed.FS

var funcs = template.FuncMap{
	"money": func(v float64) string { return services.FormatNumber(v, services.CurrencyPrefix) },
	"fixed": func(v float64) string { return strconv.FormatFloat(v, 'f', 2, 64) },
	"cell": func(r models.Reducer, v float64) valueCell { return valueCell{Reducer: r, Value: v} },
	"options": func(label, name string, values []string) multiSelect {
		return multiSelect{Label: label, Name: name, Values: values}
	},
	"isSelected": func(v string, selected []string) bool { return slices.Contains(selected, v) },
}

type valueCell struct {
	Reducer models.Reducer
	Value   float64
}

type multiSelect struct {
	Label  string
	Name   string
	Values []string
}

var views = template.Must(template.New("views").Funcs(funcs).ParseFS(files, "html/*.html"))

func render(name string, data any) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		return views.ExecuteTemplate(w, name, data)
	})
}

// RenderString renders c into a string, for SSE element patches.
func RenderString(ctx context.Context, c templ.Component) (string, error) {
	var buf strings.Builder
	if err := c.Render(ctx, &buf); err != nil {
		return "", err
	}
	return buf.String(), nil
}

type DashboardPage struct {
	Regions    []string
	Years      []string
	Query      models.Query
	TopSellers int
	MinTop     int
	MaxTop     int
}

type RawPage struct {
	Columns         []string
	DefaultFilename string
}

func Dashboard(p DashboardPage) templ.Component { return render("dashboard", p) }

func RawData(p RawPage) templ.Component { return render("raw", p) }

func Metrics(m models.Metrics) templ.Component { return render("metrics", m) }

func DashboardTables(v *models.DashboardView) templ.Component { return render("dashboard-tables", v) }

// SellerOptions lists the sellers of the current query, keeping the
// current selection checked.
func SellerOptions(sellers, selected []string) templ.Component {
	return render("seller-options", struct {
		Sellers  []string
		Selected []string
	}{sellers, selected})
}

func RawFilters(opts models.FilterOptions) templ.Component { return render("raw-filters", opts) }

func RawTable(v *models.RawView) templ.Component { return render("raw-table", v) }

func ExportNotice(filename string) templ.Component { return render("export-notice", filename) }

// ExportNoticeCleared is the empty notice container left once the success
// message expires.
func ExportNoticeCleared() templ.Component { return render("export-notice-cleared", nil) }

// ErrorNotice replaces the element with the given id by an error message.
func ErrorNotice(id, message string) templ.Component {
	return render("error-notice", struct{ ID, Message string }{id, message})
}
