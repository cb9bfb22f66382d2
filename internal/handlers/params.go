package handlers

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"sales-dashboard/internal/errors"
	"sales-dashboard/internal/models"
	"sales-dashboard/internal/services"
)

// Query parameter names shared by the JSON and SSE endpoints.
const (
	paramRegion       = "region"
	paramYear         = "year"
	paramAllYears     = "all_years"
	paramTop          = "top"
	paramProduct      = "product"
	paramCategory     = "category"
	paramSeller       = "seller"
	paramState        = "state"
	paramPayment      = "payment"
	paramPrice        = "price"
	paramFreight      = "freight"
	paramDate         = "date"
	paramRating       = "rating"
	paramInstallments = "installments"
	paramColumn       = "column"
	paramFilename     = "filename"
)

func parseQuery(v url.Values) models.Query {
	q := models.Query{Region: v.Get(paramRegion), Year: v.Get(paramYear)}
	if allYears, _ := strconv.ParseBool(v.Get(paramAllYears)); allYears {
		q.Year = ""
	}
	return q
}

func parseDashboardRequest(v url.Values) (services.DashboardRequest, error) {
	req := services.DashboardRequest{
		Query:      parseQuery(v),
		Sellers:    parseSet(v, paramSeller),
		TopSellers: services.DefaultTopSellers,
	}
	if raw := v.Get(paramTop); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			return req, errors.BadRequest(fmt.Sprintf("invalid %s %q", paramTop, raw))
		}
		req.TopSellers = n
	}
	return req, nil
}

func parseRawRequest(v url.Values) (services.RawRequest, error) {
	spec, err := parseFilterSpec(v)
	if err != nil {
		return services.RawRequest{}, err
	}
	return services.RawRequest{Spec: spec, Columns: parseSet(v, paramColumn)}, nil
}

var filterParams = []string{
	paramProduct, paramCategory, paramSeller, paramState, paramPayment,
	paramPrice, paramFreight, paramDate, paramRating, paramInstallments, paramColumn,
}

func hasFilterParams(v url.Values) bool {
	for _, name := range filterParams {
		if v.Has(name) {
			return true
		}
	}
	return false
}

// parseSet returns nil when the parameter is absent. Blank values are
// dropped, so a parameter present only with blank values is an empty set.
func parseSet(v url.Values, name string) []string {
	values, ok := v[name]
	if !ok {
		return nil
	}
	out := make([]string, 0, len(values))
	for _, s := range values {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}

func parseFilterSpec(v url.Values) (models.FilterSpec, error) {
	spec := models.FilterSpec{
		Products:     parseSet(v, paramProduct),
		Categories:   parseSet(v, paramCategory),
		Sellers:      parseSet(v, paramSeller),
		States:       parseSet(v, paramState),
		PaymentTypes: parseSet(v, paramPayment),
	}

	var err error
	if spec.Price, err = decimalRange(v, paramPrice); err != nil {
		return spec, err
	}
	if spec.Freight, err = decimalRange(v, paramFreight); err != nil {
		return spec, err
	}
	if spec.Date, err = dateRange(v, paramDate); err != nil {
		return spec, err
	}
	if spec.Rating, err = intRange(v, paramRating); err != nil {
		return spec, err
	}
	if spec.Installments, err = intRange(v, paramInstallments); err != nil {
		return spec, err
	}
	return spec, nil
}

// bounds splits a "min,max" parameter. ok is false when the parameter is
// absent or blank.
func bounds(v url.Values, name string) (lo, hi string, ok bool, err error) {
	raw := strings.TrimSpace(v.Get(name))
	if raw == "" {
		return "", "", false, nil
	}
	lo, hi, found := strings.Cut(raw, ",")
	if !found {
		return "", "", false, errors.FilterConstruction(fmt.Sprintf("%s must be formatted as min,max, got %q", name, raw))
	}
	return strings.TrimSpace(lo), strings.TrimSpace(hi), true, nil
}

func malformed(name, raw string) error {
	return errors.FilterConstruction(fmt.Sprintf("invalid %s bound %q", name, raw))
}

func decimalRange(v url.Values, name string) (*models.DecimalRange, error) {
	lo, hi, ok, err := bounds(v, name)
	if !ok || err != nil {
		return nil, err
	}
	from, err := decimal.NewFromString(lo)
	if err != nil {
		return nil, malformed(name, lo)
	}
	to, err := decimal.NewFromString(hi)
	if err != nil {
		return nil, malformed(name, hi)
	}
	return &models.DecimalRange{Min: from, Max: to}, nil
}

func intRange(v url.Values, name string) (*models.IntRange, error) {
	lo, hi, ok, err := bounds(v, name)
	if !ok || err != nil {
		return nil, err
	}
	from, err := strconv.Atoi(lo)
	if err != nil {
		return nil, malformed(name, lo)
	}
	to, err := strconv.Atoi(hi)
	if err != nil {
		return nil, malformed(name, hi)
	}
	return &models.IntRange{Min: from, Max: to}, nil
}

func dateRange(v url.Values, name string) (*models.DateRange, error) {
	lo, hi, ok, err := bounds(v, name)
	if !ok || err != nil {
		return nil, err
	}
	from, err := time.Parse(time.DateOnly, lo)
	if err != nil {
		return nil, malformed(name, lo)
	}
	to, err := time.Parse(time.DateOnly, hi)
	if err != nil {
		return nil, malformed(name, hi)
	}
	return &models.DateRange{Min: from, Max: to}, nil
}
