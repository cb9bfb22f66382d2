package models

import (
	"fmt"
	"strconv"
	"strings"

	"sales-dashboard/internal/errors"
)

// RegionAll selects every region.
const RegionAll = "Brasil"

var Regions = []string{RegionAll, "Centro-Oeste", "Nordeste", "Norte", "Sudeste", "Sul"}

const (
	FirstYear = 2020
	LastYear  = 2023
)

// Query holds the filters the upstream API applies server side.
// Empty fields mean "all".
type Query struct {
	Region string `json:"region"`
	Year   string `json:"year"`
}

func (q Query) Validate() error {
	if q.Region != "" {
		found := false
		for _, r := range Regions {
			if strings.EqualFold(r, q.Region) {
				found = true
				break
			}
		}
		if !found {
			return errors.Validation(fmt.Sprintf("unknown region %q", q.Region))
		}
	}

	if q.Year != "" {
		year, err := strconv.Atoi(q.Year)
		if err != nil || len(q.Year) != 4 {
			return errors.Validation(fmt.Sprintf("year must have four digits, got %q", q.Year))
		}
		if year < FirstYear || year > LastYear {
			return errors.Validation(fmt.Sprintf("year must be between %d and %d, got %d", FirstYear, LastYear, year))
		}
	}

	return nil
}

// RegionParam returns the region as sent upstream: lowercase, empty for
// the whole country.
func (q Query) RegionParam() string {
	if strings.EqualFold(q.Region, RegionAll) {
		return ""
	}
	return strings.ToLower(q.Region)
}

// Key identifies queries that produce the same upstream request.
func (q Query) Key() string {
	return q.RegionParam() + "|" + q.Year
}
