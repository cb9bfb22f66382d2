package services

import (
	"sales-dashboard/internal/models"
)

// Apply returns the records matching every option present in spec, in
// their original order. The input slice is never modified.
func Apply(records []models.SaleRecord, spec models.FilterSpec) []models.SaleRecord {
	if spec.IsEmpty() {
		return append([]models.SaleRecord(nil), records...)
	}

	m := newMatcher(spec)
	out := make([]models.SaleRecord, 0, len(records))
	for _, rec := range records {
		if m.match(rec) {
			out = append(out, rec)
		}
	}
	return out
}

// FilterSellers keeps the records sold by one of sellers. A nil list
// leaves records unrestricted; an empty list keeps nothing.
func FilterSellers(records []models.SaleRecord, sellers []string) []models.SaleRecord {
	return Apply(records, models.FilterSpec{Sellers: sellers})
}

type stringSet map[string]struct{}

// newStringSet returns nil for a nil slice so an absent option stays
// distinguishable from an empty one.
func newStringSet(values []string) stringSet {
	if values == nil {
		return nil
	}
	set := make(stringSet, len(values))
	for _, v := range values {
		set[v] = struct{}{}
	}
	return set
}

func (s stringSet) allows(v string) bool {
	if s == nil {
		return true
	}
	_, ok := s[v]
	return ok
}

type matcher struct {
	spec         models.FilterSpec
	products     stringSet
	categories   stringSet
	sellers      stringSet
	states       stringSet
	paymentTypes stringSet
}

func newMatcher(spec models.FilterSpec) matcher {
	return matcher{
		spec:         spec,
		products:     newStringSet(spec.Products),
		categories:   newStringSet(spec.Categories),
		sellers:      newStringSet(spec.Sellers),
		states:       newStringSet(spec.States),
		paymentTypes: newStringSet(spec.PaymentTypes),
	}
}

func (m matcher) match(rec models.SaleRecord) bool {
	s := m.spec
	return m.products.allows(rec.Product) &&
		m.categories.allows(rec.Category) &&
		(s.Price == nil || s.Price.Contains(rec.Price)) &&
		(s.Freight == nil || s.Freight.Contains(rec.Freight)) &&
		(s.Date == nil || s.Date.Contains(rec.PurchaseDate)) &&
		m.sellers.allows(rec.Seller) &&
		m.states.allows(rec.State) &&
		(s.Rating == nil || s.Rating.Contains(rec.Rating)) &&
		m.paymentTypes.allows(rec.PaymentType) &&
		(s.Installments == nil || s.Installments.Contains(rec.Installments))
}
