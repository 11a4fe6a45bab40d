// Package matching decides whether a listing satisfies a saved search or a
// wanted request. Evaluation is stateless and safe for concurrent use.
package matching

import (
	"strings"

	"listing-service/internal/core/domain"
)

// predicate is one independent condition of a criterion. An unset constraint
// must return true.
type predicate func(l domain.Listing, c domain.MatchCriterion) bool

var predicates = []predicate{
	matchCategory,
	matchLocation,
	matchPrice,
	matchModels,
	matchYear,
	matchFilters,
}

// Matches reports whether l satisfies every constraint of c. c is assumed to
// have passed MatchCriterion.Validate.
func Matches(l domain.Listing, c domain.MatchCriterion) bool {
	for _, p := range predicates {
		if !p(l, c) {
			return false
		}
	}
	return true
}

// Filter returns the listings that match c, in their original order.
func Filter(listings []domain.Listing, c domain.MatchCriterion) []domain.Listing {
	out := make([]domain.Listing, 0, len(listings))
	for _, l := range listings {
		if Matches(l, c) {
			out = append(out, l)
		}
	}
	return out
}

func matchCategory(l domain.Listing, c domain.MatchCriterion) bool {
	return c.Category == "" || l.Category == c.Category
}

func matchLocation(l domain.Listing, c domain.MatchCriterion) bool {
	return domain.List(c.Locations...).Matches([]string{l.Record.Location}, domain.MatchContains)
}

// matchPrice: with neither bound set there is nothing to compare, so an
// unknown price only fails when a bound is active.
func matchPrice(l domain.Listing, c domain.MatchCriterion) bool {
	if c.PriceIgnored || (c.PriceMin == nil && c.PriceMax == nil) {
		return true
	}
	price := l.Record.Price
	if price == nil {
		return false
	}
	if c.PriceMin != nil && *price < *c.PriceMin {
		return false
	}
	if c.PriceMax != nil && *price > *c.PriceMax {
		return false
	}
	return true
}

func matchModels(l domain.Listing, c domain.MatchCriterion) bool {
	if c.Category != "" && !c.Category.HasModelIdentity() {
		return true
	}
	return domain.List(c.Models...).Matches([]string{l.Record.ModelName}, domain.MatchContains)
}

func matchYear(l domain.Listing, c domain.MatchCriterion) bool {
	if c.Category != "" && !c.Category.HasManufactureYear() {
		return true
	}
	if c.YearMin == nil && c.YearMax == nil {
		return true
	}
	year := l.Record.ManufactureYear
	if year == nil {
		return false
	}
	if c.YearMin != nil && *year < *c.YearMin {
		return false
	}
	if c.YearMax != nil && *year > *c.YearMax {
		return false
	}
	return true
}

// filterAliases renames criterion keys to record keys.
var filterAliases = map[string]string{
	"model": domain.FieldModelName,
}

// modeFor returns how the record value under key is compared.
func modeFor(key string) domain.MatchMode {
	switch key {
	case domain.FieldModelName, domain.FieldSubCategory:
		return domain.MatchContains
	}
	return domain.MatchExact
}

func matchFilters(l domain.Listing, c domain.MatchCriterion) bool {
	for key, want := range c.Filters {
		if want.IsEmpty() {
			continue
		}
		key = strings.TrimSpace(key)
		if alias, ok := filterAliases[key]; ok {
			key = alias
		}
		if !want.Matches(listingValues(l, key), modeFor(key)) {
			return false
		}
	}
	return true
}

// listingValues reads key from the record, falling back to listing level
// attributes for keys the record does not hold.
func listingValues(l domain.Listing, key string) []string {
	if key == "category" {
		return []string{string(l.Category)}
	}
	return l.Record.FieldStrings(key)
}
