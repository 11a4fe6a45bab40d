package matching

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"listing-service/internal/core/domain"
)

func ptr[T any](v T) *T { return &v }

func civicListing() domain.Listing {
	return domain.Listing{
		ID:       1,
		Category: domain.CategoryVehicle,
		Record: domain.StructuredRecord{
			Location:        "Colombo",
			Price:           ptr(4500000.0),
			PricingType:     domain.PricingNegotiable,
			Phone:           "+94771234567",
			ModelName:       "Honda Civic",
			ManufactureYear: ptr(2020),
			SubCategory:     "Car",
			Extras: map[string]any{
				"fuel_type": "Petrol",
				"features":  []any{"Sunroof", "Reverse camera"},
			},
		},
	}
}

func TestMatches_SavedSearchYearBound(t *testing.T) {
	listing := civicListing()

	assert.True(t, Matches(listing, domain.MatchCriterion{
		Category: domain.CategoryVehicle,
		Models:   []string{"civic"},
		YearMin:  ptr(2018),
	}))
	assert.False(t, Matches(listing, domain.MatchCriterion{
		Category: domain.CategoryVehicle,
		Models:   []string{"civic"},
		YearMin:  ptr(2022),
	}))
}

func TestMatches_Predicates(t *testing.T) {
	tests := []struct {
		name      string
		criterion domain.MatchCriterion
		expected  bool
	}{
		{"empty criterion", domain.MatchCriterion{}, true},
		{"category equal", domain.MatchCriterion{Category: domain.CategoryVehicle}, true},
		{"category differs", domain.MatchCriterion{Category: domain.CategoryMobile}, false},
		{"location contains", domain.MatchCriterion{Locations: []string{"colom"}}, true},
		{"any location", domain.MatchCriterion{Locations: []string{"Kandy", "COLOMBO"}}, true},
		{"location misses", domain.MatchCriterion{Locations: []string{"Kandy"}}, false},
		{"blank locations ignored", domain.MatchCriterion{Locations: []string{" ", ""}}, true},
		{"price in range", domain.MatchCriterion{PriceMin: ptr(4000000.0), PriceMax: ptr(5000000.0)}, true},
		{"price bounds inclusive", domain.MatchCriterion{PriceMin: ptr(4500000.0), PriceMax: ptr(4500000.0)}, true},
		{"price above max", domain.MatchCriterion{PriceMax: ptr(3000000.0)}, false},
		{"price ignored", domain.MatchCriterion{PriceMax: ptr(3000000.0), PriceIgnored: true}, true},
		{"model contains", domain.MatchCriterion{Models: []string{"CIVIC"}}, true},
		{"model any of", domain.MatchCriterion{Models: []string{"axio", "civic"}}, true},
		{"model misses", domain.MatchCriterion{Models: []string{"axio"}}, false},
		{"year range", domain.MatchCriterion{YearMin: ptr(2019), YearMax: ptr(2021)}, true},
		{"year above max", domain.MatchCriterion{YearMax: ptr(2019)}, false},
		{"filter exact", domain.MatchCriterion{Filters: map[string]domain.FilterValue{"fuel_type": domain.Scalar("petrol")}}, true},
		{"filter exact is not contains", domain.MatchCriterion{Filters: map[string]domain.FilterValue{"fuel_type": domain.Scalar("pet")}}, false},
		{"filter list any", domain.MatchCriterion{Filters: map[string]domain.FilterValue{"fuel_type": domain.List("Diesel", "Petrol")}}, true},
		{"filter model alias contains", domain.MatchCriterion{Filters: map[string]domain.FilterValue{"model": domain.Scalar("civ")}}, true},
		{"filter sub category contains", domain.MatchCriterion{Filters: map[string]domain.FilterValue{"sub_category": domain.Scalar("ca")}}, true},
		{"filter empty value ignored", domain.MatchCriterion{Filters: map[string]domain.FilterValue{"fuel_type": domain.Scalar(" ")}}, true},
		{"filter empty list ignored", domain.MatchCriterion{Filters: map[string]domain.FilterValue{"colour": domain.List()}}, true},
		{"filter missing field", domain.MatchCriterion{Filters: map[string]domain.FilterValue{"colour": domain.Scalar("red")}}, false},
		{"filter list valued field", domain.MatchCriterion{Filters: map[string]domain.FilterValue{"features": domain.Scalar("sunroof")}}, true},
		{"filter year as text", domain.MatchCriterion{Filters: map[string]domain.FilterValue{"manufacture_year": domain.List("2019", "2020")}}, true},
		{"filter category", domain.MatchCriterion{Filters: map[string]domain.FilterValue{"category": domain.Scalar("vehicle")}}, true},
	}

	listing := civicListing()
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, Matches(listing, tc.criterion))
		})
	}
}

func TestMatches_UnknownPrice(t *testing.T) {
	listing := civicListing()
	listing.Record.Price = nil

	assert.False(t, Matches(listing, domain.MatchCriterion{PriceMin: ptr(1.0)}))
	assert.False(t, Matches(listing, domain.MatchCriterion{PriceMax: ptr(1e9)}))
	assert.True(t, Matches(listing, domain.MatchCriterion{PriceMin: ptr(1.0), PriceIgnored: true}))
	assert.True(t, Matches(listing, domain.MatchCriterion{}))
}

func TestMatches_UnknownYear(t *testing.T) {
	listing := civicListing()
	listing.Record.ManufactureYear = nil

	assert.False(t, Matches(listing, domain.MatchCriterion{YearMin: ptr(2000)}))
	assert.True(t, Matches(listing, domain.MatchCriterion{Category: domain.CategoryVehicle}))
}

func TestMatches_CategoryGates(t *testing.T) {
	house := domain.Listing{
		Category: domain.CategoryProperty,
		Record: domain.StructuredRecord{
			Location:    "Kandy",
			Price:       ptr(25000000.0),
			SubCategory: "House",
		},
	}

	// models and years mean nothing for property, so they do not constrain it
	assert.True(t, Matches(house, domain.MatchCriterion{
		Category: domain.CategoryProperty,
		Models:   []string{"civic"},
		YearMin:  ptr(2018),
	}))

	// mobiles have a model but no manufacture year
	phone := domain.Listing{
		Category: domain.CategoryMobile,
		Record:   domain.StructuredRecord{ModelName: "Apple iPhone 13"},
	}
	assert.True(t, Matches(phone, domain.MatchCriterion{Category: domain.CategoryMobile, Models: []string{"iphone"}, YearMin: ptr(2022)}))
	assert.False(t, Matches(phone, domain.MatchCriterion{Category: domain.CategoryMobile, Models: []string{"galaxy"}}))

	// without a category every gate is active
	assert.False(t, Matches(house, domain.MatchCriterion{Models: []string{"civic"}}))
}

// Adding constraints one at a time can only turn a match into a miss.
func TestMatches_MonotonicInConstraints(t *testing.T) {
	steps := []func(*domain.MatchCriterion){
		func(c *domain.MatchCriterion) { c.Category = domain.CategoryVehicle },
		func(c *domain.MatchCriterion) { c.Locations = []string{"colombo"} },
		func(c *domain.MatchCriterion) { c.PriceMin = ptr(1000000.0) },
		func(c *domain.MatchCriterion) { c.Models = []string{"civic"} },
		func(c *domain.MatchCriterion) { c.YearMin = ptr(2021) },
		func(c *domain.MatchCriterion) {
			c.Filters = map[string]domain.FilterValue{"fuel_type": domain.Scalar("Petrol")}
		},
		func(c *domain.MatchCriterion) { c.PriceMax = ptr(5000000.0) },
	}

	listing := civicListing()
	for start := range steps {
		var c domain.MatchCriterion
		prev := Matches(listing, c)
		for i := 0; i < len(steps); i++ {
			steps[(start+i)%len(steps)](&c)
			cur := Matches(listing, c)
			if !prev {
				assert.False(t, cur, "constraint %d turned a miss into a match", (start+i)%len(steps))
			}
			prev = cur
		}
		assert.False(t, prev, "year_min 2021 must exclude a 2020 listing")
	}
}

func TestFilter_KeepsOrder(t *testing.T) {
	a := civicListing()
	b := civicListing()
	b.ID = 2
	b.Record.Location = "Kandy"
	c := civicListing()
	c.ID = 3

	got := Filter([]domain.Listing{a, b, c}, domain.MatchCriterion{Locations: []string{"Colombo"}})

	if assert.Len(t, got, 2) {
		assert.Equal(t, int64(1), got[0].ID)
		assert.Equal(t, int64(3), got[1].ID)
	}
}
