package extraction

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"listing-service/internal/core/domain"
)

func TestExtractPhone(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"local form", "call 0771234567 now", "+94771234567"},
		{"local with hyphens", "077-123-4567", "+94771234567"},
		{"international with spaces", "+94 77 123 4567", "+94771234567"},
		{"international without plus", "94771234567", "+94771234567"},
		{"already canonical", "+94771234567", "+94771234567"},
		{"last nine digits fallback", "ph 77 12 34 56 7", "+94771234567"},
		{"too few digits", "call 12345", ""},
		{"empty", "   ", ""},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, ExtractPhone(tc.input))
		})
	}
}

func TestNormalizePhone_Idempotent(t *testing.T) {
	inputs := []string{"0771234567", "+94 77 123 4567", "077-123-4567", "tel 94771234567", "+94771234567"}
	for _, in := range inputs {
		once := NormalizePhone(in)
		assert.True(t, IsCanonicalPhone(once), in)
		assert.Equal(t, once, NormalizePhone(once), in)
	}
}

func TestExtractPrice(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected *float64
	}{
		{"currency prefix with commas", "Selling for Rs 4,500,000, Colombo", ptr(4500000.0)},
		{"lkr with dot", "LKR.45000 only", ptr(45000.0)},
		{"price label", "Price: 25000 negotiable", ptr(25000.0)},
		{"largest bare number", "asking 75,000 or 900", ptr(75000.0)},
		{"no number", "best offer", nil},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := ExtractPrice(tc.input)
			if tc.expected == nil {
				assert.Nil(t, got)
				return
			}
			require.NotNil(t, got)
			assert.InDelta(t, *tc.expected, *got, 0.001)
		})
	}
}

func TestExtractPricingType(t *testing.T) {
	assert.Equal(t, domain.PricingNegotiable, ExtractPricingType("price is Negotiable"))
	assert.Equal(t, domain.PricingNegotiable, ExtractPricingType("slightly nego"))
	assert.Equal(t, domain.PricingFixed, ExtractPricingType("Fixed price"))
	// nego wins whatever surrounds it
	assert.Equal(t, domain.PricingNegotiable, ExtractPricingType("non-negotiable"))
	assert.Equal(t, domain.PricingNegotiable, ExtractPricingType("Price not negotiable"))
	assert.Equal(t, domain.PricingNegotiable, ExtractPricingType("fixed, slightly nego"))
	assert.Equal(t, domain.PricingType(""), ExtractPricingType("good condition"))
}

func TestExtractYear(t *testing.T) {
	y := ExtractYear("Toyota Axio 2015 model, registered 2016")
	require.NotNil(t, y)
	assert.Equal(t, 2015, *y)

	assert.Nil(t, ExtractYear("classic from 1949"))
	assert.Nil(t, ExtractYear("no year here"))
	assert.Nil(t, ExtractYear("part no 12015"))
}

func TestExtractLocation(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"House in Kandy town", "Kandy"},
		{"available in nuwaraeliya", "Nuwara Eliya"},
		{"near Mount  Lavinia beach", "Mount Lavinia"},
		{"Colombo or Galle", "Colombo"},
		{"somewhere nice", ""},
		{"", ""},
	}

	for _, tc := range tests {
		t.Run(tc.input, func(t *testing.T) {
			assert.Equal(t, tc.expected, ExtractLocation(tc.input))
		})
	}
}

func TestLookupPlace(t *testing.T) {
	p, ok := LookupPlace("near Galle fort")
	require.True(t, ok)
	assert.Equal(t, "Galle", p.Name)
	assert.InDelta(t, 6.0535, p.Lat, 0.0001)

	_, ok = LookupPlace("Atlantis")
	assert.False(t, ok)
}

func TestExtractModel(t *testing.T) {
	tests := []struct {
		name     string
		text     string
		title    string
		expected string
	}{
		{"brand then year", "Selling my Honda Civic 2020, Rs 4,500,000", "", "Honda Civic"},
		{"two tokens max", "Apple iPhone 13 Pro Max for sale", "", "Apple iPhone 13"},
		{"stop word", "Toyota Axio for sale", "", "Toyota Axio"},
		{"trailing punctuation", "Samsung Galaxy, like new", "", "Samsung Galaxy"},
		{"multi word brand", "royal  enfield classic 350", "", "Royal Enfield classic 350"},
		{"leftmost brand wins", "Nissan Leaf swap for Toyota", "", "Nissan Leaf swap"},
		{"title fallback", "nice wooden chair", "Dining chair (teak)", "Dining chair"},
		{"nothing", "nice wooden chair", "", ""},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, ExtractModel(tc.text, tc.title))
		})
	}
}

func TestExtractSubCategory(t *testing.T) {
	tests := []struct {
		name     string
		category domain.Category
		text     string
		expected string
	}{
		{"vehicle model keyword", domain.CategoryVehicle, "Honda Civic 2020", "Car"},
		{"vehicle body word", domain.CategoryVehicle, "Bajaj three-wheeler 2012", "Three Wheeler"},
		{"vehicle van model", domain.CategoryVehicle, "Toyota KDH for hire", "Van"},
		{"vehicle unknown", domain.CategoryVehicle, "Tata 1210", DefaultSubCategory},
		{"property", domain.CategoryProperty, "Land for sale, 10 perches", "Land"},
		{"job", domain.CategoryJob, "Need a driver urgently", "Driver"},
		{"mobile", domain.CategoryMobile, "iPhone 13 Pro 128GB", "Mobile Phone"},
		{"electronic", domain.CategoryElectronic, "Samsung 55 inch smart TV", "TV"},
		{"home garden", domain.CategoryHomeGarden, "teak sofa set", "Furniture"},
		{"other tag", domain.CategoryOther, "Selling vintage guitar", "Vintage"},
		{"other fallback", domain.CategoryOther, "ok 123", DefaultSubCategory},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, ExtractSubCategory(tc.category, tc.text))
		})
	}
}

func TestRemapSubCategory(t *testing.T) {
	assert.Equal(t, "Bike", RemapSubCategory(domain.CategoryVehicle, "motor bike"))
	assert.Equal(t, "Bike", RemapSubCategory(domain.CategoryVehicle, "bike or car"))
	assert.Equal(t, "Car", RemapSubCategory(domain.CategoryVehicle, "car or van"))
	assert.Equal(t, "Van", RemapSubCategory("", "van / bus"))
	// inference keeps the larger body first
	assert.Equal(t, "Van", ExtractSubCategory(domain.CategoryVehicle, "van with car seats"))
	assert.Equal(t, "Car", RemapSubCategory(domain.CategoryVehicle, "CAR"))
	assert.Equal(t, "Three Wheeler", RemapSubCategory("", "three wheeler"))
	assert.Equal(t, "House", RemapSubCategory(domain.CategoryProperty, "villa"))
	assert.Equal(t, "Plumber", RemapSubCategory(domain.CategoryJob, "PLUMBER"))
	assert.Equal(t, "", RemapSubCategory(domain.CategoryJob, "  "))

	assert.True(t, IsVehicleSubCategory("Lorry"))
	assert.False(t, IsVehicleSubCategory("Boat"))
}

func TestTitleCase(t *testing.T) {
	assert.Equal(t, "Three wheeler", TitleCase("three WHEELER"))
	assert.Equal(t, "Éclair", TitleCase("éclair"))
	assert.Equal(t, "", TitleCase(" "))
}

func ptr[T any](v T) *T { return &v }
