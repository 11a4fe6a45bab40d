package domain

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStructuredRecord_JSONRoundTrip(t *testing.T) {
	price := 85000.0
	rec := StructuredRecord{
		Location:    "Colombo",
		Price:       &price,
		PricingType: PricingFixed,
		SubCategory: "Driver",
		Extras:      map[string]any{"employment_type": "Full-time", "price": "ignored"},
	}

	data, err := json.Marshal(rec)
	require.NoError(t, err)
	assert.JSONEq(t, `{
		"location": "Colombo",
		"price": 85000,
		"pricing_type": "Fixed Price",
		"phone": "",
		"model_name": "",
		"manufacture_year": null,
		"sub_category": "Driver",
		"employment_type": "Full-time"
	}`, string(data))

	var back StructuredRecord
	require.NoError(t, json.Unmarshal(data, &back))
	require.NotNil(t, back.Price)
	assert.Equal(t, 85000.0, *back.Price)
	assert.Nil(t, back.ManufactureYear)
	assert.Equal(t, PricingFixed, back.PricingType)
	assert.Equal(t, "Full-time", back.Extras["employment_type"])
}

func TestStructuredRecord_FieldStrings(t *testing.T) {
	year := 2020
	rec := StructuredRecord{
		ModelName:       "Honda Civic",
		ManufactureYear: &year,
		Extras: map[string]any{
			"features": []any{"Sunroof", json.Number("4"), map[string]any{}},
			"doors":    json.Number("4"),
		},
	}

	assert.Equal(t, []string{"Honda Civic"}, rec.FieldStrings(FieldModelName))
	assert.Equal(t, []string{"2020"}, rec.FieldStrings(FieldManufactureYear))
	assert.Equal(t, []string{"Sunroof", "4"}, rec.FieldStrings("features"))
	assert.Equal(t, []string{"4"}, rec.FieldStrings("doors"))
	assert.Nil(t, rec.FieldStrings(FieldPrice))
	assert.Nil(t, rec.FieldStrings("missing"))
}

func TestStructuredRecord_Clone(t *testing.T) {
	price := 10.0
	rec := StructuredRecord{Price: &price, Extras: map[string]any{"a": "b"}}

	clone := rec.Clone()
	*clone.Price = 20
	clone.Extras["a"] = "c"

	assert.Equal(t, 10.0, *rec.Price)
	assert.Equal(t, "b", rec.Extras["a"])
}
