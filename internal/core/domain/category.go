package domain

import (
	"strings"
	"unicode"
)

// Category is the top-level classification of a listing. String values are
// the ones seen on the wire and in the database.
type Category string

const (
	CategoryVehicle    Category = "Vehicle"
	CategoryProperty   Category = "Property"
	CategoryJob        Category = "Job"
	CategoryElectronic Category = "Electronic"
	CategoryMobile     Category = "Mobile"
	CategoryHomeGarden Category = "Home Garden"
	CategoryOther      Category = "Other"
)

// Categories lists every category in display order.
var Categories = []Category{
	CategoryVehicle,
	CategoryProperty,
	CategoryJob,
	CategoryElectronic,
	CategoryMobile,
	CategoryHomeGarden,
	CategoryOther,
}

var categoryByKey = func() map[string]Category {
	m := make(map[string]Category, len(Categories)+2)
	for _, c := range Categories {
		m[categoryKey(string(c))] = c
	}
	m["homeandgarden"] = CategoryHomeGarden
	return m
}()

// categoryKey keeps letters only, lowercased: "Home & Garden" -> "homegarden".
func categoryKey(s string) string {
	var b strings.Builder
	for _, r := range s {
		if unicode.IsLetter(r) {
			b.WriteRune(unicode.ToLower(r))
		}
	}
	return b.String()
}

// ParseCategory resolves loosely written labels ("vehicles", "HomeGarden",
// "Home & Garden") to a Category.
func ParseCategory(s string) (Category, bool) {
	key := categoryKey(s)
	if key == "" {
		return "", false
	}
	if c, ok := categoryByKey[key]; ok {
		return c, true
	}
	if c, ok := categoryByKey[strings.TrimSuffix(key, "s")]; ok {
		return c, true
	}
	return "", false
}

// IsValid reports whether c is exactly one of the wire values.
func (c Category) IsValid() bool {
	for _, known := range Categories {
		if c == known {
			return true
		}
	}
	return false
}

// HasModelIdentity reports whether "model" means something for listings of c.
func (c Category) HasModelIdentity() bool {
	switch c {
	case CategoryVehicle, CategoryMobile, CategoryElectronic:
		return true
	}
	return false
}

// HasManufactureYear reports whether listings of c carry a manufacture year.
func (c Category) HasManufactureYear() bool {
	return c == CategoryVehicle
}
