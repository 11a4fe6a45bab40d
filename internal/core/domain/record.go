package domain

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
)

type PricingType string

const (
	PricingFixed      PricingType = "Fixed Price"
	PricingNegotiable PricingType = "Negotiable"
)

const (
	MinManufactureYear = 1950
	MaxManufactureYear = 2100
)

// ValidManufactureYear reports whether y lies in the accepted range.
func ValidManufactureYear(y int) bool {
	return y >= MinManufactureYear && y <= MaxManufactureYear
}

// Canonical keys of the structured record JSON.
const (
	FieldLocation        = "location"
	FieldPrice           = "price"
	FieldPricingType     = "pricing_type"
	FieldPhone           = "phone"
	FieldModelName       = "model_name"
	FieldManufactureYear = "manufacture_year"
	FieldSubCategory     = "sub_category"
)

var canonicalFields = map[string]struct{}{
	FieldLocation:        {},
	FieldPrice:           {},
	FieldPricingType:     {},
	FieldPhone:           {},
	FieldModelName:       {},
	FieldManufactureYear: {},
	FieldSubCategory:     {},
}

// IsCanonicalField reports whether key is one of the typed record fields.
func IsCanonicalField(key string) bool {
	_, ok := canonicalFields[key]
	return ok
}

// StructuredRecord is the canonical set of attributes extracted for a listing.
// Price is nil when unknown, Phone is "+94XXXXXXXXX" or empty and
// ManufactureYear is nil or within [MinManufactureYear, MaxManufactureYear].
// Extras holds category specific keys (employment_type, company, ...) as they came in.
type StructuredRecord struct {
	Location        string
	Price           *float64
	PricingType     PricingType
	Phone           string
	ModelName       string
	ManufactureYear *int
	SubCategory     string
	Extras          map[string]any
}

// Field returns the record value stored under key, canonical or extra.
func (r StructuredRecord) Field(key string) (any, bool) {
	switch key {
	case FieldLocation:
		return r.Location, true
	case FieldPrice:
		if r.Price == nil {
			return nil, false
		}
		return *r.Price, true
	case FieldPricingType:
		return string(r.PricingType), true
	case FieldPhone:
		return r.Phone, true
	case FieldModelName:
		return r.ModelName, true
	case FieldManufactureYear:
		if r.ManufactureYear == nil {
			return nil, false
		}
		return *r.ManufactureYear, true
	case FieldSubCategory:
		return r.SubCategory, true
	}
	v, ok := r.Extras[key]
	return v, ok
}

// FieldStrings renders the value under key as comparable strings.
// A list-valued extra yields one string per scalar element.
func (r StructuredRecord) FieldStrings(key string) []string {
	v, ok := r.Field(key)
	if !ok || v == nil {
		return nil
	}
	if list, isList := v.([]any); isList {
		out := make([]string, 0, len(list))
		for _, item := range list {
			if s, ok := ScalarString(item); ok {
				out = append(out, s)
			}
		}
		return out
	}
	if list, isList := v.([]string); isList {
		return list
	}
	if s, ok := ScalarString(v); ok {
		return []string{s}
	}
	return nil
}

// ScalarString formats strings, numbers and booleans. Anything else is not a scalar.
func ScalarString(v any) (string, bool) {
	switch t := v.(type) {
	case string:
		return t, true
	case json.Number:
		return t.String(), true
	case float64:
		if math.IsNaN(t) || math.IsInf(t, 0) {
			return "", false
		}
		return strconv.FormatFloat(t, 'f', -1, 64), true
	case float32:
		return strconv.FormatFloat(float64(t), 'f', -1, 32), true
	case int:
		return strconv.Itoa(t), true
	case int64:
		return strconv.FormatInt(t, 10), true
	case int32:
		return strconv.FormatInt(int64(t), 10), true
	case bool:
		return strconv.FormatBool(t), true
	}
	return "", false
}

// Clone returns a copy that shares nothing mutable with r.
func (r StructuredRecord) Clone() StructuredRecord {
	out := r
	if r.Price != nil {
		p := *r.Price
		out.Price = &p
	}
	if r.ManufactureYear != nil {
		y := *r.ManufactureYear
		out.ManufactureYear = &y
	}
	if r.Extras != nil {
		out.Extras = make(map[string]any, len(r.Extras))
		for k, v := range r.Extras {
			out.Extras[k] = v
		}
	}
	return out
}

// MarshalJSON writes the flat canonical object with extras alongside.
func (r StructuredRecord) MarshalJSON() ([]byte, error) {
	m := make(map[string]any, len(r.Extras)+len(canonicalFields))
	for k, v := range r.Extras {
		if !IsCanonicalField(k) {
			m[k] = v
		}
	}
	m[FieldLocation] = r.Location
	m[FieldPricingType] = r.PricingType
	m[FieldPhone] = r.Phone
	m[FieldModelName] = r.ModelName
	m[FieldSubCategory] = r.SubCategory
	if r.Price != nil {
		m[FieldPrice] = *r.Price
	} else {
		m[FieldPrice] = nil
	}
	if r.ManufactureYear != nil {
		m[FieldManufactureYear] = *r.ManufactureYear
	} else {
		m[FieldManufactureYear] = nil
	}
	return json.Marshal(m)
}

// UnmarshalJSON reads a record previously written by MarshalJSON. It does not
// apply synonym handling; untrusted blobs go through the normalizer instead.
func (r *StructuredRecord) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var m map[string]any
	if err := dec.Decode(&m); err != nil {
		return fmt.Errorf("structured record: %w", err)
	}

	out := StructuredRecord{}
	for k, v := range m {
		switch k {
		case FieldLocation:
			out.Location, _ = v.(string)
		case FieldPricingType:
			s, _ := v.(string)
			out.PricingType = PricingType(s)
		case FieldPhone:
			out.Phone, _ = v.(string)
		case FieldModelName:
			out.ModelName, _ = v.(string)
		case FieldSubCategory:
			out.SubCategory, _ = v.(string)
		case FieldPrice:
			if n, ok := v.(json.Number); ok {
				if f, err := n.Float64(); err == nil {
					out.Price = &f
				}
			}
		case FieldManufactureYear:
			if n, ok := v.(json.Number); ok {
				if f, err := n.Float64(); err == nil {
					y := int(f)
					out.ManufactureYear = &y
				}
			}
		default:
			if out.Extras == nil {
				out.Extras = make(map[string]any)
			}
			out.Extras[k] = v
		}
	}
	*r = out
	return nil
}

// IsBlank reports whether s has no visible characters.
func IsBlank(s string) bool {
	return strings.TrimSpace(s) == ""
}
