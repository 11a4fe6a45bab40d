// Package normalizer turns a loosely keyed AI extraction blob into a
// domain.StructuredRecord and fills the gaps from the listing text.
package normalizer

import (
	"strings"

	"listing-service/internal/core/domain"
	"listing-service/internal/core/extraction"
)

// Input is everything known about a listing when its record is resolved.
type Input struct {
	Raw         map[string]any
	Category    domain.Category
	Title       string
	Description string
}

// normalized keeps what Resolve needs to know beyond the record itself.
type normalized struct {
	record domain.StructuredRecord
	// pricing type came from the blob, even if the value was not recognised
	pricingSourced bool
}

func normalize(raw map[string]any, category domain.Category) normalized {
	out := normalized{}
	rec := &out.record

	rec.Location = firstString(raw, locationKeys)
	rec.ModelName = firstString(raw, modelKeys)
	rec.SubCategory = extraction.RemapSubCategory(category, firstString(raw, subCategoryKeys))
	rec.Phone = extraction.NormalizePhone(firstString(raw, phoneKeys))

	for _, k := range yearKeys {
		if y := ParseYear(raw[k]); y != nil {
			rec.ManufactureYear = y
			break
		}
	}
	for _, k := range priceKeys {
		if p := ParsePrice(raw[k]); p != nil {
			rec.Price = p
			break
		}
	}
	if s := firstString(raw, pricingKeys); s != "" {
		rec.PricingType = pricingTypeOf(s)
		out.pricingSourced = true
	}

	if category == domain.CategoryJob {
		if rec.Price == nil {
			for _, k := range salaryKeys {
				if p := ParsePrice(raw[k]); p != nil {
					rec.Price = p
					break
				}
			}
		}
		if !out.pricingSourced {
			if s := firstString(raw, salaryTypeKeys); s != "" {
				rec.PricingType = pricingTypeOf(s)
				out.pricingSourced = true
			}
		}
	}

	rec.Extras = remainingParams(raw)
	return out
}

// pricingTypeOf maps any written pricing type onto the two known values.
func pricingTypeOf(s string) domain.PricingType {
	if pt := extraction.ExtractPricingType(s); pt != "" {
		return pt
	}
	return domain.PricingNegotiable
}

// Normalize maps synonym keys of raw onto the canonical record for a listing
// of category. It never fails: missing or malformed values come back empty,
// and the pricing type defaults to Negotiable.
func Normalize(raw map[string]any, category domain.Category) domain.StructuredRecord {
	rec := normalize(raw, category).record
	if rec.PricingType == "" {
		rec.PricingType = domain.PricingNegotiable
	}
	return rec
}

// Resolve runs Normalize and then derives every field still missing from the
// title and description.
func Resolve(in Input) domain.StructuredRecord {
	n := normalize(in.Raw, in.Category)
	rec := n.record
	text := strings.TrimSpace(in.Title + "\n" + in.Description)

	if rec.Location == "" {
		rec.Location = extraction.ExtractLocation(text)
	}
	if rec.Phone == "" {
		rec.Phone = extraction.ExtractPhone(text)
	}
	if rec.Price == nil {
		rec.Price = extraction.ExtractPrice(text)
	}
	if !n.pricingSourced {
		rec.PricingType = extraction.ExtractPricingType(text)
	}
	if rec.PricingType == "" {
		rec.PricingType = domain.PricingNegotiable
	}

	// Filled for every category; matching only weighs the year where the
	// category has a model identity.
	if rec.ModelName == "" {
		rec.ModelName = extraction.ExtractModel(text, in.Title)
	}
	if rec.ManufactureYear == nil {
		rec.ManufactureYear = extraction.ExtractYear(text)
	}

	rec.SubCategory = resolveSubCategory(in.Category, rec.SubCategory, text+" "+rec.ModelName)
	return rec
}

func resolveSubCategory(category domain.Category, current, text string) string {
	if category == domain.CategoryVehicle && !extraction.IsVehicleSubCategory(current) {
		if inferred := extraction.ExtractSubCategory(category, text); inferred != extraction.DefaultSubCategory || current == "" {
			return inferred
		}
		return current
	}
	if current == "" {
		return extraction.ExtractSubCategory(category, text)
	}
	return current
}

// PricingSourced reports whether raw names a pricing type under any synonym
// (salary type included for jobs), recognised or not.
func PricingSourced(raw map[string]any, category domain.Category) bool {
	return normalize(raw, category).pricingSourced
}
