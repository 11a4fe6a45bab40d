package classifier

import (
	"regexp"
	"strings"

	"listing-service/internal/core/domain"
)

type categoryRule struct {
	category domain.Category
	re       *regexp.Regexp
}

func newCategoryRule(category domain.Category, words ...string) categoryRule {
	parts := make([]string, 0, len(words))
	for _, w := range words {
		fields := strings.Fields(w)
		for i, f := range fields {
			fields[i] = regexp.QuoteMeta(f)
		}
		parts = append(parts, strings.Join(fields, `[\s-]*`))
	}
	return categoryRule{
		category: category,
		re:       regexp.MustCompile(`(?i)\b(?:` + strings.Join(parts, "|") + `)\b`),
	}
}

// heuristicRules are tried in order; the first hit decides.
var heuristicRules = []categoryRule{
	newCategoryRule(domain.CategoryVehicle,
		"car", "cars", "van", "bus", "lorry", "truck", "bike", "motorbike", "motorcycle", "scooter",
		"three wheeler", "tuk", "jeep", "suv", "sedan", "hatchback", "vehicle",
		"toyota", "honda", "nissan", "suzuki", "mazda", "mitsubishi", "hyundai", "kia",
		"bajaj", "yamaha", "tvs", "isuzu", "daihatsu", "perodua", "mahindra"),
	newCategoryRule(domain.CategoryProperty,
		"house", "land", "apartment", "flat", "annex", "annexe", "room", "rooms", "perch", "perches",
		"acre", "acres", "villa", "bungalow", "boarding", "property", "rent", "lease"),
	newCategoryRule(domain.CategoryJob,
		"job", "jobs", "vacancy", "vacancies", "hiring", "salary", "recruitment", "career",
		"apply", "cv", "employment", "part time", "full time"),
	newCategoryRule(domain.CategoryMobile,
		"phone", "phones", "mobile", "smartphone", "iphone", "galaxy", "redmi", "xiaomi", "oppo",
		"vivo", "huawei", "nokia", "pixel", "oneplus", "realme", "tablet", "ipad"),
	newCategoryRule(domain.CategoryElectronic,
		"tv", "television", "laptop", "computer", "pc", "fridge", "refrigerator", "washing machine",
		"air conditioner", "ac", "camera", "speaker", "speakers", "playstation", "ps4", "ps5",
		"xbox", "monitor", "printer", "electronics"),
	newCategoryRule(domain.CategoryHomeGarden,
		"sofa", "chair", "chairs", "table", "bed", "wardrobe", "cupboard", "furniture", "dining",
		"garden", "plant", "plants", "pots", "lawn", "mower", "curtains", "kitchen", "decor"),
}

// Heuristic classifies text by keyword rules alone. It returns Other when no
// rule matches.
func Heuristic(text string) domain.Category {
	for _, r := range heuristicRules {
		if r.re.MatchString(text) {
			return r.category
		}
	}
	return domain.CategoryOther
}
