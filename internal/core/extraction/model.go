package extraction

import (
	"regexp"
	"strings"
)

var brands = []string{
	// vehicles
	"Royal Enfield", "Honda", "Yamaha", "Suzuki", "Bajaj", "TVS", "Hero", "Kawasaki",
	"Mahindra", "Vespa", "Toyota", "Nissan", "Mazda", "Mitsubishi", "Hyundai", "Kia",
	"Perodua", "Tata", "Isuzu", "Daihatsu", "Subaru", "BMW", "Mercedes Benz", "Audi",
	// phones and electronics
	"Apple", "Samsung", "Huawei", "Xiaomi", "Redmi", "Oppo", "Vivo", "Nokia", "OnePlus",
	"Realme", "Google Pixel", "Sony", "LG", "Panasonic", "Dell", "HP", "Lenovo", "Asus", "Acer",
}

// brandNames maps the lower-cased brand to its display spelling.
var brandNames = make(map[string]string, len(brands))

var brandRe = func() *regexp.Regexp {
	parts := make([]string, 0, len(brands))
	for _, b := range brands {
		brandNames[brandKey(b)] = b
		words := strings.Fields(b)
		for i, w := range words {
			words[i] = regexp.QuoteMeta(w)
		}
		parts = append(parts, strings.Join(words, `\s+`))
	}
	return regexp.MustCompile(`(?i)\b(?:` + strings.Join(parts, "|") + `)\b`)
}()

func brandKey(s string) string {
	return strings.ToLower(strings.Join(strings.Fields(s), " "))
}

var (
	parentheticalRe = regexp.MustCompile(`\(.*?\)`)
	modelJunkRe     = regexp.MustCompile(`[^A-Za-z0-9\s\-]`)
	yearTokenRe     = regexp.MustCompile(`^(?:19|20)\d{2}$`)
)

// tokens that end a model name when they follow the brand
var modelStopWords = map[string]struct{}{
	"rs": {}, "lkr": {}, "price": {}, "for": {}, "in": {}, "at": {}, "call": {},
	"with": {}, "sale": {}, "used": {}, "brand": {}, "new": {},
}

const maxModelTokens = 2

// ExtractModel finds the first known brand in text and returns it with up to
// two following tokens ("Honda Civic", "Apple iPhone 13"). Years, prices and
// clause punctuation end the model early. Without a brand it falls back to
// the part of title before the first "(".
func ExtractModel(text, title string) string {
	loc := brandRe.FindStringIndex(text)
	if loc == nil {
		before, _, _ := strings.Cut(title, "(")
		return strings.TrimSpace(before)
	}

	parts := []string{brandNames[brandKey(text[loc[0]:loc[1]])]}
	rest := parentheticalRe.ReplaceAllString(text[loc[1]:], " ")
	for _, tok := range strings.Fields(rest) {
		if len(parts) > maxModelTokens {
			break
		}
		clean := strings.TrimSpace(modelJunkRe.ReplaceAllString(tok, ""))
		if clean == "" || yearTokenRe.MatchString(clean) {
			break
		}
		if _, stop := modelStopWords[strings.ToLower(clean)]; stop {
			break
		}
		parts = append(parts, clean)
		if strings.ContainsAny(tok[len(tok)-1:], ",;.:!/") {
			break
		}
	}
	return strings.Join(parts, " ")
}
