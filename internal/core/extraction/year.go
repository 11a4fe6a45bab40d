package extraction

import (
	"regexp"
	"strconv"

	"listing-service/internal/core/domain"
)

var yearRe = regexp.MustCompile(`\b((?:19|20)\d{2})\b`)

// ExtractYear returns the first 19xx/20xx word of text if it lies within the
// accepted manufacture year range. Later candidates are not considered.
func ExtractYear(text string) *int {
	m := yearRe.FindStringSubmatch(text)
	if m == nil {
		return nil
	}
	y, err := strconv.Atoi(m[1])
	if err != nil || !domain.ValidManufactureYear(y) {
		return nil
	}
	return &y
}
