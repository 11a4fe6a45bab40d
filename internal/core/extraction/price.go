package extraction

import (
	"math"
	"regexp"
	"strconv"
	"strings"

	"listing-service/internal/core/domain"
)

var (
	currencyAmountRe = regexp.MustCompile(`(?i)\b(?:rs|lkr)[\s:.]*([0-9][0-9,]*(?:\.[0-9]+)?)\b`)
	labelAmountRe    = regexp.MustCompile(`(?i)\bprice[\s:.]*([0-9][0-9,]*(?:\.[0-9]+)?)\b`)
	anyAmountRe      = regexp.MustCompile(`\b([0-9][0-9,]{2,}(?:\.[0-9]+)?)\b`)
)

func parseAmount(s string) (float64, bool) {
	f, err := strconv.ParseFloat(strings.ReplaceAll(s, ",", ""), 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

// ExtractPrice looks for an "Rs"/"LKR" amount, then a "price" label, and
// finally takes the largest run of three or more digits in the text. The last
// step is best-effort: phone numbers and years can win it.
func ExtractPrice(text string) *float64 {
	if m := currencyAmountRe.FindStringSubmatch(text); m != nil {
		if f, ok := parseAmount(m[1]); ok {
			return &f
		}
	}
	if m := labelAmountRe.FindStringSubmatch(text); m != nil {
		if f, ok := parseAmount(m[1]); ok {
			return &f
		}
	}

	var best float64
	found := false
	for _, m := range anyAmountRe.FindAllStringSubmatch(text, -1) {
		if f, ok := parseAmount(m[1]); ok && (!found || f > best) {
			best, found = f, true
		}
	}
	if !found || best <= 0 {
		return nil
	}
	return &best
}

// ExtractPricingType reads a pricing type out of text or a raw field value.
// Any mention of "nego" wins over "fixed", so "not negotiable" still reads as
// Negotiable. It returns "" when neither keyword appears.
func ExtractPricingType(text string) domain.PricingType {
	lower := strings.ToLower(text)
	switch {
	case strings.Contains(lower, "nego"):
		return domain.PricingNegotiable
	case strings.Contains(lower, "fixed"):
		return domain.PricingFixed
	}
	return ""
}
