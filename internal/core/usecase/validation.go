package usecase

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"listing-service/internal/core/domain"
	"listing-service/internal/core/extraction"
)

const (
	minTitleLength       = 3
	maxTitleLength       = 120
	minDescriptionLength = 10
	maxDescriptionLength = 5000
	minModelNameLength   = 2
)

func validationErrorf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", domain.ErrValidation, fmt.Sprintf(format, args...))
}

func validateListingText(title, description string) error {
	if n := utf8.RuneCountInString(strings.TrimSpace(title)); n < minTitleLength || n > maxTitleLength {
		return validationErrorf("title must be between %d and %d characters", minTitleLength, maxTitleLength)
	}
	if n := utf8.RuneCountInString(strings.TrimSpace(description)); n < minDescriptionLength || n > maxDescriptionLength {
		return validationErrorf("description must be between %d and %d characters", minDescriptionLength, maxDescriptionLength)
	}
	return nil
}

// validateRecord checks that a record is complete enough to be published.
func validateRecord(category domain.Category, rec domain.StructuredRecord) error {
	if domain.IsBlank(rec.Location) {
		return validationErrorf("location is required")
	}
	if rec.Price == nil {
		return validationErrorf("price is required")
	}
	if rec.PricingType != domain.PricingFixed && rec.PricingType != domain.PricingNegotiable {
		return validationErrorf("pricing type must be %q or %q", domain.PricingFixed, domain.PricingNegotiable)
	}
	if !extraction.IsCanonicalPhone(rec.Phone) {
		return validationErrorf("phone must be in +94XXXXXXXXX format")
	}
	if category == domain.CategoryVehicle {
		if utf8.RuneCountInString(strings.TrimSpace(rec.ModelName)) < minModelNameLength {
			return validationErrorf("model name must be at least %d characters", minModelNameLength)
		}
		if rec.ManufactureYear == nil || !domain.ValidManufactureYear(*rec.ManufactureYear) {
			return validationErrorf("manufacture year must be between %d and %d", domain.MinManufactureYear, domain.MaxManufactureYear)
		}
	}
	return nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
