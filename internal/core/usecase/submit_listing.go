package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/mmcloughlin/geohash"

	"listing-service/internal/contextkeys"
	"listing-service/internal/core/domain"
	"listing-service/internal/core/extraction"
	"listing-service/internal/core/normalizer"
	"listing-service/internal/core/port"
	"listing-service/internal/core/port/usecases_port"
)

const geohashPrecision = 7

type SubmitListingUseCase struct {
	drafts   port.DraftStoragePort
	extracts port.ExtractStorePort
	listings port.ListingStoragePort
	events   port.ListingEventsPort
}

func NewSubmitListingUseCase(
	drafts port.DraftStoragePort,
	extracts port.ExtractStorePort,
	listings port.ListingStoragePort,
	events port.ListingEventsPort,
) *SubmitListingUseCase {
	return &SubmitListingUseCase{
		drafts:   drafts,
		extracts: extracts,
		listings: listings,
		events:   events,
	}
}

var _ usecases_port.SubmitListingUseCasePort = (*SubmitListingUseCase)(nil)

// Execute turns a draft into an approved listing. The client-edited fields
// are normalized again and completed from the text before validation.
func (uc *SubmitListingUseCase) Execute(ctx context.Context, input usecases_port.SubmitListingInput) (*domain.Listing, error) {
	owner := normalizeEmail(input.OwnerEmail)
	ucLogger := contextkeys.LoggerFromContext(ctx).WithFields(port.Fields{
		"use_case": "SubmitListing",
		"draft_id": input.DraftID,
		"owner":    owner,
	})
	ucLogger.Info("Use case started", nil)

	if owner == "" {
		return nil, validationErrorf("owner email is required")
	}

	draft, err := uc.drafts.Get(ctx, input.DraftID, owner)
	if err != nil {
		ucLogger.Error("Failed to load draft", err, nil)
		return nil, fmt.Errorf("failed to load draft %s: %w", input.DraftID, err)
	}

	category := draft.Category
	if c, ok := domain.ParseCategory(input.Category); ok {
		category = c
	}
	title := firstNonBlank(input.Title, draft.Title)
	description := firstNonBlank(input.Description, draft.Description)

	record := draft.Record.Clone()
	if len(input.Fields) > 0 || category != draft.Category {
		raw := input.Fields
		if len(raw) == 0 {
			raw = recordToMap(draft.Record)
			if category != draft.Category {
				// the old sub-category belongs to the old vocabulary
				delete(raw, domain.FieldSubCategory)
			}
		}
		record = normalizer.Resolve(normalizer.Input{
			Raw:         raw,
			Category:    category,
			Title:       title,
			Description: description,
		})
	}

	if err := validateListingText(title, description); err != nil {
		ucLogger.Warn("Listing rejected", port.Fields{"reason": err.Error()})
		return nil, err
	}
	if err := validateRecord(category, record); err != nil {
		ucLogger.Warn("Listing rejected", port.Fields{"reason": err.Error()})
		return nil, err
	}

	now := time.Now().UTC()
	listing := domain.Listing{
		OwnerEmail:  owner,
		Title:       title,
		Description: description,
		Category:    category,
		Record:      record,
		Status:      domain.ListingApproved,
		CreatedAt:   now,
		ValidUntil:  now.Add(domain.ListingLifetime),
	}
	if place, ok := extraction.LookupPlace(record.Location); ok {
		listing.Geohash = geohash.EncodeWithPrecision(place.Lat, place.Lon, geohashPrecision)
	}

	id, err := uc.listings.Create(ctx, listing)
	if err != nil {
		ucLogger.Error("Failed to store listing", err, nil)
		return nil, fmt.Errorf("failed to store listing: %w", err)
	}
	listing.ID = id

	if err := uc.drafts.Delete(ctx, draft.ID, owner); err != nil {
		ucLogger.Warn("Failed to delete submitted draft", port.Fields{"error": err.Error()})
	}
	if err := uc.extracts.Delete(ctx, owner, draft.ID); err != nil {
		ucLogger.Warn("Failed to clear side store", port.Fields{"error": err.Error()})
	}

	// The listing is already live; matching can be replayed from the store.
	if err := uc.events.PublishListingSubmitted(ctx, listing); err != nil {
		ucLogger.Error("Failed to publish listing submitted event", err, port.Fields{"listing_id": id})
	}

	ucLogger.Info("Use case finished successfully", port.Fields{"listing_id": id, "category": category})
	return &listing, nil
}

func firstNonBlank(values ...string) string {
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			return v
		}
	}
	return ""
}

// recordToMap feeds an already resolved record back into the normalizer.
func recordToMap(rec domain.StructuredRecord) map[string]any {
	m := make(map[string]any, len(rec.Extras)+7)
	for k, v := range rec.Extras {
		m[k] = v
	}
	m[domain.FieldLocation] = rec.Location
	m[domain.FieldPricingType] = string(rec.PricingType)
	m[domain.FieldPhone] = rec.Phone
	m[domain.FieldModelName] = rec.ModelName
	m[domain.FieldSubCategory] = rec.SubCategory
	if rec.Price != nil {
		m[domain.FieldPrice] = *rec.Price
	}
	if rec.ManufactureYear != nil {
		m[domain.FieldManufactureYear] = float64(*rec.ManufactureYear)
	}
	return m
}
