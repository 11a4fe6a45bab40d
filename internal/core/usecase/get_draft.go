package usecase

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"listing-service/internal/contextkeys"
	"listing-service/internal/core/domain"
	"listing-service/internal/core/normalizer"
	"listing-service/internal/core/port"
	"listing-service/internal/core/port/usecases_port"
)

type GetDraftUseCase struct {
	drafts   port.DraftStoragePort
	extracts port.ExtractStorePort
}

func NewGetDraftUseCase(drafts port.DraftStoragePort, extracts port.ExtractStorePort) *GetDraftUseCase {
	return &GetDraftUseCase{drafts: drafts, extracts: extracts}
}

var _ usecases_port.GetDraftUseCasePort = (*GetDraftUseCase)(nil)

// Execute loads a draft of ownerEmail and overlays the latest extraction kept
// in the side store, so the verify page shows what the model found.
func (uc *GetDraftUseCase) Execute(ctx context.Context, id uuid.UUID, ownerEmail string) (*domain.Draft, error) {
	owner := normalizeEmail(ownerEmail)
	ucLogger := contextkeys.LoggerFromContext(ctx).WithFields(port.Fields{
		"use_case": "GetDraft",
		"draft_id": id,
		"owner":    owner,
	})
	ucLogger.Info("Use case started", nil)

	draft, err := uc.drafts.Get(ctx, id, owner)
	if err != nil {
		ucLogger.Error("Failed to load draft", err, nil)
		return nil, fmt.Errorf("failed to load draft %s: %w", id, err)
	}

	side, err := uc.extracts.Load(ctx, owner, id)
	if err != nil {
		ucLogger.Warn("Side store unavailable, returning stored draft", port.Fields{"error": err.Error()})
		return draft, nil
	}
	if len(side) > 0 {
		top := normalizer.Normalize(side, draft.Category)
		if !normalizer.PricingSourced(side, draft.Category) {
			top.PricingType = ""
		}
		draft.Record = overlayRecord(draft.Record, top)
	}

	ucLogger.Info("Use case finished successfully", port.Fields{"merged": len(side) > 0})
	return draft, nil
}

// overlayRecord copies every non-empty field of top over base.
func overlayRecord(base, top domain.StructuredRecord) domain.StructuredRecord {
	out := base.Clone()
	if !domain.IsBlank(top.Location) {
		out.Location = top.Location
	}
	if top.Price != nil {
		out.Price = top.Price
	}
	if top.PricingType != "" {
		out.PricingType = top.PricingType
	}
	if top.Phone != "" {
		out.Phone = top.Phone
	}
	if !domain.IsBlank(top.SubCategory) {
		out.SubCategory = top.SubCategory
	}
	if !domain.IsBlank(top.ModelName) {
		out.ModelName = top.ModelName
	}
	if top.ManufactureYear != nil {
		out.ManufactureYear = top.ManufactureYear
	}
	if out.PricingType == "" {
		out.PricingType = domain.PricingNegotiable
	}
	return out
}
