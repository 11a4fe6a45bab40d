package usecase

import (
	"context"
	"fmt"

	"listing-service/internal/contextkeys"
	"listing-service/internal/core/domain"
	"listing-service/internal/core/port"
	"listing-service/internal/core/port/usecases_port"
)

const myListingsLimit = 200

type GetListingUseCase struct {
	listings port.ListingStoragePort
}

func NewGetListingUseCase(listings port.ListingStoragePort) *GetListingUseCase {
	return &GetListingUseCase{listings: listings}
}

var _ usecases_port.GetListingUseCasePort = (*GetListingUseCase)(nil)

func (uc *GetListingUseCase) Execute(ctx context.Context, id int64) (*domain.Listing, error) {
	listing, err := uc.listings.GetByID(ctx, id)
	if err != nil {
		contextkeys.LoggerFromContext(ctx).Warn("Listing lookup failed", port.Fields{
			"use_case":   "GetListing",
			"listing_id": id,
			"error":      err.Error(),
		})
		return nil, fmt.Errorf("failed to get listing %d: %w", id, err)
	}
	return listing, nil
}

type ListMyListingsUseCase struct {
	listings port.ListingStoragePort
}

func NewListMyListingsUseCase(listings port.ListingStoragePort) *ListMyListingsUseCase {
	return &ListMyListingsUseCase{listings: listings}
}

var _ usecases_port.ListMyListingsUseCasePort = (*ListMyListingsUseCase)(nil)

func (uc *ListMyListingsUseCase) Execute(ctx context.Context, ownerEmail string) ([]domain.Listing, error) {
	owner := normalizeEmail(ownerEmail)
	if owner == "" {
		return nil, validationErrorf("owner email is required")
	}
	items, err := uc.listings.ListByOwner(ctx, owner, myListingsLimit)
	if err != nil {
		contextkeys.LoggerFromContext(ctx).Error("Failed to list listings", err, port.Fields{
			"use_case": "ListMyListings",
			"owner":    owner,
		})
		return nil, fmt.Errorf("failed to list listings of %s: %w", owner, err)
	}
	return items, nil
}
