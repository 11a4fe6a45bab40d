package usecase

import (
	"context"
	"fmt"

	"listing-service/internal/contextkeys"
	"listing-service/internal/core/domain"
	"listing-service/internal/core/matching"
	"listing-service/internal/core/port"
	"listing-service/internal/core/port/usecases_port"
)

const (
	DefaultSearchLimit = 20
	MaxSearchLimit     = 100
	// rows pulled from storage before the match engine narrows them down
	searchCandidateLimit = 1000
)

type SearchListingsUseCase struct {
	listings port.ListingStoragePort
}

func NewSearchListingsUseCase(listings port.ListingStoragePort) *SearchListingsUseCase {
	return &SearchListingsUseCase{listings: listings}
}

var _ usecases_port.SearchListingsUseCasePort = (*SearchListingsUseCase)(nil)

// Execute pre-filters in storage and lets the match engine decide. Paging is
// applied to the matched listings, so pages are never short because of the
// post-filter.
func (uc *SearchListingsUseCase) Execute(ctx context.Context, query domain.SearchQuery) ([]domain.Listing, error) {
	if query.Limit <= 0 {
		query.Limit = DefaultSearchLimit
	}
	if query.Limit > MaxSearchLimit {
		query.Limit = MaxSearchLimit
	}
	if query.Offset < 0 {
		query.Offset = 0
	}

	ucLogger := contextkeys.LoggerFromContext(ctx).WithFields(port.Fields{
		"use_case": "SearchListings",
		"category": query.Criterion.Category,
		"text":     query.Text,
		"limit":    query.Limit,
		"offset":   query.Offset,
	})
	ucLogger.Info("Use case started", nil)

	if err := query.Criterion.Validate(); err != nil {
		ucLogger.Warn("Search criterion rejected", port.Fields{"reason": err.Error()})
		return nil, err
	}

	candidates, err := uc.listings.FindCandidates(ctx, query, searchCandidateLimit)
	if err != nil {
		ucLogger.Error("Failed to load candidates", err, nil)
		return nil, fmt.Errorf("failed to search listings: %w", err)
	}

	matched := matching.Filter(candidates, query.Criterion)
	page := paginate(matched, query.Offset, query.Limit)

	ucLogger.Info("Use case finished successfully", port.Fields{
		"candidates": len(candidates),
		"matched":    len(matched),
		"returned":   len(page),
	})
	return page, nil
}

func paginate[T any](items []T, offset, limit int) []T {
	if offset >= len(items) {
		return []T{}
	}
	end := offset + limit
	if end > len(items) {
		end = len(items)
	}
	return items[offset:end]
}
