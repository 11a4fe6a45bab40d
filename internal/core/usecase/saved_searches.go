package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"listing-service/internal/contextkeys"
	"listing-service/internal/core/domain"
	"listing-service/internal/core/port"
	"listing-service/internal/core/port/usecases_port"
)

const maxSavedSearchNameLength = 100

type CreateSavedSearchUseCase struct {
	searches port.SavedSearchStoragePort
}

func NewCreateSavedSearchUseCase(searches port.SavedSearchStoragePort) *CreateSavedSearchUseCase {
	return &CreateSavedSearchUseCase{searches: searches}
}

var _ usecases_port.CreateSavedSearchUseCasePort = (*CreateSavedSearchUseCase)(nil)

func (uc *CreateSavedSearchUseCase) Execute(ctx context.Context, userEmail, name string, criterion domain.MatchCriterion) (*domain.SavedSearch, error) {
	email := normalizeEmail(userEmail)
	ucLogger := contextkeys.LoggerFromContext(ctx).WithFields(port.Fields{
		"use_case": "CreateSavedSearch",
		"user":     email,
	})
	ucLogger.Info("Use case started", nil)

	if email == "" {
		return nil, validationErrorf("user email is required")
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, validationErrorf("name is required")
	}
	if len([]rune(name)) > maxSavedSearchNameLength {
		return nil, validationErrorf("name must be at most %d characters", maxSavedSearchNameLength)
	}
	if err := criterion.Validate(); err != nil {
		ucLogger.Warn("Criterion rejected", port.Fields{"reason": err.Error()})
		return nil, err
	}

	search := domain.SavedSearch{
		UserEmail: email,
		Name:      name,
		Criterion: criterion,
		CreatedAt: time.Now().UTC(),
	}
	id, err := uc.searches.Create(ctx, search)
	if err != nil {
		ucLogger.Error("Failed to store saved search", err, nil)
		return nil, fmt.Errorf("failed to store saved search: %w", err)
	}
	search.ID = id

	ucLogger.Info("Use case finished successfully", port.Fields{"saved_search_id": id})
	return &search, nil
}

type ListSavedSearchesUseCase struct {
	searches port.SavedSearchStoragePort
}

func NewListSavedSearchesUseCase(searches port.SavedSearchStoragePort) *ListSavedSearchesUseCase {
	return &ListSavedSearchesUseCase{searches: searches}
}

var _ usecases_port.ListSavedSearchesUseCasePort = (*ListSavedSearchesUseCase)(nil)

func (uc *ListSavedSearchesUseCase) Execute(ctx context.Context, userEmail string) ([]domain.SavedSearch, error) {
	email := normalizeEmail(userEmail)
	if email == "" {
		return nil, validationErrorf("user email is required")
	}

	items, err := uc.searches.ListByUser(ctx, email)
	if err != nil {
		contextkeys.LoggerFromContext(ctx).Error("Failed to list saved searches", err, port.Fields{
			"use_case": "ListSavedSearches",
			"user":     email,
		})
		return nil, fmt.Errorf("failed to list saved searches of %s: %w", email, err)
	}
	return items, nil
}

type DeleteSavedSearchUseCase struct {
	searches port.SavedSearchStoragePort
}

func NewDeleteSavedSearchUseCase(searches port.SavedSearchStoragePort) *DeleteSavedSearchUseCase {
	return &DeleteSavedSearchUseCase{searches: searches}
}

var _ usecases_port.DeleteSavedSearchUseCasePort = (*DeleteSavedSearchUseCase)(nil)

func (uc *DeleteSavedSearchUseCase) Execute(ctx context.Context, id int64, userEmail string) error {
	email := normalizeEmail(userEmail)
	ucLogger := contextkeys.LoggerFromContext(ctx).WithFields(port.Fields{
		"use_case":        "DeleteSavedSearch",
		"saved_search_id": id,
		"user":            email,
	})
	ucLogger.Info("Use case started", nil)

	if email == "" {
		return validationErrorf("user email is required")
	}
	if err := uc.searches.Delete(ctx, id, email); err != nil {
		ucLogger.Error("Failed to delete saved search", err, nil)
		return fmt.Errorf("failed to delete saved search %d: %w", id, err)
	}

	ucLogger.Info("Use case finished successfully", nil)
	return nil
}
