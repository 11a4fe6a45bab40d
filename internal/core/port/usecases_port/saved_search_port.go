package usecases_port

import (
	"context"

	"listing-service/internal/core/domain"
)

type CreateSavedSearchUseCasePort interface {
	Execute(ctx context.Context, userEmail, name string, criterion domain.MatchCriterion) (*domain.SavedSearch, error)
}

type ListSavedSearchesUseCasePort interface {
	Execute(ctx context.Context, userEmail string) ([]domain.SavedSearch, error)
}

type DeleteSavedSearchUseCasePort interface {
	Execute(ctx context.Context, id int64, userEmail string) error
}
