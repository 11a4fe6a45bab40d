package usecases_port

import (
	"context"

	"listing-service/internal/core/domain"
)

type CreateWantedInput struct {
	UserEmail   string
	Title       string
	Description string
	Criterion   domain.MatchCriterion
}

type CreateWantedResult struct {
	Wanted       domain.WantedRequest
	MatchesCount int
}

type CreateWantedUseCasePort interface {
	Execute(ctx context.Context, input CreateWantedInput) (*CreateWantedResult, error)
}

type ListWantedUseCasePort interface {
	Execute(ctx context.Context, filter domain.WantedFilter) ([]domain.WantedRequest, error)
}

type ListMyWantedUseCasePort interface {
	Execute(ctx context.Context, userEmail string) ([]domain.WantedRequest, error)
}

type CloseWantedUseCasePort interface {
	Execute(ctx context.Context, id int64, userEmail string) error
}

type RespondToWantedInput struct {
	WantedID  int64
	ListingID int64
	UserEmail string
	Message   string
}

type RespondToWantedUseCasePort interface {
	Execute(ctx context.Context, input RespondToWantedInput) error
}
