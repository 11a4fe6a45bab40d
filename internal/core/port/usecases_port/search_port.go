package usecases_port

import (
	"context"

	"listing-service/internal/core/domain"
)

type SearchListingsUseCasePort interface {
	Execute(ctx context.Context, query domain.SearchQuery) ([]domain.Listing, error)
}

type ClassifyListingUseCasePort interface {
	Execute(ctx context.Context, title, description string) domain.Category
}

type ListNotificationsUseCasePort interface {
	Execute(ctx context.Context, userEmail string, limit int) ([]domain.Notification, error)
}

type ExpireListingsUseCasePort interface {
	Execute(ctx context.Context) (int64, error)
}

type GetListingUseCasePort interface {
	Execute(ctx context.Context, id int64) (*domain.Listing, error)
}

type ListMyListingsUseCasePort interface {
	Execute(ctx context.Context, ownerEmail string) ([]domain.Listing, error)
}
