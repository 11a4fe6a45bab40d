package usecases_port

import (
	"context"

	"listing-service/internal/core/domain"
)

type NotifyForListingUseCasePort interface {
	Execute(ctx context.Context, listingID int64) (*domain.MatchReport, error)
}
