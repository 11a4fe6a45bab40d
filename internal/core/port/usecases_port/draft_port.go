package usecases_port

import (
	"context"

	"github.com/google/uuid"

	"listing-service/internal/core/domain"
)

type CreateDraftInput struct {
	OwnerEmail  string
	Title       string
	Description string
	// Category may be empty or loosely written; it is classified when unusable
	Category string
}

type CreateDraftUseCasePort interface {
	Execute(ctx context.Context, input CreateDraftInput) (*domain.Draft, error)
}

type GetDraftUseCasePort interface {
	Execute(ctx context.Context, id uuid.UUID, ownerEmail string) (*domain.Draft, error)
}
