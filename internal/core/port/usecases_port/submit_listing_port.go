package usecases_port

import (
	"context"

	"github.com/google/uuid"

	"listing-service/internal/core/domain"
)

type SubmitListingInput struct {
	DraftID     uuid.UUID
	OwnerEmail  string
	Title       string
	Description string
	Category    string
	// Fields are the client-edited structured fields; they are normalized again
	Fields map[string]any
}

type SubmitListingUseCasePort interface {
	Execute(ctx context.Context, input SubmitListingInput) (*domain.Listing, error)
}
