package port

import (
	"context"

	"listing-service/internal/core/domain"
)

// MailerPort delivers a plain text e-mail.
type MailerPort interface {
	Send(ctx context.Context, to, subject, body string) error
}

// ListingEventsPort publishes listing lifecycle events.
type ListingEventsPort interface {
	PublishListingSubmitted(ctx context.Context, listing domain.Listing) error
}

// CategoryClassifierPort picks a category for listing text. It never fails.
type CategoryClassifierPort interface {
	Classify(ctx context.Context, title, description string) domain.Category
}
