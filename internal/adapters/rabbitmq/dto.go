package rabbitmq_adapter

import (
	"time"

	"listing-service/internal/core/domain"
)

// ListingSubmittedEventDTO is the body of ListingSubmittedEvent 1.0.0.
type ListingSubmittedEventDTO struct {
	ListingID   int64     `json:"listing_id"`
	OwnerEmail  string    `json:"owner_email"`
	Category    string    `json:"category"`
	Title       string    `json:"title,omitempty"`
	SubmittedAt time.Time `json:"submitted_at"`
}

func toListingSubmittedDTO(l domain.Listing) ListingSubmittedEventDTO {
	submittedAt := l.CreatedAt
	if submittedAt.IsZero() {
		submittedAt = time.Now()
	}
	return ListingSubmittedEventDTO{
		ListingID:   l.ID,
		OwnerEmail:  l.OwnerEmail,
		Category:    string(l.Category),
		Title:       l.Title,
		SubmittedAt: submittedAt.UTC(),
	}
}
