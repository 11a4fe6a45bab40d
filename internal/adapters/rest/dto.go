package rest

import (
	"time"

	"listing-service/internal/core/domain"
)

type CreateDraftRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Category    string `json:"category"`
}

type DraftResponse struct {
	ID             string                  `json:"id"`
	Title          string                  `json:"title"`
	Description    string                  `json:"description"`
	Category       domain.Category         `json:"category"`
	StructuredData domain.StructuredRecord `json:"structured_data"`
	CreatedAt      time.Time               `json:"created_at"`
}

type SubmitListingRequest struct {
	DraftID        string         `json:"draft_id"`
	Title          string         `json:"title"`
	Description    string         `json:"description"`
	Category       string         `json:"category"`
	StructuredData map[string]any `json:"structured_data"`
}

type ListingResponse struct {
	ID             int64                   `json:"id"`
	OwnerEmail     string                  `json:"owner_email"`
	Title          string                  `json:"title"`
	Description    string                  `json:"description"`
	Category       domain.Category         `json:"category"`
	StructuredData domain.StructuredRecord `json:"structured_data"`
	Status         domain.ListingStatus    `json:"status"`
	Geohash        string                  `json:"geohash,omitempty"`
	CreatedAt      time.Time               `json:"created_at"`
	ValidUntil     time.Time               `json:"valid_until"`
}

type ClassifyRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}

type ClassifyResponse struct {
	Category domain.Category `json:"category"`
}

type CreateWantedRequest struct {
	Title       string                `json:"title"`
	Description string                `json:"description"`
	Criterion   domain.MatchCriterion `json:"criterion"`
}

type WantedResponse struct {
	ID          int64                 `json:"id"`
	UserEmail   string                `json:"user_email"`
	Title       string                `json:"title"`
	Description string                `json:"description"`
	Criterion   domain.MatchCriterion `json:"criterion"`
	Status      domain.WantedStatus   `json:"status"`
	CreatedAt   time.Time             `json:"created_at"`
}

type CreateWantedResponse struct {
	Wanted       WantedResponse `json:"wanted"`
	MatchesCount int            `json:"matches_count"`
}

type RespondToWantedRequest struct {
	ListingID int64  `json:"listing_id"`
	Message   string `json:"message"`
}

type CreateSavedSearchRequest struct {
	Name      string                `json:"name"`
	Criterion domain.MatchCriterion `json:"criterion"`
}

type SavedSearchResponse struct {
	ID        int64                 `json:"id"`
	Name      string                `json:"name"`
	Criterion domain.MatchCriterion `json:"criterion"`
	CreatedAt time.Time             `json:"created_at"`
}

type NotificationResponse struct {
	ID        int64                   `json:"id"`
	Type      domain.NotificationType `json:"type"`
	Title     string                  `json:"title"`
	Message   string                  `json:"message"`
	ListingID *int64                  `json:"listing_id,omitempty"`
	Meta      map[string]any          `json:"meta,omitempty"`
	CreatedAt time.Time               `json:"created_at"`
}

func toDraftResponse(d domain.Draft) DraftResponse {
	return DraftResponse{
		ID:             d.ID.String(),
		Title:          d.Title,
		Description:    d.Description,
		Category:       d.Category,
		StructuredData: d.Record,
		CreatedAt:      d.CreatedAt,
	}
}

func toListingResponse(l domain.Listing) ListingResponse {
	return ListingResponse{
		ID:             l.ID,
		OwnerEmail:     l.OwnerEmail,
		Title:          l.Title,
		Description:    l.Description,
		Category:       l.Category,
		StructuredData: l.Record,
		Status:         l.Status,
		Geohash:        l.Geohash,
		CreatedAt:      l.CreatedAt,
		ValidUntil:     l.ValidUntil,
	}
}

func toListingResponses(listings []domain.Listing) []ListingResponse {
	out := make([]ListingResponse, len(listings))
	for i, l := range listings {
		out[i] = toListingResponse(l)
	}
	return out
}

func toWantedResponse(w domain.WantedRequest) WantedResponse {
	return WantedResponse{
		ID:          w.ID,
		UserEmail:   w.UserEmail,
		Title:       w.Title,
		Description: w.Description,
		Criterion:   w.Criterion,
		Status:      w.Status,
		CreatedAt:   w.CreatedAt,
	}
}

func toWantedResponses(items []domain.WantedRequest) []WantedResponse {
	out := make([]WantedResponse, len(items))
	for i, w := range items {
		out[i] = toWantedResponse(w)
	}
	return out
}

func toSavedSearchResponse(s domain.SavedSearch) SavedSearchResponse {
	return SavedSearchResponse{ID: s.ID, Name: s.Name, Criterion: s.Criterion, CreatedAt: s.CreatedAt}
}

func toNotificationResponses(items []domain.Notification) []NotificationResponse {
	out := make([]NotificationResponse, len(items))
	for i, n := range items {
		out[i] = NotificationResponse{
			ID:        n.ID,
			Type:      n.Type,
			Title:     n.Title,
			Message:   n.Message,
			ListingID: n.ListingID,
			Meta:      n.Meta,
			CreatedAt: n.CreatedAt,
		}
	}
	return out
}
