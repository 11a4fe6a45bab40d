package port

import (
	"context"
	"time"

	"github.com/google/uuid"

	"listing-service/internal/core/domain"
)

// DraftStoragePort keeps listings that were extracted but not submitted.
type DraftStoragePort interface {
	Create(ctx context.Context, draft domain.Draft) error
	// Get returns domain.ErrNotFound for drafts of other owners
	Get(ctx context.Context, id uuid.UUID, ownerEmail string) (*domain.Draft, error)
	Delete(ctx context.Context, id uuid.UUID, ownerEmail string) error
}

// ListingStoragePort persists submitted listings.
type ListingStoragePort interface {
	Create(ctx context.Context, listing domain.Listing) (int64, error)
	GetByID(ctx context.Context, id int64) (*domain.Listing, error)
	ListByOwner(ctx context.Context, ownerEmail string, limit int) ([]domain.Listing, error)
	// ListRecentApproved returns up to limit approved listings, newest first
	ListRecentApproved(ctx context.Context, limit int) ([]domain.Listing, error)
	// FindCandidates pre-filters approved listings on indexed columns only;
	// callers still run the match engine over the result.
	FindCandidates(ctx context.Context, query domain.SearchQuery, limit int) ([]domain.Listing, error)
	// ArchiveExpired archives approved listings whose validity ended before now
	ArchiveExpired(ctx context.Context, now time.Time) (int64, error)
}

type WantedStoragePort interface {
	Create(ctx context.Context, wanted domain.WantedRequest) (int64, error)
	GetByID(ctx context.Context, id int64) (*domain.WantedRequest, error)
	ListOpen(ctx context.Context, filter domain.WantedFilter) ([]domain.WantedRequest, error)
	ListAllOpen(ctx context.Context) ([]domain.WantedRequest, error)
	ListByUser(ctx context.Context, userEmail string, limit int) ([]domain.WantedRequest, error)
	// Close returns domain.ErrNotFound when no open request of userEmail has id
	Close(ctx context.Context, id int64, userEmail string) error
}

type SavedSearchStoragePort interface {
	Create(ctx context.Context, search domain.SavedSearch) (int64, error)
	ListByUser(ctx context.Context, userEmail string) ([]domain.SavedSearch, error)
	ListAll(ctx context.Context) ([]domain.SavedSearch, error)
	Delete(ctx context.Context, id int64, userEmail string) error
}

type NotificationStoragePort interface {
	// Insert stores n unless a notification with the same dedupe key exists.
	// inserted is false for duplicates.
	Insert(ctx context.Context, n domain.Notification) (inserted bool, err error)
	ListByUser(ctx context.Context, userEmail string, limit int) ([]domain.Notification, error)
}

// ExtractStorePort is the short-lived per-user store that collects AI
// extraction results across client round trips until the draft is submitted.
type ExtractStorePort interface {
	Save(ctx context.Context, userEmail string, draftID uuid.UUID, fields map[string]any) error
	Load(ctx context.Context, userEmail string, draftID uuid.UUID) (map[string]any, error)
	Delete(ctx context.Context, userEmail string, draftID uuid.UUID) error
}
