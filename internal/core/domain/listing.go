package domain

import (
	"time"

	"github.com/google/uuid"
)

type ListingStatus string

const (
	ListingApproved ListingStatus = "Approved"
	ListingArchived ListingStatus = "Archived"
)

// ListingLifetime is how long a submitted listing stays visible.
const ListingLifetime = 30 * 24 * time.Hour

// Listing is a submitted ad together with its structured record.
type Listing struct {
	ID          int64
	OwnerEmail  string
	Title       string
	Description string
	Category    Category
	Record      StructuredRecord
	Status      ListingStatus
	Geohash     string
	CreatedAt   time.Time
	ValidUntil  time.Time
}

// Draft is a listing that went through extraction but was not submitted yet.
type Draft struct {
	ID          uuid.UUID
	OwnerEmail  string
	Title       string
	Description string
	Category    Category
	Record      StructuredRecord
	CreatedAt   time.Time
}

// SearchQuery narrows the listings search. Criterion is evaluated by the
// match engine; Limit and Offset page the matched results.
type SearchQuery struct {
	Criterion MatchCriterion
	Text      string
	Limit     int
	Offset    int
}
