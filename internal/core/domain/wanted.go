package domain

import "time"

type WantedStatus string

const (
	WantedOpen   WantedStatus = "open"
	WantedClosed WantedStatus = "closed"
)

const MinWantedTitleLength = 6

// WantedRequest is a buyer's "looking for" post. Its criterion is matched
// against every new listing.
type WantedRequest struct {
	ID          int64
	UserEmail   string
	Title       string
	Description string
	Criterion   MatchCriterion
	Status      WantedStatus
	CreatedAt   time.Time
}

// WantedFilter narrows the public list of open wanted requests.
type WantedFilter struct {
	Query    string
	Category Category
	Location string
	Limit    int
}

// SavedSearch is a stored search a user wants to be alerted about.
type SavedSearch struct {
	ID        int64
	UserEmail string
	Name      string
	Criterion MatchCriterion
	CreatedAt time.Time
}
