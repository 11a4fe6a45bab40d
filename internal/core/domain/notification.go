package domain

import (
	"fmt"
	"time"
)

type NotificationType string

const (
	NotifyWantedMatchBuyer   NotificationType = "wanted_match_buyer"
	NotifyWantedMatchSeller  NotificationType = "wanted_match_seller"
	NotifyWantedPosted       NotificationType = "wanted_posted"
	NotifyWantedResponse     NotificationType = "wanted_response"
	NotifyWantedResponseSent NotificationType = "wanted_response_sent"
	NotifySavedSearchMatch   NotificationType = "saved_search_match"
)

type Notification struct {
	ID          int64
	Type        NotificationType
	Title       string
	Message     string
	TargetEmail string
	ListingID   *int64
	Meta        map[string]any
	// DedupeKey is unique per (type, criterion, listing); a second insert
	// with the same key is dropped.
	DedupeKey string
	CreatedAt time.Time
}

// DedupeKey builds the stable key of a notification about listingID sent
// because of criterionID.
func DedupeKey(t NotificationType, criterionID, listingID int64) string {
	return fmt.Sprintf("%s:%d:%d", t, criterionID, listingID)
}

// MatchReport counts notifications created by one matching sweep.
type MatchReport struct {
	Evaluated      int `json:"evaluated"`
	Matched        int `json:"matched"`
	BuyerNotified  int `json:"buyer_notified"`
	SellerNotified int `json:"seller_notified"`
	SavedSearchHit int `json:"saved_search_notified"`
}
