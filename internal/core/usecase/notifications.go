package usecase

import (
	"context"
	"fmt"
	"time"

	"listing-service/internal/core/domain"
	"listing-service/internal/core/port"
)

// notifier stores a notification and mails it when it is new. Duplicates
// (same dedupe key) are neither stored nor mailed again.
type notifier struct {
	store   port.NotificationStoragePort
	mailer  port.MailerPort
	metrics port.MetricsPort
}

func (n notifier) deliver(ctx context.Context, logger port.LoggerPort, notification domain.Notification) (bool, error) {
	if notification.CreatedAt.IsZero() {
		notification.CreatedAt = time.Now().UTC()
	}

	inserted, err := n.store.Insert(ctx, notification)
	if err != nil {
		return false, fmt.Errorf("failed to store %s notification for %s: %w", notification.Type, notification.TargetEmail, err)
	}
	if !inserted {
		logger.Debug("Notification already sent", port.Fields{"dedupe_key": notification.DedupeKey})
		return false, nil
	}
	n.metrics.NotificationCreated(string(notification.Type))

	if err := n.mailer.Send(ctx, notification.TargetEmail, notification.Title, notification.Message); err != nil {
		logger.Warn("Failed to e-mail notification", port.Fields{
			"type":   notification.Type,
			"target": notification.TargetEmail,
			"error":  err.Error(),
		})
	}
	return true, nil
}

func listingIDPtr(id int64) *int64 { return &id }

func wantedMatchBuyer(w domain.WantedRequest, l domain.Listing) domain.Notification {
	return domain.Notification{
		Type:        domain.NotifyWantedMatchBuyer,
		Title:       "New ad matches your Wanted request",
		Message:     fmt.Sprintf("Match: %q. View the ad for details.", l.Title),
		TargetEmail: w.UserEmail,
		ListingID:   listingIDPtr(l.ID),
		Meta:        map[string]any{"wanted_id": w.ID},
		DedupeKey:   domain.DedupeKey(domain.NotifyWantedMatchBuyer, w.ID, l.ID),
	}
}

// wantedMatchSeller is sent both when a new listing meets an open request and
// when a new request finds existing listings; the shared key keeps it single.
func wantedMatchSeller(w domain.WantedRequest, l domain.Listing) domain.Notification {
	return domain.Notification{
		Type:        domain.NotifyWantedMatchSeller,
		Title:       "Immediate buyer request for your item",
		Message:     fmt.Sprintf("A buyer posted a request: %q. Your ad %q may match.", w.Title, l.Title),
		TargetEmail: l.OwnerEmail,
		ListingID:   listingIDPtr(l.ID),
		Meta:        map[string]any{"wanted_id": w.ID},
		DedupeKey:   domain.DedupeKey(domain.NotifyWantedMatchSeller, w.ID, l.ID),
	}
}

func savedSearchMatch(s domain.SavedSearch, l domain.Listing) domain.Notification {
	return domain.Notification{
		Type:        domain.NotifySavedSearchMatch,
		Title:       "New ad matches your saved search",
		Message:     fmt.Sprintf("%q matches your saved search %q.", l.Title, s.Name),
		TargetEmail: s.UserEmail,
		ListingID:   listingIDPtr(l.ID),
		Meta:        map[string]any{"saved_search_id": s.ID},
		DedupeKey:   domain.DedupeKey(domain.NotifySavedSearchMatch, s.ID, l.ID),
	}
}
