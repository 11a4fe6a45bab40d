package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	"golang.org/x/sync/errgroup"

	"listing-service/internal/contextkeys"
	"listing-service/internal/core/domain"
	"listing-service/internal/core/matching"
	"listing-service/internal/core/port"
	"listing-service/internal/core/port/usecases_port"
)

const (
	DefaultSweepLimit  = 1000
	defaultWantedLimit = 50
	maxWantedLimit     = 200
	myWantedLimit      = 200
)

type CreateWantedUseCase struct {
	wanted     port.WantedStoragePort
	listings   port.ListingStoragePort
	notifier   notifier
	metrics    port.MetricsPort
	sweepLimit int
	workers    int
}

func NewCreateWantedUseCase(
	wanted port.WantedStoragePort,
	listings port.ListingStoragePort,
	notifications port.NotificationStoragePort,
	mailer port.MailerPort,
	metrics port.MetricsPort,
	sweepLimit, workers int,
) *CreateWantedUseCase {
	if sweepLimit <= 0 {
		sweepLimit = DefaultSweepLimit
	}
	if workers <= 0 {
		workers = DefaultMatchWorkers
	}
	metrics = orNoopMetrics(metrics)
	return &CreateWantedUseCase{
		wanted:     wanted,
		listings:   listings,
		notifier:   notifier{store: notifications, mailer: mailer, metrics: metrics},
		metrics:    metrics,
		sweepLimit: sweepLimit,
		workers:    workers,
	}
}

var _ usecases_port.CreateWantedUseCasePort = (*CreateWantedUseCase)(nil)

// Execute stores the request, checks it against the latest approved listings
// and tells their sellers, then sends the buyer a summary.
func (uc *CreateWantedUseCase) Execute(ctx context.Context, input usecases_port.CreateWantedInput) (*usecases_port.CreateWantedResult, error) {
	email := normalizeEmail(input.UserEmail)
	ucLogger := contextkeys.LoggerFromContext(ctx).WithFields(port.Fields{
		"use_case": "CreateWanted",
		"user":     email,
	})
	ucLogger.Info("Use case started", nil)

	if email == "" {
		return nil, validationErrorf("user email is required")
	}
	title := strings.TrimSpace(input.Title)
	if utf8.RuneCountInString(title) < domain.MinWantedTitleLength {
		return nil, validationErrorf("title must be at least %d characters", domain.MinWantedTitleLength)
	}
	if err := input.Criterion.Validate(); err != nil {
		ucLogger.Warn("Criterion rejected", port.Fields{"reason": err.Error()})
		return nil, err
	}

	w := domain.WantedRequest{
		UserEmail:   email,
		Title:       title,
		Description: strings.TrimSpace(input.Description),
		Criterion:   input.Criterion,
		Status:      domain.WantedOpen,
		CreatedAt:   time.Now().UTC(),
	}
	id, err := uc.wanted.Create(ctx, w)
	if err != nil {
		ucLogger.Error("Failed to store wanted request", err, nil)
		return nil, fmt.Errorf("failed to store wanted request: %w", err)
	}
	w.ID = id

	matches, err := uc.sweep(ctx, ucLogger, w)
	if err != nil {
		// the request is stored and will still match future listings
		ucLogger.Error("Reverse sweep failed", err, port.Fields{"wanted_id": id})
	}

	if _, err := uc.notifier.deliver(ctx, ucLogger, wantedPosted(w, matches)); err != nil {
		ucLogger.Warn("Failed to notify buyer", port.Fields{"error": err.Error()})
	}

	ucLogger.Info("Use case finished successfully", port.Fields{"wanted_id": id, "matches": matches})
	return &usecases_port.CreateWantedResult{Wanted: w, MatchesCount: matches}, nil
}

// sweep runs the new request against recent listings and notifies the
// sellers of every match. It returns the number of matching listings.
func (uc *CreateWantedUseCase) sweep(ctx context.Context, logger port.LoggerPort, w domain.WantedRequest) (int, error) {
	listings, err := uc.listings.ListRecentApproved(ctx, uc.sweepLimit)
	if err != nil {
		return 0, fmt.Errorf("failed to load recent listings: %w", err)
	}

	var (
		mu      sync.Mutex
		matches int
	)
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(uc.workers)

	for _, l := range listings {
		if l.OwnerEmail == w.UserEmail {
			continue
		}
		g.Go(func() error {
			matched := matching.Matches(l, w.Criterion)
			uc.metrics.MatchEvaluated("wanted", matched)
			if !matched {
				return nil
			}
			mu.Lock()
			matches++
			mu.Unlock()

			if l.OwnerEmail == "" {
				return nil
			}
			_, err := uc.notifier.deliver(gctx, logger, wantedMatchSeller(w, l))
			return err
		})
	}

	if err := g.Wait(); err != nil {
		return matches, err
	}
	return matches, nil
}

func wantedPosted(w domain.WantedRequest, matches int) domain.Notification {
	message := "We will notify you when new matching ads are listed."
	if matches > 0 {
		message = fmt.Sprintf("We found %d potential matches. Sellers have been notified.", matches)
	}
	return domain.Notification{
		Type:        domain.NotifyWantedPosted,
		Title:       "Your Wanted request was posted",
		Message:     message,
		TargetEmail: w.UserEmail,
		Meta:        map[string]any{"wanted_id": w.ID, "matches_count": matches},
		DedupeKey:   domain.DedupeKey(domain.NotifyWantedPosted, w.ID, 0),
	}
}

type ListWantedUseCase struct {
	wanted port.WantedStoragePort
}

func NewListWantedUseCase(wanted port.WantedStoragePort) *ListWantedUseCase {
	return &ListWantedUseCase{wanted: wanted}
}

var _ usecases_port.ListWantedUseCasePort = (*ListWantedUseCase)(nil)

func (uc *ListWantedUseCase) Execute(ctx context.Context, filter domain.WantedFilter) ([]domain.WantedRequest, error) {
	filter.Query = strings.TrimSpace(filter.Query)
	filter.Location = strings.TrimSpace(filter.Location)
	if filter.Limit <= 0 {
		filter.Limit = defaultWantedLimit
	}
	if filter.Limit > maxWantedLimit {
		filter.Limit = maxWantedLimit
	}
	if filter.Category != "" && !filter.Category.IsValid() {
		return nil, validationErrorf("unknown category %q", filter.Category)
	}

	ucLogger := contextkeys.LoggerFromContext(ctx).WithFields(port.Fields{
		"use_case": "ListWanted",
		"q":        filter.Query,
		"category": filter.Category,
		"limit":    filter.Limit,
	})
	ucLogger.Info("Use case started", nil)

	items, err := uc.wanted.ListOpen(ctx, filter)
	if err != nil {
		ucLogger.Error("Failed to list wanted requests", err, nil)
		return nil, fmt.Errorf("failed to list wanted requests: %w", err)
	}

	ucLogger.Info("Use case finished successfully", port.Fields{"count": len(items)})
	return items, nil
}

type ListMyWantedUseCase struct {
	wanted port.WantedStoragePort
}

func NewListMyWantedUseCase(wanted port.WantedStoragePort) *ListMyWantedUseCase {
	return &ListMyWantedUseCase{wanted: wanted}
}

var _ usecases_port.ListMyWantedUseCasePort = (*ListMyWantedUseCase)(nil)

func (uc *ListMyWantedUseCase) Execute(ctx context.Context, userEmail string) ([]domain.WantedRequest, error) {
	email := normalizeEmail(userEmail)
	ucLogger := contextkeys.LoggerFromContext(ctx).WithFields(port.Fields{
		"use_case": "ListMyWanted",
		"user":     email,
	})
	if email == "" {
		return nil, validationErrorf("user email is required")
	}

	items, err := uc.wanted.ListByUser(ctx, email, myWantedLimit)
	if err != nil {
		ucLogger.Error("Failed to list wanted requests", err, nil)
		return nil, fmt.Errorf("failed to list wanted requests of %s: %w", email, err)
	}
	return items, nil
}

type CloseWantedUseCase struct {
	wanted port.WantedStoragePort
}

func NewCloseWantedUseCase(wanted port.WantedStoragePort) *CloseWantedUseCase {
	return &CloseWantedUseCase{wanted: wanted}
}

var _ usecases_port.CloseWantedUseCasePort = (*CloseWantedUseCase)(nil)

func (uc *CloseWantedUseCase) Execute(ctx context.Context, id int64, userEmail string) error {
	email := normalizeEmail(userEmail)
	ucLogger := contextkeys.LoggerFromContext(ctx).WithFields(port.Fields{
		"use_case":  "CloseWanted",
		"wanted_id": id,
		"user":      email,
	})
	ucLogger.Info("Use case started", nil)

	if email == "" {
		return validationErrorf("user email is required")
	}
	if err := uc.wanted.Close(ctx, id, email); err != nil {
		ucLogger.Error("Failed to close wanted request", err, nil)
		return fmt.Errorf("failed to close wanted request %d: %w", id, err)
	}

	ucLogger.Info("Use case finished successfully", nil)
	return nil
}

type RespondToWantedUseCase struct {
	wanted   port.WantedStoragePort
	listings port.ListingStoragePort
	notifier notifier
}

func NewRespondToWantedUseCase(
	wanted port.WantedStoragePort,
	listings port.ListingStoragePort,
	notifications port.NotificationStoragePort,
	mailer port.MailerPort,
	metrics port.MetricsPort,
) *RespondToWantedUseCase {
	return &RespondToWantedUseCase{
		wanted:   wanted,
		listings: listings,
		notifier: notifier{store: notifications, mailer: mailer, metrics: orNoopMetrics(metrics)},
	}
}

var _ usecases_port.RespondToWantedUseCasePort = (*RespondToWantedUseCase)(nil)

// Execute lets a seller offer one of their own listings to an open request.
// The buyer and the seller each get a notification.
func (uc *RespondToWantedUseCase) Execute(ctx context.Context, input usecases_port.RespondToWantedInput) error {
	email := normalizeEmail(input.UserEmail)
	ucLogger := contextkeys.LoggerFromContext(ctx).WithFields(port.Fields{
		"use_case":   "RespondToWanted",
		"wanted_id":  input.WantedID,
		"listing_id": input.ListingID,
		"user":       email,
	})
	ucLogger.Info("Use case started", nil)

	if email == "" {
		return validationErrorf("user email is required")
	}

	w, err := uc.wanted.GetByID(ctx, input.WantedID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.ErrNotOpen
		}
		ucLogger.Error("Failed to load wanted request", err, nil)
		return fmt.Errorf("failed to load wanted request %d: %w", input.WantedID, err)
	}
	if w.Status != domain.WantedOpen {
		return domain.ErrNotOpen
	}

	listing, err := uc.listings.GetByID(ctx, input.ListingID)
	if err != nil {
		ucLogger.Warn("Listing for response not found", port.Fields{"error": err.Error()})
		return fmt.Errorf("failed to load listing %d: %w", input.ListingID, err)
	}
	if listing.OwnerEmail != email {
		return fmt.Errorf("%w: you can only respond with your own listing", domain.ErrForbidden)
	}

	message := strings.TrimSpace(fmt.Sprintf("Seller offered: %q. %s", listing.Title, strings.TrimSpace(input.Message)))
	toBuyer := domain.Notification{
		Type:        domain.NotifyWantedResponse,
		Title:       "A seller responded to your Wanted request",
		Message:     message,
		TargetEmail: w.UserEmail,
		ListingID:   listingIDPtr(listing.ID),
		Meta:        map[string]any{"wanted_id": w.ID, "seller_email": email},
		DedupeKey:   domain.DedupeKey(domain.NotifyWantedResponse, w.ID, listing.ID),
	}
	if _, err := uc.notifier.deliver(ctx, ucLogger, toBuyer); err != nil {
		ucLogger.Error("Failed to notify buyer", err, nil)
		return err
	}

	toSeller := domain.Notification{
		Type:        domain.NotifyWantedResponseSent,
		Title:       "Your offer was sent",
		Message:     fmt.Sprintf("We notified the buyer about your ad %q.", listing.Title),
		TargetEmail: email,
		ListingID:   listingIDPtr(listing.ID),
		Meta:        map[string]any{"wanted_id": w.ID},
		DedupeKey:   domain.DedupeKey(domain.NotifyWantedResponseSent, w.ID, listing.ID),
	}
	if _, err := uc.notifier.deliver(ctx, ucLogger, toSeller); err != nil {
		ucLogger.Warn("Failed to notify seller", port.Fields{"error": err.Error()})
	}

	ucLogger.Info("Use case finished successfully", nil)
	return nil
}
