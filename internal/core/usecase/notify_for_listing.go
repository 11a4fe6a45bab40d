package usecase

import (
	"context"
	"fmt"
	"sync"

	"golang.org/x/sync/errgroup"

	"listing-service/internal/contextkeys"
	"listing-service/internal/core/domain"
	"listing-service/internal/core/matching"
	"listing-service/internal/core/port"
	"listing-service/internal/core/port/usecases_port"
)

const DefaultMatchWorkers = 8

type NotifyForListingUseCase struct {
	listings port.ListingStoragePort
	wanted   port.WantedStoragePort
	searches port.SavedSearchStoragePort
	notifier notifier
	metrics  port.MetricsPort
	workers  int
}

func NewNotifyForListingUseCase(
	listings port.ListingStoragePort,
	wanted port.WantedStoragePort,
	searches port.SavedSearchStoragePort,
	notifications port.NotificationStoragePort,
	mailer port.MailerPort,
	metrics port.MetricsPort,
	workers int,
) *NotifyForListingUseCase {
	if workers <= 0 {
		workers = DefaultMatchWorkers
	}
	metrics = orNoopMetrics(metrics)
	return &NotifyForListingUseCase{
		listings: listings,
		wanted:   wanted,
		searches: searches,
		notifier: notifier{store: notifications, mailer: mailer, metrics: metrics},
		metrics:  metrics,
		workers:  workers,
	}
}

var _ usecases_port.NotifyForListingUseCasePort = (*NotifyForListingUseCase)(nil)

// Execute matches one listing against every open wanted request and every
// saved search. Running it again for the same listing notifies nobody twice.
func (uc *NotifyForListingUseCase) Execute(ctx context.Context, listingID int64) (*domain.MatchReport, error) {
	ucLogger := contextkeys.LoggerFromContext(ctx).WithFields(port.Fields{
		"use_case":   "NotifyForListing",
		"listing_id": listingID,
	})
	ucLogger.Info("Use case started", nil)

	listing, err := uc.listings.GetByID(ctx, listingID)
	if err != nil {
		ucLogger.Error("Failed to load listing", err, nil)
		return nil, fmt.Errorf("failed to load listing %d: %w", listingID, err)
	}

	report := &domain.MatchReport{}
	if listing.Status != domain.ListingApproved {
		ucLogger.Info("Listing is not live, nothing to match", port.Fields{"status": listing.Status})
		return report, nil
	}

	wanted, err := uc.wanted.ListAllOpen(ctx)
	if err != nil {
		ucLogger.Error("Failed to load open wanted requests", err, nil)
		return nil, fmt.Errorf("failed to load open wanted requests: %w", err)
	}
	searches, err := uc.searches.ListAll(ctx)
	if err != nil {
		ucLogger.Error("Failed to load saved searches", err, nil)
		return nil, fmt.Errorf("failed to load saved searches: %w", err)
	}

	var mu sync.Mutex
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(uc.workers)

	for _, w := range wanted {
		// a buyer is never told about their own ad
		if w.UserEmail == listing.OwnerEmail {
			continue
		}
		g.Go(func() error {
			matched := matching.Matches(*listing, w.Criterion)
			uc.metrics.MatchEvaluated("wanted", matched)

			var (
				buyer, seller bool
				err           error
			)
			if matched {
				if buyer, err = uc.notifier.deliver(gctx, ucLogger, wantedMatchBuyer(w, *listing)); err != nil {
					return err
				}
				if listing.OwnerEmail != "" {
					if seller, err = uc.notifier.deliver(gctx, ucLogger, wantedMatchSeller(w, *listing)); err != nil {
						return err
					}
				}
			}

			mu.Lock()
			defer mu.Unlock()
			report.Evaluated++
			if matched {
				report.Matched++
			}
			if buyer {
				report.BuyerNotified++
			}
			if seller {
				report.SellerNotified++
			}
			return nil
		})
	}

	for _, s := range searches {
		if s.UserEmail == listing.OwnerEmail {
			continue
		}
		g.Go(func() error {
			matched := matching.Matches(*listing, s.Criterion)
			uc.metrics.MatchEvaluated("saved_search", matched)

			var (
				notified bool
				err      error
			)
			if matched {
				if notified, err = uc.notifier.deliver(gctx, ucLogger, savedSearchMatch(s, *listing)); err != nil {
					return err
				}
			}

			mu.Lock()
			defer mu.Unlock()
			report.Evaluated++
			if matched {
				report.Matched++
			}
			if notified {
				report.SavedSearchHit++
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		ucLogger.Error("Matching sweep failed", err, nil)
		return nil, fmt.Errorf("matching sweep for listing %d failed: %w", listingID, err)
	}

	ucLogger.Info("Use case finished successfully", port.Fields{
		"evaluated":       report.Evaluated,
		"matched":         report.Matched,
		"buyer_notified":  report.BuyerNotified,
		"seller_notified": report.SellerNotified,
		"saved_search":    report.SavedSearchHit,
	})
	return report, nil
}
