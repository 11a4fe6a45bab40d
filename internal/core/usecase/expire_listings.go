package usecase

import (
	"context"
	"fmt"
	"time"

	"listing-service/internal/contextkeys"
	"listing-service/internal/core/port"
	"listing-service/internal/core/port/usecases_port"
)

type ExpireListingsUseCase struct {
	listings port.ListingStoragePort
	metrics  port.MetricsPort
}

func NewExpireListingsUseCase(listings port.ListingStoragePort, metrics port.MetricsPort) *ExpireListingsUseCase {
	return &ExpireListingsUseCase{listings: listings, metrics: orNoopMetrics(metrics)}
}

var _ usecases_port.ExpireListingsUseCasePort = (*ExpireListingsUseCase)(nil)

// Execute archives every approved listing whose validity has ended.
func (uc *ExpireListingsUseCase) Execute(ctx context.Context) (int64, error) {
	ucLogger := contextkeys.LoggerFromContext(ctx).WithFields(port.Fields{"use_case": "ExpireListings"})
	ucLogger.Info("Use case started", nil)

	archived, err := uc.listings.ArchiveExpired(ctx, time.Now().UTC())
	if err != nil {
		ucLogger.Error("Failed to archive expired listings", err, nil)
		return 0, fmt.Errorf("failed to archive expired listings: %w", err)
	}
	uc.metrics.ListingsArchived(int(archived))

	ucLogger.Info("Use case finished successfully", port.Fields{"archived": archived})
	return archived, nil
}
