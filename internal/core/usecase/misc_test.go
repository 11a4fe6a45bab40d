package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"listing-service/internal/core/domain"
)

func TestClassifyListing(t *testing.T) {
	classifier := &fakeClassifier{category: domain.CategoryJob}
	got := NewClassifyListingUseCase(classifier).Execute(context.Background(), "Driver wanted", "Full time")
	assert.Equal(t, domain.CategoryJob, got)
	assert.Equal(t, 1, classifier.calls)
}

func TestExpireListings(t *testing.T) {
	listings := &fakeListings{archiveN: 3}
	metrics := newFakeMetrics()

	n, err := NewExpireListingsUseCase(listings, metrics).Execute(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(3), n)
	assert.Equal(t, 3, metrics.archived)
	assert.WithinDuration(t, time.Now().UTC(), listings.archived, time.Minute)
}

func TestListNotifications(t *testing.T) {
	store := &fakeNotifications{}
	ctx := context.Background()
	for _, key := range []string{"a", "b", "c"} {
		_, err := store.Insert(ctx, domain.Notification{TargetEmail: "u@e.com", DedupeKey: key})
		require.NoError(t, err)
	}
	_, _ = store.Insert(ctx, domain.Notification{TargetEmail: "x@e.com", DedupeKey: "d"})

	uc := NewListNotificationsUseCase(store)
	items, err := uc.Execute(ctx, "U@E.com", 2)
	require.NoError(t, err)
	assert.Len(t, items, 2)

	items, err = uc.Execute(ctx, "u@e.com", 0)
	require.NoError(t, err)
	assert.Len(t, items, 3)

	_, err = uc.Execute(ctx, "", 10)
	assert.True(t, errors.Is(err, domain.ErrValidation))
}

func TestListings_GetAndMine(t *testing.T) {
	listings := &fakeListings{}
	ctx := context.Background()
	id, _ := listings.Create(ctx, vehicleListing("owner@e.com", "Civic", "Colombo", 1, 2020, "Honda Civic"))
	_, _ = listings.Create(ctx, vehicleListing("other@e.com", "Axio", "Kandy", 1, 2020, "Toyota Axio"))

	got, err := NewGetListingUseCase(listings).Execute(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "Civic", got.Title)

	_, err = NewGetListingUseCase(listings).Execute(ctx, 99)
	assert.True(t, errors.Is(err, domain.ErrNotFound))

	mine, err := NewListMyListingsUseCase(listings).Execute(ctx, "Owner@e.com")
	require.NoError(t, err)
	require.Len(t, mine, 1)
	assert.Equal(t, id, mine[0].ID)
}

func TestOverlayRecord(t *testing.T) {
	base := domain.StructuredRecord{Location: "Colombo", PricingType: domain.PricingFixed, Extras: map[string]any{"a": 1}}
	out := overlayRecord(base, domain.StructuredRecord{Location: " ", Phone: "+94771234567"})

	assert.Equal(t, "Colombo", out.Location)
	assert.Equal(t, "+94771234567", out.Phone)
	assert.Equal(t, domain.PricingFixed, out.PricingType)
	assert.Equal(t, 1, out.Extras["a"])
	assert.Equal(t, "", base.Phone)
}
