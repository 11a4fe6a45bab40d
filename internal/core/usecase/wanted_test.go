package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"listing-service/internal/core/domain"
	"listing-service/internal/core/port/usecases_port"
)

func (f matchFixture) createWantedUseCase() *CreateWantedUseCase {
	return NewCreateWantedUseCase(f.wanted, f.listings, f.notifications, f.mailer, f.metrics, 0, 2)
}

func TestCreateWanted_SweepsRecentListings(t *testing.T) {
	f := newMatchFixture()
	ctx := context.Background()
	civicID, _ := f.listings.Create(ctx, vehicleListing("seller1@example.com", "Honda Civic 2020", "Colombo", 4500000, 2020, "Honda Civic"))
	_, _ = f.listings.Create(ctx, vehicleListing("seller2@example.com", "Honda Civic 2015", "Kandy", 3000000, 2015, "Honda Civic"))
	_, _ = f.listings.Create(ctx, vehicleListing("buyer@example.com", "My own Civic", "Colombo", 5000000, 2021, "Honda Civic"))

	res, err := f.createWantedUseCase().Execute(ctx, usecases_port.CreateWantedInput{
		UserEmail: "Buyer@Example.com",
		Title:     "  Honda Civic wanted ",
		Criterion: domain.MatchCriterion{Category: domain.CategoryVehicle, Models: []string{"civic"}, YearMin: ptr(2018)},
	})
	require.NoError(t, err)

	assert.Equal(t, 1, res.MatchesCount)
	assert.Equal(t, int64(1), res.Wanted.ID)
	assert.Equal(t, "buyer@example.com", res.Wanted.UserEmail)
	assert.Equal(t, "Honda Civic wanted", res.Wanted.Title)
	assert.Equal(t, domain.WantedOpen, res.Wanted.Status)

	seller := f.notifications.ofType(domain.NotifyWantedMatchSeller)
	require.Len(t, seller, 1)
	assert.Equal(t, "seller1@example.com", seller[0].TargetEmail)
	assert.Equal(t, `A buyer posted a request: "Honda Civic wanted". Your ad "Honda Civic 2020" may match.`, seller[0].Message)

	posted := f.notifications.ofType(domain.NotifyWantedPosted)
	require.Len(t, posted, 1)
	assert.Equal(t, "buyer@example.com", posted[0].TargetEmail)
	assert.Equal(t, "We found 1 potential matches. Sellers have been notified.", posted[0].Message)
	assert.Equal(t, 1, posted[0].Meta["matches_count"])

	// the seller already heard about this request from the sweep
	report, err := f.notifyUseCase().Execute(ctx, civicID)
	require.NoError(t, err)
	assert.Equal(t, 1, report.BuyerNotified)
	assert.Equal(t, 0, report.SellerNotified)
}

func TestCreateWanted_NoMatches(t *testing.T) {
	f := newMatchFixture()

	res, err := f.createWantedUseCase().Execute(context.Background(), usecases_port.CreateWantedInput{
		UserEmail: "buyer@example.com",
		Title:     "Looking for a boat",
	})
	require.NoError(t, err)
	assert.Equal(t, 0, res.MatchesCount)

	posted := f.notifications.ofType(domain.NotifyWantedPosted)
	require.Len(t, posted, 1)
	assert.Equal(t, "We will notify you when new matching ads are listed.", posted[0].Message)
}

func TestCreateWanted_Validation(t *testing.T) {
	f := newMatchFixture()
	uc := f.createWantedUseCase()

	_, err := uc.Execute(context.Background(), usecases_port.CreateWantedInput{UserEmail: "b@e.com", Title: "short"})
	assert.True(t, errors.Is(err, domain.ErrValidation))

	_, err = uc.Execute(context.Background(), usecases_port.CreateWantedInput{
		UserEmail: "b@e.com",
		Title:     "Long enough title",
		Criterion: domain.MatchCriterion{YearMin: ptr(1800)},
	})
	assert.True(t, errors.Is(err, domain.ErrInvalidCriterion))

	_, err = uc.Execute(context.Background(), usecases_port.CreateWantedInput{Title: "Long enough title"})
	assert.True(t, errors.Is(err, domain.ErrValidation))
	assert.Empty(t, f.wanted.items)
}

func TestListWanted_Limits(t *testing.T) {
	tests := []struct {
		limit    int
		expected int
	}{
		{0, 50},
		{-3, 50},
		{10, 10},
		{500, 200},
	}

	for _, tc := range tests {
		f := newMatchFixture()
		_, err := NewListWantedUseCase(f.wanted).Execute(context.Background(), domain.WantedFilter{Limit: tc.limit, Query: " civic "})
		require.NoError(t, err)
		assert.Equal(t, tc.expected, f.wanted.last.Limit)
		assert.Equal(t, "civic", f.wanted.last.Query)
	}

	_, err := NewListWantedUseCase(&fakeWanted{}).Execute(context.Background(), domain.WantedFilter{Category: "Boats"})
	assert.True(t, errors.Is(err, domain.ErrValidation))
}

func TestListMyWanted(t *testing.T) {
	f := newMatchFixture()
	f.addWanted(t, domain.WantedRequest{UserEmail: "buyer@example.com", Title: "first request"})
	f.addWanted(t, domain.WantedRequest{UserEmail: "other@example.com", Title: "other request"})

	items, err := NewListMyWantedUseCase(f.wanted).Execute(context.Background(), "BUYER@example.com")
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "first request", items[0].Title)

	_, err = NewListMyWantedUseCase(f.wanted).Execute(context.Background(), " ")
	assert.True(t, errors.Is(err, domain.ErrValidation))
}

func TestCloseWanted(t *testing.T) {
	f := newMatchFixture()
	f.addWanted(t, domain.WantedRequest{UserEmail: "buyer@example.com", Title: "first request"})
	uc := NewCloseWantedUseCase(f.wanted)

	err := uc.Execute(context.Background(), 1, "other@example.com")
	assert.True(t, errors.Is(err, domain.ErrNotFound))

	require.NoError(t, uc.Execute(context.Background(), 1, "buyer@example.com"))
	assert.Equal(t, domain.WantedClosed, f.wanted.items[0].Status)

	err = uc.Execute(context.Background(), 1, "buyer@example.com")
	assert.True(t, errors.Is(err, domain.ErrNotFound))
}

func TestRespondToWanted(t *testing.T) {
	f := newMatchFixture()
	ctx := context.Background()
	f.addWanted(t, domain.WantedRequest{UserEmail: "buyer@example.com", Title: "Honda Civic wanted"})
	f.addWanted(t, domain.WantedRequest{UserEmail: "buyer@example.com", Title: "Closed request", Status: domain.WantedClosed})
	listingID, _ := f.listings.Create(ctx, vehicleListing("seller@example.com", "Honda Civic 2020", "Colombo", 4500000, 2020, "Honda Civic"))
	uc := NewRespondToWantedUseCase(f.wanted, f.listings, f.notifications, f.mailer, f.metrics)

	tests := []struct {
		name  string
		input usecases_port.RespondToWantedInput
		err   error
	}{
		{"unknown request", usecases_port.RespondToWantedInput{WantedID: 99, ListingID: listingID, UserEmail: "seller@example.com"}, domain.ErrNotOpen},
		{"closed request", usecases_port.RespondToWantedInput{WantedID: 2, ListingID: listingID, UserEmail: "seller@example.com"}, domain.ErrNotOpen},
		{"unknown listing", usecases_port.RespondToWantedInput{WantedID: 1, ListingID: 99, UserEmail: "seller@example.com"}, domain.ErrNotFound},
		{"someone else's listing", usecases_port.RespondToWantedInput{WantedID: 1, ListingID: listingID, UserEmail: "other@example.com"}, domain.ErrForbidden},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := uc.Execute(ctx, tc.input)
			assert.True(t, errors.Is(err, tc.err), err)
		})
	}
	assert.Empty(t, f.notifications.items)

	err := uc.Execute(ctx, usecases_port.RespondToWantedInput{
		WantedID:  1,
		ListingID: listingID,
		UserEmail: "Seller@example.com",
		Message:   " Still available, low mileage. ",
	})
	require.NoError(t, err)

	toBuyer := f.notifications.ofType(domain.NotifyWantedResponse)
	require.Len(t, toBuyer, 1)
	assert.Equal(t, "buyer@example.com", toBuyer[0].TargetEmail)
	assert.Equal(t, `Seller offered: "Honda Civic 2020". Still available, low mileage.`, toBuyer[0].Message)
	assert.Equal(t, "seller@example.com", toBuyer[0].Meta["seller_email"])

	toSeller := f.notifications.ofType(domain.NotifyWantedResponseSent)
	require.Len(t, toSeller, 1)
	assert.Equal(t, "seller@example.com", toSeller[0].TargetEmail)
	assert.Equal(t, `We notified the buyer about your ad "Honda Civic 2020".`, toSeller[0].Message)
	assert.Equal(t, 2, f.mailer.count())
}
