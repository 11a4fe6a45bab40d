package usecase

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"listing-service/internal/core/domain"
)

func TestSearchListings_FiltersThenPages(t *testing.T) {
	listings := &fakeListings{}
	ctx := context.Background()
	for i := 0; i < 5; i++ {
		_, _ = listings.Create(ctx, vehicleListing("s@e.com", fmt.Sprintf("Civic %d", i), "Colombo", 1000, 2015+i, "Honda Civic"))
		_, _ = listings.Create(ctx, vehicleListing("s@e.com", fmt.Sprintf("Axio %d", i), "Kandy", 1000, 2015+i, "Toyota Axio"))
	}

	uc := NewSearchListingsUseCase(listings)
	query := domain.SearchQuery{
		Criterion: domain.MatchCriterion{Models: []string{"civic"}, YearMin: ptr(2016)},
		Text:      "civic",
		Limit:     2,
		Offset:    1,
	}

	page, err := uc.Execute(ctx, query)
	require.NoError(t, err)
	require.Len(t, page, 2)
	assert.Equal(t, "Civic 2", page[0].Title)
	assert.Equal(t, "Civic 3", page[1].Title)
	assert.Equal(t, "civic", listings.lastFind.Text)

	query.Offset = 10
	page, err = uc.Execute(ctx, query)
	require.NoError(t, err)
	assert.Empty(t, page)
}

func TestSearchListings_Defaults(t *testing.T) {
	listings := &fakeListings{}
	uc := NewSearchListingsUseCase(listings)

	_, err := uc.Execute(context.Background(), domain.SearchQuery{Limit: 1000, Offset: -5})
	require.NoError(t, err)
	assert.Equal(t, MaxSearchLimit, listings.lastFind.Limit)
	assert.Equal(t, 0, listings.lastFind.Offset)

	_, err = uc.Execute(context.Background(), domain.SearchQuery{})
	require.NoError(t, err)
	assert.Equal(t, DefaultSearchLimit, listings.lastFind.Limit)

	_, err = uc.Execute(context.Background(), domain.SearchQuery{Criterion: domain.MatchCriterion{PriceMin: ptr(-1.0)}})
	assert.True(t, errors.Is(err, domain.ErrInvalidCriterion))
}

func TestPaginate(t *testing.T) {
	items := []int{1, 2, 3, 4, 5}
	assert.Equal(t, []int{1, 2}, paginate(items, 0, 2))
	assert.Equal(t, []int{5}, paginate(items, 4, 2))
	assert.Equal(t, []int{}, paginate(items, 5, 2))
}
