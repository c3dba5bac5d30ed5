package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/nyius/HouseMarketplace/internal/entity"
	"github.com/nyius/HouseMarketplace/internal/port/repository"
)

func makeListings(t entity.ListingType, n int, start time.Time) []*entity.Listing {
	listings := make([]*entity.Listing, n)
	for i := range listings {
		listings[i] = &entity.Listing{
			ID:        string(rune('a' + i)),
			Type:      t,
			Timestamp: start.Add(-time.Duration(i) * time.Minute),
		}
	}
	return listings
}

func TestFetchFirstPage_ReturnsPageAndCursor(t *testing.T) {
	repo := new(MockListingRepository)
	reader := NewListingReader(repo, zap.NewNop())

	items := makeListings(entity.TypeRent, PageSize, time.Now())
	repo.On("ListByType", mock.Anything, entity.TypeRent, repository.Cursor(""), PageSize).
		Return(items, "cursor-1", nil)

	page, err := reader.FetchFirstPage(context.Background(), entity.TypeRent)

	require.NoError(t, err)
	assert.Len(t, page.Items, PageSize)
	assert.Equal(t, repository.Cursor("cursor-1"), page.NextCursor)
	for _, l := range page.Items {
		assert.Equal(t, entity.TypeRent, l.Type)
	}
	repo.AssertExpectations(t)
}

func TestFetchFirstPage_ShortPageExhaustsCursor(t *testing.T) {
	repo := new(MockListingRepository)
	reader := NewListingReader(repo, zap.NewNop())

	repo.On("ListByType", mock.Anything, entity.TypeSale, repository.Cursor(""), PageSize).
		Return(makeListings(entity.TypeSale, 3, time.Now()), "", nil)

	page, err := reader.FetchFirstPage(context.Background(), entity.TypeSale)

	require.NoError(t, err)
	assert.Len(t, page.Items, 3)
	assert.Empty(t, page.NextCursor)
}

func TestFetchNextPage_EmptyCursorIsNoOp(t *testing.T) {
	repo := new(MockListingRepository)
	reader := NewListingReader(repo, zap.NewNop())

	page, err := reader.FetchNextPage(context.Background(), entity.TypeRent, "")

	require.NoError(t, err)
	assert.Empty(t, page.Items)
	assert.Empty(t, page.NextCursor)
	repo.AssertNotCalled(t, "ListByType", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestFetchNextPage_ConcatenationMatchesUnpagedOrder(t *testing.T) {
	repo := new(MockListingRepository)
	reader := NewListingReader(repo, zap.NewNop())

	now := time.Now()
	all := makeListings(entity.TypeRent, PageSize+4, now)

	repo.On("ListByType", mock.Anything, entity.TypeRent, repository.Cursor(""), PageSize).
		Return(all[:PageSize], "cursor-1", nil)
	repo.On("ListByType", mock.Anything, entity.TypeRent, repository.Cursor("cursor-1"), PageSize).
		Return(all[PageSize:], "", nil)

	var accumulated []*entity.Listing
	page, err := reader.FetchFirstPage(context.Background(), entity.TypeRent)
	require.NoError(t, err)
	accumulated = append(accumulated, page.Items...)

	for page.NextCursor != "" {
		page, err = reader.FetchNextPage(context.Background(), entity.TypeRent, page.NextCursor)
		require.NoError(t, err)
		accumulated = append(accumulated, page.Items...)
	}

	require.Len(t, accumulated, len(all))
	for i, l := range accumulated {
		assert.Equal(t, all[i].ID, l.ID)
		if i > 0 {
			assert.False(t, l.Timestamp.After(accumulated[i-1].Timestamp),
				"accumulated sequence must be descending by timestamp")
		}
	}
}

func TestFetchFirstPage_StoreErrorWrapsFetchFailed(t *testing.T) {
	repo := new(MockListingRepository)
	reader := NewListingReader(repo, zap.NewNop())

	repo.On("ListByType", mock.Anything, entity.TypeRent, repository.Cursor(""), PageSize).
		Return(nil, "", errors.New("permission denied"))

	_, err := reader.FetchFirstPage(context.Background(), entity.TypeRent)

	assert.ErrorIs(t, err, ErrFetchFailed)
}

func TestFetchFirstPage_InvalidCategory(t *testing.T) {
	repo := new(MockListingRepository)
	reader := NewListingReader(repo, zap.NewNop())

	_, err := reader.FetchFirstPage(context.Background(), "castle")

	assert.ErrorIs(t, err, ErrInvalidCategory)
	repo.AssertNotCalled(t, "ListByType", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}
