package usecase

import (
	"context"
	"errors"
	"fmt"

	"github.com/nyius/HouseMarketplace/internal/entity"
	"github.com/nyius/HouseMarketplace/internal/port/repository"
	"go.uber.org/zap"
)

// PageSize is the fixed number of listings per category page.
const PageSize = 10

// ErrFetchFailed wraps any store error surfaced by the reader. Reads are
// side-effect free, so the caller may simply retry.
var ErrFetchFailed = errors.New("could not fetch listings")

var ErrInvalidCategory = errors.New("unknown listing category")

// Page is one fetched page plus the cursor for the next call. NextCursor is
// empty once the result set is exhausted (a short page was returned).
type Page struct {
	Items      []*entity.Listing
	NextCursor repository.Cursor
}

// ListingReader pages through a category's listings, newest first. Cursor
// state is owned by the caller; the reader itself is stateless and safe for
// concurrent use across categories.
type ListingReader struct {
	repo   repository.ListingRepository
	logger *zap.Logger
}

func NewListingReader(repo repository.ListingRepository, logger *zap.Logger) *ListingReader {
	return &ListingReader{repo: repo, logger: logger}
}

func (r *ListingReader) FetchFirstPage(ctx context.Context, category entity.ListingType) (*Page, error) {
	return r.fetch(ctx, category, "")
}

// FetchNextPage resumes strictly after cursor. An empty cursor means the
// previous page was already the last one; the call is a no-op returning an
// empty page rather than an error.
func (r *ListingReader) FetchNextPage(ctx context.Context, category entity.ListingType, cursor repository.Cursor) (*Page, error) {
	if cursor == "" {
		return &Page{Items: []*entity.Listing{}}, nil
	}
	return r.fetch(ctx, category, cursor)
}

func (r *ListingReader) fetch(ctx context.Context, category entity.ListingType, cursor repository.Cursor) (*Page, error) {
	if !category.Valid() {
		return nil, ErrInvalidCategory
	}

	items, next, err := r.repo.ListByType(ctx, category, cursor, PageSize)
	if err != nil {
		r.logger.Error("ListingReader: failed to fetch page",
			zap.String("category", string(category)),
			zap.Bool("has_cursor", cursor != ""),
			zap.Error(err))
		return nil, fmt.Errorf("%w: %w", ErrFetchFailed, err)
	}
	return &Page{Items: items, NextCursor: next}, nil
}
