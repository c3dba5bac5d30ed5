package repository

import (
	"context"
	"errors"

	"github.com/nyius/HouseMarketplace/internal/entity"
)

var ErrNotFound = errors.New("listing not found")

// Cursor is an opaque pointer into a timestamp-ordered result set. Callers
// never parse or compare it; only the repository that issued it can resume
// from it. The zero value means "no cursor" (start from the top, or
// exhausted when returned).
type Cursor string

type ListingRepository interface {
	Create(ctx context.Context, listing *entity.Listing) (string, error)
	GetByID(ctx context.Context, id string) (*entity.Listing, error)
	// Update replaces every mutable field of the document identified by
	// listing.ID in a single write. UserRef is never touched and the store
	// stamps the timestamp itself.
	Update(ctx context.Context, listing *entity.Listing) error
	Delete(ctx context.Context, id string) error
	// ListByType returns up to limit listings of the given type, ordered by
	// timestamp descending, strictly after cursor when cursor is non-empty.
	// The returned cursor is empty when the page was short (exhausted).
	ListByType(ctx context.Context, t entity.ListingType, cursor Cursor, limit int) ([]*entity.Listing, Cursor, error)
	// ListByUser returns all listings owned by userRef, timestamp descending.
	ListByUser(ctx context.Context, userRef string) ([]*entity.Listing, error)
}
