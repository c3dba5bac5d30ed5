package usecase

import (
	"context"

	"github.com/nyius/HouseMarketplace/internal/entity"
)

// EventPublisher announces committed listing mutations. Publishing is
// best-effort: a failed publish is logged, never surfaced to the caller.
type EventPublisher interface {
	PublishListingCreated(ctx context.Context, listing *entity.Listing) error
	PublishListingUpdated(ctx context.Context, listing *entity.Listing) error
	PublishListingDeleted(ctx context.Context, listingID string) error
}
