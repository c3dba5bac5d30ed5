package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/nyius/HouseMarketplace/internal/entity"
	"github.com/nyius/HouseMarketplace/internal/port/cache"
	"github.com/nyius/HouseMarketplace/internal/port/repository"
	"go.uber.org/zap"
)

// ListingUseCase covers the single-listing reads and the owner-gated delete
// that sit outside the submission pipeline and the category reader.
type ListingUseCase struct {
	repo      repository.ListingRepository
	publisher EventPublisher
	cacheRepo cache.CacheRepository
	logger    *zap.Logger
}

func NewListingUseCase(repo repository.ListingRepository, publisher EventPublisher, cacheRepo cache.CacheRepository, logger *zap.Logger) *ListingUseCase {
	return &ListingUseCase{
		repo:      repo,
		publisher: publisher,
		cacheRepo: cacheRepo,
		logger:    logger,
	}
}

func (uc *ListingUseCase) GetByID(ctx context.Context, id string) (*entity.Listing, error) {
	if uc.cacheRepo != nil {
		data, err := uc.cacheRepo.Get(ctx, listingCacheKey(id))
		if err == nil {
			var listing entity.Listing
			if unmarshalErr := json.Unmarshal(data, &listing); unmarshalErr == nil {
				return &listing, nil
			}
			uc.logger.Warn("ListingUseCase.GetByID: corrupt cache entry, falling through",
				zap.String("listing_id", id))
		} else if !errors.Is(err, cache.ErrNotFound) {
			uc.logger.Warn("ListingUseCase.GetByID: cache lookup failed",
				zap.String("listing_id", id), zap.Error(err))
		}
	}

	listing, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrListingNotFound
		}
		return nil, fmt.Errorf("ListingUseCase.GetByID: %w", err)
	}

	if uc.cacheRepo != nil {
		if data, marshalErr := json.Marshal(listing); marshalErr == nil {
			if cacheErr := uc.cacheRepo.Set(ctx, listingCacheKey(id), data, listingCacheTTL); cacheErr != nil {
				uc.logger.Warn("ListingUseCase.GetByID: failed to cache listing",
					zap.String("listing_id", id), zap.Error(cacheErr))
			}
		}
	}
	return listing, nil
}

// Delete removes the document entirely. Only the owner may delete; the gate
// runs before any mutation. No soft-delete, no versioning.
func (uc *ListingUseCase) Delete(ctx context.Context, actor Identity, id string) error {
	listing, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrListingNotFound
		}
		return fmt.Errorf("ListingUseCase.Delete: %w", err)
	}
	if listing.UserRef != actor.ID {
		uc.logger.Warn("ListingUseCase.Delete: delete refused, actor does not own listing",
			zap.String("listing_id", id),
			zap.String("owner", listing.UserRef),
			zap.String("actor", actor.ID))
		return ErrForbidden
	}

	if err := uc.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("ListingUseCase.Delete: %w", err)
	}

	if uc.cacheRepo != nil {
		if err := uc.cacheRepo.Delete(ctx, listingCacheKey(id)); err != nil {
			uc.logger.Warn("ListingUseCase.Delete: failed to invalidate cache",
				zap.String("listing_id", id), zap.Error(err))
		}
	}
	if uc.publisher != nil {
		if err := uc.publisher.PublishListingDeleted(ctx, id); err != nil {
			uc.logger.Warn("ListingUseCase.Delete: failed to publish delete event",
				zap.String("listing_id", id), zap.Error(err))
		}
	}
	return nil
}

// ListByUser returns every listing the acting user owns, newest first.
func (uc *ListingUseCase) ListByUser(ctx context.Context, actor Identity) ([]*entity.Listing, error) {
	listings, err := uc.repo.ListByUser(ctx, actor.ID)
	if err != nil {
		uc.logger.Error("ListingUseCase.ListByUser: failed to list user listings",
			zap.String("user_ref", actor.ID), zap.Error(err))
		return nil, fmt.Errorf("%w: %w", ErrFetchFailed, err)
	}
	return listings, nil
}
