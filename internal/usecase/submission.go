package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"
	"github.com/nyius/HouseMarketplace/internal/entity"
	"github.com/nyius/HouseMarketplace/internal/port/cache"
	"github.com/nyius/HouseMarketplace/internal/port/geocoder"
	"github.com/nyius/HouseMarketplace/internal/port/repository"
	"github.com/nyius/HouseMarketplace/internal/port/storage"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const maxImages = 6

var (
	ErrListingNotFound = errors.New("listing not found")
	ErrForbidden       = errors.New("user not authorized to perform this action")
)

// Stage names the pipeline step a submission failed in.
type Stage string

const (
	StageValidating       Stage = "validating"
	StageResolvingAddress Stage = "resolving_address"
	StageUploadingImages  Stage = "uploading_images"
	StageCommitting       Stage = "committing"
)

// Failure reasons, per stage.
const (
	ReasonPrice      = "price"
	ReasonImageCount = "image-count"
	ReasonName       = "name"
	ReasonRooms      = "rooms"
	ReasonPriceRange = "price-range"
	ReasonType       = "type"

	ReasonUnresolved = "unresolved-address"

	ReasonUnauthorized = "unauthorized"
	ReasonCancelled    = "cancelled"
	ReasonUnknown      = "unknown"

	ReasonStore = "store"
)

// SubmissionError is the tagged failure value every aborted submission
// returns: the stage that failed, a short machine-readable reason, and the
// underlying cause (nil for local validation failures).
type SubmissionError struct {
	Stage  Stage
	Reason string
	Err    error
}

func (e *SubmissionError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("submission failed at %s (%s): %v", e.Stage, e.Reason, e.Err)
	}
	return fmt.Sprintf("submission failed at %s (%s)", e.Stage, e.Reason)
}

func (e *SubmissionError) Unwrap() error { return e.Err }

// Identity is the acting user, resolved by the identity provider and passed
// in explicitly rather than read from ambient session state.
type Identity struct {
	ID    string
	Name  string
	Email string
}

// ImageFile is one raw image blob selected for upload. Data is read exactly
// once during stage 3.
type ImageFile struct {
	Name        string
	Data        io.Reader
	Size        int64
	ContentType string
}

// SubmissionInput is the validated form payload, pre-upload. When
// GeocodingEnabled is false the Latitude/Longitude pair and the raw Address
// are used verbatim and the geocoder is never called.
type SubmissionInput struct {
	Type            entity.ListingType
	Name            string
	Bedrooms        int
	Bathrooms       int
	Parking         bool
	Furnished       bool
	Offer           bool
	RegularPrice    float64
	DiscountedPrice float64

	Address          string
	GeocodingEnabled bool
	Latitude         float64
	Longitude        float64

	Images []ImageFile

	// OnProgress receives per-upload progress events during stage 3. May be
	// nil. Called from uploading goroutines; must not block.
	OnProgress storage.ProgressFunc
}

// SubmissionPipeline drives a listing save through its stages: validation,
// address resolution, concurrent image upload, document commit. Each stage
// is a hard gate; nothing is written to the store unless every earlier
// stage succeeded. Uploaded blobs are NOT deleted when a later stage fails
// (accepted orphan risk, logged for an external sweep).
type SubmissionPipeline struct {
	listings  repository.ListingRepository
	users     repository.UserRepository
	files     storage.FileStorage
	geocoder  geocoder.Geocoder
	publisher EventPublisher
	cacheRepo cache.CacheRepository
	logger    *zap.Logger
}

func NewSubmissionPipeline(
	listings repository.ListingRepository,
	users repository.UserRepository,
	files storage.FileStorage,
	geo geocoder.Geocoder,
	publisher EventPublisher,
	cacheRepo cache.CacheRepository,
	logger *zap.Logger,
) *SubmissionPipeline {
	return &SubmissionPipeline{
		listings:  listings,
		users:     users,
		files:     files,
		geocoder:  geo,
		publisher: publisher,
		cacheRepo: cacheRepo,
		logger:    logger,
	}
}

// CreateListing runs the full pipeline and inserts a new document. The
// store assigns the id. The companion user profile document is created or
// refreshed in the same stage.
func (p *SubmissionPipeline) CreateListing(ctx context.Context, actor Identity, input SubmissionInput) (*entity.Listing, error) {
	listing, err := p.run(ctx, actor, input)
	if err != nil {
		return nil, err
	}

	id, err := p.listings.Create(ctx, listing)
	if err != nil {
		p.logCommitFailure(listing, err)
		return nil, &SubmissionError{Stage: StageCommitting, Reason: ReasonStore, Err: err}
	}
	listing.ID = id

	if err := p.users.Upsert(ctx, &entity.User{ID: actor.ID, Name: actor.Name, Email: actor.Email}); err != nil {
		p.logCommitFailure(listing, err)
		return nil, &SubmissionError{Stage: StageCommitting, Reason: ReasonStore, Err: err}
	}

	p.afterCommit(ctx, listing, true)
	return listing, nil
}

// UpdateListing replaces every mutable field of an existing listing. The
// ownership gate runs before any other stage: a non-owner is refused with
// ErrForbidden and zero store mutations.
func (p *SubmissionPipeline) UpdateListing(ctx context.Context, actor Identity, listingID string, input SubmissionInput) (*entity.Listing, error) {
	existing, err := p.listings.GetByID(ctx, listingID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrListingNotFound
		}
		return nil, err
	}
	if existing.UserRef != actor.ID {
		p.logger.Warn("SubmissionPipeline: edit refused, actor does not own listing",
			zap.String("listing_id", listingID),
			zap.String("owner", existing.UserRef),
			zap.String("actor", actor.ID))
		return nil, ErrForbidden
	}

	listing, err := p.run(ctx, actor, input)
	if err != nil {
		return nil, err
	}
	listing.ID = listingID
	listing.UserRef = existing.UserRef // set once at creation, never mutated

	if err := p.listings.Update(ctx, listing); err != nil {
		p.logCommitFailure(listing, err)
		return nil, &SubmissionError{Stage: StageCommitting, Reason: ReasonStore, Err: err}
	}

	p.afterCommit(ctx, listing, false)
	return listing, nil
}

// run executes stages 1-3 and assembles the document to commit.
func (p *SubmissionPipeline) run(ctx context.Context, actor Identity, input SubmissionInput) (*entity.Listing, error) {
	if err := validate(input); err != nil {
		return nil, err
	}

	location, geo, err := p.resolveAddress(ctx, input)
	if err != nil {
		return nil, err
	}

	urls, err := p.uploadImages(ctx, actor, input)
	if err != nil {
		return nil, err
	}

	listing := &entity.Listing{
		Type:         input.Type,
		Name:         input.Name,
		Bedrooms:     input.Bedrooms,
		Bathrooms:    input.Bathrooms,
		Parking:      input.Parking,
		Furnished:    input.Furnished,
		Offer:        input.Offer,
		RegularPrice: input.RegularPrice,
		Location:     location,
		Geolocation:  geo,
		ImageURLs:    urls,
		UserRef:      actor.ID,
	}
	if input.Offer {
		listing.DiscountedPrice = input.DiscountedPrice
	}
	return listing, nil
}

// Stage 1. Purely local; no collaborator is called on failure.
func validate(input SubmissionInput) error {
	fail := func(reason string) error {
		return &SubmissionError{Stage: StageValidating, Reason: reason}
	}

	if !input.Type.Valid() {
		return fail(ReasonType)
	}
	if n := len(input.Name); n < 10 || n > 32 {
		return fail(ReasonName)
	}
	if input.Bedrooms < 1 || input.Bedrooms > 50 || input.Bathrooms < 1 || input.Bathrooms > 50 {
		return fail(ReasonRooms)
	}
	if input.RegularPrice < 50 || input.RegularPrice > 750000000 {
		return fail(ReasonPriceRange)
	}
	if input.Offer && input.DiscountedPrice >= input.RegularPrice {
		return fail(ReasonPrice)
	}
	if len(input.Images) < 1 || len(input.Images) > maxImages {
		return fail(ReasonImageCount)
	}
	return nil
}

// Stage 2. With geolocation assist off, the user-supplied coordinates and
// the raw address are taken verbatim, skipping the network call.
func (p *SubmissionPipeline) resolveAddress(ctx context.Context, input SubmissionInput) (string, entity.GeoPoint, error) {
	if !input.GeocodingEnabled {
		return input.Address, entity.GeoPoint{Lat: input.Latitude, Lng: input.Longitude}, nil
	}

	res, err := p.geocoder.Resolve(ctx, input.Address)
	if err != nil {
		p.logger.Warn("SubmissionPipeline: address resolution failed",
			zap.String("address", input.Address), zap.Error(err))
		return "", entity.GeoPoint{}, &SubmissionError{Stage: StageResolvingAddress, Reason: ReasonUnresolved, Err: err}
	}
	if res.FormattedAddress == "" {
		return "", entity.GeoPoint{}, &SubmissionError{Stage: StageResolvingAddress, Reason: ReasonUnresolved, Err: geocoder.ErrZeroResults}
	}
	return res.FormattedAddress, entity.GeoPoint{Lat: res.Lat, Lng: res.Lng}, nil
}

// Stage 3. All uploads run concurrently; the stage resolves only when every
// one of them succeeded. A single failure fails the join (in-flight siblings
// are cancelled through the group context and their results discarded).
// URL order mirrors input order regardless of completion order.
func (p *SubmissionPipeline) uploadImages(ctx context.Context, actor Identity, input SubmissionInput) ([]string, error) {
	urls := make([]string, len(input.Images))

	g, gctx := errgroup.WithContext(ctx)
	for i, img := range input.Images {
		i, img := i, img
		key := fmt.Sprintf("images/%s-%s-%s", actor.ID, img.Name, uuid.NewString())
		g.Go(func() error {
			url, err := p.files.Upload(gctx, key, img.Data, img.Size, img.ContentType, input.OnProgress)
			if err != nil {
				return err
			}
			urls[i] = url
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		p.logger.Warn("SubmissionPipeline: image upload failed, aborting submission",
			zap.String("user_ref", actor.ID), zap.Error(err))
		return nil, &SubmissionError{Stage: StageUploadingImages, Reason: uploadReason(err), Err: err}
	}
	return urls, nil
}

func uploadReason(err error) string {
	switch {
	case errors.Is(err, storage.ErrUnauthorized):
		return ReasonUnauthorized
	case errors.Is(err, storage.ErrCancelled), errors.Is(err, context.Canceled):
		return ReasonCancelled
	default:
		return ReasonUnknown
	}
}

// Uploaded blobs of a failed commit are never reclaimed here; the keys are
// logged so an external sweep can pick them up.
func (p *SubmissionPipeline) logCommitFailure(listing *entity.Listing, err error) {
	p.logger.Error("SubmissionPipeline: commit failed, uploaded blobs orphaned",
		zap.Strings("image_urls", listing.ImageURLs),
		zap.String("user_ref", listing.UserRef),
		zap.Error(err))
}

func (p *SubmissionPipeline) afterCommit(ctx context.Context, listing *entity.Listing, created bool) {
	if p.publisher != nil {
		var err error
		if created {
			err = p.publisher.PublishListingCreated(ctx, listing)
		} else {
			err = p.publisher.PublishListingUpdated(ctx, listing)
		}
		if err != nil {
			p.logger.Warn("SubmissionPipeline: failed to publish listing event",
				zap.String("listing_id", listing.ID), zap.Error(err))
		}
	}

	if p.cacheRepo != nil {
		data, err := json.Marshal(listing)
		if err == nil {
			err = p.cacheRepo.Set(ctx, listingCacheKey(listing.ID), data, listingCacheTTL)
		}
		if err != nil {
			p.logger.Warn("SubmissionPipeline: failed to refresh listing cache",
				zap.String("listing_id", listing.ID), zap.Error(err))
		}
	}
}

func listingCacheKey(id string) string {
	return fmt.Sprintf("listing:%s", id)
}

const listingCacheTTL = 5 * time.Minute
