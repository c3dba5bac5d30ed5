package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/nyius/HouseMarketplace/internal/entity"
	"github.com/nyius/HouseMarketplace/internal/port/repository"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const listingsCollectionName = "listings"

type ListingMongoRepository struct {
	db *mongo.Database
}

func NewListingMongoRepository(client *mongo.Client, dbName string) *ListingMongoRepository {
	return &ListingMongoRepository{db: client.Database(dbName)}
}

type geoPointDocument struct {
	Lat float64 `bson:"lat"`
	Lng float64 `bson:"lng"`
}

type listingDocument struct {
	ID              primitive.ObjectID `bson:"_id,omitempty"`
	Type            string             `bson:"type"`
	Name            string             `bson:"name"`
	Bedrooms        int                `bson:"bedrooms"`
	Bathrooms       int                `bson:"bathrooms"`
	Parking         bool               `bson:"parking"`
	Furnished       bool               `bson:"furnished"`
	Offer           bool               `bson:"offer"`
	RegularPrice    float64            `bson:"regularPrice"`
	DiscountedPrice *float64           `bson:"discountedPrice,omitempty"`
	Location        string             `bson:"location"`
	Geolocation     geoPointDocument   `bson:"geolocation"`
	ImageURLs       []string           `bson:"imageUrls"`
	UserRef         string             `bson:"userRef"`
	Timestamp       primitive.DateTime `bson:"timestamp"`
}

func toListingDocument(l *entity.Listing) (*listingDocument, error) {
	doc := &listingDocument{
		Type:         string(l.Type),
		Name:         l.Name,
		Bedrooms:     l.Bedrooms,
		Bathrooms:    l.Bathrooms,
		Parking:      l.Parking,
		Furnished:    l.Furnished,
		Offer:        l.Offer,
		RegularPrice: l.RegularPrice,
		Location:     l.Location,
		Geolocation:  geoPointDocument{Lat: l.Geolocation.Lat, Lng: l.Geolocation.Lng},
		ImageURLs:    l.ImageURLs,
		UserRef:      l.UserRef,
		Timestamp:    primitive.NewDateTimeFromTime(l.Timestamp),
	}
	if l.Offer {
		price := l.DiscountedPrice
		doc.DiscountedPrice = &price
	}
	if l.ID != "" {
		objID, err := primitive.ObjectIDFromHex(l.ID)
		if err != nil {
			return nil, fmt.Errorf("invalid listing ID format: %w", err)
		}
		doc.ID = objID
	}
	return doc, nil
}

func toListingEntity(doc *listingDocument) *entity.Listing {
	l := &entity.Listing{
		ID:           doc.ID.Hex(),
		Type:         entity.ListingType(doc.Type),
		Name:         doc.Name,
		Bedrooms:     doc.Bedrooms,
		Bathrooms:    doc.Bathrooms,
		Parking:      doc.Parking,
		Furnished:    doc.Furnished,
		Offer:        doc.Offer,
		RegularPrice: doc.RegularPrice,
		Location:     doc.Location,
		Geolocation:  entity.GeoPoint{Lat: doc.Geolocation.Lat, Lng: doc.Geolocation.Lng},
		ImageURLs:    doc.ImageURLs,
		UserRef:      doc.UserRef,
		Timestamp:    doc.Timestamp.Time(),
	}
	if doc.DiscountedPrice != nil {
		l.DiscountedPrice = *doc.DiscountedPrice
	}
	return l
}

func (r *ListingMongoRepository) Create(ctx context.Context, listing *entity.Listing) (string, error) {
	listing.Timestamp = time.Now()
	doc, err := toListingDocument(listing)
	if err != nil {
		return "", err
	}

	res, err := r.db.Collection(listingsCollectionName).InsertOne(ctx, doc)
	if err != nil {
		return "", fmt.Errorf("failed to create listing in mongo: %w", err)
	}

	insertedID, ok := res.InsertedID.(primitive.ObjectID)
	if !ok {
		return "", fmt.Errorf("failed to convert inserted_id to ObjectID")
	}
	return insertedID.Hex(), nil
}

func (r *ListingMongoRepository) GetByID(ctx context.Context, id string) (*entity.Listing, error) {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, repository.ErrNotFound
	}

	var doc listingDocument
	err = r.db.Collection(listingsCollectionName).FindOne(ctx, bson.M{"_id": objID}).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get listing by id from mongo: %w", err)
	}
	return toListingEntity(&doc), nil
}

// Update rewrites every mutable field in one write. discountedPrice is
// unset when the listing carries no offer, and the timestamp is stamped by
// the store so readers either see the old document or the complete new one.
func (r *ListingMongoRepository) Update(ctx context.Context, listing *entity.Listing) error {
	doc, err := toListingDocument(listing)
	if err != nil {
		return err
	}
	if doc.ID.IsZero() {
		return fmt.Errorf("listing ID is required for update")
	}

	setFields := bson.M{
		"type":         doc.Type,
		"name":         doc.Name,
		"bedrooms":     doc.Bedrooms,
		"bathrooms":    doc.Bathrooms,
		"parking":      doc.Parking,
		"furnished":    doc.Furnished,
		"offer":        doc.Offer,
		"regularPrice": doc.RegularPrice,
		"location":     doc.Location,
		"geolocation":  doc.Geolocation,
		"imageUrls":    doc.ImageURLs,
	}

	update := bson.M{
		"$set":         setFields,
		"$currentDate": bson.M{"timestamp": true},
	}
	if doc.DiscountedPrice != nil {
		setFields["discountedPrice"] = *doc.DiscountedPrice
	} else {
		update["$unset"] = bson.M{"discountedPrice": ""}
	}

	res, err := r.db.Collection(listingsCollectionName).UpdateOne(ctx, bson.M{"_id": doc.ID}, update)
	if err != nil {
		return fmt.Errorf("failed to update listing in mongo: %w", err)
	}
	if res.MatchedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *ListingMongoRepository) Delete(ctx context.Context, id string) error {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return repository.ErrNotFound
	}

	res, err := r.db.Collection(listingsCollectionName).DeleteOne(ctx, bson.M{"_id": objID})
	if err != nil {
		return fmt.Errorf("failed to delete listing from mongo: %w", err)
	}
	if res.DeletedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// ListByType pages through one category, newest first. The (timestamp, _id)
// pair is the sort key; the cursor encodes the pair of the page's last
// document so the next call resumes strictly after it.
func (r *ListingMongoRepository) ListByType(ctx context.Context, t entity.ListingType, cursor repository.Cursor, limit int) ([]*entity.Listing, repository.Cursor, error) {
	filter := bson.M{"type": string(t)}
	if cursor != "" {
		ts, oid, err := decodeCursor(cursor)
		if err != nil {
			return nil, "", err
		}
		filter["$or"] = bson.A{
			bson.M{"timestamp": bson.M{"$lt": ts}},
			bson.M{"timestamp": ts, "_id": bson.M{"$lt": oid}},
		}
	}

	docs, err := r.find(ctx, filter, limit)
	if err != nil {
		return nil, "", err
	}

	listings := make([]*entity.Listing, len(docs))
	for i := range docs {
		listings[i] = toListingEntity(&docs[i])
	}

	var next repository.Cursor
	if len(docs) == limit {
		last := docs[len(docs)-1]
		next = encodeCursor(last.Timestamp, last.ID)
	}
	return listings, next, nil
}

func (r *ListingMongoRepository) ListByUser(ctx context.Context, userRef string) ([]*entity.Listing, error) {
	docs, err := r.find(ctx, bson.M{"userRef": userRef}, 0)
	if err != nil {
		return nil, err
	}
	listings := make([]*entity.Listing, len(docs))
	for i := range docs {
		listings[i] = toListingEntity(&docs[i])
	}
	return listings, nil
}

func (r *ListingMongoRepository) find(ctx context.Context, filter bson.M, limit int) ([]listingDocument, error) {
	findOptions := options.Find().SetSort(bson.D{{Key: "timestamp", Value: -1}, {Key: "_id", Value: -1}})
	if limit > 0 {
		findOptions.SetLimit(int64(limit))
	}

	cur, err := r.db.Collection(listingsCollectionName).Find(ctx, filter, findOptions)
	if err != nil {
		return nil, fmt.Errorf("failed to list listings from mongo: %w", err)
	}
	defer cur.Close(ctx)

	var docs []listingDocument
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("failed to decode listings from mongo: %w", err)
	}
	return docs, nil
}
