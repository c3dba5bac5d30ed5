package mongo

import (
	"context"
	"errors"
	"fmt"

	"github.com/nyius/HouseMarketplace/internal/entity"
	"github.com/nyius/HouseMarketplace/internal/port/repository"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const usersCollectionName = "users"

// Users are keyed by the identity provider's uid, not an ObjectID.
type UserMongoRepository struct {
	db *mongo.Database
}

func NewUserMongoRepository(client *mongo.Client, dbName string) *UserMongoRepository {
	return &UserMongoRepository{db: client.Database(dbName)}
}

type userDocument struct {
	ID    string `bson:"_id"`
	Name  string `bson:"name"`
	Email string `bson:"email"`
}

func (r *UserMongoRepository) Upsert(ctx context.Context, user *entity.User) error {
	update := bson.M{"$set": bson.M{"name": user.Name, "email": user.Email}}
	opts := options.Update().SetUpsert(true)

	_, err := r.db.Collection(usersCollectionName).UpdateByID(ctx, user.ID, update, opts)
	if err != nil {
		return fmt.Errorf("failed to upsert user in mongo: %w", err)
	}
	return nil
}

func (r *UserMongoRepository) GetByID(ctx context.Context, id string) (*entity.User, error) {
	var doc userDocument
	err := r.db.Collection(usersCollectionName).FindOne(ctx, bson.M{"_id": id}).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get user by id from mongo: %w", err)
	}
	return &entity.User{ID: doc.ID, Name: doc.Name, Email: doc.Email}, nil
}

func (r *UserMongoRepository) UpdateName(ctx context.Context, id, name string) error {
	res, err := r.db.Collection(usersCollectionName).UpdateByID(ctx, id, bson.M{"$set": bson.M{"name": name}})
	if err != nil {
		return fmt.Errorf("failed to update user name in mongo: %w", err)
	}
	if res.MatchedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}
