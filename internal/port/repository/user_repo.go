package repository

import (
	"context"

	"github.com/nyius/HouseMarketplace/internal/entity"
)

type UserRepository interface {
	// Upsert creates the user profile document or replaces its fields if it
	// already exists. The document id is the identity provider's uid.
	Upsert(ctx context.Context, user *entity.User) error
	GetByID(ctx context.Context, id string) (*entity.User, error)
	UpdateName(ctx context.Context, id, name string) error
}
