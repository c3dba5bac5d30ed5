package usecase

import (
	"context"
	"errors"
	"fmt"

	"github.com/nyius/HouseMarketplace/internal/entity"
	"github.com/nyius/HouseMarketplace/internal/port/repository"
	"go.uber.org/zap"
)

var ErrUserNotFound = errors.New("user not found")

type UserUseCase struct {
	users  repository.UserRepository
	logger *zap.Logger
}

func NewUserUseCase(users repository.UserRepository, logger *zap.Logger) *UserUseCase {
	return &UserUseCase{users: users, logger: logger}
}

func (uc *UserUseCase) GetProfile(ctx context.Context, actor Identity) (*entity.User, error) {
	user, err := uc.users.GetByID(ctx, actor.ID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("UserUseCase.GetProfile: %w", err)
	}
	return user, nil
}

// UpdateDisplayName changes the profile document's name field. A missing
// profile document is created on the fly so a rename before the first
// listing submission still sticks.
func (uc *UserUseCase) UpdateDisplayName(ctx context.Context, actor Identity, name string) error {
	if name == "" {
		return errors.New("display name cannot be empty")
	}

	err := uc.users.UpdateName(ctx, actor.ID, name)
	if errors.Is(err, repository.ErrNotFound) {
		err = uc.users.Upsert(ctx, &entity.User{ID: actor.ID, Name: name, Email: actor.Email})
	}
	if err != nil {
		uc.logger.Error("UserUseCase.UpdateDisplayName: failed to update profile",
			zap.String("user_id", actor.ID), zap.Error(err))
		return fmt.Errorf("UserUseCase.UpdateDisplayName: %w", err)
	}
	return nil
}
