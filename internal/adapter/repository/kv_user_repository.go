package repository

import (
	"context"

	"vira/internal/domain/entity"
	"vira/internal/domain/repository"
	"vira/internal/infrastructure/localstorage"
	"vira/pkg/errors"
)

type kvUserRepository struct {
	storage localstorage.Storage
}

func NewKVUserRepository(storage localstorage.Storage) repository.UserRepository {
	return &kvUserRepository{storage: storage}
}

func (r *kvUserRepository) Get(ctx context.Context, device string) (*entity.User, error) {
	var user entity.User
	ok, err := localstorage.GetJSON(ctx, r.storage, device, localstorage.KeyUser, &user)
	if err != nil {
		return nil, errors.Internal("Failed to read user", err)
	}
	if !ok {
		return nil, errors.NotFound("User", nil)
	}
	user.Role = user.EffectiveRole()
	return &user, nil
}

func (r *kvUserRepository) Save(ctx context.Context, device string, user *entity.User) error {
	if err := localstorage.SetJSON(ctx, r.storage, device, localstorage.KeyUser, user); err != nil {
		return errors.Internal("Failed to save user", err)
	}
	return nil
}

func (r *kvUserRepository) GetPassword(ctx context.Context, device string) (string, error) {
	raw, ok, err := r.storage.Get(ctx, device, localstorage.KeyPassword)
	if err != nil {
		return "", errors.Internal("Failed to read password", err)
	}
	if !ok {
		return "", errors.NotFound("Password", nil)
	}
	return string(raw), nil
}

func (r *kvUserRepository) SavePassword(ctx context.Context, device, credential string) error {
	if err := r.storage.Set(ctx, device, localstorage.KeyPassword, []byte(credential)); err != nil {
		return errors.Internal("Failed to save password", err)
	}
	return nil
}
