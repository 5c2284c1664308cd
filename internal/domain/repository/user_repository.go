package repository

import (
	"context"

	"vira/internal/domain/entity"
)

// UserRepository holds the single account of a device and its password
// credential, which are stored under separate keys.
type UserRepository interface {
	Get(ctx context.Context, device string) (*entity.User, error)
	Save(ctx context.Context, device string, user *entity.User) error
	GetPassword(ctx context.Context, device string) (string, error)
	SavePassword(ctx context.Context, device, credential string) error
}
