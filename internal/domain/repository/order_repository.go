package repository

import (
	"context"

	"vira/internal/domain/entity"
)

type OrderRepository interface {
	// List returns the device's orders, newest first.
	List(ctx context.Context, device string) ([]*entity.Order, error)
	GetByID(ctx context.Context, device, id string) (*entity.Order, error)
	// Prepend stores order ahead of existing orders, assigning a unique id
	// suffix if the id is already taken.
	Prepend(ctx context.Context, device string, order *entity.Order) error
	// Update applies fn to the stored order under the device lock. If fn
	// returns an error nothing is written.
	Update(ctx context.Context, device, id string, fn func(*entity.Order) error) (*entity.Order, error)
	// UpdateAll applies fn to every order of the device and persists the
	// result when fn reports a change.
	UpdateAll(ctx context.Context, device string, fn func(*entity.Order) bool) (int, error)
	Devices(ctx context.Context) ([]string, error)
}
