package repository

import "context"

type FavoriteRepository interface {
	List(ctx context.Context, device string) ([]int, error)
	Add(ctx context.Context, device string, storeID int) (bool, error)
	Remove(ctx context.Context, device string, storeID int) (bool, error)
	Contains(ctx context.Context, device string, storeID int) (bool, error)
}
