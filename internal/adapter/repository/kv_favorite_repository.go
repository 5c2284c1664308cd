package repository

import (
	"context"

	"vira/internal/domain/repository"
	"vira/internal/infrastructure/localstorage"
	"vira/pkg/errors"
)

type kvFavoriteRepository struct {
	storage localstorage.Storage
	locker  *localstorage.Locker
}

func NewKVFavoriteRepository(storage localstorage.Storage, locker *localstorage.Locker) repository.FavoriteRepository {
	return &kvFavoriteRepository{storage: storage, locker: locker}
}

// load returns the stored ids with duplicates dropped, keeping first
// occurrence order.
func (r *kvFavoriteRepository) load(ctx context.Context, device string) ([]int, error) {
	var raw []int
	if _, err := localstorage.GetJSON(ctx, r.storage, device, localstorage.KeyFavorites, &raw); err != nil {
		return nil, errors.Internal("Failed to read favorites", err)
	}

	seen := make(map[int]bool, len(raw))
	ids := make([]int, 0, len(raw))
	for _, id := range raw {
		if !seen[id] {
			seen[id] = true
			ids = append(ids, id)
		}
	}
	return ids, nil
}

func (r *kvFavoriteRepository) save(ctx context.Context, device string, ids []int) error {
	if err := localstorage.SetJSON(ctx, r.storage, device, localstorage.KeyFavorites, ids); err != nil {
		return errors.Internal("Failed to save favorites", err)
	}
	return nil
}

func (r *kvFavoriteRepository) List(ctx context.Context, device string) ([]int, error) {
	return r.load(ctx, device)
}

func (r *kvFavoriteRepository) Add(ctx context.Context, device string, storeID int) (bool, error) {
	unlock := r.locker.Lock(device)
	defer unlock()

	ids, err := r.load(ctx, device)
	if err != nil {
		return false, err
	}
	for _, id := range ids {
		if id == storeID {
			return false, nil
		}
	}
	return true, r.save(ctx, device, append(ids, storeID))
}

func (r *kvFavoriteRepository) Remove(ctx context.Context, device string, storeID int) (bool, error) {
	unlock := r.locker.Lock(device)
	defer unlock()

	ids, err := r.load(ctx, device)
	if err != nil {
		return false, err
	}

	kept := ids[:0]
	removed := false
	for _, id := range ids {
		if id == storeID {
			removed = true
			continue
		}
		kept = append(kept, id)
	}
	if !removed {
		return false, nil
	}
	return true, r.save(ctx, device, kept)
}

func (r *kvFavoriteRepository) Contains(ctx context.Context, device string, storeID int) (bool, error) {
	ids, err := r.load(ctx, device)
	if err != nil {
		return false, err
	}
	for _, id := range ids {
		if id == storeID {
			return true, nil
		}
	}
	return false, nil
}
