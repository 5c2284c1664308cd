package usecase

import (
	"context"

	"vira/internal/domain/entity"
	"vira/internal/domain/repository"
	"vira/pkg/errors"
	"vira/pkg/logger"
)

type FavoriteUseCase struct {
	favoriteRepo repository.FavoriteRepository
	catalogRepo  repository.CatalogRepository
}

func NewFavoriteUseCase(favoriteRepo repository.FavoriteRepository, catalogRepo repository.CatalogRepository) *FavoriteUseCase {
	return &FavoriteUseCase{
		favoriteRepo: favoriteRepo,
		catalogRepo:  catalogRepo,
	}
}

func (uc *FavoriteUseCase) Add(ctx context.Context, device string, storeID int) error {
	if _, err := uc.catalogRepo.GetStore(storeID); err != nil {
		return err
	}
	added, err := uc.favoriteRepo.Add(ctx, device, storeID)
	if err != nil {
		return err
	}
	if added {
		logger.Debug("Favorite added: device=%s, store=%d", device, storeID)
	}
	return nil
}

// Remove succeeds whether or not the store was a favourite.
func (uc *FavoriteUseCase) Remove(ctx context.Context, device string, storeID int) error {
	_, err := uc.favoriteRepo.Remove(ctx, device, storeID)
	return err
}

// Toggle flips the favourite state and returns the new one.
func (uc *FavoriteUseCase) Toggle(ctx context.Context, device string, storeID int) (bool, error) {
	removed, err := uc.favoriteRepo.Remove(ctx, device, storeID)
	if err != nil {
		return false, err
	}
	if removed {
		return false, nil
	}
	if err := uc.Add(ctx, device, storeID); err != nil {
		return false, err
	}
	return true, nil
}

// List returns favourite stores in the order they were added. Ids that are
// no longer in the catalog are skipped.
func (uc *FavoriteUseCase) List(ctx context.Context, device string) ([]entity.StoreSummary, error) {
	ids, err := uc.favoriteRepo.List(ctx, device)
	if err != nil {
		return nil, err
	}

	stores := make([]entity.StoreSummary, 0, len(ids))
	for _, id := range ids {
		store, err := uc.catalogRepo.GetStore(id)
		if err != nil {
			if errors.Is(err, errors.CodeNotFound) {
				continue
			}
			return nil, err
		}
		summary := store.Summary()
		summary.IsFavorite = true
		stores = append(stores, summary)
	}
	return stores, nil
}

func (uc *FavoriteUseCase) IsFavorite(ctx context.Context, device string, storeID int) (bool, error) {
	return uc.favoriteRepo.Contains(ctx, device, storeID)
}

func (uc *FavoriteUseCase) Count(ctx context.Context, device string) (int, error) {
	ids, err := uc.favoriteRepo.List(ctx, device)
	if err != nil {
		return 0, err
	}
	return len(ids), nil
}
