package repository

import (
	"vira/internal/domain/entity"
	"vira/internal/domain/repository"
	"vira/internal/infrastructure/catalog"
	"vira/pkg/errors"
)

type staticCatalogRepository struct {
	catalog *catalog.Catalog
}

func NewStaticCatalogRepository(c *catalog.Catalog) repository.CatalogRepository {
	return &staticCatalogRepository{catalog: c}
}

func (r *staticCatalogRepository) Categories() []string {
	return append([]string(nil), r.catalog.Categories...)
}

func (r *staticCatalogRepository) Stores() []*entity.Store {
	stores := make([]*entity.Store, len(r.catalog.Stores))
	for i := range r.catalog.Stores {
		stores[i] = &r.catalog.Stores[i]
	}
	return stores
}

func (r *staticCatalogRepository) GetStore(id int) (*entity.Store, error) {
	store, ok := r.catalog.Store(id)
	if !ok {
		return nil, errors.NotFound("Store", nil)
	}
	return store, nil
}

func (r *staticCatalogRepository) GetProduct(id int) (*entity.Product, *entity.Store, error) {
	product, ok := r.catalog.Product(id)
	if !ok {
		return nil, nil, errors.NotFound("Product", nil)
	}
	store, ok := r.catalog.Store(product.StoreID)
	if !ok {
		return nil, nil, errors.NotFound("Store", nil)
	}
	return product, store, nil
}

func (r *staticCatalogRepository) SellerProducts() []entity.SellerProduct {
	return append([]entity.SellerProduct(nil), r.catalog.Seller.Products...)
}

func (r *staticCatalogRepository) SellerStoreVisits() int {
	return r.catalog.Seller.StoreVisits
}
