package repository

import "vira/internal/domain/entity"

// CatalogRepository is read-only access to the static storefront data.
type CatalogRepository interface {
	Categories() []string
	Stores() []*entity.Store
	GetStore(id int) (*entity.Store, error)
	GetProduct(id int) (*entity.Product, *entity.Store, error)
	SellerProducts() []entity.SellerProduct
	SellerStoreVisits() int
}
