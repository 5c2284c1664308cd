// Package catalog loads the static storefront and product data.
package catalog

import (
	_ "embed"
	"fmt"

	"gopkg.in/yaml.v3"

	"vira/internal/domain/entity"
)

//go:embed catalog.yaml
var defaultCatalog []byte

type SellerTemplate struct {
	StoreVisits int                    `yaml:"storeVisits"`
	Products    []entity.SellerProduct `yaml:"products"`
}

type Catalog struct {
	Categories []string       `yaml:"categories"`
	Stores     []entity.Store `yaml:"stores"`
	Seller     SellerTemplate `yaml:"seller"`

	storesByID   map[int]*entity.Store
	productsByID map[int]*entity.Product
}

// Default returns the catalog embedded in the binary.
func Default() (*Catalog, error) {
	return Parse(defaultCatalog)
}

// Parse decodes and indexes a YAML catalog. Store and product ids must be
// unique across the whole catalog.
func Parse(data []byte) (*Catalog, error) {
	var c Catalog
	if err := yaml.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("catalog: decode: %w", err)
	}

	c.storesByID = make(map[int]*entity.Store, len(c.Stores))
	c.productsByID = make(map[int]*entity.Product)

	for i := range c.Stores {
		store := &c.Stores[i]
		if _, dup := c.storesByID[store.ID]; dup {
			return nil, fmt.Errorf("catalog: duplicate store id %d", store.ID)
		}
		c.storesByID[store.ID] = store

		for j := range store.Products {
			product := &store.Products[j]
			product.StoreID = store.ID
			if product.Status == "" {
				product.Status = statusForStock(product.Stock)
			}
			if _, dup := c.productsByID[product.ID]; dup {
				return nil, fmt.Errorf("catalog: duplicate product id %d", product.ID)
			}
			c.productsByID[product.ID] = product
		}
	}

	return &c, nil
}

func statusForStock(stock int) string {
	switch {
	case stock <= 0:
		return entity.ProductStatusOutOfStock
	case stock < 5:
		return entity.ProductStatusLowStock
	default:
		return entity.ProductStatusActive
	}
}

func (c *Catalog) Store(id int) (*entity.Store, bool) {
	s, ok := c.storesByID[id]
	return s, ok
}

func (c *Catalog) Product(id int) (*entity.Product, bool) {
	p, ok := c.productsByID[id]
	return p, ok
}
