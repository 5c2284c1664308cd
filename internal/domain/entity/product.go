package entity

import (
	"github.com/shopspring/decimal"
)

func init() {
	// Prices and totals travel as JSON numbers, as the stored blobs always have.
	decimal.MarshalJSONWithoutQuotes = true
}

const (
	ProductStatusActive     = "active"
	ProductStatusLowStock   = "low_stock"
	ProductStatusOutOfStock = "out_of_stock"
)

type Product struct {
	ID          int             `json:"id" yaml:"id"`
	StoreID     int             `json:"storeId" yaml:"-"`
	Name        string          `json:"name" yaml:"name"`
	Description string          `json:"description,omitempty" yaml:"description"`
	Price       decimal.Decimal `json:"price" yaml:"price"`
	Image       string          `json:"image" yaml:"image"`
	Rating      float64         `json:"rating" yaml:"rating"`
	Sales       int             `json:"sales" yaml:"sales"`
	Stock       int             `json:"stock" yaml:"stock"`
	Status      string          `json:"status,omitempty" yaml:"status"`
}

// SellerProduct is an item in the signed-in seller's own store.
type SellerProduct struct {
	ID     int             `json:"id" yaml:"id"`
	Name   string          `json:"name" yaml:"name"`
	Price  decimal.Decimal `json:"price" yaml:"price"`
	Image  string          `json:"image" yaml:"image"`
	Stock  int             `json:"stock" yaml:"stock"`
	Sales  int             `json:"sales" yaml:"sales"`
	Status string          `json:"status" yaml:"status"`
}

// Revenue is price multiplied by units sold.
func (p SellerProduct) Revenue() decimal.Decimal {
	return p.Price.Mul(decimal.NewFromInt(int64(p.Sales)))
}
