package catalog

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vira/internal/domain/entity"
)

func TestDefaultCatalog(t *testing.T) {
	c, err := Default()
	require.NoError(t, err)

	assert.Equal(t, []string{"All", "Fashion", "Electronics", "Crafts", "Beauty", "Home & Living", "Art"}, c.Categories)
	assert.Len(t, c.Stores, 6)
	assert.Len(t, c.Seller.Products, 12)

	store, ok := c.Store(1)
	require.True(t, ok)
	assert.Equal(t, "Artisan Pottery Studio", store.Name)
	assert.Len(t, store.About, 3)

	vase, ok := c.Product(1)
	require.True(t, ok)
	assert.Equal(t, 1, vase.StoreID)
	assert.True(t, decimal.RequireFromString("89.99").Equal(vase.Price))

	mask, ok := c.Product(11)
	require.True(t, ok)
	assert.Equal(t, entity.ProductStatusOutOfStock, mask.Status)

	_, ok = c.Product(999)
	assert.False(t, ok)
}

func TestParseRejectsDuplicateIDs(t *testing.T) {
	data := []byte(`
stores:
  - id: 1
    name: A
    products:
      - {id: 7, name: X, price: "1.00"}
  - id: 2
    name: B
    products:
      - {id: 7, name: Y, price: "2.00"}
`)
	_, err := Parse(data)
	assert.ErrorContains(t, err, "duplicate product id 7")
}
