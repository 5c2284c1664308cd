package repository

import (
	"context"
	"sync"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vira/internal/domain/entity"
	"vira/internal/infrastructure/catalog"
	"vira/internal/infrastructure/localstorage"
	"vira/pkg/errors"
)

func TestUserRepository(t *testing.T) {
	ctx := context.Background()
	repo := NewKVUserRepository(localstorage.NewMemoryStorage())

	_, err := repo.Get(ctx, "dev")
	assert.True(t, errors.Is(err, errors.CodeNotFound))

	require.NoError(t, repo.Save(ctx, "dev", &entity.User{Username: "sam", Email: "sam@example.com"}))
	require.NoError(t, repo.SavePassword(ctx, "dev", "hash"))

	user, err := repo.Get(ctx, "dev")
	require.NoError(t, err)
	assert.Equal(t, "sam", user.Username)

	password, err := repo.GetPassword(ctx, "dev")
	require.NoError(t, err)
	assert.Equal(t, "hash", password)
}

func TestOrderRepositoryPrependAndUpdate(t *testing.T) {
	ctx := context.Background()
	repo := NewKVOrderRepository(localstorage.NewMemoryStorage(), localstorage.NewLocker())

	first := &entity.Order{ID: "ORD-100", Status: entity.OrderStatusProcessing, Total: decimal.NewFromInt(10)}
	second := &entity.Order{ID: "ORD-100", Status: entity.OrderStatusProcessing, Total: decimal.NewFromInt(20)}
	require.NoError(t, repo.Prepend(ctx, "dev", first))
	require.NoError(t, repo.Prepend(ctx, "dev", second))

	assert.Equal(t, "ORD-100-2", second.ID)

	orders, err := repo.List(ctx, "dev")
	require.NoError(t, err)
	require.Len(t, orders, 2)
	assert.Equal(t, "ORD-100-2", orders[0].ID, "newest order comes first")

	updated, err := repo.Update(ctx, "dev", "ORD-100", func(o *entity.Order) error {
		o.Status = entity.OrderStatusCancelled
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, entity.OrderStatusCancelled, updated.Status)

	_, err = repo.Update(ctx, "dev", "ORD-100-2", func(o *entity.Order) error {
		o.Status = entity.OrderStatusShipped
		return errors.BadRequest("nope", nil)
	})
	assert.Error(t, err)
	stored, err := repo.GetByID(ctx, "dev", "ORD-100-2")
	require.NoError(t, err)
	assert.Equal(t, entity.OrderStatusProcessing, stored.Status, "failed update must not persist")

	_, err = repo.GetByID(ctx, "dev", "ORD-404")
	assert.True(t, errors.Is(err, errors.CodeNotFound))

	changed, err := repo.UpdateAll(ctx, "dev", func(o *entity.Order) bool {
		if o.Status == entity.OrderStatusProcessing {
			o.Status = entity.OrderStatusShipped
			return true
		}
		return false
	})
	require.NoError(t, err)
	assert.Equal(t, 1, changed)
}

func TestOrderRepositoryConcurrentPrepend(t *testing.T) {
	ctx := context.Background()
	repo := NewKVOrderRepository(localstorage.NewMemoryStorage(), localstorage.NewLocker())

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			assert.NoError(t, repo.Prepend(ctx, "dev", &entity.Order{ID: "ORD-1"}))
		}()
	}
	wg.Wait()

	orders, err := repo.List(ctx, "dev")
	require.NoError(t, err)
	assert.Len(t, orders, 20)

	ids := map[string]bool{}
	for _, o := range orders {
		ids[o.ID] = true
	}
	assert.Len(t, ids, 20)
}

func TestConversationRepository(t *testing.T) {
	ctx := context.Background()
	repo := NewKVConversationRepository(localstorage.NewMemoryStorage(), localstorage.NewLocker())

	_, err := repo.Get(ctx, "dev", 1)
	assert.True(t, errors.Is(err, errors.CodeNotFound))

	_, err = repo.Upsert(ctx, "dev", 3, func(c *entity.Conversation) (*entity.Conversation, error) {
		assert.Nil(t, c)
		return &entity.Conversation{StoreID: 3, StoreName: "Vintage Fashion Co"}, nil
	})
	require.NoError(t, err)

	conv, err := repo.Upsert(ctx, "dev", 3, func(c *entity.Conversation) (*entity.Conversation, error) {
		require.NotNil(t, c)
		c.Messages = append(c.Messages, entity.Message{ID: "m1", Sender: entity.SenderMe, Text: "hi"})
		return c, nil
	})
	require.NoError(t, err)
	assert.Len(t, conv.Messages, 1)

	list, err := repo.List(ctx, "dev")
	require.NoError(t, err)
	require.Len(t, list, 1)

	require.NoError(t, repo.Delete(ctx, "dev", 3))
	assert.True(t, errors.Is(repo.Delete(ctx, "dev", 3), errors.CodeNotFound))
}

func TestFavoriteRepositoryIsASet(t *testing.T) {
	ctx := context.Background()
	storage := localstorage.NewMemoryStorage()
	repo := NewKVFavoriteRepository(storage, localstorage.NewLocker())

	added, err := repo.Add(ctx, "dev", 2)
	require.NoError(t, err)
	assert.True(t, added)

	added, err = repo.Add(ctx, "dev", 2)
	require.NoError(t, err)
	assert.False(t, added)

	_, err = repo.Add(ctx, "dev", 5)
	require.NoError(t, err)

	ids, err := repo.List(ctx, "dev")
	require.NoError(t, err)
	assert.Equal(t, []int{2, 5}, ids)

	removed, err := repo.Remove(ctx, "dev", 2)
	require.NoError(t, err)
	assert.True(t, removed)

	ok, err := repo.Contains(ctx, "dev", 2)
	require.NoError(t, err)
	assert.False(t, ok)

	// duplicates written by older clients collapse on read
	require.NoError(t, storage.Set(ctx, "dev", localstorage.KeyFavorites, []byte("[4,4,1]")))
	ids, err = repo.List(ctx, "dev")
	require.NoError(t, err)
	assert.Equal(t, []int{4, 1}, ids)
}

func TestStaticCatalogRepository(t *testing.T) {
	c, err := catalog.Default()
	require.NoError(t, err)
	repo := NewStaticCatalogRepository(c)

	product, store, err := repo.GetProduct(5)
	require.NoError(t, err)
	assert.Equal(t, "Wireless Headphones", product.Name)
	assert.Equal(t, "Tech Gadgets Hub", store.Name)

	_, err = repo.GetStore(42)
	assert.True(t, errors.Is(err, errors.CodeNotFound))

	assert.Len(t, repo.Stores(), 6)
	assert.Equal(t, 2456, repo.SellerStoreVisits())
}

func TestRepositoriesDropTypeMismatchedBlobs(t *testing.T) {
	ctx := context.Background()
	storage := localstorage.NewMemoryStorage()
	locker := localstorage.NewLocker()

	require.NoError(t, storage.Set(ctx, "dev", localstorage.KeyFavorites, []byte(`[1,"x",3]`)))
	require.NoError(t, storage.Set(ctx, "dev", localstorage.KeyOrders,
		[]byte(`[{"id":"ORD-1","status":"processing","total":"bad","products":[]}]`)))
	require.NoError(t, storage.Set(ctx, "dev", localstorage.KeyConversations,
		[]byte(`{"1":{"storeId":1,"storeName":"Shop","messages":"oops"}}`)))

	favorites := NewKVFavoriteRepository(storage, locker)
	ids, err := favorites.List(ctx, "dev")
	require.NoError(t, err)
	assert.Empty(t, ids)

	orders := NewKVOrderRepository(storage, locker)
	list, err := orders.List(ctx, "dev")
	require.NoError(t, err)
	assert.Empty(t, list)

	conversations := NewKVConversationRepository(storage, locker)
	threads, err := conversations.List(ctx, "dev")
	require.NoError(t, err)
	assert.Empty(t, threads)

	// The next write starts from an empty slice, not the half-decoded one.
	added, err := favorites.Add(ctx, "dev", 2)
	require.NoError(t, err)
	assert.True(t, added)
	ids, err = favorites.List(ctx, "dev")
	require.NoError(t, err)
	assert.Equal(t, []int{2}, ids)
}

func TestUserRepositoryDefaultsMissingRole(t *testing.T) {
	ctx := context.Background()
	storage := localstorage.NewMemoryStorage()
	require.NoError(t, storage.Set(ctx, "dev", localstorage.KeyUser,
		[]byte(`{"username":"old","email":"old@example.com"}`)))

	user, err := NewKVUserRepository(storage).Get(ctx, "dev")
	require.NoError(t, err)
	assert.Equal(t, entity.RoleBuyer, user.Role)
}
