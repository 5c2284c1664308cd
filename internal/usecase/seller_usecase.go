package usecase

import (
	"context"
	"sort"
	"strings"

	"github.com/shopspring/decimal"

	"vira/internal/domain/entity"
	"vira/internal/domain/repository"
	"vira/pkg/errors"
)

const (
	topProductCount  = 3
	recentOrderCount = 5
	productStatusAll = "all"
)

type SellerUseCase struct {
	userRepo    repository.UserRepository
	orderRepo   repository.OrderRepository
	catalogRepo repository.CatalogRepository
	chat        *ChatUseCase
}

func NewSellerUseCase(
	userRepo repository.UserRepository,
	orderRepo repository.OrderRepository,
	catalogRepo repository.CatalogRepository,
	chat *ChatUseCase,
) *SellerUseCase {
	return &SellerUseCase{
		userRepo:    userRepo,
		orderRepo:   orderRepo,
		catalogRepo: catalogRepo,
		chat:        chat,
	}
}

type SellerStoreStats struct {
	TotalProducts int `json:"totalProducts"`
	TotalSales    int `json:"totalSales"`
	ActiveCount   int `json:"activeCount"`
}

type SellerStore struct {
	Name     string                 `json:"name"`
	Products []entity.SellerProduct `json:"products"`
	Stats    SellerStoreStats       `json:"stats"`
}

type DashboardStats struct {
	TotalRevenue decimal.Decimal `json:"totalRevenue"`
	TotalOrders  int             `json:"totalOrders"`
	StoreVisits  int             `json:"storeVisits"`
	NewMessages  int             `json:"newMessages"`
}

type Dashboard struct {
	StoreName    string                 `json:"storeName"`
	Stats        DashboardStats         `json:"stats"`
	TopProducts  []entity.SellerProduct `json:"topProducts"`
	RecentOrders []*entity.Order        `json:"recentOrders"`
}

func (uc *SellerUseCase) seller(ctx context.Context, device string) (*entity.User, error) {
	user, err := uc.userRepo.Get(ctx, device)
	if err != nil {
		return nil, err
	}
	if !user.HasStore {
		return nil, errors.Forbidden("Open a store to access seller tools", nil)
	}
	return user, nil
}

// GetSellerStore lists the seller's products for a status tab. Stats
// always cover the whole inventory.
func (uc *SellerUseCase) GetSellerStore(ctx context.Context, device, status string) (*SellerStore, error) {
	user, err := uc.seller(ctx, device)
	if err != nil {
		return nil, err
	}

	status = strings.ToLower(strings.TrimSpace(status))
	switch status {
	case "", productStatusAll, entity.ProductStatusActive, entity.ProductStatusLowStock, entity.ProductStatusOutOfStock:
	default:
		return nil, errors.BadRequest("Invalid product status: "+status, nil)
	}

	all := uc.catalogRepo.SellerProducts()
	store := &SellerStore{
		Name:     user.SellerStoreName(),
		Products: []entity.SellerProduct{},
	}
	for _, p := range all {
		store.Stats.TotalProducts++
		store.Stats.TotalSales += p.Sales
		if p.Status == entity.ProductStatusActive {
			store.Stats.ActiveCount++
		}
		if status == "" || status == productStatusAll || p.Status == status {
			store.Products = append(store.Products, p)
		}
	}
	return store, nil
}

func (uc *SellerUseCase) Dashboard(ctx context.Context, device string) (*Dashboard, error) {
	user, err := uc.seller(ctx, device)
	if err != nil {
		return nil, err
	}

	products := uc.catalogRepo.SellerProducts()
	stats := DashboardStats{
		TotalRevenue: decimal.Zero,
		StoreVisits:  uc.catalogRepo.SellerStoreVisits(),
	}
	for _, p := range products {
		stats.TotalRevenue = stats.TotalRevenue.Add(p.Revenue())
		stats.TotalOrders += p.Sales
	}

	if stats.NewMessages, err = uc.chat.UnreadTotal(ctx, device); err != nil {
		return nil, err
	}

	sort.SliceStable(products, func(i, j int) bool {
		return products[i].Sales > products[j].Sales
	})
	if len(products) > topProductCount {
		products = products[:topProductCount]
	}

	orders, err := uc.orderRepo.List(ctx, device)
	if err != nil {
		return nil, err
	}
	if len(orders) > recentOrderCount {
		orders = orders[:recentOrderCount]
	}

	return &Dashboard{
		StoreName:    user.SellerStoreName(),
		Stats:        stats,
		TopProducts:  products,
		RecentOrders: orders,
	}, nil
}
