package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"vira/internal/domain/entity"
	"vira/internal/domain/repository"
	"vira/pkg/errors"
	"vira/pkg/logger"
	"vira/pkg/utils"
)

const (
	dateLayout = "2006-01-02"

	maxOrderQuantity = 99
	statusAll        = "all"
	statusDelivered  = "delivered"
)

type OrderUseCase struct {
	orderRepo     repository.OrderRepository
	catalogRepo   repository.CatalogRepository
	cancelWindow  time.Duration
	completeAfter time.Duration
	now           func() time.Time
}

func NewOrderUseCase(
	orderRepo repository.OrderRepository,
	catalogRepo repository.CatalogRepository,
	cancelWindow time.Duration,
	completeAfter time.Duration,
) *OrderUseCase {
	return &OrderUseCase{
		orderRepo:     orderRepo,
		catalogRepo:   catalogRepo,
		cancelWindow:  cancelWindow,
		completeAfter: completeAfter,
		now:           time.Now,
	}
}

// OrderView is an order plus its cancellation state at read time.
type OrderView struct {
	*entity.Order
	CanCancel      bool  `json:"canCancel"`
	CancelDeadline int64 `json:"cancelDeadline,omitempty"`
}

func (uc *OrderUseCase) view(o *entity.Order) *OrderView {
	v := &OrderView{
		Order:     o,
		CanCancel: o.CanCancel(uc.now(), uc.cancelWindow),
	}
	if deadline := o.CancelDeadline(uc.cancelWindow); !deadline.IsZero() {
		v.CancelDeadline = deadline.UnixMilli()
	}
	return v
}

func (uc *OrderUseCase) PlaceOrder(ctx context.Context, device string, productID, quantity int) (*OrderView, error) {
	if quantity == 0 {
		quantity = 1
	}
	if quantity < 1 || quantity > maxOrderQuantity {
		return nil, errors.BadRequest(fmt.Sprintf("Quantity must be between 1 and %d", maxOrderQuantity), nil)
	}

	product, store, err := uc.catalogRepo.GetProduct(productID)
	if err != nil {
		return nil, err
	}

	now := uc.now()
	order := &entity.Order{
		ID:        fmt.Sprintf("ORD-%d", now.UnixMilli()),
		Date:      now.Format(dateLayout),
		Items:     quantity,
		Total:     product.Price.Mul(decimal.NewFromInt(int64(quantity))),
		Status:    entity.OrderStatusProcessing,
		Store:     store.Name,
		StoreID:   store.ID,
		CreatedAt: now.UnixMilli(),
		Products: []entity.OrderLine{{
			ProductID: product.ID,
			Name:      product.Name,
			Price:     product.Price,
			Quantity:  quantity,
			Image:     product.Image,
		}},
	}

	if err := uc.orderRepo.Prepend(ctx, device, order); err != nil {
		return nil, err
	}

	logger.Info("Order placed: device=%s, order=%s, total=%s", device, order.ID, order.Total)
	return uc.view(order), nil
}

// ListOrders filters by status tab and search query, keeping newest first.
func (uc *OrderUseCase) ListOrders(ctx context.Context, device, status, query string, page utils.PaginationParams) ([]*OrderView, int, error) {
	status, err := NormalizeOrderStatus(status)
	if err != nil {
		return nil, 0, err
	}

	orders, err := uc.orderRepo.List(ctx, device)
	if err != nil {
		return nil, 0, err
	}

	var matched []*entity.Order
	for _, o := range orders {
		if status != "" && o.Status != status {
			continue
		}
		if !o.Matches(query) {
			continue
		}
		matched = append(matched, o)
	}

	window := utils.Paginate(matched, page)
	views := make([]*OrderView, 0, len(window))
	for _, o := range window {
		views = append(views, uc.view(o))
	}
	return views, len(matched), nil
}

func (uc *OrderUseCase) GetOrder(ctx context.Context, device, id string) (*OrderView, error) {
	order, err := uc.orderRepo.GetByID(ctx, device, id)
	if err != nil {
		return nil, err
	}
	return uc.view(order), nil
}

func (uc *OrderUseCase) CancelOrder(ctx context.Context, device, id string) (*OrderView, error) {
	order, err := uc.orderRepo.Update(ctx, device, id, func(o *entity.Order) error {
		now := uc.now()
		if !o.CanCancel(now, uc.cancelWindow) {
			return errors.BadRequest("Order can no longer be cancelled", nil)
		}
		o.Status = entity.OrderStatusCancelled
		o.CancelledAt = now.UnixMilli()
		return nil
	})
	if err != nil {
		if !errors.Is(err, errors.CodeNotFound) {
			logger.LogOrderError(id, "cancel", err)
		}
		return nil, err
	}

	logger.Info("Order cancelled: device=%s, order=%s", device, id)
	return uc.view(order), nil
}

// AdvanceFulfilment moves orders along processing, shipped and completed on
// every device. Orders still inside the cancellation window are left alone.
func (uc *OrderUseCase) AdvanceFulfilment(ctx context.Context) (int, error) {
	devices, err := uc.orderRepo.Devices(ctx)
	if err != nil {
		return 0, errors.Internal("Failed to list devices", err)
	}

	now := uc.now()
	total := 0
	for _, device := range devices {
		changed, err := uc.orderRepo.UpdateAll(ctx, device, func(o *entity.Order) bool {
			return uc.advance(o, now)
		})
		if err != nil {
			logger.Error("Fulfilment failed: device=%s, error=%v", device, err)
			continue
		}
		total += changed
	}

	if total > 0 {
		logger.Info("Fulfilment advanced %d orders across %d devices", total, len(devices))
	}
	return total, nil
}

func (uc *OrderUseCase) advance(o *entity.Order, now time.Time) bool {
	if o.CreatedAt <= 0 {
		return false
	}

	switch o.Status {
	case entity.OrderStatusProcessing:
		if now.Before(o.CancelDeadline(uc.cancelWindow)) {
			return false
		}
		o.Status = entity.OrderStatusShipped
		o.ShippedAt = now.UnixMilli()
		return true
	case entity.OrderStatusShipped:
		shipped := o.ShippedAt
		if shipped <= 0 {
			shipped = o.CreatedAt
		}
		if now.Before(time.UnixMilli(shipped).Add(uc.completeAfter)) {
			return false
		}
		o.Status = entity.OrderStatusCompleted
		o.CompletedAt = now.UnixMilli()
		return true
	}
	return false
}

// NormalizeOrderStatus maps a status tab to the stored status. The empty
// string stands for all orders.
func NormalizeOrderStatus(status string) (string, error) {
	switch s := strings.ToLower(strings.TrimSpace(status)); s {
	case "", statusAll:
		return "", nil
	case statusDelivered:
		return entity.OrderStatusCompleted, nil
	case entity.OrderStatusProcessing, entity.OrderStatusShipped, entity.OrderStatusCompleted, entity.OrderStatusCancelled:
		return s, nil
	default:
		return "", errors.BadRequest("Invalid order status: "+status, nil)
	}
}
