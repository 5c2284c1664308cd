package repository

import (
	"context"
	"fmt"

	"vira/internal/domain/entity"
	"vira/internal/domain/repository"
	"vira/internal/infrastructure/localstorage"
	"vira/pkg/errors"
)

type kvOrderRepository struct {
	storage localstorage.Storage
	locker  *localstorage.Locker
}

func NewKVOrderRepository(storage localstorage.Storage, locker *localstorage.Locker) repository.OrderRepository {
	return &kvOrderRepository{storage: storage, locker: locker}
}

func (r *kvOrderRepository) load(ctx context.Context, device string) ([]*entity.Order, error) {
	orders := []*entity.Order{}
	if _, err := localstorage.GetJSON(ctx, r.storage, device, localstorage.KeyOrders, &orders); err != nil {
		return nil, errors.Internal("Failed to read orders", err)
	}
	if orders == nil {
		orders = []*entity.Order{}
	}
	return orders, nil
}

func (r *kvOrderRepository) save(ctx context.Context, device string, orders []*entity.Order) error {
	if err := localstorage.SetJSON(ctx, r.storage, device, localstorage.KeyOrders, orders); err != nil {
		return errors.Internal("Failed to save orders", err)
	}
	return nil
}

func (r *kvOrderRepository) List(ctx context.Context, device string) ([]*entity.Order, error) {
	return r.load(ctx, device)
}

func (r *kvOrderRepository) GetByID(ctx context.Context, device, id string) (*entity.Order, error) {
	orders, err := r.load(ctx, device)
	if err != nil {
		return nil, err
	}
	for _, o := range orders {
		if o.ID == id {
			return o, nil
		}
	}
	return nil, errors.NotFound("Order", nil)
}

func (r *kvOrderRepository) Prepend(ctx context.Context, device string, order *entity.Order) error {
	unlock := r.locker.Lock(device)
	defer unlock()

	orders, err := r.load(ctx, device)
	if err != nil {
		return err
	}

	taken := make(map[string]bool, len(orders))
	for _, o := range orders {
		taken[o.ID] = true
	}
	if taken[order.ID] {
		base := order.ID
		for n := 2; taken[order.ID]; n++ {
			order.ID = fmt.Sprintf("%s-%d", base, n)
		}
	}

	return r.save(ctx, device, append([]*entity.Order{order}, orders...))
}

func (r *kvOrderRepository) Update(ctx context.Context, device, id string, fn func(*entity.Order) error) (*entity.Order, error) {
	unlock := r.locker.Lock(device)
	defer unlock()

	orders, err := r.load(ctx, device)
	if err != nil {
		return nil, err
	}

	for _, o := range orders {
		if o.ID != id {
			continue
		}
		if err := fn(o); err != nil {
			return nil, err
		}
		if err := r.save(ctx, device, orders); err != nil {
			return nil, err
		}
		return o, nil
	}
	return nil, errors.NotFound("Order", nil)
}

func (r *kvOrderRepository) UpdateAll(ctx context.Context, device string, fn func(*entity.Order) bool) (int, error) {
	unlock := r.locker.Lock(device)
	defer unlock()

	orders, err := r.load(ctx, device)
	if err != nil {
		return 0, err
	}

	changed := 0
	for _, o := range orders {
		if fn(o) {
			changed++
		}
	}
	if changed == 0 {
		return 0, nil
	}
	return changed, r.save(ctx, device, orders)
}

func (r *kvOrderRepository) Devices(ctx context.Context) ([]string, error) {
	return r.storage.Devices(ctx)
}
