package main

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/matheusmosca/ecommerce-gateway/pkg/response"
	"github.com/matheusmosca/ecommerce-gateway/pkg/store"
)

// ErrRetrieve replaces store faults on read paths; the cause is only logged.
var ErrRetrieve = errors.New("error occurred while retrieving order")

// Repository defines order persistence. Writes report through an Outcome;
// reads return ErrRetrieve when the store fails.
type Repository interface {
	Add(ctx context.Context, order Order) response.Outcome
	Update(ctx context.Context, order Order) response.Outcome
	Delete(ctx context.Context, id int) response.Outcome
	FindByID(ctx context.Context, id int) (Order, bool, error)
	GetAll(ctx context.Context) ([]Order, error)
	GetBy(ctx context.Context, p store.Predicate[Order]) ([]Order, error)
}

// OrderRepository implements Repository over a record store. Faults are
// logged here and never leave it in raw form.
type OrderRepository struct {
	store store.Store[Order]
	log   *zap.Logger
}

// NewOrderRepository creates a repository over s.
func NewOrderRepository(s store.Store[Order], log *zap.Logger) *OrderRepository {
	return &OrderRepository{store: s, log: log.Named("repository")}
}

func (r *OrderRepository) Add(ctx context.Context, order Order) response.Outcome {
	saved, err := r.store.Insert(ctx, order)
	if err != nil {
		r.log.Error("add order", zap.Error(err))
		return response.Fail("Error occurred while placing order")
	}
	if saved.ID <= 0 {
		return response.Fail("Error occurred while placing order")
	}
	return response.OK("Order placed successfully")
}

func (r *OrderRepository) Update(ctx context.Context, order Order) response.Outcome {
	err := r.store.Update(ctx, order)
	switch {
	case errors.Is(err, store.ErrNotFound):
		return response.Fail("Order not found")
	case err != nil:
		r.log.Error("update order", zap.Int("order_id", order.ID), zap.Error(err))
		return response.Fail("Error occurred while updating order")
	}
	return response.OK("Order updated")
}

func (r *OrderRepository) Delete(ctx context.Context, id int) response.Outcome {
	err := r.store.Delete(ctx, id)
	switch {
	case errors.Is(err, store.ErrNotFound):
		return response.Fail("Order not found")
	case err != nil:
		r.log.Error("delete order", zap.Int("order_id", id), zap.Error(err))
		return response.Fail("Error occurred while deleting order")
	}
	return response.OK("Order successfully deleted")
}

func (r *OrderRepository) FindByID(ctx context.Context, id int) (Order, bool, error) {
	order, ok, err := r.store.Get(ctx, id)
	if err != nil {
		r.log.Error("find order", zap.Int("order_id", id), zap.Error(err))
		return Order{}, false, ErrRetrieve
	}
	return order, ok, nil
}

func (r *OrderRepository) GetAll(ctx context.Context) ([]Order, error) {
	orders, err := r.store.List(ctx)
	if err != nil {
		r.log.Error("list orders", zap.Error(err))
		return nil, ErrRetrieve
	}
	return orders, nil
}

// GetBy returns the orders matching p.
func (r *OrderRepository) GetBy(ctx context.Context, p store.Predicate[Order]) ([]Order, error) {
	orders, err := r.store.Filter(ctx, p)
	if err != nil {
		r.log.Error("filter orders", zap.String("field", p.Field), zap.Error(err))
		return nil, ErrRetrieve
	}
	return orders, nil
}

func byClientID(clientID int) store.Predicate[Order] {
	return store.Where("client_id", clientID, func(o Order) bool { return o.ClientID == clientID })
}
