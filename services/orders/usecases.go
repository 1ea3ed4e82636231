package main

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/matheusmosca/ecommerce-gateway/pkg/response"
)

// OrderUseCase holds the order business rules.
type OrderUseCase struct {
	repository Repository
	products   ProductClient
	users      UserClient
	log        *zap.Logger
	now        func() time.Time
}

// NewOrderUseCase creates the use case. products and users are normally
// the same GatewayClient.
func NewOrderUseCase(repository Repository, products ProductClient, users UserClient, log *zap.Logger) *OrderUseCase {
	return &OrderUseCase{
		repository: repository,
		products:   products,
		users:      users,
		log:        log.Named("usecase"),
		now:        time.Now,
	}
}

// CreateOrder stores a new order, stamping the order date when missing.
func (uc *OrderUseCase) CreateOrder(ctx context.Context, order Order) response.Outcome {
	order.ID = 0
	if order.OrderedDate.IsZero() {
		order.OrderedDate = uc.now().UTC()
	}
	return uc.repository.Add(ctx, order)
}

// UpdateOrder replaces an order. A missing order date keeps the stored one.
func (uc *OrderUseCase) UpdateOrder(ctx context.Context, order Order) response.Outcome {
	if order.ID <= 0 {
		return response.Fail("Invalid data provided")
	}
	if order.OrderedDate.IsZero() {
		current, ok, err := uc.repository.FindByID(ctx, order.ID)
		if err != nil {
			return response.Fail("Error occurred while updating order")
		}
		if !ok {
			return response.Fail("Order not found")
		}
		order.OrderedDate = current.OrderedDate
	}
	return uc.repository.Update(ctx, order)
}

// DeleteOrder removes an order by id.
func (uc *OrderUseCase) DeleteOrder(ctx context.Context, id int) response.Outcome {
	if id <= 0 {
		return response.Fail("Invalid data provided")
	}
	return uc.repository.Delete(ctx, id)
}

// GetOrders lists every order.
func (uc *OrderUseCase) GetOrders(ctx context.Context) ([]Order, error) {
	return uc.repository.GetAll(ctx)
}

// GetOrder returns absent for non-positive ids without touching the store.
func (uc *OrderUseCase) GetOrder(ctx context.Context, id int) (Order, bool, error) {
	if id <= 0 {
		return Order{}, false, nil
	}
	return uc.repository.FindByID(ctx, id)
}

// GetOrdersByClientID filters the local store only; no remote calls.
func (uc *OrderUseCase) GetOrdersByClientID(ctx context.Context, clientID int) ([]Order, error) {
	return uc.repository.GetBy(ctx, byClientID(clientID))
}

// GetOrderDetails joins the order with its product and client. The lookups
// run concurrently and both are awaited. If either dependency cannot be
// obtained the details are absent, the same as a missing order.
func (uc *OrderUseCase) GetOrderDetails(ctx context.Context, orderID int) (OrderDetails, bool, error) {
	if orderID <= 0 {
		return OrderDetails{}, false, nil
	}

	order, ok, err := uc.repository.FindByID(ctx, orderID)
	if err != nil || !ok {
		return OrderDetails{}, false, err
	}

	var (
		product             Product
		user                User
		productOK, userOK   bool
		productErr, userErr error
	)

	// A plain group: one lookup failing must not cancel the other.
	var g errgroup.Group
	g.Go(func() error {
		product, productOK, productErr = uc.products.GetProduct(ctx, order.ProductID)
		return productErr
	})
	g.Go(func() error {
		user, userOK, userErr = uc.users.GetUser(ctx, order.ClientID)
		return userErr
	})
	_ = g.Wait()

	if productErr != nil {
		return OrderDetails{}, false, fmt.Errorf("get product %d: %w", order.ProductID, productErr)
	}
	if userErr != nil {
		return OrderDetails{}, false, fmt.Errorf("get user %d: %w", order.ClientID, userErr)
	}
	if !productOK || !userOK {
		uc.log.Info("order details unavailable",
			zap.Int("order_id", order.ID),
			zap.Bool("product_available", productOK),
			zap.Bool("user_available", userOK),
		)
		return OrderDetails{}, false, nil
	}

	return NewOrderDetails(order, product, user), true, nil
}
