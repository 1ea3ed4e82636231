package main

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/matheusmosca/ecommerce-gateway/pkg/response"
	"github.com/matheusmosca/ecommerce-gateway/pkg/store"
)

// MockRepository stands in for the order repository.
type MockRepository struct {
	mock.Mock
}

func (m *MockRepository) Add(ctx context.Context, order Order) response.Outcome {
	args := m.Called(ctx, order)
	return args.Get(0).(response.Outcome)
}

func (m *MockRepository) Update(ctx context.Context, order Order) response.Outcome {
	args := m.Called(ctx, order)
	return args.Get(0).(response.Outcome)
}

func (m *MockRepository) Delete(ctx context.Context, id int) response.Outcome {
	args := m.Called(ctx, id)
	return args.Get(0).(response.Outcome)
}

func (m *MockRepository) FindByID(ctx context.Context, id int) (Order, bool, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(Order), args.Bool(1), args.Error(2)
}

func (m *MockRepository) GetAll(ctx context.Context) ([]Order, error) {
	args := m.Called(ctx)
	orders, _ := args.Get(0).([]Order)
	return orders, args.Error(1)
}

func (m *MockRepository) GetBy(ctx context.Context, p store.Predicate[Order]) ([]Order, error) {
	args := m.Called(ctx, p.Field, p.Value)
	orders, _ := args.Get(0).([]Order)
	return orders, args.Error(1)
}

type MockProductClient struct {
	mock.Mock
}

func (m *MockProductClient) GetProduct(ctx context.Context, id int) (Product, bool, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(Product), args.Bool(1), args.Error(2)
}

type MockUserClient struct {
	mock.Mock
}

func (m *MockUserClient) GetUser(ctx context.Context, id int) (User, bool, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(User), args.Bool(1), args.Error(2)
}
