package main

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/matheusmosca/ecommerce-gateway/pkg/response"
)

type MockRepository struct {
	mock.Mock
}

func (m *MockRepository) Add(ctx context.Context, product Product) response.Outcome {
	return m.Called(ctx, product).Get(0).(response.Outcome)
}

func (m *MockRepository) Update(ctx context.Context, product Product) response.Outcome {
	return m.Called(ctx, product).Get(0).(response.Outcome)
}

func (m *MockRepository) Delete(ctx context.Context, id int) response.Outcome {
	return m.Called(ctx, id).Get(0).(response.Outcome)
}

func (m *MockRepository) FindByID(ctx context.Context, id int) (Product, bool, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(Product), args.Bool(1), args.Error(2)
}

func (m *MockRepository) GetAll(ctx context.Context) ([]Product, error) {
	args := m.Called(ctx)
	products, _ := args.Get(0).([]Product)
	return products, args.Error(1)
}

type MockCache struct {
	mock.Mock
}

func (m *MockCache) Get(ctx context.Context, id int) (Product, bool, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(Product), args.Bool(1), args.Error(2)
}

func (m *MockCache) Set(ctx context.Context, product Product) error {
	return m.Called(ctx, product).Error(0)
}

func (m *MockCache) Invalidate(ctx context.Context, id int) error {
	return m.Called(ctx, id).Error(0)
}
