package main

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/matheusmosca/ecommerce-gateway/pkg/response"
)

type MockRepository struct {
	mock.Mock
}

func (m *MockRepository) Add(ctx context.Context, user AppUser) response.Outcome {
	return m.Called(ctx, user).Get(0).(response.Outcome)
}

func (m *MockRepository) FindByID(ctx context.Context, id int) (AppUser, bool, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(AppUser), args.Bool(1), args.Error(2)
}

func (m *MockRepository) FindByEmail(ctx context.Context, email string) (AppUser, bool, error) {
	args := m.Called(ctx, email)
	return args.Get(0).(AppUser), args.Bool(1), args.Error(2)
}
