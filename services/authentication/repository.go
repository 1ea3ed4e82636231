package main

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/matheusmosca/ecommerce-gateway/pkg/database"
	"github.com/matheusmosca/ecommerce-gateway/pkg/response"
	"github.com/matheusmosca/ecommerce-gateway/pkg/store"
)

// ErrRetrieve replaces store faults on read paths.
var ErrRetrieve = errors.New("error occurred retrieving users")

const (
	emailTakenMessage = "you cannot use this email for registration"
	registeredMessage = "User registered successfully"
)

// Repository stores accounts.
type Repository interface {
	Add(ctx context.Context, user AppUser) response.Outcome
	FindByID(ctx context.Context, id int) (AppUser, bool, error)
	FindByEmail(ctx context.Context, email string) (AppUser, bool, error)
}

// UserRepository implements Repository over a record store.
type UserRepository struct {
	store store.Store[AppUser]
	log   *zap.Logger
}

// NewUserRepository creates a repository over s.
func NewUserRepository(s store.Store[AppUser], log *zap.Logger) *UserRepository {
	return &UserRepository{store: s, log: log.Named("repository")}
}

func byEmail(email string) store.Predicate[AppUser] {
	return store.Where("email", email, func(u AppUser) bool { return u.Email == email })
}

// Add stores a new account. An e-mail can be registered once.
func (r *UserRepository) Add(ctx context.Context, user AppUser) response.Outcome {
	_, taken, err := r.FindByEmail(ctx, user.Email)
	if err != nil {
		return response.Fail("Error occurred during registration")
	}
	if taken {
		return response.Fail(emailTakenMessage)
	}

	saved, err := r.store.Insert(ctx, user)
	switch {
	case database.IsUniqueViolation(err) || errors.Is(err, store.ErrConflict):
		return response.Fail(emailTakenMessage)
	case err != nil:
		r.log.Error("add user", zap.Error(err))
		return response.Fail("Error occurred during registration")
	case saved.ID <= 0:
		return response.Fail("Invalid data provided")
	}
	return response.OK(registeredMessage)
}

func (r *UserRepository) FindByID(ctx context.Context, id int) (AppUser, bool, error) {
	user, ok, err := r.store.Get(ctx, id)
	if err != nil {
		r.log.Error("find user", zap.Int("user_id", id), zap.Error(err))
		return AppUser{}, false, ErrRetrieve
	}
	return user, ok, nil
}

// FindByEmail expects email already normalized to lower case.
func (r *UserRepository) FindByEmail(ctx context.Context, email string) (AppUser, bool, error) {
	user, ok, err := r.store.First(ctx, byEmail(email))
	if err != nil {
		r.log.Error("find user by email", zap.Error(err))
		return AppUser{}, false, ErrRetrieve
	}
	return user, ok, nil
}
