package main

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/matheusmosca/ecommerce-gateway/pkg/auth"
	"github.com/matheusmosca/ecommerce-gateway/pkg/response"
)

const invalidCredentials = "Invalid credentials"

// TokenIssuer signs the token handed out on login.
type TokenIssuer interface {
	Issue(userID int, name, email, role string) (string, error)
}

// UserUseCase holds the account rules.
type UserUseCase struct {
	repository Repository
	issuer     TokenIssuer
	log        *zap.Logger
}

// NewUserUseCase creates the use case.
func NewUserUseCase(repository Repository, issuer TokenIssuer, log *zap.Logger) *UserUseCase {
	return &UserUseCase{repository: repository, issuer: issuer, log: log.Named("usecase")}
}

// Register hashes the password and stores the account. An empty role
// becomes the default role.
func (uc *UserUseCase) Register(ctx context.Context, req RegisterRequest) response.Outcome {
	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		uc.log.Error("hash password", zap.Error(err))
		return response.Fail("Error occurred during registration")
	}

	role := strings.TrimSpace(req.Role)
	if role == "" {
		role = defaultRole
	}

	return uc.repository.Add(ctx, AppUser{
		Name:            req.Name,
		Email:           strings.ToLower(strings.TrimSpace(req.Email)),
		Address:         req.Address,
		TelephoneNumber: req.TelephoneNumber,
		Role:            role,
		PasswordHash:    hash,
	})
}

// Login answers with the signed token as the outcome message. Unknown
// e-mails and wrong passwords get the same answer.
func (uc *UserUseCase) Login(ctx context.Context, req LoginRequest) (response.Outcome, error) {
	user, ok, err := uc.repository.FindByEmail(ctx, strings.ToLower(strings.TrimSpace(req.Email)))
	if err != nil {
		return response.Outcome{}, err
	}
	if !ok {
		return response.Fail(invalidCredentials), nil
	}

	match, err := auth.CheckPassword(user.PasswordHash, req.Password)
	if err != nil {
		uc.log.Warn("stored password hash unreadable", zap.Int("user_id", user.ID), zap.Error(err))
	}
	if !match {
		return response.Fail(invalidCredentials), nil
	}

	token, err := uc.issuer.Issue(user.ID, user.Name, user.Email, user.Role)
	if err != nil {
		return response.Outcome{}, err
	}
	return response.OK(token), nil
}

// GetUser returns the account without its credentials.
func (uc *UserUseCase) GetUser(ctx context.Context, id int) (UserView, bool, error) {
	if id <= 0 {
		return UserView{}, false, nil
	}
	user, ok, err := uc.repository.FindByID(ctx, id)
	if err != nil || !ok {
		return UserView{}, false, err
	}
	return user.Public(), true, nil
}
