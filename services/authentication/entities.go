package main

import (
	"github.com/matheusmosca/ecommerce-gateway/pkg/store/sqlstore"
)

const defaultRole = "User"

// AppUser is a registered account. PasswordHash is a bcrypt hash and never
// leaves the service.
type AppUser struct {
	ID              int    `json:"id"`
	Name            string `json:"name"`
	Email           string `json:"email"`
	Address         string `json:"address"`
	TelephoneNumber string `json:"telephone_number"`
	Role            string `json:"role"`
	PasswordHash    string `json:"-"`
}

func (u AppUser) Key() int { return u.ID }

func (u AppUser) WithKey(id int) AppUser {
	u.ID = id
	return u
}

// Public drops the credentials.
func (u AppUser) Public() UserView {
	return UserView{
		ID:              u.ID,
		Name:            u.Name,
		Email:           u.Email,
		Address:         u.Address,
		TelephoneNumber: u.TelephoneNumber,
		Role:            u.Role,
	}
}

// UserView is what other services see of an account.
type UserView struct {
	ID              int    `json:"id"`
	Name            string `json:"name"`
	Email           string `json:"email"`
	Address         string `json:"address"`
	TelephoneNumber string `json:"telephone_number"`
	Role            string `json:"role"`
}

// RegisterRequest is the body of POST /api/authentication/register.
type RegisterRequest struct {
	Name            string `json:"name" binding:"required"`
	Email           string `json:"email" binding:"required,email"`
	Password        string `json:"password" binding:"required,min=6"`
	Address         string `json:"address" binding:"required"`
	TelephoneNumber string `json:"telephone_number" binding:"required"`
	Role            string `json:"role"`
}

// LoginRequest is the body of POST /api/authentication/login.
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

const usersSchema = `CREATE TABLE IF NOT EXISTS app_users (
	id SERIAL PRIMARY KEY,
	name TEXT NOT NULL,
	email TEXT NOT NULL UNIQUE,
	address TEXT NOT NULL,
	telephone_number TEXT NOT NULL,
	role TEXT NOT NULL,
	password TEXT NOT NULL
)`

var usersTable = sqlstore.Table[AppUser]{
	Name:    "app_users",
	Key:     "id",
	Columns: []string{"name", "email", "address", "telephone_number", "role", "password"},
	Values: func(u AppUser) []any {
		return []any{u.Name, u.Email, u.Address, u.TelephoneNumber, u.Role, u.PasswordHash}
	},
	Scan: func(s sqlstore.Scanner) (AppUser, error) {
		var u AppUser
		err := s.Scan(&u.ID, &u.Name, &u.Email, &u.Address, &u.TelephoneNumber, &u.Role, &u.PasswordHash)
		return u, err
	},
}
