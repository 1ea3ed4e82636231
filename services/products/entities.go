package main

import (
	"errors"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/matheusmosca/ecommerce-gateway/pkg/store/sqlstore"
)

// Product is a catalog entry. Quantity is the stock on hand.
type Product struct {
	ID       int             `json:"id"`
	Name     string          `json:"name" binding:"required"`
	Quantity int             `json:"quantity" binding:"required,gt=0"`
	Price    decimal.Decimal `json:"price"`
}

func (p Product) Key() int { return p.ID }

func (p Product) WithKey(id int) Product {
	p.ID = id
	return p
}

// Validate checks what binding tags cannot express.
func (p Product) Validate() error {
	if strings.TrimSpace(p.Name) == "" {
		return errors.New("name is required")
	}
	if !p.Price.IsPositive() {
		return errors.New("price must be positive")
	}
	return nil
}

const productsSchema = `CREATE TABLE IF NOT EXISTS products (
	id SERIAL PRIMARY KEY,
	name TEXT NOT NULL UNIQUE,
	quantity INTEGER NOT NULL,
	price NUMERIC(18, 2) NOT NULL
)`

var productsTable = sqlstore.Table[Product]{
	Name:    "products",
	Key:     "id",
	Columns: []string{"name", "quantity", "price"},
	Values: func(p Product) []any {
		return []any{p.Name, p.Quantity, p.Price}
	},
	Scan: func(s sqlstore.Scanner) (Product, error) {
		var p Product
		err := s.Scan(&p.ID, &p.Name, &p.Quantity, &p.Price)
		return p, err
	},
}
