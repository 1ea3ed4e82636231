package main

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/matheusmosca/ecommerce-gateway/pkg/store/sqlstore"
)

// Order is a client's purchase of a quantity of one product.
type Order struct {
	ID               int       `json:"id"`
	ClientID         int       `json:"client_id" binding:"required,gt=0"`
	ProductID        int       `json:"product_id" binding:"required,gt=0"`
	PurchaseQuantity int       `json:"purchase_quantity" binding:"required,gt=0"`
	OrderedDate      time.Time `json:"ordered_date"`
}

func (o Order) Key() int { return o.ID }

func (o Order) WithKey(id int) Order {
	o.ID = id
	return o
}

// Product as served by the products service.
type Product struct {
	ID       int             `json:"id"`
	Name     string          `json:"name"`
	Quantity int             `json:"quantity"`
	Price    decimal.Decimal `json:"price"`
}

// User as served by the authentication service.
type User struct {
	ID              int    `json:"id"`
	Name            string `json:"name"`
	Email           string `json:"email"`
	Address         string `json:"address"`
	TelephoneNumber string `json:"telephone_number"`
	Role            string `json:"role"`
}

// OrderDetails joins an order with its product and client.
type OrderDetails struct {
	OrderID          int             `json:"order_id"`
	ProductID        int             `json:"product_id"`
	UserID           int             `json:"user_id"`
	UserName         string          `json:"user_name"`
	UserEmail        string          `json:"user_email"`
	UserAddress      string          `json:"user_address"`
	UserPhone        string          `json:"user_phone"`
	ProductName      string          `json:"product_name"`
	PurchaseQuantity int             `json:"purchase_quantity"`
	UnitPrice        decimal.Decimal `json:"unit_price"`
	LineTotal        decimal.Decimal `json:"line_total"`
	OrderedDate      time.Time       `json:"ordered_date"`
}

// NewOrderDetails composes the view. LineTotal multiplies the product's
// current catalog quantity by the purchased quantity, so it drifts when the
// catalog changes.
func NewOrderDetails(o Order, p Product, u User) OrderDetails {
	return OrderDetails{
		OrderID:          o.ID,
		ProductID:        p.ID,
		UserID:           u.ID,
		UserName:         u.Name,
		UserEmail:        u.Email,
		UserAddress:      u.Address,
		UserPhone:        u.TelephoneNumber,
		ProductName:      p.Name,
		PurchaseQuantity: o.PurchaseQuantity,
		UnitPrice:        p.Price,
		LineTotal:        decimal.NewFromInt(int64(p.Quantity) * int64(o.PurchaseQuantity)),
		OrderedDate:      o.OrderedDate,
	}
}

const ordersSchema = `CREATE TABLE IF NOT EXISTS orders (
	id SERIAL PRIMARY KEY,
	client_id INTEGER NOT NULL,
	product_id INTEGER NOT NULL,
	purchase_quantity INTEGER NOT NULL,
	ordered_date TIMESTAMPTZ NOT NULL DEFAULT NOW()
)`

var ordersTable = sqlstore.Table[Order]{
	Name:    "orders",
	Key:     "id",
	Columns: []string{"client_id", "product_id", "purchase_quantity", "ordered_date"},
	Values: func(o Order) []any {
		return []any{o.ClientID, o.ProductID, o.PurchaseQuantity, o.OrderedDate}
	},
	Scan: func(s sqlstore.Scanner) (Order, error) {
		var o Order
		err := s.Scan(&o.ID, &o.ClientID, &o.ProductID, &o.PurchaseQuantity, &o.OrderedDate)
		return o, err
	},
}
