package main

import (
	"context"
	"fmt"

	"github.com/matheusmosca/ecommerce-gateway/pkg/remote"
)

// ProductClient looks products up in the catalog. A false result means the
// product could not be obtained, whatever the reason.
type ProductClient interface {
	GetProduct(ctx context.Context, id int) (Product, bool, error)
}

// UserClient looks users up in the authentication service.
type UserClient interface {
	GetUser(ctx context.Context, id int) (User, bool, error)
}

// GatewayClient reaches both services through the gateway; they do not
// answer direct calls.
type GatewayClient struct {
	remote *remote.Client
}

// NewGatewayClient wraps a remote client pointed at the gateway.
func NewGatewayClient(c *remote.Client) *GatewayClient {
	return &GatewayClient{remote: c}
}

// GetProduct fetches /api/products/{id}.
func (g *GatewayClient) GetProduct(ctx context.Context, id int) (Product, bool, error) {
	return remote.Fetch[Product](ctx, g.remote, fmt.Sprintf("/api/products/%d", id))
}

// GetUser fetches /api/authentication/{id}.
func (g *GatewayClient) GetUser(ctx context.Context, id int) (User, bool, error) {
	return remote.Fetch[User](ctx, g.remote, fmt.Sprintf("/api/authentication/%d", id))
}
