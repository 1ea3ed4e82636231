package main

import (
	"context"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/matheusmosca/ecommerce-gateway/pkg/remote"
	"github.com/matheusmosca/ecommerce-gateway/pkg/response"
)

// OrderUseCaseInterface is what the handlers need from the use case.
type OrderUseCaseInterface interface {
	CreateOrder(ctx context.Context, order Order) response.Outcome
	UpdateOrder(ctx context.Context, order Order) response.Outcome
	DeleteOrder(ctx context.Context, id int) response.Outcome
	GetOrders(ctx context.Context) ([]Order, error)
	GetOrder(ctx context.Context, id int) (Order, bool, error)
	GetOrdersByClientID(ctx context.Context, clientID int) ([]Order, error)
	GetOrderDetails(ctx context.Context, orderID int) (OrderDetails, bool, error)
}

// OrderHandler serves the order routes.
type OrderHandler struct {
	useCase OrderUseCaseInterface
	tracer  trace.Tracer
}

// NewOrderHandler creates a handler over useCase. tracer opens the span
// around the details aggregation.
func NewOrderHandler(useCase OrderUseCaseInterface, tracer trace.Tracer) *OrderHandler {
	return &OrderHandler{useCase: useCase, tracer: tracer}
}

// Register mounts the order routes on rg, normally the guarded /api group.
func (h *OrderHandler) Register(rg *gin.RouterGroup) {
	orders := rg.Group("/orders")
	orders.GET("", h.GetOrders)
	orders.GET("/:id", h.GetOrder)
	orders.GET("/client/:clientId", h.GetClientOrders)
	orders.GET("/details/:orderId", h.GetOrderDetails)
	orders.POST("", h.CreateOrder)
	orders.PUT("", h.UpdateOrder)
	orders.DELETE("/:id", h.DeleteOrder)
}

func message(text string) gin.H {
	return gin.H{"message": text}
}

// positiveParam parses a path parameter as an id greater than zero.
func positiveParam(c *gin.Context, name string) (int, bool) {
	id, err := strconv.Atoi(c.Param(name))
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

// GetOrders handles GET /orders.
func (h *OrderHandler) GetOrders(c *gin.Context) {
	orders, err := h.useCase.GetOrders(c.Request.Context())
	if err != nil {
		_ = c.Error(err)
		return
	}
	if len(orders) == 0 {
		c.JSON(http.StatusNotFound, message("No order detected in the database"))
		return
	}
	c.JSON(http.StatusOK, orders)
}

// GetOrder handles GET /orders/:id.
func (h *OrderHandler) GetOrder(c *gin.Context) {
	id, ok := positiveParam(c, "id")
	if !ok {
		c.JSON(http.StatusBadRequest, message("Invalid data provided"))
		return
	}

	order, found, err := h.useCase.GetOrder(c.Request.Context(), id)
	if err != nil {
		_ = c.Error(err)
		return
	}
	if !found {
		c.JSON(http.StatusNotFound, message("Order not found"))
		return
	}
	c.JSON(http.StatusOK, order)
}

// GetClientOrders handles GET /orders/client/:clientId.
func (h *OrderHandler) GetClientOrders(c *gin.Context) {
	clientID, ok := positiveParam(c, "clientId")
	if !ok {
		c.JSON(http.StatusBadRequest, message("Invalid data provided"))
		return
	}

	orders, err := h.useCase.GetOrdersByClientID(c.Request.Context(), clientID)
	if err != nil {
		_ = c.Error(err)
		return
	}
	if len(orders) == 0 {
		c.JSON(http.StatusNotFound, message("No order found"))
		return
	}
	c.JSON(http.StatusOK, orders)
}

// GetOrderDetails handles GET /orders/details/:orderId. The caller's
// Authorization header goes along with the lookups.
func (h *OrderHandler) GetOrderDetails(c *gin.Context) {
	ctx, span := h.tracer.Start(c.Request.Context(), "get_order_details")
	defer span.End()

	orderID, ok := positiveParam(c, "orderId")
	if !ok {
		c.JSON(http.StatusBadRequest, message("Invalid data provided"))
		return
	}
	span.SetAttributes(attribute.Int("order_id", orderID))

	// Product and user lookups need the caller's identity.
	ctx = remote.WithAuthorization(ctx, c.GetHeader("Authorization"))

	details, found, err := h.useCase.GetOrderDetails(ctx, orderID)
	if err != nil {
		span.RecordError(err)
		_ = c.Error(err)
		return
	}
	span.SetAttributes(attribute.Bool("found", found))
	if !found {
		c.JSON(http.StatusNotFound, message("No order found"))
		return
	}
	c.JSON(http.StatusOK, details)
}

// CreateOrder handles POST /orders.
func (h *OrderHandler) CreateOrder(c *gin.Context) {
	var order Order
	if err := c.ShouldBindJSON(&order); err != nil {
		c.JSON(http.StatusBadRequest, message("Incomplete data submitted"))
		return
	}
	writeOutcome(c, h.useCase.CreateOrder(c.Request.Context(), order))
}

// UpdateOrder handles PUT /orders.
func (h *OrderHandler) UpdateOrder(c *gin.Context) {
	var order Order
	if err := c.ShouldBindJSON(&order); err != nil {
		c.JSON(http.StatusBadRequest, message("Incomplete data submitted"))
		return
	}
	writeOutcome(c, h.useCase.UpdateOrder(c.Request.Context(), order))
}

// DeleteOrder handles DELETE /orders/:id.
func (h *OrderHandler) DeleteOrder(c *gin.Context) {
	id, ok := positiveParam(c, "id")
	if !ok {
		c.JSON(http.StatusBadRequest, message("Invalid data provided"))
		return
	}
	writeOutcome(c, h.useCase.DeleteOrder(c.Request.Context(), id))
}

func writeOutcome(c *gin.Context, out response.Outcome) {
	if !out.Success {
		c.JSON(http.StatusBadRequest, out)
		return
	}
	c.JSON(http.StatusOK, out)
}
