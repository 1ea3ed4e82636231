package main

import (
	"context"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/matheusmosca/ecommerce-gateway/pkg/auth"
	"github.com/matheusmosca/ecommerce-gateway/pkg/response"
)

// ProductUseCaseInterface is what the handlers need from the use case.
type ProductUseCaseInterface interface {
	GetProducts(ctx context.Context) ([]Product, error)
	GetProduct(ctx context.Context, id int) (Product, bool, error)
	CreateProduct(ctx context.Context, product Product) response.Outcome
	UpdateProduct(ctx context.Context, product Product) response.Outcome
	DeleteProduct(ctx context.Context, id int) response.Outcome
}

// ProductHandler serves the catalog routes.
type ProductHandler struct {
	useCase ProductUseCaseInterface
}

// NewProductHandler creates a handler over useCase.
func NewProductHandler(useCase ProductUseCaseInterface) *ProductHandler {
	return &ProductHandler{useCase: useCase}
}

// Register mounts the catalog routes. Reads are open to any request that
// came through the gateway; writes need an Admin token.
func (h *ProductHandler) Register(rg *gin.RouterGroup, verifier *auth.Verifier) {
	products := rg.Group("/products")
	products.GET("", h.GetProducts)
	products.GET("/:id", h.GetProduct)

	admin := products.Group("", auth.RequireBearer(verifier), auth.RequireRole(auth.RoleAdmin))
	admin.POST("", h.CreateProduct)
	admin.PUT("", h.UpdateProduct)
	admin.DELETE("/:id", h.DeleteProduct)
}

func message(text string) gin.H {
	return gin.H{"message": text}
}

// GetProducts handles GET /products.
func (h *ProductHandler) GetProducts(c *gin.Context) {
	products, err := h.useCase.GetProducts(c.Request.Context())
	if err != nil {
		_ = c.Error(err)
		return
	}
	if len(products) == 0 {
		c.JSON(http.StatusNotFound, message("No products detected in the database"))
		return
	}
	c.JSON(http.StatusOK, products)
}

// GetProduct handles GET /products/:id.
func (h *ProductHandler) GetProduct(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, message("Invalid data provided"))
		return
	}

	product, ok, err := h.useCase.GetProduct(c.Request.Context(), id)
	if err != nil {
		_ = c.Error(err)
		return
	}
	if !ok {
		c.JSON(http.StatusNotFound, message("Product requested not found"))
		return
	}
	c.JSON(http.StatusOK, product)
}

func bindProduct(c *gin.Context) (Product, bool) {
	var product Product
	if err := c.ShouldBindJSON(&product); err != nil {
		c.JSON(http.StatusBadRequest, message("Incomplete data submitted"))
		return Product{}, false
	}
	if err := product.Validate(); err != nil {
		c.JSON(http.StatusBadRequest, message(err.Error()))
		return Product{}, false
	}
	return product, true
}

// CreateProduct handles POST /products.
func (h *ProductHandler) CreateProduct(c *gin.Context) {
	product, ok := bindProduct(c)
	if !ok {
		return
	}
	writeOutcome(c, h.useCase.CreateProduct(c.Request.Context(), product))
}

// UpdateProduct handles PUT /products.
func (h *ProductHandler) UpdateProduct(c *gin.Context) {
	product, ok := bindProduct(c)
	if !ok {
		return
	}
	writeOutcome(c, h.useCase.UpdateProduct(c.Request.Context(), product))
}

// DeleteProduct handles DELETE /products/:id.
func (h *ProductHandler) DeleteProduct(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, message("Invalid data provided"))
		return
	}
	writeOutcome(c, h.useCase.DeleteProduct(c.Request.Context(), id))
}

func writeOutcome(c *gin.Context, out response.Outcome) {
	if !out.Success {
		c.JSON(http.StatusBadRequest, out)
		return
	}
	c.JSON(http.StatusOK, out)
}
