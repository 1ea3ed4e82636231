package main

import (
	"context"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/matheusmosca/ecommerce-gateway/pkg/auth"
	"github.com/matheusmosca/ecommerce-gateway/pkg/response"
)

// UserUseCaseInterface is what the handlers need from the use case.
type UserUseCaseInterface interface {
	Register(ctx context.Context, req RegisterRequest) response.Outcome
	Login(ctx context.Context, req LoginRequest) (response.Outcome, error)
	GetUser(ctx context.Context, id int) (UserView, bool, error)
}

// AuthenticationHandler serves the account routes.
type AuthenticationHandler struct {
	useCase UserUseCaseInterface
}

// NewAuthenticationHandler creates a handler over useCase.
func NewAuthenticationHandler(useCase UserUseCaseInterface) *AuthenticationHandler {
	return &AuthenticationHandler{useCase: useCase}
}

// Register mounts the account routes. Only the user lookup needs a token.
func (h *AuthenticationHandler) Register(rg *gin.RouterGroup, verifier *auth.Verifier) {
	group := rg.Group("/authentication")
	group.POST("/register", h.RegisterUser)
	group.POST("/login", h.Login)
	group.GET("/:id", auth.RequireBearer(verifier), h.GetUser)
}

func message(text string) gin.H {
	return gin.H{"message": text}
}

// RegisterUser handles POST /register.
func (h *AuthenticationHandler) RegisterUser(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, message("Incomplete data submitted"))
		return
	}
	writeOutcome(c, h.useCase.Register(c.Request.Context(), req))
}

// Login handles POST /login. A store fault is a 500, bad credentials a 400.
func (h *AuthenticationHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, message("Incomplete data submitted"))
		return
	}
	out, err := h.useCase.Login(c.Request.Context(), req)
	if err != nil {
		_ = c.Error(err)
		return
	}
	writeOutcome(c, out)
}

// GetUser handles GET /:id.
func (h *AuthenticationHandler) GetUser(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, message("Invalid user Id"))
		return
	}

	user, ok, err := h.useCase.GetUser(c.Request.Context(), id)
	if err != nil {
		_ = c.Error(err)
		return
	}
	if !ok {
		c.JSON(http.StatusNotFound, message("User not found"))
		return
	}
	c.JSON(http.StatusOK, user)
}

func writeOutcome(c *gin.Context, out response.Outcome) {
	if !out.Success {
		c.JSON(http.StatusBadRequest, out)
		return
	}
	c.JSON(http.StatusOK, out)
}
