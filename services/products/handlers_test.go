package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/matheusmosca/ecommerce-gateway/pkg/auth"
	"github.com/matheusmosca/ecommerce-gateway/pkg/config"
	"github.com/matheusmosca/ecommerce-gateway/pkg/failure"
	"github.com/matheusmosca/ecommerce-gateway/pkg/gatewaytrust"
	"github.com/matheusmosca/ecommerce-gateway/pkg/server"
	"github.com/matheusmosca/ecommerce-gateway/pkg/store/memory"
)

var testJWT = config.JWT{
	Secret:   "products-test-secret-0123456789abcd",
	Issuer:   "ecommerce-authentication",
	Audience: "ecommerce",
	TTL:      time.Hour,
}

func newTestRouter(t *testing.T, repo Repository) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	if repo == nil {
		repo = NewProductRepository(memory.New[Product](), zap.NewNop())
	}
	r := server.NewRouter("products-service", zap.NewNop())
	api := r.Group("/api", gatewaytrust.Verifier(gatewaytrust.DefaultToken(), zap.NewNop()))
	NewProductHandler(NewProductUseCase(repo, nil, zap.NewNop())).Register(api, auth.NewVerifier(testJWT))
	return r
}

func tokenFor(t *testing.T, role string) string {
	t.Helper()
	token, err := auth.NewIssuer(testJWT).Issue(7, "Bob", "bob@example.com", role)
	require.NoError(t, err)
	return token
}

func do(r *gin.Engine, method, path string, body any, token string) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Api-Gateway", "Signed")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decodeProblem(t *testing.T, w *httptest.ResponseRecorder) failure.Problem {
	t.Helper()
	var p failure.Problem
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &p))
	return p
}

func TestHandlers_AnonymousReads(t *testing.T) {
	r := newTestRouter(t, nil)

	empty := do(r, http.MethodGet, "/api/products", nil, "")
	assert.Equal(t, http.StatusNotFound, empty.Code)
	assert.Contains(t, empty.Body.String(), "No products detected in the database")

	missing := do(r, http.MethodGet, "/api/products/3", nil, "")
	assert.Equal(t, http.StatusNotFound, missing.Code)
	assert.Contains(t, missing.Body.String(), "Product requested not found")

	invalid := do(r, http.MethodGet, "/api/products/abc", nil, "")
	assert.Equal(t, http.StatusBadRequest, invalid.Code)
}

func TestHandlers_WritesNeedAdmin(t *testing.T) {
	r := newTestRouter(t, nil)
	body := map[string]any{"name": "Keyboard", "quantity": 5, "price": "76.93"}

	anonymous := do(r, http.MethodPost, "/api/products", body, "")
	assert.Equal(t, http.StatusUnauthorized, anonymous.Code)
	assert.Equal(t, "Alert", decodeProblem(t, anonymous).Title)

	user := do(r, http.MethodPost, "/api/products", body, tokenFor(t, "User"))
	assert.Equal(t, http.StatusForbidden, user.Code)
	assert.Equal(t, "Out of Access", decodeProblem(t, user).Title)

	admin := do(r, http.MethodPost, "/api/products", body, tokenFor(t, auth.RoleAdmin))
	assert.Equal(t, http.StatusOK, admin.Code)
	assert.Contains(t, admin.Body.String(), "Keyboard added to database successfully")

	got := do(r, http.MethodGet, "/api/products/1", nil, "")
	assert.Equal(t, http.StatusOK, got.Code)
	assert.Contains(t, got.Body.String(), `"price":"76.93"`)
}

func TestHandlers_AdminLifecycle(t *testing.T) {
	r := newTestRouter(t, nil)
	admin := tokenFor(t, auth.RoleAdmin)

	do(r, http.MethodPost, "/api/products", map[string]any{"name": "Mouse", "quantity": 3, "price": "10.50"}, admin)

	dup := do(r, http.MethodPost, "/api/products", map[string]any{"name": "Mouse", "quantity": 1, "price": "9.00"}, admin)
	assert.Equal(t, http.StatusBadRequest, dup.Code)
	assert.Contains(t, dup.Body.String(), "Mouse already added")

	upd := do(r, http.MethodPut, "/api/products", map[string]any{"id": 1, "name": "Mouse", "quantity": 8, "price": "11.00"}, admin)
	assert.Equal(t, http.StatusOK, upd.Code)

	del := do(r, http.MethodDelete, "/api/products/1", nil, admin)
	assert.Equal(t, http.StatusOK, del.Code)
	assert.Contains(t, del.Body.String(), "Mouse is deleted successfully")
}

func TestHandlers_IncompleteBody(t *testing.T) {
	r := newTestRouter(t, nil)

	w := do(r, http.MethodPost, "/api/products", map[string]any{"name": "Cable"}, tokenFor(t, auth.RoleAdmin))

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "Incomplete data submitted")
}

func TestHandlers_UnsignedRequestRejected(t *testing.T) {
	r := newTestRouter(t, nil)
	req := httptest.NewRequest(http.MethodGet, "/api/products", nil)
	w := httptest.NewRecorder()

	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.Equal(t, gatewaytrust.UnavailableMessage, w.Body.String())
}

func TestHandlers_StoreFaultIsTranslated(t *testing.T) {
	repo := new(MockRepository)
	repo.On("GetAll", mock.Anything).Return(nil, errors.New("connection reset"))
	r := newTestRouter(t, repo)

	w := do(r, http.MethodGet, "/api/products", nil, "")

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, "Error", decodeProblem(t, w).Title)
	assert.NotContains(t, w.Body.String(), "connection reset")
}
