package main

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/matheusmosca/ecommerce-gateway/pkg/auth"
	"github.com/matheusmosca/ecommerce-gateway/pkg/gatewaytrust"
	"github.com/matheusmosca/ecommerce-gateway/pkg/response"
	"github.com/matheusmosca/ecommerce-gateway/pkg/server"
)

func newTestRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	r := server.NewRouter("authentication-service", zap.NewNop())
	api := r.Group("/api", gatewaytrust.Verifier(gatewaytrust.DefaultToken(), zap.NewNop()))
	NewAuthenticationHandler(newUseCase()).Register(api, auth.NewVerifier(testJWT))
	return r
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

func decodeOutcome(t *testing.T, w *httptest.ResponseRecorder) response.Outcome {
	t.Helper()
	var out response.Outcome
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	return out
}

func TestHandlers_RegisterLoginLookup(t *testing.T) {
	r := newTestRouter(t)

	reg := do(r, http.MethodPost, "/api/authentication/register", annRegistration, "")
	require.Equal(t, http.StatusOK, reg.Code)
	assert.Equal(t, "User registered successfully", decodeOutcome(t, reg).Message)

	login := do(r, http.MethodPost, "/api/authentication/login",
		LoginRequest{Email: annRegistration.Email, Password: annRegistration.Password}, "")
	require.Equal(t, http.StatusOK, login.Code)
	token := decodeOutcome(t, login).Message

	user := do(r, http.MethodGet, "/api/authentication/1", nil, token)
	require.Equal(t, http.StatusOK, user.Code)
	assert.Contains(t, user.Body.String(), `"telephone_number":"555-0100"`)
	assert.NotContains(t, user.Body.String(), "password")
	assert.NotContains(t, user.Body.String(), "$2a$")
}

func TestHandlers_LookupNeedsToken(t *testing.T) {
	r := newTestRouter(t)

	w := do(r, http.MethodGet, "/api/authentication/1", nil, "")

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), `"title":"Alert"`)
}

func TestHandlers_LookupEdgeCases(t *testing.T) {
	r := newTestRouter(t)
	token, err := auth.NewIssuer(testJWT).Issue(9, "Bob", "bob@example.com", "User")
	require.NoError(t, err)

	invalid := do(r, http.MethodGet, "/api/authentication/0", nil, token)
	assert.Equal(t, http.StatusBadRequest, invalid.Code)
	assert.Contains(t, invalid.Body.String(), "Invalid user Id")

	missing := do(r, http.MethodGet, "/api/authentication/9", nil, token)
	assert.Equal(t, http.StatusNotFound, missing.Code)
}

func TestHandlers_BadBodies(t *testing.T) {
	r := newTestRouter(t)

	reg := do(r, http.MethodPost, "/api/authentication/register", map[string]string{"email": "not-an-email"}, "")
	assert.Equal(t, http.StatusBadRequest, reg.Code)
	assert.Contains(t, reg.Body.String(), "Incomplete data submitted")

	login := do(r, http.MethodPost, "/api/authentication/login",
		LoginRequest{Email: "ghost@example.com", Password: "whatever"}, "")
	assert.Equal(t, http.StatusBadRequest, login.Code)
	assert.Equal(t, "Invalid credentials", decodeOutcome(t, login).Message)
}

func TestHandlers_UnsignedRegisterRejected(t *testing.T) {
	r := newTestRouter(t)
	req := httptest.NewRequest(http.MethodPost, "/api/authentication/register", bytes.NewBufferString("{}"))
	w := httptest.NewRecorder()

	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}
