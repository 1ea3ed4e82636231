package auth

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

const claimsKey = "auth.claims"

// RequireBearer aborts with 401 unless the request carries a valid bearer
// token. The claims are stored on the gin context.
func RequireBearer(v *Verifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, err := v.VerifyHeader(c.GetHeader("Authorization"))
		if err != nil {
			c.AbortWithStatus(http.StatusUnauthorized)
			return
		}
		c.Set(claimsKey, claims)
		c.Next()
	}
}

// RequireRole must run after RequireBearer. A missing identity is 401, a
// different role is 403.
func RequireRole(role string) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, ok := ClaimsFrom(c)
		if !ok {
			c.AbortWithStatus(http.StatusUnauthorized)
			return
		}
		if claims.Role != role {
			c.AbortWithStatus(http.StatusForbidden)
			return
		}
		c.Next()
	}
}

// ClaimsFrom returns the claims RequireBearer stored on c.
func ClaimsFrom(c *gin.Context) (*Claims, bool) {
	v, ok := c.Get(claimsKey)
	if !ok {
		return nil, false
	}
	claims, ok := v.(*Claims)
	return claims, ok
}

// VerifyHeader verifies the bearer token of an Authorization header value.
func (v *Verifier) VerifyHeader(header string) (*Claims, error) {
	token, ok := bearerToken(header)
	if !ok {
		return nil, ErrInvalidToken
	}
	return v.Verify(token)
}

func bearerToken(header string) (string, bool) {
	scheme, token, ok := strings.Cut(header, " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") || token == "" {
		return "", false
	}
	return strings.TrimSpace(token), true
}
