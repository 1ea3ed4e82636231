// Package auth issues and verifies the bearer tokens shared by all services.
package auth

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/matheusmosca/ecommerce-gateway/pkg/config"
)

// RoleAdmin is the role allowed to change the catalog.
const RoleAdmin = "Admin"

// ErrInvalidToken wraps every reason a token is refused.
var ErrInvalidToken = errors.New("invalid token")

// Claims are carried by every token the authentication service issues.
type Claims struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  string `json:"role"`
	jwt.RegisteredClaims
}

// UserID returns the numeric subject.
func (c *Claims) UserID() (int, error) {
	return strconv.Atoi(c.Subject)
}

// Issuer signs tokens for authenticated users.
type Issuer struct {
	secret   []byte
	issuer   string
	audience string
	ttl      time.Duration
	now      func() time.Time
}

// NewIssuer builds an Issuer from the JWT settings.
func NewIssuer(cfg config.JWT) *Issuer {
	return &Issuer{
		secret:   []byte(cfg.Secret),
		issuer:   cfg.Issuer,
		audience: cfg.Audience,
		ttl:      cfg.TTL,
		now:      time.Now,
	}
}

// Issue signs an HS256 token for the user.
func (i *Issuer) Issue(userID int, name, email, role string) (string, error) {
	now := i.now()
	claims := Claims{
		Name:  name,
		Email: email,
		Role:  role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.Itoa(userID),
			Issuer:    i.issuer,
			Audience:  jwt.ClaimStrings{i.audience},
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(i.ttl)),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(i.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// Verifier checks tokens issued by an Issuer with the same settings.
type Verifier struct {
	secret   []byte
	issuer   string
	audience string
}

// NewVerifier builds a Verifier from the JWT settings.
func NewVerifier(cfg config.JWT) *Verifier {
	return &Verifier{secret: []byte(cfg.Secret), issuer: cfg.Issuer, audience: cfg.Audience}
}

// Verify checks signature, expiry, issuer and audience.
func (v *Verifier) Verify(token string) (*Claims, error) {
	claims := &Claims{}
	parsed, err := jwt.ParseWithClaims(token, claims,
		func(*jwt.Token) (any, error) { return v.secret, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(v.issuer),
		jwt.WithAudience(v.audience),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidToken, err)
	}
	if !parsed.Valid {
		return nil, ErrInvalidToken
	}
	return claims, nil
}
