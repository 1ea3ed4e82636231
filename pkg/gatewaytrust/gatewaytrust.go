// Package gatewaytrust marks requests that entered through the gateway and
// rejects requests that did not.
//
// The check is presence-only: any non-empty header value is accepted. The
// token is a shared marker, not a credential.
package gatewaytrust

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/matheusmosca/ecommerce-gateway/pkg/config"
)

const (
	DefaultHeader = "Api-Gateway"
	DefaultValue  = "Signed"
)

// UnavailableMessage is the plain-text body of a rejected request.
const UnavailableMessage = "Sorry, service is unavailable"

// Token is the header the gateway stamps on every request it forwards.
type Token struct {
	Header string
	Value  string
}

// DefaultToken returns the Api-Gateway: Signed token.
func DefaultToken() Token {
	return Token{Header: DefaultHeader, Value: DefaultValue}
}

// Stamp sets the token on h, replacing any value a client may have sent.
func (t Token) Stamp(h http.Header) {
	h.Set(t.Header, t.Value)
}

// Present reports whether h carries a non-empty value for the token header.
func (t Token) Present(h http.Header) bool {
	return h.Get(t.Header) != ""
}

// Stamper marks every inbound request before the gateway proxies it.
func Stamper(tok Token) gin.HandlerFunc {
	return func(c *gin.Context) {
		tok.Stamp(c.Request.Header)
		c.Next()
	}
}

// Verifier rejects requests that did not pass through the gateway with 503
// and stops the handler chain. Rejections are logged at debug level only.
func Verifier(tok Token, log *zap.Logger) gin.HandlerFunc {
	log = log.Named("gatewaytrust")
	return func(c *gin.Context) {
		if !tok.Present(c.Request.Header) {
			log.Debug("request rejected: missing gateway token",
				zap.String("method", c.Request.Method),
				zap.String("path", c.Request.URL.Path),
				zap.String("remote_addr", c.ClientIP()),
			)
			c.String(http.StatusServiceUnavailable, UnavailableMessage)
			c.Abort()
			return
		}
		c.Next()
	}
}

// FromConfig builds the token from the trust section of the configuration.
func FromConfig(cfg config.Trust) Token {
	return Token{Header: cfg.Header, Value: cfg.Value}
}
