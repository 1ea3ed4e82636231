package main

import (
	"fmt"
	"net/http"
	"net/http/httputil"
	"net/url"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/propagation"
	"go.uber.org/zap"

	"github.com/matheusmosca/ecommerce-gateway/pkg/failure"
	"github.com/matheusmosca/ecommerce-gateway/pkg/logger"
)

// Upstream maps the first segment under /api to an internal service.
type Upstream struct {
	Prefix string
	URL    string
}

// Gateway forwards /api/{prefix}/... to the service registered for prefix.
type Gateway struct {
	proxies map[string]*httputil.ReverseProxy
	log     *zap.Logger
}

// NewGateway builds one reverse proxy per upstream. Every URL must be
// absolute.
func NewGateway(upstreams []Upstream, log *zap.Logger) (*Gateway, error) {
	g := &Gateway{proxies: make(map[string]*httputil.ReverseProxy, len(upstreams)), log: log.Named("proxy")}
	for _, u := range upstreams {
		target, err := url.Parse(u.URL)
		if err != nil {
			return nil, fmt.Errorf("parse upstream %s: %w", u.Prefix, err)
		}
		if target.Scheme == "" || target.Host == "" {
			return nil, fmt.Errorf("upstream %s: %q is not an absolute URL", u.Prefix, u.URL)
		}
		g.proxies[u.Prefix] = g.newProxy(u.Prefix, target)
	}
	return g, nil
}

func (g *Gateway) newProxy(prefix string, target *url.URL) *httputil.ReverseProxy {
	return &httputil.ReverseProxy{
		Rewrite: func(r *httputil.ProxyRequest) {
			r.SetURL(target)
			r.SetXForwarded()
			otel.GetTextMapPropagator().Inject(r.In.Context(), propagation.HeaderCarrier(r.Out.Header))
		},
		ErrorHandler: func(w http.ResponseWriter, r *http.Request, err error) {
			status := http.StatusBadGateway
			if failure.IsTimeout(err) {
				status = http.StatusGatewayTimeout
			}
			g.log.Warn("upstream unreachable",
				zap.String("upstream", prefix),
				zap.String("path", r.URL.Path),
				zap.String("request_id", r.Header.Get(logger.RequestIDHeader)),
				zap.Error(err),
			)
			w.WriteHeader(status)
		},
	}
}

// Forward is mounted on /api/*path.
func (g *Gateway) Forward(c *gin.Context) {
	prefix, _, _ := strings.Cut(strings.TrimPrefix(c.Param("path"), "/"), "/")
	proxy, ok := g.proxies[prefix]
	if !ok {
		c.AbortWithStatus(http.StatusNotFound)
		return
	}
	proxy.ServeHTTP(c.Writer, c.Request)
}

// RequestID keeps a caller supplied id or assigns a new one, and echoes it
// back on the response.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(logger.RequestIDHeader)
		if id == "" {
			id = uuid.NewString()
			c.Request.Header.Set(logger.RequestIDHeader, id)
		}
		c.Header(logger.RequestIDHeader, id)
		c.Next()
	}
}
