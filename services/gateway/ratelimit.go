package main

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/matheusmosca/ecommerce-gateway/pkg/auth"
)

const limiterIdleTTL = 10 * time.Minute

type clientLimiter struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// KeyFunc names the bucket a request is charged to.
type KeyFunc func(c *gin.Context) string

// ByClientIP charges every request to the caller's address.
func ByClientIP(c *gin.Context) string {
	return "ip:" + c.ClientIP()
}

// ByUser charges requests with a valid bearer token to the token's subject
// and everything else to the caller's address. Internal services forward
// the end user's token, so their lookups land in that user's bucket
// instead of one bucket shared by the whole service.
func ByUser(v *auth.Verifier) KeyFunc {
	return func(c *gin.Context) string {
		claims, err := v.VerifyHeader(c.GetHeader("Authorization"))
		if err != nil || claims.Subject == "" {
			return ByClientIP(c)
		}
		return "user:" + claims.Subject
	}
}

// RateLimiter keeps one token bucket per key.
type RateLimiter struct {
	mu      sync.Mutex
	clients map[string]*clientLimiter
	rate    rate.Limit
	burst   int
	key     KeyFunc
	log     *zap.Logger
	now     func() time.Time
}

// NewRateLimiter allows rps requests per second per key with the given
// burst. A nil key charges by client address.
func NewRateLimiter(rps float64, burst int, key KeyFunc, log *zap.Logger) *RateLimiter {
	if key == nil {
		key = ByClientIP
	}
	return &RateLimiter{
		clients: make(map[string]*clientLimiter),
		rate:    rate.Limit(rps),
		burst:   burst,
		key:     key,
		log:     log.Named("ratelimit"),
		now:     time.Now,
	}
}

func (rl *RateLimiter) allow(key string) bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	cl, ok := rl.clients[key]
	if !ok {
		cl = &clientLimiter{limiter: rate.NewLimiter(rl.rate, rl.burst)}
		rl.clients[key] = cl
	}
	cl.lastSeen = rl.now()
	return cl.limiter.Allow()
}

// Sweep forgets clients idle for longer than limiterIdleTTL.
func (rl *RateLimiter) Sweep() {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	cutoff := rl.now().Add(-limiterIdleTTL)
	for key, cl := range rl.clients {
		if cl.lastSeen.Before(cutoff) {
			delete(rl.clients, key)
		}
	}
}

// RunSweeper sweeps every interval until ctx is done.
func (rl *RateLimiter) RunSweeper(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			rl.Sweep()
		}
	}
}

// Middleware answers 429 once a client exhausts its bucket. The status is
// turned into a problem body by the failure middleware.
func (rl *RateLimiter) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		key := rl.key(c)
		if !rl.allow(key) {
			rl.log.Info("rate limit exceeded", zap.String("client", key), zap.String("path", c.Request.URL.Path))
			c.AbortWithStatus(http.StatusTooManyRequests)
			return
		}
		c.Next()
	}
}
