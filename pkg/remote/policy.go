package remote

import (
	"time"

	"github.com/cenkalti/backoff/v5"

	"github.com/matheusmosca/ecommerce-gateway/pkg/config"
	"github.com/matheusmosca/ecommerce-gateway/pkg/failure"
)

// BackoffKind selects how the delay grows between attempts.
type BackoffKind string

const (
	Constant    BackoffKind = "constant"
	Exponential BackoffKind = "exponential"
)

// jitterFactor spreads each delay over [d*0.5, d*1.5].
const jitterFactor = 0.5

// Policy decides how often and how long a remote call is retried. Build it
// once at startup; the client only reads it.
type Policy struct {
	// MaxAttempts counts the first try, so 4 means up to 3 retries.
	MaxAttempts int
	BaseDelay   time.Duration
	Backoff     BackoffKind
	Jitter      bool
	// Retryable selects the faults worth another attempt. Nil retries
	// timeouts and cancellations only.
	Retryable func(error) bool
}

// DefaultPolicy retries timeouts three times, 500ms apart, with jitter.
func DefaultPolicy() Policy {
	return Policy{
		MaxAttempts: 4,
		BaseDelay:   500 * time.Millisecond,
		Backoff:     Constant,
		Jitter:      true,
	}
}

// PolicyFromConfig builds a Policy from the retry settings. Unknown
// backoff kinds fall back to Constant.
func PolicyFromConfig(cfg config.Retry) Policy {
	p := Policy{
		MaxAttempts: cfg.MaxAttempts,
		BaseDelay:   cfg.BaseDelay,
		Backoff:     BackoffKind(cfg.Backoff),
		Jitter:      cfg.Jitter,
	}
	if p.Backoff != Exponential {
		p.Backoff = Constant
	}
	return p
}

func (p Policy) retryable(err error) bool {
	if p.Retryable != nil {
		return p.Retryable(err)
	}
	return failure.IsTimeout(err)
}

func (p Policy) attempts() uint {
	if p.MaxAttempts < 1 {
		return 1
	}
	return uint(p.MaxAttempts)
}

// newBackOff returns fresh backoff state; one per call.
func (p Policy) newBackOff() backoff.BackOff {
	multiplier := 1.0
	if p.Backoff == Exponential {
		multiplier = 2.0
	}
	randomization := 0.0
	if p.Jitter {
		randomization = jitterFactor
	}

	b := &backoff.ExponentialBackOff{
		InitialInterval:     p.BaseDelay,
		RandomizationFactor: randomization,
		Multiplier:          multiplier,
		MaxInterval:         max(backoff.DefaultMaxInterval, p.BaseDelay),
	}
	b.Reset()
	return b
}
