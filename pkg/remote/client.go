// Package remote calls other services through the gateway with a bounded
// per-call timeout and a retry policy.
package remote

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cenkalti/backoff/v5"
	"github.com/go-resty/resty/v2"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/matheusmosca/ecommerce-gateway/pkg/gatewaytrust"
)

// DefaultTimeout bounds a single attempt.
const DefaultTimeout = time.Second

type authorizationKey struct{}

// WithAuthorization stores the caller's Authorization header so outbound
// calls made with ctx carry it along.
func WithAuthorization(ctx context.Context, header string) context.Context {
	if header == "" {
		return ctx
	}
	return context.WithValue(ctx, authorizationKey{}, header)
}

func authorizationFrom(ctx context.Context) string {
	v, _ := ctx.Value(authorizationKey{}).(string)
	return v
}

// StatusError is a completed call answered with a non-2xx status.
type StatusError struct {
	Code int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("remote returned status %d", e.Code)
}

// Options configures a Client. A zero Timeout means DefaultTimeout.
type Options struct {
	BaseURL string
	Timeout time.Duration
	Token   gatewaytrust.Token
	Policy  Policy
}

// Client calls internal services through the gateway. It is safe for
// concurrent use.
type Client struct {
	http    *resty.Client
	policy  Policy
	log     *zap.Logger
	tracer  trace.Tracer
	retries metric.Int64Counter
}

// NewClient builds a Client. Retries are driven by opts.Policy, never by
// the transport.
func NewClient(opts Options, log *zap.Logger) *Client {
	if opts.Timeout <= 0 {
		opts.Timeout = DefaultTimeout
	}
	log = log.Named("remote")

	token := opts.Token
	rc := resty.New().
		SetBaseURL(opts.BaseURL).
		SetTimeout(opts.Timeout).
		SetRetryCount(0).
		SetHeader("Accept", "application/json").
		OnBeforeRequest(func(_ *resty.Client, r *resty.Request) error {
			token.Stamp(r.Header)
			if auth := authorizationFrom(r.Context()); auth != "" {
				r.Header.Set("Authorization", auth)
			}
			otel.GetTextMapPropagator().Inject(r.Context(), propagation.HeaderCarrier(r.Header))
			return nil
		})

	retries, err := otel.Meter("remote").Int64Counter("remote.client.retries",
		metric.WithDescription("Retries scheduled for remote calls"))
	if err != nil {
		log.Warn("retry counter unavailable", zap.Error(err))
	}

	return &Client{
		http:    rc,
		policy:  opts.Policy,
		log:     log,
		tracer:  otel.Tracer("remote"),
		retries: retries,
	}
}

// Fetch GETs path and decodes the JSON body into T.
//
// The boolean is false when the value is unavailable: the remote answered
// with a non-2xx status, or every attempt failed with a retryable fault.
// Callers must read that as "dependency unavailable", not "not found".
// Only non-retryable faults are returned as errors.
func Fetch[T any](ctx context.Context, c *Client, path string) (T, bool, error) {
	var zero T

	ctx, span := c.tracer.Start(ctx, "remote.fetch", trace.WithSpanKind(trace.SpanKindClient))
	defer span.End()
	span.SetAttributes(attribute.String("remote.path", path))

	attempt := 0
	op := func() (*T, error) {
		attempt++
		out := new(T)
		resp, err := c.http.R().
			SetContext(ctx).
			SetResult(out).
			ForceContentType("application/json").
			Get(path)
		if err != nil {
			if c.policy.retryable(err) {
				return nil, err
			}
			return nil, backoff.Permanent(err)
		}
		if !resp.IsSuccess() {
			return nil, backoff.Permanent(&StatusError{Code: resp.StatusCode()})
		}
		return out, nil
	}

	notify := func(err error, next time.Duration) {
		c.log.Warn("retrying remote call",
			zap.String("path", path),
			zap.Int("attempt", attempt),
			zap.String("outcome", err.Error()),
			zap.Duration("delay", next),
		)
		if c.retries != nil {
			c.retries.Add(ctx, 1, metric.WithAttributes(attribute.String("remote.path", path)))
		}
	}

	res, err := backoff.Retry(ctx, op,
		backoff.WithBackOff(c.policy.newBackOff()),
		backoff.WithMaxTries(c.policy.attempts()),
		backoff.WithNotify(notify),
	)
	span.SetAttributes(attribute.Int("remote.attempts", attempt))
	if err == nil {
		return *res, true, nil
	}

	var perm *backoff.PermanentError
	if errors.As(err, &perm) {
		err = perm.Err
	}

	var status *StatusError
	if errors.As(err, &status) {
		span.SetAttributes(attribute.Int("http.response.status_code", status.Code))
		c.log.Debug("remote call returned no value", zap.String("path", path), zap.Int("status", status.Code))
		return zero, false, nil
	}

	if ctxErr := ctx.Err(); ctxErr != nil {
		span.SetStatus(codes.Error, "caller cancelled")
		c.log.Debug("caller cancelled",
			zap.String("path", path),
			zap.Int("attempts", attempt),
			zap.NamedError("cause", ctxErr),
			zap.Error(err),
		)
		return zero, false, nil
	}

	if c.policy.retryable(err) {
		span.SetStatus(codes.Error, "retries exhausted")
		c.log.Warn("remote call exhausted retries",
			zap.String("path", path),
			zap.Int("attempts", attempt),
			zap.Error(err),
		)
		return zero, false, nil
	}

	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
	return zero, false, fmt.Errorf("fetch %s: %w", path, err)
}
