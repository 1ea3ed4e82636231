// Package failure turns faults and selected status codes produced by a
// handler chain into uniform problem bodies.
package failure

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.uber.org/zap"
)

// Problem is the body of every translated response.
type Problem struct {
	Title  string `json:"title"`
	Detail string `json:"detail"`
	Status int    `json:"status"`
}

var (
	timeoutProblem      = Problem{Title: "Out of time", Detail: "Request timeout... try again", Status: http.StatusRequestTimeout}
	internalProblem     = Problem{Title: "Error", Detail: "sorry, internal server error occurred. Kindly try again", Status: http.StatusInternalServerError}
	tooManyProblem      = Problem{Title: "Warning", Detail: "Too many request made", Status: http.StatusTooManyRequests}
	unauthorizedProblem = Problem{Title: "Alert", Detail: "not authorized", Status: http.StatusUnauthorized}
	forbiddenProblem    = Problem{Title: "Out of Access", Detail: "not allowed/required to access", Status: http.StatusForbidden}
)

// IsTimeout reports whether err is a cancellation or a timeout.
func IsTimeout(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}

// Translate must be the outermost middleware of a service. Faults raised in
// the chain (panics or errors attached with c.Error) become 408 or 500;
// 429, 401 and 403 get a problem body with their status kept. Every other
// response passes through untouched.
func Translate(log *zap.Logger) gin.HandlerFunc {
	log = log.Named("failure")

	translated, err := otel.Meter("failure").Int64Counter("http.server.translated_responses",
		metric.WithDescription("Responses rewritten into problem bodies"))
	if err != nil {
		log.Warn("translated responses counter unavailable", zap.Error(err))
	}

	return func(c *gin.Context) {
		bw := newBufferedWriter(c.Writer)
		c.Writer = bw

		fault := run(c)

		c.Writer = bw.ResponseWriter

		var p Problem
		switch {
		case fault != nil && IsTimeout(fault):
			log.Info("request timed out", zap.String("path", c.Request.URL.Path), zap.Error(fault))
			p = timeoutProblem
		case fault != nil:
			log.Warn("unhandled fault", zap.String("path", c.Request.URL.Path), zap.Error(fault))
			p = internalProblem
		case bw.Status() == http.StatusTooManyRequests:
			p = tooManyProblem
		case bw.Status() == http.StatusUnauthorized:
			p = unauthorizedProblem
		case bw.Status() == http.StatusForbidden:
			p = forbiddenProblem
		default:
			if err := bw.flush(); err != nil {
				log.Debug("flush response", zap.Error(err))
			}
			return
		}

		if translated != nil {
			translated.Add(c.Request.Context(), 1, metric.WithAttributes(attribute.Int("status", p.Status)))
		}
		bw.discard()
		c.JSON(p.Status, p)
	}
}

// run executes the rest of the chain and returns the fault it raised, if any.
func run(c *gin.Context) (fault error) {
	defer func() {
		if r := recover(); r != nil {
			c.Abort()
			if err, ok := r.(error); ok {
				fault = fmt.Errorf("panic: %w", err)
				return
			}
			fault = fmt.Errorf("panic: %v", r)
		}
	}()

	c.Next()

	if last := c.Errors.Last(); last != nil {
		return last.Err
	}
	return nil
}
