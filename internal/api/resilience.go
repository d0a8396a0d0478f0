package api

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/cenkalti/backoff/v5"
	"github.com/rs/zerolog"
	"github.com/sony/gobreaker"
)

func newBreaker(failures int, cooldown time.Duration, log zerolog.Logger) *gobreaker.CircuitBreaker {
	if failures <= 0 {
		failures = 5
	}
	if cooldown <= 0 {
		cooldown = 10 * time.Second
	}
	return gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "backend",
		MaxRequests: 1,
		Timeout:     cooldown,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= uint32(failures)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			log.Info().Str("breaker", name).Str("from", from.String()).Str("to", to.String()).Msg("circuit breaker state changed")
		},
		// Client errors and caller aborts say nothing about the backend's health.
		IsSuccessful: func(err error) bool {
			if err == nil || errors.Is(err, context.Canceled) {
				return true
			}
			f, ok := AsFailure(err)
			return ok && f.Status >= 400 && f.Status < 500
		},
	})
}

// execute runs op through the breaker. GETs that fail before a response
// arrives are retried with exponential backoff.
func (c *Client) execute(ctx context.Context, method string, op func() (*response, error)) (*response, error) {
	guarded := func() (*response, error) {
		out, err := c.breaker.Execute(func() (interface{}, error) {
			return op()
		})
		resp, _ := out.(*response)
		if err != nil {
			if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
				return resp, &Failure{
					Payload: map[string]any{"success": false, "error": true},
					Message: "backend unavailable: " + err.Error(),
					Err:     err,
				}
			}
			return resp, err
		}
		return resp, nil
	}

	if method != http.MethodGet || c.retries == 0 {
		return guarded()
	}

	return backoff.Retry(ctx, func() (*response, error) {
		resp, err := guarded()
		if err == nil {
			return resp, nil
		}
		if !retryable(ctx, err) {
			return resp, backoff.Permanent(err)
		}
		c.log.Debug().Err(err).Msg("retrying backend request")
		return resp, err
	},
		backoff.WithBackOff(newBackOff()),
		backoff.WithMaxTries(uint(c.retries+1)),
	)
}

func newBackOff() *backoff.ExponentialBackOff {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = 200 * time.Millisecond
	b.MaxInterval = 2 * time.Second
	return b
}

// retryable reports transport-level failures: no HTTP status, breaker closed, context alive.
func retryable(ctx context.Context, err error) bool {
	if ctx.Err() != nil {
		return false
	}
	f, ok := AsFailure(err)
	if !ok {
		return false
	}
	if f.Status != 0 {
		return false
	}
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		return false
	}
	return !errors.Is(err, context.Canceled) && !errors.Is(err, context.DeadlineExceeded)
}
