package httpexec

import (
	"context"
	"time"

	"github.com/oktakit/oktahttp/config"
	"github.com/oktakit/oktahttp/logger"
)

// RequestExecutor turns one abstract request into a normalized response.
// Implementations are safe for concurrent use; per-call state lives on the
// stack of a single ExecuteRequest invocation.
type RequestExecutor interface {
	ExecuteRequest(ctx context.Context, request *Request) (*Response, error)
}

// BackoffStrategy computes the delay before the next attempt from the number
// of attempts completed so far (1 before the second attempt). It overrides
// the default schedule for non-rate-limited retries; tests freeze delays by
// returning zero.
type BackoffStrategy func(attempt int) time.Duration

// NewRequestExecutor wires the transport executor behind the retry
// executor. This is the composition the SDK layer consumes.
func NewRequestExecutor(cfg *config.ClientConfig, log logger.Logger) (RequestExecutor, error) {
	transport, err := NewTransportExecutor(cfg, NewRequestAuthenticator(cfg), log)
	if err != nil {
		return nil, err
	}
	return NewRetryExecutor(cfg, transport, log), nil
}
