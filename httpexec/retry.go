package httpexec

import (
	"context"
	"errors"
	"io"
	"math"
	"net/http"
	"strconv"
	"time"

	"github.com/oktakit/oktahttp/config"
	"github.com/oktakit/oktahttp/logger"
)

const (
	// defaultMaxAttempts is the attempt cap when no configuration is given
	defaultMaxAttempts = 4

	// maxBackoff bounds the default exponential schedule
	maxBackoff = 20 * time.Second

	// backoffScale is the base of the default schedule: 2^attempt * 300ms
	backoffScale = 300 * time.Millisecond

	// rateLimitSlack is added to a server-dictated reset delay to avoid
	// racing the reset
	rateLimitSlack = time.Second
)

// RetryExecutor wraps an inner RequestExecutor with retries. It is safe
// for concurrent use once constructed.
type RetryExecutor struct {
	delegate RequestExecutor
	log      logger.Logger

	// maxAttempts bounds retries: a retry is admitted while the number of
	// completed attempts is at most maxAttempts, so a call makes at most
	// maxAttempts+1 exchanges; <= 0 disables the cap
	maxAttempts int

	// maxElapsed bounds the wall clock per call; <= 0 disables the bound
	maxElapsed time.Duration

	backoff BackoffStrategy

	// indirections for deterministic tests
	now   func() time.Time
	sleep func(ctx context.Context, d time.Duration) error
}

// NewRetryExecutor creates a RetryExecutor over the given delegate.
// RetryMaxElapsed seconds enable the wall-clock budget; RetryMaxAttempts sets
// the attempt cap, and values <= 0 disable it. A nil configuration keeps the
// default attempt cap.
func NewRetryExecutor(cfg *config.ClientConfig, delegate RequestExecutor, log logger.Logger) *RetryExecutor {
	r := &RetryExecutor{
		delegate:    delegate,
		log:         log,
		maxAttempts: defaultMaxAttempts,
		now:         time.Now,
		sleep:       sleepContext,
	}

	if cfg != nil {
		if cfg.RetryMaxElapsed >= 0 {
			r.maxElapsed = time.Duration(cfg.RetryMaxElapsed) * time.Second
		}
		r.maxAttempts = cfg.RetryMaxAttempts
	}

	return r
}

// SetMaxAttempts overrides the attempt cap; values <= 0 disable it
func (r *RetryExecutor) SetMaxAttempts(n int) {
	r.maxAttempts = n
}

// SetBackoffStrategy overrides the default schedule for non-rate-limited
// retries
func (r *RetryExecutor) SetBackoffStrategy(s BackoffStrategy) {
	r.backoff = s
}

// ExecuteRequest runs the retry loop. Responses with a retryable status
// beyond budget are returned as-is; errors beyond budget surface as a
// transport error.
func (r *RetryExecutor) ExecuteRequest(ctx context.Context, request *Request) (*Response, error) {
	if request == nil {
		return nil, NewError("request cannot be nil", nil, false, KindOther)
	}
	if request.Query == nil {
		request.Query = NewQueryString()
	}
	if request.Headers == nil {
		request.Headers = NewHeaders()
	}

	var (
		attempt   int
		response  *Response
		requestID string
		start     = r.now()
	)

	// copy the original params and headers so each retry starts from the
	// caller-provided state
	originalQuery := request.Query.Clone()
	originalHeaders := request.Headers.Clone()
	bodySeeker, bodyPos, err := bodyPosition(request.Body)
	if err != nil {
		return nil, NewError("unable to determine request body position", err, false, KindOther)
	}

	for {
		if attempt > 0 {
			request.Query = originalQuery.Clone()
			request.Headers = originalHeaders.Clone()

			// remember the request id of the first observed response
			if requestID == "" && response != nil {
				requestID = response.Headers.RequestID()
			}

			if bodySeeker != nil {
				if _, err := bodySeeker.Seek(bodyPos, io.SeekStart); err != nil {
					return nil, NewError("unable to rewind request body", err, false, KindOther)
				}
			}

			if err := r.pauseBeforeRetry(ctx, attempt, response, r.split(start)); err != nil {
				if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
					return nil, err
				}
				if response != nil {
					r.log.Warn().Err(err).Msg("unable to pause for retry")
					return response, nil
				}
				return nil, err
			}
		}

		attempt++
		setRetryHeaders(request, requestID, attempt)

		resp, err := r.delegate.ExecuteRequest(ctx, request)
		if err != nil {
			r.log.Warn().Err(err).Msg("unable to execute HTTP request")

			if !r.shouldRetryError(err, attempt, r.split(start)) {
				return nil, wrapTransportErr(err)
			}
			continue
		}

		response = resp
		if !r.shouldRetryResponse(resp, attempt, r.split(start)) {
			return resp, nil
		}
	}
}

// split returns the monotonic elapsed time since the call started
func (r *RetryExecutor) split(start time.Time) time.Duration {
	return r.now().Sub(start)
}

// pauseBeforeRetry computes the backoff for the upcoming attempt and
// sleeps. A nil return means the attempt may proceed.
func (r *RetryExecutor) pauseBeforeRetry(ctx context.Context, attempt int, response *Response, elapsed time.Duration) error {
	if !r.withinBudget(attempt, elapsed) {
		return failedToRetry()
	}

	timeLeft := time.Duration(math.MaxInt64)
	if r.maxElapsed > 0 {
		timeLeft = r.maxElapsed - elapsed
	}

	delay := time.Duration(-1)

	switch {
	case r.backoff != nil:
		delay = minDuration(r.backoff(attempt), timeLeft)
	case response != nil && response.Status == http.StatusTooManyRequests:
		delay = rateLimitDelay(response)
		if delay >= 0 {
			if !r.withinBudget(attempt, elapsed+delay) {
				return failedToRetry()
			}
			r.log.Debug().Dur("delay", delay).Int("attempt", attempt).Msg("rate limit detected, honoring reset")
		}
	}

	// default schedule, also the fallback when the reset was unusable
	if delay < 0 {
		delay = minDuration(defaultDelay(attempt), timeLeft)
	}

	if delay < 0 {
		return failedToRetry()
	}

	r.log.Debug().Dur("delay", delay).Int("attempt", attempt).Msg("retryable condition detected")

	return r.sleep(ctx, delay)
}

// withinBudget applies the retry budget: at least one cap enabled, the
// attempt cap inclusive, the elapsed cap exclusive.
func (r *RetryExecutor) withinBudget(attempt int, elapsed time.Duration) bool {
	return (r.maxAttempts > 0 || r.maxElapsed > 0) &&
		(r.maxAttempts <= 0 || attempt <= r.maxAttempts) &&
		(r.maxElapsed <= 0 || elapsed < r.maxElapsed)
}

func (r *RetryExecutor) shouldRetryResponse(response *Response, attempt int, elapsed time.Duration) bool {
	switch response.Status {
	case http.StatusTooManyRequests, http.StatusServiceUnavailable, http.StatusGatewayTimeout:
		return r.withinBudget(attempt, elapsed)
	}
	return false
}

func (r *RetryExecutor) shouldRetryError(err error, attempt int, elapsed time.Duration) bool {
	if !r.withinBudget(attempt, elapsed) {
		return false
	}

	kind := KindOf(err)
	if retryableKind(kind) {
		r.log.Debug().Str("kind", string(kind)).Err(err).Msg("retrying after transport failure")
		return true
	}

	return false
}

// rateLimitDelay derives the wait from a 429 response: the reset timestamp
// minus the server's own clock, plus a second of slack. Returns -1 when the
// reset or Date header is unusable, or when the computed delay is negative
// (server clock ahead of the reset); callers fall back to the default
// schedule in both cases.
func rateLimitDelay(response *Response) time.Duration {
	values := response.Headers.Values(HeaderRateLimitReset)
	if len(values) != 1 || !allDigits(values[0]) {
		return -1
	}

	serverDate, ok := response.Headers.Date()
	if !ok {
		return -1
	}

	reset, err := strconv.ParseInt(values[0], 10, 64)
	if err != nil {
		return -1
	}

	delay := time.Unix(reset, 0).Sub(serverDate) + rateLimitSlack
	if delay < 0 {
		return -1
	}

	return delay
}

// defaultDelay is the built-in schedule: 2^attempt * 300ms capped at 20s
func defaultDelay(attempt int) time.Duration {
	delay := backoffScale * time.Duration(int64(1)<<uint(attempt))
	if delay > maxBackoff || delay <= 0 {
		return maxBackoff
	}
	return delay
}

// setRetryHeaders adds the retry-correlation headers: the request id of the
// original failed attempt, and the attempt number from attempt 2 onward.
func setRetryHeaders(request *Request, requestID string, attempt int) {
	if requestID != "" {
		request.Headers.Set(HeaderRetryFor, requestID)
	}
	if attempt > 1 {
		request.Headers.Set(HeaderRetryCount, strconv.Itoa(attempt))
	}
}

// bodyPosition captures the current position of a seekable body so retries
// can rewind to it. Non-seekable bodies are sent as-is.
func bodyPosition(body io.Reader) (io.Seeker, int64, error) {
	seeker, ok := body.(io.Seeker)
	if !ok {
		return nil, 0, nil
	}

	pos, err := seeker.Seek(0, io.SeekCurrent)
	if err != nil {
		return nil, 0, err
	}

	return seeker, pos, nil
}

func failedToRetry() *Error {
	return NewError("cannot retry request, next request will exceed retry configuration", nil, false, KindOther)
}

func wrapTransportErr(err error) error {
	var te *Error
	if errors.As(err, &te) {
		return te
	}
	return NewError("unable to execute HTTP request", err, false, ClassifyNetErr(err))
}

// sleepContext blocks for d or until the context is done. Cancellation
// surfaces as a non-retryable transport error wrapping ctx.Err().
func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return NewError("retry wait interrupted", ctx.Err(), false, KindOther)
	case <-timer.C:
		return nil
	}
}

func allDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

func minDuration(a, b time.Duration) time.Duration {
	if a < b {
		return a
	}
	return b
}
