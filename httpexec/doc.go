// Package httpexec turns a single abstract HTTP request into one or more
// network exchanges against an Okta org.
//
// Two executors compose by delegation:
//   - RetryExecutor wraps an inner executor with attempt accounting, a
//     wall-clock budget, exponential backoff, rate-limit honoring and
//     retry-correlation headers.
//   - TransportExecutor performs a single attempt: it authenticates the
//     request, submits it through a shared pooled transport and normalizes
//     the response (headers, gzip decoding, fully buffered body).
//
// Retries
//   - Responses with status 429, 503 or 504 are retried while the attempt
//     and elapsed-time budgets permit; once a budget is exhausted the last
//     response is returned unchanged, never converted to an error.
//   - Socket-level failures (connect timeout, read timeout, no response,
//     connection reset) are retried within budget; other errors surface
//     immediately.
//
// Backoff
//   - A 429 response with parseable X-Rate-Limit-Reset and Date headers
//     dictates the wait: reset time minus server time plus one second of
//     slack.
//   - Otherwise the default schedule is 2^attempt * 300ms capped at 20s,
//     unless a BackoffStrategy overrides it.
package httpexec
