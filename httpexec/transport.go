package httpexec

import (
	"compress/gzip"
	"context"
	"errors"
	"io"
	"net"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/oktakit/oktahttp/config"
	"github.com/oktakit/oktahttp/logger"
)

// TransportExecutor performs a single attempt: authenticate, build the wire
// request, submit it through the pooled transport and normalize the result.
// The transport and its connection pool are shared across all concurrent
// calls; redirects are never followed and cookies are never handled, so
// both stay visible to the retry layer and the caller.
type TransportExecutor struct {
	transport     *http.Transport
	authenticator RequestAuthenticator
	baseURL       *url.URL
	log           logger.Logger

	// timeout bounds each attempt end to end, body read included;
	// zero leaves attempts unbounded
	timeout time.Duration
}

var _ RequestExecutor = (*TransportExecutor)(nil)

// NewTransportExecutor builds the shared pooled transport from the client
// configuration. An inverted pool configuration (total below per-route)
// reverts both caps to their defaults with a warning.
func NewTransportExecutor(cfg *config.ClientConfig, authenticator RequestAuthenticator, log logger.Logger) (*TransportExecutor, error) {
	baseURL, err := url.Parse(cfg.OrgURL)
	if err != nil {
		return nil, NewError("invalid base URL: "+cfg.OrgURL, err, false, KindOther)
	}

	maxPerRoute := cfg.ConnPool.MaxPerRoute
	maxTotal := cfg.ConnPool.MaxTotal

	if maxTotal < maxPerRoute {
		log.Warn().
			Int("maxTotal", maxTotal).
			Int("maxPerRoute", maxPerRoute).
			Int("defaultMaxTotal", config.DefaultMaxConnectionsTotal).
			Int("defaultMaxPerRoute", config.DefaultMaxConnectionsPerRoute).
			Msg("connection pool maxTotal is less than maxPerRoute, reverting both to defaults")

		maxPerRoute = config.DefaultMaxConnectionsPerRoute
		maxTotal = config.DefaultMaxConnectionsTotal
	}

	// The connection timeout is configured in seconds; the transport wants
	// a duration. Zero leaves attempts unbounded.
	timeout := time.Duration(cfg.ConnectionTimeout) * time.Second

	transport := &http.Transport{
		DialContext: (&net.Dialer{
			Timeout: timeout,
		}).DialContext,
		ResponseHeaderTimeout: timeout,
		MaxConnsPerHost:       maxPerRoute,
		MaxIdleConns:          maxTotal,
		// gzip handling is explicit below so the caller's Accept-Encoding
		// survives untouched
		DisableCompression: true,
	}

	if cfg.Proxy != nil {
		proxyURL := &url.URL{
			Scheme: "http",
			Host:   net.JoinHostPort(cfg.Proxy.Host, strconv.Itoa(cfg.Proxy.Port)),
		}
		if cfg.Proxy.Username != "" {
			proxyURL.User = url.UserPassword(cfg.Proxy.Username, cfg.Proxy.Password)
		}
		transport.Proxy = http.ProxyURL(proxyURL)
	}

	return &TransportExecutor{
		transport:     transport,
		authenticator: authenticator,
		baseURL:       baseURL,
		log:           log,
		timeout:       timeout,
	}, nil
}

// ExecuteRequest performs one network exchange. Network failures come back
// as a transport error whose kind was classified once at this boundary.
func (t *TransportExecutor) ExecuteRequest(ctx context.Context, request *Request) (*Response, error) {
	if request == nil {
		return nil, NewError("request cannot be nil", nil, false, KindOther)
	}
	if request.Headers == nil {
		request.Headers = NewHeaders()
	}

	if err := t.authenticator.Authenticate(request); err != nil {
		return nil, wrapTransportErr(err)
	}

	if request.Headers.Get(HeaderClientRequestID) == "" {
		request.Headers.Set(HeaderClientRequestID, uuid.New().String())
	}

	// the per-attempt deadline covers the whole exchange, body read
	// included; the dial and response-header timeouts alone leave a
	// stalled body unbounded
	attemptCtx := ctx
	if t.timeout > 0 {
		var cancel context.CancelFunc
		attemptCtx, cancel = context.WithTimeout(ctx, t.timeout)
		defer cancel()
	}

	wireRequest, err := t.buildWireRequest(attemptCtx, request)
	if err != nil {
		return nil, NewError("unable to build HTTP request", err, false, KindOther)
	}

	httpResponse, err := t.transport.RoundTrip(wireRequest)
	if err != nil {
		kind := classifyAttemptErr(ctx, err)
		return nil, NewError("unable to execute HTTP request", err, retryableKind(kind), kind)
	}

	defer func() {
		// drain so the pool can reuse the connection; close failures are
		// swallowed
		io.Copy(io.Discard, httpResponse.Body)
		httpResponse.Body.Close()
	}()

	return t.toResponse(ctx, httpResponse)
}

// classifyAttemptErr classifies a transport error, upgrading a deadline hit
// on the per-attempt context to a read timeout: the caller's context is
// still live, so the stall was the server's, not a cancellation.
func classifyAttemptErr(callerCtx context.Context, err error) ErrorKind {
	kind := ClassifyNetErr(err)
	if kind == KindOther && errors.Is(err, context.DeadlineExceeded) && callerCtx.Err() == nil {
		return KindReadTimeout
	}
	return kind
}

// buildWireRequest maps the abstract request onto a concrete one: URL from
// base plus path plus canonically encoded query, headers copied verbatim.
func (t *TransportExecutor) buildWireRequest(ctx context.Context, request *Request) (*http.Request, error) {
	target := *t.baseURL
	target.Path = joinPath(t.baseURL.Path, request.Path)
	if request.Query != nil && request.Query.Len() > 0 {
		target.RawQuery = request.Query.Encode()
	}

	wireRequest, err := http.NewRequestWithContext(ctx, request.Method, target.String(), request.Body)
	if err != nil {
		return nil, err
	}

	for name, values := range request.Headers.All() {
		wireRequest.Header[name] = append([]string(nil), values...)
	}

	return wireRequest, nil
}

// toResponse normalizes the wire response: all headers copied, gzip bodies
// inflated, the body fully buffered, the request id and Link headers
// surfaced under their canonical keys.
func (t *TransportExecutor) toResponse(callerCtx context.Context, httpResponse *http.Response) (*Response, error) {
	headers := NewHeaders()
	for name, values := range httpResponse.Header {
		for _, value := range values {
			headers.Add(name, value)
		}
	}

	var body io.Reader = httpResponse.Body
	if gzipEncoded(headers.Values(HeaderContentEncoding)) {
		gzipReader, err := gzip.NewReader(httpResponse.Body)
		if err != nil {
			return nil, NewError("unable to decode gzip response body", err, false, KindOther)
		}
		defer gzipReader.Close()
		body = gzipReader
	}

	bodyBytes, err := io.ReadAll(body)
	if err != nil {
		kind := classifyAttemptErr(callerCtx, err)
		return nil, NewError("unable to read response body", err, retryableKind(kind), kind)
	}

	if requestID := headers.RequestID(); requestID != "" {
		headers.Set(HeaderRequestID, requestID)
	}
	if links := headers.Link(); len(links) > 0 {
		headers.SetValues(HeaderLink, links)
	}

	return &Response{
		Status:        httpResponse.StatusCode,
		MediaType:     headers.ContentType(),
		Headers:       headers,
		ContentLength: httpResponse.ContentLength,
		body:          bodyBytes,
	}, nil
}

// gzipEncoded reports whether any Content-Encoding value names gzip,
// tolerating comma-separated encoding lists.
func gzipEncoded(values []string) bool {
	for _, value := range values {
		for _, encoding := range strings.Split(value, ",") {
			if strings.EqualFold(strings.TrimSpace(encoding), "gzip") {
				return true
			}
		}
	}
	return false
}

func joinPath(base, path string) string {
	switch {
	case base == "":
		return path
	case path == "":
		return base
	}
	return strings.TrimSuffix(base, "/") + "/" + strings.TrimPrefix(path, "/")
}
