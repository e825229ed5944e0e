package httpexec

import (
	"net/http"
	"time"
)

// Wire header names read or written by this layer
const (
	// HeaderRequestID is the server-assigned correlation id of a response
	HeaderRequestID = "X-Okta-Request-Id"
	// HeaderClientRequestID is the client-generated id attached to outgoing requests
	HeaderClientRequestID = "X-Okta-Client-Request-Id"
	// HeaderRetryFor echoes the request id of the first failed attempt on retries
	HeaderRetryFor = "X-Okta-Retry-For"
	// HeaderRetryCount carries the attempt number from the second attempt onward
	HeaderRetryCount = "X-Okta-Retry-Count"
	// HeaderRateLimitReset is the epoch-seconds timestamp at which a rate limit resets
	HeaderRateLimitReset = "X-Rate-Limit-Reset"

	HeaderAuthorization   = "Authorization"
	HeaderContentEncoding = "Content-Encoding"
	HeaderContentType     = "Content-Type"
	HeaderDate            = "Date"
	HeaderLink            = "Link"
)

// Headers is a case-insensitive multimap of HTTP header names to values.
// Names are stored in canonical form.
type Headers struct {
	m map[string][]string
}

// NewHeaders creates an empty Headers
func NewHeaders() *Headers {
	return &Headers{m: make(map[string][]string)}
}

// Add appends a value to the named header
func (h *Headers) Add(name, value string) {
	key := http.CanonicalHeaderKey(name)
	h.m[key] = append(h.m[key], value)
}

// Set replaces the named header with a single value
func (h *Headers) Set(name, value string) {
	h.m[http.CanonicalHeaderKey(name)] = []string{value}
}

// SetValues replaces the named header with the given value list
func (h *Headers) SetValues(name string, values []string) {
	h.m[http.CanonicalHeaderKey(name)] = append([]string(nil), values...)
}

// Get returns the first value of the named header, or ""
func (h *Headers) Get(name string) string {
	values := h.m[http.CanonicalHeaderKey(name)]
	if len(values) == 0 {
		return ""
	}
	return values[0]
}

// Values returns all values of the named header
func (h *Headers) Values(name string) []string {
	return h.m[http.CanonicalHeaderKey(name)]
}

// Del removes the named header
func (h *Headers) Del(name string) {
	delete(h.m, http.CanonicalHeaderKey(name))
}

// Len returns the number of distinct header names
func (h *Headers) Len() int {
	return len(h.m)
}

// All exposes the underlying canonical-key map for iteration
func (h *Headers) All() map[string][]string {
	return h.m
}

// Clone returns an independent deep copy
func (h *Headers) Clone() *Headers {
	c := NewHeaders()
	for name, values := range h.m {
		c.m[name] = append([]string(nil), values...)
	}
	return c
}

// PutAll replaces this multimap's contents with a deep copy of other
func (h *Headers) PutAll(other *Headers) {
	h.m = make(map[string][]string, len(other.m))
	for name, values := range other.m {
		h.m[name] = append([]string(nil), values...)
	}
}

// Date parses the Date header as an HTTP date
func (h *Headers) Date() (time.Time, bool) {
	value := h.Get(HeaderDate)
	if value == "" {
		return time.Time{}, false
	}
	t, err := http.ParseTime(value)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

// ContentType returns the media type of the payload, or ""
func (h *Headers) ContentType() string {
	return h.Get(HeaderContentType)
}

// Link returns all Link header values as one logical list
func (h *Headers) Link() []string {
	return h.Values(HeaderLink)
}

// RequestID returns the first X-Okta-Request-Id value, or ""
func (h *Headers) RequestID() string {
	return h.Get(HeaderRequestID)
}
