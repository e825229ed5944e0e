package httpexec

import "io"

// Request is the abstract, mutable HTTP request produced by the SDK layer.
// The executors mutate it during ExecuteRequest (authentication, retry
// headers) and restore headers and query between attempts; callers must not
// share one Request across concurrent calls.
type Request struct {
	// Method is the HTTP method
	Method string

	// Path is the resource path resolved against the client's base URL
	Path string

	// Query holds the query parameters
	Query *QueryString

	// Headers holds the request headers
	Headers *Headers

	// Body is the optional request body. A body that also implements
	// io.Seeker is rewound to its original position before each retry;
	// otherwise it is consumed once and retries send it as-is.
	Body io.Reader
}

// NewRequest creates a Request with empty query and headers
func NewRequest(method, path string) *Request {
	return &Request{
		Method:  method,
		Path:    path,
		Query:   NewQueryString(),
		Headers: NewHeaders(),
	}
}
