package httpexec

import "bytes"

// Response is the normalized result of an attempt. The body is fully
// buffered before the Response is surfaced, so it can be read any number
// of times.
type Response struct {
	// Status is the HTTP status code
	Status int

	// MediaType is the value of the Content-Type header, or ""
	MediaType string

	// Headers holds all response headers
	Headers *Headers

	// ContentLength is the pre-decode length reported by the transport,
	// or -1 when unknown
	ContentLength int64

	body []byte
}

// NewResponse creates a Response over an already-buffered body
func NewResponse(status int, mediaType string, headers *Headers, body []byte, contentLength int64) *Response {
	if headers == nil {
		headers = NewHeaders()
	}
	return &Response{
		Status:        status,
		MediaType:     mediaType,
		Headers:       headers,
		ContentLength: contentLength,
		body:          body,
	}
}

// Body returns a fresh reader over the buffered body bytes. Each call
// starts at the beginning.
func (r *Response) Body() *bytes.Reader {
	return bytes.NewReader(r.body)
}

// BodyBytes returns the buffered body bytes without consuming them
func (r *Response) BodyBytes() []byte {
	return r.body
}

// HasBody reports whether the response carried a payload
func (r *Response) HasBody() bool {
	return len(r.body) > 0
}
