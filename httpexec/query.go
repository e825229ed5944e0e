package httpexec

import (
	"net/url"
	"strings"
)

// QueryString is an ordered multimap of query parameters. Keys keep their
// insertion order when encoded, which makes retried requests byte-identical
// to the original.
type QueryString struct {
	keys   []string
	values map[string][]string
}

// NewQueryString creates an empty QueryString
func NewQueryString() *QueryString {
	return &QueryString{values: make(map[string][]string)}
}

// Add appends a value for the given key
func (q *QueryString) Add(key, value string) {
	if _, ok := q.values[key]; !ok {
		q.keys = append(q.keys, key)
	}
	q.values[key] = append(q.values[key], value)
}

// Set replaces the values for the given key with a single value
func (q *QueryString) Set(key, value string) {
	if _, ok := q.values[key]; !ok {
		q.keys = append(q.keys, key)
	}
	q.values[key] = []string{value}
}

// Get returns the first value for the given key, or ""
func (q *QueryString) Get(key string) string {
	values := q.values[key]
	if len(values) == 0 {
		return ""
	}
	return values[0]
}

// Values returns all values for the given key
func (q *QueryString) Values(key string) []string {
	return q.values[key]
}

// Len returns the number of distinct keys
func (q *QueryString) Len() int {
	return len(q.keys)
}

// Clone returns an independent deep copy preserving key order
func (q *QueryString) Clone() *QueryString {
	c := &QueryString{
		keys:   append([]string(nil), q.keys...),
		values: make(map[string][]string, len(q.values)),
	}
	for key, values := range q.values {
		c.values[key] = append([]string(nil), values...)
	}
	return c
}

// Encode renders the query string in canonical form: keys in insertion
// order, each value percent-encoded.
func (q *QueryString) Encode() string {
	var b strings.Builder
	for _, key := range q.keys {
		for _, value := range q.values[key] {
			if b.Len() > 0 {
				b.WriteByte('&')
			}
			b.WriteString(url.QueryEscape(key))
			b.WriteByte('=')
			b.WriteString(url.QueryEscape(value))
		}
	}
	return b.String()
}
