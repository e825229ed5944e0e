package httpexec

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestQueryStringOrderPreserved(t *testing.T) {
	q := NewQueryString()
	q.Add("zeta", "1")
	q.Add("alpha", "2")
	q.Add("zeta", "3")

	assert.Equal(t, "zeta=1&zeta=3&alpha=2", q.Encode())
	assert.Equal(t, 2, q.Len())
	assert.Equal(t, "1", q.Get("zeta"))
	assert.Equal(t, []string{"1", "3"}, q.Values("zeta"))
}

func TestQueryStringSet(t *testing.T) {
	q := NewQueryString()
	q.Add("limit", "5")
	q.Set("limit", "10")
	q.Set("after", "a")

	assert.Equal(t, "limit=10&after=a", q.Encode())
}

func TestQueryStringEncoding(t *testing.T) {
	q := NewQueryString()
	q.Add("q", "a b&c")
	q.Add("filter", `status eq "ACTIVE"`)

	assert.Equal(t, "q=a+b%26c&filter=status+eq+%22ACTIVE%22", q.Encode())
}

func TestQueryStringClone(t *testing.T) {
	q := NewQueryString()
	q.Add("limit", "5")

	c := q.Clone()
	c.Add("after", "x")
	c.Add("limit", "6")

	assert.Equal(t, "limit=5", q.Encode())
	assert.Equal(t, "limit=5&limit=6&after=x", c.Encode())
}

func TestQueryStringEmpty(t *testing.T) {
	q := NewQueryString()
	assert.Equal(t, "", q.Encode())
	assert.Equal(t, 0, q.Len())
	assert.Equal(t, "", q.Get("missing"))
}
