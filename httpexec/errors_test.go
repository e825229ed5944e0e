package httpexec

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"os"
	"syscall"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

// timeoutErr implements net.Error with Timeout() == true, the shape the
// transport returns when waiting on response headers times out.
type timeoutErr struct{}

func (timeoutErr) Error() string   { return "timeout awaiting response headers" }
func (timeoutErr) Timeout() bool   { return true }
func (timeoutErr) Temporary() bool { return true }

func TestClassifyNetErr(t *testing.T) {
	t.Run("dial timeout", func(t *testing.T) {
		err := &net.OpError{Op: "dial", Net: "tcp", Err: os.ErrDeadlineExceeded}
		assert.Equal(t, KindConnectTimeout, ClassifyNetErr(err))
	})

	t.Run("dial refused", func(t *testing.T) {
		err := &net.OpError{Op: "dial", Net: "tcp", Err: syscall.ECONNREFUSED}
		assert.Equal(t, KindOtherSocket, ClassifyNetErr(err))
	})

	t.Run("read timeout", func(t *testing.T) {
		err := &net.OpError{Op: "read", Net: "tcp", Err: os.ErrDeadlineExceeded}
		assert.Equal(t, KindReadTimeout, ClassifyNetErr(err))
	})

	t.Run("connection reset", func(t *testing.T) {
		err := &net.OpError{Op: "read", Net: "tcp", Err: syscall.ECONNRESET}
		assert.Equal(t, KindOtherSocket, ClassifyNetErr(err))
	})

	t.Run("response header timeout", func(t *testing.T) {
		assert.Equal(t, KindReadTimeout, ClassifyNetErr(timeoutErr{}))
	})

	t.Run("no response", func(t *testing.T) {
		assert.Equal(t, KindNoResponse, ClassifyNetErr(io.EOF))
		assert.Equal(t, KindNoResponse, ClassifyNetErr(io.ErrUnexpectedEOF))
	})

	t.Run("wrapped socket error", func(t *testing.T) {
		err := fmt.Errorf("round trip: %w", &net.OpError{Op: "read", Net: "tcp", Err: syscall.EPIPE})
		assert.Equal(t, KindOtherSocket, ClassifyNetErr(err))
	})

	t.Run("context cancellation is never socket-level", func(t *testing.T) {
		assert.Equal(t, KindOther, ClassifyNetErr(context.Canceled))
		assert.Equal(t, KindOther, ClassifyNetErr(context.DeadlineExceeded))
		assert.Equal(t, KindOther, ClassifyNetErr(fmt.Errorf("wrapped: %w", context.Canceled)))
	})

	t.Run("unrelated error", func(t *testing.T) {
		assert.Equal(t, KindOther, ClassifyNetErr(errors.New("malformed URL")))
	})

	t.Run("nil", func(t *testing.T) {
		assert.Equal(t, KindOther, ClassifyNetErr(nil))
	})
}

func TestError(t *testing.T) {
	cause := errors.New("connection reset by peer")
	err := NewError("unable to execute HTTP request", cause, true, KindOtherSocket)

	assert.Equal(t, "unable to execute HTTP request: connection reset by peer", err.Error())
	assert.ErrorIs(t, err, cause)
	assert.True(t, IsRetryable(err))
	assert.Equal(t, KindOtherSocket, KindOf(err))

	t.Run("without cause", func(t *testing.T) {
		err := NewError("request cannot be nil", nil, false, KindOther)
		assert.Equal(t, "request cannot be nil", err.Error())
		assert.False(t, IsRetryable(err))
	})

	t.Run("wrapped transport error keeps its kind", func(t *testing.T) {
		inner := NewError("no response", io.EOF, true, KindNoResponse)
		outer := fmt.Errorf("attempt failed: %w", inner)
		assert.Equal(t, KindNoResponse, KindOf(outer))
		assert.True(t, IsRetryable(outer))
	})
}

func TestRetryableKind(t *testing.T) {
	assert.True(t, retryableKind(KindConnectTimeout))
	assert.True(t, retryableKind(KindReadTimeout))
	assert.True(t, retryableKind(KindNoResponse))
	assert.True(t, retryableKind(KindOtherSocket))
	assert.False(t, retryableKind(KindOther))
}

func TestDefaultDelay(t *testing.T) {
	assert.Equal(t, 600*time.Millisecond, defaultDelay(1))
	assert.Equal(t, 1200*time.Millisecond, defaultDelay(2))
	assert.Equal(t, 4800*time.Millisecond, defaultDelay(4))
	assert.Equal(t, 20*time.Second, defaultDelay(7))
	assert.Equal(t, 20*time.Second, defaultDelay(40))
	assert.Equal(t, 20*time.Second, defaultDelay(80))
}
