package http_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/fwojciec/contentobj"
	cohttp "github.com/fwojciec/contentobj/http"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHostLimiter(t *testing.T) {
	t.Parallel()

	t.Run("allows the first request immediately", func(t *testing.T) {
		t.Parallel()

		limiter := cohttp.NewHostLimiter(10)

		start := time.Now()
		err := limiter.Wait(context.Background(), "example.com")

		require.NoError(t, err)
		assert.Less(t, time.Since(start), 50*time.Millisecond)
	})

	t.Run("spaces requests to the same host", func(t *testing.T) {
		t.Parallel()

		limiter := cohttp.NewHostLimiter(10)
		require.NoError(t, limiter.Wait(context.Background(), "example.com"))

		start := time.Now()
		err := limiter.Wait(context.Background(), "example.com")

		require.NoError(t, err)
		assert.GreaterOrEqual(t, time.Since(start), 80*time.Millisecond)
	})

	t.Run("keeps hosts independent", func(t *testing.T) {
		t.Parallel()

		limiter := cohttp.NewHostLimiter(10)
		require.NoError(t, limiter.Wait(context.Background(), "example.com"))

		start := time.Now()
		err := limiter.Wait(context.Background(), "other.com")

		require.NoError(t, err)
		assert.Less(t, time.Since(start), 50*time.Millisecond)
	})

	t.Run("respects context cancellation", func(t *testing.T) {
		t.Parallel()

		limiter := cohttp.NewHostLimiter(1)
		require.NoError(t, limiter.Wait(context.Background(), "example.com"))

		ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
		defer cancel()

		assert.Error(t, limiter.Wait(ctx, "example.com"))
	})

	t.Run("does not limit without a rate", func(t *testing.T) {
		t.Parallel()

		limiter := cohttp.NewHostLimiter(0)
		for range 5 {
			require.NoError(t, limiter.Wait(context.Background(), "example.com"))
		}
	})
}

func TestBackoffDelays(t *testing.T) {
	t.Parallel()

	assert.Equal(t, []time.Duration{time.Second, 2 * time.Second, 4 * time.Second}, cohttp.BackoffDelays(3))
	assert.Empty(t, cohttp.BackoffDelays(0))
	assert.Empty(t, cohttp.BackoffDelays(-1))
}

func TestDriver_Retry(t *testing.T) {
	t.Parallel()

	t.Run("retries server errors until success", func(t *testing.T) {
		t.Parallel()

		var gets atomic.Int32
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if gets.Add(1) < 3 {
				w.WriteHeader(http.StatusServiceUnavailable)
				return
			}
			_, _ = w.Write([]byte("ok"))
		}))
		defer server.Close()

		d := cohttp.NewDriver(server.URL, cohttp.WithRetryDelays(time.Millisecond, time.Millisecond))

		body, err := d.Content(context.Background())

		require.NoError(t, err)
		assert.Equal(t, "ok", string(body))
		assert.Equal(t, int32(3), gets.Load())
	})

	t.Run("gives up after the last delay", func(t *testing.T) {
		t.Parallel()

		var gets atomic.Int32
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			gets.Add(1)
			w.WriteHeader(http.StatusTooManyRequests)
		}))
		defer server.Close()

		d := cohttp.NewDriver(server.URL, cohttp.WithRetryDelays(time.Millisecond))

		_, err := d.Content(context.Background())

		assert.Equal(t, contentobj.EUNAVAILABLE, contentobj.ErrorCode(err))
		assert.Equal(t, int32(2), gets.Load())
	})

	t.Run("does not retry client errors", func(t *testing.T) {
		t.Parallel()

		var gets atomic.Int32
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			gets.Add(1)
			http.NotFound(w, r)
		}))
		defer server.Close()

		d := cohttp.NewDriver(server.URL, cohttp.WithRetryDelays(time.Millisecond, time.Millisecond))

		_, err := d.Content(context.Background())

		assert.Equal(t, contentobj.EUNAVAILABLE, contentobj.ErrorCode(err))
		assert.Equal(t, int32(1), gets.Load())
	})

	t.Run("waits for the shared limiter", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte("ok"))
		}))
		defer server.Close()

		limiter := cohttp.NewHostLimiter(10)
		_, err := cohttp.NewDriver(server.URL, cohttp.WithLimiter(limiter)).Content(context.Background())
		require.NoError(t, err)

		start := time.Now()
		_, err = cohttp.NewDriver(server.URL+"/other", cohttp.WithLimiter(limiter)).Content(context.Background())

		require.NoError(t, err)
		assert.GreaterOrEqual(t, time.Since(start), 80*time.Millisecond)
	})
}
