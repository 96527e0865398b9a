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

func TestDriver_Content(t *testing.T) {
	t.Parallel()

	t.Run("returns the body and caches it with metadata", func(t *testing.T) {
		t.Parallel()

		var gets atomic.Int32
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			gets.Add(1)
			w.Header().Set("Content-Type", "text/html; charset=utf-8")
			_, _ = w.Write([]byte("<html><body>Hello World</body></html>"))
		}))
		defer server.Close()

		d := cohttp.NewDriver(server.URL)

		first, err := d.Content(context.Background())
		require.NoError(t, err)
		second, err := d.Content(context.Background())
		require.NoError(t, err)
		meta, err := d.Metadata(context.Background())
		require.NoError(t, err)

		assert.Equal(t, "<html><body>Hello World</body></html>", string(first))
		assert.Equal(t, first, second)
		assert.Equal(t, int32(1), gets.Load())
		assert.Equal(t, 200, meta["status_code"])
		assert.Equal(t, "text/html; charset=utf-8", meta["content_type"])
		assert.Equal(t, int64(37), meta["content_length"])
		assert.Equal(t, server.URL, meta["url"])
	})

	t.Run("sends the user agent", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(r.UserAgent()))
		}))
		defer server.Close()

		body, err := cohttp.NewDriver(server.URL, cohttp.WithUserAgent("tester/2")).Content(context.Background())

		require.NoError(t, err)
		assert.Equal(t, "tester/2", string(body))
	})

	t.Run("records the final url after redirects", func(t *testing.T) {
		t.Parallel()

		mux := http.NewServeMux()
		mux.HandleFunc("/old", func(w http.ResponseWriter, r *http.Request) {
			http.Redirect(w, r, "/new", http.StatusFound)
		})
		mux.HandleFunc("/new", func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte("moved"))
		})
		server := httptest.NewServer(mux)
		defer server.Close()

		d := cohttp.NewDriver(server.URL + "/old")
		_, err := d.Content(context.Background())
		require.NoError(t, err)
		meta, err := d.Metadata(context.Background())
		require.NoError(t, err)

		assert.Equal(t, server.URL+"/new", meta["final_url"])
	})

	t.Run("stops after too many redirects", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.Redirect(w, r, r.URL.Path+"x", http.StatusFound)
		}))
		defer server.Close()

		_, err := cohttp.NewDriver(server.URL+"/", cohttp.WithMaxRedirects(2)).Content(context.Background())

		assert.Equal(t, contentobj.EUNAVAILABLE, contentobj.ErrorCode(err))
	})

	t.Run("error statuses are unavailable", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusNotFound)
		}))
		defer server.Close()

		_, err := cohttp.NewDriver(server.URL).Content(context.Background())

		require.Error(t, err)
		assert.Equal(t, contentobj.EUNAVAILABLE, contentobj.ErrorCode(err))
		assert.Contains(t, contentobj.ErrorMessage(err), "404")
	})

	t.Run("respects custom timeout option", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			time.Sleep(100 * time.Millisecond)
			_, _ = w.Write([]byte("late"))
		}))
		defer server.Close()

		_, err := cohttp.NewDriver(server.URL, cohttp.WithTimeout(10*time.Millisecond)).Content(context.Background())

		assert.Equal(t, contentobj.EUNAVAILABLE, contentobj.ErrorCode(err))
	})

	t.Run("respects context cancellation", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			time.Sleep(100 * time.Millisecond)
		}))
		defer server.Close()

		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		_, err := cohttp.NewDriver(server.URL).Content(ctx)

		require.Error(t, err)
	})

	t.Run("non-existent host is unavailable", func(t *testing.T) {
		t.Parallel()

		_, err := cohttp.NewDriver("http://non-existent-host.invalid/page", cohttp.WithTimeout(100*time.Millisecond)).Content(context.Background())

		assert.Equal(t, contentobj.EUNAVAILABLE, contentobj.ErrorCode(err))
	})
}

func TestDriver_Metadata(t *testing.T) {
	t.Parallel()

	t.Run("probes with HEAD before any fetch", func(t *testing.T) {
		t.Parallel()

		methods := make(chan string, 4)
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			methods <- r.Method
			w.Header().Set("Content-Type", "application/pdf")
		}))
		defer server.Close()

		meta, err := cohttp.NewDriver(server.URL).Metadata(context.Background())

		require.NoError(t, err)
		require.Len(t, methods, 1)
		assert.Equal(t, http.MethodHead, <-methods)
		assert.Equal(t, "application/pdf", meta["content_type"])
	})

	t.Run("clear cache forces a new fetch", func(t *testing.T) {
		t.Parallel()

		var gets atomic.Int32
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			gets.Add(1)
			_, _ = w.Write([]byte("body"))
		}))
		defer server.Close()

		d := cohttp.NewDriver(server.URL)
		_, err := d.Content(context.Background())
		require.NoError(t, err)
		d.ClearCache()
		_, err = d.Content(context.Background())
		require.NoError(t, err)

		assert.Equal(t, int32(2), gets.Load())
	})
}

func TestDriver_Available(t *testing.T) {
	t.Parallel()

	mux := http.NewServeMux()
	mux.HandleFunc("/ok", func(w http.ResponseWriter, r *http.Request) {})
	mux.HandleFunc("/gone", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusGone)
	})
	server := httptest.NewServer(mux)
	defer server.Close()

	assert.True(t, cohttp.NewDriver(server.URL+"/ok").Available(context.Background()))
	assert.False(t, cohttp.NewDriver(server.URL+"/gone").Available(context.Background()))
}

func TestDriver_Text(t *testing.T) {
	t.Parallel()

	t.Run("decodes using the declared charset", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "text/plain; charset=iso-8859-1")
			_, _ = w.Write([]byte("caf\xE9"))
		}))
		defer server.Close()

		text, err := cohttp.NewDriver(server.URL).Text(context.Background())

		require.NoError(t, err)
		assert.Equal(t, "café", text)
	})

	t.Run("honours an html meta charset", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "text/html")
			_, _ = w.Write([]byte("<html><head><meta charset=\"windows-1252\"></head><body>na\xEFve</body></html>"))
		}))
		defer server.Close()

		text, err := cohttp.NewDriver(server.URL).Text(context.Background())

		require.NoError(t, err)
		assert.Contains(t, text, "naïve")
	})
}

func TestCanHandle(t *testing.T) {
	t.Parallel()

	assert.True(t, cohttp.CanHandle("https://example.com/a"))
	assert.True(t, cohttp.CanHandle("http://localhost:8080"))
	assert.False(t, cohttp.CanHandle("ftp://example.com/a"))
	assert.False(t, cohttp.CanHandle("/tmp/file.html"))
	assert.False(t, cohttp.CanHandle([]byte("https://example.com")))
}
