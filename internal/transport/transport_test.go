package transport

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func testClient(token string) *Client {
	return New(Options{
		Token:          token,
		MaxRetries:     2,
		InitialBackoff: time.Millisecond,
	}, zap.NewNop())
}

func TestClientGet(t *testing.T) {
	t.Run("success returns body", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{"ok":true}`))
		}))
		defer srv.Close()

		body, err := testClient("tok").Get(context.Background(), srv.URL)
		require.NoError(t, err)
		assert.JSONEq(t, `{"ok":true}`, string(body))
	})

	t.Run("bearer token and accept header are sent", func(t *testing.T) {
		var gotAuth, gotAccept string
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			gotAuth = r.Header.Get("Authorization")
			gotAccept = r.Header.Get("Accept")
			w.Write([]byte(`{}`))
		}))
		defer srv.Close()

		_, err := testClient("session-token").Get(context.Background(), srv.URL)
		require.NoError(t, err)

		assert.Equal(t, "Bearer session-token", gotAuth)
		assert.Equal(t, "application/json", gotAccept)
	})

	t.Run("transient 503 is retried until success", func(t *testing.T) {
		var calls atomic.Int32
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if calls.Add(1) <= 2 {
				w.WriteHeader(http.StatusServiceUnavailable)
				return
			}
			w.Write([]byte(`{}`))
		}))
		defer srv.Close()

		_, err := testClient("tok").Get(context.Background(), srv.URL)
		require.NoError(t, err)
		assert.Equal(t, int32(3), calls.Load())
	})

	t.Run("retries exhausted surfaces the status error", func(t *testing.T) {
		var calls atomic.Int32
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			calls.Add(1)
			w.WriteHeader(http.StatusBadGateway)
		}))
		defer srv.Close()

		_, err := testClient("tok").Get(context.Background(), srv.URL)

		var statusErr *StatusError
		require.ErrorAs(t, err, &statusErr)
		assert.Equal(t, http.StatusBadGateway, statusErr.StatusCode)
		// 1 initial attempt + 2 retries
		assert.Equal(t, int32(3), calls.Load())
	})

	t.Run("404 is not retried", func(t *testing.T) {
		var calls atomic.Int32
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			calls.Add(1)
			w.WriteHeader(http.StatusNotFound)
		}))
		defer srv.Close()

		_, err := testClient("tok").Get(context.Background(), srv.URL)

		var statusErr *StatusError
		require.ErrorAs(t, err, &statusErr)
		assert.Equal(t, http.StatusNotFound, statusErr.StatusCode)
		assert.Equal(t, int32(1), calls.Load())
	})

	t.Run("401 maps to ErrAuth without retry", func(t *testing.T) {
		var calls atomic.Int32
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			calls.Add(1)
			w.WriteHeader(http.StatusUnauthorized)
		}))
		defer srv.Close()

		_, err := testClient("stale").Get(context.Background(), srv.URL)

		assert.ErrorIs(t, err, ErrAuth)
		assert.Equal(t, int32(1), calls.Load())
	})

	t.Run("403 maps to ErrAuth", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusForbidden)
		}))
		defer srv.Close()

		_, err := testClient("stale").Get(context.Background(), srv.URL)
		assert.ErrorIs(t, err, ErrAuth)
	})

	t.Run("cancelled context stops retrying", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusServiceUnavailable)
		}))
		defer srv.Close()

		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		_, err := testClient("tok").Get(ctx, srv.URL)
		assert.Error(t, err)
	})
}

func TestAPI(t *testing.T) {
	t.Run("describe object hits the versioned endpoint", func(t *testing.T) {
		var gotPath string
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			gotPath = r.URL.Path
			w.Write([]byte(`{"name": "Contact", "fields": []}`))
		}))
		defer srv.Close()

		api := &API{client: testClient("tok"), baseURL: srv.URL, version: "v60.0"}

		desc, err := api.DescribeObject(context.Background(), "Contact")
		require.NoError(t, err)

		assert.Equal(t, "/services/data/v60.0/sobjects/Contact/describe", gotPath)
		assert.Equal(t, "Contact", desc.Name)
	})

	t.Run("list objects hits the catalog endpoint", func(t *testing.T) {
		var gotPath string
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			gotPath = r.URL.Path
			w.Write([]byte(`{"sobjects": [{"name": "Account"}]}`))
		}))
		defer srv.Close()

		api := &API{client: testClient("tok"), baseURL: srv.URL, version: "v60.0"}

		list, err := api.ListObjects(context.Background())
		require.NoError(t, err)

		assert.Equal(t, "/services/data/v60.0/sobjects/", gotPath)
		require.Len(t, list.Sobjects, 1)
	})

	t.Run("NewAPI builds an https base URL", func(t *testing.T) {
		api := NewAPI(testClient("tok"), "acme.my.salesforce.com", "v60.0")
		assert.Equal(t, "https://acme.my.salesforce.com", api.baseURL)
	})
}
