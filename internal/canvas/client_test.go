package canvas

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// noopSleep is a sleep function that returns immediately, for fast tests.
func noopSleep(_ context.Context, _ time.Duration) error {
	return nil
}

// failingToken is a test TokenSource that always returns an error.
type failingToken struct{}

func (failingToken) Token() (string, error) {
	return "", errors.New("token error")
}

// newTestClient creates a Client pointing at the given URL with instant
// retry sleeps for fast tests.
func newTestClient(t *testing.T, url string) *Client {
	t.Helper()

	c := NewClient(url, http.DefaultClient, StaticToken("test-token"), slog.Default())
	c.sleepFunc = noopSleep

	return c
}

func TestGetAttachesBearerToken(t *testing.T) {
	var gotAuth, gotAgent string

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotAgent = r.Header.Get("User-Agent")
		w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	c := newTestClient(t, srv.URL)

	resp, err := c.Get(context.Background(), "/courses", nil)
	require.NoError(t, err)
	resp.Body.Close()

	assert.Equal(t, "Bearer test-token", gotAuth)
	assert.Equal(t, userAgent, gotAgent)
}

func TestGetQueryParams(t *testing.T) {
	var gotQuery url.Values

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.Query()
		w.Write([]byte(`[]`))
	}))
	defer srv.Close()

	c := newTestClient(t, srv.URL)

	params := url.Values{
		"include[]": {"term"},
		"state[]":   {"all"},
	}

	resp, err := c.Get(context.Background(), "/courses", params)
	require.NoError(t, err)
	resp.Body.Close()

	assert.Equal(t, "term", gotQuery.Get("include[]"))
	assert.Equal(t, "all", gotQuery.Get("state[]"))
}

func TestGetAbsoluteURLBypassesBaseURL(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/files/42", r.URL.Path)
		w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	// Base URL points somewhere unreachable; the absolute URL must win.
	c := newTestClient(t, "http://127.0.0.1:1")

	resp, err := c.Get(context.Background(), srv.URL+"/files/42", nil)
	require.NoError(t, err)
	resp.Body.Close()
}

func TestGetClassifiesForbidden(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "unauthorized course", http.StatusForbidden)
	}))
	defer srv.Close()

	c := newTestClient(t, srv.URL)

	_, err := c.Get(context.Background(), "/courses/1/modules", nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrForbidden)

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusForbidden, apiErr.StatusCode)
	assert.Contains(t, apiErr.Message, "unauthorized course")
}

func TestGetDoesNotRetryForbidden(t *testing.T) {
	var calls atomic.Int32

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusForbidden)
	}))
	defer srv.Close()

	c := newTestClient(t, srv.URL)

	_, err := c.Get(context.Background(), "/courses/1/modules", nil)
	require.ErrorIs(t, err, ErrForbidden)
	assert.Equal(t, int32(1), calls.Load())
}

func TestGetRetriesServerError(t *testing.T) {
	var calls atomic.Int32

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		if calls.Add(1) < 3 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}

		w.Write([]byte(`"ok"`))
	}))
	defer srv.Close()

	c := newTestClient(t, srv.URL)

	resp, err := c.Get(context.Background(), "/courses", nil)
	require.NoError(t, err)

	body, err := io.ReadAll(resp.Body)
	resp.Body.Close()
	require.NoError(t, err)

	assert.Equal(t, `"ok"`, string(body))
	assert.Equal(t, int32(3), calls.Load())
}

func TestGetExhaustsRetries(t *testing.T) {
	var calls atomic.Int32

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	c := newTestClient(t, srv.URL)

	_, err := c.Get(context.Background(), "/courses", nil)
	require.ErrorIs(t, err, ErrServerError)
	assert.Equal(t, int32(maxRetries+1), calls.Load())
}

func TestGetHonorsRetryAfter(t *testing.T) {
	var calls atomic.Int32

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		if calls.Add(1) == 1 {
			w.Header().Set("Retry-After", "3")
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}

		w.Write([]byte(`[]`))
	}))
	defer srv.Close()

	c := newTestClient(t, srv.URL)

	var slept time.Duration
	c.sleepFunc = func(_ context.Context, d time.Duration) error {
		slept = d
		return nil
	}

	resp, err := c.Get(context.Background(), "/courses", nil)
	require.NoError(t, err)
	resp.Body.Close()

	assert.Equal(t, 3*time.Second, slept)
}

func TestGetTokenFailure(t *testing.T) {
	c := NewClient("http://unused", http.DefaultClient, failingToken{}, slog.Default())
	c.sleepFunc = noopSleep

	_, err := c.Get(context.Background(), "/courses", nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "token error")
}

func TestGetCanceledContext(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte(`[]`))
	}))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	c := newTestClient(t, srv.URL)

	_, err := c.Get(ctx, "/courses", nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
}
