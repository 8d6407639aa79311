package api

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/dmitrijs2005/scholarscout/internal/client/storage/token"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, h http.HandlerFunc, stored string) (*Client, *token.MemoryStore) {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)

	store := token.NewMemoryStore(stored)
	c, err := New(srv.URL+"/api/v1/", store)
	require.NoError(t, err)
	return c, store
}

func TestNew_Validation(t *testing.T) {
	store := token.NewMemoryStore("")

	_, err := New("ftp://example.com", store)
	require.Error(t, err)

	_, err = New("://bad", store)
	require.Error(t, err)

	_, err = New("http://example.com", nil)
	require.Error(t, err)

	c, err := New("http://example.com/api/v1/", store)
	require.NoError(t, err)
	assert.Equal(t, "http://example.com/api/v1", c.BaseURL())
}

func TestDo_ResolvesPathAndAttachesStoredToken(t *testing.T) {
	var got *http.Request
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		got = r
		_, _ = io.WriteString(w, `{"id": 7, "email": "a@b.c"}`)
	}, "stored-token")

	var out struct {
		ID    int64  `json:"id"`
		Email string `json:"email"`
	}
	err := c.Do(context.Background(), Request{Path: "users/me"}, &out)
	require.NoError(t, err)

	assert.Equal(t, http.MethodGet, got.Method)
	assert.Equal(t, "/api/v1/users/me", got.URL.Path)
	assert.Equal(t, "Bearer stored-token", got.Header.Get("Authorization"))
	assert.Equal(t, "application/json", got.Header.Get("Accept"))
	assert.NotEmpty(t, got.Header.Get("X-Request-ID"))
	assert.Equal(t, int64(7), out.ID)
	assert.Equal(t, "a@b.c", out.Email)
}

func TestDo_NoTokenNoHeader(t *testing.T) {
	var auth string
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		auth = r.Header.Get("Authorization")
		w.WriteHeader(http.StatusNoContent)
	}, "")

	require.NoError(t, c.Do(context.Background(), Request{Path: "/ping"}, nil))
	assert.Empty(t, auth)
}

func TestDo_QueryAndJSONBody(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "x", r.URL.Query().Get("q"))
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "v", body["k"])
		w.WriteHeader(http.StatusCreated)
	}, "")

	err := c.Do(context.Background(), Request{
		Method: http.MethodPost,
		Path:   "/things",
		Query:  map[string][]string{"q": {"x"}},
		Body:   map[string]string{"k": "v"},
	}, nil)
	require.NoError(t, err)
}

func TestDo_FormTakesPrecedence(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "application/x-www-form-urlencoded", r.Header.Get("Content-Type"))
		require.NoError(t, r.ParseForm())
		assert.Equal(t, "user@example.com", r.PostForm.Get("username"))
		w.WriteHeader(http.StatusNoContent)
	}, "")

	err := c.Do(context.Background(), Request{
		Method: http.MethodPost,
		Path:   "/auth/login",
		Form:   map[string][]string{"username": {"user@example.com"}},
		Body:   map[string]string{"ignored": "yes"},
	}, nil)
	require.NoError(t, err)
}

func TestDo_RejectedStoredTokenIsCleared(t *testing.T) {
	for _, status := range []int{http.StatusUnauthorized, http.StatusForbidden} {
		c, store := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(status)
			_, _ = io.WriteString(w, `{"detail": "Could not validate credentials"}`)
		}, "stale")

		err := c.Do(context.Background(), Request{Path: "/users/me"}, nil)
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrUnauthenticated)
		assert.Equal(t, status, StatusCode(err))
		assert.Equal(t, "Could not validate credentials", Message(err))

		tok, _ := store.Token(context.Background())
		assert.Empty(t, tok, "status %d", status)
	}
}

func TestDo_RejectHook(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	t.Cleanup(srv.Close)

	calls := 0
	c, err := New(srv.URL, token.NewMemoryStore("stale"), WithRejectHook(func(context.Context) { calls++ }))
	require.NoError(t, err)

	_ = c.Do(context.Background(), Request{Path: "/users/me"}, nil)
	assert.Equal(t, 1, calls)

	_ = c.Do(context.Background(), Request{Path: "/users/me", Token: "override"}, nil)
	assert.Equal(t, 1, calls, "override tokens do not trigger the hook")
}

func TestDo_RejectedTokenOverrideKeepsStore(t *testing.T) {
	c, store := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer candidate", r.Header.Get("Authorization"))
		w.WriteHeader(http.StatusUnauthorized)
	}, "stored")

	err := c.Do(context.Background(), Request{Path: "/users/me", Token: "candidate"}, nil)
	require.ErrorIs(t, err, ErrUnauthenticated)
	assert.Equal(t, "not authenticated", Message(err))

	tok, _ := store.Token(context.Background())
	assert.Equal(t, "stored", tok)
}

func TestDo_StatusKinds(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		kind    error
		message string
	}{
		{"not found", 404, `{"detail": "Scholarship not found"}`, ErrNotFound, "Scholarship not found"},
		{"bad request", 400, `{"detail": "Email already registered"}`, ErrValidation, "Email already registered"},
		{"unprocessable", 422, `{"detail": [{"loc": ["body", "email"], "msg": "field required"}]}`, ErrValidation, "email: field required"},
		{"server", 500, ``, ErrServer, "request failed with status 500"},
		{"bad gateway", 502, `<html>oops</html>`, ErrServer, "request failed with status 502"},
		{"teapot", 418, `{"message": "short and stout"}`, ErrUnexpected, "short and stout"},
		{"not implemented", 501, `{"error": {"code": "NI", "message": "later"}}`, ErrNotImplemented, "later"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, store := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = io.WriteString(w, tt.body)
			}, "keep")

			err := c.Do(context.Background(), Request{Path: "/x"}, nil)
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.kind)
			assert.Equal(t, tt.status, StatusCode(err))
			assert.Equal(t, tt.message, Message(err))

			tok, _ := store.Token(context.Background())
			assert.Equal(t, "keep", tok)
		})
	}
}

func TestDo_NoContentLeavesOutUntouched(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}, "")

	out := map[string]string{"before": "yes"}
	require.NoError(t, c.Do(context.Background(), Request{Path: "/x"}, &out))
	assert.Equal(t, map[string]string{"before": "yes"}, out)
}

func TestDo_InvalidJSON(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `{not json`)
	}, "")

	var out map[string]any
	err := c.Do(context.Background(), Request{Path: "/x"}, &out)
	require.ErrorIs(t, err, ErrUnexpected)
	assert.Equal(t, "invalid response from server", Message(err))
}

func TestDo_NetworkError(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	store := token.NewMemoryStore("keep")
	c, err := New(url, store)
	require.NoError(t, err)

	err = c.Do(context.Background(), Request{Path: "/x"}, nil)
	require.ErrorIs(t, err, ErrNetwork)
	assert.Equal(t, 0, StatusCode(err))

	tok, _ := store.Token(context.Background())
	assert.Equal(t, "keep", tok)
}

func TestDo_ContextCancelled(t *testing.T) {
	release := make(chan struct{})
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}, "")
	defer close(release)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	err := c.Do(ctx, Request{Path: "/slow"}, nil)
	require.ErrorIs(t, err, ErrNetwork)
	assert.True(t, errors.Is(err, context.DeadlineExceeded))
}

func TestWithTimeout(t *testing.T) {
	c, err := New("http://example.com", token.NewMemoryStore(""), WithTimeout(3*time.Second))
	require.NoError(t, err)
	assert.Equal(t, 3*time.Second, c.http.Timeout)
}
