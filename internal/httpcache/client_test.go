package httpcache

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func memStore(t *testing.T) *Store {
	t.Helper()
	s, err := OpenMemory()
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestStore_SetGet(t *testing.T) {
	s := memStore(t)
	ctx := context.Background()

	require.NoError(t, s.Set(ctx, "http://example.com/a.json", []byte(`[1,2]`), time.Hour))

	body, ok := s.Get(ctx, "http://example.com/a.json")
	require.True(t, ok)
	assert.Equal(t, []byte(`[1,2]`), body)

	_, ok = s.Get(ctx, "http://example.com/missing.json")
	assert.False(t, ok)
}

func TestStore_Expiry(t *testing.T) {
	s := memStore(t)
	ctx := context.Background()

	require.NoError(t, s.Set(ctx, "k", []byte("v"), -time.Second))
	_, ok := s.Get(ctx, "k")
	assert.False(t, ok, "expired entry must miss")

	n, err := s.Prune(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
}

func TestStore_SetReplaces(t *testing.T) {
	s := memStore(t)
	ctx := context.Background()

	require.NoError(t, s.Set(ctx, "k", []byte("old"), time.Hour))
	require.NoError(t, s.Set(ctx, "k", []byte("new"), time.Hour))

	body, ok := s.Get(ctx, "k")
	require.True(t, ok)
	assert.Equal(t, []byte("new"), body)
}

func TestClient_GetCaches(t *testing.T) {
	calls := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		_, _ = w.Write([]byte(`[{"title":"A"}]`))
	}))
	defer server.Close()

	c := NewClient(memStore(t), time.Hour, testLogger())
	ctx := context.Background()

	body, err := c.Get(ctx, server.URL)
	require.NoError(t, err)
	assert.Equal(t, `[{"title":"A"}]`, string(body))

	_, err = c.Get(ctx, server.URL)
	require.NoError(t, err)
	assert.Equal(t, 1, calls, "second fetch must come from cache")
}

func TestClient_HeaderSuffix(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "token abc", r.Header.Get("Authorization"))
		assert.Equal(t, "custom-agent", r.Header.Get("User-Agent"))
		_, _ = w.Write([]byte(`{}`))
	}))
	defer server.Close()

	c := NewClient(nil, time.Hour, testLogger())
	_, err := c.Get(context.Background(), server.URL+"|Authorization=token abc&User-Agent=custom-agent")
	require.NoError(t, err)
}

func TestClient_HTTPError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer server.Close()

	c := NewClient(nil, time.Hour, testLogger())
	_, err := c.Get(context.Background(), server.URL)
	assert.ErrorContains(t, err, "HTTP 403")
}
