package pokeapi

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"discoBot/internal/domain"
)

type mapCache struct {
	mu   sync.Mutex
	data map[string][]byte
	ttls map[string]time.Duration
}

func newMapCache() *mapCache {
	return &mapCache{data: map[string][]byte{}, ttls: map[string]time.Duration{}}
}

func (m *mapCache) Get(_ context.Context, key string) ([]byte, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.data[key]
	return v, ok
}

func (m *mapCache) Set(_ context.Context, key string, value []byte, ttl time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = value
	m.ttls[key] = ttl
}

func TestClient_Name(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		assert.Equal(t, "/api/v2/pokemon/", r.URL.Path)
		assert.Equal(t, "1", r.URL.Query().Get("limit"))
		assert.Equal(t, "24", r.URL.Query().Get("offset"))
		w.Write([]byte(`{"count":1302,"results":[{"name":"pikachu","url":"https://pokeapi.co/api/v2/pokemon/25/"}]}`))
	}))
	defer srv.Close()

	store := newMapCache()
	c := NewClient(srv.URL, srv.Client(), store, 360*time.Second)

	for i := 0; i < 3; i++ {
		name, err := c.Name(context.Background(), 25)
		require.NoError(t, err)
		assert.Equal(t, "pikachu", name)
	}

	assert.Equal(t, int32(1), hits.Load())
	require.Len(t, store.ttls, 1)
	for _, ttl := range store.ttls {
		assert.Equal(t, 360*time.Second, ttl)
	}
}

func TestClient_NameWithoutCache(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		w.Write([]byte(`{"results":[{"name":"bulbasaur"}]}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, srv.Client(), nil, 0)
	for i := 0; i < 2; i++ {
		name, err := c.Name(context.Background(), 1)
		require.NoError(t, err)
		assert.Equal(t, "bulbasaur", name)
	}
	assert.Equal(t, int32(2), hits.Load())
}

func TestClient_NameOutOfRange(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		w.Write([]byte(`{"count":1302,"results":[]}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, srv.Client(), newMapCache(), time.Minute)

	_, err := c.Name(context.Background(), 99999)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	for _, n := range []int{0, -3} {
		_, err := c.Name(context.Background(), n)
		assert.ErrorIs(t, err, domain.ErrNotFound)
	}
	assert.Equal(t, int32(1), hits.Load())
}

func TestClient_ErrorsAreNotCached(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if hits.Add(1) == 1 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		w.Write([]byte(`{"results":[{"name":"mew"}]}`))
	}))
	defer srv.Close()

	store := newMapCache()
	c := NewClient(srv.URL, srv.Client(), store, time.Minute)

	_, err := c.Name(context.Background(), 151)
	assert.ErrorIs(t, err, domain.ErrUpstream)
	assert.Empty(t, store.data)

	name, err := c.Name(context.Background(), 151)
	require.NoError(t, err)
	assert.Equal(t, "mew", name)
}

func TestClient_NameMalformed(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`<html>`))
	}))
	defer srv.Close()

	_, err := NewClient(srv.URL, srv.Client(), nil, 0).Name(context.Background(), 7)
	assert.ErrorIs(t, err, domain.ErrMalformedResponse)
}
