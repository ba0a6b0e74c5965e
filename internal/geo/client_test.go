package geo

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func geocoderStub(t *testing.T, hits *atomic.Int64, body string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestGeocodeParsesFirstResult(t *testing.T) {
	var hits atomic.Int64
	srv := geocoderStub(t, &hits, `[{"lat":"40.7484","lon":"-73.9857"}]`)

	client := NewClient(srv.URL, nil)
	coords, err := client.Geocode(context.Background(), "350 5th Ave, New York")
	require.NoError(t, err)
	assert.InDelta(t, 40.7484, coords.Lat, 0.0001)
	assert.InDelta(t, -73.9857, coords.Lng, 0.0001)
}

func TestGeocodeNoMatch(t *testing.T) {
	var hits atomic.Int64
	srv := geocoderStub(t, &hits, `[]`)

	client := NewClient(srv.URL, nil)
	_, err := client.Geocode(context.Background(), "nowhere at all")
	assert.ErrorIs(t, err, ErrNoMatch)
}

func TestGeocodeEmptyAddressRejected(t *testing.T) {
	client := NewClient("http://unused", nil)
	_, err := client.Geocode(context.Background(), "   ")
	assert.Error(t, err)
}

func TestGeocodeUsesCacheOnSecondLookup(t *testing.T) {
	var hits atomic.Int64
	srv := geocoderStub(t, &hits, `[{"lat":"51.5007","lon":"-0.1246"}]`)

	mr := miniredis.RunT(t)
	cache := redis.NewClient(&redis.Options{Addr: mr.Addr()})

	client := NewClient(srv.URL, cache)
	ctx := context.Background()

	first, err := client.Geocode(ctx, "Westminster, London")
	require.NoError(t, err)
	second, err := client.Geocode(ctx, "Westminster, London")
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, int64(1), hits.Load(), "second lookup should come from cache")
}

func TestGeocodeUpstreamErrorNotCached(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	t.Cleanup(srv.Close)

	mr := miniredis.RunT(t)
	cache := redis.NewClient(&redis.Options{Addr: mr.Addr()})

	client := NewClient(srv.URL, cache)
	_, err := client.Geocode(context.Background(), "anywhere")
	require.Error(t, err)
	assert.Empty(t, mr.Keys())
}
