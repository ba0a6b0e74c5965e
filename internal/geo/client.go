package geo

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/singleflight"
)

// ErrNoMatch is returned when the geocoder finds nothing for an address.
var ErrNoMatch = errors.New("geo: no match for address")

// Coordinates is a geocoded point.
type Coordinates struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// Geocoder resolves a free-text address to coordinates.
type Geocoder interface {
	Geocode(ctx context.Context, address string) (Coordinates, error)
}

const cacheTTL = 24 * time.Hour

// Client talks to a Nominatim-style geocoding HTTP service. Concurrent
// lookups for the same address collapse into one upstream request, and
// successful results are cached in Redis.
type Client struct {
	baseURL    string
	httpClient *http.Client
	cache      *redis.Client
	group      singleflight.Group
}

// NewClient constructs a new client. cache may be nil to skip caching.
func NewClient(baseURL string, cache *redis.Client) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
		cache: cache,
	}
}

// Geocode resolves an address to coordinates.
func (c *Client) Geocode(ctx context.Context, address string) (Coordinates, error) {
	address = strings.TrimSpace(address)
	if address == "" {
		return Coordinates{}, fmt.Errorf("geo: empty address")
	}
	key := cacheKey(address)
	if c.cache != nil {
		if coords, ok := c.cached(ctx, key); ok {
			return coords, nil
		}
	}
	v, err, _ := c.group.Do(key, func() (any, error) {
		coords, err := c.lookup(ctx, address)
		if err != nil {
			return Coordinates{}, err
		}
		if c.cache != nil {
			if payload, err := json.Marshal(coords); err == nil {
				c.cache.Set(ctx, key, payload, cacheTTL)
			}
		}
		return coords, nil
	})
	if err != nil {
		return Coordinates{}, err
	}
	return v.(Coordinates), nil
}

func (c *Client) cached(ctx context.Context, key string) (Coordinates, bool) {
	payload, err := c.cache.Get(ctx, key).Bytes()
	if err != nil {
		return Coordinates{}, false
	}
	var coords Coordinates
	if err := json.Unmarshal(payload, &coords); err != nil {
		return Coordinates{}, false
	}
	return coords, true
}

func (c *Client) lookup(ctx context.Context, address string) (Coordinates, error) {
	endpoint := fmt.Sprintf("%s/search?format=json&limit=1&q=%s", c.baseURL, url.QueryEscape(address))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return Coordinates{}, err
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return Coordinates{}, err
	}
	defer func() {
		_ = resp.Body.Close()
	}()
	if resp.StatusCode >= 400 {
		return Coordinates{}, fmt.Errorf("geocoder returned status %d", resp.StatusCode)
	}
	var results []struct {
		Lat string `json:"lat"`
		Lon string `json:"lon"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&results); err != nil {
		return Coordinates{}, err
	}
	if len(results) == 0 {
		return Coordinates{}, ErrNoMatch
	}
	lat, err := strconv.ParseFloat(results[0].Lat, 64)
	if err != nil {
		return Coordinates{}, fmt.Errorf("geocoder returned bad latitude %q", results[0].Lat)
	}
	lng, err := strconv.ParseFloat(results[0].Lon, 64)
	if err != nil {
		return Coordinates{}, fmt.Errorf("geocoder returned bad longitude %q", results[0].Lon)
	}
	return Coordinates{Lat: lat, Lng: lng}, nil
}

func cacheKey(address string) string {
	return "haven:geo:" + strings.ToLower(address)
}
