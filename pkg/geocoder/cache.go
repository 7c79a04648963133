package geocoder

import (
	"errors"
	"fmt"
	"strings"

	"github.com/cockroachdb/pebble"
	"github.com/kelindar/binary"
)

// Cache is a pebble backed map from normalized query strings to geocode
// results. Nominatim rate limits aggressively, so every resolved query is
// kept across restarts.
type Cache struct {
	db *pebble.DB
}

func OpenCache(dir string) (*Cache, error) {
	db, err := pebble.Open(dir, &pebble.Options{})
	if err != nil {
		return nil, fmt.Errorf("open geocode cache: %w", err)
	}
	return &Cache{db: db}, nil
}

func cacheKey(query string) []byte {
	return []byte("geocode/" + strings.ToLower(strings.TrimSpace(query)))
}

func (c *Cache) Get(query string) (Result, bool) {
	val, closer, err := c.db.Get(cacheKey(query))
	if err != nil {
		if !errors.Is(err, pebble.ErrNotFound) {
			return Result{}, false
		}
		return Result{}, false
	}
	defer closer.Close()

	var result Result
	if err := binary.Unmarshal(val, &result); err != nil {
		return Result{}, false
	}
	return result, true
}

func (c *Cache) Put(query string, result Result) error {
	val, err := binary.Marshal(result)
	if err != nil {
		return fmt.Errorf("encode geocode result: %w", err)
	}
	return c.db.Set(cacheKey(query), val, pebble.Sync)
}

func (c *Cache) Close() error {
	return c.db.Close()
}
