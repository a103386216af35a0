package cache

import (
	"errors"
	"time"

	"github.com/goccy/go-json"
	"github.com/rs/zerolog"
)

// TTL classes for the catalog. Each class maps to how volatile the upstream
// data is: trending rotates slowly, search results churn, details are stable.
const (
	TTLTrending = 6 * time.Hour
	TTLDetail   = 24 * time.Hour
	TTLSearch   = 1 * time.Hour
	TTLGenre    = 12 * time.Hour
)

// keyVersion prefixes every stored key so the record format can evolve.
// Records written under an older prefix decode as misses.
const keyVersion = "v1:"

// ErrNotFound is returned by a Store when no record exists under a key.
var ErrNotFound = errors.New("cache: key not found")

// record is the envelope persisted for every cached value.
type record struct {
	CapturedAt int64           `json:"captured_at"`
	Payload    json.RawMessage `json:"payload"`
}

// Stats reports diagnostic counters for the underlying store.
type Stats struct {
	Count      int   `json:"count"`
	TotalBytes int64 `json:"total_bytes"`
}

// Store is the key-value backing for the cache. Implementations must treat
// keys as opaque and support prefix deletion.
type Store interface {
	Get(key string) ([]byte, error)
	Set(key string, value []byte) error
	DeletePrefix(prefix string) error
	Stats() (Stats, error)
}

// Cache layers TTL semantics and a JSON codec over a Store. A record is valid
// iff now - captured_at <= ttl. Malformed stored data is a miss, never an
// error: the caller always either gets a typed value or refetches.
type Cache struct {
	store Store
	log   zerolog.Logger
	now   func() time.Time
}

func New(store Store, log zerolog.Logger) *Cache {
	return &Cache{
		store: store,
		log:   log.With().Str("component", "cache").Logger(),
		now:   time.Now,
	}
}

// WithClock overrides the time source. Tests use this to advance past a TTL.
func (c *Cache) WithClock(now func() time.Time) *Cache {
	c.now = now
	return c
}

// load fetches and decodes the envelope under key. A missing, malformed, or
// (unless ignoreTTL) expired record is a miss.
func (c *Cache) load(key string, ttl time.Duration, ignoreTTL bool) (json.RawMessage, bool) {
	raw, err := c.store.Get(keyVersion + key)
	if err != nil {
		if !errors.Is(err, ErrNotFound) {
			c.log.Warn().Err(err).Str("key", key).Msg("cache read failed, treating as miss")
		}
		return nil, false
	}
	var rec record
	if err := json.Unmarshal(raw, &rec); err != nil || rec.Payload == nil {
		c.log.Warn().Str("key", key).Msg("cache record malformed, treating as miss")
		return nil, false
	}
	if !ignoreTTL && c.now().Sub(time.Unix(rec.CapturedAt, 0)) > ttl {
		return nil, false
	}
	return rec.Payload, true
}

// Get returns the payload stored under key if it is younger than ttl.
func Get[T any](c *Cache, key string, ttl time.Duration) (T, bool) {
	var out T
	payload, ok := c.load(key, ttl, false)
	if !ok {
		return out, false
	}
	if err := json.Unmarshal(payload, &out); err != nil {
		c.log.Warn().Err(err).Str("key", key).Msg("cache payload decode failed, treating as miss")
		var zero T
		return zero, false
	}
	return out, true
}

// GetStale returns the payload under key regardless of age. Callers use this
// as a degraded fallback when a refetch fails.
func GetStale[T any](c *Cache, key string) (T, bool) {
	var out T
	payload, ok := c.load(key, 0, true)
	if !ok {
		return out, false
	}
	if err := json.Unmarshal(payload, &out); err != nil {
		var zero T
		return zero, false
	}
	return out, true
}

// Set wholesale-replaces any record under key, stamping the current time.
func Set[T any](c *Cache, key string, value T) {
	payload, err := json.Marshal(value)
	if err != nil {
		c.log.Warn().Err(err).Str("key", key).Msg("cache encode failed, skipping write")
		return
	}
	rec := record{CapturedAt: c.now().Unix(), Payload: payload}
	raw, err := json.Marshal(rec)
	if err != nil {
		c.log.Warn().Err(err).Str("key", key).Msg("cache envelope encode failed")
		return
	}
	if err := c.store.Set(keyVersion+key, raw); err != nil {
		c.log.Warn().Err(err).Str("key", key).Msg("cache write failed")
	}
}

// Invalidate removes every record whose key starts with prefix.
func (c *Cache) Invalidate(prefix string) error {
	return c.store.DeletePrefix(keyVersion + prefix)
}

// Stats reports the store's diagnostic counters.
func (c *Cache) Stats() (Stats, error) {
	return c.store.Stats()
}
