// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package cache stores translations keyed by a fingerprint of the source
// text. Entries live under a fixed key prefix inside a shared Store whose
// capacity is owned by the host; when a write hits the quota the oldest half
// of the cache is evicted.
//
// Fingerprints are 32-bit, so two texts can collide and one would be served
// the other's translation. That risk is accepted; no verification is stored.
package cache

import (
	"errors"
	"strconv"
	"unicode/utf16"

	"github.com/rs/zerolog"
)

// DefaultPrefix namespaces cache keys in the store.
const DefaultPrefix = "tr_"

// Fingerprint returns a short digest of text: a 31-multiplier rolling hash
// over the text's UTF-16 code units with 32-bit wraparound, rendered in
// base 36. Characters outside the Basic Multilingual Plane count as their
// two surrogates. It depends on the text only, never on languages or
// providers.
func Fingerprint(text string) string {
	var h int32
	for _, u := range utf16.Encode([]rune(text)) {
		h = h*31 + int32(u)
	}
	n := int64(h)
	if n < 0 {
		n = -n
	}
	return strconv.FormatInt(n, 36)
}

// Cache maps source text to its translation.
type Cache struct {
	store  Store
	prefix string
	log    zerolog.Logger
}

// Option configures a Cache.
type Option func(*Cache)

// WithPrefix overrides DefaultPrefix.
func WithPrefix(prefix string) Option {
	return func(c *Cache) {
		if prefix != "" {
			c.prefix = prefix
		}
	}
}

// WithLogger sets the diagnostic logger.
func WithLogger(log zerolog.Logger) Option {
	return func(c *Cache) { c.log = log }
}

// New returns a Cache over store.
func New(store Store, opts ...Option) *Cache {
	c := &Cache{
		store:  store,
		prefix: DefaultPrefix,
		log:    zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Key returns the store key for text.
func (c *Cache) Key(text string) string {
	return c.prefix + Fingerprint(text)
}

// Get returns the cached translation of text. Store errors count as a miss.
func (c *Cache) Get(text string) (string, bool) {
	v, ok, err := c.store.Get(c.Key(text))
	if err != nil {
		c.log.Warn().Err(err).Msg("cache read failed")
		return "", false
	}
	return v, ok
}

// Put stores the translation of text. If the store is full the oldest half
// of the cache is evicted and the write is dropped; Put never fails.
func (c *Cache) Put(text, translation string) {
	key := c.Key(text)
	err := c.store.Set(key, translation)
	switch {
	case err == nil:
	case errors.Is(err, ErrQuotaExceeded):
		evicted := c.EvictHalf()
		c.log.Warn().Str("key", key).Int("evicted", evicted).Msg("cache full, evicted oldest half")
	default:
		c.log.Warn().Err(err).Str("key", key).Msg("cache write failed")
	}
}

// Delete removes the entry for text, if any.
func (c *Cache) Delete(text string) {
	if err := c.store.Delete(c.Key(text)); err != nil {
		c.log.Warn().Err(err).Msg("cache delete failed")
	}
}

// EvictHalf removes the oldest half (rounded up) of the cache entries by
// store enumeration order, not by access recency. It returns the number of
// entries removed.
func (c *Cache) EvictHalf() int {
	keys, err := c.store.Keys(c.prefix)
	if err != nil {
		c.log.Warn().Err(err).Msg("cache enumerate failed")
		return 0
	}
	return c.deleteKeys(keys[:(len(keys)+1)/2])
}

// Len returns the number of cache entries.
func (c *Cache) Len() (int, error) {
	keys, err := c.store.Keys(c.prefix)
	return len(keys), err
}

// Clear removes every cache entry and returns how many were removed.
func (c *Cache) Clear() (int, error) {
	keys, err := c.store.Keys(c.prefix)
	if err != nil {
		return 0, err
	}
	return c.deleteKeys(keys), nil
}

func (c *Cache) deleteKeys(keys []string) int {
	removed := 0
	for _, k := range keys {
		if err := c.store.Delete(k); err != nil {
			c.log.Warn().Err(err).Str("key", k).Msg("cache evict failed")
			continue
		}
		removed++
	}
	return removed
}
