// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package cache

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFingerprint(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"", "0"},
		{"hello", "1n1e4y"},
		{"The quick brown fox jumps over the lazy dog", "a2u5rh"},
		{"量子计算", "is44dz"},
		// U+1F600 hashes as the surrogate pair D83D DE00.
		{"😀", "11zz7"},
		{"hi 😀", "1o4b1e"},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.want, Fingerprint(tt.input))
			assert.Equal(t, Fingerprint(tt.input), Fingerprint(tt.input))
		})
	}
	assert.NotEqual(t, Fingerprint("hello"), Fingerprint("hello "))
}

func TestCacheGetPut(t *testing.T) {
	store := NewMemoryStore(Quota{})
	c := New(store)

	_, ok := c.Get("hello")
	assert.False(t, ok)

	c.Put("hello", "你好")
	got, ok := c.Get("hello")
	require.True(t, ok)
	assert.Equal(t, "你好", got)

	// Entries are stored under the prefix with the raw translation as value.
	v, ok, err := store.Get("tr_1n1e4y")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "你好", v)
}

func TestCachePrePopulatedEntry(t *testing.T) {
	store := NewMemoryStore(Quota{})
	require.NoError(t, store.Set(DefaultPrefix+Fingerprint("hello"), "你好"))

	got, ok := New(store).Get("hello")
	require.True(t, ok)
	assert.Equal(t, "你好", got)
}

func TestCacheDelete(t *testing.T) {
	c := New(NewMemoryStore(Quota{}))
	c.Put("hello", "你好")
	c.Delete("hello")
	_, ok := c.Get("hello")
	assert.False(t, ok)

	// Deleting again is harmless.
	c.Delete("hello")
}

func TestCacheWithPrefix(t *testing.T) {
	store := NewMemoryStore(Quota{})
	c := New(store, WithPrefix("x:"))
	c.Put("hello", "你好")

	keys, err := store.Keys("x:")
	require.NoError(t, err)
	assert.Equal(t, []string{"x:1n1e4y"}, keys)
}

func TestCachePutQuotaEvictsOldestHalf(t *testing.T) {
	store := NewMemoryStore(Quota{MaxEntries: 6})
	// A foreign key shares the store but is never evicted by the cache.
	require.NoError(t, store.Set("settings", "{}"))

	c := New(store)
	for i := 0; i < 5; i++ {
		c.Put(fmt.Sprintf("text %d", i), fmt.Sprintf("译文 %d", i))
	}
	before, err := c.Len()
	require.NoError(t, err)
	require.Equal(t, 5, before)

	// Store is full: this write is rejected, triggers eviction, and is not retried.
	c.Put("text 5", "译文 5")

	after, err := c.Len()
	require.NoError(t, err)
	assert.LessOrEqual(t, after, before/2)

	for i := 0; i < 3; i++ {
		_, ok := c.Get(fmt.Sprintf("text %d", i))
		assert.False(t, ok, "oldest entry %d should be evicted", i)
	}
	for i := 3; i < 5; i++ {
		_, ok := c.Get(fmt.Sprintf("text %d", i))
		assert.True(t, ok, "newer entry %d should survive", i)
	}
	_, ok := c.Get("text 5")
	assert.False(t, ok, "rejected write is not retried")

	_, ok, _ = store.Get("settings")
	assert.True(t, ok)
}

type failingStore struct {
	*MemoryStore
	setErr error
	getErr error
}

func (f *failingStore) Set(key, value string) error {
	if f.setErr != nil {
		return f.setErr
	}
	return f.MemoryStore.Set(key, value)
}

func (f *failingStore) Get(key string) (string, bool, error) {
	if f.getErr != nil {
		return "", false, f.getErr
	}
	return f.MemoryStore.Get(key)
}

func TestCacheStoreErrorsAreSwallowed(t *testing.T) {
	store := &failingStore{MemoryStore: NewMemoryStore(Quota{}), setErr: errors.New("disk gone")}
	c := New(store)
	require.NoError(t, store.MemoryStore.Set(c.Key("a"), "A"))

	c.Put("b", "B")
	n, err := c.Len()
	require.NoError(t, err)
	assert.Equal(t, 1, n, "non-quota errors do not evict")

	store.getErr = errors.New("disk gone")
	_, ok := c.Get("a")
	assert.False(t, ok)
}

func TestCacheEvictHalfRoundsUp(t *testing.T) {
	c := New(NewMemoryStore(Quota{}))
	for i := 0; i < 5; i++ {
		c.Put(fmt.Sprintf("t%d", i), "x")
	}
	assert.Equal(t, 3, c.EvictHalf())
	n, _ := c.Len()
	assert.Equal(t, 2, n)
}

func TestCacheClear(t *testing.T) {
	c := New(NewMemoryStore(Quota{}))
	c.Put("a", "A")
	c.Put("b", "B")
	removed, err := c.Clear()
	require.NoError(t, err)
	assert.Equal(t, 2, removed)
	n, _ := c.Len()
	assert.Zero(t, n)
}

func TestMemoryStoreByteQuota(t *testing.T) {
	s := NewMemoryStore(Quota{MaxBytes: 10})
	require.NoError(t, s.Set("ab", "cdef"))
	assert.ErrorIs(t, s.Set("gh", "ijklm"), ErrQuotaExceeded)
	// Replacing an existing key only counts the difference.
	require.NoError(t, s.Set("ab", "cdefghij"))
	require.NoError(t, s.Delete("ab"))
	require.NoError(t, s.Set("gh", "ijklm"))
}
