package memo

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"os"
	"sync"

	"golang.org/x/sync/singleflight"
)

// Cache memoizes values by a content-derived key. Entries never expire; a new
// key appears when any input changes. Concurrent Get calls for the same key
// share one computation. Errors are not cached.
type Cache[V any] struct {
	mu      sync.RWMutex
	entries map[string]V
	group   singleflight.Group
}

func New[V any]() *Cache[V] {
	return &Cache[V]{entries: map[string]V{}}
}

// Get returns the cached value for key or computes and stores it. hit reports
// whether the value came from the cache.
func (c *Cache[V]) Get(key string, compute func() (V, error)) (v V, hit bool, err error) {
	c.mu.RLock()
	v, ok := c.entries[key]
	c.mu.RUnlock()
	if ok {
		return v, true, nil
	}
	res, err, _ := c.group.Do(key, func() (any, error) {
		c.mu.RLock()
		v, ok := c.entries[key]
		c.mu.RUnlock()
		if ok {
			return v, nil
		}
		v, err := compute()
		if err != nil {
			return v, err
		}
		c.mu.Lock()
		c.entries[key] = v
		c.mu.Unlock()
		return v, nil
	})
	if err != nil {
		var zero V
		return zero, false, err
	}
	return res.(V), false, nil
}

// Len is the number of cached entries.
func (c *Cache[V]) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

// Fingerprint hashes the path and content of every file plus any extra
// strings. A missing file contributes its path and a marker, so the key still
// changes once the file appears.
func Fingerprint(paths []string, extra ...string) (string, error) {
	h := sha256.New()
	for _, p := range paths {
		fmt.Fprintf(h, "path:%s\x00", p)
		f, err := os.Open(p)
		if err != nil {
			if errors.Is(err, os.ErrNotExist) {
				io.WriteString(h, "missing\x00")
				continue
			}
			return "", err
		}
		_, err = io.Copy(h, f)
		f.Close()
		if err != nil {
			return "", err
		}
		io.WriteString(h, "\x00")
	}
	for _, e := range extra {
		fmt.Fprintf(h, "extra:%s\x00", e)
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}
