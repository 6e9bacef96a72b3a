package cache

import (
	"context"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
)

// LRU keeps recently used payloads in memory in front of a backing store.
// Writes go through to the backing store.
type LRU struct {
	next  Store
	cache *expirable.LRU[string, string]
}

// NewLRU holds up to size bodies; a non-positive ttl never expires them.
func NewLRU(next Store, size int, ttl time.Duration) *LRU {
	return &LRU{next: next, cache: expirable.NewLRU[string, string](size, nil, ttl)}
}

func (l *LRU) Get(ctx context.Context, key string) (string, bool, error) {
	if body, ok := l.cache.Get(key); ok {
		return body, true, nil
	}
	body, ok, err := l.next.Get(ctx, key)
	if err != nil || !ok {
		return "", ok, err
	}
	l.cache.Add(key, body)
	return body, true, nil
}

func (l *LRU) Put(ctx context.Context, key, body string) error {
	if err := l.next.Put(ctx, key, body); err != nil {
		return err
	}
	l.cache.Add(key, body)
	return nil
}

func (l *LRU) Keys(ctx context.Context) ([]string, error) { return l.next.Keys(ctx) }

// Len is the number of bodies held in memory.
func (l *LRU) Len() int { return l.cache.Len() }

func (l *LRU) Close() error {
	l.cache.Purge()
	return l.next.Close()
}
