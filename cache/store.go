package cache

import (
	"context"
	"fmt"
	"sync"

	"github.com/klauspost/compress/zstd"

	"github.com/theoremus-urban-solutions/fleet-tracks/config"
)

// Store holds payload bodies by key.
type Store interface {
	// Get returns the body and whether it was found.
	Get(ctx context.Context, key string) (string, bool, error)
	Put(ctx context.Context, key, body string) error
	// Keys lists every stored key in no particular order.
	Keys(ctx context.Context) ([]string, error)
	Close() error
}

// CachedPeriods lists the ranges held by s, oldest first.
func CachedPeriods(ctx context.Context, s Store) ([]Period, error) {
	keys, err := s.Keys(ctx)
	if err != nil {
		return nil, err
	}
	return periodsFromKeys(keys), nil
}

var (
	codecOnce sync.Once
	encoder   *zstd.Encoder
	decoder   *zstd.Decoder
	codecErr  error
)

func codec() (*zstd.Encoder, *zstd.Decoder, error) {
	codecOnce.Do(func() {
		encoder, codecErr = zstd.NewWriter(nil)
		if codecErr != nil {
			return
		}
		decoder, codecErr = zstd.NewReader(nil)
	})
	return encoder, decoder, codecErr
}

func compress(body string) ([]byte, error) {
	enc, _, err := codec()
	if err != nil {
		return nil, err
	}
	return enc.EncodeAll([]byte(body), nil), nil
}

func decompress(data []byte) (string, error) {
	_, dec, err := codec()
	if err != nil {
		return "", err
	}
	out, err := dec.DecodeAll(data, nil)
	if err != nil {
		return "", fmt.Errorf("decompress payload: %w", err)
	}
	return string(out), nil
}

// NopStore caches nothing.
type NopStore struct{}

func (NopStore) Get(context.Context, string) (string, bool, error) { return "", false, nil }
func (NopStore) Put(context.Context, string, string) error         { return nil }
func (NopStore) Keys(context.Context) ([]string, error)            { return nil, nil }
func (NopStore) Close() error                                      { return nil }

// FromConfig opens the configured store, fronted by an LRU when lruSize is
// positive.
func FromConfig(cfg config.CacheConfig) (Store, error) {
	var s Store
	switch cfg.Kind {
	case "file", "":
		fs, err := NewFileStore(cfg.Dir, cfg.Compress)
		if err != nil {
			return nil, err
		}
		s = fs
	case "badger":
		bs, err := OpenBadgerStore(cfg.Dir, cfg.Compress)
		if err != nil {
			return nil, err
		}
		s = bs
	case "none":
		return NopStore{}, nil
	default:
		return nil, fmt.Errorf("unknown cache kind %q", cfg.Kind)
	}
	if cfg.LRUSize > 0 {
		s = NewLRU(s, cfg.LRUSize, 0)
	}
	return s, nil
}
