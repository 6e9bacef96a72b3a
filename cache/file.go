package cache

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

const (
	textExt = ".txt"
	zstdExt = ".txt.zst"
)

// FileStore keeps one file per key in a directory.
type FileStore struct {
	dir      string
	compress bool
}

func NewFileStore(dir string, compress bool) (*FileStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create cache dir: %w", err)
	}
	return &FileStore{dir: dir, compress: compress}, nil
}

func (f *FileStore) path(key string, compressed bool) string {
	if compressed {
		return filepath.Join(f.dir, key+zstdExt)
	}
	return filepath.Join(f.dir, key+textExt)
}

func (f *FileStore) Get(_ context.Context, key string) (string, bool, error) {
	if _, ok := ParseKey(key); !ok {
		return "", false, fmt.Errorf("invalid cache key %q", key)
	}
	// entries written under either setting stay readable
	for _, compressed := range []bool{f.compress, !f.compress} {
		data, err := os.ReadFile(f.path(key, compressed))
		if errors.Is(err, os.ErrNotExist) {
			continue
		}
		if err != nil {
			return "", false, err
		}
		if !compressed {
			return string(data), true, nil
		}
		body, err := decompress(data)
		if err != nil {
			return "", false, err
		}
		return body, true, nil
	}
	return "", false, nil
}

func (f *FileStore) Put(_ context.Context, key, body string) error {
	if _, ok := ParseKey(key); !ok {
		return fmt.Errorf("invalid cache key %q", key)
	}
	data := []byte(body)
	if f.compress {
		var err error
		if data, err = compress(body); err != nil {
			return err
		}
	}
	path := f.path(key, f.compress)
	tmp, err := os.CreateTemp(f.dir, ".payload-*")
	if err != nil {
		return err
	}
	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmp.Name())
		return err
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmp.Name())
		return err
	}
	return os.Rename(tmp.Name(), path)
}

func (f *FileStore) Keys(context.Context) ([]string, error) {
	entries, err := os.ReadDir(f.dir)
	if err != nil {
		return nil, err
	}
	seen := map[string]bool{}
	var keys []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		name := e.Name()
		switch {
		case strings.HasSuffix(name, zstdExt):
			name = strings.TrimSuffix(name, zstdExt)
		case strings.HasSuffix(name, textExt):
			name = strings.TrimSuffix(name, textExt)
		default:
			continue
		}
		if !seen[name] {
			seen[name] = true
			keys = append(keys, name)
		}
	}
	return keys, nil
}

func (f *FileStore) Close() error { return nil }
