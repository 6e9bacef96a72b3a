package cache

import (
	"context"
	"errors"
	"fmt"

	badger "github.com/dgraph-io/badger/v4"
)

const payloadKeyPrefix = "payload:"

// BadgerStore keeps payloads in an embedded badger database.
type BadgerStore struct {
	db       *badger.DB
	compress bool
}

// OpenBadgerStore opens the database in dir; an empty dir keeps it in
// memory.
func OpenBadgerStore(dir string, compress bool) (*BadgerStore, error) {
	opts := badger.DefaultOptions(dir).WithLogger(nil)
	if dir == "" {
		opts = opts.WithInMemory(true)
	}
	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open badger: %w", err)
	}
	return NewBadgerStore(db, compress), nil
}

func NewBadgerStore(db *badger.DB, compress bool) *BadgerStore {
	return &BadgerStore{db: db, compress: compress}
}

func (b *BadgerStore) Get(_ context.Context, key string) (string, bool, error) {
	var data []byte
	err := b.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(payloadKeyPrefix + key))
		if err != nil {
			return err
		}
		data, err = item.ValueCopy(nil)
		return err
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("get payload: %w", err)
	}
	if !b.compress {
		return string(data), true, nil
	}
	body, err := decompress(data)
	if err != nil {
		return "", false, err
	}
	return body, true, nil
}

func (b *BadgerStore) Put(_ context.Context, key, body string) error {
	data := []byte(body)
	if b.compress {
		var err error
		if data, err = compress(body); err != nil {
			return err
		}
	}
	return b.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(payloadKeyPrefix+key), data)
	})
}

func (b *BadgerStore) Keys(context.Context) ([]string, error) {
	var keys []string
	err := b.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = false
		it := txn.NewIterator(opts)
		defer it.Close()

		prefix := []byte(payloadKeyPrefix)
		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			keys = append(keys, string(it.Item().Key()[len(prefix):]))
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("list payloads: %w", err)
	}
	return keys, nil
}

func (b *BadgerStore) Close() error { return b.db.Close() }
