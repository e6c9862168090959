package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/dgraph-io/badger/v4"
)

const badgerKeyPrefix = "slot/"

// BadgerSlots stores slots as badger keys.
type BadgerSlots struct {
	db *badger.DB
}

// OpenBadgerSlots opens a badger database at path. An empty path opens an in-memory database.
func OpenBadgerSlots(path string) (*BadgerSlots, error) {
	opts := badger.DefaultOptions(path).WithLogger(nil)
	if path == "" {
		opts = opts.WithInMemory(true)
	}
	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open badger %q: %w", path, err)
	}
	return &BadgerSlots{db: db}, nil
}

func badgerKey(slot string) []byte {
	return []byte(badgerKeyPrefix + slot)
}

// Load reads the slot payload.
func (b *BadgerSlots) Load(_ context.Context, slot string) ([]byte, error) {
	var out []byte
	err := b.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(badgerKey(slot))
		if err != nil {
			if errors.Is(err, badger.ErrKeyNotFound) {
				return nil
			}
			return err
		}
		out, err = item.ValueCopy(nil)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("badger load %s: %w", slot, err)
	}
	return out, nil
}

// Store writes the slot payload.
func (b *BadgerSlots) Store(_ context.Context, slot string, data []byte) error {
	err := b.db.Update(func(txn *badger.Txn) error {
		return txn.Set(badgerKey(slot), data)
	})
	if err != nil {
		return fmt.Errorf("badger store %s: %w", slot, err)
	}
	return nil
}

// Remove deletes the given slots in one transaction.
func (b *BadgerSlots) Remove(_ context.Context, slots ...string) error {
	err := b.db.Update(func(txn *badger.Txn) error {
		for _, s := range slots {
			if err := txn.Delete(badgerKey(s)); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("badger remove: %w", err)
	}
	return nil
}

// Close closes the database.
func (b *BadgerSlots) Close() error {
	return b.db.Close()
}

var _ SlotBackend = (*BadgerSlots)(nil)
