// Package store persists per-user catalogue state (favorites, reading
// lists, notes, saved searches, preferences) in a Badger database. Each
// collection lives under its own key prefix, mirroring the namespaced
// keys the original page used in browser storage.
package store

import (
	"encoding/json/v2"
	"errors"
	"fmt"
	"log/slog"

	"github.com/dgraph-io/badger/v4"

	apperrors "github.com/librisapp/libris-server/internal/errors"
)

// Key prefixes, one per collection.
const (
	favoritePrefix    = "fav:"
	readingListPrefix = "list:"
	notePrefix        = "note:"
	savedSearchPrefix = "search:"
	prefsKey          = "prefs:display"
)

// Store wraps a Badger database instance.
type Store struct {
	db     *badger.DB
	logger *slog.Logger
}

// New opens (or creates) the database at path.
func New(path string, logger *slog.Logger) (*Store, error) {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	opts := badger.DefaultOptions(path)
	opts.Logger = nil      // Badger's own logging is too chatty
	opts.SyncWrites = true // user data is small; durability over throughput

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open badger db: %w", err)
	}

	logger.Info("user-data database opened", "path", path)

	return &Store{db: db, logger: logger}, nil
}

// Close closes the database.
func (s *Store) Close() error {
	s.logger.Info("closing user-data database")
	return s.db.Close()
}

// set marshals value and stores it under key.
func (s *Store) set(key string, value any) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("marshal %s: %w", key, err)
	}
	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(key), data)
	})
}

// get unmarshals the value at key into dest. Returns ErrNotFound when the
// key is absent. A value that no longer deserializes is treated the same
// as an absent one — corrupt persisted state resets to empty rather than
// wedging the feature — and the broken entry is deleted.
func (s *Store) get(key string, dest any) error {
	var raw []byte
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(key))
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			raw = append([]byte(nil), val...)
			return nil
		})
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return apperrors.ErrNotFound
	}
	if err != nil {
		return err
	}

	if err := json.Unmarshal(raw, dest); err != nil {
		s.logger.Warn("corrupt stored value, resetting", "key", key, "error", err)
		_ = s.delete(key)
		return apperrors.ErrNotFound
	}
	return nil
}

// delete removes a key. Deleting an absent key is not an error.
func (s *Store) delete(key string) error {
	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Delete([]byte(key))
	})
}

// exists checks whether a key is present.
func (s *Store) exists(key string) (bool, error) {
	err := s.db.View(func(txn *badger.Txn) error {
		_, err := txn.Get([]byte(key))
		return err
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// listPrefix collects every value under a prefix, decoding each into a
// fresh T. Entries that fail to decode are skipped with a warning so one
// corrupt record never hides the rest of the collection.
func listPrefix[T any](s *Store, prefix string) ([]T, error) {
	var out []T

	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(prefix)

		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Rewind(); it.Valid(); it.Next() {
			item := it.Item()
			var entry T
			err := item.Value(func(val []byte) error {
				return json.Unmarshal(val, &entry)
			})
			if err != nil {
				s.logger.Warn("skipping corrupt stored entry",
					"key", string(item.Key()),
					"error", err,
				)
				continue
			}
			out = append(out, entry)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}
