// Package store is the on-device persistence layer: a string-keyed
// badger database holding the session and the serialized record
// collections. It is the fallback of record whenever the remote backend
// is unreachable.
package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/dgraph-io/badger/v4"
)

// Fixed keys. One namespace, five data keys plus two UI-state keys.
const (
	KeySession     = "sipola_user"
	KeyScreen      = "sipola_screen"
	KeyShift       = "sipola_shift"
	KeyCheckpoints = "sipola_checkpoints"
	KeyRollCalls   = "sipola_apel"
	KeyActivities  = "sipola_activities"
	KeyScans       = "sipola_scans"
)

type Store struct {
	db *badger.DB
}

// Open opens (creating if needed) the durable store at dir.
func Open(dir string) (*Store, error) {
	if dir == "" {
		return nil, errors.New("store: data directory is required")
	}
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return nil, fmt.Errorf("store: create data directory %s: %w", dir, err)
	}
	opts := badger.DefaultOptions(dir).
		WithSyncWrites(true).
		WithNumVersionsToKeep(1).
		WithLogger(nil)
	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("store: open %s: %w", dir, err)
	}
	return &Store{db: db}, nil
}

// OpenInMemory opens a throwaway store for tests.
func OpenInMemory() (*Store, error) {
	opts := badger.DefaultOptions("").WithInMemory(true).WithLogger(nil)
	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("store: open in-memory: %w", err)
	}
	return &Store{db: db}, nil
}

func (s *Store) Close() error { return s.db.Close() }

// Get returns the raw value for key. The second return reports whether
// the key was present.
func (s *Store) Get(key string) ([]byte, bool, error) {
	var val []byte
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(key))
		if err != nil {
			return err
		}
		val, err = item.ValueCopy(nil)
		return err
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("store: get %s: %w", key, err)
	}
	return val, true, nil
}

func (s *Store) Set(key string, val []byte) error {
	err := s.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(key), val)
	})
	if err != nil {
		return fmt.Errorf("store: set %s: %w", key, err)
	}
	return nil
}

func (s *Store) Remove(key string) error {
	err := s.db.Update(func(txn *badger.Txn) error {
		return txn.Delete([]byte(key))
	})
	if err != nil {
		return fmt.Errorf("store: remove %s: %w", key, err)
	}
	return nil
}

// GetJSON unmarshals the value at key into v. Missing keys leave v
// untouched and report false.
func (s *Store) GetJSON(key string, v any) (bool, error) {
	raw, ok, err := s.Get(key)
	if err != nil || !ok {
		return false, err
	}
	if err := json.Unmarshal(raw, v); err != nil {
		return false, fmt.Errorf("store: decode %s: %w", key, err)
	}
	return true, nil
}

// SetJSON replaces the value at key with the serialized form of v. Each
// call is one atomic replace.
func (s *Store) SetJSON(key string, v any) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("store: encode %s: %w", key, err)
	}
	return s.Set(key, raw)
}
