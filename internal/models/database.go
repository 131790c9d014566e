package models

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/timshannon/bolthold"
	"go.etcd.io/bbolt"
)

// Preference is one key of the local preference store. Value holds raw JSON,
// usually an array such as the favorite actors list.
type Preference struct {
	Key       string `boltholdKey:"Key"`
	Value     json.RawMessage
	UpdatedAt time.Time
}

// Database wraps the bolthold store backing local preferences
type Database struct {
	store *bolthold.Store
}

// NewDatabase opens (or creates) the preference database at path
func NewDatabase(path string) (*Database, error) {
	store, err := bolthold.Open(path, 0600, &bolthold.Options{
		Encoder: json.Marshal,
		Decoder: json.Unmarshal,
		Options: &bbolt.Options{
			Timeout: 1 * time.Second,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	return &Database{store: store}, nil
}

// Close closes the database connection
func (db *Database) Close() error {
	return db.store.Close()
}

// LoadPreference decodes the value stored under key into dst.
// Returns false when the key has never been written.
func (db *Database) LoadPreference(ctx context.Context, key string, dst interface{}) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}

	var pref Preference
	err := db.store.Get(key, &pref)
	if errors.Is(err, bolthold.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to read preference %q: %w", key, err)
	}

	if err := json.Unmarshal(pref.Value, dst); err != nil {
		return false, fmt.Errorf("failed to decode preference %q: %w", key, err)
	}
	return true, nil
}

// SavePreference replaces the value stored under key
func (db *Database) SavePreference(ctx context.Context, key string, value interface{}) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to encode preference %q: %w", key, err)
	}

	pref := &Preference{
		Key:       key,
		Value:     data,
		UpdatedAt: time.Now(),
	}
	return db.store.Upsert(key, pref)
}

// DeletePreference removes key; deleting a missing key is not an error
func (db *Database) DeletePreference(ctx context.Context, key string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	err := db.store.Delete(key, &Preference{})
	if errors.Is(err, bolthold.ErrNotFound) {
		return nil
	}
	return err
}
