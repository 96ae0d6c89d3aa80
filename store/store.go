// Package store is the host application's database connection, backed by bbolt.
//
// Data lives in named buckets of raw key/value pairs. Scripts get the shared
// Connection from the locator; it is closed when the run ends.
package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	bolt "go.etcd.io/bbolt"
)

var (
	// ErrNotFound is returned when a key does not exist.
	ErrNotFound = errors.New("store: not found")

	// ErrClosed is returned for operations on a closed connection.
	ErrClosed = errors.New("store: connection closed")
)

// Connection wraps one open database file.
type Connection struct {
	db *bolt.DB
}

// Open opens (creating if needed) the database at path, waiting up to timeout
// for the file lock.
func Open(path string, timeout time.Duration) (*Connection, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("store: create dir: %w", err)
	}
	db, err := bolt.Open(path, 0o600, &bolt.Options{Timeout: timeout})
	if err != nil {
		return nil, fmt.Errorf("store: open %s: %w", path, err)
	}
	return &Connection{db: db}, nil
}

// Path returns the database file path.
func (c *Connection) Path() string {
	if c == nil || c.db == nil {
		return ""
	}
	return c.db.Path()
}

// Close releases the database file. Closing twice is a no-op.
func (c *Connection) Close() error {
	if c == nil || c.db == nil {
		return nil
	}
	err := c.db.Close()
	c.db = nil
	return err
}

func (c *Connection) ready() error {
	if c == nil || c.db == nil {
		return ErrClosed
	}
	return nil
}

// Put stores value under key in bucket, creating the bucket on first use.
func (c *Connection) Put(bucket, key string, value []byte) error {
	if err := c.ready(); err != nil {
		return err
	}
	return c.db.Update(func(tx *bolt.Tx) error {
		b, err := tx.CreateBucketIfNotExists([]byte(bucket))
		if err != nil {
			return err
		}
		return b.Put([]byte(key), value)
	})
}

// Get returns a copy of the value under key.
func (c *Connection) Get(bucket, key string) ([]byte, error) {
	if err := c.ready(); err != nil {
		return nil, err
	}
	var out []byte
	err := c.db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket([]byte(bucket))
		if b == nil {
			return ErrNotFound
		}
		v := b.Get([]byte(key))
		if v == nil {
			return ErrNotFound
		}
		out = append([]byte(nil), v...)
		return nil
	})
	return out, err
}

// Delete removes key. Missing keys and buckets are not an error.
func (c *Connection) Delete(bucket, key string) error {
	if err := c.ready(); err != nil {
		return err
	}
	return c.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket([]byte(bucket))
		if b == nil {
			return nil
		}
		return b.Delete([]byte(key))
	})
}

// ForEach calls fn for every pair in bucket in key order. Slices passed to fn
// are only valid during the call. A missing bucket yields no calls.
func (c *Connection) ForEach(bucket string, fn func(key string, value []byte) error) error {
	if err := c.ready(); err != nil {
		return err
	}
	return c.db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket([]byte(bucket))
		if b == nil {
			return nil
		}
		return b.ForEach(func(k, v []byte) error {
			return fn(string(k), v)
		})
	})
}

// Buckets lists bucket names in key order.
func (c *Connection) Buckets() ([]string, error) {
	if err := c.ready(); err != nil {
		return nil, err
	}
	var names []string
	err := c.db.View(func(tx *bolt.Tx) error {
		return tx.ForEach(func(name []byte, _ *bolt.Bucket) error {
			names = append(names, string(name))
			return nil
		})
	})
	return names, err
}

// PutJSON stores the JSON encoding of v.
func (c *Connection) PutJSON(bucket, key string, v any) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("store: encode %s/%s: %w", bucket, key, err)
	}
	return c.Put(bucket, key, raw)
}

// GetJSON decodes the value under key into v.
func (c *Connection) GetJSON(bucket, key string, v any) error {
	raw, err := c.Get(bucket, key)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(raw, v); err != nil {
		return fmt.Errorf("store: decode %s/%s: %w", bucket, key, err)
	}
	return nil
}
