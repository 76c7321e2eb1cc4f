// Package media stores uploaded blobs (progress photos, voice notes) and
// mints time-limited signed URLs for them.
package media

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	bolt "go.etcd.io/bbolt"
)

// Bucket names
var (
	BlobsBucket = []byte("blobs") // raw bytes by key
	MetaBucket  = []byte("meta")  // JSON Meta by key
)

// ErrNotFound is returned for unknown keys.
var ErrNotFound = errors.New("media: not found")

// Meta describes a stored blob.
type Meta struct {
	ContentType string    `json:"content_type"`
	Size        int       `json:"size"`
	Created     time.Time `json:"created"`
}

// Store provides BBolt-based blob storage.
type Store struct {
	db *bolt.DB
}

// Open opens or creates the media database and its buckets.
func Open(path string) (*Store, error) {
	db, err := bolt.Open(path, 0o600, &bolt.Options{Timeout: 2 * time.Second})
	if err != nil {
		return nil, fmt.Errorf("open media store: %w", err)
	}
	err = db.Update(func(tx *bolt.Tx) error {
		for _, b := range [][]byte{BlobsBucket, MetaBucket} {
			if _, err := tx.CreateBucketIfNotExists(b); err != nil {
				return fmt.Errorf("create bucket %s: %w", b, err)
			}
		}
		return nil
	})
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	return &Store{db: db}, nil
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}

// Put stores data under key, replacing any previous blob.
func (s *Store) Put(key, contentType string, data []byte) error {
	if key == "" {
		return errors.New("media: empty key")
	}
	meta, err := json.Marshal(Meta{ContentType: contentType, Size: len(data), Created: time.Now().UTC()})
	if err != nil {
		return err
	}
	return s.db.Update(func(tx *bolt.Tx) error {
		if err := tx.Bucket(BlobsBucket).Put([]byte(key), data); err != nil {
			return err
		}
		return tx.Bucket(MetaBucket).Put([]byte(key), meta)
	})
}

// Get returns a copy of the blob and its metadata.
func (s *Store) Get(key string) ([]byte, Meta, error) {
	var data []byte
	var meta Meta
	err := s.db.View(func(tx *bolt.Tx) error {
		raw := tx.Bucket(BlobsBucket).Get([]byte(key))
		if raw == nil {
			return ErrNotFound
		}
		// bbolt memory is only valid inside the transaction
		data = append([]byte(nil), raw...)
		if m := tx.Bucket(MetaBucket).Get([]byte(key)); m != nil {
			if err := json.Unmarshal(m, &meta); err != nil {
				return fmt.Errorf("decode meta for %s: %w", key, err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, Meta{}, err
	}
	return data, meta, nil
}

// Delete removes a blob. Deleting an unknown key is not an error.
func (s *Store) Delete(key string) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		if err := tx.Bucket(BlobsBucket).Delete([]byte(key)); err != nil {
			return err
		}
		return tx.Bucket(MetaBucket).Delete([]byte(key))
	})
}
