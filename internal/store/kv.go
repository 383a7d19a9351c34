// Package store caches decoded loose objects in a bbolt database.
//
// Entries are keyed by object hash and carry a BLAKE3 fingerprint of the
// object's raw file bytes. An entry is only used when the fingerprint of the
// file read during the current scan matches.
package store

import (
	"bytes"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.etcd.io/bbolt"
)

// Buckets
var (
	BucketObjects = []byte("objects") // object hash -> encoded Entry
	BucketMeta    = []byte("meta")    // cache metadata
)

var keySchema = []byte("schema")

// schemaVersion changes whenever the Entry encoding does.
const schemaVersion = "1"

var (
	// ErrNotFound is returned when no entry exists for a hash.
	ErrNotFound = errors.New("object not cached")
	// ErrCorruptEntry is returned when a stored entry cannot be decoded.
	ErrCorruptEntry = errors.New("corrupt cache entry")
)

// Entry is the decoded form of one loose object.
type Entry struct {
	Fingerprint Fingerprint
	Type        string
	Parents     []string
}

type DB struct{ *bbolt.DB }

// Open opens or creates the cache at path. A cache written with a different
// schema version is emptied.
func Open(path string) (*DB, error) {
	db, err := bbolt.Open(path, 0644, &bbolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, err
	}
	// Ensure buckets exist
	if err := db.Update(func(tx *bbolt.Tx) error {
		meta, e := tx.CreateBucketIfNotExists(BucketMeta)
		if e != nil {
			return e
		}
		if v := meta.Get(keySchema); v != nil && string(v) != schemaVersion {
			if e := tx.DeleteBucket(BucketObjects); e != nil && !errors.Is(e, bbolt.ErrBucketNotFound) {
				return e
			}
		}
		if _, e := tx.CreateBucketIfNotExists(BucketObjects); e != nil {
			return e
		}
		return meta.Put(keySchema, []byte(schemaVersion))
	}); err != nil {
		_ = db.Close()
		return nil, err
	}
	return &DB{db}, nil
}

func (db *DB) Close() error { return db.DB.Close() }

// Lookup returns the entry cached for hash.
func (db *DB) Lookup(hash string) (*Entry, error) {
	var entry *Entry
	err := db.View(func(tx *bbolt.Tx) error {
		v := tx.Bucket(BucketObjects).Get([]byte(hash))
		if v == nil {
			return ErrNotFound
		}
		e, err := decodeEntry(v)
		if err != nil {
			return fmt.Errorf("%s: %w", hash, err)
		}
		entry = e
		return nil
	})
	return entry, err
}

// PutEntries stores all entries in a single transaction.
func (db *DB) PutEntries(entries map[string]Entry) error {
	if len(entries) == 0 {
		return nil
	}
	return db.Update(func(tx *bbolt.Tx) error {
		b := tx.Bucket(BucketObjects)
		for hash, e := range entries {
			if err := b.Put([]byte(hash), encodeEntry(e)); err != nil {
				return err
			}
		}
		return nil
	})
}

// Len returns the number of cached objects.
func (db *DB) Len() (int, error) {
	var n int
	err := db.View(func(tx *bbolt.Tx) error {
		n = tx.Bucket(BucketObjects).Stats().KeyN
		return nil
	})
	return n, err
}

// encodeEntry lays out fingerprint | type length | type | parents joined by '\n'.
func encodeEntry(e Entry) []byte {
	var buf bytes.Buffer
	buf.Write(e.Fingerprint[:])
	buf.WriteByte(byte(len(e.Type)))
	buf.WriteString(e.Type)
	buf.WriteString(strings.Join(e.Parents, "\n"))
	return buf.Bytes()
}

func decodeEntry(v []byte) (*Entry, error) {
	if len(v) < len(Fingerprint{})+1 {
		return nil, ErrCorruptEntry
	}
	var e Entry
	n := copy(e.Fingerprint[:], v)
	typeLen := int(v[n])
	rest := v[n+1:]
	if typeLen == 0 || typeLen > len(rest) {
		return nil, ErrCorruptEntry
	}
	e.Type = string(rest[:typeLen])
	if parents := rest[typeLen:]; len(parents) > 0 {
		e.Parents = strings.Split(string(parents), "\n")
	}
	return &e, nil
}
