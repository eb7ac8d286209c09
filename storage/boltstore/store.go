// Package boltstore persists a crawl's string sets in a Bolt database,
// so that an interrupted mirror can be resumed without re-enqueuing
// URLs it has already seen.
package boltstore

import (
	"github.com/boltdb/bolt"
)

var bkSeen = []byte("SEEN_BUCKET")

// Set is a BoltDB-backed string set. It satisfies the mirror.StringSet
// interface.
type Set struct {
	DB *bolt.DB
}

// New opens (or creates) a database at path.
func New(path string, opt *bolt.Options) (*Set, error) {
	db, err := bolt.Open(path, 0644, opt)
	if err != nil {
		return nil, err
	}
	err = db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(bkSeen)
		return err
	})
	if err != nil {
		db.Close()
		return nil, err
	}
	return &Set{DB: db}, nil
}

func (s *Set) Add(key string) error {
	return s.DB.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(bkSeen).Put([]byte(key), []byte{})
	})
}

func (s *Set) Has(key string) (yes bool, err error) {
	err = s.DB.View(func(tx *bolt.Tx) error {
		yes = tx.Bucket(bkSeen).Get([]byte(key)) != nil
		return nil
	})
	return
}

func (s *Set) Close() error {
	return s.DB.Close()
}
