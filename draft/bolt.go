package draft

import (
	"time"

	"github.com/pkg/errors"
	bolt "go.etcd.io/bbolt"
)

var draftsBucket = []byte("drafts")

// BoltStore persists drafts in a bbolt file, so they survive restarts.
type BoltStore struct {
	db *bolt.DB
}

func NewBoltStore(path string) (*BoltStore, error) {
	db, err := bolt.Open(path, 0o600, &bolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, errors.Wrap(err, "draft.bolt.open")
	}

	err = db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(draftsBucket)
		return err
	})
	if err != nil {
		db.Close()
		return nil, errors.Wrap(err, "draft.bolt.bucket")
	}

	return &BoltStore{db}, nil
}

func (s *BoltStore) Save(key string, value any) error {
	data, err := encode(value)
	if err != nil {
		return errors.Wrapf(err, "draft.bolt.encode %s", key)
	}
	return s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(draftsBucket).Put([]byte(key), data)
	})
}

func (s *BoltStore) Load(key string, value any) (found bool, err error) {
	err = s.db.View(func(tx *bolt.Tx) error {
		// only valid inside the transaction
		data := tx.Bucket(draftsBucket).Get([]byte(key))
		if data == nil {
			return nil
		}
		found = true
		return decode(data, value)
	})
	if err != nil {
		return false, errors.Wrapf(err, "draft.bolt.load %s", key)
	}
	return
}

func (s *BoltStore) Clear(key string) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(draftsBucket).Delete([]byte(key))
	})
}

func (s *BoltStore) Close() error {
	return s.db.Close()
}
