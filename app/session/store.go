package session

import (
	"time"

	"github.com/dgraph-io/badger/v4"
)

const keyPrefix = "session:"

// Store persists scs session data in badger, the client's only durable
// local storage. Session expiry rides on badger's entry TTL.
type Store struct {
	db *badger.DB
}

// NewStore wraps an open badger database as an scs store.
func NewStore(db *badger.DB) *Store {
	return &Store{db: db}
}

func key(token string) []byte {
	return []byte(keyPrefix + token)
}

// Find returns the data for a session token, with found=false for both
// missing and expired sessions.
func (s *Store) Find(token string) ([]byte, bool, error) {
	var data []byte
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(key(token))
		if err != nil {
			return err
		}
		data, err = item.ValueCopy(nil)
		return err
	})
	if err == badger.ErrKeyNotFound {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return data, true, nil
}

// Commit writes the session data, expiring at the given time.
func (s *Store) Commit(token string, data []byte, expiry time.Time) error {
	return s.db.Update(func(txn *badger.Txn) error {
		entry := badger.NewEntry(key(token), data).WithTTL(time.Until(expiry))
		return txn.SetEntry(entry)
	})
}

// Delete removes a session. Deleting a missing session is not an error.
func (s *Store) Delete(token string) error {
	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Delete(key(token))
	})
}
