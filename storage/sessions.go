package storage

import (
	"encoding/binary"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"go.etcd.io/bbolt"
)

const sessionBucket = "Sessions"

// SessionStore is a bbolt-backed fiber.Storage implementation for the
// session middleware. Values carry their expiry so stale sessions are
// dropped on read and by the periodic sweep.
type SessionStore struct {
	db   *bbolt.DB
	done chan struct{}
}

// NewSessionStore opens (or creates) the session database at path.
func NewSessionStore(path string) (*SessionStore, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0700); err != nil {
			return nil, fmt.Errorf("failed to create session directory: %v", err)
		}
	}

	db, err := bbolt.Open(path, 0600, &bbolt.Options{Timeout: 1 * time.Second})
	if err != nil {
		return nil, fmt.Errorf("failed to open session database: %v", err)
	}

	err = db.Update(func(tx *bbolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists([]byte(sessionBucket))
		return err
	})
	if err != nil {
		db.Close()
		return nil, err
	}

	s := &SessionStore{db: db, done: make(chan struct{})}
	go s.sweepLoop()

	return s, nil
}

// Get implements fiber.Storage. A missing or expired key yields nil, nil.
func (s *SessionStore) Get(key string) ([]byte, error) {
	var value []byte
	err := s.db.View(func(tx *bbolt.Tx) error {
		raw := tx.Bucket([]byte(sessionBucket)).Get([]byte(key))
		if raw == nil {
			return nil
		}
		exp, payload := decodeRecord(raw)
		if !exp.IsZero() && time.Now().After(exp) {
			return nil
		}
		value = append([]byte(nil), payload...)
		return nil
	})
	return value, err
}

// Set implements fiber.Storage.
func (s *SessionStore) Set(key string, val []byte, exp time.Duration) error {
	var deadline time.Time
	if exp > 0 {
		deadline = time.Now().Add(exp)
	}
	return s.db.Update(func(tx *bbolt.Tx) error {
		return tx.Bucket([]byte(sessionBucket)).Put([]byte(key), encodeRecord(deadline, val))
	})
}

// Delete implements fiber.Storage.
func (s *SessionStore) Delete(key string) error {
	return s.db.Update(func(tx *bbolt.Tx) error {
		return tx.Bucket([]byte(sessionBucket)).Delete([]byte(key))
	})
}

// Reset implements fiber.Storage, dropping every session.
func (s *SessionStore) Reset() error {
	return s.db.Update(func(tx *bbolt.Tx) error {
		if err := tx.DeleteBucket([]byte(sessionBucket)); err != nil {
			return err
		}
		_, err := tx.CreateBucketIfNotExists([]byte(sessionBucket))
		return err
	})
}

// Close implements fiber.Storage.
func (s *SessionStore) Close() error {
	close(s.done)
	return s.db.Close()
}

func (s *SessionStore) sweepLoop() {
	ticker := time.NewTicker(10 * time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			s.sweep()
		case <-s.done:
			return
		}
	}
}

func (s *SessionStore) sweep() {
	now := time.Now()
	_ = s.db.Update(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket([]byte(sessionBucket))
		cursor := bucket.Cursor()
		var stale [][]byte
		for k, v := cursor.First(); k != nil; k, v = cursor.Next() {
			exp, _ := decodeRecord(v)
			if !exp.IsZero() && now.After(exp) {
				stale = append(stale, append([]byte(nil), k...))
			}
		}
		for _, k := range stale {
			if err := bucket.Delete(k); err != nil {
				return err
			}
		}
		return nil
	})
}

// Records are an 8-byte big-endian unix-nano expiry followed by the payload.
// A zero expiry means the record never expires.

func encodeRecord(exp time.Time, payload []byte) []byte {
	buf := make([]byte, 8+len(payload))
	if !exp.IsZero() {
		binary.BigEndian.PutUint64(buf[:8], uint64(exp.UnixNano()))
	}
	copy(buf[8:], payload)
	return buf
}

func decodeRecord(raw []byte) (time.Time, []byte) {
	if len(raw) < 8 {
		return time.Time{}, raw
	}
	nanos := binary.BigEndian.Uint64(raw[:8])
	if nanos == 0 {
		return time.Time{}, raw[8:]
	}
	return time.Unix(0, int64(nanos)), raw[8:]
}
