// Package bbolt provides the BoltDB-backed local persistence tier: the
// single live-session snapshot slot and session tracking records.
package bbolt

import (
	"context"
	"encoding/json"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/patrickkiley-hue/Commander-Sphere/internal/match/domain"
	"github.com/patrickkiley-hue/Commander-Sphere/internal/storage"
	"go.etcd.io/bbolt"
)

const (
	snapshotBucket = "snapshot"
	trackingBucket = "tracking"

	// snapshotKey is the single well-known slot. One live session per
	// device; the slot itself is the lock.
	snapshotKey = "live"
)

// Store provides a BoltDB-backed snapshot and tracking store.
type Store struct {
	db *bbolt.DB
}

// Open opens a BoltDB-backed store at the provided path.
func Open(path string) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("storage path is required")
	}

	cleanPath := filepath.Clean(path)
	db, err := bbolt.Open(cleanPath, 0o600, &bbolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, fmt.Errorf("open storage db: %w", err)
	}

	store := &Store{db: db}
	if err := store.ensureBuckets(); err != nil {
		_ = db.Close()
		return nil, err
	}

	return store, nil
}

// Close closes the underlying BoltDB database.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// SaveSnapshot writes the live session into the snapshot slot, replacing
// whatever was there. Last write wins.
func (s *Store) SaveSnapshot(ctx context.Context, session domain.Session) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if s == nil || s.db == nil {
		return fmt.Errorf("storage is not configured")
	}
	if strings.TrimSpace(session.ID) == "" {
		return fmt.Errorf("session id is required")
	}

	payload, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("marshal session: %w", err)
	}

	return s.db.Update(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket([]byte(snapshotBucket))
		if bucket == nil {
			return fmt.Errorf("snapshot bucket is missing")
		}
		return bucket.Put([]byte(snapshotKey), payload)
	})
}

// LoadSnapshot reads the snapshot slot. A malformed payload is reported as
// an unmarshal error so callers can fall back to a fresh session.
func (s *Store) LoadSnapshot(ctx context.Context) (domain.Session, error) {
	if err := ctx.Err(); err != nil {
		return domain.Session{}, err
	}
	if s == nil || s.db == nil {
		return domain.Session{}, fmt.Errorf("storage is not configured")
	}

	var session domain.Session
	err := s.db.View(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket([]byte(snapshotBucket))
		if bucket == nil {
			return fmt.Errorf("snapshot bucket is missing")
		}
		payload := bucket.Get([]byte(snapshotKey))
		if payload == nil {
			return storage.ErrNotFound
		}
		if err := json.Unmarshal(payload, &session); err != nil {
			return fmt.Errorf("unmarshal session: %w", err)
		}
		return nil
	})
	if err != nil {
		return domain.Session{}, err
	}

	return session, nil
}

// ClearSnapshot empties the snapshot slot. Clearing an already-empty slot
// is not an error.
func (s *Store) ClearSnapshot(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if s == nil || s.db == nil {
		return fmt.Errorf("storage is not configured")
	}

	return s.db.Update(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket([]byte(snapshotBucket))
		if bucket == nil {
			return fmt.Errorf("snapshot bucket is missing")
		}
		return bucket.Delete([]byte(snapshotKey))
	})
}

// PutTracking persists a session tracking record.
func (s *Store) PutTracking(ctx context.Context, record storage.TrackingRecord) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if s == nil || s.db == nil {
		return fmt.Errorf("storage is not configured")
	}
	if strings.TrimSpace(record.GroupID) == "" {
		return fmt.Errorf("group id is required")
	}
	if strings.TrimSpace(record.GameID) == "" {
		return fmt.Errorf("game id is required")
	}

	payload, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("marshal tracking record: %w", err)
	}

	return s.db.Update(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket([]byte(trackingBucket))
		if bucket == nil {
			return fmt.Errorf("tracking bucket is missing")
		}
		return bucket.Put(trackingKey(record.GroupID, record.GameID), payload)
	})
}

// GetTracking fetches a tracking record by group and game id.
func (s *Store) GetTracking(ctx context.Context, groupID, gameID string) (storage.TrackingRecord, error) {
	if err := ctx.Err(); err != nil {
		return storage.TrackingRecord{}, err
	}
	if s == nil || s.db == nil {
		return storage.TrackingRecord{}, fmt.Errorf("storage is not configured")
	}

	var record storage.TrackingRecord
	err := s.db.View(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket([]byte(trackingBucket))
		if bucket == nil {
			return fmt.Errorf("tracking bucket is missing")
		}
		payload := bucket.Get(trackingKey(groupID, gameID))
		if payload == nil {
			return storage.ErrNotFound
		}
		if err := json.Unmarshal(payload, &record); err != nil {
			return fmt.Errorf("unmarshal tracking record: %w", err)
		}
		return nil
	})
	if err != nil {
		return storage.TrackingRecord{}, err
	}

	return record, nil
}

// DeleteTracking removes a tracking record. Deleting a missing record is
// not an error.
func (s *Store) DeleteTracking(ctx context.Context, groupID, gameID string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if s == nil || s.db == nil {
		return fmt.Errorf("storage is not configured")
	}

	return s.db.Update(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket([]byte(trackingBucket))
		if bucket == nil {
			return fmt.Errorf("tracking bucket is missing")
		}
		return bucket.Delete(trackingKey(groupID, gameID))
	})
}

func (s *Store) ensureBuckets() error {
	return s.db.Update(func(tx *bbolt.Tx) error {
		for _, name := range []string{snapshotBucket, trackingBucket} {
			if _, err := tx.CreateBucketIfNotExists([]byte(name)); err != nil {
				return fmt.Errorf("create %s bucket: %w", name, err)
			}
		}
		return nil
	})
}

func trackingKey(groupID, gameID string) []byte {
	return []byte(groupID + "_" + gameID)
}
