// Package bbolt provides a BoltDB-backed snapshot store.
package bbolt

import (
	"context"
	"encoding/json"
	"fmt"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/louisbranch/atelier.space/internal/storage"
	"go.etcd.io/bbolt"
)

const snapshotBucket = "snapshot"

// Store provides a BoltDB-backed snapshot store.
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

// PutSnapshot persists a snapshot record.
func (s *Store) PutSnapshot(ctx context.Context, record storage.SnapshotRecord) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if s == nil || s.db == nil {
		return fmt.Errorf("storage is not configured")
	}
	if strings.TrimSpace(record.ID) == "" {
		return fmt.Errorf("snapshot id is required")
	}

	payload, err := json.Marshal(snapshotRecordJSON{
		ID:          record.ID,
		Name:        record.Name,
		Description: record.Description,
		CreatedAt:   record.CreatedAt.UTC().UnixMilli(),
		StateJSON:   record.StateJSON,
	})
	if err != nil {
		return fmt.Errorf("marshal snapshot: %w", err)
	}

	return s.db.Update(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket([]byte(snapshotBucket))
		if bucket == nil {
			return fmt.Errorf("snapshot bucket is missing")
		}
		return bucket.Put(snapshotKey(record.ID), payload)
	})
}

// GetSnapshot fetches a snapshot record by ID.
func (s *Store) GetSnapshot(ctx context.Context, id string) (storage.SnapshotRecord, error) {
	if err := ctx.Err(); err != nil {
		return storage.SnapshotRecord{}, err
	}
	if s == nil || s.db == nil {
		return storage.SnapshotRecord{}, fmt.Errorf("storage is not configured")
	}
	if strings.TrimSpace(id) == "" {
		return storage.SnapshotRecord{}, fmt.Errorf("snapshot id is required")
	}

	var record storage.SnapshotRecord
	err := s.db.View(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket([]byte(snapshotBucket))
		if bucket == nil {
			return fmt.Errorf("snapshot bucket is missing")
		}
		payload := bucket.Get(snapshotKey(id))
		if payload == nil {
			return storage.ErrNotFound
		}
		decoded, err := decodeSnapshot(payload)
		if err != nil {
			return err
		}
		record = decoded
		return nil
	})
	if err != nil {
		return storage.SnapshotRecord{}, err
	}

	return record, nil
}

// DeleteSnapshot removes a snapshot record by ID.
func (s *Store) DeleteSnapshot(ctx context.Context, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if s == nil || s.db == nil {
		return fmt.Errorf("storage is not configured")
	}
	if strings.TrimSpace(id) == "" {
		return fmt.Errorf("snapshot id is required")
	}

	return s.db.Update(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket([]byte(snapshotBucket))
		if bucket == nil {
			return fmt.Errorf("snapshot bucket is missing")
		}
		if bucket.Get(snapshotKey(id)) == nil {
			return storage.ErrNotFound
		}
		return bucket.Delete(snapshotKey(id))
	})
}

// ListSnapshots returns all snapshot records ordered by creation time.
func (s *Store) ListSnapshots(ctx context.Context) ([]storage.SnapshotRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if s == nil || s.db == nil {
		return nil, fmt.Errorf("storage is not configured")
	}

	var records []storage.SnapshotRecord
	err := s.db.View(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket([]byte(snapshotBucket))
		if bucket == nil {
			return fmt.Errorf("snapshot bucket is missing")
		}
		return bucket.ForEach(func(_, payload []byte) error {
			record, err := decodeSnapshot(payload)
			if err != nil {
				return err
			}
			records = append(records, record)
			return nil
		})
	})
	if err != nil {
		return nil, err
	}

	sort.Slice(records, func(i, j int) bool {
		if records[i].CreatedAt.Equal(records[j].CreatedAt) {
			return records[i].ID < records[j].ID
		}
		return records[i].CreatedAt.Before(records[j].CreatedAt)
	})
	return records, nil
}

func (s *Store) ensureBuckets() error {
	return s.db.Update(func(tx *bbolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists([]byte(snapshotBucket))
		if err != nil {
			return fmt.Errorf("create snapshot bucket: %w", err)
		}
		return nil
	})
}

type snapshotRecordJSON struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	Description string          `json:"description,omitempty"`
	CreatedAt   int64           `json:"created_at"`
	StateJSON   json.RawMessage `json:"state"`
}

func decodeSnapshot(payload []byte) (storage.SnapshotRecord, error) {
	var decoded snapshotRecordJSON
	if err := json.Unmarshal(payload, &decoded); err != nil {
		return storage.SnapshotRecord{}, fmt.Errorf("unmarshal snapshot: %w", err)
	}
	return storage.SnapshotRecord{
		ID:          decoded.ID,
		Name:        decoded.Name,
		Description: decoded.Description,
		CreatedAt:   time.UnixMilli(decoded.CreatedAt).UTC(),
		StateJSON:   decoded.StateJSON,
	}, nil
}

func snapshotKey(id string) []byte {
	return []byte(id)
}

var _ storage.SnapshotStore = (*Store)(nil)
