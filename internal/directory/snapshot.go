package directory

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/angelmondragon/supplynet-dashboard/internal/stores"
)

const snapshotName = "stores"

// SnapshotCache persists the last good listing outside the process.
type SnapshotCache interface {
	Save(ctx context.Context, records []stores.StoreRecord) error
	Load(ctx context.Context) ([]stores.StoreRecord, error)
}

// ErrNoSnapshot is returned when no snapshot has been saved yet.
var ErrNoSnapshot = errors.New("no directory snapshot")

type kvStore interface {
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	Get(ctx context.Context, key string) (string, error)
	SnapshotKey(name string) string
}

// RedisSnapshotCache stores the listing as JSON under a namespaced key.
type RedisSnapshotCache struct {
	client  kvStore
	key     string
	ttl     time.Duration
	missing error
}

// NewRedisSnapshotCache builds a snapshot cache. missing is the client's
// not-found sentinel, translated into ErrNoSnapshot.
func NewRedisSnapshotCache(client kvStore, ttl time.Duration, missing error) (*RedisSnapshotCache, error) {
	if client == nil {
		return nil, errors.New("redis client required for snapshot cache")
	}
	return &RedisSnapshotCache{
		client:  client,
		key:     client.SnapshotKey(snapshotName),
		ttl:     ttl,
		missing: missing,
	}, nil
}

// Save writes the listing.
func (c *RedisSnapshotCache) Save(ctx context.Context, records []stores.StoreRecord) error {
	payload, err := json.Marshal(records)
	if err != nil {
		return fmt.Errorf("marshal snapshot: %w", err)
	}
	if err := c.client.Set(ctx, c.key, payload, c.ttl); err != nil {
		return fmt.Errorf("save snapshot: %w", err)
	}
	return nil
}

// Load reads the listing back.
func (c *RedisSnapshotCache) Load(ctx context.Context) ([]stores.StoreRecord, error) {
	raw, err := c.client.Get(ctx, c.key)
	if err != nil {
		if c.missing != nil && errors.Is(err, c.missing) {
			return nil, ErrNoSnapshot
		}
		return nil, fmt.Errorf("load snapshot: %w", err)
	}
	var records []stores.StoreRecord
	if err := json.Unmarshal([]byte(raw), &records); err != nil {
		return nil, fmt.Errorf("decode snapshot: %w", err)
	}
	if len(records) == 0 {
		return nil, ErrNoSnapshot
	}
	return records, nil
}
