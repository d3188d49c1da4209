package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/GTDGit/shop_dashboard/internal/models"
)

// SnapshotKey is the Redis key holding the last loaded local snapshot.
const SnapshotKey = "dashboard:snapshot"

// SnapshotCache persists the local snapshot so a restarted process can serve
// the dashboard before the database has been read again.
type SnapshotCache struct {
	redis *RedisClient
	ttl   time.Duration
}

// NewSnapshotCache creates a new SnapshotCache.
func NewSnapshotCache(redis *RedisClient, ttl time.Duration) *SnapshotCache {
	return &SnapshotCache{
		redis: redis,
		ttl:   ttl,
	}
}

// Save stores the snapshot as JSON.
func (c *SnapshotCache) Save(ctx context.Context, snap models.Snapshot) error {
	data, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("failed to marshal snapshot: %w", err)
	}
	if err := c.redis.Set(ctx, SnapshotKey, data, c.ttl); err != nil {
		return fmt.Errorf("failed to store snapshot: %w", err)
	}
	return nil
}

// Load returns the cached snapshot. It returns ErrMiss when nothing is cached.
func (c *SnapshotCache) Load(ctx context.Context) (models.Snapshot, error) {
	data, err := c.redis.Get(ctx, SnapshotKey)
	if err != nil {
		return models.Snapshot{}, err
	}
	var snap models.Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return models.Snapshot{}, fmt.Errorf("failed to unmarshal snapshot: %w", err)
	}
	return snap, nil
}
