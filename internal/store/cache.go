package store

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/AleeST1/Reserva-de-sala/internal/models"
)

// CachedStore layers a Redis read-through cache over the SQLite store.
// List reads hit Redis first; every mutation drops the affected keys.
// Cache failures are logged and ignored: Redis being down degrades to
// plain store reads, never to errors.
type CachedStore struct {
	*Store
	redis  *redis.Client
	ttl    time.Duration
	logger *zerolog.Logger
}

// NewCachedStore wraps the store with a Redis cache. TTL at or below
// zero disables caching entirely.
func NewCachedStore(s *Store, redisClient *redis.Client, ttl time.Duration, logger *zerolog.Logger) *CachedStore {
	return &CachedStore{Store: s, redis: redisClient, ttl: ttl, logger: logger}
}

const allKey = "reservations:all"

func roomDateKey(room string, date time.Time) string {
	return fmt.Sprintf("reservations:%s:%s", room, date.Format(models.DateLayout))
}

// ListByRoomDate serves from cache when possible.
func (c *CachedStore) ListByRoomDate(ctx context.Context, room string, date time.Time) ([]models.Reservation, error) {
	key := roomDateKey(room, date)

	var cached []models.Reservation
	if c.readCache(ctx, key, &cached) {
		return cached, nil
	}

	out, err := c.Store.ListByRoomDate(ctx, room, date)
	if err != nil {
		return nil, err
	}
	c.writeCache(ctx, key, out)
	return out, nil
}

// ListAll serves from cache when possible.
func (c *CachedStore) ListAll(ctx context.Context) ([]models.Reservation, error) {
	var cached []models.Reservation
	if c.readCache(ctx, allKey, &cached) {
		return cached, nil
	}

	out, err := c.Store.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	c.writeCache(ctx, allKey, out)
	return out, nil
}

// Insert writes through and invalidates the affected keys.
func (c *CachedStore) Insert(ctx context.Context, r *models.Reservation) (int64, error) {
	id, err := c.Store.Insert(ctx, r)
	if err != nil {
		return 0, err
	}
	c.invalidate(ctx, roomDateKey(r.Room, r.Date))
	return id, nil
}

// UpdateByKey writes through and invalidates both the old and new
// room/date keys: an update can move the reservation between days.
func (c *CachedStore) UpdateByKey(ctx context.Context, key models.NaturalKey, updated models.Reservation) (int64, error) {
	affected, err := c.Store.UpdateByKey(ctx, key, updated)
	if err != nil {
		return 0, err
	}
	if affected > 0 {
		c.invalidate(ctx, roomDateKey(key.Room, key.Date), roomDateKey(updated.Room, updated.Date))
	}
	return affected, nil
}

// DeleteByKey writes through and invalidates the affected keys.
func (c *CachedStore) DeleteByKey(ctx context.Context, key models.NaturalKey) (int64, error) {
	affected, err := c.Store.DeleteByKey(ctx, key)
	if err != nil {
		return 0, err
	}
	if affected > 0 {
		c.invalidate(ctx, roomDateKey(key.Room, key.Date))
	}
	return affected, nil
}

// DeleteDatedOnOrBefore writes through and flushes the cache wholesale:
// the sweep can touch any number of room/date keys.
func (c *CachedStore) DeleteDatedOnOrBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	removed, err := c.Store.DeleteDatedOnOrBefore(ctx, cutoff)
	if err != nil {
		return 0, err
	}
	if removed > 0 {
		c.flush(ctx)
	}
	return removed, nil
}

// Ping reports whether Redis is reachable.
func (c *CachedStore) Ping(ctx context.Context) error {
	if c.redis == nil {
		return nil
	}
	return c.redis.Ping(ctx).Err()
}

func (c *CachedStore) readCache(ctx context.Context, key string, out any) bool {
	if c.redis == nil || c.ttl <= 0 {
		return false
	}
	val, err := c.redis.Get(ctx, key).Result()
	if err != nil {
		return false
	}
	if err := json.Unmarshal([]byte(val), out); err != nil {
		return false
	}
	return true
}

func (c *CachedStore) writeCache(ctx context.Context, key string, val any) {
	if c.redis == nil || c.ttl <= 0 {
		return
	}
	data, err := json.Marshal(val)
	if err != nil {
		return
	}
	if err := c.redis.Set(ctx, key, data, c.ttl).Err(); err != nil {
		c.logger.Debug().Err(err).Str("key", key).Msg("cache write failed")
	}
}

func (c *CachedStore) invalidate(ctx context.Context, keys ...string) {
	if c.redis == nil || c.ttl <= 0 {
		return
	}
	keys = append(keys, allKey)
	if err := c.redis.Del(ctx, keys...).Err(); err != nil {
		c.logger.Debug().Err(err).Msg("cache invalidation failed")
	}
}

func (c *CachedStore) flush(ctx context.Context) {
	if c.redis == nil || c.ttl <= 0 {
		return
	}
	iter := c.redis.Scan(ctx, 0, "reservations:*", 0).Iterator()
	var keys []string
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		c.logger.Debug().Err(err).Msg("cache scan failed")
		return
	}
	if len(keys) == 0 {
		return
	}
	if err := c.redis.Del(ctx, keys...).Err(); err != nil {
		c.logger.Debug().Err(err).Msg("cache flush failed")
	}
}
