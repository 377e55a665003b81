package session

import (
	"context"
	"encoding/json"
	"time"

	"vivare/models"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

// RedisStore keeps session records in Redis with a server-side expiry that
// mirrors the TTL check done on load.
type RedisStore struct {
	Client *redis.Client
	TTL    time.Duration
	Logger *zap.Logger
	Now    func() time.Time
}

func NewRedisStore(client *redis.Client, ttl time.Duration, logger *zap.Logger) *RedisStore {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &RedisStore{Client: client, TTL: ttl, Logger: logger, Now: time.Now}
}

func (s *RedisStore) Save(ctx context.Context, deviceID, listingID string, rec models.SessionRecord) error {
	data, err := json.Marshal(rec)
	if err != nil {
		return err
	}
	return s.Client.Set(ctx, sessionKey(deviceID, listingID), data, s.TTL).Err()
}

func (s *RedisStore) Load(ctx context.Context, deviceID, listingID string, stay models.StayContext) (*models.SessionRecord, error) {
	key := sessionKey(deviceID, listingID)
	data, err := s.Client.Get(ctx, key).Result()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var rec models.SessionRecord
	if err := json.Unmarshal([]byte(data), &rec); err != nil {
		// Malformed data fails open to "start fresh".
		s.Logger.Warn("discarding malformed session record", zap.String("key", key), zap.Error(err))
		s.Client.Del(ctx, key)
		return nil, nil
	}

	if !usable(rec, stay, s.Now(), s.TTL) {
		s.Client.Del(ctx, key)
		return nil, nil
	}
	return &rec, nil
}

func (s *RedisStore) Clear(ctx context.Context, deviceID, listingID string) error {
	return s.Client.Del(ctx, sessionKey(deviceID, listingID)).Err()
}
