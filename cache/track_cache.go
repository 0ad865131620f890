package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"wavebox/model"

	"github.com/redis/go-redis/v9"
)

// trackTTL bounds staleness of cached track detail between invalidations.
const trackTTL = 10 * time.Minute

// ErrCacheMiss is returned when the requested entry is not cached.
var ErrCacheMiss = errors.New("cache miss")

func trackKey(id int64) string {
	return fmt.Sprintf("track:%d", id)
}

// GetTrack returns the cached track detail, or ErrCacheMiss.
func GetTrack(ctx context.Context, id int64) (*model.Track, error) {
	if RedisClient == nil {
		return nil, ErrCacheMiss
	}

	data, err := RedisClient.Get(ctx, trackKey(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrCacheMiss
		}
		return nil, fmt.Errorf("failed to get cached track %d: %w", id, err)
	}

	var track model.Track
	if err := json.Unmarshal(data, &track); err != nil {
		return nil, fmt.Errorf("failed to decode cached track %d: %w", id, err)
	}
	return &track, nil
}

// SetTrack caches the track detail.
func SetTrack(ctx context.Context, track *model.Track) error {
	if RedisClient == nil {
		return nil
	}

	data, err := json.Marshal(track)
	if err != nil {
		return fmt.Errorf("failed to encode track %d: %w", track.ID, err)
	}
	if err := RedisClient.Set(ctx, trackKey(track.ID), data, trackTTL).Err(); err != nil {
		return fmt.Errorf("failed to cache track %d: %w", track.ID, err)
	}
	return nil
}

// InvalidateTrack drops the cached entry after a write.
func InvalidateTrack(ctx context.Context, id int64) error {
	if RedisClient == nil {
		return nil
	}
	if err := RedisClient.Del(ctx, trackKey(id)).Err(); err != nil {
		return fmt.Errorf("failed to invalidate track %d: %w", id, err)
	}
	return nil
}
