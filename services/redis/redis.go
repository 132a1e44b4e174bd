package redis

import (
	redis_models "Palindra/models/redis"
	redis_utils "Palindra/services/redis/utils"
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisClient handles Redis operations: the live-score hot cache, player
// presence and the per-match change-notification channel.
type RedisClient struct {
	Client *redis.Client
	Ctx    context.Context
}

// NewRedisClient creates a new Redis client instance
func NewRedisClient(Addr string, DB int) *RedisClient {
	var client *redis.Client
	if Addr != "localhost:6379" {
		log.Println("Connecting to remote Redis...")
		opt, err := redis.ParseURL(Addr)
		if err != nil {
			panic("Error parsing Redis URL")
		}
		client = redis.NewClient(opt)
	} else {
		client = redis.NewClient(&redis.Options{
			Addr: Addr,
			DB:   DB,
		})
	}
	return &RedisClient{
		Client: client,
		Ctx:    context.Background(),
	}
}

// SaveLiveScore stores a player's in-progress score.
// Key format: "match:{id}:score:{username}"
// TTL: 24 hours
func (rc *RedisClient) SaveLiveScore(score *redis_models.LiveScore) error {
	key := redis_utils.FormatLiveScoreKey(score.MatchID, score.Username)
	data, err := json.Marshal(score)
	if err != nil {
		return fmt.Errorf("error marshaling live score: %v", err)
	}
	return rc.Client.Set(rc.Ctx, key, data, 24*time.Hour).Err()
}

// GetLiveScore retrieves one player's live score, nil when absent.
func (rc *RedisClient) GetLiveScore(matchId string, username string) (*redis_models.LiveScore, error) {
	key := redis_utils.FormatLiveScoreKey(matchId, username)
	data, err := rc.Client.Get(rc.Ctx, key).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, nil
		}
		return nil, fmt.Errorf("error getting live score: %v", err)
	}

	var score redis_models.LiveScore
	if err := json.Unmarshal(data, &score); err != nil {
		return nil, fmt.Errorf("error unmarshaling live score: %v", err)
	}
	return &score, nil
}

// DeleteLiveScores removes the hot score keys of a finished match.
func (rc *RedisClient) DeleteLiveScores(matchId string, usernames []string) error {
	pipe := rc.Client.Pipeline()
	for _, username := range usernames {
		pipe.Del(rc.Ctx, redis_utils.FormatLiveScoreKey(matchId, username))
	}
	if _, err := pipe.Exec(rc.Ctx); err != nil {
		return fmt.Errorf("error deleting live scores: %v", err)
	}
	return nil
}

// PublishMatchEvent pushes a change notification on the match's channel.
// Subscribers treat any event as a "go refetch" trigger, never as a diff,
// so publish failures are tolerable: the poll backstop converges anyway.
func (rc *RedisClient) PublishMatchEvent(event *redis_models.MatchEvent) error {
	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("error marshaling match event: %v", err)
	}
	channel := redis_utils.FormatMatchChannel(event.MatchID)
	return rc.Client.Publish(rc.Ctx, channel, data).Err()
}

// SubscribeMatchEvents subscribes to a match's notification channel.
// The caller owns the returned PubSub and must Close it.
func (rc *RedisClient) SubscribeMatchEvents(ctx context.Context, matchId string) *redis.PubSub {
	return rc.Client.Subscribe(ctx, redis_utils.FormatMatchChannel(matchId))
}

// SavePlayerPresence stores a player's connection state.
// Key format: "presence:{username}"
// TTL: 1 hour, refreshed on every save
func (rc *RedisClient) SavePlayerPresence(presence *redis_models.PlayerPresence) error {
	key := redis_utils.FormatPresenceKey(presence.Username)
	data, err := json.Marshal(presence)
	if err != nil {
		return fmt.Errorf("error marshaling presence: %v", err)
	}
	return rc.Client.Set(rc.Ctx, key, data, time.Hour).Err()
}

// DeletePlayerPresence removes a player's presence on disconnect.
func (rc *RedisClient) DeletePlayerPresence(username string) error {
	key := redis_utils.FormatPresenceKey(username)
	if err := rc.Client.Del(rc.Ctx, key).Err(); err != nil {
		return fmt.Errorf("error deleting presence: %v", err)
	}
	return nil
}

// CleanupKeys removes the specified keys from Redis
func (rc *RedisClient) CleanupKeys(keys []string) error {
	for _, key := range keys {
		if err := rc.Client.Del(rc.Ctx, key).Err(); err != nil {
			return fmt.Errorf("failed to cleanup Redis key %s: %v", key, err)
		}
	}
	return nil
}
