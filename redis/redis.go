package redis

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/meinhoongagan/bizmatch/config"
	"github.com/redis/go-redis/v9"
)

var Client *redis.Client

// InitRedis connects to REDIS_ADDR and verifies the connection.
func InitRedis(ctx context.Context, cfg *config.Config) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}
	Client = client
	return client, nil
}

// SessionStore keeps sessions as "session:<sid>" keys holding the user id,
// indexed per user under "user_sessions:<uid>" for bulk revocation.
type SessionStore struct {
	client redis.UniversalClient
}

func NewSessionStore(client redis.UniversalClient) *SessionStore {
	return &SessionStore{client: client}
}

func sessionKey(sessionID string) string {
	return "session:" + sessionID
}

func userKey(userID uint) string {
	return "user_sessions:" + strconv.FormatUint(uint64(userID), 10)
}

func (s *SessionStore) Create(ctx context.Context, userID uint, sessionID string, ttl time.Duration) error {
	pipe := s.client.TxPipeline()
	pipe.Set(ctx, sessionKey(sessionID), userID, ttl)
	pipe.SAdd(ctx, userKey(userID), sessionID)
	pipe.Expire(ctx, userKey(userID), ttl)
	_, err := pipe.Exec(ctx)
	return err
}

func (s *SessionStore) Exists(ctx context.Context, userID uint, sessionID string) (bool, error) {
	owner, err := s.client.Get(ctx, sessionKey(sessionID)).Uint64()
	if err == redis.Nil {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return uint(owner) == userID, nil
}

func (s *SessionStore) Revoke(ctx context.Context, userID uint, sessionID string) error {
	pipe := s.client.TxPipeline()
	pipe.Del(ctx, sessionKey(sessionID))
	pipe.SRem(ctx, userKey(userID), sessionID)
	_, err := pipe.Exec(ctx)
	return err
}

func (s *SessionStore) RevokeUser(ctx context.Context, userID uint) error {
	ids, err := s.client.SMembers(ctx, userKey(userID)).Result()
	if err != nil {
		return err
	}
	keys := make([]string, 0, len(ids)+1)
	for _, id := range ids {
		keys = append(keys, sessionKey(id))
	}
	keys = append(keys, userKey(userID))
	return s.client.Del(ctx, keys...).Err()
}
