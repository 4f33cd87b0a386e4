package session

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/yigit/admission/internal/app/models"
)

// RedisStore keeps each session in a hash that expires with the session
type RedisStore struct {
	client *redis.Client
	prefix string
}

// NewRedisStore creates a RedisStore. Keys are prefix + token.
func NewRedisStore(client *redis.Client, prefix string) *RedisStore {
	return &RedisStore{client: client, prefix: prefix}
}

// NewRedisClient parses url and checks the connection
func NewRedisClient(ctx context.Context, url string) (*redis.Client, error) {
	opt, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("failed to parse redis URL: %w", err)
	}

	client := redis.NewClient(opt)
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}
	return client, nil
}

func (s *RedisStore) key(token string) string {
	return s.prefix + token
}

// Get loads the session hash for token or returns ErrNotFound
func (s *RedisStore) Get(ctx context.Context, token string) (*Session, error) {
	values, err := s.client.HGetAll(ctx, s.key(token)).Result()
	if err == redis.Nil || (err == nil && len(values) == 0) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to fetch session: %w", err)
	}

	userID, err := strconv.ParseInt(values["user_id"], 10, 64)
	if err != nil {
		return nil, fmt.Errorf("corrupt session user id: %w", err)
	}
	issuedAt, err := strconv.ParseInt(values["issued_at"], 10, 64)
	if err != nil {
		return nil, fmt.Errorf("corrupt session issue time: %w", err)
	}
	expiresAt, err := strconv.ParseInt(values["expires_at"], 10, 64)
	if err != nil {
		return nil, fmt.Errorf("corrupt session expiry: %w", err)
	}

	return &Session{
		Token:     token,
		UserID:    userID,
		Username:  values["username"],
		Role:      models.RoleType(values["role"]),
		IssuedAt:  time.Unix(0, issuedAt).UTC(),
		ExpiresAt: time.Unix(0, expiresAt).UTC(),
	}, nil
}

// Put writes the session hash and sets the key to expire with it
func (s *RedisStore) Put(ctx context.Context, session *Session) error {
	key := s.key(session.Token)
	_, err := s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.HSet(ctx, key, map[string]interface{}{
			"user_id":    session.UserID,
			"username":   session.Username,
			"role":       string(session.Role),
			"issued_at":  session.IssuedAt.UnixNano(),
			"expires_at": session.ExpiresAt.UnixNano(),
		})
		pipe.ExpireAt(ctx, key, session.ExpiresAt)
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to store session: %w", err)
	}
	return nil
}

// Delete removes the session key
func (s *RedisStore) Delete(ctx context.Context, token string) error {
	if err := s.client.Del(ctx, s.key(token)).Err(); err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}
	return nil
}

// Sweep is a no-op; Redis expires keys on its own.
func (s *RedisStore) Sweep(context.Context, time.Time) (int, error) {
	return 0, nil
}
