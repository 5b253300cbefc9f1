package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	errs "github.com/matzehuels/rainbowsmoke/pkg/errors"
)

// DefaultRedisPrefix namespaces frame keys.
const DefaultRedisPrefix = "rainbowsmoke:"

// RedisConfig configures a [RedisStore].
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
	Prefix   string // DefaultRedisPrefix when empty
}

// RedisStore keeps frames as JSON strings with a Redis TTL, so several
// preview servers can serve each other's sessions.
type RedisStore struct {
	client *redis.Client
	prefix string
	owned  bool
}

// NewRedisStore connects to Redis and verifies the connection with PING.
func NewRedisStore(ctx context.Context, cfg RedisConfig) (*RedisStore, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, errs.Wrap(errs.ErrCodeNetwork, err, "connect to redis at %s", cfg.Addr)
	}
	s := NewRedisStoreFromClient(client, cfg.Prefix)
	s.owned = true
	return s, nil
}

// NewRedisStoreFromClient wraps an existing client. Close does not close it.
func NewRedisStoreFromClient(client *redis.Client, prefix string) *RedisStore {
	if prefix == "" {
		prefix = DefaultRedisPrefix
	}
	return &RedisStore{client: client, prefix: prefix}
}

func (r *RedisStore) frameKey(sessionID string) string {
	return fmt.Sprintf("%sframe:%s", r.prefix, sessionID)
}

func (r *RedisStore) Get(ctx context.Context, sessionID string) (*Frame, error) {
	data, err := r.client.Get(ctx, r.frameKey(sessionID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, notFound(sessionID)
	}
	if err != nil {
		return nil, errs.Wrap(errs.ErrCodeNetwork, err, "redis: get frame %s", sessionID)
	}
	var f Frame
	if err := json.Unmarshal(data, &f); err != nil {
		return nil, errs.Wrap(errs.ErrCodeInternal, err, "redis: decode frame %s", sessionID)
	}
	return &f, nil
}

func (r *RedisStore) Set(ctx context.Context, frame *Frame, ttl time.Duration) error {
	if err := validateFrame(frame); err != nil {
		return err
	}
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	data, err := json.Marshal(frame)
	if err != nil {
		return errs.Wrap(errs.ErrCodeInternal, err, "encode frame")
	}
	if err := r.client.Set(ctx, r.frameKey(frame.Session), data, ttl).Err(); err != nil {
		return errs.Wrap(errs.ErrCodeNetwork, err, "redis: set frame %s", frame.Session)
	}
	return nil
}

func (r *RedisStore) Delete(ctx context.Context, sessionID string) error {
	if err := r.client.Del(ctx, r.frameKey(sessionID)).Err(); err != nil {
		return errs.Wrap(errs.ErrCodeNetwork, err, "redis: delete frame %s", sessionID)
	}
	return nil
}

// Close closes the client if the store created it.
func (r *RedisStore) Close() error {
	if r.owned {
		return r.client.Close()
	}
	return nil
}

var _ Store = (*RedisStore)(nil)
