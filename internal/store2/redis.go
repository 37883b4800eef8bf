package store2

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

// DefaultKeyPrefix is where the Store2 front end publishes attendance sessions.
const DefaultKeyPrefix = "store2:session:"

// ErrSessionNotFound indicates the session id is unknown or expired.
var ErrSessionNotFound = errors.New("store2: session not found")

// RedisLoader reads Store2 session users published in Redis.
type RedisLoader struct {
	client  *redis.Client
	prefix  string
	timeout time.Duration
}

// RedisOptions configures a RedisLoader.
type RedisOptions struct {
	Addr      string
	Password  string
	DB        int
	KeyPrefix string
	Timeout   time.Duration
}

// NewRedisLoader connects a loader. It does not ping; failures surface on Load.
func NewRedisLoader(opts RedisOptions) *RedisLoader {
	prefix := opts.KeyPrefix
	if prefix == "" {
		prefix = DefaultKeyPrefix
	}
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = 2 * time.Second
	}
	client := redis.NewClient(&redis.Options{
		Addr:         opts.Addr,
		Password:     opts.Password,
		DB:           opts.DB,
		DialTimeout:  timeout,
		ReadTimeout:  timeout,
		WriteTimeout: timeout,
		MaxRetries:   -1,
	})
	return &RedisLoader{client: client, prefix: prefix, timeout: timeout}
}

// Key returns the Redis key holding sessionID.
func (l *RedisLoader) Key(sessionID string) string {
	return l.prefix + strings.TrimSpace(sessionID)
}

// Load fetches and decodes the session user for sessionID.
func (l *RedisLoader) Load(ctx context.Context, sessionID string) (*SessionUser, error) {
	if strings.TrimSpace(sessionID) == "" {
		return nil, ErrSessionNotFound
	}
	ctx, cancel := context.WithTimeout(ctx, l.timeout)
	defer cancel()

	raw, err := l.client.Get(ctx, l.Key(sessionID)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrSessionNotFound
		}
		return nil, fmt.Errorf("store2: load session: %w", err)
	}
	return DecodeSessionUser(raw)
}

// Close releases the Redis connection pool.
func (l *RedisLoader) Close() error {
	return l.client.Close()
}
