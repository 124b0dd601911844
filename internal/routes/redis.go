package routes

import (
	"context"
	"errors"
	"fmt"

	"github.com/go-redis/redis/v8"
)

// routesKey is the redis hash holding the route table.
const routesKey = "mlserve:routes"

// RedisStore keeps the route table in a redis hash so multiple routers can
// share one table and registrations take effect everywhere at once.
type RedisStore struct {
	cli *redis.Client
	key string
}

// NewRedisStore connects to the redis instance at addr and verifies it is
// reachable before returning.
func NewRedisStore(ctx context.Context, addr string) (*RedisStore, error) {
	cli := redis.NewClient(&redis.Options{Addr: addr})
	if err := cli.Ping(ctx).Err(); err != nil {
		_ = cli.Close()
		return nil, fmt.Errorf("redis ping %s: %w", addr, err)
	}
	return &RedisStore{cli: cli, key: routesKey}, nil
}

// NewRedisStoreWithClient wraps an existing client. The caller keeps
// ownership of the client lifecycle.
func NewRedisStoreWithClient(cli *redis.Client) *RedisStore {
	return &RedisStore{cli: cli, key: routesKey}
}

func (s *RedisStore) Lookup(ctx context.Context, model string) (string, error) {
	u, err := s.cli.HGet(ctx, s.key, model).Result()
	if errors.Is(err, redis.Nil) {
		return "", ErrUnknownModel(model)
	}
	if err != nil {
		return "", fmt.Errorf("redis lookup: %w", err)
	}
	return u, nil
}

func (s *RedisStore) Set(ctx context.Context, model, baseURL string) error {
	if err := s.cli.HSet(ctx, s.key, model, baseURL).Err(); err != nil {
		return fmt.Errorf("redis set: %w", err)
	}
	return nil
}

func (s *RedisStore) Delete(ctx context.Context, model string) error {
	if err := s.cli.HDel(ctx, s.key, model).Err(); err != nil {
		return fmt.Errorf("redis delete: %w", err)
	}
	return nil
}

func (s *RedisStore) List(ctx context.Context) (map[string]string, error) {
	table, err := s.cli.HGetAll(ctx, s.key).Result()
	if err != nil {
		return nil, fmt.Errorf("redis list: %w", err)
	}
	return table, nil
}

// Close releases the underlying redis connection.
func (s *RedisStore) Close() error { return s.cli.Close() }
