package routes

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRedisStore(t *testing.T) *RedisStore {
	t.Helper()
	mr := miniredis.RunT(t)
	cli := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = cli.Close() })
	return NewRedisStoreWithClient(cli)
}

func TestRedisStoreRoundTrip(t *testing.T) {
	s := newTestRedisStore(t)
	ctx := context.Background()

	_, err := s.Lookup(ctx, "sentiment-v2")
	assert.True(t, IsUnknownModel(err))

	require.NoError(t, s.Set(ctx, "sentiment-v2", "http://10.0.0.5:8080"))
	u, err := s.Lookup(ctx, "sentiment-v2")
	require.NoError(t, err)
	assert.Equal(t, "http://10.0.0.5:8080", u)

	require.NoError(t, s.Set(ctx, "spam-filter", "http://10.0.0.6:8080"))
	table, err := s.List(ctx)
	require.NoError(t, err)
	assert.Len(t, table, 2)

	require.NoError(t, s.Delete(ctx, "sentiment-v2"))
	_, err = s.Lookup(ctx, "sentiment-v2")
	assert.True(t, IsUnknownModel(err))

	// Deleting a missing route is not an error.
	require.NoError(t, s.Delete(ctx, "sentiment-v2"))
}

func TestNewRedisStoreUnreachable(t *testing.T) {
	_, err := NewRedisStore(context.Background(), "127.0.0.1:1")
	require.Error(t, err)
}
