package csrf_test

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/fieldhub/pkg/csrf"
)

func TestRedisStore(t *testing.T) {
	url := os.Getenv("REDIS_URL")
	if url == "" {
		t.Skip("REDIS_URL not set")
	}

	opts, err := redis.ParseURL(url)
	require.NoError(t, err)
	client := redis.NewClient(opts)
	t.Cleanup(func() { _ = client.Close() })

	ctx := context.Background()
	binding := "user:it-" + uuid.NewString()
	t.Cleanup(func() { client.Del(context.Background(), "csrf:"+binding) })

	s := csrf.NewRedisStore(client)

	_, err = s.Get(ctx, binding)
	assert.ErrorIs(t, err, csrf.ErrTokenNotFound)

	now := time.Now().UTC().Truncate(time.Second)
	first := csrf.Token{Value: "first", IssuedAt: now, ExpiresAt: now.Add(time.Minute)}
	got, err := s.GetOrCreate(ctx, binding, first)
	require.NoError(t, err)
	assert.Equal(t, "first", got.Value)

	got, err = s.GetOrCreate(ctx, binding, csrf.Token{Value: "second", IssuedAt: now, ExpiresAt: now.Add(time.Minute)})
	require.NoError(t, err)
	assert.Equal(t, "first", got.Value, "first writer wins")

	ttl, err := client.TTL(ctx, "csrf:"+binding).Result()
	require.NoError(t, err)
	assert.Greater(t, ttl, time.Duration(0))

	got, err = s.Get(ctx, binding)
	require.NoError(t, err)
	assert.Equal(t, "first", got.Value)
	assert.True(t, got.IssuedAt.Equal(first.IssuedAt))
	assert.WithinDuration(t, first.ExpiresAt, got.ExpiresAt, 2*time.Second)

	t.Run("later fetch extends the live token", func(t *testing.T) {
		later := time.Now().Add(time.Hour)
		got, err := s.GetOrCreate(ctx, binding, csrf.Token{Value: "third", IssuedAt: time.Now(), ExpiresAt: later})
		require.NoError(t, err)
		assert.Equal(t, "first", got.Value)
		assert.WithinDuration(t, later, got.ExpiresAt, 2*time.Second)

		ttl, err := client.PTTL(ctx, "csrf:"+binding).Result()
		require.NoError(t, err)
		assert.Greater(t, ttl, 59*time.Minute)
	})

	t.Run("shorter candidate does not shorten the token", func(t *testing.T) {
		got, err := s.GetOrCreate(ctx, binding, csrf.Token{Value: "fourth", IssuedAt: time.Now(), ExpiresAt: time.Now().Add(time.Second)})
		require.NoError(t, err)
		assert.Equal(t, "first", got.Value)
		assert.Greater(t, time.Until(got.ExpiresAt), 59*time.Minute)
	})
}
