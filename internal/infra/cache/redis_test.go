package cache

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/contoso/university/internal/infra/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRedisClient(t *testing.T) {
	t.Run("disabled without address", func(t *testing.T) {
		_, err := NewRedisClient(context.Background(), &config.RedisConfig{})
		assert.ErrorIs(t, err, ErrRedisDisabled)
	})

	t.Run("connects", func(t *testing.T) {
		mr := miniredis.RunT(t)

		client, err := NewRedisClient(context.Background(), &config.RedisConfig{Address: mr.Addr()})
		require.NoError(t, err)
		defer client.Close()

		require.NoError(t, client.Set(context.Background(), "k", "v", 0).Err())
		got, err := mr.Get("k")
		require.NoError(t, err)
		assert.Equal(t, "v", got)
	})

	t.Run("unreachable server", func(t *testing.T) {
		mr := miniredis.RunT(t)
		addr := mr.Addr()
		mr.Close()

		_, err := NewRedisClient(context.Background(), &config.RedisConfig{Address: addr})
		assert.Error(t, err)
	})
}
