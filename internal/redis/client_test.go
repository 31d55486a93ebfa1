package redis_test

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/KirkDiggler/rpg-dicebot/internal/redis"
)

func TestConnect(t *testing.T) {
	t.Run("single instance", func(t *testing.T) {
		mr := miniredis.RunT(t)

		client, err := redis.Connect(redis.Endpoint{Addrs: []string{mr.Addr()}}, nil)
		require.NoError(t, err)
		defer func() { _ = client.Close() }()

		require.NoError(t, client.Set(context.Background(), "k", "v", 0).Err())
		got, err := mr.Get("k")
		require.NoError(t, err)
		assert.Equal(t, "v", got)
	})

	t.Run("no address", func(t *testing.T) {
		_, err := redis.Connect(redis.Endpoint{}, nil)
		assert.Error(t, err)
	})

	t.Run("sentinel without addresses", func(t *testing.T) {
		_, err := redis.Connect(redis.Endpoint{MasterName: "mymaster"}, nil)
		assert.Error(t, err)
	})

	t.Run("cluster", func(t *testing.T) {
		client, err := redis.Connect(redis.Endpoint{Addrs: []string{"a:6379", "b:6379"}}, nil)
		require.NoError(t, err)
		assert.NotNil(t, client)
		_ = client.Close()
	})
}
