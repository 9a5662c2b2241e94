package cache

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

type summary struct {
	Count int    `json:"count"`
	Total string `json:"total"`
}

func TestNoopCache(t *testing.T) {
	ctx := context.Background()
	var c Cache = NoopCache{}

	require.NoError(t, c.Set(ctx, "k", summary{Count: 1}, time.Minute))
	var got summary
	found, err := c.Get(ctx, "k", &got)
	require.NoError(t, err)
	assert.False(t, found)
	assert.NoError(t, c.Delete(ctx, "k"))
}

func startRedis(t *testing.T) string {
	t.Helper()
	if os.Getenv("INTEGRATION_TEST") != "1" {
		t.Skip("set INTEGRATION_TEST=1 to run Redis integration tests")
	}

	ctx := context.Background()
	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        "redis:7-alpine",
			ExposedPorts: []string{"6379/tcp"},
			WaitingFor:   wait.ForLog("Ready to accept connections"),
		},
		Started: true,
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = container.Terminate(context.Background()) })

	endpoint, err := container.Endpoint(ctx, "")
	require.NoError(t, err)
	return endpoint
}

func TestRedisCache_Integration(t *testing.T) {
	addr := startRedis(t)
	ctx := context.Background()

	c, err := NewRedisCache(ctx, RedisOptions{Addr: addr, Prefix: "test:"})
	require.NoError(t, err)
	defer c.Close()

	var got summary
	found, err := c.Get(ctx, "summary:c1:2024-01", &got)
	require.NoError(t, err)
	assert.False(t, found)

	want := summary{Count: 3, Total: "1500000.00"}
	require.NoError(t, c.Set(ctx, "summary:c1:2024-01", want, time.Minute))

	found, err = c.Get(ctx, "summary:c1:2024-01", &got)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, want, got)

	require.NoError(t, c.Delete(ctx, "summary:c1:2024-01"))
	found, err = c.Get(ctx, "summary:c1:2024-01", &got)
	require.NoError(t, err)
	assert.False(t, found)
}

func TestRedisCache_CorruptEntryIsDropped(t *testing.T) {
	addr := startRedis(t)
	ctx := context.Background()

	client := redis.NewClient(&redis.Options{Addr: addr})
	defer client.Close()
	c := NewRedisCacheWithClient(client, "")

	require.NoError(t, client.Set(ctx, "bad", "{not json", time.Minute).Err())

	var got summary
	found, err := c.Get(ctx, "bad", &got)
	assert.Error(t, err)
	assert.False(t, found)

	n, err := client.Exists(ctx, "bad").Result()
	require.NoError(t, err)
	assert.Equal(t, int64(0), n)
}
