//go:build integration

package redis

import (
	"context"
	"fmt"
	"testing"
	"time"

	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
	"go.uber.org/zap"
)

func startRedis(t *testing.T) *Client {
	t.Helper()
	ctx := context.Background()

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        "redis:7-alpine",
			ExposedPorts: []string{"6379/tcp"},
			WaitingFor:   wait.ForLog("Ready to accept connections").WithStartupTimeout(30 * time.Second),
		},
		Started: true,
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = container.Terminate(context.Background()) })

	host, err := container.Host(ctx)
	require.NoError(t, err)
	port, err := container.MappedPort(ctx, "6379/tcp")
	require.NoError(t, err)

	rdb := goredis.NewClient(&goredis.Options{Addr: fmt.Sprintf("%s:%s", host, port.Port())})
	client := NewFromUniversal(rdb, zap.NewNop())
	t.Cleanup(func() { _ = client.Close() })

	require.NoError(t, client.Ping(ctx))
	return client
}

func TestBlacklist(t *testing.T) {
	client := startRedis(t)
	ctx := context.Background()

	revoked, err := client.IsBlacklisted(ctx, "jti-1")
	require.NoError(t, err)
	require.False(t, revoked)

	require.NoError(t, client.BlacklistToken(ctx, "jti-1", time.Minute))
	revoked, err = client.IsBlacklisted(ctx, "jti-1")
	require.NoError(t, err)
	require.True(t, revoked)

	// an already expired token needs no entry
	require.NoError(t, client.BlacklistToken(ctx, "jti-2", 0))
	revoked, err = client.IsBlacklisted(ctx, "jti-2")
	require.NoError(t, err)
	require.False(t, revoked)
}

func TestCheckRateLimit(t *testing.T) {
	client := startRedis(t)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		allowed, err := client.CheckRateLimit(ctx, "rate_limit:test", 3, time.Minute)
		require.NoError(t, err)
		require.True(t, allowed, "hit %d should be within the limit", i+1)
	}

	allowed, err := client.CheckRateLimit(ctx, "rate_limit:test", 3, time.Minute)
	require.NoError(t, err)
	require.False(t, allowed, "fourth hit should exceed the limit")

	allowed, err = client.CheckRateLimit(ctx, "rate_limit:other", 3, time.Minute)
	require.NoError(t, err)
	require.True(t, allowed, "keys are limited independently")
}
