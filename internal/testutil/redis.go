//go:build integration

// Package testutil starts the real backends integration tests run against.
package testutil

import (
	"context"
	"fmt"
	"testing"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

// RedisImage is the image StartRedis runs.
const RedisImage = "redis:7-alpine"

// StartRedis starts a disposable Redis container with the noeviction policy,
// so that writes beyond maxmemory fail with OOM instead of evicting keys.
// The container is terminated when the test finishes.
func StartRedis(t *testing.T) *redis.Options {
	t.Helper()
	ctx := context.Background()

	req := testcontainers.ContainerRequest{
		Image:        RedisImage,
		ExposedPorts: []string{"6379/tcp"},
		Cmd:          []string{"redis-server", "--maxmemory-policy", "noeviction"},
		WaitingFor:   wait.ForLog("Ready to accept connections"),
	}

	redisC, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	require.NoError(t, err, "Failed to start Redis container")

	t.Cleanup(func() {
		if err := redisC.Terminate(context.Background()); err != nil {
			t.Logf("Failed to terminate Redis container: %v", err)
		}
	})

	host, err := redisC.Host(ctx)
	require.NoError(t, err, "Failed to get container host")

	port, err := redisC.MappedPort(ctx, "6379")
	require.NoError(t, err, "Failed to get container port")

	return &redis.Options{Addr: fmt.Sprintf("%s:%s", host, port.Port())}
}

// SetMaxMemory changes the container's maxmemory limit.
// A limit of 1 byte makes every write fail with OOM.
func SetMaxMemory(t *testing.T, opts *redis.Options, limit string) {
	t.Helper()

	rdb := redis.NewClient(opts)
	defer rdb.Close()

	err := rdb.ConfigSet(context.Background(), "maxmemory", limit).Err()
	require.NoError(t, err, "Failed to set maxmemory")
}
