//go:build integration

package token

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/24-30496-max/project-helping-hand-2.0/internal/marketplace/domain"
	"github.com/24-30496-max/project-helping-hand-2.0/internal/platform/logger"
	"github.com/ory/dockertest/v3"
	"github.com/ory/dockertest/v3/docker"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func startRedis(t *testing.T) *redis.Client {
	t.Helper()
	pool, err := dockertest.NewPool("")
	require.NoError(t, err)
	require.NoError(t, pool.Client.Ping())

	resource, err := pool.RunWithOptions(&dockertest.RunOptions{Repository: "redis", Tag: "7-alpine"},
		func(config *docker.HostConfig) {
			config.AutoRemove = true
			config.RestartPolicy = docker.RestartPolicy{Name: "no"}
		})
	require.NoError(t, err)
	t.Cleanup(func() { _ = pool.Purge(resource) })

	var client *redis.Client
	require.NoError(t, pool.Retry(func() error {
		var errRetry error
		client, errRetry = NewRedisClient(context.Background(), fmt.Sprintf("localhost:%s", resource.GetPort("6379/tcp")), "", 0)
		return errRetry
	}))
	t.Cleanup(func() { _ = client.Close() })
	return client
}

func TestRedisRevocation(t *testing.T) {
	client := startRedis(t)
	m := NewManager("integration-secret", time.Hour, NewRedisRevocationStore(client), logger.NewNopLogger())
	ctx := context.Background()

	signed, _, err := m.Issue(domain.Principal{Kind: domain.PrincipalUser, ID: 3, Username: "alice"})
	require.NoError(t, err)
	session, err := m.Parse(ctx, signed)
	require.NoError(t, err)

	require.NoError(t, m.Revoke(ctx, session))
	_, err = m.Parse(ctx, signed)
	assert.ErrorIs(t, err, domain.ErrUnauthenticated)

	ttl, err := client.TTL(ctx, revokedKeyPrefix+session.TokenID).Result()
	require.NoError(t, err)
	assert.Greater(t, ttl, 50*time.Minute)
}
