// Package testutils provides helpers shared by tests: an in-memory Redis
// and a sample rulebook text.
package testutils

import (
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/require"

	"github.com/KirkDiggler/lorelegacy/internal/redis"
)

// NewRedisStore starts a miniredis server and connects a client to it. The
// returned func closes both; the server is also reachable for inspecting keys.
func NewRedisStore(t *testing.T) (redis.Client, *miniredis.Miniredis, func()) {
	t.Helper()

	mr, err := miniredis.Run()
	require.NoError(t, err, "failed to start miniredis")

	client, err := redis.NewClient(mr.Addr(), nil)
	require.NoError(t, err, "failed to create redis client")

	return client, mr, func() {
		_ = client.Close()
		mr.Close()
	}
}
