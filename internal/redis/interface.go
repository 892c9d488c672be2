package redis

import (
	"github.com/redis/go-redis/v9"
)

// Client is what the content store talks to. Standalone, cluster and
// miniredis-backed clients all satisfy it.
type Client interface {
	redis.UniversalClient
}
