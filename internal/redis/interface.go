package redis

import (
	"github.com/redis/go-redis/v9"
)

// Client wraps redis.UniversalClient so repositories do not depend on the deployment mode
type Client interface {
	redis.UniversalClient
}
