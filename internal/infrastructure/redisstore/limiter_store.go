package redisstore

import (
	"github.com/redis/go-redis/v9"
	"github.com/ulule/limiter/v3"
	sredis "github.com/ulule/limiter/v3/drivers/store/redis"
)

const limiterPrefix = "ratelimit"

// NewLimiterStore store del rate limiter sobre Redis, compartido entre réplicas.
func NewLimiterStore(rdb *redis.Client) (limiter.Store, error) {
	return sredis.NewStoreWithOptions(rdb, limiter.StoreOptions{Prefix: limiterPrefix})
}
