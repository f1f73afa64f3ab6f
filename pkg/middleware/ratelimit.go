package middleware

import (
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/redis/go-redis/v9"
	"github.com/ulule/limiter/v3"
	mhttp "github.com/ulule/limiter/v3/drivers/middleware/stdlib"
	"github.com/ulule/limiter/v3/drivers/store/memory"
	redisstore "github.com/ulule/limiter/v3/drivers/store/redis"

	"github.com/lumen-rp/cadhub/pkg/configuration"
)

// RateLimit enforces a global requests-per-second limit keyed by client IP.
// Storage is in-memory by default; redis when configured.
func RateLimit(opts configuration.RateLimitOptions) (mux.MiddlewareFunc, error) {
	rate := limiter.Rate{
		Period: time.Second,
		Limit:  int64(opts.GlobalRPS),
	}

	var store limiter.Store
	if opts.Storage == "redis" {
		client := redis.NewClient(&redis.Options{Addr: opts.RedisURL})
		redisStore, err := redisstore.NewStore(client)
		if err != nil {
			return nil, err
		}
		store = redisStore
	} else {
		store = memory.NewStore()
	}

	instance := limiter.New(store, rate)
	wrapped := mhttp.NewMiddleware(instance)
	return func(next http.Handler) http.Handler {
		return wrapped.Handler(next)
	}, nil
}
