package security

import (
	"fmt"
	"time"

	"github.com/pocketbase/pocketbase/apis"
	"github.com/pocketbase/pocketbase/core"
	"github.com/redis/go-redis/v9"

	"movie-night/config"
)

// Throttle caps request frequency per client IP using a fixed Redis window.
// The app serves a handful of friends, so this only has to stop runaway
// clients and vote spamming, not distributed abuse.
type Throttle struct {
	redis  *redis.Client
	limit  int64
	window time.Duration
}

func NewThrottle(redisClient *redis.Client, cfg *config.Config) *Throttle {
	return &Throttle{
		redis:  redisClient,
		limit:  int64(cfg.ThrottleLimit),
		window: cfg.ThrottleWindow,
	}
}

// Limit is a request middleware. Redis being down fails open: a throttle
// outage should not take the app with it.
func (t *Throttle) Limit(e *core.RequestEvent) error {
	ctx := e.Request.Context()
	key := fmt.Sprintf("throttle:%s", e.RealIP())

	count, err := t.redis.Incr(ctx, key).Result()
	if err != nil {
		return e.Next()
	}
	if count == 1 {
		t.redis.Expire(ctx, key, t.window)
	}
	if count > t.limit {
		return apis.NewTooManyRequestsError("Too many requests. Please slow down.", nil)
	}

	return e.Next()
}
