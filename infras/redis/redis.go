package redis

import (
	"context"
	"net"
	"time"
	"todolist/config"

	goRedis "github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

const (
	redisDialTimeout  = 5 * time.Second
	redisReadTimeout  = 3 * time.Second
	redisWriteTimeout = 3 * time.Second
)

// New connects to the primary Redis used for the revoked-token denylist. The
// service can run without it, so a failed ping is logged instead of being fatal.
func New(config *config.Config) *goRedis.Client {
	client := goRedis.NewClient(&goRedis.Options{
		Addr:         net.JoinHostPort(config.Cache.Redis.Primary.Host, config.Cache.Redis.Primary.Port),
		Password:     config.Cache.Redis.Primary.Password,
		DB:           config.Cache.Redis.Primary.DB,
		DialTimeout:  redisDialTimeout,
		ReadTimeout:  redisReadTimeout,
		WriteTimeout: redisWriteTimeout,
	})

	ctx, cancel := context.WithTimeout(context.Background(), redisDialTimeout)
	defer cancel()

	if _, err := client.Ping(ctx).Result(); err != nil {
		log.Error().Err(err).Msg("Failed to connect to Redis, token revocation checks will fail open")

		return client
	}

	log.Info().
		Int("db", config.Cache.Redis.Primary.DB).
		Str("host", config.Cache.Redis.Primary.Host).
		Str("port", config.Cache.Redis.Primary.Port).
		Msg("Connected to Redis")

	return client
}
