package lock

import (
	"context"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"

	"github.com/BruksfildServices01/rental-scheduler/internal/config"
	"github.com/BruksfildServices01/rental-scheduler/internal/httperr"
)

// só apaga a chave se ainda for nossa
var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

type RedisLocker struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisClient devolve nil se REDIS_ADDR estiver vazio ou o ping falhar.
func NewRedisClient(cfg *config.Config) *redis.Client {
	if cfg.RedisAddr == "" {
		return nil
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		log.WithError(err).Warn("redis unavailable, booking lock disabled")
		_ = client.Close()
		return nil
	}
	return client
}

func NewRedisLocker(client *redis.Client, ttl time.Duration) *RedisLocker {
	return &RedisLocker{client: client, ttl: ttl}
}

// Lock tenta uma vez; se outra request segura a chave, o veículo está
// em disputa e devolvemos Unavailable.
func (l *RedisLocker) Lock(ctx context.Context, key string) (func(), error) {
	token := uuid.NewString()
	redisKey := "booking-lock:" + key

	ok, err := l.client.SetNX(ctx, redisKey, token, l.ttl).Result()
	if err != nil {
		return nil, httperr.Infra(errors.Wrap(err, "redis setnx"), "lock.acquire")
	}
	if !ok {
		return nil, httperr.ErrBusiness(httperr.KindUnavailable, "vehicle_booking_in_progress")
	}

	return func() {
		releaseCtx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()

		if err := releaseScript.Run(releaseCtx, l.client, []string{redisKey}, token).Err(); err != nil {
			log.WithError(err).WithField("key", redisKey).Warn("booking lock release failed")
		}
	}, nil
}

// Noop é usado quando não há Redis; a transação serializável segura a corrida.
type Noop struct{}

func (Noop) Lock(context.Context, string) (func(), error) {
	return func() {}, nil
}
