package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/petalmart/storefront/internal/log"
)

type RedisStore struct {
	client *redis.Client
}

func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{client: client}
}

func (s *RedisStore) Get(c context.Context, key string) (string, bool) {
	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "RedisStore Get").
		Str(log.KeyStorageKey, key).
		Logger()

	value, err := s.client.Get(c, key).Result()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			err = fmt.Errorf("failed reading key=%s with error=%w", key, err)
			logger.Warn().Err(err).Msg(err.Error())
		}
		return "", false
	}
	return value, true
}

func (s *RedisStore) Set(c context.Context, key string, value string) {
	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "RedisStore Set").
		Str(log.KeyStorageKey, key).
		Logger()

	err := s.client.Set(c, key, value, 0).Err()
	if err != nil {
		err = fmt.Errorf("failed writing key=%s with error=%w", key, err)
		logger.Warn().Err(err).Msg(err.Error())
	}
}

func (s *RedisStore) Remove(c context.Context, key string) {
	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "RedisStore Remove").
		Str(log.KeyStorageKey, key).
		Logger()

	err := s.client.Del(c, key).Err()
	if err != nil {
		err = fmt.Errorf("failed removing key=%s with error=%w", key, err)
		logger.Warn().Err(err).Msg(err.Error())
	}
}
