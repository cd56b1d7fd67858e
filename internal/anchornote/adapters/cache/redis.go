// Package cache содержит реализацию кэша записей реестра с использованием Redis.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"anchornote/internal/anchornote/config"
	"anchornote/internal/anchornote/ports/cache"
	"anchornote/internal/anchornote/ports/ledger"
	"anchornote/pkg/logger"
)

// Константы для логирования.
const (
	LogMethodGet   = "get"
	LogMethodSet   = "set"
	LogMethodClose = "close"

	ErrorFailedToConnect   = "failed to connect to redis"
	ErrorFailedToGet       = "failed to get ledger record from redis"
	ErrorFailedToSet       = "failed to set ledger record in redis"
	ErrorFailedToMarshal   = "failed to marshal ledger record"
	ErrorFailedToUnmarshal = "failed to unmarshal ledger record"
	ErrorFailedToClose     = "failed to close redis connection"
)

// Префикс ключей записей реестра.
const recordKeyPrefix = "ledger:record:"

// RedisCache реализует интерфейс LedgerRecordCache с использованием Redis.
// Кэшируются только подтвержденные записи, поэтому инвалидация не нужна.
type RedisCache struct {
	client     *redis.Client
	defaultTTL time.Duration
}

// NewRedisCache создает новый экземпляр RedisCache.
func NewRedisCache(ctx context.Context, cfg *config.RedisConfig) (cache.LedgerRecordCache, error) {
	client := redis.NewClient(&redis.Options{
		Addr:            cfg.GetAddress(),
		Password:        cfg.Password,
		DB:              cfg.DB,
		DialTimeout:     cfg.ConnectTimeout,
		ReadTimeout:     cfg.ReadTimeout,
		WriteTimeout:    cfg.WriteTimeout,
		PoolSize:        cfg.PoolSize,
		MinIdleConns:    cfg.MinIdle,
		ConnMaxIdleTime: cfg.IdleTimeout,
		ConnMaxLifetime: cfg.MaxConnLifetime,
	})

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", ErrorFailedToConnect, err)
	}

	return &RedisCache{
		client:     client,
		defaultTTL: cfg.DefaultTTL,
	}, nil
}

// Get возвращает запись реестра по ссылке. Отсутствие записи - не ошибка.
func (c *RedisCache) Get(ctx context.Context, ref ledger.Reference) (*ledger.Record, error) {
	log := logger.Log(ctx).With(zap.String("method", LogMethodGet), zap.String("reference", string(ref)))

	value, err := c.client.Get(ctx, recordKey(ref)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		log.Error(ctx, ErrorFailedToGet, zap.Error(err))
		return nil, fmt.Errorf("%s: %w", ErrorFailedToGet, err)
	}

	var record ledger.Record
	if err := json.Unmarshal([]byte(value), &record); err != nil {
		log.Error(ctx, ErrorFailedToUnmarshal, zap.Error(err))
		return nil, fmt.Errorf("%s: %w", ErrorFailedToUnmarshal, err)
	}

	return &record, nil
}

// Set сохраняет запись реестра по ссылке.
func (c *RedisCache) Set(ctx context.Context, ref ledger.Reference, record *ledger.Record) error {
	log := logger.Log(ctx).With(zap.String("method", LogMethodSet), zap.String("reference", string(ref)))

	value, err := json.Marshal(record)
	if err != nil {
		log.Error(ctx, ErrorFailedToMarshal, zap.Error(err))
		return fmt.Errorf("%s: %w", ErrorFailedToMarshal, err)
	}

	if err := c.client.Set(ctx, recordKey(ref), value, c.defaultTTL).Err(); err != nil {
		log.Error(ctx, ErrorFailedToSet, zap.Error(err))
		return fmt.Errorf("%s: %w", ErrorFailedToSet, err)
	}

	return nil
}

// Close закрывает соединение с Redis.
func (c *RedisCache) Close() error {
	if err := c.client.Close(); err != nil {
		return fmt.Errorf("%s: %w", ErrorFailedToClose, err)
	}
	return nil
}

// recordKey возвращает ключ записи реестра.
func recordKey(ref ledger.Reference) string {
	return recordKeyPrefix + string(ref)
}
