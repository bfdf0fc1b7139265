package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"codeitmall/pkg/metrics"
	"codeitmall/sizereview-service/internal/app/sizereviews/entity"
)

const (
	serviceName = "sizereview-service"
	keyPrefix   = "size_fit:"

	maxWatchRetries = 3
)

// RedisAggregateCache хранит FitAggregate товара в Redis как JSON
type RedisAggregateCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisClient создает клиент Redis и проверяет соединение
func NewRedisClient(ctx context.Context, addr, password string, db int) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	return client, nil
}

// NewRedisAggregateCache создает кеш агрегатов. ttl = 0 - без срока жизни
func NewRedisAggregateCache(client *redis.Client, ttl time.Duration) *RedisAggregateCache {
	return &RedisAggregateCache{client: client, ttl: ttl}
}

func aggregateKey(productID string) string {
	return keyPrefix + productID
}

// Get возвращает агрегат товара, при промахе - (nil, nil)
func (c *RedisAggregateCache) Get(ctx context.Context, productID string) (*entity.FitAggregate, error) {
	timer := metrics.NewRedisTimer(serviceName, metrics.RedisOpGet)
	defer timer.ObserveDuration()

	data, err := c.client.Get(ctx, aggregateKey(productID)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			metrics.RecordCacheMiss(serviceName, keyPrefix)
			return nil, nil
		}
		metrics.RecordRedisError(serviceName, metrics.RedisOpGet)
		return nil, fmt.Errorf("failed to get aggregate from redis: %w", err)
	}

	var agg entity.FitAggregate
	if err := json.Unmarshal(data, &agg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal aggregate: %w", err)
	}

	metrics.RecordCacheHit(serviceName, keyPrefix)
	return &agg, nil
}

// SetIfNewer записывает агрегат под WATCH: если в кеше лежит агрегат
// с большим LastSeq (или тем же LastSeq и большим Total), запись пропускается
func (c *RedisAggregateCache) SetIfNewer(ctx context.Context, agg *entity.FitAggregate) (bool, error) {
	timer := metrics.NewRedisTimer(serviceName, metrics.RedisOpWatch)
	defer timer.ObserveDuration()

	key := aggregateKey(agg.ProductID)
	data, err := json.Marshal(agg)
	if err != nil {
		return false, fmt.Errorf("failed to marshal aggregate: %w", err)
	}

	var stored bool
	txf := func(tx *redis.Tx) error {
		stored = false

		current, err := tx.Get(ctx, key).Bytes()
		if err != nil && !errors.Is(err, redis.Nil) {
			return err
		}
		if err == nil {
			var cached entity.FitAggregate
			// нечитаемое значение просто перезаписываем
			if json.Unmarshal(current, &cached) == nil && !isNewer(agg, &cached) {
				return nil
			}
		}

		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, key, data, c.ttl)
			return nil
		})
		if err == nil {
			stored = true
		}
		return err
	}

	for attempt := 0; attempt < maxWatchRetries; attempt++ {
		err = c.client.Watch(ctx, txf, key)
		if !errors.Is(err, redis.TxFailedErr) {
			break
		}
	}
	if err != nil {
		metrics.RecordRedisError(serviceName, metrics.RedisOpWatch)
		return false, fmt.Errorf("failed to set aggregate in redis: %w", err)
	}

	return stored, nil
}

func isNewer(candidate, cached *entity.FitAggregate) bool {
	if candidate.LastSeq != cached.LastSeq {
		return candidate.LastSeq > cached.LastSeq
	}
	return candidate.Total >= cached.Total
}

func (c *RedisAggregateCache) Delete(ctx context.Context, productID string) error {
	timer := metrics.NewRedisTimer(serviceName, metrics.RedisOpDel)
	defer timer.ObserveDuration()

	if err := c.client.Del(ctx, aggregateKey(productID)).Err(); err != nil {
		metrics.RecordRedisError(serviceName, metrics.RedisOpDel)
		return fmt.Errorf("failed to delete aggregate: %w", err)
	}
	return nil
}

// Products обходит ключи size_fit:* через SCAN (без блокирующего KEYS)
func (c *RedisAggregateCache) Products(ctx context.Context) ([]string, error) {
	timer := metrics.NewRedisTimer(serviceName, metrics.RedisOpScan)
	defer timer.ObserveDuration()

	var products []string
	iter := c.client.Scan(ctx, 0, keyPrefix+"*", 100).Iterator()
	for iter.Next(ctx) {
		products = append(products, strings.TrimPrefix(iter.Val(), keyPrefix))
	}
	if err := iter.Err(); err != nil {
		metrics.RecordRedisError(serviceName, metrics.RedisOpScan)
		return nil, fmt.Errorf("failed to scan aggregate keys: %w", err)
	}

	return products, nil
}

func (c *RedisAggregateCache) Ping(ctx context.Context) error {
	timer := metrics.NewRedisTimer(serviceName, metrics.RedisOpPing)
	defer timer.ObserveDuration()

	return c.client.Ping(ctx).Err()
}

func (c *RedisAggregateCache) Close() error {
	return c.client.Close()
}
