// Package cache wraps Redis with a JSON cache used for transaction
// metadata reads. Entries are invalidated when a transaction is consumed.
package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"ezpay/internal/models"

	"github.com/redis/go-redis/v9"
)

type CacheService struct {
	client *redis.Client
	ttl    time.Duration
}

func NewCacheService(client *redis.Client, defaultTTL time.Duration) *CacheService {
	return &CacheService{
		client: client,
		ttl:    defaultTTL,
	}
}

func (s *CacheService) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to marshal cache value: %w", err)
	}
	return s.client.Set(ctx, key, data, ttl).Err()
}

// Get unmarshals the cached value into dest and reports whether the key
// was present.
func (s *CacheService) Get(ctx context.Context, key string, dest interface{}) (bool, error) {
	data, err := s.client.Get(ctx, key).Bytes()
	if err != nil {
		if err == redis.Nil {
			return false, nil
		}
		return false, fmt.Errorf("failed to get cache value: %w", err)
	}
	if err := json.Unmarshal(data, dest); err != nil {
		return false, fmt.Errorf("failed to unmarshal cache value: %w", err)
	}
	return true, nil
}

func (s *CacheService) Delete(ctx context.Context, keys ...string) error {
	return s.client.Del(ctx, keys...).Err()
}

// Transaction metadata caching

func (s *CacheService) CacheTransaction(ctx context.Context, tx *models.QrTransaction) error {
	if tx == nil {
		return nil
	}
	// Cache entries only need to outlive the transaction itself.
	ttl := time.Until(tx.ExpireAt) + time.Minute
	if ttl < time.Minute {
		ttl = time.Minute
	}
	return s.Set(ctx, transactionKey(tx.TransactionID), tx, ttl)
}

func (s *CacheService) GetTransaction(ctx context.Context, transactionID string) (*models.QrTransaction, error) {
	var tx models.QrTransaction
	found, err := s.Get(ctx, transactionKey(transactionID), &tx)
	if err != nil || !found {
		return nil, err
	}
	return &tx, nil
}

func (s *CacheService) InvalidateTransaction(ctx context.Context, transactionID string) error {
	return s.Delete(ctx, transactionKey(transactionID))
}

func (s *CacheService) HealthCheck(ctx context.Context) error {
	if err := s.client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("redis connection failed: %w", err)
	}
	return nil
}

func (s *CacheService) Close() error {
	return s.client.Close()
}

func transactionKey(id string) string {
	return fmt.Sprintf("qrtx:%s", id)
}
