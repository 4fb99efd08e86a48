// Package cache provides the Redis-backed cache used for hot read paths:
// user lookups, payment-command reads by reference id, and per-account
// pre-approval lists.
package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"custos/internal/models"

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

// Base operations
func (s *CacheService) Set(ctx context.Context, key string, value interface{}) error {
	return s.SetWithTTL(ctx, key, value, s.ttl)
}

func (s *CacheService) SetWithTTL(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to marshal cache value: %w", err)
	}
	return s.client.Set(ctx, key, data, ttl).Err()
}

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

// Key generation
func (s *CacheService) GenerateKey(entityType, keyType string, value interface{}) string {
	return fmt.Sprintf("%s:%s:%v", entityType, keyType, value)
}

// Payment command caching

func (s *CacheService) CachePaymentCommand(ctx context.Context, record *models.PaymentCommand) error {
	key := s.GenerateKey("payment_command", "ref", record.ReferenceID)
	return s.Set(ctx, key, record)
}

func (s *CacheService) GetPaymentCommand(ctx context.Context, referenceID string) (*models.PaymentCommand, error) {
	key := s.GenerateKey("payment_command", "ref", referenceID)
	var record models.PaymentCommand
	found, err := s.Get(ctx, key, &record)
	if err != nil || !found {
		return nil, err
	}
	return &record, nil
}

// Pre-approval list caching

func (s *CacheService) CachePreApprovals(ctx context.Context, accountID uint, approvals []models.FundsPullPreApproval) error {
	key := s.GenerateKey("preapprovals", "account", accountID)
	return s.Set(ctx, key, approvals)
}

func (s *CacheService) GetPreApprovals(ctx context.Context, accountID uint) ([]models.FundsPullPreApproval, bool, error) {
	key := s.GenerateKey("preapprovals", "account", accountID)
	var approvals []models.FundsPullPreApproval
	found, err := s.Get(ctx, key, &approvals)
	if err != nil || !found {
		return nil, false, err
	}
	return approvals, true, nil
}

func (s *CacheService) InvalidatePreApprovals(ctx context.Context, accountID uint) error {
	return s.Delete(ctx, s.GenerateKey("preapprovals", "account", accountID))
}

// FlushAll flushes all keys from the cache
func (s *CacheService) FlushAll(ctx context.Context) error {
	return s.client.FlushAll(ctx).Err()
}

// Close closes the Redis client connection
func (s *CacheService) Close() error {
	return s.client.Close()
}
