package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// VisitorStorage is the durable key/value space of one visitor.
// Key format: storefront:v:<visitor_id>:<key>
type VisitorStorage struct {
	client    *redis.Client
	visitorID string
}

// NewVisitorStorage scopes client to visitorID.
func NewVisitorStorage(client *redis.Client, visitorID string) *VisitorStorage {
	return &VisitorStorage{client: client, visitorID: visitorID}
}

func (s *VisitorStorage) Get(ctx context.Context, key string) (string, bool, error) {
	v, err := s.client.Get(ctx, s.key(key)).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("storage get %s: %w", key, err)
	}
	return v, true, nil
}

// Set writes value under key. A zero ttl keeps the key until it is deleted.
func (s *VisitorStorage) Set(ctx context.Context, key, value string, ttl time.Duration) error {
	if err := s.client.Set(ctx, s.key(key), value, ttl).Err(); err != nil {
		return fmt.Errorf("storage set %s: %w", key, err)
	}
	return nil
}

func (s *VisitorStorage) Delete(ctx context.Context, key string) error {
	if err := s.client.Del(ctx, s.key(key)).Err(); err != nil {
		return fmt.Errorf("storage delete %s: %w", key, err)
	}
	return nil
}

func (s *VisitorStorage) key(k string) string {
	return fmt.Sprintf("storefront:v:%s:%s", s.visitorID, k)
}
