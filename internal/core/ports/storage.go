package ports

import (
	"context"
	"time"
)

// Storage is a durable key/value store scoped to one visitor.
type Storage interface {
	// Get returns the value under key. found is false when the key is absent.
	Get(ctx context.Context, key string) (value string, found bool, err error)
	Set(ctx context.Context, key, value string, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}

// SideChannel mirrors the credential and role where the route guard can read
// them without consulting the session.
type SideChannel interface {
	Mirror(token, role string)
	Clear()
}
