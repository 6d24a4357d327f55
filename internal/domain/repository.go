package domain

import (
	"context"
	"time"
)

// KVStore defines the key-value store behind session persistence.
// A ttl of zero means the entry never expires.
type KVStore interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key string, value string, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}

// CatalogSource defines where the product catalog is loaded from
type CatalogSource interface {
	Load(ctx context.Context) ([]Product, error)
}
