package cache

import (
	"fmt"
	"io"
	"time"

	"github.com/courierdash/backend/internal/infrastructure/courier"
)

const (
	DriverMemory = "memory"
	DriverRedis  = "redis"
)

// TokenStore is a courier.TokenStore that must be closed on shutdown
type TokenStore interface {
	courier.TokenStore
	io.Closer
}

// NewTokenStore builds the token store selected by driver
func NewTokenStore(driver string, redisCfg RedisConfig, keyPrefix string) (TokenStore, error) {
	switch driver {
	case "", DriverMemory:
		return NewInMemoryTokenStore(5 * time.Minute), nil
	case DriverRedis:
		return NewRedisTokenStore(redisCfg, keyPrefix)
	default:
		return nil, fmt.Errorf("cache: unknown token store driver %q", driver)
	}
}
