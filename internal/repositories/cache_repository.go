package repositories

import (
	"context"
	"time"
)

type CacheRepositoryInterface interface {
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) error
	Get(ctx context.Context, key string) (string, error)
	Del(ctx context.Context, key ...string) error
}

// ErrCacheMiss возвращают реализации, когда ключа нет в кеше.
var ErrCacheMiss = errCacheMiss{}

type errCacheMiss struct{}

func (errCacheMiss) Error() string { return "ключ не найден в кеше" }
