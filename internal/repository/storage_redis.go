package repository

import (
	"context"
	"fmt"

	pkgerrors "github.com/TBosstradamus/pasha-vorschau-sub000/pkg/errors"
	"github.com/TBosstradamus/pasha-vorschau-sub000/pkg/redis"
)

const storageKeyPrefix = "storage:"

// redisStorageRepo StorageRepository 的 Redis 实现，键永不过期
type redisStorageRepo struct {
	client *redis.Client
}

// NewRedisStorageRepo 创建 Redis 键值存储
func NewRedisStorageRepo(client *redis.Client) StorageRepository {
	return &redisStorageRepo{client: client}
}

func (r *redisStorageRepo) GetItem(ctx context.Context, key string) (string, bool, error) {
	return r.client.Get(ctx, storageKeyPrefix+key)
}

func (r *redisStorageRepo) SetItem(ctx context.Context, key, value string) error {
	if err := r.client.Set(ctx, storageKeyPrefix+key, value, 0); err != nil {
		return fmt.Errorf("%w: %v", pkgerrors.ErrStorageUnavailable, err)
	}
	return nil
}

func (r *redisStorageRepo) RemoveItem(ctx context.Context, key string) error {
	return r.client.Del(ctx, storageKeyPrefix+key)
}
