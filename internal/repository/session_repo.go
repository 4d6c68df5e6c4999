package repository

import (
	"context"
	"time"

	"github.com/TBosstradamus/pasha-vorschau-sub000/pkg/redis"
)

// SessionRepository 标签页级会话存储（sessionStorage 语义，随标签页关闭而清除）
type SessionRepository interface {
	Get(ctx context.Context, tabID, key string) (string, bool, error)
	Set(ctx context.Context, tabID, key, value string) error
	Delete(ctx context.Context, tabID, key string) error
	// Clear 删除标签页的全部会话数据
	Clear(ctx context.Context, tabID string) error
}

const sessionKeyPrefix = "session:"

// SessionKeyOfficerID 已登录警员 ID 的会话标记
const SessionKeyOfficerID = "loggedInOfficerId"

// sessionKeys 标签页可能写入的键，Clear 时逐个删除
var sessionKeys = []string{SessionKeyOfficerID}

// redisSessionRepo SessionRepository 的 Redis 实现，键随 TTL 过期
type redisSessionRepo struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisSessionRepo 创建 Redis 会话存储
func NewRedisSessionRepo(client *redis.Client, ttl time.Duration) SessionRepository {
	return &redisSessionRepo{client: client, ttl: ttl}
}

func sessionKey(tabID, key string) string {
	return sessionKeyPrefix + tabID + ":" + key
}

func (r *redisSessionRepo) Get(ctx context.Context, tabID, key string) (string, bool, error) {
	return r.client.Get(ctx, sessionKey(tabID, key))
}

func (r *redisSessionRepo) Set(ctx context.Context, tabID, key, value string) error {
	return r.client.Set(ctx, sessionKey(tabID, key), value, r.ttl)
}

func (r *redisSessionRepo) Delete(ctx context.Context, tabID, key string) error {
	return r.client.Del(ctx, sessionKey(tabID, key))
}

func (r *redisSessionRepo) Clear(ctx context.Context, tabID string) error {
	for _, k := range sessionKeys {
		if err := r.client.Del(ctx, sessionKey(tabID, k)); err != nil {
			return err
		}
	}
	return nil
}
