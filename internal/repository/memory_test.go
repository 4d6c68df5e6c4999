package repository

import (
	"context"
	"testing"

	"go.uber.org/zap"

	"github.com/TBosstradamus/pasha-vorschau-sub000/config"
)

func TestMemoryStorage_SetGetRemove(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStorage()

	if _, ok, _ := s.GetItem(ctx, "k"); ok {
		t.Fatal("空存储不应命中")
	}
	_ = s.SetItem(ctx, "k", "a")
	_ = s.SetItem(ctx, "k", "b")
	if v, ok, _ := s.GetItem(ctx, "k"); !ok || v != "b" {
		t.Fatalf("期望后写覆盖为 b, 实际 %q ok=%v", v, ok)
	}
	_ = s.RemoveItem(ctx, "k")
	if _, ok, _ := s.GetItem(ctx, "k"); ok {
		t.Fatal("删除后不应命中")
	}
}

func TestMemorySessions_IsolatedPerTab(t *testing.T) {
	ctx := context.Background()
	s := NewMemorySessions()

	_ = s.Set(ctx, "tab-a", SessionKeyOfficerID, "o1")
	if _, ok, _ := s.Get(ctx, "tab-b", SessionKeyOfficerID); ok {
		t.Fatal("会话标记不应跨标签页可见")
	}
	if v, ok, _ := s.Get(ctx, "tab-a", SessionKeyOfficerID); !ok || v != "o1" {
		t.Fatalf("期望 o1, 实际 %q", v)
	}

	_ = s.Clear(ctx, "tab-a")
	if _, ok, _ := s.Get(ctx, "tab-a", SessionKeyOfficerID); ok {
		t.Fatal("Clear 后不应命中")
	}
}

func TestOpen_MemoryDrivers(t *testing.T) {
	cfg := &config.Config{Storage: config.StorageConfig{Driver: "memory", SessionDriver: "memory"}}
	repo, closer, err := Open(cfg, nil, zap.NewNop())
	if err != nil {
		t.Fatalf("Open 失败: %v", err)
	}
	defer closer()

	if _, ok := repo.Storage.(*MemoryStorage); !ok {
		t.Errorf("期望 MemoryStorage, 实际 %T", repo.Storage)
	}
	if _, ok := repo.Session.(*MemorySessions); !ok {
		t.Errorf("期望 MemorySessions, 实际 %T", repo.Session)
	}
}

func TestOpen_RedisDriverWithoutClient(t *testing.T) {
	cfg := &config.Config{Storage: config.StorageConfig{Driver: "redis", SessionDriver: "memory"}}
	if _, _, err := Open(cfg, nil, zap.NewNop()); err == nil {
		t.Fatal("缺少 Redis 客户端时应返回错误")
	}
}
