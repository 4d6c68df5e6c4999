package repository

import (
	"context"
	"sync"
)

// MemoryStorage 进程内键值存储（storage.driver=memory，亦用于测试）
type MemoryStorage struct {
	mu    sync.RWMutex
	items map[string]string
}

// NewMemoryStorage 创建空的内存存储
func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{items: make(map[string]string)}
}

func (m *MemoryStorage) GetItem(_ context.Context, key string) (string, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.items[key]
	return v, ok, nil
}

func (m *MemoryStorage) SetItem(_ context.Context, key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.items[key] = value
	return nil
}

func (m *MemoryStorage) RemoveItem(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.items, key)
	return nil
}

// MemorySessions 进程内会话标记存储
type MemorySessions struct {
	mu   sync.RWMutex
	tabs map[string]map[string]string
}

// NewMemorySessions 创建空的内存会话存储
func NewMemorySessions() *MemorySessions {
	return &MemorySessions{tabs: make(map[string]map[string]string)}
}

func (m *MemorySessions) Get(_ context.Context, tabID, key string) (string, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.tabs[tabID][key]
	return v, ok, nil
}

func (m *MemorySessions) Set(_ context.Context, tabID, key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.tabs[tabID] == nil {
		m.tabs[tabID] = make(map[string]string)
	}
	m.tabs[tabID][key] = value
	return nil
}

func (m *MemorySessions) Delete(_ context.Context, tabID, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.tabs[tabID], key)
	return nil
}

func (m *MemorySessions) Clear(_ context.Context, tabID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.tabs, tabID)
	return nil
}
