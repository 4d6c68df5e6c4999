// Package pubsub 定义存储变更事件总线
//
// 浏览器中 storage 事件只会在"其他"标签页触发；这里事件带上写入方标识 Origin，
// 订阅方自行忽略自己发出的事件，从而得到相同的语义。
package pubsub

import (
	"context"
	"sync"
)

// Event 存储变更事件
type Event struct {
	Key      string `json:"key"`
	NewValue string `json:"new_value"`
	Origin   string `json:"origin"`
}

// Bus 存储变更事件总线
type Bus interface {
	Publish(ctx context.Context, evt Event) error
	// Subscribe 返回事件通道与取消函数；取消后通道关闭
	Subscribe(ctx context.Context) (<-chan Event, func(), error)
}

const subscriberBuffer = 64

// MemoryBus 进程内事件总线
type MemoryBus struct {
	mu     sync.RWMutex
	nextID int
	subs   map[int]chan Event
}

// NewMemoryBus 创建进程内事件总线
func NewMemoryBus() *MemoryBus {
	return &MemoryBus{subs: make(map[int]chan Event)}
}

// Publish 向所有订阅者投递事件
func (b *MemoryBus) Publish(_ context.Context, evt Event) error {
	b.mu.RLock()
	defer b.mu.RUnlock()
	for _, ch := range b.subs {
		Offer(ch, evt)
	}
	return nil
}

// Offer 非阻塞投递；缓冲区已满时丢弃最旧的事件为新事件腾出位置
// 每个事件都携带完整快照，订阅方只需要最新的一份。
func Offer(ch chan Event, evt Event) {
	for {
		select {
		case ch <- evt:
			return
		default:
		}
		select {
		case <-ch:
		default:
		}
	}
}

// Subscribe 注册订阅者
func (b *MemoryBus) Subscribe(_ context.Context) (<-chan Event, func(), error) {
	b.mu.Lock()
	id := b.nextID
	b.nextID++
	ch := make(chan Event, subscriberBuffer)
	b.subs[id] = ch
	b.mu.Unlock()

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			b.mu.Lock()
			delete(b.subs, id)
			close(ch)
			b.mu.Unlock()
		})
	}
	return ch, cancel, nil
}
