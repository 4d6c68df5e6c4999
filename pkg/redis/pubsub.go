package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/TBosstradamus/pasha-vorschau-sub000/pkg/pubsub"
)

// Bus 基于 Redis Pub/Sub 的存储变更事件总线，用于多进程部署
type Bus struct {
	client  *Client
	channel string
}

var _ pubsub.Bus = (*Bus)(nil)

// NewBus 创建事件总线
func (c *Client) NewBus(channel string) *Bus {
	return &Bus{client: c, channel: channel}
}

// Publish 发布存储变更事件
func (b *Bus) Publish(ctx context.Context, evt pubsub.Event) error {
	payload, err := json.Marshal(evt)
	if err != nil {
		return fmt.Errorf("序列化存储事件失败: %w", err)
	}
	return b.client.rdb.Publish(ctx, b.channel, payload).Err()
}

// Subscribe 订阅存储变更事件
func (b *Bus) Subscribe(ctx context.Context) (<-chan pubsub.Event, func(), error) {
	ps := b.client.rdb.Subscribe(ctx, b.channel)
	// 等待订阅确认，确保订阅返回后发布的事件不会丢失
	if _, err := ps.Receive(ctx); err != nil {
		ps.Close()
		return nil, nil, fmt.Errorf("订阅频道 %s 失败: %w", b.channel, err)
	}

	out := make(chan pubsub.Event, 64)
	// 收到的事件经 Offer 投递，消费方积压时只丢弃较旧的快照
	done := make(chan struct{})
	go func() {
		defer close(out)
		msgs := ps.Channel()
		for {
			select {
			case <-done:
				return
			case msg, ok := <-msgs:
				if !ok {
					return
				}
				var evt pubsub.Event
				if err := json.Unmarshal([]byte(msg.Payload), &evt); err != nil {
					b.client.logger.Warn("忽略无法解析的存储事件", zap.Error(err))
					continue
				}
				pubsub.Offer(out, evt)
			}
		}
	}()

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			close(done)
			ps.Close()
		})
	}
	return out, cancel, nil
}
