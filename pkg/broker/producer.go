// Package broker 将审计日志条目异步写入 Kafka，供外部系统消费
package broker

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"

	"github.com/TBosstradamus/pasha-vorschau-sub000/internal/model"
)

// Producer 审计流生产者
type Producer struct {
	logger *zap.Logger
	w      *kafka.Writer
	topic  string
}

// NewProducer 创建审计流生产者（异步写入，失败只记录日志）
func NewProducer(logger *zap.Logger, brokers []string, topic string) *Producer {
	logger = logger.Named("kafka").With(zap.String("topic", topic))

	w := &kafka.Writer{
		Addr:                   kafka.TCP(brokers...),
		Balancer:               &kafka.LeastBytes{},
		Async:                  true,
		Logger:                 kafka.LoggerFunc(logger.Sugar().Debugf),
		ErrorLogger:            kafka.LoggerFunc(logger.Sugar().Errorf),
		AllowAutoTopicCreation: true,
	}

	return &Producer{logger: logger, w: w, topic: topic}
}

// AuditEvent 审计流消息体
type AuditEvent struct {
	Type  string      `json:"type"`
	Entry model.ITLog `json:"entry"`
}

// PublishLogs 发布新增审计条目，按条目 ID 作为消息 Key
func (p *Producer) PublishLogs(ctx context.Context, logs []model.ITLog) {
	if len(logs) == 0 {
		return
	}
	msgs := make([]kafka.Message, 0, len(logs))
	for _, entry := range logs {
		b, err := json.Marshal(AuditEvent{Type: "it_log", Entry: entry})
		if err != nil {
			p.logger.Error("序列化审计条目失败", zap.String("log_id", entry.ID), zap.Error(err))
			continue
		}
		msgs = append(msgs, kafka.Message{
			Key:   []byte(entry.ID),
			Value: b,
			Topic: p.topic,
		})
	}
	if err := p.w.WriteMessages(ctx, msgs...); err != nil {
		p.logger.Error(fmt.Sprintf("写入 Kafka 失败: %s", err))
	}
}

// Close 关闭写入器
func (p *Producer) Close() {
	if err := p.w.Close(); err != nil {
		p.logger.Error("关闭 Kafka 写入器失败", zap.Error(err))
	}
}
