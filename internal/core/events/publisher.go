package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

type Publisher interface {
	Publish(ctx context.Context, topic string, e *Event) error
	Close() error
}

// Nop 未配置 broker 时使用
type Nop struct{}

func (Nop) Publish(context.Context, string, *Event) error { return nil }
func (Nop) Close() error                                  { return nil }

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

type KafkaPublisher struct {
	w messageWriter
	l *zap.Logger
}

func NewKafkaPublisher(brokers []string, l *zap.Logger) *KafkaPublisher {
	w := &kafka.Writer{
		Addr:                   kafka.TCP(brokers...),
		Balancer:               &kafka.Hash{}, // 同一聚合落同一分区，保证顺序
		BatchSize:              100,
		BatchTimeout:           10 * time.Millisecond,
		RequiredAcks:           kafka.RequireAll,
		AllowAutoTopicCreation: true,
	}
	return &KafkaPublisher{w: w, l: l.Named("kafka")}
}

func (p *KafkaPublisher) Publish(ctx context.Context, topic string, e *Event) error {
	data, err := json.Marshal(e)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}
	msg := kafka.Message{
		Topic: topic,
		Key:   []byte(e.AggregateID),
		Value: data,
		Headers: []kafka.Header{
			{Key: "event_type", Value: []byte(e.Type)},
			{Key: "source", Value: []byte(e.Source)},
		},
	}
	if err := p.w.WriteMessages(ctx, msg); err != nil {
		p.l.Error("publish failed", zap.String("topic", topic), zap.String("type", e.Type), zap.Error(err))
		return fmt.Errorf("publish %s to %s: %w", e.Type, topic, err)
	}
	p.l.Debug("event published", zap.String("topic", topic), zap.String("type", e.Type), zap.String("aggregate", e.AggregateID))
	return nil
}

func (p *KafkaPublisher) Close() error { return p.w.Close() }
