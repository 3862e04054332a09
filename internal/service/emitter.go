package service

import (
	"context"

	"go.uber.org/zap"

	"syriazone/internal/core/events"
)

// Emitter 发布领域事件；发布失败只记日志，不影响主流程
type Emitter struct {
	Pub    events.Publisher
	Source string
	L      *zap.Logger
}

func (e *Emitter) emit(ctx context.Context, topic, typ, aggregateID string, payload any) {
	if e == nil || e.Pub == nil {
		return
	}
	ev, err := events.New(typ, aggregateID, e.Source, payload)
	if err == nil {
		err = e.Pub.Publish(ctx, topic, ev)
	}
	if err != nil && e.L != nil {
		e.L.Warn("event dropped", zap.String("type", typ), zap.String("aggregate", aggregateID), zap.Error(err))
	}
}
