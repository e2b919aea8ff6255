package events

import (
	"context"
	"encoding/json"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// Channel is the Redis pub/sub channel consumers subscribe to for
// production record changes.
const Channel = "production_updates"

// Event is one record-change notification.
type Event struct {
	Entity string `json:"entity"` // production_order, workstation, quality_check
	Action string `json:"action"` // created, updated, deleted
	ID     uint   `json:"id"`
}

// Publisher fans record-change events out to Redis and to connected SSE
// clients. A nil Publisher, Redis client or hub disables that sink, so a
// Redis outage never blocks a write path.
type Publisher struct {
	rdb    *redis.Client
	hub    *Hub
	logger *zap.Logger
}

func NewPublisher(rdb *redis.Client, hub *Hub, logger *zap.Logger) *Publisher {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Publisher{rdb: rdb, hub: hub, logger: logger}
}

// Publish emits a record-change event. Failures are logged, never returned.
func (p *Publisher) Publish(ctx context.Context, entity, action string, id uint) {
	if p == nil {
		return
	}
	evt := Event{Entity: entity, Action: action, ID: id}
	payload, err := json.Marshal(evt)
	if err != nil {
		p.logger.Warn("Failed to marshal event", zap.Error(err))
		return
	}

	if p.hub != nil {
		p.hub.Broadcast(SSEEvent{
			EventType: entity + "_" + action,
			Data:      string(payload),
		})
	}

	if p.rdb != nil {
		if err := p.rdb.Publish(ctx, Channel, payload).Err(); err != nil {
			p.logger.Warn("Redis publish failed",
				zap.String("channel", Channel),
				zap.Error(err),
			)
		}
	}
}
