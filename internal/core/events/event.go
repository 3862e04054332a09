package events

import (
	"encoding/json"
	"fmt"
	"time"

	"syriazone/pkg/utils"
)

const (
	TopicUsers  = "syriazone.users"
	TopicStores = "syriazone.stores"

	TypeUserRegistered = "user.registered"
	TypeUserBanned     = "user.banned"
	TypeStoreCreated   = "store.created"
	TypeStoreDeleted   = "store.deleted"
)

// Event 统一信封；Data 为具体载荷
type Event struct {
	ID          string          `json:"id"`
	Type        string          `json:"type"`
	AggregateID string          `json:"aggregateId"`
	Source      string          `json:"source"`
	OccurredAt  time.Time       `json:"occurredAt"`
	Data        json.RawMessage `json:"data,omitempty"`
}

func New(typ, aggregateID, source string, payload any) (*Event, error) {
	var raw json.RawMessage
	if payload != nil {
		b, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("marshal %s payload: %w", typ, err)
		}
		raw = b
	}
	return &Event{
		ID:          utils.NewID(),
		Type:        typ,
		AggregateID: aggregateID,
		Source:      source,
		OccurredAt:  time.Now().UTC(),
		Data:        raw,
	}, nil
}
